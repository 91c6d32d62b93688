package entities

import (
	"fmt"
	"path"
	"strings"
)

// ManifestFileName is the package descriptor read from a fetched tree.
const ManifestFileName = "package.json"

// dependencyFields are the manifest fields describing runtime dependencies.
var dependencyFields = []string{ //nolint:gochecknoglobals // read-only lookup table
	"dependencies",
	"peerDependencies",
	"optionalDependencies",
}

// Manifest is the decoded package descriptor of a fetched package.
type Manifest map[string]any

// Clone returns a shallow copy of the manifest.
func (m Manifest) Clone() Manifest {
	clone := make(Manifest, len(m))
	for key, value := range m {
		clone[key] = value
	}
	return clone
}

// String returns the string value of key, or "" when absent or not a string.
func (m Manifest) String(key string) string {
	value, _ := m[key].(string)
	return value
}

// ProcessPackageConfig strips the dependency fields of a manifest that
// declares dependencies without saying which registry they come from, either
// through a top-level "registry" or through a "jspm" override block. A field
// counts as declared when it is present, even empty. The returned warnings
// explain the suppression of non-empty fields; the input is not modified.
func ProcessPackageConfig(manifest Manifest, packageID string) (Manifest, []string) {
	processed := manifest.Clone()

	if !declaresDependencies(processed) {
		return processed, nil
	}
	if registry, ok := processed["registry"]; ok && registry != nil && registry != "" {
		return processed, nil
	}
	if override, ok := processed["jspm"].(map[string]any); ok && declaresDependencies(override) {
		return processed, nil
	}

	suppressed := listsDependencies(processed)
	for _, field := range dependencyFields {
		delete(processed, field)
	}
	if !suppressed {
		return processed, nil
	}

	warning := fmt.Sprintf(
		"Package `%s` has no \"registry\" property in its package.json, so its dependencies are ignored. "+
			"Dependencies resolved from a Git tree cannot be trusted to point at a package registry; "+
			"set \"registry\" or a \"jspm\" override block to install them.",
		packageID,
	)
	return processed, []string{warning}
}

// EntryPointCandidates lists the files tried, in order, when a manifest has
// no "main": "index.js" and "<package name>.js".
func EntryPointCandidates(packageID string) []string {
	candidates := []string{"index.js"}
	if name := PackageBaseName(packageID); name != "" && name != "index" {
		candidates = append(candidates, name+".js")
	}
	return candidates
}

// PackageBaseName returns the last path segment of a package id without its
// registry prefix or "@version" suffix: "git:org/name@1.0.0" -> "name".
func PackageBaseName(packageID string) string {
	if _, rest, ok := strings.Cut(packageID, ":"); ok {
		packageID = rest
	}
	name := path.Base(packageID)
	if i := strings.LastIndex(name, "@"); i > 0 {
		name = name[:i]
	}
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// declaresDependencies reports whether any dependency field is present.
func declaresDependencies(fields map[string]any) bool {
	for _, field := range dependencyFields {
		if value, ok := fields[field]; ok && value != nil {
			return true
		}
	}
	return false
}

// listsDependencies reports whether any dependency field holds at least one entry.
func listsDependencies(fields map[string]any) bool {
	for _, field := range dependencyFields {
		if deps, ok := fields[field].(map[string]any); ok && len(deps) > 0 {
			return true
		}
	}
	return false
}
