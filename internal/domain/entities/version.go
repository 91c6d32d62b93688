package entities

import (
	"sort"
	"strings"

	"golang.org/x/mod/semver"
)

// VersionMeta carries the bookkeeping needed to turn a normalized version back
// into the ref name that exists on the remote.
type VersionMeta struct {
	VPrefix bool `json:"vPrefix,omitempty" yaml:"vPrefix,omitempty"`
}

// VersionRecord is one resolvable version of a remote repository.
// Stable is false when the record was sourced from a movable branch head.
type VersionRecord struct {
	Hash   string      `json:"hash"          yaml:"hash"`
	Stable bool        `json:"stable"        yaml:"stable"`
	Meta   VersionMeta `json:"meta,omitzero" yaml:"meta,omitempty"`
}

// RefName returns the name of the remote ref the record was read from.
func (r VersionRecord) RefName(version string) string {
	return RefNameFor(version, r.Meta)
}

// RefNameFor re-prepends the "v" stripped during normalization.
func RefNameFor(version string, meta VersionMeta) string {
	if meta.VPrefix {
		return "v" + version
	}
	return version
}

// VersionMap maps a normalized version string to its record.
type VersionMap map[string]VersionRecord

// Sorted returns the versions newest first: valid semantic versions in
// descending precedence, then everything else in lexical order.
func (m VersionMap) Sorted() []string {
	versions := make([]string, 0, len(m))
	for version := range m {
		versions = append(versions, version)
	}

	sort.Slice(versions, func(i, j int) bool {
		vi, vj := "v"+versions[i], "v"+versions[j]
		validI, validJ := semver.IsValid(vi), semver.IsValid(vj)
		switch {
		case validI && validJ:
			if c := semver.Compare(vi, vj); c != 0 {
				return c > 0
			}
			return versions[i] < versions[j]
		case validI != validJ:
			return validI
		default:
			return versions[i] < versions[j]
		}
	})

	return versions
}

// LookupResult is the outcome of resolving the versions of a repository.
// NotFound is a successful outcome: the remote repository does not exist.
type LookupResult struct {
	Versions VersionMap
	NotFound bool
}

// isFullSemver reports whether v (with its leading "v") is a complete
// major.minor.patch semantic version. x/mod accepts "v1" and "v1.2" as
// shorthands, which are not versions a tag name can be normalized from.
func isFullSemver(v string) bool {
	if !semver.IsValid(v) {
		return false
	}
	core := strings.TrimPrefix(v, "v")
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core = core[:i]
	}
	return strings.Count(core, ".") == 2
}
