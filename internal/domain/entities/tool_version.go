package entities

import (
	"fmt"
	"regexp"

	"golang.org/x/mod/semver"
)

// SingleBranchThreshold is the first git release able to clone a single
// branch or tag with "--single-branch --branch".
const SingleBranchThreshold = "v1.7.10"

// CloneMode selects how a revision is materialized.
type CloneMode int

const (
	// CloneModeLegacy performs a full clone followed by a checkout.
	CloneModeLegacy CloneMode = iota
	// CloneModeModern clones the wanted ref directly, shallow when enabled.
	CloneModeModern
)

func (m CloneMode) String() string {
	if m == CloneModeModern {
		return "modern"
	}
	return "legacy"
}

var toolVersionPattern = regexp.MustCompile(`(\d+)\.(\d+)(?:\.(\d+))?`)

// ParseToolVersion extracts a semantic version ("v2.39.2") from the output
// of "git --version", e.g. "git version 2.39.2.windows.1".
func ParseToolVersion(output string) (string, bool) {
	match := toolVersionPattern.FindStringSubmatch(output)
	if match == nil {
		return "", false
	}
	patch := match[3]
	if patch == "" {
		patch = "0"
	}
	version := fmt.Sprintf("v%s.%s.%s", match[1], match[2], patch)
	return version, semver.IsValid(version)
}

// DetectCloneMode decides the clone mode from the tool version output.
// Unrecognised output falls back to the legacy mode, which every release
// supports.
func DetectCloneMode(versionOutput string) CloneMode {
	version, ok := ParseToolVersion(versionOutput)
	if !ok || semver.Compare(version, SingleBranchThreshold) < 0 {
		return CloneModeLegacy
	}
	return CloneModeModern
}
