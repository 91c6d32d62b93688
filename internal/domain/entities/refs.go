package entities

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

const (
	branchPrefix = "refs/heads/"
	tagPrefix    = "refs/tags/"
	peeledSuffix = "^{}"
)

// ParseRemoteRefs turns the line-oriented output of a remote ref listing
// ("<hash>\t<ref name>") into a version map.
//
// Behaviour:
//   - Blank lines and lines without a tab are skipped.
//   - Branch heads become versions with Stable set to false.
//   - Tags become stable versions. A peeled line ("<tag>^{}") reports the
//     commit an annotated tag points to and always wins over the tag object
//     hash of the same name, whatever the line order.
//   - A "v" prefix followed by a full semantic version is stripped and
//     recorded in Meta.VPrefix.
func ParseRemoteRefs(output []byte) VersionMap {
	versions := make(VersionMap)
	peeled := make(map[string]bool)

	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		hash, refName, ok := strings.Cut(line, "\t")
		if !ok || hash == "" {
			continue
		}

		version, record, isPeeled, ok := parseRef(hash, refName)
		if !ok {
			continue
		}

		if peeled[version] && record.Stable && !isPeeled {
			// the dereferenced commit is already recorded for this tag
			continue
		}

		versions[version] = record
		peeled[version] = isPeeled
	}

	return versions
}

// parseRef classifies a single ref and returns its normalized version.
func parseRef(hash, refName string) (string, VersionRecord, bool, bool) {
	name := plumbing.ReferenceName(strings.TrimSpace(refName))

	var (
		version  string
		stable   bool
		isPeeled bool
	)

	switch {
	case name.IsBranch():
		version = strings.TrimPrefix(name.String(), branchPrefix)
	case name.IsTag():
		version = strings.TrimPrefix(name.String(), tagPrefix)
		if strings.HasSuffix(version, peeledSuffix) {
			version = strings.TrimSuffix(version, peeledSuffix)
			isPeeled = true
		}
		stable = true
	default:
		return "", VersionRecord{}, false, false
	}

	if version == "" {
		return "", VersionRecord{}, false, false
	}

	version, meta := NormalizeVersion(version)

	return version, VersionRecord{Hash: hash, Stable: stable, Meta: meta}, isPeeled, true
}

// NormalizeVersion strips a literal "v" in front of a full semantic version.
func NormalizeVersion(version string) (string, VersionMeta) {
	if strings.HasPrefix(version, "v") && isFullSemver(version) {
		return version[1:], VersionMeta{VPrefix: true}
	}
	return version, VersionMeta{}
}
