//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Orbs/jspm-git/internal/domain/entities"
	"github.com/Orbs/jspm-git/test/domain/entitybuilders"
)

const (
	tagObjectHash = "1111111111111111111111111111111111111111"
	commitHash    = "2222222222222222222222222222222222222222"
	branchHash    = "3333333333333333333333333333333333333333"
)

func TestParseRemoteRefs(t *testing.T) {
	t.Parallel()

	t.Run("should map tags to stable versions and branches to unstable ones", func(t *testing.T) {
		t.Parallel()

		// given
		output := entitybuilders.NewRefListingBuilder().
			WithTag(commitHash, "1.0.0").
			WithBranch(branchHash, "master").
			BuildOutput()

		// when
		versions := entities.ParseRemoteRefs(output)

		// then
		require.Len(t, versions, 2)
		assert.Equal(t, entities.VersionRecord{Hash: commitHash, Stable: true}, versions["1.0.0"])
		assert.Equal(t, entities.VersionRecord{Hash: branchHash, Stable: false}, versions["master"])
	})

	t.Run("should strip the v prefix of a full semantic version", func(t *testing.T) {
		t.Parallel()

		// given
		output := entitybuilders.NewRefListingBuilder().
			WithTag(commitHash, "v1.2.0").
			WithTag(tagObjectHash, "v2.0.0-rc.1").
			BuildOutput()

		// when
		versions := entities.ParseRemoteRefs(output)

		// then
		require.Contains(t, versions, "1.2.0")
		require.Contains(t, versions, "2.0.0-rc.1")
		assert.True(t, versions["1.2.0"].Meta.VPrefix)
		assert.True(t, versions["2.0.0-rc.1"].Meta.VPrefix)
		assert.Equal(t, "v1.2.0", versions["1.2.0"].RefName("1.2.0"))
	})

	t.Run("should keep the v of names that are not full semantic versions", func(t *testing.T) {
		t.Parallel()

		// given
		output := entitybuilders.NewRefListingBuilder().
			WithTag(commitHash, "v1.2").
			WithTag(commitHash, "v1").
			WithBranch(branchHash, "vnext").
			BuildOutput()

		// when
		versions := entities.ParseRemoteRefs(output)

		// then
		assert.Contains(t, versions, "v1.2")
		assert.Contains(t, versions, "v1")
		assert.Contains(t, versions, "vnext")
		assert.False(t, versions["v1.2"].Meta.VPrefix)
	})

	t.Run("should prefer the peeled commit when it comes after the tag object", func(t *testing.T) {
		t.Parallel()

		// given
		output := entitybuilders.NewRefListingBuilder().
			WithTag(tagObjectHash, "v1.0.0").
			WithPeeledTag(commitHash, "v1.0.0").
			BuildOutput()

		// when
		versions := entities.ParseRemoteRefs(output)

		// then
		require.Len(t, versions, 1)
		assert.Equal(t, commitHash, versions["1.0.0"].Hash)
		assert.True(t, versions["1.0.0"].Stable)
	})

	t.Run("should prefer the peeled commit when it comes before the tag object", func(t *testing.T) {
		t.Parallel()

		// given
		output := entitybuilders.NewRefListingBuilder().
			WithPeeledTag(commitHash, "v1.0.0").
			WithTag(tagObjectHash, "v1.0.0").
			BuildOutput()

		// when
		versions := entities.ParseRemoteRefs(output)

		// then
		assert.Equal(t, commitHash, versions["1.0.0"].Hash)
	})

	t.Run("should skip blank lines, lines without a tab and other refs", func(t *testing.T) {
		t.Parallel()

		// given
		output := entitybuilders.NewRefListingBuilder().
			WithLine("").
			WithLine("not a ref line").
			WithLine(commitHash + "\tHEAD").
			WithLine(commitHash + "\trefs/pull/1/head").
			WithLine(commitHash + "\trefs/tags/1.0.0\r").
			BuildOutput()

		// when
		versions := entities.ParseRemoteRefs(output)

		// then
		require.Len(t, versions, 1)
		assert.Contains(t, versions, "1.0.0")
	})

	t.Run("should return an empty map for empty output", func(t *testing.T) {
		t.Parallel()

		// given
		var output []byte

		// when
		versions := entities.ParseRemoteRefs(output)

		// then
		assert.NotNil(t, versions)
		assert.Empty(t, versions)
	})

	t.Run("should return the same map when parsing the same output twice", func(t *testing.T) {
		t.Parallel()

		// given
		output := entitybuilders.NewRefListingBuilder().
			WithTag(tagObjectHash, "v3.1.4").
			WithPeeledTag(commitHash, "v3.1.4").
			WithBranch(branchHash, "feature/x").
			BuildOutput()

		// when
		first := entities.ParseRemoteRefs(output)
		second := entities.ParseRemoteRefs(output)

		// then
		assert.Equal(t, first, second)
		assert.Contains(t, first, "feature/x")
	})
}

func TestNormalizeVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		vPrefix bool
	}{
		{name: "full semver with v", input: "v1.2.3", want: "1.2.3", vPrefix: true},
		{name: "full semver with build metadata", input: "v1.2.3+build.5", want: "1.2.3+build.5", vPrefix: true},
		{name: "full semver without v", input: "1.2.3", want: "1.2.3"},
		{name: "two component version", input: "v1.2", want: "v1.2"},
		{name: "branch name", input: "master", want: "master"},
		{name: "v alone", input: "v", want: "v"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// when
			got, meta := entities.NormalizeVersion(tt.input)

			// then
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.vPrefix, meta.VPrefix)
		})
	}
}
