//go:build integration

package internal_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Orbs/jspm-git/internal"
	"github.com/Orbs/jspm-git/internal/domain/commands"
	"github.com/Orbs/jspm-git/internal/domain/entities"
	"github.com/Orbs/jspm-git/internal/domain/repositories"
	"github.com/Orbs/jspm-git/internal/infrastructure/repositories/filesystem"
	"github.com/Orbs/jspm-git/internal/infrastructure/repositories/gate"
	gitRepo "github.com/Orbs/jspm-git/internal/infrastructure/repositories/git"
	"github.com/Orbs/jspm-git/test/domain/entitybuilders"
	"github.com/Orbs/jspm-git/test/infrastructure/gitfixtures"
)

func TestGitLocationAgainstLocalRemote(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file:// base locations use POSIX paths")
	}
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git is not installed")
	}

	// given
	remotes := t.TempDir()
	head := gitfixtures.CreateFixtureRepo(t, filepath.Join(remotes, "org", "lib.git"), gitfixtures.FixtureRepo{
		Files: map[string]string{
			"package.json": `{"name":"lib","dependencies":{"left-pad":"^1.0.0"}}`,
			"lib.js":       "module.exports = 42;",
			"src/util.js":  "exports.id = (x) => x;",
		},
		AnnotatedTags:   []string{"v1.0.0", "v1.2.0"},
		LightweightTags: []string{"0.9.0"},
		Branches:        []string{"main", "develop"},
	})

	settings := entitybuilders.NewSettingsBuilder().
		WithBaseURL("file://" + remotes).
		WithTmpDir(t.TempDir()).
		BuildSettings()
	location, err := internal.NewLocation(settings, nil)
	require.NoError(t, err)
	defer location.Dispose()
	ctx := context.Background()

	t.Run("should list tags and branches", func(t *testing.T) {
		// when
		result, lookupErr := location.Lookup(ctx, "org/lib")

		// then
		require.NoError(t, lookupErr)
		assert.False(t, result.NotFound)
		assert.Equal(t, entities.VersionRecord{
			Hash: head.String(), Stable: true, Meta: entities.VersionMeta{VPrefix: true},
		}, result.Versions["1.0.0"])
		assert.True(t, result.Versions["1.2.0"].Meta.VPrefix)
		assert.Equal(t, head.String(), result.Versions["0.9.0"].Hash)
		assert.False(t, result.Versions["0.9.0"].Meta.VPrefix)
		assert.False(t, result.Versions["main"].Stable)
		assert.False(t, result.Versions["develop"].Stable)
		assert.False(t, result.Versions["master"].Stable)
	})

	t.Run("should report a missing repository", func(t *testing.T) {
		// when
		result, lookupErr := location.Lookup(ctx, "org/missing")

		// then
		require.NoError(t, lookupErr)
		assert.True(t, result.NotFound)
	})

	t.Run("should download a tagged version without metadata", func(t *testing.T) {
		// given
		outDir := filepath.Join(t.TempDir(), "lib@1.0.0")

		// when
		result, downloadErr := location.Download(ctx, commands.DownloadRequest{
			RepoID:  "org/lib",
			Version: "1.0.0",
			Hash:    head.String(),
			Meta:    entities.VersionMeta{VPrefix: true},
			OutDir:  outDir,
		})
		require.NoError(t, downloadErr)
		processed, processErr := location.ProcessPackage(ctx, result.Manifest, "git:org/lib@1.0.0", outDir)

		// then
		require.NoError(t, processErr)
		assert.Equal(t, entities.Manifest{"name": "lib", "main": "lib"}, processed)
		assert.FileExists(t, filepath.Join(outDir, "src", "util.js"))
		assert.NoDirExists(t, filepath.Join(outDir, ".git"))
	})

	t.Run("should fail with a retriable error for an unknown version", func(t *testing.T) {
		// when
		_, downloadErr := location.Download(ctx, commands.DownloadRequest{
			RepoID:  "org/lib",
			Version: "9.9.9",
			OutDir:  filepath.Join(t.TempDir(), "out"),
		})

		// then
		assert.True(t, entities.IsRetriable(downloadErr))
	})
}

// reportedVersion makes a real git look like another release.
type reportedVersion struct {
	repositories.GitRepository
	output string
}

func (r reportedVersion) Version(context.Context, repositories.ToolOptions) (string, error) {
	return r.output, nil
}

// treeDigest maps every regular file below root to the digest of its content.
func treeDigest(t *testing.T, root string) map[string]string {
	t.Helper()
	digests := map[string]string{}
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return err
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return readErr
		}
		rel, _ := filepath.Rel(root, path)
		sum := sha256.Sum256(data)
		digests[filepath.ToSlash(rel)] = hex.EncodeToString(sum[:])
		return nil
	})
	require.NoError(t, err)
	return digests
}

func TestMaterializerModesProduceIdenticalTrees(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file:// base locations use POSIX paths")
	}
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git is not installed")
	}

	// given
	remotes := t.TempDir()
	gitfixtures.CreateFixtureRepo(t, filepath.Join(remotes, "org", "lib.git"), gitfixtures.FixtureRepo{
		Files: map[string]string{
			"package.json":  `{"name":"lib"}`,
			"index.js":      "module.exports = 1;",
			"nested/a/b.js": "exports.b = true;",
		},
		AnnotatedTags: []string{"v1.2.0"},
	})
	settings := entitybuilders.NewSettingsBuilder().
		WithBaseURL("file://" + remotes).
		WithTmpDir(t.TempDir()).
		BuildSettings()

	runner, err := gitRepo.NewExecRunner(settings.GitBinary, nil)
	require.NoError(t, err)
	realGit := gitRepo.NewCLIRepository(gate.NewProcessGate(runner, 0, nil))
	fileSystem := filesystem.NewOSRepository(nil)
	req := commands.MaterializeRequest{RepoID: "org/lib", Version: "1.2.0", Meta: entities.VersionMeta{VPrefix: true}}

	modern := commands.NewMaterializer(settings, reportedVersion{realGit, "git version 2.43.0"}, fileSystem, nil)
	legacy := commands.NewMaterializer(settings, reportedVersion{realGit, "git version 1.7.0"}, fileSystem, nil)

	// when
	modernTree, modernErr := modern.Materialize(context.Background(), req)
	require.NoError(t, modernErr)
	legacyTree, legacyErr := legacy.Materialize(context.Background(), req)
	require.NoError(t, legacyErr)

	// then
	assert.Equal(t, treeDigest(t, modernTree), treeDigest(t, legacyTree))
	assert.NoDirExists(t, filepath.Join(modernTree, ".git"))
	assert.NoDirExists(t, filepath.Join(legacyTree, ".git"))
	assert.Len(t, treeDigest(t, modernTree), 3)
}
