//go:build integration || unit || test

package gitfixtures //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// FixtureRepo describes a repository to create on disk.
type FixtureRepo struct {
	Files map[string]string // Map of filename to content
	// AnnotatedTags and LightweightTags point at the single commit.
	AnnotatedTags   []string
	LightweightTags []string
	// Branches are created next to the default branch, at the same commit.
	Branches []string
}

// CreateFixtureRepo creates a non-bare repository at dir with one commit
// holding config.Files, and returns the hash of that commit.
func CreateFixtureRepo(t *testing.T, dir string, config FixtureRepo) plumbing.Hash {
	t.Helper()

	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("Failed to init repository: %v", err)
	}

	workTree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}

	for filename, content := range config.Files {
		filePath := filepath.Join(dir, filepath.FromSlash(filename))
		if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", filename, err)
		}
		if err := os.WriteFile(filePath, []byte(content), 0o644); err != nil { //nolint:gosec // fixture files
			t.Fatalf("Failed to write file %s: %v", filename, err)
		}
		if _, err := workTree.Add(filename); err != nil {
			t.Fatalf("Failed to add file %s: %v", filename, err)
		}
	}

	signature := &object.Signature{
		Name:  "Test Author",
		Email: "test@example.com",
		When:  time.Now(),
	}
	commitHash, err := workTree.Commit("Initial commit", &git.CommitOptions{Author: signature})
	if err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}

	for _, tag := range config.AnnotatedTags {
		if _, err := repo.CreateTag(tag, commitHash, &git.CreateTagOptions{
			Tagger:  signature,
			Message: "Release " + tag,
		}); err != nil {
			t.Fatalf("Failed to create tag %s: %v", tag, err)
		}
	}

	for _, tag := range config.LightweightTags {
		ref := plumbing.NewHashReference(plumbing.NewTagReferenceName(tag), commitHash)
		if err := repo.Storer.SetReference(ref); err != nil {
			t.Fatalf("Failed to create tag %s: %v", tag, err)
		}
	}

	for _, branch := range config.Branches {
		ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(branch), commitHash)
		if err := repo.Storer.SetReference(ref); err != nil {
			t.Fatalf("Failed to create branch %s: %v", branch, err)
		}
	}

	return commitHash
}
