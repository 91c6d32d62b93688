//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"strings"
	"sync"

	"github.com/Orbs/jspm-git/internal/domain/repositories"
)

// FaultyFileSystem wraps a real repositories.FileSystemRepository and injects
// failures into selected operations.
type FaultyFileSystem struct {
	repositories.FileSystemRepository

	mu sync.Mutex

	CopyTreeErr error
	ReadFileErr error
	// RemoveAllErr is returned for every path ending with RemoveAllSuffix.
	RemoveAllErr    error
	RemoveAllSuffix string

	RemovedPaths []string
}

var _ repositories.FileSystemRepository = (*FaultyFileSystem)(nil)

func (f *FaultyFileSystem) CopyTree(src, dst string) error {
	if f.CopyTreeErr != nil {
		return f.CopyTreeErr
	}
	return f.FileSystemRepository.CopyTree(src, dst)
}

func (f *FaultyFileSystem) ReadFile(path string) ([]byte, error) {
	if f.ReadFileErr != nil {
		return nil, f.ReadFileErr
	}
	return f.FileSystemRepository.ReadFile(path)
}

func (f *FaultyFileSystem) RemoveAll(path string) error {
	f.mu.Lock()
	f.RemovedPaths = append(f.RemovedPaths, path)
	f.mu.Unlock()

	if f.RemoveAllErr != nil && strings.HasSuffix(path, f.RemoveAllSuffix) {
		return f.RemoveAllErr
	}
	return f.FileSystemRepository.RemoveAll(path)
}
