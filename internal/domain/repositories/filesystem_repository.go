package repositories

import "context"

// FileSystemRepository holds the filesystem operations of the pipeline. Each
// operation leaves its target either fully present or fully absent.
type FileSystemRepository interface {
	// MkdirTemp creates a new, uniquely named directory under dir.
	MkdirTemp(dir, pattern string) (string, error)
	// MkdirAll creates dir and any missing parents.
	MkdirAll(dir string) error
	// RemoveAll removes path and everything below it. A missing path is not an error.
	RemoveAll(path string) error
	// CopyTree copies the content of src into dst, stopping at the first error.
	CopyTree(src, dst string) error
	// ReadFile returns the content of a file.
	ReadFile(path string) ([]byte, error)
	// Exists reports whether path exists.
	Exists(path string) bool
	// TreeSize returns the total size in bytes of the regular files below dir.
	TreeSize(dir string) (int64, error)
	// Lock takes an exclusive lock tied to path and returns its release function.
	Lock(ctx context.Context, path string) (func(), error)
}
