package filesystem

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/gofrs/flock"
	logger "github.com/sirupsen/logrus"

	"github.com/Orbs/jspm-git/internal/domain/entities"
)

const (
	dirPerm        = 0o755
	lockRetryDelay = 100 * time.Millisecond
)

// OSRepository implements repositories.FileSystemRepository on the local disk.
type OSRepository struct {
	log logger.FieldLogger
}

// NewOSRepository creates an OSRepository.
func NewOSRepository(log logger.FieldLogger) *OSRepository {
	if log == nil {
		log = entities.NewNopLogger()
	}
	return &OSRepository{log: log}
}

// MkdirTemp creates dir when missing and a new unique directory inside it.
func (it *OSRepository) MkdirTemp(dir, pattern string) (string, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return "", fmt.Errorf("failed to create temp root: %w", err)
		}
	}
	path, err := os.MkdirTemp(dir, pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	return path, nil
}

// MkdirAll creates dir and any missing parents.
func (it *OSRepository) MkdirAll(dir string) error {
	return os.MkdirAll(dir, dirPerm)
}

// RemoveAll removes path recursively.
func (it *OSRepository) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// ReadFile returns the content of path.
func (it *OSRepository) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Exists reports whether path exists.
func (it *OSRepository) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// CopyTree copies every directory, regular file and symlink below src into
// dst, keeping permission bits and link targets as written. It stops at the
// first error.
func (it *OSRepository) CopyTree(src, dst string) error {
	srcFS, err := boundFS(src)
	if err != nil {
		return err
	}
	dstFS, err := boundFS(dst)
	if err != nil {
		return err
	}

	return util.Walk(srcFS, ".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == "." {
			return nil
		}

		switch mode := info.Mode(); {
		case mode.IsDir():
			return dstFS.MkdirAll(path, mode.Perm()|0o700)
		case mode&os.ModeSymlink != 0:
			return copySymlink(srcFS, dstFS, path)
		case mode.IsRegular():
			return copyFile(srcFS, dstFS, path, mode.Perm())
		default:
			it.log.Debugf("Skipping special file %q", path)
			return nil
		}
	})
}

// TreeSize sums the size of the regular files below dir.
func (it *OSRepository) TreeSize(dir string) (int64, error) {
	dirFS, err := boundFS(dir)
	if err != nil {
		return 0, err
	}

	var total int64
	err = util.Walk(dirFS, ".", func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			total += info.Size()
		}
		return nil
	})
	return total, err
}

// Lock acquires an exclusive file lock at path, waiting until ctx is done.
func (it *OSRepository) Lock(ctx context.Context, path string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	fileLock := flock.New(path)
	locked, err := fileLock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("failed to acquire lock %q", path)
	}

	return func() {
		if unlockErr := fileLock.Unlock(); unlockErr != nil {
			it.log.Warnf("Failed to release lock %q: %v", path, unlockErr)
		}
	}, nil
}

// boundFS opens dir without chroot semantics, so absolute symlink targets
// are neither rewritten on read nor re-rooted on write.
func boundFS(dir string) (billy.Filesystem, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", dir, err)
	}
	if resolved, evalErr := filepath.EvalSymlinks(abs); evalErr == nil {
		abs = resolved
	}
	return osfs.New(abs, osfs.WithBoundOS()), nil
}

func copyFile(srcFS, dstFS billy.Filesystem, path string, perm os.FileMode) error {
	in, err := srcFS.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := dstFS.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func copySymlink(srcFS, dstFS billy.Filesystem, path string) error {
	target, err := srcFS.Readlink(path)
	if err != nil {
		return err
	}
	_ = dstFS.Remove(path)
	return dstFS.Symlink(target, path)
}
