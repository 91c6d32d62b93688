package commands

import (
	logger "github.com/sirupsen/logrus"

	"github.com/Orbs/jspm-git/internal/domain/entities"
	"github.com/Orbs/jspm-git/internal/domain/repositories"
)

// Relocator moves a materialized tree to its final location and owns the
// destruction of scratch directories.
type Relocator struct {
	fs  repositories.FileSystemRepository
	log logger.FieldLogger
}

// NewRelocator creates a new Relocator.
func NewRelocator(fs repositories.FileSystemRepository, log logger.FieldLogger) *Relocator {
	if log == nil {
		log = entities.NewNopLogger()
	}
	return &Relocator{fs: fs, log: log}
}

// Relocate copies scratch into outDir, creating outDir when missing. A failed
// copy removes outDir. The scratch directory is gone when Relocate returns,
// whatever the outcome.
func (it *Relocator) Relocate(scratch, outDir string) (err error) {
	defer func() {
		if releaseErr := it.Release(scratch); releaseErr != nil && err == nil {
			err = localError(entities.StageRelocating, "removing scratch directory", releaseErr, scratch)
		}
	}()

	if mkdirErr := it.fs.MkdirAll(outDir); mkdirErr != nil {
		return localError(entities.StageRelocating, "creating output directory", mkdirErr, scratch)
	}

	if copyErr := it.fs.CopyTree(scratch, outDir); copyErr != nil {
		if rmErr := it.fs.RemoveAll(outDir); rmErr != nil {
			it.log.Warnf("Failed to remove partial output directory %q: %v", outDir, rmErr)
		}
		return localError(entities.StageRelocating, "copying package to output directory", copyErr, scratch)
	}

	return nil
}

// Release removes a scratch directory. Releasing twice is harmless.
func (it *Relocator) Release(scratch string) error {
	if scratch == "" || !it.fs.Exists(scratch) {
		return nil
	}
	return it.fs.RemoveAll(scratch)
}
