package commands

import (
	"context"
	"path/filepath"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/Orbs/jspm-git/internal/domain/entities"
	"github.com/Orbs/jspm-git/internal/domain/repositories"
)

// ProcessPackage is the interface for the post-processing of a fetched package.
type ProcessPackage interface {
	Execute(ctx context.Context, manifest entities.Manifest, packageID, dir string) (entities.Manifest, error)
}

// ProcessPackageCommand fills in the entry point of a package whose manifest
// does not name one.
type ProcessPackageCommand struct {
	fs  repositories.FileSystemRepository
	log logger.FieldLogger
}

// NewProcessPackageCommand creates a new ProcessPackageCommand.
func NewProcessPackageCommand(fs repositories.FileSystemRepository, log logger.FieldLogger) *ProcessPackageCommand {
	if log == nil {
		log = entities.NewNopLogger()
	}
	return &ProcessPackageCommand{fs: fs, log: log}
}

// Execute returns a copy of manifest whose "main" falls back to the first
// existing entry point candidate in dir.
func (it *ProcessPackageCommand) Execute(
	_ context.Context,
	manifest entities.Manifest,
	packageID, dir string,
) (entities.Manifest, error) {
	processed := manifest.Clone()
	if processed.String("main") != "" {
		return processed, nil
	}

	for _, candidate := range entities.EntryPointCandidates(packageID) {
		if it.fs.Exists(filepath.Join(dir, candidate)) {
			processed["main"] = strings.TrimSuffix(candidate, ".js")
			it.log.Debugf("Using %q as entry point of %s", candidate, packageID)
			break
		}
	}

	return processed, nil
}
