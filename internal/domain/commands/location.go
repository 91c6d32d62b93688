package commands

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/Orbs/jspm-git/internal/domain/entities"
)

// Location is the contract a package manager uses to talk to a source
// location backend.
type Location interface {
	Lookup(ctx context.Context, repoID string) (*entities.LookupResult, error)
	Download(ctx context.Context, req DownloadRequest) (*DownloadResult, error)
	ProcessPackageConfig(manifest entities.Manifest, packageID string) entities.Manifest
	ProcessPackage(ctx context.Context, manifest entities.Manifest, packageID, dir string) (entities.Manifest, error)
	Dispose()
}

// GitLocation is the Git-backed Location.
type GitLocation struct {
	lookup         Lookup
	download       Download
	processPackage ProcessPackage
	log            logger.FieldLogger
}

// NewGitLocation creates a new GitLocation.
func NewGitLocation(
	lookup Lookup,
	download Download,
	processPackage ProcessPackage,
	log logger.FieldLogger,
) *GitLocation {
	if log == nil {
		log = entities.NewNopLogger()
	}
	return &GitLocation{
		lookup:         lookup,
		download:       download,
		processPackage: processPackage,
		log:            log,
	}
}

// Lookup resolves the versions of repoID.
func (it *GitLocation) Lookup(ctx context.Context, repoID string) (*entities.LookupResult, error) {
	return it.lookup.Execute(ctx, repoID)
}

// Download fetches one exact version into req.OutDir.
func (it *GitLocation) Download(ctx context.Context, req DownloadRequest) (*DownloadResult, error) {
	return it.download.Execute(ctx, req)
}

// ProcessPackageConfig applies the dependency policy to manifest and logs
// the resulting warnings.
func (it *GitLocation) ProcessPackageConfig(manifest entities.Manifest, packageID string) entities.Manifest {
	processed, warnings := entities.ProcessPackageConfig(manifest, packageID)
	for _, warning := range warnings {
		it.log.Warn(warning)
	}
	return processed
}

// ProcessPackage fills in the entry point of the package stored in dir.
func (it *GitLocation) ProcessPackage(
	ctx context.Context,
	manifest entities.Manifest,
	packageID, dir string,
) (entities.Manifest, error) {
	return it.processPackage.Execute(ctx, manifest, packageID, dir)
}

// Dispose does nothing: every resource is scoped to a single call.
func (it *GitLocation) Dispose() {}
