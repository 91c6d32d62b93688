package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/Orbs/jspm-git/internal/domain/entities"
	"github.com/Orbs/jspm-git/internal/domain/repositories"
)

// Download is the interface for fetching one exact version of a repository.
type Download interface {
	Execute(ctx context.Context, req DownloadRequest) (*DownloadResult, error)
}

// DownloadRequest names the exact version to fetch and where to put it.
type DownloadRequest struct {
	RepoID  string
	Version string
	Hash    string
	Meta    entities.VersionMeta
	OutDir  string
}

// DownloadResult is the processed manifest of the fetched package together
// with the warnings raised while processing it.
type DownloadResult struct {
	Manifest entities.Manifest
	Warnings []string
}

// DownloadCommand runs the download pipeline:
// resolving -> cloning -> reading manifest -> relocating -> post-processing.
// Each stage starts only after the previous one completed.
type DownloadCommand struct {
	settings     *entities.Settings
	materializer *Materializer
	relocator    *Relocator
	fs           repositories.FileSystemRepository
	log          logger.FieldLogger
}

// NewDownloadCommand creates a new DownloadCommand.
func NewDownloadCommand(
	settings *entities.Settings,
	materializer *Materializer,
	relocator *Relocator,
	fs repositories.FileSystemRepository,
	log logger.FieldLogger,
) *DownloadCommand {
	if log == nil {
		log = entities.NewNopLogger()
	}
	return &DownloadCommand{
		settings:     settings,
		materializer: materializer,
		relocator:    relocator,
		fs:           fs,
		log:          log,
	}
}

// Execute fetches req into req.OutDir and returns its processed manifest.
// Scratch space is released on every path.
func (it *DownloadCommand) Execute(ctx context.Context, req DownloadRequest) (*DownloadResult, error) {
	stage := entities.StageResolving
	log := it.log.WithField("package", req.RepoID+"@"+req.Version)
	log.Infof("Downloading %s@%s", req.RepoID, req.Version)

	result, err := it.run(ctx, req, log, &stage)
	if err != nil {
		log.Debugf("Download %s while %s", entities.StageFailed, stage)
		return nil, err
	}

	log.Debugf("Download %s", entities.StageDone)
	return result, nil
}

func (it *DownloadCommand) run(
	ctx context.Context,
	req DownloadRequest,
	log logger.FieldLogger,
	stage *entities.Stage,
) (*DownloadResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	cred := it.settings.Credential()

	it.enter(log, stage, entities.StageCloning)
	scratch, err := it.materializer.Materialize(ctx, MaterializeRequest{
		RepoID:     req.RepoID,
		Version:    req.Version,
		Meta:       req.Meta,
		Credential: cred,
	})
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := it.relocator.Release(scratch); releaseErr != nil {
			log.Warnf("Failed to remove scratch directory: %v", releaseErr)
		}
	}()
	if req.Hash != "" {
		log.Debugf("Fetched revision expected at %s", req.Hash)
	}

	it.enter(log, stage, entities.StageReadingManifest)
	manifest, err := it.readManifest(scratch, log)
	if err != nil {
		return nil, err
	}

	it.enter(log, stage, entities.StageRelocating)
	unlock, err := it.fs.Lock(ctx, it.lockPath(req.OutDir))
	if err != nil {
		return nil, localError(entities.StageRelocating, "locking output directory", err, scratch)
	}
	relocateErr := it.relocator.Relocate(scratch, req.OutDir)
	unlock()
	if relocateErr != nil {
		return nil, relocateErr
	}

	it.enter(log, stage, entities.StagePostProcessing)
	processed, warnings := entities.ProcessPackageConfig(manifest, req.RepoID)
	for _, warning := range warnings {
		log.Warn(warning)
	}

	*stage = entities.StageDone
	return &DownloadResult{Manifest: processed, Warnings: warnings}, nil
}

func (it *DownloadCommand) enter(log logger.FieldLogger, stage *entities.Stage, next entities.Stage) {
	log.Debugf("Download stage: %s -> %s", *stage, next)
	*stage = next
}

// readManifest decodes the package descriptor of the tree. A tree without
// one yields an empty manifest.
func (it *DownloadCommand) readManifest(scratch string, log logger.FieldLogger) (entities.Manifest, error) {
	data, err := it.fs.ReadFile(filepath.Join(scratch, entities.ManifestFileName))
	if errors.Is(err, fs.ErrNotExist) {
		log.Debugf("No %s found", entities.ManifestFileName)
		return entities.Manifest{}, nil
	}
	if err != nil {
		return nil, localError(entities.StageReadingManifest, "reading "+entities.ManifestFileName, err, scratch)
	}

	var manifest entities.Manifest
	if unmarshalErr := json.Unmarshal(data, &manifest); unmarshalErr != nil {
		return nil, localError(entities.StageReadingManifest, "parsing "+entities.ManifestFileName, unmarshalErr, scratch)
	}
	if manifest == nil {
		manifest = entities.Manifest{}
	}
	return manifest, nil
}

// lockPath places the lock of outDir inside the scratch root so that the
// host's directories stay untouched.
func (it *DownloadCommand) lockPath(outDir string) string {
	abs, err := filepath.Abs(outDir)
	if err != nil {
		abs = outDir
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(it.settings.TmpDir, scratchPattern+"locks", hex.EncodeToString(sum[:8])+".lock")
}

func validateRequest(req DownloadRequest) error {
	switch {
	case strings.TrimSpace(req.RepoID) == "":
		return entities.NewSourceError(entities.KindFatal, entities.StageResolving, nil, "repository is required")
	case strings.TrimSpace(req.Version) == "":
		return entities.NewSourceError(entities.KindFatal, entities.StageResolving, nil, "version is required")
	case strings.TrimSpace(req.OutDir) == "":
		return entities.NewSourceError(entities.KindFatal, entities.StageResolving, nil, "output directory is required")
	}
	return nil
}
