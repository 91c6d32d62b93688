package commands

import (
	"context"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/Orbs/jspm-git/internal/domain/entities"
	"github.com/Orbs/jspm-git/internal/domain/repositories"
)

const (
	scratchPattern = "jspm-git-"
	metadataDir    = ".git"
)

// MaterializeRequest identifies the exact revision to fetch.
type MaterializeRequest struct {
	RepoID     string
	Version    string
	Meta       entities.VersionMeta
	Credential *entities.Credential
}

// Materializer clones one revision of a remote repository into a fresh
// scratch directory and strips its version-control metadata.
type Materializer struct {
	settings *entities.Settings
	git      repositories.GitRepository
	fs       repositories.FileSystemRepository
	log      logger.FieldLogger
}

// NewMaterializer creates a new Materializer.
func NewMaterializer(
	settings *entities.Settings,
	git repositories.GitRepository,
	fs repositories.FileSystemRepository,
	log logger.FieldLogger,
) *Materializer {
	if log == nil {
		log = entities.NewNopLogger()
	}
	return &Materializer{settings: settings, git: git, fs: fs, log: log}
}

// Materialize returns the scratch directory holding the plain source tree of
// req. The caller owns the directory. On failure nothing is left behind.
//
// Git releases able to clone a single branch or tag do so directly (shallow
// when enabled); older ones get a full clone followed by a checkout.
func (it *Materializer) Materialize(ctx context.Context, req MaterializeRequest) (string, error) {
	ref := entities.RefNameFor(req.Version, req.Meta)
	locator := entities.BuildRemoteLocator(it.settings.BaseURL, req.RepoID, it.settings.Suffix(), req.Credential)
	opts := toolOptions(it.settings)
	action := "cloning " + req.RepoID + "@" + ref

	versionOutput, err := it.git.Version(ctx, opts)
	if err != nil {
		return "", transportError(entities.StageCloning, "reading git version", err, "", nil, "")
	}
	mode := entities.DetectCloneMode(versionOutput)
	it.log.Debugf("Using %s clone mode for %q", mode, versionOutput)

	scratch, err := it.fs.MkdirTemp(it.settings.TmpDir, scratchPattern)
	if err != nil {
		return "", localError(entities.StageCloning, "creating scratch directory", err, "")
	}

	if cloneErr := it.clone(ctx, mode, locator, scratch, ref, opts); cloneErr != nil {
		it.discard(scratch)
		return "", transportError(entities.StageCloning, action, cloneErr, locator, req.Credential, scratch)
	}

	if rmErr := it.fs.RemoveAll(filepath.Join(scratch, metadataDir)); rmErr != nil {
		it.discard(scratch)
		return "", localError(entities.StageCloning, "removing version-control metadata", rmErr, scratch)
	}

	if limitErr := it.checkSize(scratch, req.RepoID); limitErr != nil {
		it.discard(scratch)
		return "", limitErr
	}

	return scratch, nil
}

func (it *Materializer) clone(
	ctx context.Context,
	mode entities.CloneMode,
	locator, scratch, ref string,
	opts repositories.ToolOptions,
) error {
	if mode == entities.CloneModeModern {
		return it.git.Clone(ctx, repositories.CloneRequest{
			Locator: locator,
			Dir:     scratch,
			Ref:     ref,
			Shallow: it.settings.Shallow(),
			Options: opts,
		})
	}

	// single-branch selection is unsupported: clone everything, then check out
	if err := it.git.Clone(ctx, repositories.CloneRequest{
		Locator: locator,
		Dir:     scratch,
		Options: opts,
	}); err != nil {
		return err
	}
	return it.git.Checkout(ctx, scratch, ref, opts)
}

func (it *Materializer) checkSize(scratch, repoID string) error {
	limit := it.settings.MaxRepoBytes()
	if limit <= 0 {
		return nil
	}

	size, err := it.fs.TreeSize(scratch)
	if err != nil {
		return localError(entities.StageCloning, "measuring repository size", err, scratch)
	}
	if size > limit {
		return entities.NewSourceError(entities.KindFatal, entities.StageCloning, nil,
			"repository %s is %d bytes, above the %d MB limit", repoID, size, it.settings.MaxRepoSize)
	}
	return nil
}

func (it *Materializer) discard(scratch string) {
	if err := it.fs.RemoveAll(scratch); err != nil {
		it.log.Warnf("Failed to remove scratch directory: %v", err)
	}
}
