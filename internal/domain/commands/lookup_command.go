package commands

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"

	"github.com/Orbs/jspm-git/internal/domain/entities"
	"github.com/Orbs/jspm-git/internal/domain/repositories"
)

// Lookup is the interface for resolving the versions of a repository.
type Lookup interface {
	Execute(ctx context.Context, repoID string) (*entities.LookupResult, error)
}

// LookupCommand lists the refs of a remote repository and turns them into a
// version map.
type LookupCommand struct {
	settings *entities.Settings
	git      repositories.GitRepository
	fs       repositories.FileSystemRepository
	log      logger.FieldLogger
}

// NewLookupCommand creates a new LookupCommand.
func NewLookupCommand(
	settings *entities.Settings,
	git repositories.GitRepository,
	fs repositories.FileSystemRepository,
	log logger.FieldLogger,
) *LookupCommand {
	if log == nil {
		log = entities.NewNopLogger()
	}
	return &LookupCommand{settings: settings, git: git, fs: fs, log: log}
}

// Execute resolves the version map of repoID. A missing remote repository is
// reported through LookupResult.NotFound, not as an error.
func (it *LookupCommand) Execute(ctx context.Context, repoID string) (*entities.LookupResult, error) {
	cred := it.settings.Credential()
	locator := entities.BuildRemoteLocator(it.settings.BaseURL, repoID, it.settings.Suffix(), cred)
	redacted := entities.RedactLocator(locator)

	it.log.Debugf("Listing refs of %s", redacted)

	if err := it.fs.MkdirAll(it.settings.TmpDir); err != nil {
		return nil, localError(entities.StageResolving, "preparing working directory", err, "")
	}

	output, err := it.git.LsRemote(ctx, locator, toolOptions(it.settings))
	if err != nil {
		if isNotFound(it.settings, err) {
			it.log.Infof("Repository %s does not exist", redacted)
			return &entities.LookupResult{NotFound: true}, nil
		}
		return nil, transportError(entities.StageResolving, "listing refs of "+repoID, err, locator, cred, "")
	}

	versions := entities.ParseRemoteRefs(output)
	it.log.Debugf("Found %d versions in %s", len(versions), redacted)

	return &entities.LookupResult{Versions: versions}, nil
}

// isNotFound reports whether a failed git call says the repository is missing.
// Timeouts and output limits never count, whatever was printed before.
func isNotFound(settings *entities.Settings, err error) bool {
	if errors.Is(err, repositories.ErrToolTimeout) || errors.Is(err, repositories.ErrOutputLimit) {
		return false
	}
	var toolErr *repositories.ToolError
	if !errors.As(err, &toolErr) {
		return false
	}
	return settings.MatchesNotFound(toolErr.Stderr)
}
