package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Orbs/jspm-git/internal/domain/commands"
	"github.com/Orbs/jspm-git/internal/domain/entities"
)

// DownloadController handles the "download" subcommand.
type DownloadController struct {
	newLocation LocationFactory
}

// NewDownloadController creates a new DownloadController.
func NewDownloadController(newLocation LocationFactory) *DownloadController {
	return &DownloadController{newLocation: newLocation}
}

// GetBind returns the Cobra command metadata for the download controller.
func (it *DownloadController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "download <repository> <version> <outDir>",
		Short: "Fetch one exact version of a repository",
		Long: `Clone one exact version of a repository, strip its version-control
metadata, copy it into outDir and print its processed package.json.

Pass --v-prefix when the version came from a "v"-prefixed tag.`,
	}
}

// AddFlags adds the download-specific flags to the given Cobra command.
func (it *DownloadController) AddFlags(cmd *cobra.Command) {
	cmd.Args = cobra.ExactArgs(3)
	cmd.Flags().String("hash", "", "Commit hash the version is expected to resolve to")
	cmd.Flags().Bool("v-prefix", false, "The version was read from a tag starting with \"v\"")
}

// Execute downloads the requested version.
func (it *DownloadController) Execute(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	hash, _ := cmd.Flags().GetString("hash")
	vPrefix, _ := cmd.Flags().GetBool("v-prefix")

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	location, err := it.newLocation(settings)
	if err != nil {
		return err
	}
	defer location.Dispose()

	req := commands.DownloadRequest{
		RepoID:  args[0],
		Version: args[1],
		Hash:    hash,
		Meta:    entities.VersionMeta{VPrefix: vPrefix},
		OutDir:  args[2],
	}

	result, err := commands.WithRetry(ctx, retryAttempts(cmd), retryDelay, logger.StandardLogger(),
		func() (*commands.DownloadResult, error) {
			return location.Download(ctx, req)
		},
	)
	if err != nil {
		return err
	}

	logger.Infof("Downloaded %s@%s into %s", req.RepoID, req.Version, req.OutDir)
	return writeOutput(cmd, result.Manifest)
}
