package controllers

import (
	"context"
	"time"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Orbs/jspm-git/internal/domain/commands"
	"github.com/Orbs/jspm-git/internal/domain/entities"
)

const retryDelay = time.Second

// lookupOutput is the printed form of a lookup.
type lookupOutput struct {
	NotFound bool                `json:"notFound,omitempty" yaml:"notFound,omitempty"`
	Versions entities.VersionMap `json:"versions,omitempty" yaml:"versions,omitempty"`
	Order    []string            `json:"order,omitempty"    yaml:"order,omitempty"`
}

// LookupController handles the "lookup" subcommand.
type LookupController struct {
	newLocation LocationFactory
}

// NewLookupController creates a new LookupController.
func NewLookupController(newLocation LocationFactory) *LookupController {
	return &LookupController{newLocation: newLocation}
}

// GetBind returns the Cobra command metadata for the lookup controller.
func (it *LookupController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "lookup <repository>",
		Short: "List the versions of a repository",
		Long: `List every tag and branch of a remote repository as versions.

Tags named like "v1.2.3" are reported as "1.2.3" with meta.vPrefix set.
Branch heads are reported with stable=false since they can move.`,
	}
}

// AddFlags adds the lookup-specific flags to the given Cobra command.
func (it *LookupController) AddFlags(cmd *cobra.Command) {
	cmd.Args = cobra.ExactArgs(1)
}

// Execute resolves and prints the versions of the repository.
func (it *LookupController) Execute(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	location, err := it.newLocation(settings)
	if err != nil {
		return err
	}
	defer location.Dispose()

	result, err := commands.WithRetry(ctx, retryAttempts(cmd), retryDelay, logger.StandardLogger(),
		func() (*entities.LookupResult, error) {
			return location.Lookup(ctx, args[0])
		},
	)
	if err != nil {
		return err
	}

	if result.NotFound {
		logger.Warnf("Repository %q not found", args[0])
	}
	return writeOutput(cmd, lookupOutput{
		NotFound: result.NotFound,
		Versions: result.Versions,
		Order:    result.Versions.Sorted(),
	})
}
