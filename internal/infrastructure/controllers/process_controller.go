package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Orbs/jspm-git/internal/domain/entities"
)

// ProcessController handles the "process" subcommand.
type ProcessController struct {
	newLocation LocationFactory
}

// NewProcessController creates a new ProcessController.
func NewProcessController(newLocation LocationFactory) *ProcessController {
	return &ProcessController{newLocation: newLocation}
}

// GetBind returns the Cobra command metadata for the process controller.
func (it *ProcessController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "process <dir> <packageId>",
		Short: "Post-process the package.json of a fetched package",
		Long: `Apply the dependency policy and the entry-point fallback to the
package.json stored in dir, and print the result.`,
	}
}

// AddFlags adds the process-specific flags to the given Cobra command.
func (it *ProcessController) AddFlags(cmd *cobra.Command) {
	cmd.Args = cobra.ExactArgs(2)
}

// Execute post-processes the package in args[0].
func (it *ProcessController) Execute(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	dir, packageID := args[0], args[1]

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	location, err := it.newLocation(settings)
	if err != nil {
		return err
	}
	defer location.Dispose()

	manifest := entities.Manifest{}
	data, err := os.ReadFile(filepath.Join(dir, entities.ManifestFileName))
	switch {
	case err == nil:
		if unmarshalErr := json.Unmarshal(data, &manifest); unmarshalErr != nil {
			return fmt.Errorf("failed to parse %s: %w", entities.ManifestFileName, unmarshalErr)
		}
	case !os.IsNotExist(err):
		return fmt.Errorf("failed to read %s: %w", entities.ManifestFileName, err)
	}

	processed := location.ProcessPackageConfig(manifest, packageID)
	processed, err = location.ProcessPackage(ctx, processed, packageID, dir)
	if err != nil {
		return err
	}
	return writeOutput(cmd, processed)
}
