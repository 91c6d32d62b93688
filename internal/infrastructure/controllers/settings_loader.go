package controllers

import (
	"encoding/json"
	"fmt"
	"io"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Orbs/jspm-git/internal/domain/commands"
	"github.com/Orbs/jspm-git/internal/domain/entities"
)

// LocationFactory builds a Location bound to the given settings.
type LocationFactory func(settings *entities.Settings) (commands.Location, error)

// loadSettings resolves the settings of a command run: the --config file,
// else a discovered config file, else defaults around --baseurl. A --baseurl
// flag always overrides the file value.
func loadSettings(cmd *cobra.Command) (*entities.Settings, error) {
	configPath, _ := cmd.Flags().GetString("config")
	baseURL, _ := cmd.Flags().GetString("baseurl")

	if configPath == "" {
		found, err := entities.FindConfigFile()
		if err != nil && baseURL == "" {
			return nil, fmt.Errorf(
				"no config file found: %w\nSpecify one with --config, pass --baseurl or create jspm-git.yaml", err,
			)
		}
		configPath = found
	}

	var settings *entities.Settings
	if configPath != "" {
		logger.Debugf("Using config file: %s", configPath)
		loaded, err := entities.NewSettings(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		settings = loaded
	} else {
		settings = &entities.Settings{}
		settings.ApplyDefaults()
	}

	if baseURL != "" {
		settings.BaseURL = baseURL
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// retryAttempts reads --retries as a total number of attempts.
func retryAttempts(cmd *cobra.Command) uint {
	retries, _ := cmd.Flags().GetUint("retries")
	return retries + 1
}

// writeOutput encodes value in the --output format.
func writeOutput(cmd *cobra.Command, value any) error {
	format, _ := cmd.Flags().GetString("output")
	return encode(cmd.OutOrStdout(), format, value)
}

func encode(w io.Writer, format string, value any) error {
	switch format {
	case "", "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(value)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(value); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unsupported output format %q (use json or yaml)", format)
	}
}
