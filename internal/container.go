package internal

import (
	logger "github.com/sirupsen/logrus"
	"go.uber.org/dig"

	"github.com/Orbs/jspm-git/internal/domain/commands"
	"github.com/Orbs/jspm-git/internal/domain/entities"
	"github.com/Orbs/jspm-git/internal/infrastructure/controllers"
	"github.com/Orbs/jspm-git/internal/infrastructure/repositories"
)

// RegisterProviders registers all internal providers with the DIG container.
// Settings are only known once a subcommand parsed its flags, so controllers
// receive a LocationFactory instead of a ready Location.
func RegisterProviders(container *dig.Container) error {
	if err := container.Provide(func(log logger.FieldLogger) controllers.LocationFactory {
		return func(settings *entities.Settings) (commands.Location, error) {
			return NewLocation(settings, log)
		}
	}); err != nil {
		return err
	}
	if err := controllers.RegisterProviders(container); err != nil {
		return err
	}

	// Register the main app internal
	if err := container.Provide(NewAppInternal); err != nil {
		return err
	}

	return nil
}

// RegisterLocationProviders registers the layers a Location is built from.
func RegisterLocationProviders(container *dig.Container) error {
	// Register all layers (bottom-up: infrastructure repos -> domain entities -> domain commands)
	if err := repositories.RegisterProviders(container); err != nil {
		return err
	}
	if err := entities.RegisterProviders(container); err != nil {
		return err
	}
	return commands.RegisterProviders(container)
}

// NewLocation wires a Location for the given settings.
func NewLocation(settings *entities.Settings, log logger.FieldLogger) (commands.Location, error) {
	container := dig.New()

	if err := container.Provide(func() *entities.Settings { return settings }); err != nil {
		return nil, err
	}
	if err := container.Provide(func() logger.FieldLogger { return log }); err != nil {
		return nil, err
	}
	if err := RegisterLocationProviders(container); err != nil {
		return nil, err
	}

	var location commands.Location
	if err := container.Invoke(func(l commands.Location) {
		location = l
	}); err != nil {
		return nil, err
	}
	return location, nil
}
