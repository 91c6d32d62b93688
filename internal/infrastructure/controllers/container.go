package controllers

import (
	"github.com/Orbs/jspm-git/internal/domain/entities"
	"go.uber.org/dig"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register controller constructors
	for _, constructor := range []any{
		NewLookupController,
		NewDownloadController,
		NewProcessController,
		NewEncodeAuthController,
		NewControllers,
	} {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	return nil
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	lookupController *LookupController,
	downloadController *DownloadController,
	processController *ProcessController,
	encodeAuthController *EncodeAuthController,
) *[]entities.Controller {
	return &[]entities.Controller{
		lookupController,
		downloadController,
		processController,
		encodeAuthController,
	}
}
