package commands

import (
	"go.uber.org/dig"
)

// RegisterProviders registers all command providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register command constructors
	for _, constructor := range []any{
		NewLookupCommand,
		NewMaterializer,
		NewRelocator,
		NewDownloadCommand,
		NewProcessPackageCommand,
		NewGitLocation,
	} {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	// Bind interfaces to implementations
	if err := container.Provide(func(impl *LookupCommand) Lookup {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *DownloadCommand) Download {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *ProcessPackageCommand) ProcessPackage {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *GitLocation) Location {
		return impl
	}); err != nil {
		return err
	}

	return nil
}
