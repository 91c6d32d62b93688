package repositories

import (
	"runtime"

	logger "github.com/sirupsen/logrus"
	"go.uber.org/dig"

	"github.com/Orbs/jspm-git/internal/domain/entities"
	domainRepos "github.com/Orbs/jspm-git/internal/domain/repositories"
	"github.com/Orbs/jspm-git/internal/infrastructure/repositories/filesystem"
	"github.com/Orbs/jspm-git/internal/infrastructure/repositories/gate"
	gitRepo "github.com/Orbs/jspm-git/internal/infrastructure/repositories/git"
)

// RegisterProviders registers all repository providers with the DIG container.
// Gates of every container draw on the process-wide slot table.
func RegisterProviders(container *dig.Container) error {
	if err := container.Provide(func(settings *entities.Settings, log logger.FieldLogger) (domainRepos.ToolRunner, error) {
		return gitRepo.NewExecRunner(settings.GitBinary, log)
	}); err != nil {
		return err
	}

	if err := container.Provide(func(
		runner domainRepos.ToolRunner,
		settings *entities.Settings,
		log logger.FieldLogger,
	) domainRepos.ProcessGate {
		slots := settings.GateSlots
		if slots == 0 {
			slots = gate.PlatformSlots(runtime.GOOS, runtime.NumCPU())
		}
		return gate.NewSharedProcessGate(runner, slots, log)
	}); err != nil {
		return err
	}

	if err := container.Provide(func(processGate domainRepos.ProcessGate) domainRepos.GitRepository {
		return gitRepo.NewCLIRepository(processGate)
	}); err != nil {
		return err
	}

	if err := container.Provide(func(log logger.FieldLogger) domainRepos.FileSystemRepository {
		return filesystem.NewOSRepository(log)
	}); err != nil {
		return err
	}

	return nil
}
