package main

import (
	logger "github.com/sirupsen/logrus"
	"go.uber.org/dig"

	"github.com/Orbs/jspm-git/internal"
)

func injectAppContext() *internal.AppInternal {
	container := dig.New()

	if err := container.Provide(func() logger.FieldLogger {
		return logger.StandardLogger()
	}); err != nil {
		panic(err)
	}

	// Register all providers
	if err := internal.RegisterProviders(container); err != nil {
		panic(err)
	}

	// Invoke to get AppInternal
	var appInternal *internal.AppInternal
	if err := container.Invoke(func(ai *internal.AppInternal) {
		appInternal = ai
	}); err != nil {
		panic(err)
	}

	return appInternal
}
