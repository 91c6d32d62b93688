package entities

import (
	"io"

	logger "github.com/sirupsen/logrus"
)

// NewNopLogger returns a logger whose output is discarded. Components fall
// back to it when no logger is injected.
func NewNopLogger() logger.FieldLogger {
	log := logger.New()
	log.SetOutput(io.Discard)
	return log
}
