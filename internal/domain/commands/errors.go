package commands

import (
	"errors"
	"strings"

	"github.com/Orbs/jspm-git/internal/domain/entities"
	"github.com/Orbs/jspm-git/internal/domain/repositories"
)

// transportError wraps a failed git call into a retriable SourceError whose
// message carries the tool diagnostics with every credential and the scratch
// path removed. The raw tool error is not kept in the chain, only its
// sentinel cause.
func transportError(
	stage entities.Stage,
	action string,
	err error,
	locator string,
	cred *entities.Credential,
	scratch string,
) error {
	if errors.Is(err, repositories.ErrToolNotFound) {
		return entities.NewSourceError(entities.KindFatal, stage, repositories.ErrToolNotFound,
			"%s: git is not installed", action)
	}

	detail := err.Error()
	var toolErr *repositories.ToolError
	if errors.As(err, &toolErr) && toolErr.Stderr != "" {
		detail = firstLines(toolErr.Stderr, 5)
	}
	detail = entities.RedactMessage(detail, locator, cred)
	if scratch != "" {
		detail = strings.ReplaceAll(detail, scratch, "<scratch>")
	}

	return entities.NewSourceError(entities.KindRetriable, stage, causeOf(err), "%s failed: %s", action, detail)
}

// causeOf keeps the sentinel cause of a tool failure so that callers can
// still tell timeouts and output limits apart.
func causeOf(err error) error {
	for _, sentinel := range []error{
		repositories.ErrToolTimeout,
		repositories.ErrOutputLimit,
		repositories.ErrToolNotFound,
	} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return nil
}

// localError wraps a filesystem failure. Scratch paths are replaced so that
// they never reach the caller.
func localError(stage entities.Stage, action string, err error, scratch string) error {
	detail := err.Error()
	if scratch != "" {
		detail = strings.ReplaceAll(detail, scratch, "<scratch>")
	}
	return entities.NewSourceError(entities.KindLocalIO, stage, nil, "%s: %s", action, detail)
}

// firstLines returns at most n non-empty lines of s joined by "; ".
func firstLines(s string, n int) string {
	lines := make([]string, 0, n)
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == n {
			break
		}
	}
	return strings.Join(lines, "; ")
}

func toolOptions(settings *entities.Settings) repositories.ToolOptions {
	return repositories.ToolOptions{
		WorkingDir:     settings.TmpDir,
		Timeout:        settings.TimeoutDuration(),
		MaxOutputBytes: settings.MaxOutputBytes,
	}
}
