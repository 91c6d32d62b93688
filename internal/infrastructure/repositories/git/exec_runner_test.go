//go:build unit

package git_test

import (
	"context"
	"os/exec"
	"runtime"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Orbs/jspm-git/internal/domain/entities"
	"github.com/Orbs/jspm-git/internal/domain/repositories"
	gitRepo "github.com/Orbs/jspm-git/internal/infrastructure/repositories/git"
)

// newShellRunner drives a POSIX shell through the runner, which does not care
// which executable it wraps.
func newShellRunner(t *testing.T) *gitRepo.ExecRunner {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh is not available")
	}
	runner, err := gitRepo.NewExecRunner("sh", nil)
	require.NoError(t, err)
	return runner
}

func TestNewExecRunner(t *testing.T) {
	t.Parallel()

	t.Run("should fail with a fatal error when the binary is missing", func(t *testing.T) {
		t.Parallel()

		// when
		runner, err := gitRepo.NewExecRunner("jspm-git-no-such-binary", nil)

		// then
		assert.Nil(t, runner)
		require.ErrorIs(t, err, repositories.ErrToolNotFound)
		assert.Equal(t, entities.KindFatal, entities.KindOf(err))
	})
}

func TestExecRunnerRun(t *testing.T) {
	t.Parallel()

	t.Run("should capture both output streams", func(t *testing.T) {
		t.Parallel()

		// given
		runner := newShellRunner(t)
		inv := repositories.Invocation{
			Args:    []string{"-c", "echo out; echo err >&2"},
			Timeout: 10 * time.Second,
		}

		// when
		result, err := runner.Run(context.Background(), inv)

		// then
		require.NoError(t, err)
		assert.Equal(t, "out\n", string(result.Stdout))
		assert.Equal(t, "err\n", string(result.Stderr))
	})

	t.Run("should disable interactive credential prompts", func(t *testing.T) {
		t.Parallel()

		// given
		runner := newShellRunner(t)
		inv := repositories.Invocation{Args: []string{"-c", "printf %s \"$GIT_TERMINAL_PROMPT\""}}

		// when
		result, err := runner.Run(context.Background(), inv)

		// then
		require.NoError(t, err)
		assert.Equal(t, "0", string(result.Stdout))
	})

	t.Run("should run in the working directory", func(t *testing.T) {
		t.Parallel()

		// given
		runner := newShellRunner(t)
		dir := t.TempDir()
		inv := repositories.Invocation{Args: []string{"-c", "pwd -P"}, WorkingDir: dir}

		// when
		result, err := runner.Run(context.Background(), inv)

		// then
		require.NoError(t, err)
		assert.NotEmpty(t, strings.TrimSpace(string(result.Stdout)))
	})

	t.Run("should return the exit error with the captured stderr", func(t *testing.T) {
		t.Parallel()

		// given
		runner := newShellRunner(t)
		inv := repositories.Invocation{Args: []string{"-c", "echo 'fatal: boom' >&2; exit 3"}}

		// when
		result, err := runner.Run(context.Background(), inv)

		// then
		var exitErr *exec.ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 3, exitErr.ExitCode())
		assert.Equal(t, "fatal: boom\n", string(result.Stderr))
	})

	t.Run("should kill a process that outlives its timeout", func(t *testing.T) {
		t.Parallel()

		// given
		runner := newShellRunner(t)
		inv := repositories.Invocation{
			Args:    []string{"-c", "exec sleep 30"},
			Timeout: 200 * time.Millisecond,
		}
		start := time.Now()

		// when
		_, err := runner.Run(context.Background(), inv)

		// then
		require.ErrorIs(t, err, repositories.ErrToolTimeout)
		assert.Less(t, time.Since(start), 10*time.Second)
	})

	t.Run("should stop a timed out process with the requested signal", func(t *testing.T) {
		t.Parallel()

		// given
		runner := newShellRunner(t)
		inv := repositories.Invocation{
			Args:       []string{"-c", "exec sleep 30"},
			Timeout:    200 * time.Millisecond,
			KillSignal: syscall.SIGTERM,
		}

		// when
		_, err := runner.Run(context.Background(), inv)

		// then
		require.ErrorIs(t, err, repositories.ErrToolTimeout)
		var exitErr *exec.ExitError
		require.ErrorAs(t, err, &exitErr)
		status, ok := exitErr.Sys().(syscall.WaitStatus)
		require.True(t, ok)
		assert.Equal(t, syscall.SIGTERM, status.Signal())
	})

	t.Run("should kill a process that exceeds the output limit", func(t *testing.T) {
		t.Parallel()

		// given
		runner := newShellRunner(t)
		inv := repositories.Invocation{
			Args:           []string{"-c", "exec head -c 100000000 /dev/zero"},
			Timeout:        10 * time.Second,
			MaxOutputBytes: 1024,
		}

		// when
		result, err := runner.Run(context.Background(), inv)

		// then
		require.ErrorIs(t, err, repositories.ErrOutputLimit)
		assert.LessOrEqual(t, len(result.Stdout), 1024)
	})
}
