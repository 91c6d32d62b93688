package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/Orbs/jspm-git/internal/domain/entities"
	"github.com/Orbs/jspm-git/internal/domain/repositories"
)

// waitDelay bounds how long Wait keeps reading pipes after the process was
// killed, since helpers such as git-remote-https may still hold them open.
const waitDelay = 5 * time.Second

// ExecRunner runs the git executable as a subprocess.
type ExecRunner struct {
	path string
	log  logger.FieldLogger
}

// NewExecRunner resolves binary on the PATH. A missing executable is a fatal
// configuration error.
func NewExecRunner(binary string, log logger.FieldLogger) (*ExecRunner, error) {
	if log == nil {
		log = entities.NewNopLogger()
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, entities.NewSourceError(
			entities.KindFatal, entities.StageConfiguring,
			fmt.Errorf("%w: %w", repositories.ErrToolNotFound, err),
			"%q is not installed or not on the PATH", binary,
		)
	}
	return &ExecRunner{path: path, log: log}, nil
}

// Run executes inv. The process receives inv.KillSignal when it outlives
// inv.Timeout or writes more than inv.MaxOutputBytes on either stream.
func (r *ExecRunner) Run(ctx context.Context, inv repositories.Invocation) (repositories.InvocationResult, error) {
	if inv.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inv.Timeout)
		defer cancel()
	}
	runCtx, abort := context.WithCancelCause(ctx)
	defer abort(nil)

	stdout := newCappedBuffer(inv.MaxOutputBytes, func() { abort(repositories.ErrOutputLimit) })
	stderr := newCappedBuffer(inv.MaxOutputBytes, func() { abort(repositories.ErrOutputLimit) })

	//nolint:gosec // arguments are passed as argv, never through a shell
	cmd := exec.CommandContext(runCtx, r.path, inv.Args...)
	cmd.Dir = inv.WorkingDir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	cmd.Env = append(cmd.Env, inv.Env...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay
	killSignal := inv.KillSignal
	if killSignal == nil {
		killSignal = os.Kill
	}
	cmd.Cancel = func() error {
		return cmd.Process.Signal(killSignal)
	}

	if len(inv.Args) > 0 {
		r.log.Debugf("Running git %s", inv.Args[0])
	}

	err := cmd.Run()
	result := repositories.InvocationResult{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	// truncated output is a failure even when the process won the race against the kill
	if errors.Is(context.Cause(runCtx), repositories.ErrOutputLimit) {
		if err == nil {
			return result, fmt.Errorf("%w (%d bytes)", repositories.ErrOutputLimit, inv.MaxOutputBytes)
		}
		return result, fmt.Errorf("%w (%d bytes): %w", repositories.ErrOutputLimit, inv.MaxOutputBytes, err)
	}
	if err == nil {
		return result, nil
	}

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return result, fmt.Errorf("%w after %s: %w", repositories.ErrToolTimeout, inv.Timeout, err)
	default:
		return result, err
	}
}

// cappedBuffer collects output up to limit bytes and reports the first
// write that goes beyond it. A non-positive limit means unbounded.
type cappedBuffer struct {
	buf        bytes.Buffer
	limit      int64
	exceeded   bool
	onOverflow func()
}

func newCappedBuffer(limit int64, onOverflow func()) *cappedBuffer {
	return &cappedBuffer{limit: limit, onOverflow: onOverflow}
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if b.limit <= 0 {
		return b.buf.Write(p)
	}
	if b.exceeded {
		return len(p), nil
	}

	room := b.limit - int64(b.buf.Len())
	if int64(len(p)) <= room {
		return b.buf.Write(p)
	}

	b.buf.Write(p[:max(room, 0)])
	b.exceeded = true
	b.onOverflow()
	// keep draining so the process is not blocked on a full pipe before it dies
	return len(p), nil
}

func (b *cappedBuffer) Bytes() []byte { return b.buf.Bytes() }
