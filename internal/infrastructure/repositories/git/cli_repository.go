package git

import (
	"context"
	"os"
	"strings"

	"github.com/Orbs/jspm-git/internal/domain/repositories"
)

// CLIRepository implements repositories.GitRepository on top of the git
// executable. Every invocation goes through the process gate.
type CLIRepository struct {
	gate repositories.ProcessGate
}

// NewCLIRepository creates a CLIRepository submitting to gate.
func NewCLIRepository(gate repositories.ProcessGate) *CLIRepository {
	return &CLIRepository{gate: gate}
}

// LsRemote lists the tags and branch heads of the remote.
func (it *CLIRepository) LsRemote(
	ctx context.Context,
	locator string,
	opts repositories.ToolOptions,
) ([]byte, error) {
	result, err := it.run(ctx, opts, "ls-remote", locator, "refs/tags/*", "refs/heads/*")
	if err != nil {
		return nil, err
	}
	return result.Stdout, nil
}

// Version returns the trimmed output of "git --version".
func (it *CLIRepository) Version(ctx context.Context, opts repositories.ToolOptions) (string, error) {
	result, err := it.run(ctx, opts, "--version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(result.Stdout)), nil
}

// Clone clones req.Locator into req.Dir. A non-empty Ref restricts the clone
// to that branch or tag, and Shallow limits it to the last commit.
func (it *CLIRepository) Clone(ctx context.Context, req repositories.CloneRequest) error {
	args := []string{"clone", "--quiet"}
	if req.Ref != "" {
		args = append(args, "--single-branch", "--branch", req.Ref)
	}
	if req.Shallow {
		args = append(args, "--depth", "1")
	}
	args = append(args, "--", req.Locator, req.Dir)

	_, err := it.run(ctx, req.Options, args...)
	return err
}

// Checkout checks ref out in the working tree at dir.
func (it *CLIRepository) Checkout(ctx context.Context, dir, ref string, opts repositories.ToolOptions) error {
	opts.WorkingDir = dir
	_, err := it.run(ctx, opts, "checkout", "--quiet", ref)
	return err
}

func (it *CLIRepository) run(
	ctx context.Context,
	opts repositories.ToolOptions,
	args ...string,
) (repositories.InvocationResult, error) {
	result, err := it.gate.Submit(ctx, repositories.Invocation{
		Args:           args,
		WorkingDir:     opts.WorkingDir,
		Timeout:        opts.Timeout,
		MaxOutputBytes: opts.MaxOutputBytes,
		KillSignal:     os.Kill,
	})
	if err != nil {
		return result, &repositories.ToolError{
			Command: args[0],
			Stderr:  strings.TrimSpace(string(result.Stderr)),
			Err:     err,
		}
	}
	return result, nil
}
