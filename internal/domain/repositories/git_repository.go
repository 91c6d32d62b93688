package repositories

import (
	"context"
	"time"
)

// ToolOptions bound every git invocation.
type ToolOptions struct {
	WorkingDir     string
	Timeout        time.Duration
	MaxOutputBytes int64
}

// CloneRequest describes a clone of one remote revision.
type CloneRequest struct {
	Locator string
	Dir     string
	// Ref selects a single branch or tag; empty clones everything.
	Ref     string
	Shallow bool
	Options ToolOptions
}

// GitRepository drives the external git executable.
// Errors wrap a *ToolError whose Stderr may contain the locator verbatim;
// callers must redact before surfacing it.
type GitRepository interface {
	// LsRemote lists tags and branch heads of the remote at locator.
	LsRemote(ctx context.Context, locator string, opts ToolOptions) ([]byte, error)
	// Version returns the raw "git --version" output.
	Version(ctx context.Context, opts ToolOptions) (string, error)
	// Clone clones the remote into req.Dir.
	Clone(ctx context.Context, req CloneRequest) error
	// Checkout checks ref out in the working tree at dir.
	Checkout(ctx context.Context, dir, ref string, opts ToolOptions) error
}
