package repositories

import (
	"context"
	"os"
	"time"
)

// Invocation describes one run of the external tool.
type Invocation struct {
	Args           []string
	WorkingDir     string
	Timeout        time.Duration
	MaxOutputBytes int64
	Env            []string
	// KillSignal terminates the process on timeout or output overflow.
	// Nil means os.Kill.
	KillSignal os.Signal
}

// InvocationResult holds what the tool wrote before it exited.
type InvocationResult struct {
	Stdout []byte
	Stderr []byte
}

// ToolRunner is the only boundary to the operating system's process layer.
// Run returns the captured output together with the exit error, if any.
type ToolRunner interface {
	Run(ctx context.Context, inv Invocation) (InvocationResult, error)
}

// ProcessGate admits tool invocations, limiting how many run at once on
// platforms where concurrent process creation is unreliable. It never fails
// on its own: the outcome is the invocation's.
type ProcessGate interface {
	Submit(ctx context.Context, inv Invocation) (InvocationResult, error)
}
