//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/Orbs/jspm-git/internal/domain/repositories"
)

// StubToolRunner implements repositories.ToolRunner with a canned result.
type StubToolRunner struct {
	mu sync.Mutex

	Result repositories.InvocationResult
	Err    error
	// Hook, when set, runs inside every invocation before it returns.
	Hook func(ctx context.Context, inv repositories.Invocation)

	Invocations []repositories.Invocation

	running    atomic.Int32
	maxRunning atomic.Int32
}

var _ repositories.ToolRunner = (*StubToolRunner)(nil)

func (s *StubToolRunner) Run(
	ctx context.Context, inv repositories.Invocation,
) (repositories.InvocationResult, error) {
	s.mu.Lock()
	s.Invocations = append(s.Invocations, inv)
	s.mu.Unlock()

	current := s.running.Add(1)
	defer s.running.Add(-1)
	for {
		peak := s.maxRunning.Load()
		if current <= peak || s.maxRunning.CompareAndSwap(peak, current) {
			break
		}
	}

	if s.Hook != nil {
		s.Hook(ctx, inv)
	}
	return s.Result, s.Err
}

// MaxConcurrent returns the highest number of invocations seen running at once.
func (s *StubToolRunner) MaxConcurrent() int {
	return int(s.maxRunning.Load())
}

// LastInvocation returns the most recent invocation.
func (s *StubToolRunner) LastInvocation() repositories.Invocation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Invocations) == 0 {
		return repositories.Invocation{}
	}
	return s.Invocations[len(s.Invocations)-1]
}
