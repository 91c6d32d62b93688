package gate

import (
	"context"
	"sync"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/Orbs/jspm-git/internal/domain/entities"
	"github.com/Orbs/jspm-git/internal/domain/repositories"
)

// MaxWindowsSlots caps concurrent git processes on Windows, where spawning
// many of them at once is known to destabilize process creation.
const MaxWindowsSlots = 2

// PlatformSlots returns the slot count of the process gate for goos:
// min(parallelism, MaxWindowsSlots) on Windows, 0 (unlimited) elsewhere.
func PlatformSlots(goos string, parallelism int) int {
	if goos != "windows" {
		return 0
	}
	return max(1, min(parallelism, MaxWindowsSlots))
}

//nolint:gochecknoglobals // slot tables are process-wide
var (
	sharedMu    sync.Mutex
	sharedSlots = map[int]*semaphore.Weighted{}
)

// NewProcessGate returns a gate admitting at most slots concurrent
// invocations on its own slot table, or a pass-through gate when slots is
// not positive.
func NewProcessGate(runner repositories.ToolRunner, slots int, log logger.FieldLogger) repositories.ProcessGate {
	if slots <= 0 {
		return &PassthroughGate{runner: runner}
	}
	return newSemaphoreGate(runner, semaphore.NewWeighted(int64(slots)), slots, log)
}

// NewSharedProcessGate is NewProcessGate on the process-wide slot table of
// that size, created on first use. Every gate built with the same slot count
// competes for the same slots, whatever runner it wraps.
func NewSharedProcessGate(runner repositories.ToolRunner, slots int, log logger.FieldLogger) repositories.ProcessGate {
	if slots <= 0 {
		return &PassthroughGate{runner: runner}
	}

	sharedMu.Lock()
	table, ok := sharedSlots[slots]
	if !ok {
		table = semaphore.NewWeighted(int64(slots))
		sharedSlots[slots] = table
	}
	sharedMu.Unlock()

	return newSemaphoreGate(runner, table, slots, log)
}

func newSemaphoreGate(
	runner repositories.ToolRunner,
	table *semaphore.Weighted,
	slots int,
	log logger.FieldLogger,
) *SemaphoreGate {
	if log == nil {
		log = entities.NewNopLogger()
	}
	log.Debugf("Limiting concurrent git processes to %d", slots)
	return &SemaphoreGate{runner: runner, slots: table, log: log}
}

// SemaphoreGate runs invocations on a fixed number of slots; the excess
// waits for a slot to be released.
type SemaphoreGate struct {
	runner repositories.ToolRunner
	slots  *semaphore.Weighted
	log    logger.FieldLogger
}

// Submit waits for a free slot, then runs inv. It only fails on its own when
// ctx is done before a slot frees up.
func (g *SemaphoreGate) Submit(
	ctx context.Context,
	inv repositories.Invocation,
) (repositories.InvocationResult, error) {
	if !g.slots.TryAcquire(1) {
		g.log.Debugf("Waiting for a free git process slot")
		if err := g.slots.Acquire(ctx, 1); err != nil {
			return repositories.InvocationResult{}, err
		}
	}
	defer g.slots.Release(1)

	return g.runner.Run(ctx, inv)
}

// PassthroughGate runs every invocation immediately.
type PassthroughGate struct {
	runner repositories.ToolRunner
}

// Submit runs inv.
func (g *PassthroughGate) Submit(
	ctx context.Context,
	inv repositories.Invocation,
) (repositories.InvocationResult, error) {
	return g.runner.Run(ctx, inv)
}
