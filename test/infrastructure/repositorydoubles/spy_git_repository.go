//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/Orbs/jspm-git/internal/domain/repositories"
)

// SpyGitRepository implements repositories.GitRepository as a configurable spy.
// Configure the response fields for the methods your test exercises,
// then inspect the call-tracking fields to verify behavior.
type SpyGitRepository struct {
	mu sync.Mutex

	// --- LsRemote ---
	LsRemoteOutput  []byte
	LsRemoteErr     error
	LsRemoteCalls   []string
	LsRemoteOptions []repositories.ToolOptions

	// --- Version ---
	VersionOutput string
	VersionErr    error

	// --- Clone ---
	// CloneFiles are written below the clone directory, keyed by slash-separated relative path.
	CloneFiles map[string]string
	CloneErr   error
	CloneCalls []repositories.CloneRequest

	// --- Checkout ---
	CheckoutErr   error
	CheckoutCalls []CheckoutCall
}

// CheckoutCall records a single invocation of Checkout.
type CheckoutCall struct {
	Dir string
	Ref string
}

var _ repositories.GitRepository = (*SpyGitRepository)(nil)

func (s *SpyGitRepository) LsRemote(
	_ context.Context, locator string, opts repositories.ToolOptions,
) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LsRemoteCalls = append(s.LsRemoteCalls, locator)
	s.LsRemoteOptions = append(s.LsRemoteOptions, opts)
	return s.LsRemoteOutput, s.LsRemoteErr
}

func (s *SpyGitRepository) Version(_ context.Context, _ repositories.ToolOptions) (string, error) {
	if s.VersionOutput == "" && s.VersionErr == nil {
		return "git version 2.43.0", nil
	}
	return s.VersionOutput, s.VersionErr
}

func (s *SpyGitRepository) Clone(_ context.Context, req repositories.CloneRequest) error {
	s.mu.Lock()
	s.CloneCalls = append(s.CloneCalls, req)
	s.mu.Unlock()

	for name, content := range s.CloneFiles {
		path := filepath.Join(req.Dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return err
		}
	}
	return s.CloneErr
}

func (s *SpyGitRepository) Checkout(
	_ context.Context, dir, ref string, _ repositories.ToolOptions,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CheckoutCalls = append(s.CheckoutCalls, CheckoutCall{Dir: dir, Ref: ref})
	return s.CheckoutErr
}
