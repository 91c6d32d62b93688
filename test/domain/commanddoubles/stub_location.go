//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/Orbs/jspm-git/internal/domain/commands"
	"github.com/Orbs/jspm-git/internal/domain/entities"
)

// StubLocation is a stub implementation of commands.Location.
type StubLocation struct {
	// LookupErrs are returned in order, one per call, before LookupResult.
	LookupErrs   []error
	LookupResult *entities.LookupResult
	LookupCalls  []string

	DownloadResult *commands.DownloadResult
	DownloadErr    error
	DownloadCalls  []commands.DownloadRequest

	ProcessedPackages []string
	Disposed          bool
}

var _ commands.Location = (*StubLocation)(nil)

func (s *StubLocation) Lookup(_ context.Context, repoID string) (*entities.LookupResult, error) {
	s.LookupCalls = append(s.LookupCalls, repoID)
	if len(s.LookupErrs) > 0 {
		err := s.LookupErrs[0]
		s.LookupErrs = s.LookupErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return s.LookupResult, nil
}

func (s *StubLocation) Download(
	_ context.Context, req commands.DownloadRequest,
) (*commands.DownloadResult, error) {
	s.DownloadCalls = append(s.DownloadCalls, req)
	return s.DownloadResult, s.DownloadErr
}

func (s *StubLocation) ProcessPackageConfig(manifest entities.Manifest, packageID string) entities.Manifest {
	processed, _ := entities.ProcessPackageConfig(manifest, packageID)
	return processed
}

func (s *StubLocation) ProcessPackage(
	_ context.Context, manifest entities.Manifest, packageID, _ string,
) (entities.Manifest, error) {
	s.ProcessedPackages = append(s.ProcessedPackages, packageID)
	return manifest, nil
}

func (s *StubLocation) Dispose() { s.Disposed = true }
