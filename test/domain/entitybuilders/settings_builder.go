//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/Orbs/jspm-git/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

const defaultBaseURL = "https://git.example.com/"

// SettingsBuilder helps create test settings with a fluent interface.
type SettingsBuilder struct {
	*testkit.BaseBuilder
	baseURL          string
	repoSuffix       *string
	shallow          *bool
	auth             string
	timeout          int
	maxRepoSize      int
	tmpDir           string
	maxOutputBytes   int64
	notFoundPatterns []string
}

// NewSettingsBuilder creates a new settings builder with sensible defaults.
func NewSettingsBuilder() *SettingsBuilder {
	return &SettingsBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		baseURL:     defaultBaseURL,
	}
}

// WithBaseURL sets the base location.
func (b *SettingsBuilder) WithBaseURL(baseURL string) *SettingsBuilder {
	b.baseURL = baseURL
	return b
}

// WithRepoSuffix sets the repository suffix.
func (b *SettingsBuilder) WithRepoSuffix(suffix string) *SettingsBuilder {
	b.repoSuffix = &suffix
	return b
}

// WithShallowClone sets the shallow clone flag.
func (b *SettingsBuilder) WithShallowClone(shallow bool) *SettingsBuilder {
	b.shallow = &shallow
	return b
}

// WithAuth sets the encoded credential token.
func (b *SettingsBuilder) WithAuth(auth string) *SettingsBuilder {
	b.auth = auth
	return b
}

// WithCredential encodes and sets a credential.
func (b *SettingsBuilder) WithCredential(username, password string) *SettingsBuilder {
	b.auth = entities.EncodeCredential(entities.Credential{Username: username, Password: password})
	return b
}

// WithTimeout sets the timeout in seconds.
func (b *SettingsBuilder) WithTimeout(seconds int) *SettingsBuilder {
	b.timeout = seconds
	return b
}

// WithMaxRepoSize sets the repository size limit in megabytes.
func (b *SettingsBuilder) WithMaxRepoSize(megabytes int) *SettingsBuilder {
	b.maxRepoSize = megabytes
	return b
}

// WithTmpDir sets the scratch root.
func (b *SettingsBuilder) WithTmpDir(dir string) *SettingsBuilder {
	b.tmpDir = dir
	return b
}

// WithMaxOutputBytes sets the output limit of every invocation.
func (b *SettingsBuilder) WithMaxOutputBytes(limit int64) *SettingsBuilder {
	b.maxOutputBytes = limit
	return b
}

// WithNotFoundPatterns sets the not-found message patterns.
func (b *SettingsBuilder) WithNotFoundPatterns(patterns ...string) *SettingsBuilder {
	b.notFoundPatterns = patterns
	return b
}

// Build creates the settings (satisfies testkit.Builder interface).
func (b *SettingsBuilder) Build() interface{} {
	return b.BuildSettings()
}

// BuildSettings creates the settings with a concrete return type and every
// unset field defaulted.
func (b *SettingsBuilder) BuildSettings() *entities.Settings {
	settings := &entities.Settings{
		BaseURL:          b.baseURL,
		RepoSuffix:       b.repoSuffix,
		ShallowClone:     b.shallow,
		Auth:             b.auth,
		Timeout:          b.timeout,
		MaxRepoSize:      b.maxRepoSize,
		TmpDir:           b.tmpDir,
		MaxOutputBytes:   b.maxOutputBytes,
		NotFoundPatterns: b.notFoundPatterns,
	}
	settings.ApplyDefaults()
	return settings
}

// Reset clears the builder state, allowing it to be reused.
func (b *SettingsBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.baseURL = defaultBaseURL
	b.repoSuffix = nil
	b.shallow = nil
	b.auth = ""
	b.timeout = 0
	b.maxRepoSize = 0
	b.tmpDir = ""
	b.maxOutputBytes = 0
	b.notFoundPatterns = nil
	return b
}

// Clone creates a deep copy of the SettingsBuilder.
func (b *SettingsBuilder) Clone() testkit.Builder {
	return &SettingsBuilder{
		BaseBuilder:      b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		baseURL:          b.baseURL,
		repoSuffix:       b.repoSuffix,
		shallow:          b.shallow,
		auth:             b.auth,
		timeout:          b.timeout,
		maxRepoSize:      b.maxRepoSize,
		tmpDir:           b.tmpDir,
		maxOutputBytes:   b.maxOutputBytes,
		notFoundPatterns: append([]string(nil), b.notFoundPatterns...),
	}
}
