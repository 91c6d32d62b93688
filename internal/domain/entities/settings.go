package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	defaultRepoSuffix     = ".git"
	defaultTimeoutSeconds = 120
	defaultMaxOutputBytes = 10 * 1024 * 1024
	defaultGitBinary      = "git"
)

// DefaultNotFoundPatterns are the messages git and common servers print when
// the remote repository does not exist.
func DefaultNotFoundPatterns() []string {
	return []string{
		"Repository does not exist",
		"Repository not found",
		"not found",
		"does not appear to be a git repository",
	}
}

// Settings is the persisted configuration of a Git source location.
type Settings struct {
	BaseURL          string   `yaml:"baseurl"`
	RepoSuffix       *string  `yaml:"reposuffix"`
	ShallowClone     *bool    `yaml:"shallowclone"`
	Auth             string   `yaml:"auth"`
	Timeout          int      `yaml:"timeout"`
	MaxRepoSize      int      `yaml:"maxRepoSize"`
	TmpDir           string   `yaml:"tmpDir"`
	MaxOutputBytes   int64    `yaml:"maxOutputBytes"`
	NotFoundPatterns []string `yaml:"notFoundPatterns"`
	GateSlots        int      `yaml:"gateSlots"`
	GitBinary        string   `yaml:"gitBinary"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// NewSettings reads, defaults and validates the configuration file at path.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var settings Settings
	if unmarshalErr := yaml.Unmarshal(data, &settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	settings.Auth = ResolveToken("auth", settings.Auth)
	settings.ApplyDefaults()

	if validateErr := settings.Validate(); validateErr != nil {
		return nil, validateErr
	}

	return &settings, nil
}

// ApplyDefaults fills every unset field with its default value.
func (s *Settings) ApplyDefaults() {
	if s.RepoSuffix == nil {
		suffix := defaultRepoSuffix
		s.RepoSuffix = &suffix
	}
	if s.ShallowClone == nil {
		shallow := true
		s.ShallowClone = &shallow
	}
	if s.Timeout <= 0 {
		s.Timeout = defaultTimeoutSeconds
	}
	if s.MaxOutputBytes <= 0 {
		s.MaxOutputBytes = defaultMaxOutputBytes
	}
	if len(s.NotFoundPatterns) == 0 {
		s.NotFoundPatterns = DefaultNotFoundPatterns()
	}
	if s.TmpDir == "" {
		s.TmpDir = os.TempDir()
	}
	if s.GitBinary == "" {
		s.GitBinary = defaultGitBinary
	}
}

// Validate reports configuration errors that no network call can fix.
func (s *Settings) Validate() error {
	if err := ValidateBaseLocation(s.BaseURL); err != nil {
		return NewSourceError(KindFatal, StageConfiguring, err, "baseurl: %v", err)
	}
	if s.MaxRepoSize < 0 {
		return NewSourceError(KindFatal, StageConfiguring, nil, "maxRepoSize must not be negative")
	}
	if s.GateSlots < 0 {
		return NewSourceError(KindFatal, StageConfiguring, nil, "gateSlots must not be negative")
	}
	return nil
}

// Suffix returns the suffix appended to every repository identifier.
func (s *Settings) Suffix() string {
	if s.RepoSuffix == nil {
		return defaultRepoSuffix
	}
	return *s.RepoSuffix
}

// Shallow reports whether depth-limited clones are enabled.
func (s *Settings) Shallow() bool {
	return s.ShallowClone == nil || *s.ShallowClone
}

// TimeoutDuration returns the wall-clock limit of a single subprocess.
func (s *Settings) TimeoutDuration() time.Duration {
	if s.Timeout <= 0 {
		return defaultTimeoutSeconds * time.Second
	}
	return time.Duration(s.Timeout) * time.Second
}

// MaxRepoBytes returns the repository size limit in bytes, 0 meaning unlimited.
func (s *Settings) MaxRepoBytes() int64 {
	return int64(s.MaxRepoSize) * 1024 * 1024
}

// Credential decodes the configured credential token.
func (s *Settings) Credential() *Credential {
	return DecodeCredential(s.Auth)
}

// MatchesNotFound reports whether a tool message signals a missing repository.
func (s *Settings) MatchesNotFound(message string) bool {
	patterns := s.NotFoundPatterns
	if len(patterns) == 0 {
		patterns = DefaultNotFoundPatterns()
	}
	lower := strings.ToLower(message)
	for _, pattern := range patterns {
		if pattern != "" && strings.Contains(lower, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

// ErrConfigNotFound is returned when no search directory holds a settings file.
var ErrConfigNotFound = errors.New("config file not found")

// configFileNames are tried in order inside every search directory.
var configFileNames = []string{ //nolint:gochecknoglobals // read-only lookup table
	".jspm-git.yaml",
	".jspm-git.yml",
	"jspm-git.yaml",
	"jspm-git.yml",
}

// configSearchDirs lists the directories searched for a settings file, the
// project ones first and then the user's home.
func configSearchDirs() []string {
	dirs := []string{".", ".config", "configs"}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		dirs = append(dirs, home, filepath.Join(home, ".config"))
	}
	return dirs
}

// FindConfigFile returns the first settings file found in the search directories.
func FindConfigFile() (string, error) {
	dirs := configSearchDirs()
	for _, dir := range dirs {
		for _, name := range configFileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
				return candidate, nil
			}
		}
	}
	return "", fmt.Errorf("%w in %s", ErrConfigNotFound, strings.Join(dirs, ", "))
}

// ResolveToken expands the ${VAR} references in the value of setting. When
// the result names a regular file, the trimmed file content is used instead,
// so secrets can live outside the settings file.
func ResolveToken(setting, raw string) string {
	var unset []string
	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		name := envVarPattern.FindStringSubmatch(match)[1]
		value, ok := os.LookupEnv(name)
		if !ok {
			unset = append(unset, name)
		}
		return value
	})
	if len(unset) > 0 {
		logger.Warnf("Setting %q references unset environment variables: %s", setting, strings.Join(unset, ", "))
	}
	if resolved == "" {
		return resolved
	}

	info, err := os.Stat(resolved)
	if err != nil || !info.Mode().IsRegular() {
		return resolved
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		logger.Warnf("Failed to read setting %q from %s: %v", setting, resolved, err)
		return resolved
	}
	logger.Debugf("Read setting %q from %s", setting, resolved)
	return strings.TrimSpace(string(data))
}
