package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/phuslu/log"
	"gopkg.in/yaml.v2"
)

const DefaultBaseURL = "http://127.0.0.1:8000"

// Settings files looked up in the working directory, in order.
var SettingsFiles = []string{".quantops.yaml", ".quantops.yml", ".quantops.toml"}

type Settings struct {
	BaseURL           string   `yaml:"base_url" toml:"base_url" validate:"required,url"`
	TimeoutSeconds    int      `yaml:"timeout_seconds" toml:"timeout_seconds" validate:"gte=0,lte=600"`
	DefaultMode       string   `yaml:"default_mode" toml:"default_mode" validate:"oneof=short long"`
	RateLimit         int      `yaml:"rate_limit" toml:"rate_limit" validate:"gte=0,lte=100"`
	MaxRequests       int64    `yaml:"max_requests" toml:"max_requests" validate:"gte=0"`
	WatchSchedule     string   `yaml:"watch_schedule" toml:"watch_schedule" validate:"required"`
	LogLevel          string   `yaml:"log_level" toml:"log_level" validate:"oneof=debug info warn error"`
	LogFile           string   `yaml:"log_file" toml:"log_file"`
	RedactionPatterns []string `yaml:"redaction_patterns" toml:"redaction_patterns"`
}

var settingsCache struct {
	mu       sync.RWMutex
	path     string
	exists   bool
	modTime  int64
	settings Settings
}

var validate = validator.New()

func DefaultSettings() Settings {
	return Settings{
		BaseURL:        DefaultBaseURL,
		TimeoutSeconds: 15,
		DefaultMode:    "short",
		RateLimit:      2,
		MaxRequests:    0, // 0 means unlimited
		WatchSchedule:  "@every 30s",
		LogLevel:       "info",
		LogFile:        filepath.Join("logs", "quantops.log"),
	}
}

// Timeout returns the request timeout; zero disables it.
func (s Settings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Validate checks field constraints after normalising case.
func (s *Settings) Validate() error {
	s.DefaultMode = strings.ToLower(strings.TrimSpace(s.DefaultMode))
	s.LogLevel = strings.ToLower(strings.TrimSpace(s.LogLevel))
	s.BaseURL = strings.TrimRight(strings.TrimSpace(s.BaseURL), "/")
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// LoadSettingsFrom decodes a YAML or TOML settings file on top of the defaults.
// Keys missing from the file keep their default value.
func LoadSettingsFrom(path string) (Settings, error) {
	s := DefaultSettings()
	raw, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(raw, &s)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &s)
	default:
		return DefaultSettings(), fmt.Errorf("unsupported settings format: %s", path)
	}
	if err != nil {
		return DefaultSettings(), fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return DefaultSettings(), err
	}
	return s, nil
}

// LoadSettings reads the first settings file found in the working directory.
// Invalid or missing files yield the defaults. Results are cached by path and mtime.
func LoadSettings() Settings {
	for _, name := range SettingsFiles {
		path, err := filepath.Abs(name)
		if err != nil {
			path = name
		}
		st, statErr := os.Stat(path)
		if statErr != nil {
			continue
		}
		return loadCached(path, st.ModTime().UnixNano())
	}

	settingsCache.mu.Lock()
	settingsCache.path = ""
	settingsCache.exists = false
	settingsCache.modTime = 0
	settingsCache.settings = DefaultSettings()
	settingsCache.mu.Unlock()
	return DefaultSettings()
}

func loadCached(path string, modTime int64) Settings {
	settingsCache.mu.RLock()
	if settingsCache.path == path && settingsCache.exists && settingsCache.modTime == modTime {
		cached := settingsCache.settings
		settingsCache.mu.RUnlock()
		return cached
	}
	settingsCache.mu.RUnlock()

	s, err := LoadSettingsFrom(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("falling back to default settings")
	}

	settingsCache.mu.Lock()
	settingsCache.path = path
	settingsCache.exists = true
	settingsCache.modTime = modTime
	settingsCache.settings = s
	settingsCache.mu.Unlock()
	return s
}

// WriteSettings saves s as YAML, or TOML when path ends in .toml.
func WriteSettings(path string, s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	var (
		raw []byte
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		raw, err = toml.Marshal(s)
	} else {
		raw, err = yaml.Marshal(s)
	}
	if err != nil {
		return err
	}
	content := append([]byte("# QuantOps settings\n\n"), raw...)
	return os.WriteFile(path, content, 0o644)
}
