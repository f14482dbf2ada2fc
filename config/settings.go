package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Settings is the client configuration persisted to disk.
type Settings struct {
	API     APISettings `json:"api"`
	Auth    AuthConfig  `json:"auth"`
	Log     LogConfig   `json:"log"`
	Onboard OnboardUI   `json:"onboarding"`
}

type APISettings struct {
	BaseURL        string `json:"baseUrl"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
	RateLimit      int    `json:"rateLimit"` // requests per second
}

type AuthConfig struct {
	TokenFile string `json:"tokenFile"`
}

type LogConfig struct {
	Level      string `json:"level"`
	File       string `json:"file"`
	MaxSize    int    `json:"maxSize"` // megabytes
	MaxBackups int    `json:"maxBackups"`
	MaxAge     int    `json:"maxAge"` // days
	Compress   bool   `json:"compress"`
}

// OnboardUI holds presentation constants the swipe deck needs from config.
type OnboardUI struct {
	ViewportWidth float64 `json:"viewportWidth"`
}

// DefaultSettings returns the configuration written on first run.
func DefaultSettings() Settings {
	return Settings{
		API: APISettings{
			BaseURL:        "http://localhost:8000",
			TimeoutSeconds: 15,
			RateLimit:      20,
		},
		Auth: AuthConfig{
			TokenFile: filepath.Join("cache", "token.json"),
		},
		Log: LogConfig{
			Level:      "info",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     14,
		},
		Onboard: OnboardUI{
			ViewportWidth: 390,
		},
	}
}

// Manager loads and persists Settings at a fixed path.
type Manager struct {
	path string
}

func NewManager(configPath string) *Manager {
	return &Manager{path: configPath}
}

// Load reads settings from disk, creating the file with defaults when it
// does not exist yet. Environment variables (optionally from a .env file)
// override what was read; overrides are not written back.
func (m *Manager) Load() (Settings, error) {
	if m.path == "" {
		return Settings{}, errors.New("config path not set")
	}

	var settings Settings
	if _, err := os.Stat(m.path); errors.Is(err, fs.ErrNotExist) {
		settings = DefaultSettings()
		if err := m.Save(settings); err != nil {
			return Settings{}, err
		}
	} else {
		data, err := os.ReadFile(m.path)
		if err != nil {
			return Settings{}, err
		}
		settings = DefaultSettings()
		if err := json.Unmarshal(data, &settings); err != nil {
			return Settings{}, err
		}
	}

	applyEnv(&settings)
	return settings, nil
}

// Save writes settings atomically (temp file + rename).
func (m *Manager) Save(s Settings) error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, m.path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// applyEnv layers CINEMIND_* environment variables over the loaded settings.
// A .env file in the working directory is honored when present.
func applyEnv(s *Settings) {
	_ = godotenv.Load()

	if v := strings.TrimSpace(os.Getenv("CINEMIND_API_BASE_URL")); v != "" {
		s.API.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("CINEMIND_API_TIMEOUT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.API.TimeoutSeconds = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("CINEMIND_TOKEN_FILE")); v != "" {
		s.Auth.TokenFile = v
	}
	if v := strings.TrimSpace(os.Getenv("CINEMIND_LOG_LEVEL")); v != "" {
		s.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("CINEMIND_LOG_FILE")); v != "" {
		s.Log.File = v
	}
}
