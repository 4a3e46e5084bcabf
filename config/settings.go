package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Settings represents the application configuration persisted to disk.
type Settings struct {
	Server    ServerSettings    `json:"server"`
	Catalog   CatalogSettings   `json:"catalog"`
	Streaming StreamingSettings `json:"streaming"`
	Cache     CacheSettings     `json:"cache"`
	Storage   StorageSettings   `json:"storage"`
	Log       LogConfig         `json:"log"`
}

type ServerSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// CatalogSettings configures the external catalog API.
type CatalogSettings struct {
	AccessToken  string `json:"accessToken"`
	BaseURL      string `json:"baseUrl"`
	ImageBaseURL string `json:"imageBaseUrl"`
	Language     string `json:"language"`
}

// StreamingSettings configures the external embed player the frontend mounts.
type StreamingSettings struct {
	EmbedBaseURL string `json:"embedBaseUrl"`
}

// CacheSettings holds catalog response cache TTLs, in minutes.
type CacheSettings struct {
	TrendingTTLMinutes int `json:"trendingTtlMinutes"`
	ListTTLMinutes     int `json:"listTtlMinutes"`
	DetailsTTLMinutes  int `json:"detailsTtlMinutes"`
	SearchTTLMinutes   int `json:"searchTtlMinutes"`
}

// StorageSettings locates the JSON document stores.
type StorageSettings struct {
	Directory string `json:"directory"`
}

// LogConfig represents file logging configuration.
type LogConfig struct {
	File       string `json:"file"`
	MaxSize    int    `json:"maxSize"`
	MaxAge     int    `json:"maxAge"`
	MaxBackups int    `json:"maxBackups"`
	Compress   bool   `json:"compress"`
}

// DefaultSettings returns the configuration written on first start.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{
			Host: "0.0.0.0",
			Port: 8480,
		},
		Catalog: CatalogSettings{
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p",
			Language:     "en-US",
		},
		Streaming: StreamingSettings{
			EmbedBaseURL: "https://vidsrc.to/embed",
		},
		Cache: CacheSettings{
			TrendingTTLMinutes: 15,
			ListTTLMinutes:     60,
			DetailsTTLMinutes:  120,
			SearchTTLMinutes:   30,
		},
		Storage: StorageSettings{
			Directory: "data",
		},
		Log: LogConfig{
			MaxSize:    10,
			MaxAge:     14,
			MaxBackups: 3,
		},
	}
}

// Manager loads and persists Settings at a fixed path.
type Manager struct {
	path string
}

// NewManager creates a settings manager for the provided path.
func NewManager(configPath string) *Manager {
	return &Manager{path: strings.TrimSpace(configPath)}
}

// Load reads settings from disk, creating the file with defaults when absent.
// Fields absent from older config files are filled with defaults.
func (m *Manager) Load() (Settings, error) {
	if m.path == "" {
		return Settings{}, errors.New("config path not set")
	}

	if _, err := os.Stat(m.path); errors.Is(err, fs.ErrNotExist) {
		defaults := DefaultSettings()
		if err := m.Save(defaults); err != nil {
			return Settings{}, err
		}
		return defaults, nil
	}

	f, err := os.Open(m.path)
	if err != nil {
		return Settings{}, fmt.Errorf("open settings: %w", err)
	}
	defer f.Close()

	var settings Settings
	if err := json.NewDecoder(f).Decode(&settings); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}

	applyDefaults(&settings)
	return settings, nil
}

// Save writes the settings atomically via a temp file rename.
func (m *Manager) Save(s Settings) error {
	if m.path == "" {
		return errors.New("config path not set")
	}

	if dir := filepath.Dir(m.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}

	tmp := m.path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create settings temp file: %w", err)
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		file.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("encode settings: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close settings temp file: %w", err)
	}

	if err := os.Rename(tmp, m.path); err != nil {
		return fmt.Errorf("replace settings file: %w", err)
	}

	return nil
}

func applyDefaults(s *Settings) {
	defaults := DefaultSettings()

	if s.Server.Port == 0 {
		s.Server.Port = defaults.Server.Port
	}
	if strings.TrimSpace(s.Server.Host) == "" {
		s.Server.Host = defaults.Server.Host
	}
	if strings.TrimSpace(s.Catalog.BaseURL) == "" {
		s.Catalog.BaseURL = defaults.Catalog.BaseURL
	}
	if strings.TrimSpace(s.Catalog.ImageBaseURL) == "" {
		s.Catalog.ImageBaseURL = defaults.Catalog.ImageBaseURL
	}
	if strings.TrimSpace(s.Catalog.Language) == "" {
		s.Catalog.Language = defaults.Catalog.Language
	}
	if strings.TrimSpace(s.Streaming.EmbedBaseURL) == "" {
		s.Streaming.EmbedBaseURL = defaults.Streaming.EmbedBaseURL
	}
	if s.Cache.TrendingTTLMinutes == 0 {
		s.Cache.TrendingTTLMinutes = defaults.Cache.TrendingTTLMinutes
	}
	if s.Cache.ListTTLMinutes == 0 {
		s.Cache.ListTTLMinutes = defaults.Cache.ListTTLMinutes
	}
	if s.Cache.DetailsTTLMinutes == 0 {
		s.Cache.DetailsTTLMinutes = defaults.Cache.DetailsTTLMinutes
	}
	if s.Cache.SearchTTLMinutes == 0 {
		s.Cache.SearchTTLMinutes = defaults.Cache.SearchTTLMinutes
	}
	if strings.TrimSpace(s.Storage.Directory) == "" {
		s.Storage.Directory = defaults.Storage.Directory
	}
}
