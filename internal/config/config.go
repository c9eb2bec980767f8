package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config is the resolved nearby configuration.
type Config struct {
	DataDir      string
	Store        string
	FixturesDir  string
	FixturesURL  string
	ShareBaseURL string
	LogLevel     string
	LogFile      string
	Search       Search
	Reels        Reels
}

// Search tunes the search engine.
type Search struct {
	DebounceMS             int `toml:"debounce_ms"`
	SuggestionLimit        int `toml:"suggestion_limit"`
	RecentCap              int `toml:"recent_cap"`
	TrendingLimit          int `toml:"trending_limit"`
	TrendingRefreshSeconds int `toml:"trending_refresh_seconds"`
}

// Reels tunes the reel feed.
type Reels struct {
	// AdCadence is the number of videos between ads; negative disables ads.
	AdCadence        int `toml:"ad_cadence"`
	DoubleTapMS      int `toml:"double_tap_ms"`
	MaxUploadSeconds int `toml:"max_upload_seconds"`
}

const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

const (
	defaultConfigPath   = "~/.config/nearby/config.toml"
	defaultDataDir      = "~/.local/share/nearby"
	defaultShareBaseURL = "https://nearby.mkt/reels"
	defaultLogLevel     = "info"
	logFileName         = "nearby.log"

	defaultDebounceMS       = 200
	defaultSuggestionLimit  = 8
	defaultRecentCap        = 10
	defaultTrendingLimit    = 10
	defaultAdCadence        = 5
	defaultDoubleTapMS      = 300
	defaultMaxUploadSeconds = 60

	// uploadSlack absorbs container metadata rounding on upload durations.
	uploadSlack = 50 * time.Millisecond
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		DataDir:      mustExpand(defaultDataDir),
		Store:        StoreFile,
		ShareBaseURL: defaultShareBaseURL,
		LogLevel:     defaultLogLevel,
		Search: Search{
			DebounceMS:      defaultDebounceMS,
			SuggestionLimit: defaultSuggestionLimit,
			RecentCap:       defaultRecentCap,
			TrendingLimit:   defaultTrendingLimit,
		},
		Reels: Reels{
			AdCadence:        defaultAdCadence,
			DoubleTapMS:      defaultDoubleTapMS,
			MaxUploadSeconds: defaultMaxUploadSeconds,
		},
	}
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		DataDir      string `toml:"data_dir"`
		Store        string `toml:"store"`
		FixturesDir  string `toml:"fixtures_dir"`
		FixturesURL  string `toml:"fixtures_url"`
		ShareBaseURL string `toml:"share_base_url"`
		LogLevel     string `toml:"log_level"`
		LogFile      string `toml:"log_file"`
		Search       Search `toml:"search"`
		Reels        Reels  `toml:"reels"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()
	if dir := strings.TrimSpace(raw.DataDir); dir != "" {
		cfg.DataDir = mustExpand(dir)
	}
	if store := strings.ToLower(strings.TrimSpace(raw.Store)); store != "" {
		switch store {
		case StoreFile, StoreSQLite, StoreMemory:
			cfg.Store = store
		default:
			return Config{}, fmt.Errorf("invalid store %q: want file, sqlite or memory", raw.Store)
		}
	}
	if dir := strings.TrimSpace(raw.FixturesDir); dir != "" {
		cfg.FixturesDir = mustExpand(dir)
	}
	cfg.FixturesURL = strings.TrimSpace(raw.FixturesURL)
	if base := strings.TrimSpace(raw.ShareBaseURL); base != "" {
		cfg.ShareBaseURL = base
	}
	if lvl := strings.TrimSpace(raw.LogLevel); lvl != "" {
		cfg.LogLevel = lvl
	}
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}

	cfg.Search.DebounceMS = positiveOr(raw.Search.DebounceMS, defaultDebounceMS)
	cfg.Search.SuggestionLimit = min(positiveOr(raw.Search.SuggestionLimit, defaultSuggestionLimit), defaultSuggestionLimit)
	cfg.Search.RecentCap = positiveOr(raw.Search.RecentCap, defaultRecentCap)
	cfg.Search.TrendingLimit = positiveOr(raw.Search.TrendingLimit, defaultTrendingLimit)
	cfg.Search.TrendingRefreshSeconds = max(raw.Search.TrendingRefreshSeconds, 0)

	if raw.Reels.AdCadence != 0 {
		cfg.Reels.AdCadence = raw.Reels.AdCadence
	}
	cfg.Reels.DoubleTapMS = positiveOr(raw.Reels.DoubleTapMS, defaultDoubleTapMS)
	cfg.Reels.MaxUploadSeconds = positiveOr(raw.Reels.MaxUploadSeconds, defaultMaxUploadSeconds)

	return cfg, nil
}

// LogPath returns the log file, defaulting to <data_dir>/nearby.log.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogFile) != "" {
		return c.LogFile
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return mustExpand(defaultDataDir + "/" + logFileName)
	}
	return filepath.Join(c.DataDir, logFileName)
}

// Debounce returns the search debounce window.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.Search.DebounceMS) * time.Millisecond
}

// TrendingRefresh returns the trending poll interval; zero disables polling.
func (c Config) TrendingRefresh() time.Duration {
	return time.Duration(c.Search.TrendingRefreshSeconds) * time.Second
}

// DoubleTapWindow returns the maximum gap between taps of a double tap.
func (c Config) DoubleTapWindow() time.Duration {
	return time.Duration(c.Reels.DoubleTapMS) * time.Millisecond
}

// MaxUpload returns the longest accepted upload.
func (c Config) MaxUpload() time.Duration {
	return time.Duration(c.Reels.MaxUploadSeconds)*time.Second + uploadSlack
}

func positiveOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
