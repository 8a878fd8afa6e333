// Package config provides layered configuration for the mandala tools.
// Priority: defaults < user < project < env < flags
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/Crazzygamerr/zen-mandala/pkg/kernel"
	"github.com/Crazzygamerr/zen-mandala/pkg/mandala"
	"gopkg.in/yaml.v3"
)

// Config holds all mandala configuration.
type Config struct {
	Render    RenderConfig    `yaml:"render"`
	Animation AnimationConfig `yaml:"animation"`
	Log       LogConfig       `yaml:"log"`
}

// RenderConfig controls the output surface.
type RenderConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Background string `yaml:"background"` // #rgb, #rrggbb or 0xrrggbb
	Backend    string `yaml:"backend"`    // png | svg
}

// AnimationConfig controls the logical clock and the frame loop.
type AnimationConfig struct {
	Delta float64 `yaml:"delta"` // clock units per tick
	FPS   int     `yaml:"fps"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug | info | warn | error | off
}

// Backends accepted in render.backend.
const (
	BackendPNG = "png"
	BackendSVG = "svg"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MANDALA_"

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Width:      800,
			Height:     600,
			Background: "#ffffff",
			Backend:    BackendPNG,
		},
		Animation: AnimationConfig{
			Delta: 1,
			FPS:   30,
		},
		Log: LogConfig{
			Level: "off",
		},
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		errs = append(errs, fmt.Errorf("render: surface %dx%d must be positive", c.Render.Width, c.Render.Height))
	}
	if _, err := kernel.ParseColor(c.Render.Background); err != nil {
		errs = append(errs, fmt.Errorf("render.background: %w", err))
	}
	switch c.Render.Backend {
	case BackendPNG, BackendSVG:
	default:
		errs = append(errs, fmt.Errorf("render.backend: unknown backend %q", c.Render.Backend))
	}
	if c.Animation.Delta <= 0 {
		errs = append(errs, fmt.Errorf("animation.delta: must be positive, got %g", c.Animation.Delta))
	}
	if c.Animation.FPS <= 0 {
		errs = append(errs, fmt.Errorf("animation.fps: must be positive, got %d", c.Animation.FPS))
	}
	if _, _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errors.Join(errs...)
}

// AppOptions converts the render section to composition surface options.
func (c *Config) AppOptions() (mandala.AppOptions, error) {
	bg, err := kernel.ParseColor(c.Render.Background)
	if err != nil {
		return mandala.AppOptions{}, fmt.Errorf("render.background: %w", err)
	}
	opts := mandala.DefaultAppOptions()
	opts.Width = c.Render.Width
	opts.Height = c.Render.Height
	opts.Background = bg
	return opts, nil
}

// LogLevel returns the slog level and whether logging is enabled at all.
func (c *Config) LogLevel() (slog.Level, bool) {
	lvl, on, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo, false
	}
	return lvl, on
}

func parseLevel(s string) (slog.Level, bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off", "none":
		return slog.LevelInfo, false, nil
	case "debug":
		return slog.LevelDebug, true, nil
	case "info":
		return slog.LevelInfo, true, nil
	case "warn", "warning":
		return slog.LevelWarn, true, nil
	case "error":
		return slog.LevelError, true, nil
	}
	return 0, false, fmt.Errorf("unknown level %q", s)
}

// Manager handles configuration loading and merging.
type Manager struct {
	mu     sync.RWMutex
	config *Config
	paths  []string // paths that were loaded
}

// NewManager creates a new configuration manager holding the defaults.
func NewManager() *Manager {
	return &Manager{
		config: Default(),
	}
}

// Load loads configuration from the user and project files, then the
// environment.
func (m *Manager) Load() error {
	return m.LoadFrom(DefaultPaths()...)
}

// LoadFrom resets to defaults and merges the given files in order (later
// overrides earlier), then the environment. Missing files are skipped.
func (m *Manager) LoadFrom(paths ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.config = Default()
	m.paths = nil

	for _, path := range paths {
		if err := m.loadFile(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config %s: %w", path, err)
		}
		m.paths = append(m.paths, path)
	}

	return m.loadEnv()
}

// DefaultPaths returns config file paths in priority order.
func DefaultPaths() []string {
	var paths []string

	// User config
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "mandala", "config.yaml"))
	}

	// Project config (current directory)
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".mandala.yaml"))
	}

	return paths
}

// loadFile loads a single config file and merges it. Unknown keys are
// rejected so that typos do not silently fall back to defaults.
func (m *Manager) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var partial Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&partial); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	m.merge(&partial)
	return nil
}

// merge merges non-zero values from src into config.
func (m *Manager) merge(src *Config) {
	// Render
	if src.Render.Width != 0 {
		m.config.Render.Width = src.Render.Width
	}
	if src.Render.Height != 0 {
		m.config.Render.Height = src.Render.Height
	}
	if src.Render.Background != "" {
		m.config.Render.Background = src.Render.Background
	}
	if src.Render.Backend != "" {
		m.config.Render.Backend = src.Render.Backend
	}

	// Animation
	if src.Animation.Delta != 0 {
		m.config.Animation.Delta = src.Animation.Delta
	}
	if src.Animation.FPS != 0 {
		m.config.Animation.FPS = src.Animation.FPS
	}

	// Log
	if src.Log.Level != "" {
		m.config.Log.Level = src.Log.Level
	}
}

// loadEnv loads configuration from MANDALA_* environment variables.
func (m *Manager) loadEnv() error {
	var errs []error
	atoi := func(key string, dst *int) {
		if v := os.Getenv(EnvPrefix + key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	str := func(key string, dst *string) {
		if v := os.Getenv(EnvPrefix + key); v != "" {
			*dst = v
		}
	}

	atoi("WIDTH", &m.config.Render.Width)
	atoi("HEIGHT", &m.config.Render.Height)
	str("BACKGROUND", &m.config.Render.Background)
	str("BACKEND", &m.config.Render.Backend)
	atoi("FPS", &m.config.Animation.FPS)
	str("LOG_LEVEL", &m.config.Log.Level)

	if v := os.Getenv(EnvPrefix + "DELTA"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sDELTA: %w", EnvPrefix, err))
		} else {
			m.config.Animation.Delta = f
		}
	}
	return errors.Join(errs...)
}

// Get returns a copy of the current configuration. Callers may apply flag
// overrides to the copy.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := *m.config
	return &c
}

// Paths returns the files that were loaded.
func (m *Manager) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.paths...)
}

// Save writes the current config to path, creating parent directories.
func (m *Manager) Save(path string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(m.config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
