package settings

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// Preference keys as they appear in the settings file
const (
	keyWidth    = "width"
	keyHeight   = "height"
	keyAlpha    = "alpha"
	keyColor    = "color"
	keyAbortKey = "abort_key"
)

// Store manages preference persistence. Everything is written as a flat
// string map, one key per scalar, so a single malformed value never takes
// the rest of the file down with it.
type Store struct {
	mu       sync.Mutex
	filePath string
}

// NewStore creates a store backed by ~/.linehighlighter/settings.json
func NewStore() (*Store, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	settingsDir := filepath.Join(homeDir, ".linehighlighter")
	if err := os.MkdirAll(settingsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create settings directory: %w", err)
	}

	return &Store{filePath: filepath.Join(settingsDir, "settings.json")}, nil
}

// NewStoreAt creates a store backed by an explicit file path
func NewStoreAt(path string) *Store {
	return &Store{filePath: path}
}

// Path returns the full path to the settings file
func (s *Store) Path() string {
	return s.filePath
}

// Load reads the persisted preferences, falling back to the given defaults
// per key. A missing file, a malformed file, or a malformed individual value
// never surfaces as an error; the bad value is logged and the default kept.
func (s *Store) Load(defaults Settings) Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := defaults

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return out.Normalized()
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		slog.Warn("settings file is malformed, using defaults", "path", s.filePath, "error", err)
		return out.Normalized()
	}

	if v, ok := raw[keyWidth]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			out.Width = n
		} else {
			slog.Warn("stored width is malformed, keeping default", "value", v)
		}
	}
	if v, ok := raw[keyHeight]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			out.Height = n
		} else {
			slog.Warn("stored height is malformed, keeping default", "value", v)
		}
	}
	if v, ok := raw[keyAlpha]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			out.Alpha = f
		} else {
			slog.Warn("stored alpha is malformed, keeping default", "value", v)
		}
	}
	if v, ok := raw[keyColor]; ok {
		if c, err := ParseHexColor(v); err == nil {
			out.Color = c
		} else {
			slog.Warn("stored color is malformed, keeping default", "value", v)
		}
	}
	if v, ok := raw[keyAbortKey]; ok && v != "" {
		out.AbortKey = v
	}

	return out.Normalized()
}

// Save writes every preference key to disk
func (s *Store) Save(cfg Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw := map[string]string{
		keyWidth:    strconv.Itoa(cfg.Width),
		keyHeight:   strconv.Itoa(cfg.Height),
		keyAlpha:    strconv.FormatFloat(cfg.Alpha, 'g', -1, 64),
		keyColor:    cfg.Color.Hex(),
		keyAbortKey: cfg.AbortKey,
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.filePath, data, 0644)
}
