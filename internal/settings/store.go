package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// AppID names the per-user config directory.
	AppID = "browser-proxy-launcher"
	// SettingsFileName is the settings document inside the config directory.
	SettingsFileName = "settings.json"
	// ConfigDirEnv overrides the config directory.
	ConfigDirEnv = "BPLAUNCH_CONFIG_DIR"
)

// Variable to allow mocking in tests
var userConfigDir = os.UserConfigDir

// PersistenceError reports a failure reading or writing the settings document.
type PersistenceError struct {
	Op   string // "read", "decode", "encode" or "write"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s settings '%s': %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// DefaultDir returns the application's configuration directory path.
func DefaultDir() (string, error) {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir, nil
	}
	base, err := userConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine user config directory: %w", err)
	}
	return filepath.Join(base, AppID), nil
}

// Store reads and writes the settings document. It keeps no cached copy:
// every Load goes back to disk.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("config directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create config directory '%s': %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// ConfigDir is where the document, profiles, backups and caches live.
func (s *Store) ConfigDir() string { return s.dir }

// ConfigPath is the settings document path.
func (s *Store) ConfigPath() string { return filepath.Join(s.dir, SettingsFileName) }

// ProfilesDir holds one browser user-data directory per site or proxy test.
func (s *Store) ProfilesDir() string { return filepath.Join(s.dir, "profiles") }

// BackupsDir holds copies of settings.json taken before an import.
func (s *Store) BackupsDir() string { return filepath.Join(s.dir, "backups") }

// CacheDir holds the browser detection cache.
func (s *Store) CacheDir() string { return filepath.Join(s.dir, "cache") }

// Load reads the settings document. A missing file yields the defaults.
func (s *Store) Load() (*AppSettings, error) {
	path := s.ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, &PersistenceError{Op: "read", Path: path, Err: err}
	}

	cfg, err := Decode(data)
	if err != nil {
		return nil, &PersistenceError{Op: "decode", Path: path, Err: err}
	}
	return cfg, nil
}

// Save overwrites the settings document with cfg. The document is written to
// a temporary file and renamed into place, so a failure leaves the previous
// document intact.
func (s *Store) Save(cfg *AppSettings) error {
	path := s.ConfigPath()
	if cfg == nil {
		return &PersistenceError{Op: "encode", Path: path, Err: errors.New("cannot save nil settings")}
	}

	data, err := Encode(cfg)
	if err != nil {
		return &PersistenceError{Op: "encode", Path: path, Err: err}
	}

	if err := writeFileAtomic(path, data); err != nil {
		return &PersistenceError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// Decode parses a JSON settings document over the defaults, so fields missing
// from older documents keep their default values.
func Decode(data []byte) (*AppSettings, error) {
	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return Normalize(cfg), nil
}

// Encode renders cfg as indented JSON.
func Encode(cfg *AppSettings) ([]byte, error) {
	c := *cfg
	data, err := json.MarshalIndent(Normalize(&c), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".settings-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
