// Package exchange moves settings documents in and out of the launcher in
// JSON, YAML or TOML, and keeps backups of the live document.
package exchange

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/bplaunch/bplaunch/internal/settings"
)

// Format is a settings file encoding.
type Format int

const (
	JSON Format = iota
	YAML
	TOML
)

func (f Format) String() string {
	switch f {
	case YAML:
		return "yaml"
	case TOML:
		return "toml"
	default:
		return "json"
	}
}

// FormatForPath picks the format from the file extension. Anything that is
// not YAML or TOML is treated as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	case ".toml":
		return TOML
	default:
		return JSON
	}
}

// Encode renders cfg in format f.
func Encode(cfg *settings.AppSettings, f Format) ([]byte, error) {
	if cfg == nil {
		return nil, fmt.Errorf("cannot encode nil settings")
	}
	c := cfg.Clone()

	switch f {
	case YAML:
		data, err := yaml.Marshal(c)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal settings to YAML: %w", err)
		}
		return data, nil
	case TOML:
		buf := new(bytes.Buffer)
		if err := toml.NewEncoder(buf).Encode(c); err != nil {
			return nil, fmt.Errorf("failed to marshal settings to TOML: %w", err)
		}
		return buf.Bytes(), nil
	default:
		data, err := settings.Encode(c)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal settings to JSON: %w", err)
		}
		return data, nil
	}
}

// Decode parses data over the defaults, so missing fields keep their default
// values.
func Decode(data []byte, f Format) (*settings.AppSettings, error) {
	cfg := settings.Default()

	var err error
	switch f {
	case YAML:
		err = yaml.Unmarshal(data, cfg)
	case TOML:
		_, err = toml.Decode(string(data), cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s settings: %w", f, err)
	}
	return settings.Normalize(cfg), nil
}

// Export writes cfg to path in the format its extension names.
func Export(path string, cfg *settings.AppSettings) error {
	data, err := Encode(cfg, FormatForPath(path))
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory '%s': %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write settings to '%s': %w", path, err)
	}
	return nil
}

// Import reads a settings file in the format its extension names.
func Import(path string) (*settings.AppSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file '%s': %w", path, err)
	}
	return Decode(data, FormatForPath(path))
}

var now = time.Now

// Backup copies src into backupDir under a timestamped name and returns the
// backup path. A missing src means there is nothing to back up: it returns
// "" and no error.
func Backup(src, backupDir string) (string, error) {
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to stat '%s': %w", src, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("'%s' is a directory, not a file", src)
	}

	if err := os.MkdirAll(backupDir, 0750); err != nil {
		return "", fmt.Errorf("failed to create backup directory '%s': %w", backupDir, err)
	}

	ext := filepath.Ext(src)
	base := strings.TrimSuffix(filepath.Base(src), ext)
	name := fmt.Sprintf("%s-%s%s", base, now().Format("20060102-150405.000"), ext)
	dst := filepath.Join(backupDir, name)

	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to open '%s': %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file '%s': %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return "", fmt.Errorf("failed to copy '%s' to '%s': %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to close backup file '%s': %w", dst, err)
	}
	return dst, nil
}
