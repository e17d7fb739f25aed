package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Overridable for tests.
var userHomeDir = os.UserHomeDir

// ExpandPath expands a leading ~ and environment variables in path and
// returns it cleaned. An empty path stays empty.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	path = os.ExpandEnv(path)

	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		homeDir, err := userHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[1:])
	}
	return filepath.Clean(path), nil
}

// AbsPath expands path and makes it absolute.
func AbsPath(path string) (string, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return "", err
	}
	if expanded == "" {
		return "", fmt.Errorf("empty path")
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to resolve '%s': %w", path, err)
	}
	return abs, nil
}
