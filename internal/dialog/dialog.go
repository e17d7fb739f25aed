// Package dialog shows native file pickers for settings export and import
// and for browser executables.
package dialog

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/ncruces/zenity"
)

// ErrCanceled is returned when the user dismisses a dialog.
var ErrCanceled = errors.New("dialog canceled")

// ErrUnavailable is returned when no native dialog can be shown.
var ErrUnavailable = errors.New("no native file dialog available")

// Picker asks the user for a file path.
type Picker interface {
	OpenFile(title, startPath string) (string, error)
	SaveFile(title, startPath string) (string, error)
	OpenExecutable(title, startPath string) (string, error)
}

var settingsFilters = zenity.FileFilters{
	{Name: "Settings files", Patterns: []string{"*.json", "*.yaml", "*.yml", "*.toml"}, CaseFold: false},
	{Name: "All files", Patterns: []string{"*"}, CaseFold: false},
}

var goos = runtime.GOOS

func executableFilters() zenity.FileFilters {
	patterns := []string{"*"}
	if goos == "windows" {
		patterns = []string{"*.exe"}
	}
	return zenity.FileFilters{{Name: "Executable files", Patterns: patterns, CaseFold: true}}
}

// Native is the zenity-backed Picker.
type Native struct{}

var (
	isAvailable    = zenity.IsAvailable
	selectFile     = zenity.SelectFile
	selectFileSave = zenity.SelectFileSave
)

func (Native) OpenFile(title, startPath string) (string, error) {
	if !isAvailable() {
		return "", ErrUnavailable
	}
	path, err := selectFile(zenity.Title(title), zenity.Filename(startPath), settingsFilters)
	return result(path, err)
}

func (Native) SaveFile(title, startPath string) (string, error) {
	if !isAvailable() {
		return "", ErrUnavailable
	}
	path, err := selectFileSave(zenity.Title(title), zenity.Filename(startPath), zenity.ConfirmOverwrite(), settingsFilters)
	return result(path, err)
}

// OpenExecutable asks for a browser executable.
func (Native) OpenExecutable(title, startPath string) (string, error) {
	if !isAvailable() {
		return "", ErrUnavailable
	}
	path, err := selectFile(zenity.Title(title), zenity.Filename(startPath), executableFilters())
	return result(path, err)
}

func result(path string, err error) (string, error) {
	if errors.Is(err, zenity.ErrCanceled) {
		return "", ErrCanceled
	}
	if err != nil {
		return "", fmt.Errorf("file dialog failed: %w", err)
	}
	if path == "" {
		return "", ErrCanceled
	}
	return path, nil
}
