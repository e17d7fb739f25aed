package launch

import (
	"errors"
	"fmt"
)

// ErrBrowserNotFound matches any BrowserNotFoundError.
var ErrBrowserNotFound = errors.New("browser not found")

// BrowserNotFoundError is returned when no browser resolves for a target.
type BrowserNotFoundError struct {
	BrowserID string // empty when no default and no browsers are configured
}

func (e *BrowserNotFoundError) Error() string {
	if e.BrowserID == "" {
		return "no browser configured"
	}
	return fmt.Sprintf("browser with ID %s not found", e.BrowserID)
}

func (e *BrowserNotFoundError) Is(target error) bool { return target == ErrBrowserNotFound }

// ProfileDirError is returned when the isolated profile directory cannot be created.
type ProfileDirError struct {
	Path string
	Err  error
}

func (e *ProfileDirError) Error() string {
	return fmt.Sprintf("failed to create profile directory '%s': %v", e.Path, e.Err)
}

func (e *ProfileDirError) Unwrap() error { return e.Err }

// SpawnError is returned when the browser process could not be started.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to launch browser '%s': %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }
