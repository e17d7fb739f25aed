// Package autostart registers the launcher to start with the user session.
package autostart

import (
	"fmt"
	"os"
	"strings"

	goautostart "github.com/emersion/go-autostart"

	"github.com/bplaunch/bplaunch/internal/log"
)

const (
	// AppName is the registration name used by the OS.
	AppName = "browser-proxy-launcher"
	// DisplayName is what the OS shows in its startup apps list.
	DisplayName = "Browser Proxy Launcher"
	// MinimizedArg is passed to the launcher when the OS starts it.
	MinimizedArg = "--minimized"
	// DevEnv forces development mode when set to "1".
	DevEnv = "BPLAUNCH_DEV"
)

// Backend reads and changes the OS autostart registration.
type Backend interface {
	IsEnabled() (bool, error)
	Enable() error
	Disable() error
}

// SetEnabled enables or disables b.
func SetEnabled(b Backend, enabled bool) error {
	if enabled {
		return b.Enable()
	}
	return b.Disable()
}

// registration is the subset of goautostart.App the System backend uses.
type registration interface {
	IsEnabled() bool
	Enable() error
	Disable() error
}

// System is the Backend backed by github.com/emersion/go-autostart.
type System struct {
	app registration
}

// NewSystem registers exe with the extra args run at login. The minimized
// flag is always appended.
func NewSystem(exe string, args ...string) *System {
	execArgs := append([]string{exe}, args...)
	execArgs = append(execArgs, MinimizedArg)
	return &System{app: &goautostart.App{
		Name:        AppName,
		DisplayName: DisplayName,
		Exec:        execArgs,
	}}
}

func (s *System) IsEnabled() (bool, error) {
	return s.app.IsEnabled(), nil
}

func (s *System) Enable() error {
	if err := s.app.Enable(); err != nil {
		return fmt.Errorf("failed to enable autostart: %w", err)
	}
	log.Debug("autostart enabled")
	return nil
}

func (s *System) Disable() error {
	if !s.app.IsEnabled() {
		return nil
	}
	if err := s.app.Disable(); err != nil {
		return fmt.Errorf("failed to disable autostart: %w", err)
	}
	log.Debug("autostart disabled")
	return nil
}

// Noop never touches the OS. It reports disabled and accepts every change.
type Noop struct{}

func (Noop) IsEnabled() (bool, error) { return false, nil }
func (Noop) Enable() error            { return nil }
func (Noop) Disable() error           { return nil }

var (
	executable = os.Executable
	getenv     = os.Getenv
)

// IsDevelopment reports whether the running binary is a development build:
// one built by "go run" or started with BPLAUNCH_DEV=1.
func IsDevelopment() bool {
	if getenv(DevEnv) == "1" {
		return true
	}
	exe, err := executable()
	if err != nil {
		return false
	}
	return strings.Contains(exe, "go-build")
}

// Default returns the backend for this process: Noop in development,
// System for the current executable otherwise.
func Default() Backend {
	if IsDevelopment() {
		log.Debug("development build, autostart changes are skipped")
		return Noop{}
	}
	exe, err := executable()
	if err != nil {
		log.Warn("Cannot resolve executable, autostart disabled: %v", err)
		return Noop{}
	}
	return NewSystem(exe, "tray")
}
