package tray

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/bplaunch/bplaunch/internal/log"
	"github.com/bplaunch/bplaunch/internal/settings"
)

// ID identifies one installed tray instance.
type ID uint64

// Host installs and removes tray instances. Implementations deliver item
// clicks to onClick by item ID.
type Host interface {
	Install(menu Menu, onClick func(itemID string)) (ID, error)
	Remove(id ID) error
}

// SettingsLoader supplies the settings snapshot a menu is built from.
type SettingsLoader interface {
	Load() (*settings.AppSettings, error)
}

// TrayError reports a failed refresh. Stage is "load", "remove" or "install".
type TrayError struct {
	Stage string
	Err   error
}

func (e *TrayError) Error() string {
	return fmt.Sprintf("failed to refresh system tray (%s): %v", e.Stage, e.Err)
}

func (e *TrayError) Unwrap() error { return e.Err }

// Synchronizer owns the single live tray. inFlight is true exactly while one
// Refresh owns the slot. pending marks a refresh requested meanwhile; mu
// guards the slot and the click handler.
type Synchronizer struct {
	loader SettingsLoader
	host   Host

	inFlight atomic.Bool
	pending  atomic.Bool

	mu        sync.Mutex
	active    ID
	hasActive bool
	onClick   func(itemID string)
}

// NewSynchronizer creates a synchronizer with no tray installed.
func NewSynchronizer(loader SettingsLoader, host Host) *Synchronizer {
	return &Synchronizer{loader: loader, host: host}
}

// SetClickHandler sets the handler passed to trays installed from now on.
func (s *Synchronizer) SetClickHandler(fn func(itemID string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClick = fn
}

// Refresh rebuilds the tray from the current settings. A call that finds
// another refresh running marks the tray pending and returns nil; the owner
// rebuilds again before it lets go, so the last caller's settings are always
// shown.
func (s *Synchronizer) Refresh() error {
	s.pending.Store(true)
	var err error
	for s.pending.Load() {
		if !s.inFlight.CompareAndSwap(false, true) {
			log.Debug("tray refresh already in flight, coalescing")
			return err
		}
		for s.pending.Swap(false) {
			err = s.rebuild()
		}
		s.inFlight.Store(false)
	}
	return err
}

func (s *Synchronizer) rebuild() error {
	cfg, err := s.loader.Load()
	if err != nil {
		return &TrayError{Stage: "load", Err: err}
	}
	menu := BuildMenu(cfg)

	s.mu.Lock()
	defer s.mu.Unlock()

	// The old tray goes first so two trays never deliver events at once.
	if s.hasActive {
		if err := s.host.Remove(s.active); err != nil {
			return &TrayError{Stage: "remove", Err: err}
		}
		s.hasActive = false
	}

	id, err := s.host.Install(menu, s.onClick)
	if err != nil {
		return &TrayError{Stage: "install", Err: err}
	}
	s.active, s.hasActive = id, true
	log.Debug("tray %d installed with %d sites and %d proxies", id, len(cfg.Sites), len(cfg.Proxies))
	return nil
}

// Active returns the installed tray, if any.
func (s *Synchronizer) Active() (ID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active, s.hasActive
}

// Close removes the installed tray.
func (s *Synchronizer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasActive {
		return nil
	}
	if err := s.host.Remove(s.active); err != nil {
		return &TrayError{Stage: "remove", Err: err}
	}
	s.hasActive = false
	return nil
}
