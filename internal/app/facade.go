// Package app is the command surface shared by the CLI, the tray and the
// local HTTP API.
package app

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bplaunch/bplaunch/internal/autostart"
	"github.com/bplaunch/bplaunch/internal/browser"
	"github.com/bplaunch/bplaunch/internal/exchange"
	"github.com/bplaunch/bplaunch/internal/launch"
	"github.com/bplaunch/bplaunch/internal/log"
	"github.com/bplaunch/bplaunch/internal/settings"
)

// TrayRefresher rebuilds the tray menu from the saved settings.
type TrayRefresher interface {
	Refresh() error
}

// WindowToggler shows or hides the main window of a GUI shell.
type WindowToggler interface {
	Toggle() error
}

// Facade wires the settings store, planner and OS collaborators together.
// Tray, Window and Quitter are optional: a headless process leaves them nil.
type Facade struct {
	Store     *settings.Store
	Planner   *launch.Planner
	Detector  browser.Detector
	AutoStart autostart.Backend
	Launcher  launch.ProcessLauncher

	Tray    TrayRefresher
	Window  WindowToggler
	Quitter func()

	// mu serializes load-mutate-save cycles.
	mu sync.Mutex
}

// New returns a facade over store. Profiles are created under
// store.ProfilesDir().
func New(store *settings.Store, detector browser.Detector, backend autostart.Backend, launcher launch.ProcessLauncher) *Facade {
	return &Facade{
		Store:     store,
		Planner:   launch.NewPlanner(store.ProfilesDir()),
		Detector:  detector,
		AutoStart: backend,
		Launcher:  launcher,
	}
}

// Initialize loads the settings and, on first run, fills the empty browser
// list from detection.
func (f *Facade) Initialize() (*settings.AppSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cfg, err := f.Store.Load()
	if err != nil {
		return nil, err
	}
	if len(cfg.Browsers) > 0 {
		log.Debug("browsers already detected: %d", len(cfg.Browsers))
		return cfg, nil
	}

	log.Info("Detecting browsers...")
	detected := f.Detector.DetectAll()
	log.Info("Detected %d browsers", len(detected))
	cfg = settings.MergeDetectedBrowsers(cfg, detected)
	if err := f.Store.Save(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DetectBrowsers scans the system without touching the settings.
func (f *Facade) DetectBrowsers() []settings.BrowserRecord {
	return f.Detector.DetectAll()
}

// LoadSettings returns the settings with launch_on_startup corrected to the
// OS registration. A corrected document is persisted; failing to read the
// registration or to persist the correction is only logged.
func (f *Facade) LoadSettings() (*settings.AppSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cfg, err := f.Store.Load()
	if err != nil {
		return nil, err
	}

	enabled, err := f.AutoStart.IsEnabled()
	if err != nil {
		log.Warn("Cannot read autostart status: %v", err)
		return cfg, nil
	}
	corrected, changed := settings.SyncAutostartTruth(cfg, enabled)
	if changed {
		log.Info("Autostart status mismatch (settings: %t, system: %t), syncing to system", cfg.LaunchOnStartup, enabled)
		if err := f.Store.Save(corrected); err != nil {
			log.Warn("Failed to persist autostart correction: %v", err)
		}
	}
	return corrected, nil
}

// SaveSettings prunes sites with dangling proxy references, overwrites the
// document, applies launch_on_startup to the OS and refreshes the tray.
func (f *Facade) SaveSettings(cfg *settings.AppSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, err := f.save(cfg)
	return err
}

// save is SaveSettings without the lock. It returns the pruned site ids.
func (f *Facade) save(cfg *settings.AppSettings) ([]string, error) {
	if cfg == nil {
		return nil, errors.New("no settings to save")
	}

	cleaned, removed := settings.PruneDanglingProxyReferences(cfg)
	for _, id := range removed {
		log.Warn("Removing site %s: it references a proxy that no longer exists", id)
	}
	if len(removed) > 0 {
		log.Info("Removed %d site(s) that referenced non-existent proxies", len(removed))
	}

	if err := f.Store.Save(cleaned); err != nil {
		return removed, err
	}

	if err := autostart.SetEnabled(f.AutoStart, cleaned.LaunchOnStartup); err != nil {
		return removed, fmt.Errorf("settings saved but autostart could not be updated: %w", err)
	}
	log.Debug("settings saved, autostart %t", cleaned.LaunchOnStartup)

	f.notifyTray()
	return removed, nil
}

// notifyTray refreshes the tray after a change. Failures are logged only.
func (f *Facade) notifyTray() {
	if err := f.RefreshTray(); err != nil {
		log.Warn("Failed to refresh system tray: %v", err)
	}
}

// GetSettingsPath returns the settings document location.
func (f *Facade) GetSettingsPath() string {
	return f.Store.ConfigPath()
}

// GetAutostartStatus reports the OS registration.
func (f *Facade) GetAutostartStatus() (bool, error) {
	enabled, err := f.AutoStart.IsEnabled()
	if err != nil {
		return false, fmt.Errorf("failed to get autostart status: %w", err)
	}
	return enabled, nil
}

// SetAutostart changes the OS registration only; the document catches up on
// the next LoadSettings.
func (f *Facade) SetAutostart(enabled bool) error {
	if err := autostart.SetEnabled(f.AutoStart, enabled); err != nil {
		return fmt.Errorf("failed to set autostart: %w", err)
	}
	return nil
}

// ExportSettings writes the saved settings to path.
func (f *Facade) ExportSettings(path string) error {
	cfg, err := f.Store.Load()
	if err != nil {
		return err
	}
	if err := exchange.Export(path, cfg); err != nil {
		return err
	}
	log.Debug("settings exported to %s", path)
	return nil
}

// ImportSettings replaces the settings with the document at path. The
// current document is backed up first, and the import goes through the
// same pruning and side effects as SaveSettings.
func (f *Facade) ImportSettings(path string) (*settings.AppSettings, error) {
	imported, err := exchange.Import(path)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	backup, err := exchange.Backup(f.Store.ConfigPath(), f.Store.BackupsDir())
	if err != nil {
		return nil, fmt.Errorf("failed to back up current settings: %w", err)
	}
	if backup != "" {
		log.Info("Backed up current settings to: %s", backup)
	}

	if _, err := f.save(imported); err != nil {
		return nil, err
	}
	log.Info("Settings imported from: %s", path)
	return f.Store.Load()
}

// LaunchSite starts the site's browser with its proxy and profile.
func (f *Facade) LaunchSite(siteID string) error {
	cfg, err := f.Store.Load()
	if err != nil {
		return err
	}
	site, ok := cfg.FindSite(siteID)
	if !ok {
		return &NotFoundError{Kind: "site", ID: siteID}
	}

	plan, err := f.Planner.Plan(launch.SiteTarget(site), cfg)
	if err != nil {
		return err
	}
	if _, err := launch.Execute(f.Launcher, plan); err != nil {
		return err
	}
	log.Success("Launched site '%s'", site.Name)
	log.Detail("Profile: %s", plan.ProfileDir)
	return nil
}

// LaunchProxy opens the default browser through the proxy at the default
// launch URL, or at the browser's own start page when that is empty.
func (f *Facade) LaunchProxy(proxyID string) error {
	cfg, err := f.Store.Load()
	if err != nil {
		return err
	}
	proxy, ok := cfg.FindProxy(proxyID)
	if !ok {
		return &NotFoundError{Kind: "proxy", ID: proxyID}
	}

	plan, err := f.Planner.Plan(launch.ProxyTestTarget(proxy, cfg.DefaultLaunchURL), cfg)
	if err != nil {
		return err
	}
	if _, err := launch.Execute(f.Launcher, plan); err != nil {
		return err
	}
	log.Success("Launched proxy test for '%s'", proxy.Name)
	log.Detail("Profile: %s", plan.ProfileDir)
	return nil
}

// RefreshTray rebuilds the tray. Without a tray it does nothing.
func (f *Facade) RefreshTray() error {
	if f.Tray == nil {
		return nil
	}
	return f.Tray.Refresh()
}

// ToggleMainWindow shows or hides the GUI window, if one is attached.
func (f *Facade) ToggleMainWindow() error {
	if f.Window == nil {
		log.Info("No main window attached; settings are at %s", f.GetSettingsPath())
		return nil
	}
	return f.Window.Toggle()
}

// Quit ends the process through Quitter.
func (f *Facade) Quit() {
	if f.Quitter == nil {
		log.Debug("quit requested with no quitter attached")
		return
	}
	f.Quitter()
}
