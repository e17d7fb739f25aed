package tray

import (
	"strings"

	"github.com/bplaunch/bplaunch/internal/log"
)

// Actions is what a tray click can trigger.
type Actions interface {
	LaunchSite(siteID string) error
	LaunchProxy(proxyID string) error
	RefreshTray() error
	ToggleMainWindow() error
	Quit()
}

// Dispatch runs the action for one activated menu item. Unknown items,
// placeholders and empty record ids are ignored.
func Dispatch(itemID string, a Actions) error {
	switch {
	case itemID == ItemQuit:
		a.Quit()
		return nil
	case itemID == ItemReload:
		return a.RefreshTray()
	case itemID == ItemShow:
		return a.ToggleMainWindow()
	case strings.HasPrefix(itemID, SitePrefix):
		if id := strings.TrimPrefix(itemID, SitePrefix); id != "" {
			return a.LaunchSite(id)
		}
	case strings.HasPrefix(itemID, ProxyPrefix):
		if id := strings.TrimPrefix(itemID, ProxyPrefix); id != "" {
			return a.LaunchProxy(id)
		}
	}
	return nil
}

// ClickHandler adapts Dispatch for a Host: each click is handled on its own
// goroutine so the tray event loop never waits on a launch, and failures
// are logged since there is nobody to return them to.
func ClickHandler(a Actions) func(itemID string) {
	return func(itemID string) {
		go func() {
			if err := Dispatch(itemID, a); err != nil {
				log.Error("Tray action '%s' failed: %v", itemID, err)
			}
		}()
	}
}
