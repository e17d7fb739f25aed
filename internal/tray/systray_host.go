package tray

import (
	"errors"
	"fmt"
	"sync"

	"fyne.io/systray"
)

// SystrayHost is a Host backed by fyne.io/systray. The platform allows one
// status icon per process, so an "instance" is one populated menu: Install
// fills the menu, Remove stops its click watchers and resets it.
type SystrayHost struct {
	mu      sync.Mutex
	next    ID
	current ID
	done    chan struct{}
}

// NewSystrayHost returns a host for use once systray.Run has called onReady.
func NewSystrayHost() *SystrayHost {
	return &SystrayHost{}
}

// Install populates the tray menu. It refuses to install over a live menu.
func (h *SystrayHost) Install(menu Menu, onClick func(itemID string)) (ID, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.done != nil {
		return 0, fmt.Errorf("tray %d is still installed", h.current)
	}

	systray.SetIcon(Icon)
	systray.SetTitle(menu.Title)
	systray.SetTooltip(menu.Tooltip)

	done := make(chan struct{})
	for _, group := range menu.Groups {
		parent := systray.AddMenuItem(group.Label, "")
		for _, item := range group.Items {
			mi := parent.AddSubMenuItem(item.Label, "")
			if item.Disabled {
				mi.Disable()
				continue
			}
			watch(mi, item.ID, done, onClick)
		}
	}
	systray.AddSeparator()
	for _, item := range menu.Actions {
		mi := systray.AddMenuItem(item.Label, "")
		if item.Disabled {
			mi.Disable()
			continue
		}
		watch(mi, item.ID, done, onClick)
	}

	h.next++
	h.current = h.next
	h.done = done
	return h.current, nil
}

// Remove tears down the menu installed as id.
func (h *SystrayHost) Remove(id ID) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.done == nil {
		return errors.New("no tray installed")
	}
	if id != h.current {
		return fmt.Errorf("tray %d is not the installed tray %d", id, h.current)
	}
	close(h.done)
	h.done = nil
	systray.ResetMenu()
	return nil
}

func watch(mi *systray.MenuItem, itemID string, done <-chan struct{}, onClick func(string)) {
	go func() {
		for {
			select {
			case <-done:
				return
			case <-mi.ClickedCh:
				if onClick != nil {
					onClick(itemID)
				}
			}
		}
	}()
}

// Run blocks in the platform event loop until Quit is called. onReady runs
// once the tray can be populated.
func Run(onReady, onExit func()) {
	systray.Run(onReady, onExit)
}

// Quit leaves the event loop started by Run.
func Quit() {
	systray.Quit()
}
