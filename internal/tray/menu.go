package tray

import (
	_ "embed"

	"github.com/bplaunch/bplaunch/internal/settings"
)

// Menu item identities. Record items carry the record id after the prefix.
const (
	SitePrefix    = "site_"
	ProxyPrefix   = "proxy_"
	ItemNoSites   = "no_sites"
	ItemNoProxies = "no_proxies"
	ItemShow      = "show"
	ItemReload    = "reload"
	ItemQuit      = "quit"
)

//go:embed assets/icon.png
var Icon []byte

// Item is one clickable (or disabled) menu entry.
type Item struct {
	ID       string
	Label    string
	Disabled bool
}

// Group is a labelled submenu.
type Group struct {
	Label string
	Items []Item
}

// Menu is the whole tray menu, independent of the tray library.
type Menu struct {
	Title   string
	Tooltip string
	Groups  []Group
	Actions []Item
}

// BuildMenu derives the tray menu from cfg: one group of sites, one group of
// proxies, then the fixed actions. An empty group holds a single disabled
// placeholder.
func BuildMenu(cfg *settings.AppSettings) Menu {
	sites := Group{Label: "Launch Sites"}
	for _, site := range cfg.Sites {
		sites.Items = append(sites.Items, Item{ID: SitePrefix + site.ID, Label: site.Name})
	}
	if len(sites.Items) == 0 {
		sites.Items = []Item{{ID: ItemNoSites, Label: "No sites configured", Disabled: true}}
	}

	proxies := Group{Label: "Test Proxies"}
	for _, proxy := range cfg.Proxies {
		proxies.Items = append(proxies.Items, Item{ID: ProxyPrefix + proxy.ID, Label: proxy.Name})
	}
	if len(proxies.Items) == 0 {
		proxies.Items = []Item{{ID: ItemNoProxies, Label: "No proxies configured", Disabled: true}}
	}

	return Menu{
		Title:   "",
		Tooltip: "Browser Proxy Launcher",
		Groups:  []Group{sites, proxies},
		Actions: []Item{
			{ID: ItemShow, Label: "Show / Hide"},
			{ID: ItemReload, Label: "Reload"},
			{ID: ItemQuit, Label: "Quit"},
		},
	}
}
