package tray

import (
	"reflect"
	"testing"

	"github.com/bplaunch/bplaunch/internal/settings"
)

func TestBuildMenu(t *testing.T) {
	t.Run("Empty settings show placeholders", func(t *testing.T) {
		menu := BuildMenu(settings.Default())
		if len(menu.Groups) != 2 {
			t.Fatalf("expected 2 groups, got %d", len(menu.Groups))
		}
		want := []Item{{ID: ItemNoSites, Label: "No sites configured", Disabled: true}}
		if !reflect.DeepEqual(menu.Groups[0].Items, want) {
			t.Errorf("sites group = %+v, want %+v", menu.Groups[0].Items, want)
		}
		if got := menu.Groups[1].Items; len(got) != 1 || got[0].ID != ItemNoProxies || !got[0].Disabled {
			t.Errorf("proxies group = %+v, want disabled placeholder", got)
		}
	})

	t.Run("Records keep their order and ids", func(t *testing.T) {
		cfg := settings.Default()
		cfg.Sites = []settings.SiteRecord{{ID: "s1", Name: "Work"}, {ID: "s2", Name: "Home"}}
		cfg.Proxies = []settings.ProxyRecord{{ID: "p1", Name: "Corp"}}

		menu := BuildMenu(cfg)
		wantSites := []Item{{ID: "site_s1", Label: "Work"}, {ID: "site_s2", Label: "Home"}}
		if !reflect.DeepEqual(menu.Groups[0].Items, wantSites) {
			t.Errorf("sites = %+v, want %+v", menu.Groups[0].Items, wantSites)
		}
		wantProxies := []Item{{ID: "proxy_p1", Label: "Corp"}}
		if !reflect.DeepEqual(menu.Groups[1].Items, wantProxies) {
			t.Errorf("proxies = %+v, want %+v", menu.Groups[1].Items, wantProxies)
		}
	})

	t.Run("Fixed actions", func(t *testing.T) {
		menu := BuildMenu(settings.Default())
		var ids []string
		for _, a := range menu.Actions {
			ids = append(ids, a.ID)
		}
		if !reflect.DeepEqual(ids, []string{ItemShow, ItemReload, ItemQuit}) {
			t.Errorf("actions = %v", ids)
		}
	})
}

func TestIconIsEmbedded(t *testing.T) {
	if len(Icon) < 8 || string(Icon[1:4]) != "PNG" {
		t.Error("expected an embedded PNG icon")
	}
}
