package tray

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"
)

type recordingActions struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (r *recordingActions) record(call string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
	return r.err
}

func (r *recordingActions) LaunchSite(id string) error  { return r.record("site:" + id) }
func (r *recordingActions) LaunchProxy(id string) error { return r.record("proxy:" + id) }
func (r *recordingActions) RefreshTray() error          { return r.record("reload") }
func (r *recordingActions) ToggleMainWindow() error     { return r.record("show") }
func (r *recordingActions) Quit()                       { _ = r.record("quit") }

func (r *recordingActions) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func TestDispatch(t *testing.T) {
	tests := []struct {
		item string
		want []string
	}{
		{"site_abc", []string{"site:abc"}},
		{"proxy_p-1", []string{"proxy:p-1"}},
		{ItemQuit, []string{"quit"}},
		{ItemReload, []string{"reload"}},
		{ItemShow, []string{"show"}},
		{ItemNoSites, nil},
		{ItemNoProxies, nil},
		{"site_", nil},
		{"proxy_", nil},
		{"something_else", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.item, func(t *testing.T) {
			a := &recordingActions{}
			if err := Dispatch(tt.item, a); err != nil {
				t.Fatalf("Dispatch(%q) error: %v", tt.item, err)
			}
			if got := a.snapshot(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Dispatch(%q) calls = %v, want %v", tt.item, got, tt.want)
			}
		})
	}
}

func TestDispatchReturnsActionError(t *testing.T) {
	a := &recordingActions{err: errors.New("spawn failed")}
	if err := Dispatch("site_x", a); err == nil {
		t.Error("expected the launch error to be returned")
	}
}

func TestClickHandlerRunsAsync(t *testing.T) {
	a := &recordingActions{err: errors.New("logged, not returned")}
	handler := ClickHandler(a)
	handler("site_one")

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got := a.snapshot(); len(got) == 1 {
			if got[0] != "site:one" {
				t.Errorf("unexpected call %q", got[0])
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("click was never dispatched")
}
