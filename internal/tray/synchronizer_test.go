package tray

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bplaunch/bplaunch/internal/settings"
)

type staticLoader struct {
	mu  sync.Mutex
	cfg *settings.AppSettings
	err error
}

func (l *staticLoader) Load() (*settings.AppSettings, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	return l.cfg.Clone(), nil
}

// fakeHost tracks live trays and how many installs overlap.
type fakeHost struct {
	mu         sync.Mutex
	next       ID
	live       map[ID]Menu
	installs   int
	removes    int
	installErr error
	removeErr  error
	delay      time.Duration

	concurrent    atomic.Int32
	maxConcurrent atomic.Int32
}

func newFakeHost() *fakeHost {
	return &fakeHost{live: make(map[ID]Menu)}
}

func (h *fakeHost) Install(menu Menu, onClick func(string)) (ID, error) {
	n := h.concurrent.Add(1)
	defer h.concurrent.Add(-1)
	for {
		max := h.maxConcurrent.Load()
		if n <= max || h.maxConcurrent.CompareAndSwap(max, n) {
			break
		}
	}
	time.Sleep(h.delay)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.installErr != nil {
		return 0, h.installErr
	}
	h.next++
	h.installs++
	h.live[h.next] = menu
	return h.next, nil
}

func (h *fakeHost) Remove(id ID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.removeErr != nil {
		return h.removeErr
	}
	if _, ok := h.live[id]; !ok {
		return errors.New("unknown tray")
	}
	delete(h.live, id)
	h.removes++
	return nil
}

func (h *fakeHost) liveCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.live)
}

func loaderWithSites(ids ...string) *staticLoader {
	cfg := settings.Default()
	for _, id := range ids {
		cfg.Sites = append(cfg.Sites, settings.SiteRecord{ID: id, Name: "Site " + id})
	}
	return &staticLoader{cfg: cfg}
}

func TestRefreshInstallsAndReplaces(t *testing.T) {
	host := newFakeHost()
	loader := loaderWithSites("a")
	s := NewSynchronizer(loader, host)

	if _, ok := s.Active(); ok {
		t.Fatal("expected no tray before the first refresh")
	}
	if err := s.Refresh(); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	first, ok := s.Active()
	if !ok {
		t.Fatal("expected an active tray")
	}

	loader.mu.Lock()
	loader.cfg.Sites = append(loader.cfg.Sites, settings.SiteRecord{ID: "b", Name: "Site b"})
	loader.mu.Unlock()

	if err := s.Refresh(); err != nil {
		t.Fatalf("second Refresh failed: %v", err)
	}
	second, _ := s.Active()
	if second == first {
		t.Error("expected a new tray instance")
	}
	if host.liveCount() != 1 {
		t.Errorf("expected exactly one live tray, got %d", host.liveCount())
	}
	if got := len(host.live[second].Groups[0].Items); got != 2 {
		t.Errorf("expected menu with 2 sites, got %d", got)
	}
}

func TestConcurrentRefreshesAreCoalesced(t *testing.T) {
	host := newFakeHost()
	host.delay = 20 * time.Millisecond
	s := NewSynchronizer(loaderWithSites("a", "b"), host)

	var wg sync.WaitGroup
	start := make(chan struct{})
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			errs <- s.Refresh()
		}()
	}
	close(start)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("Refresh returned error: %v", err)
		}
	}
	if max := host.maxConcurrent.Load(); max > 1 {
		t.Errorf("expected at most one install in flight, saw %d", max)
	}
	if _, ok := s.Active(); !ok {
		t.Error("expected an active tray")
	}
	if host.liveCount() != 1 {
		t.Errorf("expected exactly one live tray, got %d", host.liveCount())
	}
	if host.installs-host.removes != 1 {
		t.Errorf("leaked trays: %d installs, %d removes", host.installs, host.removes)
	}

	// the flag is released afterwards
	if err := s.Refresh(); err != nil {
		t.Fatal(err)
	}
	if host.installs < 2 {
		t.Error("expected a later refresh to rebuild the tray")
	}
}

// gatedLoader blocks its first Load after reading the snapshot until release
// is closed.
type gatedLoader struct {
	*staticLoader
	once    sync.Once
	loaded  chan struct{}
	release chan struct{}
}

func (l *gatedLoader) Load() (*settings.AppSettings, error) {
	cfg, err := l.staticLoader.Load()
	l.once.Do(func() {
		close(l.loaded)
		<-l.release
	})
	return cfg, err
}

func TestRefreshDuringRebuildIsNotLost(t *testing.T) {
	host := newFakeHost()
	loader := &gatedLoader{
		staticLoader: loaderWithSites(),
		loaded:       make(chan struct{}),
		release:      make(chan struct{}),
	}
	s := NewSynchronizer(loader, host)

	done := make(chan error, 1)
	go func() { done <- s.Refresh() }()
	<-loader.loaded

	loader.mu.Lock()
	loader.cfg.Sites = append(loader.cfg.Sites, settings.SiteRecord{ID: "new", Name: "New"})
	loader.mu.Unlock()

	if err := s.Refresh(); err != nil {
		t.Fatalf("coalesced Refresh failed: %v", err)
	}
	close(loader.release)
	if err := <-done; err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	id, ok := s.Active()
	if !ok {
		t.Fatal("expected an active tray")
	}
	host.mu.Lock()
	items := host.live[id].Groups[0].Items
	host.mu.Unlock()
	if len(items) != 1 || items[0].ID != SitePrefix+"new" {
		t.Errorf("tray shows %+v, want the site saved during the rebuild", items)
	}
	if host.liveCount() != 1 {
		t.Errorf("expected exactly one live tray, got %d", host.liveCount())
	}
}

func TestRefreshFailures(t *testing.T) {
	t.Run("Load failure keeps the previous tray", func(t *testing.T) {
		host := newFakeHost()
		loader := loaderWithSites("a")
		s := NewSynchronizer(loader, host)
		if err := s.Refresh(); err != nil {
			t.Fatal(err)
		}
		before, _ := s.Active()

		loader.mu.Lock()
		loader.err = errors.New("disk gone")
		loader.mu.Unlock()

		err := s.Refresh()
		var te *TrayError
		if !errors.As(err, &te) || te.Stage != "load" {
			t.Fatalf("expected load TrayError, got %v", err)
		}
		if after, ok := s.Active(); !ok || after != before {
			t.Error("previous tray should be left in place")
		}
	})

	t.Run("Install failure leaves no tray", func(t *testing.T) {
		host := newFakeHost()
		s := NewSynchronizer(loaderWithSites("a"), host)
		if err := s.Refresh(); err != nil {
			t.Fatal(err)
		}
		host.installErr = errors.New("no status area")

		err := s.Refresh()
		var te *TrayError
		if !errors.As(err, &te) || te.Stage != "install" {
			t.Fatalf("expected install TrayError, got %v", err)
		}
		if _, ok := s.Active(); ok {
			t.Error("expected no active tray after failed install")
		}
		if host.liveCount() != 0 {
			t.Errorf("expected no live tray, got %d", host.liveCount())
		}

		host.installErr = nil
		if err := s.Refresh(); err != nil {
			t.Fatalf("flag not released after failure: %v", err)
		}
		if _, ok := s.Active(); !ok {
			t.Error("expected recovery on the next refresh")
		}
	})

	t.Run("Remove failure keeps the old tray", func(t *testing.T) {
		host := newFakeHost()
		s := NewSynchronizer(loaderWithSites("a"), host)
		if err := s.Refresh(); err != nil {
			t.Fatal(err)
		}
		host.removeErr = errors.New("busy")

		err := s.Refresh()
		var te *TrayError
		if !errors.As(err, &te) || te.Stage != "remove" {
			t.Fatalf("expected remove TrayError, got %v", err)
		}
		if host.liveCount() != 1 || host.installs != 1 {
			t.Error("no second tray may be installed while the first is alive")
		}
	})
}

func TestClose(t *testing.T) {
	host := newFakeHost()
	s := NewSynchronizer(loaderWithSites(), host)
	if err := s.Close(); err != nil {
		t.Fatalf("Close without tray failed: %v", err)
	}
	if err := s.Refresh(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Active(); ok || host.liveCount() != 0 {
		t.Error("expected tray to be removed")
	}
}

func TestClickHandlerIsPassedToHost(t *testing.T) {
	var got atomic.Value
	host := &clickHost{}
	s := NewSynchronizer(loaderWithSites("a"), host)
	s.SetClickHandler(func(id string) { got.Store(id) })

	if err := s.Refresh(); err != nil {
		t.Fatal(err)
	}
	host.onClick("site_a")
	if got.Load() != "site_a" {
		t.Errorf("click not delivered, got %v", got.Load())
	}
}

type clickHost struct {
	onClick func(string)
}

func (h *clickHost) Install(_ Menu, onClick func(string)) (ID, error) {
	h.onClick = onClick
	return 1, nil
}

func (h *clickHost) Remove(ID) error { return nil }
