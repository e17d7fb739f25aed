package browser

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/bplaunch/bplaunch/internal/cache"
	"github.com/bplaunch/bplaunch/internal/settings"
)

// fakeFS makes stat and lookPath see only the given paths and commands.
func fakeFS(t *testing.T, system string, files []string, commands map[string]string) {
	t.Helper()
	origGOOS, origStat, origLook, origEnv := goos, stat, lookPath, getenv
	t.Cleanup(func() { goos, stat, lookPath, getenv = origGOOS, origStat, origLook, origEnv })

	// A real file gives stat a usable FileInfo.
	file := filepath.Join(t.TempDir(), "browser")
	if err := os.WriteFile(file, nil, 0700); err != nil {
		t.Fatal(err)
	}
	present := map[string]bool{}
	for _, f := range files {
		present[f] = true
	}

	goos = system
	getenv = func(string) string { return "" }
	stat = func(name string) (fs.FileInfo, error) {
		if present[name] {
			return os.Stat(file)
		}
		return nil, fs.ErrNotExist
	}
	lookPath = func(name string) (string, error) {
		if p, ok := commands[name]; ok {
			return p, nil
		}
		return "", errors.New("not found")
	}
}

func TestSystemDetector(t *testing.T) {
	tests := []struct {
		name     string
		goos     string
		files    []string
		commands map[string]string
		want     []settings.BrowserRecord
	}{
		{
			name: "Nothing installed",
			goos: "linux",
			want: []settings.BrowserRecord{},
		},
		{
			name:  "Linux chrome and edge",
			goos:  "linux",
			files: []string{"/usr/bin/chromium", "/usr/bin/microsoft-edge-stable"},
			want: []settings.BrowserRecord{
				{ID: "chrome", Name: "Google Chrome", Path: "/usr/bin/chromium"},
				{ID: "edge", Name: "Microsoft Edge", Path: "/usr/bin/microsoft-edge-stable"},
			},
		},
		{
			name:  "First matching path wins",
			goos:  "linux",
			files: []string{"/usr/bin/google-chrome", "/usr/bin/chromium"},
			want: []settings.BrowserRecord{
				{ID: "chrome", Name: "Google Chrome", Path: "/usr/bin/google-chrome"},
			},
		},
		{
			name:     "Falls back to PATH",
			goos:     "linux",
			commands: map[string]string{"google-chrome": "/opt/google/chrome/google-chrome"},
			want: []settings.BrowserRecord{
				{ID: "chrome", Name: "Google Chrome", Path: "/opt/google/chrome/google-chrome"},
			},
		},
		{
			name:  "macOS edge",
			goos:  "darwin",
			files: []string{"/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge"},
			want: []settings.BrowserRecord{
				{ID: "edge", Name: "Microsoft Edge", Path: "/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge"},
			},
		},
		{
			name: "Unsupported OS",
			goos: "plan9",
			want: []settings.BrowserRecord{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakeFS(t, tt.goos, tt.files, tt.commands)
			got := SystemDetector{}.DetectAll()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DetectAll() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWindowsCandidatesUseProgramFiles(t *testing.T) {
	origGOOS, origEnv := goos, getenv
	defer func() { goos, getenv = origGOOS, origEnv }()
	goos = "windows"
	getenv = func(k string) string {
		if k == "ProgramFiles" {
			return `D:\Apps`
		}
		return ""
	}

	cs := candidates()
	if len(cs) != 2 || cs[0].ID != "chrome" || cs[1].ID != "edge" {
		t.Fatalf("unexpected candidates %+v", cs)
	}
	want := filepath.Join(`D:\Apps`, "Google", "Chrome", "Application", "chrome.exe")
	if cs[0].Paths[0] != want {
		t.Errorf("chrome path = %q, want %q", cs[0].Paths[0], want)
	}
}

type countingDetector struct {
	calls int
	out   []settings.BrowserRecord
}

func (d *countingDetector) DetectAll() []settings.BrowserRecord {
	d.calls++
	return d.out
}

func TestCachedDetector(t *testing.T) {
	c, err := cache.New(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	inner := &countingDetector{out: []settings.BrowserRecord{{ID: "chrome", Name: "Google Chrome", Path: "/usr/bin/chromium"}}}
	d := &CachedDetector{Detector: inner, Cache: c}

	first := d.DetectAll()
	second := d.DetectAll()
	if inner.calls != 1 {
		t.Errorf("expected one detection, got %d", inner.calls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached result %v differs from %v", second, first)
	}

	d.Refresh = true
	d.DetectAll()
	if inner.calls != 2 {
		t.Errorf("refresh should bypass the cache, got %d detections", inner.calls)
	}

	// an empty result drops the cached entry
	inner.out = []settings.BrowserRecord{}
	if got := d.DetectAll(); len(got) != 0 {
		t.Errorf("expected no browsers, got %v", got)
	}
	d.Refresh = false
	d.DetectAll()
	if inner.calls != 4 {
		t.Errorf("empty result should not be cached, got %d detections", inner.calls)
	}
}
