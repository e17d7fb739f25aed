// Package browser finds Chromium-family browsers installed on this machine.
package browser

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/bplaunch/bplaunch/internal/log"
	"github.com/bplaunch/bplaunch/internal/settings"
)

// Detector reports the browsers available to launch.
type Detector interface {
	DetectAll() []settings.BrowserRecord
}

// candidate describes where one browser may be installed.
type candidate struct {
	ID    string
	Name  string
	Paths []string
	// Commands are looked up on PATH after Paths.
	Commands []string
}

// Overridable for tests.
var (
	goos     = runtime.GOOS
	getenv   = os.Getenv
	stat     = os.Stat
	lookPath = exec.LookPath
)

// candidates returns the install locations for the current OS, in
// detection order.
func candidates() []candidate {
	switch goos {
	case "darwin":
		return []candidate{
			{
				ID:    "chrome",
				Name:  "Google Chrome",
				Paths: []string{"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome"},
			},
			{
				ID:    "edge",
				Name:  "Microsoft Edge",
				Paths: []string{"/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge"},
			},
		}
	case "windows":
		programFiles := envOr("ProgramFiles", `C:\Program Files`)
		programFilesX86 := envOr("ProgramFiles(x86)", `C:\Program Files (x86)`)
		localAppData := getenv("LOCALAPPDATA")
		chrome := []string{
			filepath.Join(programFiles, "Google", "Chrome", "Application", "chrome.exe"),
			filepath.Join(programFilesX86, "Google", "Chrome", "Application", "chrome.exe"),
		}
		if localAppData != "" {
			chrome = append(chrome, filepath.Join(localAppData, "Google", "Chrome", "Application", "chrome.exe"))
		}
		return []candidate{
			{ID: "chrome", Name: "Google Chrome", Paths: chrome, Commands: []string{"chrome.exe"}},
			{
				ID:   "edge",
				Name: "Microsoft Edge",
				Paths: []string{
					filepath.Join(programFilesX86, "Microsoft", "Edge", "Application", "msedge.exe"),
					filepath.Join(programFiles, "Microsoft", "Edge", "Application", "msedge.exe"),
				},
				Commands: []string{"msedge.exe"},
			},
		}
	case "linux":
		return []candidate{
			{
				ID:   "chrome",
				Name: "Google Chrome",
				Paths: []string{
					"/usr/bin/google-chrome",
					"/usr/bin/google-chrome-stable",
					"/usr/bin/chromium-browser",
					"/usr/bin/chromium",
				},
				Commands: []string{"google-chrome", "google-chrome-stable", "chromium-browser", "chromium"},
			},
			{
				ID:   "edge",
				Name: "Microsoft Edge",
				Paths: []string{
					"/usr/bin/microsoft-edge",
					"/usr/bin/microsoft-edge-stable",
				},
				Commands: []string{"microsoft-edge", "microsoft-edge-stable"},
			},
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return fallback
}

// SystemDetector checks the well-known install locations of the current OS.
type SystemDetector struct{}

// DetectAll returns one record per browser found, Chrome before Edge.
func (SystemDetector) DetectAll() []settings.BrowserRecord {
	browsers := []settings.BrowserRecord{}
	for _, c := range candidates() {
		if path, ok := locate(c); ok {
			log.Debug("detected %s at %s", c.Name, path)
			browsers = append(browsers, settings.BrowserRecord{ID: c.ID, Name: c.Name, Path: path})
		}
	}
	return browsers
}

func locate(c candidate) (string, bool) {
	for _, p := range c.Paths {
		if info, err := stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	for _, name := range c.Commands {
		if p, err := lookPath(name); err == nil {
			return p, true
		}
	}
	return "", false
}
