package launch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bplaunch/bplaunch/internal/settings"
)

// Chromium command-line switches emitted by the planner.
const (
	flagUserDataDir = "--user-data-dir="
	flagNewWindow   = "--new-window"
	flagProxyServer = "--proxy-server="
	flagProxyPAC    = "--proxy-pac-url="
)

// CertificateBypassFlags are appended, in this order, when certificate errors are ignored.
var CertificateBypassFlags = []string{
	"--ignore-certificate-errors",
	"--ignore-ssl-errors",
	"--ignore-certificate-errors-spki-list",
	"--ignore-certificate-errors-ssl-invalid",
	"--allow-running-insecure-content",
}

// TargetKind says how the browser of a Target is resolved.
type TargetKind int

const (
	// TargetSite uses the site's own browser id and fails if it is unknown.
	TargetSite TargetKind = iota
	// TargetProxyTest uses the default browser, falling back to the first one.
	TargetProxyTest
)

// Target is what gets launched: a site, or a proxy opened for testing.
type Target struct {
	Kind        TargetKind
	ProfileName string
	BrowserID   string // TargetSite only
	ProxyID     string
	URL         string // optional for TargetProxyTest
}

// SiteTarget launches site through its configured browser and proxy.
func SiteTarget(site settings.SiteRecord) Target {
	return Target{
		Kind:        TargetSite,
		ProfileName: "site-" + site.Name,
		BrowserID:   site.BrowserID,
		ProxyID:     site.ProxyID,
		URL:         site.URL,
	}
}

// ProxyTestTarget opens the default browser wired to proxy, optionally at url.
func ProxyTestTarget(proxy settings.ProxyRecord, url string) Target {
	return Target{
		Kind:        TargetProxyTest,
		ProfileName: "test-" + proxy.Name,
		ProxyID:     proxy.ID,
		URL:         url,
	}
}

// Plan is a resolved browser invocation.
type Plan struct {
	ExecutablePath string
	Arguments      []string
	ProfileDir     string
}

// Planner turns targets into plans. ProfilesRoot is normally
// <config dir>/profiles.
type Planner struct {
	ProfilesRoot string
	// mkdirAll is swapped in tests to simulate profile creation failures.
	mkdirAll func(path string, perm os.FileMode) error
}

// NewPlanner creates a planner placing profiles under profilesRoot.
func NewPlanner(profilesRoot string) *Planner {
	return &Planner{ProfilesRoot: profilesRoot, mkdirAll: os.MkdirAll}
}

// Plan resolves the browser, creates the profile directory and assembles the
// argument list. A missing or unresolvable proxy is not an error: the proxy
// flag is simply left out.
func (p *Planner) Plan(target Target, cfg *settings.AppSettings) (Plan, error) {
	browser, err := resolveBrowser(target, cfg)
	if err != nil {
		return Plan{}, err
	}

	var proxy *settings.ProxyRecord
	if target.ProxyID != "" {
		if rec, ok := cfg.FindProxy(target.ProxyID); ok {
			proxy = &rec
		}
	}

	profileDir := filepath.Join(p.ProfilesRoot, ProfileDirName(target.ProfileName))
	mkdir := p.mkdirAll
	if mkdir == nil {
		mkdir = os.MkdirAll
	}
	if err := mkdir(profileDir, 0750); err != nil {
		return Plan{}, &ProfileDirError{Path: profileDir, Err: err}
	}

	args := []string{flagUserDataDir + profileDir, flagNewWindow}
	if cfg.IgnoreCertErrors {
		args = append(args, CertificateBypassFlags...)
	}
	if proxy != nil {
		if flag, ok := ProxyFlag(*proxy); ok {
			args = append(args, flag)
		}
	}
	if target.URL != "" {
		args = append(args, target.URL)
	}

	return Plan{ExecutablePath: browser.Path, Arguments: args, ProfileDir: profileDir}, nil
}

func resolveBrowser(target Target, cfg *settings.AppSettings) (settings.BrowserRecord, error) {
	switch target.Kind {
	case TargetProxyTest:
		if b, ok := cfg.FindBrowser(cfg.DefaultBrowserID); ok {
			return b, nil
		}
		if len(cfg.Browsers) > 0 {
			return cfg.Browsers[0], nil
		}
		return settings.BrowserRecord{}, &BrowserNotFoundError{BrowserID: cfg.DefaultBrowserID}
	default:
		if b, ok := cfg.FindBrowser(target.BrowserID); ok {
			return b, nil
		}
		return settings.BrowserRecord{}, &BrowserNotFoundError{BrowserID: target.BrowserID}
	}
}

// ProxyFlag encodes proxy as a single browser switch. ok is false when the
// proxy yields no switch (pac without url, unknown kind).
func ProxyFlag(proxy settings.ProxyRecord) (flag string, ok bool) {
	switch proxy.Kind() {
	case settings.KindHTTP:
		return flagProxyServer + proxyURL("http", proxy), true
	case settings.KindSOCKS5:
		return flagProxyServer + proxyURL("socks5", proxy), true
	case settings.KindPAC:
		if proxy.PacURL == "" {
			return "", false
		}
		return flagProxyPAC + proxy.PacURL, true
	case settings.KindUnknown:
		return "", false
	}
	return "", false
}

// proxyURL includes credentials only when both username and password are set.
func proxyURL(scheme string, proxy settings.ProxyRecord) string {
	if proxy.Username != "" && proxy.Password != "" {
		return fmt.Sprintf("%s://%s:%s@%s:%d", scheme, proxy.Username, proxy.Password, proxy.Host, proxy.Port)
	}
	return fmt.Sprintf("%s://%s:%d", scheme, proxy.Host, proxy.Port)
}

// ProfileDirName keeps a profile name inside the profiles directory by
// replacing path separators and parent references.
func ProfileDirName(name string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")
	name = strings.TrimSpace(r.Replace(name))
	if name == "" || name == "." {
		return "_"
	}
	return name
}
