package app

import (
	"net/url"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/bplaunch/bplaunch/internal/settings"
)

var newID = uuid.NewString

// AddBrowser saves a browser entered by hand. The executable must exist.
func (f *Facade) AddBrowser(browser settings.BrowserRecord) (settings.BrowserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cfg, err := f.Store.Load()
	if err != nil {
		return settings.BrowserRecord{}, err
	}
	if strings.TrimSpace(browser.Name) == "" {
		return settings.BrowserRecord{}, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if err := validateExecutable(browser.Path); err != nil {
		return settings.BrowserRecord{}, err
	}
	if browser.ID == "" {
		browser.ID = newID()
	} else if _, exists := cfg.FindBrowser(browser.ID); exists {
		return settings.BrowserRecord{}, &ValidationError{Field: "id", Reason: "browser " + browser.ID + " already exists"}
	}

	cfg.Browsers = append(cfg.Browsers, browser)
	if _, err := f.save(cfg); err != nil {
		return settings.BrowserRecord{}, err
	}
	return browser, nil
}

// SetBrowserPath points an existing browser at another executable.
func (f *Facade) SetBrowserPath(browserID, path string) (settings.BrowserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cfg, err := f.Store.Load()
	if err != nil {
		return settings.BrowserRecord{}, err
	}
	if err := validateExecutable(path); err != nil {
		return settings.BrowserRecord{}, err
	}
	for i := range cfg.Browsers {
		if cfg.Browsers[i].ID != browserID {
			continue
		}
		cfg.Browsers[i].Path = path
		if _, err := f.save(cfg); err != nil {
			return settings.BrowserRecord{}, err
		}
		return cfg.Browsers[i], nil
	}
	return settings.BrowserRecord{}, &NotFoundError{Kind: "browser", ID: browserID}
}

func validateExecutable(path string) error {
	if strings.TrimSpace(path) == "" {
		return &ValidationError{Field: "path", Reason: "must not be empty"}
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return &ValidationError{Field: "path", Reason: path + " is not a file"}
	}
	return nil
}

// AddSite validates site, gives it an id when it has none and saves it.
func (f *Facade) AddSite(site settings.SiteRecord) (settings.SiteRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cfg, err := f.Store.Load()
	if err != nil {
		return settings.SiteRecord{}, err
	}
	if err := validateSite(site, cfg); err != nil {
		return settings.SiteRecord{}, err
	}
	if site.ID == "" {
		site.ID = newID()
	} else if _, exists := cfg.FindSite(site.ID); exists {
		return settings.SiteRecord{}, &ValidationError{Field: "id", Reason: "site " + site.ID + " already exists"}
	}

	cfg.Sites = append(cfg.Sites, site)
	if _, err := f.save(cfg); err != nil {
		return settings.SiteRecord{}, err
	}
	return site, nil
}

func validateSite(site settings.SiteRecord, cfg *settings.AppSettings) error {
	if strings.TrimSpace(site.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if u, err := url.Parse(site.URL); err != nil || u.Scheme == "" {
		return &ValidationError{Field: "url", Reason: "must be an absolute URL"}
	}
	if _, ok := cfg.FindBrowser(site.BrowserID); !ok {
		return &NotFoundError{Kind: "browser", ID: site.BrowserID}
	}
	if site.ProxyID != "" {
		if _, ok := cfg.FindProxy(site.ProxyID); !ok {
			return &NotFoundError{Kind: "proxy", ID: site.ProxyID}
		}
	}
	return nil
}

// AddProxy validates proxy, gives it an id when it has none and saves it.
func (f *Facade) AddProxy(proxy settings.ProxyRecord) (settings.ProxyRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cfg, err := f.Store.Load()
	if err != nil {
		return settings.ProxyRecord{}, err
	}
	if err := validateProxy(proxy); err != nil {
		return settings.ProxyRecord{}, err
	}
	proxy.Type = proxy.Kind().String()
	if proxy.ID == "" {
		proxy.ID = newID()
	} else if _, exists := cfg.FindProxy(proxy.ID); exists {
		return settings.ProxyRecord{}, &ValidationError{Field: "id", Reason: "proxy " + proxy.ID + " already exists"}
	}

	cfg.Proxies = append(cfg.Proxies, proxy)
	if _, err := f.save(cfg); err != nil {
		return settings.ProxyRecord{}, err
	}
	return proxy, nil
}

func validateProxy(proxy settings.ProxyRecord) error {
	if strings.TrimSpace(proxy.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	switch proxy.Kind() {
	case settings.KindHTTP, settings.KindSOCKS5:
		if strings.TrimSpace(proxy.Host) == "" {
			return &ValidationError{Field: "host", Reason: "must not be empty"}
		}
		if proxy.Port < 1 || proxy.Port > 65535 {
			return &ValidationError{Field: "port", Reason: "must be between 1 and 65535"}
		}
	case settings.KindPAC:
		// an empty PAC URL is allowed and launches without a proxy flag
	default:
		return &ValidationError{Field: "proxy_type", Reason: "must be http, socks5 or pac"}
	}
	return nil
}

// RemoveSite deletes one site.
func (f *Facade) RemoveSite(siteID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cfg, err := f.Store.Load()
	if err != nil {
		return err
	}
	kept := make([]settings.SiteRecord, 0, len(cfg.Sites))
	for _, s := range cfg.Sites {
		if s.ID != siteID {
			kept = append(kept, s)
		}
	}
	if len(kept) == len(cfg.Sites) {
		return &NotFoundError{Kind: "site", ID: siteID}
	}
	cfg.Sites = kept
	_, err = f.save(cfg)
	return err
}

// RemoveProxy deletes one proxy. Sites that used it are deleted with it;
// their ids are returned.
func (f *Facade) RemoveProxy(proxyID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cfg, err := f.Store.Load()
	if err != nil {
		return nil, err
	}
	kept := make([]settings.ProxyRecord, 0, len(cfg.Proxies))
	for _, p := range cfg.Proxies {
		if p.ID != proxyID {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(cfg.Proxies) {
		return nil, &NotFoundError{Kind: "proxy", ID: proxyID}
	}
	cfg.Proxies = kept
	return f.save(cfg)
}
