package settings

import "strings"

// BrowserRecord is a browser executable the launcher can start.
type BrowserRecord struct {
	ID   string `json:"id" yaml:"id" toml:"id"`
	Name string `json:"name" yaml:"name" toml:"name"`
	Path string `json:"path" yaml:"path" toml:"path"`
}

// ProxyKind is the closed set of proxy encodings the planner understands.
type ProxyKind int

const (
	// KindUnknown covers any proxy_type value this version does not know.
	// It is planned as "no proxy flag" rather than guessed at.
	KindUnknown ProxyKind = iota
	KindHTTP
	KindSOCKS5
	KindPAC
)

// String returns the on-disk spelling of the kind.
func (k ProxyKind) String() string {
	switch k {
	case KindHTTP:
		return "http"
	case KindSOCKS5:
		return "socks5"
	case KindPAC:
		return "pac"
	default:
		return "unknown"
	}
}

// ParseProxyKind maps a stored proxy_type to its kind.
func ParseProxyKind(s string) ProxyKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "http":
		return KindHTTP
	case "socks5":
		return KindSOCKS5
	case "pac":
		return KindPAC
	default:
		return KindUnknown
	}
}

// ProxyRecord is a named proxy. Type is kept as the raw stored string so that
// kinds added by newer versions survive a load/save cycle untouched.
// Host and Port matter for http/socks5, PacURL for pac.
type ProxyRecord struct {
	ID       string `json:"id" yaml:"id" toml:"id"`
	Name     string `json:"name" yaml:"name" toml:"name"`
	Type     string `json:"proxy_type" yaml:"proxy_type" toml:"proxy_type"`
	Host     string `json:"host" yaml:"host" toml:"host"`
	Port     int    `json:"port" yaml:"port" toml:"port"`
	Username string `json:"username,omitempty" yaml:"username,omitempty" toml:"username,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty" toml:"password,omitempty"`
	PacURL   string `json:"url,omitempty" yaml:"url,omitempty" toml:"url,omitempty"`
}

// Kind classifies the stored proxy type.
func (p ProxyRecord) Kind() ProxyKind {
	return ParseProxyKind(p.Type)
}

// SiteRecord binds a URL to a browser and, optionally, a proxy.
type SiteRecord struct {
	ID        string `json:"id" yaml:"id" toml:"id"`
	Name      string `json:"name" yaml:"name" toml:"name"`
	URL       string `json:"url" yaml:"url" toml:"url"`
	BrowserID string `json:"browser_id" yaml:"browser_id" toml:"browser_id"`
	ProxyID   string `json:"proxy_id,omitempty" yaml:"proxy_id,omitempty" toml:"proxy_id,omitempty"`
}

// AppSettings is the whole settings document.
type AppSettings struct {
	DefaultBrowserID string          `json:"default_browser" yaml:"default_browser" toml:"default_browser"`
	DefaultLaunchURL string          `json:"default_launch_url" yaml:"default_launch_url" toml:"default_launch_url"`
	Theme            string          `json:"theme" yaml:"theme" toml:"theme"`
	LaunchOnStartup  bool            `json:"launch_on_startup" yaml:"launch_on_startup" toml:"launch_on_startup"`
	IgnoreCertErrors bool            `json:"ignore_cert_errors" yaml:"ignore_cert_errors" toml:"ignore_cert_errors"`
	Browsers         []BrowserRecord `json:"browsers" yaml:"browsers" toml:"browsers"`
	Proxies          []ProxyRecord   `json:"proxies" yaml:"proxies" toml:"proxies"`
	Sites            []SiteRecord    `json:"sites" yaml:"sites" toml:"sites"`
}

// Default returns the settings used when no document exists yet.
func Default() *AppSettings {
	return &AppSettings{
		DefaultBrowserID: "chrome",
		Theme:            "system",
		Browsers:         []BrowserRecord{},
		Proxies:          []ProxyRecord{},
		Sites:            []SiteRecord{},
	}
}

// Clone returns a deep copy.
func (s *AppSettings) Clone() *AppSettings {
	if s == nil {
		return nil
	}
	c := *s
	c.Browsers = append([]BrowserRecord(nil), s.Browsers...)
	c.Proxies = append([]ProxyRecord(nil), s.Proxies...)
	c.Sites = append([]SiteRecord(nil), s.Sites...)
	return Normalize(&c)
}

// FindBrowser looks a browser up by id.
func (s *AppSettings) FindBrowser(id string) (BrowserRecord, bool) {
	for _, b := range s.Browsers {
		if b.ID == id {
			return b, true
		}
	}
	return BrowserRecord{}, false
}

// FindProxy looks a proxy up by id.
func (s *AppSettings) FindProxy(id string) (ProxyRecord, bool) {
	for _, p := range s.Proxies {
		if p.ID == id {
			return p, true
		}
	}
	return ProxyRecord{}, false
}

// FindSite looks a site up by id.
func (s *AppSettings) FindSite(id string) (SiteRecord, bool) {
	for _, site := range s.Sites {
		if site.ID == id {
			return site, true
		}
	}
	return SiteRecord{}, false
}
