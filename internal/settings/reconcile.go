package settings

// Normalize replaces nil lists with empty ones so documents always carry
// [] rather than null. It modifies and returns s.
func Normalize(s *AppSettings) *AppSettings {
	if s.Browsers == nil {
		s.Browsers = []BrowserRecord{}
	}
	if s.Proxies == nil {
		s.Proxies = []ProxyRecord{}
	}
	if s.Sites == nil {
		s.Sites = []SiteRecord{}
	}
	return s
}

// PruneDanglingProxyReferences drops every site whose proxy_id names a proxy
// that does not exist and reports the removed site ids. Sites are deleted,
// not detached from the proxy. The input is left untouched.
func PruneDanglingProxyReferences(s *AppSettings) (*AppSettings, []string) {
	cleaned := s.Clone()

	known := make(map[string]struct{}, len(cleaned.Proxies))
	for _, p := range cleaned.Proxies {
		known[p.ID] = struct{}{}
	}

	var removed []string
	kept := make([]SiteRecord, 0, len(cleaned.Sites))
	for _, site := range cleaned.Sites {
		if site.ProxyID != "" {
			if _, ok := known[site.ProxyID]; !ok {
				removed = append(removed, site.ID)
				continue
			}
		}
		kept = append(kept, site)
	}
	cleaned.Sites = kept
	return cleaned, removed
}

// SyncAutostartTruth makes LaunchOnStartup match the OS registration.
// changed reports whether the document needs to be persisted.
func SyncAutostartTruth(s *AppSettings, osEnabled bool) (*AppSettings, bool) {
	corrected := s.Clone()
	if corrected.LaunchOnStartup == osEnabled {
		return corrected, false
	}
	corrected.LaunchOnStartup = osEnabled
	return corrected, true
}

// MergeDetectedBrowsers fills an empty browser list with the detected
// browsers. A non-empty list is user data and is returned unchanged.
func MergeDetectedBrowsers(s *AppSettings, detected []BrowserRecord) *AppSettings {
	merged := s.Clone()
	if len(merged.Browsers) > 0 {
		return merged
	}
	merged.Browsers = append([]BrowserRecord{}, detected...)
	return merged
}
