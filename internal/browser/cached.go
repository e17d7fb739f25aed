package browser

import (
	"github.com/bplaunch/bplaunch/internal/cache"
	"github.com/bplaunch/bplaunch/internal/log"
	"github.com/bplaunch/bplaunch/internal/settings"
)

// CachedDetector serves detection results from an on-disk cache and only
// scans the system on a miss or when Refresh is set.
type CachedDetector struct {
	Detector Detector
	Cache    *cache.Cache
	Refresh  bool
}

func (d *CachedDetector) key() string {
	return "browsers-" + goos
}

// DetectAll returns cached results when valid, else detects and caches a
// non-empty result. Cache failures only cost a fresh scan.
func (d *CachedDetector) DetectAll() []settings.BrowserRecord {
	if !d.Refresh {
		var cached []settings.BrowserRecord
		miss, err := d.Cache.Read(d.key(), &cached)
		if err != nil {
			log.Warn("Failed to read browser cache: %v", err)
		}
		if !miss && err == nil && cached != nil {
			log.Debug("using %d cached browsers", len(cached))
			return cached
		}
	}

	browsers := d.Detector.DetectAll()
	if len(browsers) == 0 {
		// nothing found is not remembered; the next run detects again
		if err := d.Cache.Clear(d.key()); err != nil {
			log.Warn("Failed to clear browser cache: %v", err)
		}
		return browsers
	}
	if err := d.Cache.Write(d.key(), browsers); err != nil {
		log.Warn("Failed to write browser cache: %v", err)
	}
	return browsers
}
