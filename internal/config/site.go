package config

import "time"

// SiteConfig holds per-site overrides keyed by host. Some listing sites
// require a session cookie or extra headers before they serve real content,
// and busier sites deserve a longer politeness delay.
type SiteConfig struct {
	// Cookie is an HTTP cookie to send when crawling this site.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Delay overrides the global politeness delay for this site.
	// Go duration syntax (e.g. "2s", "1500ms"). Empty means use the
	// global CrawlDelay.
	Delay string `yaml:"delay,omitempty"`

	// MaxPages overrides the global page limit for this site.
	// Zero means use the global MaxPages.
	MaxPages int `yaml:"maxPages,omitempty"`

	// UserAgent overrides the global User-Agent for this site.
	UserAgent string `yaml:"userAgent,omitempty"`
}

// File represents the structure of the .tourcrawl configuration file.
type File struct {
	// Sites maps hostnames to their overrides (e.g.
	// "english.visitseoul.net").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults is applied to every site unless overridden in the
	// site-specific entry.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a host, merging the
// site-specific entry over the defaults block.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults

	// Copy the defaults header map so merging never mutates the shared
	// Defaults block.
	if len(result.Headers) > 0 {
		headers := make(map[string]string, len(result.Headers))
		for k, v := range result.Headers {
			headers[k] = v
		}
		result.Headers = headers
	}

	if site, ok := cf.Sites[host]; ok {
		if site.Cookie != "" {
			result.Cookie = site.Cookie
		}
		if site.Delay != "" {
			result.Delay = site.Delay
		}
		if site.MaxPages != 0 {
			result.MaxPages = site.MaxPages
		}
		if site.UserAgent != "" {
			result.UserAgent = site.UserAgent
		}
		if len(site.Headers) > 0 {
			if result.Headers == nil {
				result.Headers = make(map[string]string)
			}
			for k, v := range site.Headers {
				result.Headers[k] = v
			}
		}
	}

	return result
}

// DelayDuration parses the Delay override. It returns (0, false) when no
// override is set or the value does not parse as a Go duration.
func (sc SiteConfig) DelayDuration() (time.Duration, bool) {
	if sc.Delay == "" {
		return 0, false
	}
	d, err := time.ParseDuration(sc.Delay)
	if err != nil || d < 0 {
		return 0, false
	}
	return d, true
}
