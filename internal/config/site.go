package config

// SiteConfig holds site-specific configuration for a single host.
// This allows customizing fetch and audit behavior per site, for example
// sending a session cookie so the analyzer sees the logged-in page.
type SiteConfig struct {
	// Cookie is an HTTP cookie to use when fetching this site.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// AuditAPIKey overrides the global remote audit API key for this site.
	AuditAPIKey string `yaml:"auditApiKey,omitempty"`

	// DisableLocalFallback disables the headless browser fallback for this
	// site even when it is enabled globally. Useful for sites that block
	// automated browsers.
	DisableLocalFallback bool `yaml:"disableLocalFallback,omitempty"`

	// UserAgent overrides the global User-Agent header for this site.
	UserAgent string `yaml:"userAgent,omitempty"`
}

// File represents the structure of the .sitelens configuration file.
type File struct {
	// Sites maps hostnames to their site-specific configurations.
	// Keys should be the hostname without the scheme (e.g., "example.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all sites
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a specific hostname.
// It merges the site-specific configuration with defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	// Start with defaults
	result := cf.Defaults

	// Override with site-specific configuration if present
	if siteConfig, ok := cf.Sites[host]; ok {
		if siteConfig.Cookie != "" {
			result.Cookie = siteConfig.Cookie
		}
		if siteConfig.AuditAPIKey != "" {
			result.AuditAPIKey = siteConfig.AuditAPIKey
		}
		if siteConfig.UserAgent != "" {
			result.UserAgent = siteConfig.UserAgent
		}
		if siteConfig.DisableLocalFallback {
			result.DisableLocalFallback = true
		}
		if len(siteConfig.Headers) > 0 {
			if result.Headers == nil {
				result.Headers = make(map[string]string)
			}
			for k, v := range siteConfig.Headers {
				result.Headers[k] = v
			}
		}
	}

	return result
}
