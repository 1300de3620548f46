package ratelimit

import (
	"gopkg.in/yaml.v3"
)

// SourceConfigs maps a site tag (lowercased scraper type) to its
// limiter config.
type SourceConfigs struct {
	RateLimits map[string]Config `yaml:"rate_limits" json:"rate_limits"`
}

// LoadSourceConfigs loads YAML bytes into SourceConfigs.
func LoadSourceConfigs(data []byte) (SourceConfigs, error) {
	var cfgs SourceConfigs
	if err := yaml.Unmarshal(data, &cfgs); err != nil {
		return SourceConfigs{}, err
	}
	for name, cfg := range cfgs.RateLimits {
		cfgs.RateLimits[name] = applyDefaults(cfg)
	}
	return cfgs, nil
}

// Get returns the limiter config for a site, falling back to the
// default limits for sites with no entry.
func (s SourceConfigs) Get(site string) Config {
	cfg, ok := s.RateLimits[site]
	if !ok {
		return DefaultConfig()
	}
	return cfg
}
