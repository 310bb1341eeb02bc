package config

// ZonePlayerURN is the SSDP search target answered by Sonos zone players.
const ZonePlayerURN = "urn:schemas-upnp-org:device:ZonePlayer:1"

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Discovery: DiscoveryConfig{
			Timeout:      5,
			SearchTarget: ZonePlayerURN,
		},
		Control: ControlConfig{
			Timeout:     10,
			Concurrency: 4,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Discovery
	if c.Discovery.Timeout == 0 {
		c.Discovery.Timeout = d.Discovery.Timeout
	}
	if c.Discovery.SearchTarget == "" {
		c.Discovery.SearchTarget = d.Discovery.SearchTarget
	}

	// Control
	if c.Control.Timeout == 0 {
		c.Control.Timeout = d.Control.Timeout
	}
	if c.Control.Concurrency == 0 {
		c.Control.Concurrency = d.Control.Concurrency
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
}
