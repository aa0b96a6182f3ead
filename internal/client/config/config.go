package config

import "time"

// Config holds runtime settings for the Goodnight client.
//
// Fields:
//   - ServerEndpointAddr: base URL of the backend HTTP API.
//   - DatabasePath: path of the local SQLite database file.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - LogFile: path of the rotated client log file.
//   - OTLPEndpoint: OTLP/gRPC collector address; empty disables telemetry.
type Config struct {
	ServerEndpointAddr  string
	DatabasePath        string
	OnlineCheckInterval time.Duration
	LogFile             string
	OTLPEndpoint        string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.DatabasePath = "goodnight.db"
	c.OnlineCheckInterval = 3 * time.Second
	c.LogFile = "goodnight.log"
	c.OTLPEndpoint = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
