package config

import (
	"os"
	"time"
)

// Cache backends understood by kvstore.Open.
const (
	BackendSQLite = "sqlite"
	BackendDiskv  = "diskv"
)

// Config holds runtime settings for the MindBalance client.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - OnlineCheckInterval: how often the client checks server reachability.
//   - DataDir: directory for the local cache and the client log.
//   - CacheBackend: "sqlite" or "diskv".
//   - RemoteWriteTimeout: how long a new entry's remote write may take
//     before the save is reported as queued.
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	DataDir             string
	CacheBackend        string
	RemoteWriteTimeout  time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.DataDir = "mindbalance-data"
	c.CacheBackend = BackendSQLite
	c.RemoteWriteTimeout = 15 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
