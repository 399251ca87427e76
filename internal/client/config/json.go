package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/mindbalance/internal/flagx"
	"github.com/dmitrijs2005/mindbalance/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Intervals
// may be written as "3s" or as integer seconds.
type JsonConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	DataDir             string         `json:"data_dir"`
	CacheBackend        string         `json:"cache_backend"`
	RemoteWriteTimeout  timex.Duration `json:"remote_write_timeout"`
}

// parseJson overlays cfg with the file named by -c/-config. Keys that are
// absent keep their current value. Read or decode errors panic.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = c.ServerEndpointAddr
	}
	if c.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = c.OnlineCheckInterval.Duration
	}
	if c.DataDir != "" {
		cfg.DataDir = c.DataDir
	}
	if c.CacheBackend != "" {
		cfg.CacheBackend = c.CacheBackend
	}
	if c.RemoteWriteTimeout.Duration > 0 {
		cfg.RemoteWriteTimeout = c.RemoteWriteTimeout.Duration
	}
}
