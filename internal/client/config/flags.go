package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/mindbalance/internal/flagx"
)

var clientFlags = []string{"-a", "-i", "-d", "-b"}

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   address and port of the backend server
//	-i int      online check interval in seconds
//	-d string   data directory
//	-b string   cache backend (sqlite or diskv)
//
// Only the flags above are passed to the flag set, see flagx.FilterArgs.
func parseFlags(cfg *Config, args []string) {
	fs := flag.NewFlagSet("client", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.CacheBackend, "b", cfg.CacheBackend, "cache backend (sqlite or diskv)")

	if err := fs.Parse(flagx.FilterArgs(args, clientFlags)); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
