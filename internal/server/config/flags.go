package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/mindbalance/internal/flagx"
)

var serverFlags = []string{"-a", "-d", "-s", "-t", "-r", "-u", "-p", "-b", "-g", "-e", "-w", "-k"}

// parseFlags overlays command-line flags. Token lifetimes are in minutes.
//
//	-a gRPC bind address      -d PostgreSQL DSN        -s JWT secret
//	-t access token minutes   -r refresh token minutes
//	-u S3 user  -p S3 password  -b S3 bucket  -g S3 region  -e S3 endpoint
//	-w public photo base URL  -k upload preset
func parseFlags(config *Config, args []string) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	access := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (minutes)")
	refresh := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh token validity (minutes)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3PublicBaseURL, "w", config.S3PublicBaseURL, "public base URL for photos")
	fs.StringVar(&config.UploadPreset, "k", config.UploadPreset, "accepted upload preset")

	if err := fs.Parse(flagx.FilterArgs(args, serverFlags)); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*access) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refresh) * time.Minute
}
