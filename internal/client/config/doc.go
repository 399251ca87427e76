// Package config loads runtime configuration for the MindBalance client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the backend gRPC endpoint
//	-i int      online status check interval (seconds)
//	-d string   data directory
//	-b string   cache backend: sqlite | diskv
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "data_dir": "mindbalance-data",
//	  "cache_backend": "sqlite",
//	  "remote_write_timeout": "15s"
//	}
package config
