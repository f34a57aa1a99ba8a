// Package config loads runtime configuration for the taskkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the taskkeeper API
//	-s string   directory holding the saved session
//	-t int      request timeout (seconds)
//
// # File schema
//
// Durations use timex.Duration, so values can be strings like "10s" or
// integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "session_dir": ".taskkeeper",
//	  "request_timeout": "10s"
//	}
//
// The package does not read environment variables.
package config
