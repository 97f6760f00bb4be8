// Package config loads and saves the ssdpmon configuration file.
//
// The file is YAML by default. A path ending in .toml is read and written as
// TOML instead. Values absent from the file keep their defaults, and command
// line flags are layered on top with Apply.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/ssdpmon/config.yaml or $HOME/.config/ssdpmon/config.yaml
//   - macOS: $HOME/.config/ssdpmon/config.yaml
//   - Windows: %LOCALAPPDATA%\ssdpmon\config.yaml
//
// # Example
//
//	version: 1
//	listener:
//	  interfaces: [192.168.1.10]
//	  receive_timeout: 250ms
//	  buffer_size: 8192
//	  multicast: true
//	  port: 1900
//	log:
//	  level: info
//	  output: stderr
//	server:
//	  addr: ":8900"
//	  sweep_interval: 5s
//	capture:
//	  dir: /var/tmp/ssdpmon
//
// # Thread Safety
//
// Save serializes writers within one process and replaces the file
// atomically, so a crash never leaves a half-written config behind.
package config
