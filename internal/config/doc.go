// Package config provides application configuration for molehole.
//
// The configuration is a YAML file holding the mapping table location, the
// LAN discovery window, resolver strategy switches, the wireless interface and
// the service listen address. Every key is optional; missing keys keep the
// values from Default.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/molehole/config.yaml or $HOME/.config/molehole/config.yaml
//   - macOS: $HOME/.config/molehole/config.yaml
//   - Windows: %LOCALAPPDATA%\molehole\config.yaml
//
// The mapping table defaults to mapping.yaml in the same directory.
//
// # Usage Example
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cfg.Discovery.TimeoutSeconds = 15
//	if err := cfg.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// Writes are serialized by a package mutex and are atomic (temp file + rename).
package config
