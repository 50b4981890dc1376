// Molehole finds known devices on the local network.
//
// It listens for SSH service advertisements over mDNS, resolves each
// advertised address to its hardware address, scans nearby wireless access
// points, and reports every hardware address that falls inside a range of
// the device mapping table.
//
// Usage:
//
//	molehole [command] [flags]
//
// See 'molehole --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/molehole/internal/config"
	"github.com/muurk/molehole/internal/logging"
	"github.com/muurk/molehole/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	configFile  string
	mappingFile string
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "molehole",
	Short: "Find known devices on the local network",
	Long: `Find known devices on the local network.

Devices are recognised by hardware address. Addresses come from two sources:
  - hosts advertising _ssh._tcp over mDNS, resolved through ARP
  - nearby wireless access points (BSSIDs) from a wireless scan

Every address is checked against the ranges of the device mapping table.

Logging is silent unless --log-level or MOLEHOLE_LOG_LEVEL is set.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Example: `  # Listen for 10 seconds, then scan access points
  molehole devices

  # LAN only, 5 second window, JSON output
  molehole lan --timeout 5 --format json

  # Create a config file and an example mapping table
  molehole config init`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: <user config dir>/molehole/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&mappingFile, "mapping", "", "Device mapping table (overrides mapping_file)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: $"+logging.LogLevelEnvVar+")")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "molehole %s\n", version.Full())
	},
}

// loadConfig reads the config file named by --config, or the default one,
// and applies the global flag overrides.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.LoadFrom(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if mappingFile != "" {
		cfg.MappingFile = mappingFile
	}
	return cfg, nil
}

// configPath returns the path loadConfig reads from
func configPath() (string, error) {
	if configFile != "" {
		return configFile, nil
	}
	return config.GetConfigPath()
}
