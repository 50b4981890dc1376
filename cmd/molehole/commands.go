package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muurk/molehole/internal/arp"
	"github.com/muurk/molehole/internal/config"
	"github.com/muurk/molehole/internal/discovery"
	"github.com/muurk/molehole/internal/mapping"
	"github.com/muurk/molehole/internal/ui"
	"github.com/muurk/molehole/internal/wifi"
)

// Discovery command flags
var (
	timeoutSeconds float64
	outputFormat   string
)

const (
	formatDetailed = "detailed"
	formatCompact  = "compact"
	formatJSON     = "json"
)

func init() {
	for _, cmd := range []*cobra.Command{devicesCmd, lanCmd, apCmd} {
		cmd.Flags().StringVar(&outputFormat, "format", formatDetailed, "Output format (detailed, compact, json)")
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{devicesCmd, lanCmd} {
		cmd.Flags().Float64Var(&timeoutSeconds, "timeout", discovery.DefaultTimeoutSeconds,
			"LAN listening window in seconds (rounded; non-positive means the default)")
	}
}

// devicesCmd runs both pipelines
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Find devices on the LAN and among nearby access points",
	Long: `Listen for SSH service advertisements for the LAN window, resolve each
advertised address to a hardware address, then scan nearby wireless access
points. Matching devices from the LAN are listed first.`,
	Example: `  # Default 10 second window
  molehole devices

  # Quick run, one line per device
  molehole devices --timeout 3 --format compact`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDiscovery(cmd, discovery.SourceAll)
	},
}

// lanCmd runs the mDNS/ARP pipeline only
var lanCmd = &cobra.Command{
	Use:   "lan",
	Short: "Find devices advertising SSH on the local network",
	Example: `  molehole lan --timeout 5
  molehole lan --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDiscovery(cmd, discovery.SourceLAN)
	},
}

// apCmd runs one wireless scan
var apCmd = &cobra.Command{
	Use:   "ap",
	Short: "Find devices among nearby wireless access points",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDiscovery(cmd, discovery.SourceAP)
	},
}

func validateFormat(format string) error {
	switch format {
	case formatDetailed, formatCompact, formatJSON:
		return nil
	default:
		return fmt.Errorf("unknown format %q (expected detailed, compact or json)", format)
	}
}

func runDiscovery(cmd *cobra.Command, source string) error {
	if err := validateFormat(outputFormat); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	timeout := cfg.Discovery.TimeoutSeconds
	if cmd.Flags().Changed("timeout") {
		timeout = timeoutSeconds
	}

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run := func(ctx context.Context) discovery.Result {
		return engine.Run(ctx, source, timeout)
	}
	out := cmd.OutOrStdout()

	switch outputFormat {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(run(ctx))

	case formatCompact:
		ui.NewPrinter(out).PrintDevicesCompact(run(ctx).Devices)
		return nil
	}

	params := map[string]string{"Source": source}
	if source != discovery.SourceAP {
		params["Window"] = discovery.NormalizeTimeout(timeout).String()
	}

	if ui.IsTerminal(os.Stdout) && out == os.Stdout {
		runner := ui.NewDiscoveryRunner(ui.DiscoveryRunnerConfig{
			Title:   "Device Discovery",
			Command: cmd.CommandPath(),
			Params:  params,
			Source:  source,
			Window:  discovery.NormalizeTimeout(timeout),
			Output:  out,
		})
		_, err := runner.Run(ctx, run)
		return err
	}

	p := ui.NewPrinter(out)
	p.PrintHeader("Device Discovery", cmd.CommandPath(), params)
	res := run(ctx)
	p.Newline()
	p.PrintDevices(source, res.Devices)
	return nil
}

// newEngine wires the discovery engine from the configuration. A missing
// mapping table is an error so that an empty result always means nothing
// matched.
func newEngine(cfg *config.Config) (*discovery.Engine, error) {
	path, err := cfg.MappingPath()
	if err != nil {
		return nil, err
	}

	table, err := mapping.Load(path)
	if err != nil {
		if mapping.IsNotFound(err) {
			return nil, fmt.Errorf("mapping table %s not found (create one with 'molehole config init')", path)
		}
		return nil, err
	}

	resolver := arp.New(arp.Config{
		CacheSize:     cfg.Resolver.CacheSize,
		CacheTTL:      cfg.Resolver.CacheTTL,
		UseTable:      cfg.Resolver.ARPTable,
		UseArping:     cfg.Resolver.Arping,
		UsePing:       cfg.Resolver.PingPrime,
		ArpingTimeout: cfg.Resolver.ArpingTimeout,
		PingTimeout:   cfg.Resolver.PingTimeout,
	})

	return discovery.NewEngine(discovery.Options{
		Matcher:  table,
		Scanner:  wifi.NewScanner(cfg.WiFi.Interface),
		Browser:  discovery.NewZeroconfBrowser(),
		Resolver: resolver,
		Service:  cfg.Discovery.Service,
		Domain:   cfg.Discovery.Domain,
	}), nil
}

// mappingCmd groups mapping table commands
var mappingCmd = &cobra.Command{
	Use:   "mapping",
	Short: "Inspect the device mapping table",
}

var mappingCheckCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Load a mapping table and report formatting problems",
	Long: `Load a mapping table and report entries whose formatting would make
address comparison unreliable: lowercase hex digits, '-' separators,
malformed addresses, empty ranges and duplicate ids.

Exits with an error when any finding is error severity.`,
	Example: `  molehole mapping check
  molehole mapping check ./devices.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMappingCheck,
}

func init() {
	mappingCmd.AddCommand(mappingCheckCmd)
	rootCmd.AddCommand(mappingCmd)
}

func runMappingCheck(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if path, err = cfg.MappingPath(); err != nil {
			return err
		}
	}

	p := ui.NewPrinter(cmd.OutOrStdout())

	mappings, err := mapping.ReadFile(path)
	if err != nil {
		p.PrintError("Mapping table could not be loaded", err, loadTroubleshooting(err))
		return fmt.Errorf("%s: invalid mapping table", path)
	}

	issues := mapping.Lint(mappings)
	if len(issues) == 0 {
		p.PrintSuccess("Mapping table OK", map[string]string{
			"File":     path,
			"Mappings": fmt.Sprintf("%d", len(mappings)),
		})
		return nil
	}

	for _, issue := range issues {
		p.Println(ui.RenderIssue(issue.Severity.String(), issue.String()))
	}
	p.Newline()

	if mapping.HasErrors(issues) {
		return fmt.Errorf("%s: %d issue(s) found", path, len(issues))
	}
	return nil
}

func loadTroubleshooting(err error) []string {
	switch {
	case mapping.IsNotFound(err):
		return []string{"Create an example table with: molehole config init", "Or pass a table with --mapping"}
	case mapping.IsParseError(err):
		return []string{"The file is not valid YAML/JSON", "Check quoting around addresses containing ':'"}
	case mapping.IsSchemaError(err):
		return []string{
			"Each mapping needs an \"id\" and a \"mac\" list",
			"Each range needs \"start\" and \"end\" strings",
		}
	default:
		return []string{"Supported extensions are .yaml, .yml and .json"}
	}
}

// configCmd groups config file commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var forceInit bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file and an example mapping table",
	Long: `Write the default configuration and, when no mapping table exists yet,
an example table with a few well-known vendor ranges.

An existing config file is only replaced after confirmation, or with --force.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing config file without asking")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !forceInit {
		ok := ui.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Overwrite configuration",
			[]string{"A config file already exists at " + path, "All settings will be reset to their defaults"},
			"Replace it?")
		if !ok {
			return nil
		}
	}

	cfg := config.Default()
	if mappingFile != "" {
		cfg.MappingFile = mappingFile
	}
	if err := cfg.SaveTo(path); err != nil {
		return err
	}

	details := map[string]string{"Config": path}

	tablePath, err := cfg.MappingPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(tablePath); os.IsNotExist(err) {
		if err := mapping.WriteFile(tablePath, mapping.Example()); err != nil {
			return err
		}
		details["Mapping table"] = tablePath + " (example)"
	} else {
		details["Mapping table"] = tablePath + " (kept)"
	}

	ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Configuration written", details)
	return nil
}
