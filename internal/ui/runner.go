package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/molehole/internal/discovery"
)

// ErrAborted is returned when the user stops an interactive run
var ErrAborted = errors.New("discovery stopped by user")

// DiscoveryRunnerConfig holds configuration for an interactive discovery run
type DiscoveryRunnerConfig struct {
	Title   string            // Command title (e.g., "Device Discovery")
	Command string            // Full command (e.g., "molehole devices")
	Params  map[string]string // Parameters to display in header
	Source  string            // "lan", "ap" or "all"
	Window  time.Duration     // Normalized LAN window
	Output  io.Writer         // Output writer (default: os.Stdout)
}

// DiscoveryRunner orchestrates the UI for a discovery command.
// It manages the header, live progress and result flow.
type DiscoveryRunner struct {
	config  DiscoveryRunnerConfig
	printer *Printer
}

// NewDiscoveryRunner creates a new runner for a discovery command
func NewDiscoveryRunner(config DiscoveryRunnerConfig) *DiscoveryRunner {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &DiscoveryRunner{
		config:  config,
		printer: NewPrinter(config.Output),
	}
}

// Run prints the header, shows live progress while run executes and prints
// the device table. It returns the devices produced by run.
func (r *DiscoveryRunner) Run(ctx context.Context, run func(ctx context.Context) discovery.Result) (discovery.Result, error) {
	startTime := time.Now()

	r.printer.PrintHeader(r.config.Title, r.config.Command, r.config.Params)
	r.printer.Newline()

	model := NewDiscoveryModel(ctx, r.config.Source, r.config.Window, func(ctx context.Context) any {
		return run(ctx)
	})

	p := tea.NewProgram(model, tea.WithOutput(r.config.Output), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return discovery.Result{}, fmt.Errorf("failed to run progress display: %w", err)
	}

	fm, ok := final.(DiscoveryModel)
	if !ok {
		return discovery.Result{}, fmt.Errorf("unexpected model type %T", final)
	}
	res, ok := fm.Result().(discovery.Result)
	if !ok {
		if err := ctx.Err(); err != nil {
			return discovery.Result{}, err
		}
		return discovery.Result{}, ErrAborted
	}

	r.printer.PrintSteps(fm.Steps)
	r.printer.Newline()
	r.printer.PrintDevices(r.config.Source, res.Devices)
	r.printer.Newline()
	r.printer.Println(StepPendingStyle.Render(fmt.Sprintf("  run %s finished in %s", res.RunID, time.Since(startTime).Round(100*time.Millisecond))))
	return res, nil
}
