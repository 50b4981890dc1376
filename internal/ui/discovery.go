package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Messages for the discovery run
type (
	tickMsg          time.Time
	discoveryDoneMsg struct{ result any }
)

const tickInterval = 100 * time.Millisecond

// Discovery step numbers within the progress list
const (
	stepListen = iota + 1
	stepScan
	stepMerge
)

// DiscoveryModel shows a spinner, a countdown of the LAN window and the
// step list while a discovery function runs in the background.
type DiscoveryModel struct {
	Spinner     spinner.Model
	ProgressBar progress.Model
	Steps       *StepList

	window  time.Duration
	withLAN bool
	withAP  bool

	run    func(ctx context.Context) any
	ctx    context.Context
	cancel context.CancelFunc

	start   time.Time
	now     time.Time
	result  any
	done    bool
	aborted bool
}

// NewDiscoveryModel creates a model for a run over source ("lan", "ap" or
// "all") with the given LAN window. run is executed once from Init.
func NewDiscoveryModel(ctx context.Context, source string, window time.Duration, run func(ctx context.Context) any) DiscoveryModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	withLAN := source != "ap"
	withAP := source != "lan"

	steps := NewStepList(
		"Listening for service advertisements",
		"Scanning wireless networks",
		"Merging results",
	)
	if !withLAN {
		steps.Skip(stepListen)
	}
	if !withAP {
		steps.Skip(stepScan)
	}

	ctx, cancel := context.WithCancel(ctx)
	now := time.Now()
	return DiscoveryModel{
		Spinner:     s,
		ProgressBar: bar,
		Steps:       steps,
		window:      window,
		withLAN:     withLAN,
		withAP:      withAP,
		run:         run,
		ctx:         ctx,
		cancel:      cancel,
		start:       now,
		now:         now,
	}
}

// Init starts the spinner, the ticker and the discovery run
func (m DiscoveryModel) Init() tea.Cmd {
	m.advance()
	run, ctx := m.run, m.ctx
	return tea.Batch(
		m.Spinner.Tick,
		tick(),
		func() tea.Msg { return discoveryDoneMsg{result: run(ctx)} },
	)
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update handles messages and updates the model
func (m DiscoveryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			m.aborted = true
			m.cancel()
			return m, nil
		}

	case tea.WindowSizeMsg:
		w := msg.Width - 30
		if w < 20 {
			w = 20
		}
		if w > 50 {
			w = 50
		}
		m.ProgressBar.Width = w

	case tickMsg:
		m.now = time.Time(msg)
		if m.done {
			return m, nil
		}
		m.advance()
		return m, tick()

	case discoveryDoneMsg:
		m.done = true
		m.result = msg.result
		m.cancel()
		m.Steps.CompleteAll()
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// advance moves the step list along with the elapsed time. The LAN window
// always completes before the wireless scan starts.
func (m *DiscoveryModel) advance() {
	elapsed := m.now.Sub(m.start)
	switch {
	case m.withLAN && elapsed < m.window:
		remaining := (m.window - elapsed).Round(time.Second)
		m.Steps.Start(stepListen, fmt.Sprintf("%s left", remaining))
	case m.withAP:
		if m.withLAN {
			m.Steps.Complete(stepListen, m.window.String())
		}
		m.Steps.Start(stepScan, "")
	default:
		if m.withLAN {
			m.Steps.Complete(stepListen, m.window.String())
		}
		m.Steps.Start(stepMerge, "")
	}
}

// windowFraction is the share of the LAN window that has elapsed
func (m DiscoveryModel) windowFraction() float64 {
	if !m.withLAN || m.window <= 0 {
		return 1
	}
	f := float64(m.now.Sub(m.start)) / float64(m.window)
	if f > 1 {
		return 1
	}
	if f < 0 {
		return 0
	}
	return f
}

// View implements tea.Model
func (m DiscoveryModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(ProgressLabelStyle.Render(m.Spinner.View() + " DISCOVERING DEVICES"))
	b.WriteString("\n\n")
	if m.withLAN {
		b.WriteString(ProgressBarStyle().Render(m.ProgressBar.ViewAs(m.windowFraction())))
		b.WriteString("\n\n")
	}
	b.WriteString(m.Steps.Render())
	b.WriteString("\n\n")
	b.WriteString(StepPendingStyle.Render("  press q to stop"))
	b.WriteString("\n")
	return b.String()
}

// Result returns the value produced by the discovery function
func (m DiscoveryModel) Result() any {
	return m.result
}

// Aborted reports whether the user stopped the run
func (m DiscoveryModel) Aborted() bool {
	return m.aborted
}
