package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel(source string) DiscoveryModel {
	return NewDiscoveryModel(context.Background(), source, 10*time.Second, func(context.Context) any {
		return "done"
	})
}

func TestNewDiscoveryModelSkipsSteps(t *testing.T) {
	tests := []struct {
		source string
		want   [3]StepStatus
	}{
		{"all", [3]StepStatus{StepPending, StepPending, StepPending}},
		{"lan", [3]StepStatus{StepPending, StepSkipped, StepPending}},
		{"ap", [3]StepStatus{StepSkipped, StepPending, StepPending}},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			m := newTestModel(tt.source)
			for i, want := range tt.want {
				if got := m.Steps.Step(i+1).Status; got != want {
					t.Errorf("step %d status = %v, want %v", i+1, got, want)
				}
			}
		})
	}
}

func TestDiscoveryModelAdvance(t *testing.T) {
	m := newTestModel("all")

	updated, cmd := m.Update(tickMsg(m.start.Add(3 * time.Second)))
	m = updated.(DiscoveryModel)
	if cmd == nil {
		t.Fatal("tick should schedule another tick")
	}
	if got := m.Steps.Step(1).Status; got != StepRunning {
		t.Errorf("listen step = %v, want running", got)
	}
	if got := m.Steps.Step(1).Message; got != "7s left" {
		t.Errorf("listen message = %q, want %q", got, "7s left")
	}
	if f := m.windowFraction(); f < 0.29 || f > 0.31 {
		t.Errorf("windowFraction() = %v, want 0.3", f)
	}

	updated, _ = m.Update(tickMsg(m.start.Add(11 * time.Second)))
	m = updated.(DiscoveryModel)
	if got := m.Steps.Step(1).Status; got != StepComplete {
		t.Errorf("listen step = %v, want complete", got)
	}
	if got := m.Steps.Step(2).Status; got != StepRunning {
		t.Errorf("scan step = %v, want running", got)
	}
	if f := m.windowFraction(); f != 1 {
		t.Errorf("windowFraction() = %v, want 1", f)
	}
}

func TestDiscoveryModelDone(t *testing.T) {
	m := newTestModel("lan")

	updated, cmd := m.Update(discoveryDoneMsg{result: "devices"})
	m = updated.(DiscoveryModel)

	if cmd == nil {
		t.Fatal("done should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("done should quit the program")
	}
	if m.Result() != "devices" {
		t.Errorf("Result() = %v, want devices", m.Result())
	}
	if got := m.Steps.Step(2).Status; got != StepSkipped {
		t.Errorf("skipped step changed to %v", got)
	}
	for _, i := range []int{0, 2} {
		if got := m.Steps.Step(i+1).Status; got != StepComplete {
			t.Errorf("step %d = %v, want complete", i+1, got)
		}
	}
	if m.View() != "" {
		t.Error("View() should be empty once done")
	}

	// late ticks stop the ticker
	if _, cmd := m.Update(tickMsg(time.Now())); cmd != nil {
		t.Error("tick after done should not reschedule")
	}
}

func TestDiscoveryModelAbort(t *testing.T) {
	m := newTestModel("all")
	ctx := m.ctx

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = updated.(DiscoveryModel)

	if !m.Aborted() {
		t.Error("Aborted() = false after q")
	}
	select {
	case <-ctx.Done():
	default:
		t.Error("abort should cancel the run context")
	}
}

func TestDiscoveryModelView(t *testing.T) {
	m := newTestModel("all")
	view := m.View()
	for _, want := range []string{"DISCOVERING DEVICES", "Listening for service advertisements", "press q to stop"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
