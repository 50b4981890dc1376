package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// StepStatus is the state of one discovery step
type StepStatus int

const (
	StepPending StepStatus = iota
	StepRunning
	StepComplete
	StepSkipped
)

// String returns the lowercase status name
func (s StepStatus) String() string {
	switch s {
	case StepRunning:
		return "running"
	case StepComplete:
		return "complete"
	case StepSkipped:
		return "skipped"
	default:
		return "pending"
	}
}

// stepNameWidth is the column the status markers line up on
const stepNameWidth = 45

// Step is one line of the discovery step list.
type Step struct {
	Name    string
	Status  StepStatus
	Message string // e.g. "7s left"
}

// StepList tracks the stages of a discovery run. Steps are numbered from 1.
type StepList struct {
	steps []Step
}

// NewStepList creates a list with every step pending.
func NewStepList(names ...string) *StepList {
	steps := make([]Step, len(names))
	for i, name := range names {
		steps[i] = Step{Name: name}
	}
	return &StepList{steps: steps}
}

// Len returns the number of steps
func (l *StepList) Len() int {
	return len(l.steps)
}

// Step returns step n, or a zero Step when n is out of range
func (l *StepList) Step(n int) Step {
	if n < 1 || n > len(l.steps) {
		return Step{}
	}
	return l.steps[n-1]
}

// Skip marks step n as not part of this run. Skipped steps never change again.
func (l *StepList) Skip(n int) {
	l.set(n, StepSkipped, "")
}

// Start marks step n as running
func (l *StepList) Start(n int, message string) {
	l.set(n, StepRunning, message)
}

// Complete marks step n as done
func (l *StepList) Complete(n int, message string) {
	l.set(n, StepComplete, message)
}

// CompleteAll finishes every step that was not skipped.
func (l *StepList) CompleteAll() {
	for i := range l.steps {
		if l.steps[i].Status != StepSkipped {
			l.steps[i].Status = StepComplete
			l.steps[i].Message = ""
		}
	}
}

func (l *StepList) set(n int, status StepStatus, message string) {
	if n < 1 || n > len(l.steps) || l.steps[n-1].Status == StepSkipped {
		return
	}
	l.steps[n-1].Status = status
	l.steps[n-1].Message = message
}

// Render returns one line per step: "[n/total] name   marker (message)".
func (l *StepList) Render() string {
	lines := make([]string, 0, len(l.steps))
	for i, step := range l.steps {
		lines = append(lines, renderStep(i+1, len(l.steps), step))
	}
	return strings.Join(lines, "\n")
}

func renderStep(n, total int, step Step) string {
	var marker string
	style := StepPendingStyle
	switch step.Status {
	case StepComplete:
		marker, style = StepMarkerComplete, StepCompleteStyle
	case StepRunning:
		marker, style = StepMarkerRunning, StepRunningStyle
	case StepSkipped:
		marker = StepMarkerSkipped
	default:
		marker = StepMarkerPending
	}

	padding := stepNameWidth - lipgloss.Width(step.Name)
	if padding < 1 {
		padding = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  [%d/%d] ", n, total)
	b.WriteString(style.Render(step.Name))
	b.WriteString(strings.Repeat(" ", padding))
	b.WriteString(style.Render(marker))
	if step.Message != "" {
		b.WriteString("  ")
		b.WriteString(StepNoteStyle.Render("(" + step.Message + ")"))
	}
	return b.String()
}
