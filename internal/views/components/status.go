package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// StatusBar displays what the app is doing and how the last run ended.
type StatusBar struct {
	container    *fyne.Container
	statusLabel  *widget.Label
	outcomeLabel *widget.Label
	runningLabel *widget.Label
	activity     *widget.ProgressBarInfinite
}

func NewStatusBar() *StatusBar {
	sb := &StatusBar{}
	sb.createComponents()
	sb.buildLayout()
	return sb
}

func (sb *StatusBar) createComponents() {
	sb.statusLabel = widget.NewLabel("Ready")
	sb.outcomeLabel = widget.NewLabel("")
	sb.runningLabel = widget.NewLabel("")
	sb.activity = widget.NewProgressBarInfinite()
	sb.activity.Stop()
	sb.activity.Hide()
}

func (sb *StatusBar) buildLayout() {
	sb.container = container.NewBorder(nil, nil,
		container.NewHBox(sb.statusLabel, widget.NewSeparator(), sb.outcomeLabel),
		container.NewHBox(sb.runningLabel, sb.activity),
	)
}

func (sb *StatusBar) SetStatus(status string) {
	sb.statusLabel.SetText(status)
}

func (sb *StatusBar) GetStatus() string {
	return sb.statusLabel.Text
}

// SetOutcome records how the last submission ended.
func (sb *StatusBar) SetOutcome(outcome string) {
	sb.outcomeLabel.SetText(outcome)
}

func (sb *StatusBar) GetOutcome() string {
	return sb.outcomeLabel.Text
}

// SetRunning shows an activity indicator while n > 0 generations are running.
func (sb *StatusBar) SetRunning(n int) {
	if n <= 0 {
		sb.runningLabel.SetText("")
		sb.activity.Stop()
		sb.activity.Hide()
		return
	}
	sb.runningLabel.SetText(fmt.Sprintf("%d running", n))
	sb.activity.Show()
	sb.activity.Start()
}

func (sb *StatusBar) Reset() {
	sb.SetStatus("Ready")
	sb.SetOutcome("")
	sb.SetRunning(0)
}

func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}
