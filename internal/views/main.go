package views

import (
	"fmt"

	"handscribe/internal/gate"
	"handscribe/internal/generator"
	"handscribe/internal/presenter"
	"handscribe/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// MainView is the single window's content: form on top, image in the
// middle, status at the bottom.
type MainView struct {
	window        fyne.Window
	mainContainer *fyne.Container
	form          *components.InputForm
	imageDisplay  *components.ImageDisplay
	statusBar     *components.StatusBar

	submitHandler func(generator.Input)
}

func NewMainView(window fyne.Window, r gate.Range, styles []string) *MainView {
	view := &MainView{window: window}

	view.initializeComponents(r, styles)
	view.buildLayout()
	view.setupEventHandlers()

	return view
}

func (mv *MainView) initializeComponents(r gate.Range, styles []string) {
	mv.form = components.NewInputForm(r, styles)
	mv.imageDisplay = components.NewImageDisplay()
	mv.statusBar = components.NewStatusBar()
}

func (mv *MainView) buildLayout() {
	top := container.NewVBox(mv.form.GetContainer(), widget.NewSeparator())
	bottom := container.NewVBox(widget.NewSeparator(), mv.statusBar.GetContainer())

	mv.mainContainer = container.NewBorder(top, bottom, nil, nil, mv.imageDisplay.GetContainer())
	mv.window.SetContent(mv.mainContainer)
}

func (mv *MainView) setupEventHandlers() {
	mv.form.SetSubmitHandler(func(in generator.Input) {
		if mv.submitHandler != nil {
			mv.submitHandler(in)
		}
	})
}

func (mv *MainView) SetSubmitHandler(handler func(generator.Input)) {
	mv.submitHandler = handler
}

// The methods below must run on the UI goroutine.

func (mv *MainView) ShowImage(img presenter.Image) {
	mv.imageDisplay.Show(img)
	mv.statusBar.SetOutcome(fmt.Sprintf("#%d ready", img.Seq))
}

func (mv *MainView) SetStatus(status string) {
	mv.statusBar.SetStatus(status)
}

func (mv *MainView) SetOutcome(outcome string) {
	mv.statusBar.SetOutcome(outcome)
}

func (mv *MainView) SetRunning(n int) {
	mv.statusBar.SetRunning(n)
}

func (mv *MainView) ShowError(title string, err error) {
	mv.statusBar.SetOutcome(title)
	dialog.ShowError(err, mv.window)
}

// Reset returns the view to its initial state.
func (mv *MainView) Reset() {
	mv.form.Reset()
	mv.imageDisplay.Clear()
	mv.statusBar.Reset()
}

func (mv *MainView) Form() *components.InputForm {
	return mv.form
}

func (mv *MainView) ImageDisplay() *components.ImageDisplay {
	return mv.imageDisplay
}

func (mv *MainView) StatusBar() *components.StatusBar {
	return mv.statusBar
}

func (mv *MainView) GetMainContainer() *fyne.Container {
	return mv.mainContainer
}
