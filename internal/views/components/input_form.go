package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"handscribe/internal/gate"
	"handscribe/internal/generator"
)

const noStyle = "No style"

// InputForm collects the text and style and gates the Generate button.
type InputForm struct {
	container   *fyne.Container
	entry       *widget.Entry
	styleSelect *widget.Select
	submit      *widget.Button
	lengthLabel *widget.Label

	gate   gate.Range
	state  gate.State
	styles map[string]string

	submitHandler func(generator.Input)
}

// NewInputForm creates the form. styles are the selector values the script accepts.
func NewInputForm(r gate.Range, styles []string) *InputForm {
	form := &InputForm{gate: r}
	form.createComponents(styles)
	form.buildLayout()
	form.applyState(r.Evaluate(""))
	return form
}

func (f *InputForm) createComponents(styles []string) {
	f.entry = widget.NewEntry()
	f.entry.SetPlaceHolder(fmt.Sprintf("Text to write (%d to %d characters)", f.gate.Min, f.gate.Max-1))
	f.entry.OnChanged = f.onChanged
	f.entry.OnSubmitted = func(string) { f.onSubmit() }

	f.styles = make(map[string]string, len(styles))
	options := []string{noStyle}
	for _, s := range styles {
		label := "Style " + s
		f.styles[label] = s
		options = append(options, label)
	}
	f.styleSelect = widget.NewSelect(options, nil)
	f.styleSelect.SetSelected(noStyle)

	f.submit = widget.NewButton("Generate", f.onSubmit)
	f.lengthLabel = widget.NewLabel("")
}

func (f *InputForm) buildLayout() {
	controls := container.NewHBox(f.styleSelect, f.submit, f.lengthLabel)
	f.container = container.NewBorder(nil, nil, nil, controls, f.entry)
}

// onChanged runs on every keystroke.
func (f *InputForm) onChanged(text string) {
	f.applyState(f.gate.Evaluate(text))
}

func (f *InputForm) applyState(st gate.State) {
	f.state = st
	switch st.Style {
	case gate.StyleEnabled:
		f.submit.Importance = widget.HighImportance
		f.submit.Enable()
	default:
		f.submit.Importance = widget.LowImportance
		f.submit.Disable()
	}
	f.lengthLabel.SetText(fmt.Sprintf("%d/%d", st.Length, f.gate.Max-1))
	f.submit.Refresh()
}

func (f *InputForm) onSubmit() {
	if !f.state.Enabled || f.submitHandler == nil {
		return
	}
	f.submitHandler(f.Input())
}

// Input returns the current form values.
func (f *InputForm) Input() generator.Input {
	return generator.Input{
		Text:  f.entry.Text,
		Style: f.styles[f.styleSelect.Selected],
	}
}

func (f *InputForm) SetSubmitHandler(handler func(generator.Input)) {
	f.submitHandler = handler
}

func (f *InputForm) State() gate.State {
	return f.state
}

func (f *InputForm) Entry() *widget.Entry {
	return f.entry
}

func (f *InputForm) SubmitButton() *widget.Button {
	return f.submit
}

func (f *InputForm) StyleSelect() *widget.Select {
	return f.styleSelect
}

// Reset clears the text and style.
func (f *InputForm) Reset() {
	f.entry.SetText("")
	f.styleSelect.SetSelected(noStyle)
}

func (f *InputForm) GetContainer() *fyne.Container {
	return f.container
}
