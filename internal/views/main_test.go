package views

import (
	"errors"
	"image"
	"testing"

	"fyne.io/fyne/v2/test"

	"handscribe/internal/gate"
	"handscribe/internal/generator"
	"handscribe/internal/presenter"
)

func TestMainViewWiresSubmit(t *testing.T) {
	a := test.NewApp()
	w := a.NewWindow("test")
	defer w.Close()

	view := NewMainView(w, gate.Range{Min: 5, Max: 50}, []string{"0"})
	var submitted []generator.Input
	view.SetSubmitHandler(func(in generator.Input) { submitted = append(submitted, in) })

	view.Form().Entry().SetText("hello")
	test.Tap(view.Form().SubmitButton())

	if len(submitted) != 1 || submitted[0].Text != "hello" {
		t.Fatalf("submitted = %+v", submitted)
	}
	if w.Content() != view.GetMainContainer() {
		t.Error("view did not install its content")
	}
}

func TestMainViewShowAndReset(t *testing.T) {
	a := test.NewApp()
	w := a.NewWindow("test")
	defer w.Close()

	view := NewMainView(w, gate.Range{Min: 4, Max: 50}, nil)
	view.ShowImage(presenter.Image{Seq: 3, Source: "../results/gen_img_9.png", Picture: image.NewGray(image.Rect(0, 0, 2, 2))})

	if view.ImageDisplay().Source() != "../results/gen_img_9.png" {
		t.Errorf("source = %q", view.ImageDisplay().Source())
	}
	if view.StatusBar().GetOutcome() != "#3 ready" {
		t.Errorf("outcome = %q", view.StatusBar().GetOutcome())
	}

	view.ShowError("not found", errors.New("no generated image path in script output"))
	if view.StatusBar().GetOutcome() != "not found" {
		t.Errorf("outcome = %q", view.StatusBar().GetOutcome())
	}

	view.Reset()
	if view.ImageDisplay().HasImage() || view.StatusBar().GetStatus() != "Ready" {
		t.Error("Reset left state behind")
	}
}
