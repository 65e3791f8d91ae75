package components

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"handscribe/internal/presenter"
)

const (
	ImageAreaWidth  = 960
	ImageAreaHeight = 320
)

// ImageDisplay shows the most recent generated image.
type ImageDisplay struct {
	container   *fyne.Container
	content     *fyne.Container
	caption     *widget.Label
	placeholder fyne.CanvasObject
	image       *canvas.Image

	source string
}

func NewImageDisplay() *ImageDisplay {
	display := &ImageDisplay{}
	display.createComponents()
	display.setupLayout()
	return display
}

func (d *ImageDisplay) createComponents() {
	d.placeholder = widget.NewLabelWithStyle(
		"Generated handwriting will appear here",
		fyne.TextAlignCenter,
		fyne.TextStyle{Italic: true},
	)
	d.caption = widget.NewLabel("")
	d.caption.Alignment = fyne.TextAlignCenter
}

func (d *ImageDisplay) setupLayout() {
	bg := canvas.NewRectangle(color.RGBA{R: 252, G: 252, B: 252, A: 255})
	d.content = container.NewStack(d.placeholder)
	d.container = container.NewBorder(
		nil, d.caption, nil, nil,
		container.NewStack(bg, d.content),
	)
}

// Show clears the display and inserts img, scaled to fit and centered.
func (d *ImageDisplay) Show(img presenter.Image) {
	d.image = canvas.NewImageFromImage(img.Picture)
	d.image.FillMode = canvas.ImageFillContain
	d.image.ScaleMode = canvas.ImageScaleSmooth
	d.image.SetMinSize(fyne.NewSize(ImageAreaWidth/2, ImageAreaHeight/2))

	d.content.Objects = []fyne.CanvasObject{container.NewPadded(d.image)}
	d.content.Refresh()

	d.source = img.Source
	d.caption.SetText(img.Source)
}

// Clear restores the placeholder.
func (d *ImageDisplay) Clear() {
	d.image = nil
	d.source = ""
	d.content.Objects = []fyne.CanvasObject{d.placeholder}
	d.content.Refresh()
	d.caption.SetText("")
}

// Source is the relative source of the image on screen, empty if none.
func (d *ImageDisplay) Source() string {
	return d.source
}

func (d *ImageDisplay) HasImage() bool {
	return d.image != nil
}

func (d *ImageDisplay) GetContainer() *fyne.Container {
	return d.container
}
