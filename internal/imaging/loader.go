// Package imaging reads generated handwriting images for display.
package imaging

import (
	"fmt"
	"image"
	_ "image/gif"
	"os"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"

	"handscribe/internal/logger"
)

// inkThreshold separates pen strokes from the white canvas in grayscale.
const inkThreshold = 250

type Options struct {
	TrimMargins bool
	Padding     int
}

type Loader struct {
	opts   Options
	logger logger.Logger
}

func NewLoader(opts Options, log logger.Logger) *Loader {
	if log == nil {
		log = logger.NoOp{}
	}
	return &Loader{opts: opts, logger: log}
}

// Decode reads the file at path. PNGs go through OpenCV so the margins can be
// trimmed; GIFs are decoded as their first frame.
func (l *Loader) Decode(path string) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(path), ".gif") {
		return decodeStd(path)
	}

	mat := gocv.IMRead(path, gocv.IMReadColor)
	defer mat.Close()
	if mat.Empty() {
		return nil, fmt.Errorf("failed to read image %s", path)
	}

	src := mat
	if l.opts.TrimMargins {
		if rect, ok := inkBounds(mat); ok {
			rect = padRect(rect, l.opts.Padding, image.Rect(0, 0, mat.Cols(), mat.Rows()))
			region := mat.Region(rect)
			cropped := region.Clone()
			region.Close()
			defer cropped.Close()
			src = cropped

			l.logger.Debug("ImageLoader", "trimmed margins", map[string]interface{}{
				"path":   path,
				"width":  rect.Dx(),
				"height": rect.Dy(),
			})
		}
	}

	img, err := src.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert Mat to image: %w", err)
	}

	bounds := img.Bounds()
	l.logger.Info("ImageLoader", "image loaded", map[string]interface{}{
		"path":   path,
		"width":  bounds.Dx(),
		"height": bounds.Dy(),
	})
	return img, nil
}

func decodeStd(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return img, nil
}

// inkBounds returns the bounding box of everything darker than the canvas.
func inkBounds(mat gocv.Mat) (image.Rectangle, bool) {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(gray, &binary, inkThreshold, 255, gocv.ThresholdBinaryInv)

	if gocv.CountNonZero(binary) == 0 {
		return image.Rectangle{}, false
	}

	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var bounds image.Rectangle
	for i := 0; i < contours.Size(); i++ {
		bounds = bounds.Union(gocv.BoundingRect(contours.At(i)))
	}
	return bounds, !bounds.Empty()
}

func padRect(r image.Rectangle, pad int, limit image.Rectangle) image.Rectangle {
	if pad < 0 {
		pad = 0
	}
	return r.Inset(-pad).Intersect(limit)
}
