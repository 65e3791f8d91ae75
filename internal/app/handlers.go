package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"fyne.io/fyne/v2"

	"handscribe/internal/bridge"
	"handscribe/internal/generator"
	"handscribe/internal/logger"
	"handscribe/internal/presenter"
)

// View is what the handlers drive. All calls happen on the UI goroutine.
type View interface {
	ShowImage(img presenter.Image)
	SetStatus(status string)
	SetOutcome(outcome string)
	SetRunning(n int)
	ShowError(title string, err error)
}

type Submitter interface {
	Submit(ctx context.Context, in generator.Input) (*generator.Submission, error)
}

type Awaiter interface {
	Await(ctx context.Context, sub presenter.Pending) (presenter.Image, error)
}

type Handlers struct {
	ctx       context.Context
	trigger   Submitter
	presenter Awaiter
	view      View
	logger    logger.Logger
	display   presenter.Display

	// do hands work back to the UI goroutine.
	do func(func())

	mu      sync.Mutex
	running int
}

func NewHandlers(ctx context.Context, trigger Submitter, pres Awaiter, view View, log logger.Logger) *Handlers {
	if log == nil {
		log = logger.NoOp{}
	}
	return &Handlers{
		ctx:       ctx,
		trigger:   trigger,
		presenter: pres,
		view:      view,
		logger:    log,
		do:        fyne.Do,
	}
}

// HandleSubmit starts a generation for in. Each call is independent; a
// second click while the first is running starts a second process.
func (h *Handlers) HandleSubmit(in generator.Input) {
	sub, err := h.trigger.Submit(h.ctx, in)
	if err != nil {
		h.logger.Warning("Handlers", "submission refused", map[string]interface{}{
			"error": err.Error(),
		})
		h.view.ShowError(errorTitle(err), err)
		return
	}

	h.view.SetRunning(h.adjustRunning(1))
	h.view.SetStatus(fmt.Sprintf("Generating #%d: %q", sub.Seq, in.Text))

	go func() {
		img, err := h.presenter.Await(h.ctx, sub)
		h.do(func() {
			h.finish(sub, img, err)
		})
	}()
}

func (h *Handlers) finish(sub *generator.Submission, img presenter.Image, err error) {
	h.view.SetRunning(h.adjustRunning(-1))

	if err != nil {
		if h.ctx.Err() != nil {
			return
		}
		h.logger.Error("Handlers", err, map[string]interface{}{
			"submission": sub.ID,
			"seq":        sub.Seq,
		})
		h.view.SetStatus(fmt.Sprintf("#%d failed", sub.Seq))
		h.view.ShowError(errorTitle(err), err)
		return
	}

	if !h.display.Accept(img.Seq) {
		h.logger.Info("Handlers", "stale result kept off screen", map[string]interface{}{
			"seq":   img.Seq,
			"shown": h.display.Shown(),
		})
		h.view.SetStatus(fmt.Sprintf("#%d finished after #%d; saved at %s", img.Seq, h.display.Shown(), img.Source))
		return
	}

	h.view.ShowImage(img)
	h.view.SetStatus("Ready")
}

func (h *Handlers) adjustRunning(delta int) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.running += delta
	return h.running
}

func errorTitle(err error) string {
	switch {
	case errors.Is(err, generator.ErrInputRejected):
		return "Input rejected"
	case errors.Is(err, generator.ErrNoImagePath):
		return "No image found"
	case errors.Is(err, presenter.ErrWaitTimeout), errors.Is(err, context.DeadlineExceeded):
		return "Timed out"
	case errors.Is(err, bridge.ErrNotPermitted):
		return "Not permitted"
	case errors.Is(err, context.Canceled):
		return "Canceled"
	default:
		return "Generation failed"
	}
}
