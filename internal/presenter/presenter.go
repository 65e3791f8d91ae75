// Package presenter waits for a submission's image and prepares it for display.
package presenter

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"handscribe/internal/generator"
	"handscribe/internal/logger"
)

var ErrWaitTimeout = errors.New("timed out waiting for generated image")

type Decoder interface {
	Decode(path string) (image.Image, error)
}

// Pending is the part of a submission the presenter needs.
type Pending interface {
	Done() <-chan struct{}
	Result() (generator.Result, bool)
	Cancel()
}

type Options struct {
	// OutputDir is the script's working directory. Paths the script prints
	// are relative to it.
	OutputDir string
	// Ascent is prefixed to the script's relative output path to form the
	// display source.
	Ascent      string
	Interval    time.Duration
	MaxAttempts int
}

type Image struct {
	SubmissionID string
	Seq          uint64
	Path         string
	Source       string
	Absolute     string
	Picture      image.Image
}

type Presenter struct {
	opts    Options
	decoder Decoder
	logger  logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

func New(opts Options, decoder Decoder, log logger.Logger) *Presenter {
	if log == nil {
		log = logger.NoOp{}
	}
	if opts.Interval <= 0 {
		opts.Interval = 500 * time.Millisecond
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Presenter{opts: opts, decoder: decoder, logger: log, ctx: ctx, cancel: cancel}
}

// Reference maps the script's output path to a display source one directory
// below the script's working directory, and to the file the script wrote.
func (p *Presenter) Reference(imagePath string) (source, absolute string) {
	source = path.Join(p.opts.Ascent, imagePath)
	absolute = filepath.Join(p.opts.OutputDir, filepath.FromSlash(imagePath))
	return source, absolute
}

// budget counts ticks shared by both wait phases of one Await call.
type budget struct {
	used, max int
}

func (b *budget) spend() bool {
	b.used++
	return b.used < b.max
}

// Await blocks until the submission's image is on disk and decoded, or until
// Interval*MaxAttempts has elapsed. On timeout the submission is canceled.
func (p *Presenter) Await(ctx context.Context, sub Pending) (Image, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(p.ctx, cancel)
	defer stop()

	b := &budget{max: p.opts.MaxAttempts}
	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	res, err := p.awaitResult(ctx, sub, ticker, b)
	if err != nil {
		return Image{}, err
	}

	img := Image{SubmissionID: res.SubmissionID, Seq: res.Seq, Path: res.Path}
	if !res.OK() {
		return img, fmt.Errorf("generation %s: %w", res.Outcome, res.Err)
	}

	img.Source, img.Absolute = p.Reference(res.Path)
	if err := p.awaitFile(ctx, img.Absolute, ticker, b); err != nil {
		return img, err
	}

	pic, err := p.decoder.Decode(img.Absolute)
	if err != nil {
		return img, fmt.Errorf("decode %s: %w", img.Source, err)
	}
	img.Picture = pic

	p.logger.Info("Presenter", "image ready", map[string]interface{}{
		"submission": img.SubmissionID,
		"seq":        img.Seq,
		"source":     img.Source,
		"ticks":      b.used,
	})
	return img, nil
}

func (p *Presenter) awaitResult(ctx context.Context, sub Pending, ticker *time.Ticker, b *budget) (generator.Result, error) {
	for {
		if res, ok := sub.Result(); ok {
			return res, nil
		}
		select {
		case <-sub.Done():
		case <-ticker.C:
			if !b.spend() {
				sub.Cancel()
				return generator.Result{}, fmt.Errorf("%w after %d checks", ErrWaitTimeout, b.used)
			}
		case <-ctx.Done():
			sub.Cancel()
			return generator.Result{}, ctx.Err()
		}
	}
}

func ready(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && info.Size() > 0
}

// awaitFile covers the gap between the script printing the path and the file
// being fully written. fsnotify wakes us early; the ticker bounds the wait.
func (p *Presenter) awaitFile(ctx context.Context, path string, ticker *time.Ticker, b *budget) error {
	if ready(path) {
		return nil
	}

	var events <-chan fsnotify.Event
	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		defer watcher.Close()
		if addErr := watcher.Add(filepath.Dir(path)); addErr == nil {
			events = watcher.Events
		} else {
			p.logger.Debug("Presenter", "results directory not watchable, polling", map[string]interface{}{
				"dir":   filepath.Dir(path),
				"error": addErr.Error(),
			})
		}
	}

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Clean(ev.Name) == filepath.Clean(path) && ev.Has(fsnotify.Create|fsnotify.Write) && ready(path) {
				return nil
			}
		case <-ticker.C:
			if ready(path) {
				return nil
			}
			if !b.spend() {
				return fmt.Errorf("%w: %s never appeared", ErrWaitTimeout, path)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Shutdown aborts every Await in progress.
func (p *Presenter) Shutdown() {
	p.cancel()
}

// Display remembers the newest submission shown so an older result that
// finishes late does not replace it.
type Display struct {
	mu    sync.Mutex
	shown uint64
}

// Accept reports whether seq is newer than what is on screen and, if so,
// records it as shown.
func (d *Display) Accept(seq uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if seq <= d.shown {
		return false
	}
	d.shown = seq
	return true
}

func (d *Display) Shown() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shown
}
