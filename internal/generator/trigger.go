package generator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"handscribe/internal/bridge"
	"handscribe/internal/config"
	"handscribe/internal/gate"
	"handscribe/internal/logger"
)

var ErrClosed = errors.New("generator: trigger is shut down")

// Submission is one click of the Generate button. It owns its command,
// its process and its result; nothing is shared with other submissions.
type Submission struct {
	ID        string
	Seq       uint64
	Input     Input
	Command   Command
	StartedAt time.Time

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
	result Result
}

func (s *Submission) Done() <-chan struct{} {
	return s.done
}

// Result reports the outcome once the process has finished.
func (s *Submission) Result() (Result, bool) {
	select {
	case <-s.done:
		return s.result, true
	default:
		return Result{SubmissionID: s.ID, Seq: s.Seq, Outcome: OutcomePending}, false
	}
}

// Cancel kills the process if it is still running.
func (s *Submission) Cancel() {
	s.cancel()
}

func (s *Submission) finish(r Result) {
	s.once.Do(func() {
		s.result = r
		close(s.done)
	})
}

type Trigger struct {
	cfg    config.GeneratorConfig
	gate   gate.Range
	runner bridge.Runner
	logger logger.Logger

	seq      atomic.Uint64
	mu       sync.Mutex
	inflight map[string]*Submission
	closed   bool
	wg       sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

func NewTrigger(cfg config.GeneratorConfig, r gate.Range, runner bridge.Runner, log logger.Logger) *Trigger {
	if log == nil {
		log = logger.NoOp{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Trigger{
		cfg:      cfg,
		gate:     r,
		runner:   runner,
		logger:   log,
		inflight: make(map[string]*Submission),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Submit validates the input and starts the generator in the background.
// It returns as soon as the process has been scheduled.
func (t *Trigger) Submit(ctx context.Context, in Input) (*Submission, error) {
	if err := Validate(t.cfg, t.gate, in); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, ErrClosed
	}

	runCtx, cancel := context.WithCancel(t.ctx)
	if t.cfg.Timeout > 0 {
		var timeoutCancel context.CancelFunc
		runCtx, timeoutCancel = context.WithTimeout(runCtx, t.cfg.Timeout)
		parent := cancel
		cancel = func() {
			timeoutCancel()
			parent()
		}
	}
	stop := context.AfterFunc(ctx, cancel)

	sub := &Submission{
		ID:        uuid.NewString(),
		Seq:       t.seq.Add(1),
		Input:     in,
		Command:   BuildCommand(t.cfg, in),
		StartedAt: time.Now(),
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	t.inflight[sub.ID] = sub

	t.logger.Info("Trigger", "submission started", map[string]interface{}{
		"submission": sub.ID,
		"seq":        sub.Seq,
		"command":    sub.Command.String(),
	})

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer stop()
		defer cancel()
		t.run(runCtx, sub)
	}()

	return sub, nil
}

func (t *Trigger) run(ctx context.Context, sub *Submission) {
	proc, err := t.runner.Run(ctx, sub.Command.Command)

	res := Result{
		SubmissionID: sub.ID,
		Seq:          sub.Seq,
		Stdout:       proc.Stdout,
		Stderr:       proc.Stderr,
		ExitCode:     proc.ExitCode,
		Duration:     proc.Duration,
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		res.Outcome, res.Err = OutcomeTimeout, err
	case errors.Is(err, context.Canceled):
		res.Outcome, res.Err = OutcomeCanceled, err
	case err != nil:
		res.Outcome, res.Err = OutcomeFailure, err
	default:
		path, extractErr := extract(proc.Stdout, sub.Command.Extension)
		if extractErr != nil {
			res.Outcome, res.Err = OutcomeNotFound, extractErr
		} else {
			res.Outcome, res.Path = OutcomeSuccess, path
		}
	}

	fields := map[string]interface{}{
		"submission":  sub.ID,
		"seq":         sub.Seq,
		"outcome":     res.Outcome.String(),
		"duration_ms": res.Duration.Milliseconds(),
	}
	if res.OK() {
		fields["path"] = res.Path
		t.logger.Info("Trigger", "submission finished", fields)
	} else {
		if res.Stderr != "" {
			fields["stderr"] = res.Stderr
		}
		t.logger.Error("Trigger", res.Err, fields)
	}

	t.mu.Lock()
	delete(t.inflight, sub.ID)
	t.mu.Unlock()

	sub.finish(res)
}

func (t *Trigger) InFlight() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.inflight)
}

// Shutdown cancels every running process and waits for them to exit.
func (t *Trigger) Shutdown() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	pending := len(t.inflight)
	t.mu.Unlock()

	t.logger.Info("Trigger", "shutting down", map[string]interface{}{
		"in_flight": pending,
	})
	t.cancel()
	t.wg.Wait()
}
