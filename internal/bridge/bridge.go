// Package bridge is the only place the UI may start child processes from.
// A Policy limits which programs may run and where.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"handscribe/internal/logger"
)

var ErrNotPermitted = errors.New("bridge: command not permitted")

const waitDelay = 2 * time.Second

// Command is a structured invocation. Args never pass through a shell.
type Command struct {
	Program string
	Args    []string
	Dir     string
	Env     map[string]string
}

type ProcessResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Runner launches a command and waits for it.
type Runner interface {
	Run(ctx context.Context, cmd Command) (ProcessResult, error)
}

type Policy struct {
	TrustAll        bool
	AllowedPrograms []string
	// WorkDir, when set, is the only directory commands may run in.
	WorkDir string
}

func (p Policy) Check(cmd Command) error {
	if p.TrustAll {
		return nil
	}
	if strings.TrimSpace(cmd.Program) == "" {
		return fmt.Errorf("%w: empty program", ErrNotPermitted)
	}

	allowed := false
	for _, prog := range p.AllowedPrograms {
		if prog == cmd.Program {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: program %q is not on the allow list", ErrNotPermitted, cmd.Program)
	}

	if p.WorkDir != "" && !sameDir(p.WorkDir, cmd.Dir) {
		return fmt.Errorf("%w: working directory %q, want %q", ErrNotPermitted, cmd.Dir, p.WorkDir)
	}
	return nil
}

func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

type Bridge struct {
	policy Policy
	logger logger.Logger
}

func New(policy Policy, log logger.Logger) *Bridge {
	if log == nil {
		log = logger.NoOp{}
	}
	return &Bridge{policy: policy, logger: log}
}

func (b *Bridge) Policy() Policy {
	return b.policy
}

// Run executes cmd under the policy. A non-zero exit is returned as an error
// together with the captured output.
func (b *Bridge) Run(ctx context.Context, cmd Command) (ProcessResult, error) {
	if err := b.policy.Check(cmd); err != nil {
		b.logger.Warning("Bridge", "command rejected", map[string]interface{}{
			"program": cmd.Program,
			"dir":     cmd.Dir,
		})
		return ProcessResult{ExitCode: -1}, err
	}

	start := time.Now()
	c := exec.CommandContext(ctx, cmd.Program, cmd.Args...)
	c.Dir = cmd.Dir
	// Orphaned grandchildren must not keep the output pipes open forever.
	c.WaitDelay = waitDelay

	env := os.Environ()
	for k, v := range cmd.Env {
		if strings.Contains(k, "=") {
			continue
		}
		env = append(env, k+"="+v)
	}
	c.Env = env

	var stdout, stderr strings.Builder
	c.Stdout = &stdout
	c.Stderr = &stderr

	b.logger.Debug("Bridge", "spawning process", map[string]interface{}{
		"program": cmd.Program,
		"args":    len(cmd.Args),
		"dir":     cmd.Dir,
	})

	err := c.Run()
	res := ProcessResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err == nil {
		return res, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		res.ExitCode = -1
		return res, fmt.Errorf("process %s: %w", cmd.Program, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, fmt.Errorf("process %s exited with code %d: %w", cmd.Program, res.ExitCode, err)
	}

	res.ExitCode = -1
	return res, fmt.Errorf("launch %s: %w", cmd.Program, err)
}
