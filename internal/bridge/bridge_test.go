package bridge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func writeScript(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "gen.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func skipOnWindows(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
}

func TestPolicyCheck(t *testing.T) {
	p := Policy{AllowedPrograms: []string{"python3", "/usr/bin/env"}, WorkDir: "/srv/gen"}

	tests := []struct {
		name    string
		cmd     Command
		allowed bool
	}{
		{"allowed program", Command{Program: "python3", Dir: "/srv/gen"}, true},
		{"allowed absolute", Command{Program: "/usr/bin/env", Dir: "/srv/gen"}, true},
		{"not listed", Command{Program: "rm", Dir: "/srv/gen"}, false},
		{"path disguised as listed name", Command{Program: "/tmp/evil/python3", Dir: "/srv/gen"}, false},
		{"wrong dir", Command{Program: "python3", Dir: "/tmp"}, false},
		{"empty", Command{Dir: "/srv/gen"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Check(tt.cmd)
			if tt.allowed && err != nil {
				t.Errorf("expected allowed, got %v", err)
			}
			if !tt.allowed && !errors.Is(err, ErrNotPermitted) {
				t.Errorf("expected ErrNotPermitted, got %v", err)
			}
		})
	}
}

func TestTrustAllSkipsChecks(t *testing.T) {
	p := Policy{TrustAll: true}
	if err := p.Check(Command{Program: "anything", Dir: "/"}); err != nil {
		t.Fatalf("TrustAll rejected command: %v", err)
	}
}

func TestRunCapturesOutput(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	script := writeScript(t, dir, `echo "saved results/gen_img_1.png"; echo "warn" 1>&2`)

	b := New(Policy{AllowedPrograms: []string{"/bin/sh"}, WorkDir: dir}, nil)
	res, err := b.Run(context.Background(), Command{Program: "/bin/sh", Args: []string{script}, Dir: dir})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(res.Stdout, "results/gen_img_1.png") {
		t.Errorf("stdout = %q", res.Stdout)
	}
	if strings.TrimSpace(res.Stderr) != "warn" {
		t.Errorf("stderr = %q", res.Stderr)
	}
	if res.ExitCode != 0 {
		t.Errorf("exit code = %d", res.ExitCode)
	}
}

func TestRunPassesEnv(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	script := writeScript(t, dir, `printf '%s' "$GEN_DEVICE"`)

	b := New(Policy{AllowedPrograms: []string{"/bin/sh"}, WorkDir: dir}, nil)
	res, err := b.Run(context.Background(), Command{
		Program: "/bin/sh",
		Args:    []string{script},
		Dir:     dir,
		Env:     map[string]string{"GEN_DEVICE": "cuda:1"},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Stdout != "cuda:1" {
		t.Errorf("stdout = %q, want env value", res.Stdout)
	}
}

func TestRunArgumentsAreNotShellInterpreted(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	script := writeScript(t, dir, `printf '%s' "$1"`)

	b := New(Policy{AllowedPrograms: []string{"/bin/sh"}}, nil)
	payload := "hi'; touch pwned; echo '"
	res, err := b.Run(context.Background(), Command{Program: "/bin/sh", Args: []string{script, payload}, Dir: dir})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Stdout != payload {
		t.Errorf("stdout = %q, want payload verbatim", res.Stdout)
	}
	if _, err := os.Stat(filepath.Join(dir, "pwned")); err == nil {
		t.Fatal("payload was executed by a shell")
	}
}

func TestRunNonZeroExit(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	script := writeScript(t, dir, `echo boom 1>&2; exit 3`)

	b := New(Policy{TrustAll: true}, nil)
	res, err := b.Run(context.Background(), Command{Program: "/bin/sh", Args: []string{script}, Dir: dir})
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if res.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", res.ExitCode)
	}
	if !strings.Contains(res.Stderr, "boom") {
		t.Errorf("stderr = %q", res.Stderr)
	}
}

func TestRunCanceled(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	script := writeScript(t, dir, `exec sleep 5`)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	b := New(Policy{TrustAll: true}, nil)
	_, err := b.Run(ctx, Command{Program: "/bin/sh", Args: []string{script}, Dir: dir})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestRunRejectedByPolicy(t *testing.T) {
	b := New(Policy{AllowedPrograms: []string{"python3"}}, nil)
	_, err := b.Run(context.Background(), Command{Program: "bash", Args: []string{"-c", "id"}})
	if !errors.Is(err, ErrNotPermitted) {
		t.Fatalf("expected ErrNotPermitted, got %v", err)
	}
}

func TestRunMissingProgram(t *testing.T) {
	b := New(Policy{TrustAll: true}, nil)
	_, err := b.Run(context.Background(), Command{Program: "handscribe-definitely-missing"})
	if err == nil || !strings.Contains(err.Error(), "launch") {
		t.Fatalf("expected launch error, got %v", err)
	}
}
