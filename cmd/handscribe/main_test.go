package main

import (
	"bytes"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"handscribe/internal/config"
	"handscribe/internal/presenter"
)

func TestRenderOutcome(t *testing.T) {
	out := renderOutcome(presenter.Image{
		Seq:      2,
		Path:     "results/gen_img_9.png",
		Absolute: "/srv/results/gen_img_9.png",
		Picture:  image.NewGray(image.Rect(0, 0, 30, 10)),
	}, nil)
	for _, want := range []string{"generated", "#2", "results/gen_img_9.png", "30x10"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out = renderOutcome(presenter.Image{}, errors.New("no generated image path in script output"))
	if !strings.Contains(out, "failed") || !strings.Contains(out, "no generated image path") {
		t.Errorf("failure output = %q", out)
	}
}

func TestMenuCommandPrintsTemplate(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"menu", "mac"})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("menu command failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"label: Edit", "accelerator: Command+Q", "role: selectAll"} {
		if !strings.Contains(out, want) {
			t.Errorf("template output missing %q:\n%s", want, out)
		}
	}
}

func TestMenuCommandUnknownPlatform(t *testing.T) {
	rootCmd.SetArgs([]string{"menu", "amiga"})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected error for unknown platform")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func parseGlobalFlags(t *testing.T, args ...string) (*cobra.Command, *globalFlags) {
	t.Helper()
	cmd := &cobra.Command{Use: "handscribe"}
	f := &globalFlags{}
	bindGlobalFlags(cmd, f)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return cmd, f
}

func TestLoadConfigLayering(t *testing.T) {
	path := writeConfig(t, `
gate:
  min_length: 60
generator:
  script_dir: /from/file
presenter:
  poll_interval: 250ms
`)
	t.Setenv("HANDSCRIBE_SCRIPT_DIR", "/from/env")
	t.Setenv("HANDSCRIBE_POLL_INTERVAL", "1s")

	tests := []struct {
		name      string
		args      []string
		scriptDir string
		wantErr   bool
	}{
		{"file value rejected without flag", []string{"--config", path}, "", true},
		{"flag corrects file", []string{"--config", path, "--max-len", "100"}, "/from/env", false},
		{"flag beats env", []string{"--config", path, "--max-len", "100", "--script-dir", "/from/flag"}, "/from/flag", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, f := parseGlobalFlags(t, tt.args...)
			cfg, err := loadConfig(cmd, f)
			if tt.wantErr {
				if !errors.Is(err, config.ErrInvalidConfig) {
					t.Fatalf("err = %v, want ErrInvalidConfig", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("loadConfig failed: %v", err)
			}
			if cfg.Gate.MinLength != 60 || cfg.Gate.MaxLength != 100 {
				t.Errorf("gate = %+v", cfg.Gate)
			}
			if cfg.Generator.ScriptDir != tt.scriptDir {
				t.Errorf("script_dir = %q, want %q", cfg.Generator.ScriptDir, tt.scriptDir)
			}
			if cfg.Presenter.PollInterval != time.Second {
				t.Errorf("poll_interval = %v, want env value", cfg.Presenter.PollInterval)
			}
		})
	}
}
