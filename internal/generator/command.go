package generator

import (
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"al.essio.dev/pkg/shellescape"

	"handscribe/internal/bridge"
	"handscribe/internal/config"
	"handscribe/internal/gate"
)

var ErrInputRejected = errors.New("input rejected")

// Input is what the form captured for one submission.
type Input struct {
	Text  string
	Style string
}

// Command is the invocation of the external generator script.
type Command struct {
	bridge.Command
	Extension string
}

// String renders the equivalent shell line for logs. It is never executed.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, shellescape.Quote(c.Program))
	for i, arg := range c.Args {
		if i > 0 && c.Args[i-1] == "--char_seq" {
			parts = append(parts, singleQuote(arg))
			continue
		}
		parts = append(parts, shellescape.Quote(arg))
	}
	line := strings.Join(parts, " ")
	if c.Dir == "" {
		return line
	}
	return "cd " + shellescape.Quote(c.Dir) + " && " + line
}

func singleQuote(s string) string {
	q := shellescape.Quote(s)
	if strings.HasPrefix(q, "'") {
		return q
	}
	return "'" + q + "'"
}

// Validate checks the input against the gate and the configured styles.
func Validate(cfg config.GeneratorConfig, r gate.Range, in Input) error {
	if st := r.Evaluate(in.Text); !st.Enabled {
		return fmt.Errorf("%w: text length %d outside %s", ErrInputRejected, st.Length, r)
	}
	if in.Style != "" && !slices.Contains(cfg.Styles, in.Style) {
		return fmt.Errorf("%w: unknown style %q", ErrInputRejected, in.Style)
	}
	return nil
}

// BuildCommand produces
//
//	<interpreter> <script> --char_seq <text> [--style <s>] [--bias b] [--seed n] --save_img
//
// run inside the script directory.
func BuildCommand(cfg config.GeneratorConfig, in Input) Command {
	args := []string{cfg.Script, "--char_seq", in.Text}
	if in.Style != "" {
		args = append(args, "--style", in.Style)
	}
	if cfg.Bias != 0 {
		args = append(args, "--bias", strconv.FormatFloat(cfg.Bias, 'f', -1, 64))
	}
	if cfg.Seed != 0 {
		args = append(args, "--seed", strconv.Itoa(cfg.Seed))
	}

	ext := "png"
	if cfg.OutputMode == "gif" {
		ext = "gif"
		args = append(args, "--save_gif")
	} else {
		args = append(args, "--save_img")
	}

	return Command{
		Command: bridge.Command{
			Program: cfg.Interpreter,
			Args:    args,
			Dir:     filepath.Clean(cfg.ScriptDir),
			Env:     maps.Clone(cfg.Env),
		},
		Extension: ext,
	}
}
