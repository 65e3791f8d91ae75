package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	AppName   = "handscribe"
	envPrefix = "HANDSCRIBE_"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Gate      GateConfig      `yaml:"gate"`
	Generator GeneratorConfig `yaml:"generator"`
	Presenter PresenterConfig `yaml:"presenter"`
	Bridge    BridgeConfig    `yaml:"bridge"`
	Window    WindowConfig    `yaml:"window"`
	Menu      MenuConfig      `yaml:"menu"`
	Log       LogConfig       `yaml:"log"`
}

// GateConfig bounds accepted input length: Min inclusive, Max exclusive.
type GateConfig struct {
	MinLength int `yaml:"min_length"`
	MaxLength int `yaml:"max_length"`
}

type GeneratorConfig struct {
	Interpreter string        `yaml:"interpreter"`
	Script      string        `yaml:"script"`
	ScriptDir   string        `yaml:"script_dir"`
	OutputMode  string        `yaml:"output_mode"`
	Styles      []string      `yaml:"styles"`
	Bias        float64       `yaml:"bias"`
	Seed        int           `yaml:"seed"`
	Timeout     time.Duration `yaml:"timeout"`
	// Env is added to the script's environment, e.g. PYTHONPATH or
	// CUDA_VISIBLE_DEVICES.
	Env map[string]string `yaml:"env"`
}

type PresenterConfig struct {
	Ascent       string        `yaml:"ascent"`
	PollInterval time.Duration `yaml:"poll_interval"`
	MaxAttempts  int           `yaml:"max_attempts"`
	TrimMargins  bool          `yaml:"trim_margins"`
	TrimPadding  int           `yaml:"trim_padding"`
}

type BridgeConfig struct {
	TrustAll        bool     `yaml:"trust_all"`
	AllowedPrograms []string `yaml:"allowed_programs"`
}

type WindowConfig struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

type MenuConfig struct {
	Enabled   bool   `yaml:"enabled"`
	IssuesURL string `yaml:"issues_url"`
}

type LogConfig struct {
	Debug bool `yaml:"debug"`
	JSON  bool `yaml:"json"`
}

func Default() Config {
	return Config{
		Gate: GateConfig{MinLength: 4, MaxLength: 50},
		Generator: GeneratorConfig{
			Interpreter: "python3",
			Script:      "generate.py",
			ScriptDir:   "..",
			OutputMode:  "img",
			Styles:      []string{"0", "1", "2", "3", "4"},
			Timeout:     5 * time.Minute,
		},
		Presenter: PresenterConfig{
			Ascent:       "..",
			PollInterval: 500 * time.Millisecond,
			MaxAttempts:  600,
			TrimPadding:  16,
		},
		Bridge: BridgeConfig{AllowedPrograms: []string{"python3"}},
		Window: WindowConfig{Width: 1000, Height: 500},
	}
}

// Load layers defaults, the YAML file, .env and HANDSCRIBE_* variables.
// An empty path falls back to DefaultPath; a missing default file is not an error.
// The result is not validated: callers apply their own overrides first and
// then call Validate.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	// .env is optional; existing environment wins over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName, "config.yaml"), nil
}

// ApplyEnv overrides fields from HANDSCRIBE_* variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(envPrefix + key)
		if !ok || strings.TrimSpace(v) == "" {
			return "", false
		}
		return strings.TrimSpace(v), true
	}

	ints := map[string]*int{
		"MIN_LENGTH":   &c.Gate.MinLength,
		"MAX_LENGTH":   &c.Gate.MaxLength,
		"MAX_ATTEMPTS": &c.Presenter.MaxAttempts,
	}
	for key, dst := range ints {
		if v, ok := get(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %s%s=%q", ErrInvalidConfig, envPrefix, key, v)
			}
			*dst = n
		}
	}

	strs := map[string]*string{
		"INTERPRETER": &c.Generator.Interpreter,
		"SCRIPT":      &c.Generator.Script,
		"SCRIPT_DIR":  &c.Generator.ScriptDir,
	}
	for key, dst := range strs {
		if v, ok := get(key); ok {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"POLL_INTERVAL": &c.Presenter.PollInterval,
		"TIMEOUT":       &c.Generator.Timeout,
	}
	for key, dst := range durations {
		if v, ok := get(key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%w: %s%s=%q", ErrInvalidConfig, envPrefix, key, v)
			}
			*dst = d
		}
	}

	if v, ok := get("DEBUG"); ok {
		c.Log.Debug = v == "true"
	}
	if v, ok := get("JSON_LOGS"); ok {
		c.Log.JSON = v == "true"
	}
	if v, ok := get("MENU"); ok {
		c.Menu.Enabled = v == "true"
	}
	return nil
}

func (c Config) Validate() error {
	if c.Gate.MinLength < 0 {
		return fmt.Errorf("%w: gate.min_length must be >= 0, got %d", ErrInvalidConfig, c.Gate.MinLength)
	}
	if c.Gate.MaxLength <= c.Gate.MinLength {
		return fmt.Errorf("%w: gate.max_length (%d) must exceed gate.min_length (%d)",
			ErrInvalidConfig, c.Gate.MaxLength, c.Gate.MinLength)
	}
	if strings.TrimSpace(c.Generator.Interpreter) == "" {
		return fmt.Errorf("%w: generator.interpreter is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Generator.Script) == "" {
		return fmt.Errorf("%w: generator.script is required", ErrInvalidConfig)
	}
	switch c.Generator.OutputMode {
	case "img", "gif":
	default:
		return fmt.Errorf("%w: generator.output_mode must be img or gif, got %q", ErrInvalidConfig, c.Generator.OutputMode)
	}
	if c.Presenter.PollInterval <= 0 {
		return fmt.Errorf("%w: presenter.poll_interval must be positive", ErrInvalidConfig)
	}
	if c.Presenter.MaxAttempts <= 0 {
		return fmt.Errorf("%w: presenter.max_attempts must be positive", ErrInvalidConfig)
	}
	if !c.Bridge.TrustAll && len(c.Bridge.AllowedPrograms) == 0 {
		return fmt.Errorf("%w: bridge.allowed_programs is empty and trust_all is off", ErrInvalidConfig)
	}
	return nil
}

// WaitBudget is the longest the presenter waits for one submission.
func (c Config) WaitBudget() time.Duration {
	return c.Presenter.PollInterval * time.Duration(c.Presenter.MaxAttempts)
}
