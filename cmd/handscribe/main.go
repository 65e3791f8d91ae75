package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"handscribe/internal/app"
	"handscribe/internal/config"
	"handscribe/internal/generator"
	"handscribe/internal/logger"
	"handscribe/internal/menu"
)

type globalFlags struct {
	configPath string
	scriptDir  string
	minLen     int
	maxLen     int
	debug      bool
	jsonLogs   bool
}

var flags globalFlags

var rootCmd = &cobra.Command{
	Use:           "handscribe",
	Short:         "Desktop front end for the handwriting synthesis script",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, &flags)
		if err != nil {
			return err
		}
		log := newLogger(cfg)

		application, err := app.NewApplication(cfg, log)
		if err != nil {
			return fmt.Errorf("application initialization failed: %w", err)
		}
		return application.Run()
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run one generation without the GUI and print where the image went",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, _ := cmd.Flags().GetString("text")
		style, _ := cmd.Flags().GetString("style")

		cfg, err := loadConfig(cmd, &flags)
		if err != nil {
			return err
		}
		services, err := app.NewServices(cfg, newLogger(cfg))
		if err != nil {
			return err
		}
		defer services.Shutdown.Shutdown()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		img, err := services.Generate(ctx, generator.Input{Text: text, Style: style})
		fmt.Fprintln(cmd.OutOrStdout(), renderOutcome(img, err))
		return err
	},
}

var menuCmd = &cobra.Command{
	Use:   "menu [win|mac]",
	Short: "Print the application menu template",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		platform := menu.Platform(currentGOOS())
		if len(args) == 1 {
			platform = args[0]
		}
		tpl, ok := menu.Templates(app.AppName)[platform]
		if !ok {
			return fmt.Errorf("unknown platform %q (want %s or %s)", platform, menu.PlatformWin, menu.PlatformMac)
		}

		out, err := yaml.Marshal(tpl)
		if err != nil {
			return fmt.Errorf("encode template: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	bindGlobalFlags(rootCmd, &flags)

	generateCmd.Flags().String("text", "", "text to write")
	generateCmd.Flags().String("style", "", "style selector passed to --style")
	generateCmd.MarkFlagRequired("text")

	rootCmd.AddCommand(generateCmd, menuCmd)
}

func bindGlobalFlags(cmd *cobra.Command, f *globalFlags) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "path to config.yaml (default: user config dir)")
	pf.StringVar(&f.scriptDir, "script-dir", "", "directory containing the generator script")
	pf.IntVar(&f.minLen, "min-len", 0, "minimum text length, inclusive")
	pf.IntVar(&f.maxLen, "max-len", 0, "maximum text length, exclusive")
	pf.BoolVar(&f.debug, "debug", false, "enable debug logging")
	pf.BoolVar(&f.jsonLogs, "json-logs", false, "write logs as JSON")
}

// loadConfig applies command line flags on top of file and environment and
// validates the result.
func loadConfig(cmd *cobra.Command, f *globalFlags) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return cfg, err
	}

	fs := cmd.Flags()
	if fs.Changed("script-dir") {
		cfg.Generator.ScriptDir = f.scriptDir
	}
	if fs.Changed("min-len") {
		cfg.Gate.MinLength = f.minLen
	}
	if fs.Changed("max-len") {
		cfg.Gate.MaxLength = f.maxLen
	}
	if fs.Changed("debug") {
		cfg.Log.Debug = f.debug
	}
	if fs.Changed("json-logs") {
		cfg.Log.JSON = f.jsonLogs
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config) logger.Logger {
	return logger.New(logger.Options{Debug: cfg.Log.Debug, JSON: cfg.Log.JSON})
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}
