package app

import (
	"context"
	"fmt"

	"handscribe/internal/bridge"
	"handscribe/internal/config"
	"handscribe/internal/gate"
	"handscribe/internal/generator"
	"handscribe/internal/imaging"
	"handscribe/internal/logger"
	"handscribe/internal/presenter"
	"handscribe/internal/shutdown"
)

// Services is everything except the window. The GUI and the headless
// generate command share it.
type Services struct {
	Config    config.Config
	Logger    logger.Logger
	Gate      gate.Range
	Bridge    *bridge.Bridge
	Trigger   *generator.Trigger
	Presenter *presenter.Presenter
	Shutdown  *shutdown.Manager
}

func NewServices(cfg config.Config, log logger.Logger) (*Services, error) {
	if log == nil {
		log = logger.NoOp{}
	}

	r, err := gate.NewRange(cfg.Gate.MinLength, cfg.Gate.MaxLength)
	if err != nil {
		return nil, err
	}

	br := bridge.New(bridge.Policy{
		TrustAll:        cfg.Bridge.TrustAll,
		AllowedPrograms: cfg.Bridge.AllowedPrograms,
		WorkDir:         cfg.Generator.ScriptDir,
	}, log)

	trigger := generator.NewTrigger(cfg.Generator, r, br, log)

	loader := imaging.NewLoader(imaging.Options{
		TrimMargins: cfg.Presenter.TrimMargins,
		Padding:     cfg.Presenter.TrimPadding,
	}, log)

	pres := presenter.New(presenter.Options{
		OutputDir:   cfg.Generator.ScriptDir,
		Ascent:      cfg.Presenter.Ascent,
		Interval:    cfg.Presenter.PollInterval,
		MaxAttempts: cfg.Presenter.MaxAttempts,
	}, loader, log)

	sm := shutdown.NewManager(log)
	sm.Register("trigger", trigger)
	sm.Register("presenter", pres)

	log.Info("Services", "services ready", map[string]interface{}{
		"gate":        r.String(),
		"script_dir":  cfg.Generator.ScriptDir,
		"interpreter": cfg.Generator.Interpreter,
		"trust_all":   cfg.Bridge.TrustAll,
		"wait_budget": cfg.WaitBudget().String(),
	})

	return &Services{
		Config:    cfg,
		Logger:    log,
		Gate:      r,
		Bridge:    br,
		Trigger:   trigger,
		Presenter: pres,
		Shutdown:  sm,
	}, nil
}

// Generate runs one full cycle and blocks until the image is ready or the
// cycle fails.
func (s *Services) Generate(ctx context.Context, in generator.Input) (presenter.Image, error) {
	sub, err := s.Trigger.Submit(ctx, in)
	if err != nil {
		return presenter.Image{}, err
	}
	img, err := s.Presenter.Await(ctx, sub)
	if err != nil {
		return img, fmt.Errorf("submission #%d: %w", sub.Seq, err)
	}
	return img, nil
}
