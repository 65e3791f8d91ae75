package app

import (
	"net/url"
	"runtime"

	"handscribe/internal/config"
	"handscribe/internal/logger"
	"handscribe/internal/menu"
	"handscribe/internal/views"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
)

const (
	AppName    = "Handscribe"
	AppID      = "io.handscribe.desktop"
	AppVersion = "1.0.0"
)

type Application struct {
	fyneApp   fyne.App
	window    fyne.Window
	view      *views.MainView
	services  *Services
	handlers  *Handlers
	lifecycle *Lifecycle
	logger    logger.Logger
	config    config.Config
}

func NewApplication(cfg config.Config, log logger.Logger) (*Application, error) {
	services, err := NewServices(cfg, log)
	if err != nil {
		return nil, err
	}

	fyneApp := app.NewWithID(AppID)
	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(cfg.Window.Width, cfg.Window.Height))
	window.SetFixedSize(true)
	window.CenterOnScreen()

	log.Info("Application", "starting application", map[string]interface{}{
		"version":       AppVersion,
		"window_width":  cfg.Window.Width,
		"window_height": cfg.Window.Height,
		"menu_enabled":  cfg.Menu.Enabled,
	})

	view := views.NewMainView(window, services.Gate, cfg.Generator.Styles)
	handlers := NewHandlers(services.Shutdown.Context(), services.Trigger, services.Presenter, view, log)
	view.SetSubmitHandler(handlers.HandleSubmit)

	a := &Application{
		fyneApp:   fyneApp,
		window:    window,
		view:      view,
		services:  services,
		handlers:  handlers,
		lifecycle: NewLifecycle(services.Shutdown, log),
		logger:    log,
		config:    cfg,
	}

	if cfg.Menu.Enabled {
		tpl := menu.Templates(AppName)[menu.Platform(runtime.GOOS)]
		window.SetMainMenu(menu.Build(tpl, a.menuActions()))
	}

	log.Info("Application", "initialization complete", nil)
	return a, nil
}

func (a *Application) Run() error {
	a.window.SetCloseIntercept(a.onClose)
	a.fyneApp.Lifecycle().SetOnStopped(a.lifecycle.Shutdown)
	a.services.Shutdown.Listen(func() {
		fyne.Do(a.fyneApp.Quit)
	})

	if !QuitOnWindowClose(runtime.GOOS) {
		if desk, ok := a.fyneApp.(desktop.App); ok {
			desk.SetSystemTrayMenu(fyne.NewMenu(AppName,
				fyne.NewMenuItem("Show "+AppName, a.showWindow),
			))
		}
	}

	a.window.Show()
	a.logger.Info("Application", "GUI displayed", nil)
	a.fyneApp.Run()

	return nil
}

func (a *Application) onClose() {
	if QuitOnWindowClose(runtime.GOOS) {
		a.logger.Info("Application", "shutdown requested", nil)
		a.lifecycle.Shutdown()
		a.fyneApp.Quit()
		return
	}
	a.logger.Info("Application", "window hidden, app keeps running", nil)
	a.window.Hide()
}

func (a *Application) showWindow() {
	a.window.Show()
	a.window.RequestFocus()
}

func (a *Application) menuActions() map[menu.Role]func() {
	actions := map[menu.Role]func(){
		menu.RoleAbout: func() {
			dialog.ShowInformation("About "+AppName,
				AppName+" "+AppVersion+"\nHandwriting synthesis front end.", a.window)
		},
		menu.RoleQuit: func() {
			a.lifecycle.Shutdown()
			a.fyneApp.Quit()
		},
		menu.RoleNewWindow: a.showWindow,
		menu.RoleHide:      a.window.Hide,
		menu.RoleClose:     a.window.Close,
		menu.RoleReload:    a.view.Reset,
		menu.RoleFullScreen: func() {
			a.window.SetFullScreen(!a.window.FullScreen())
		},
		menu.RoleUndo:      func() { a.sendShortcut(&fyne.ShortcutUndo{}) },
		menu.RoleRedo:      func() { a.sendShortcut(&fyne.ShortcutRedo{}) },
		menu.RoleCut:       func() { a.sendShortcut(&fyne.ShortcutCut{Clipboard: a.window.Clipboard()}) },
		menu.RoleCopy:      func() { a.sendShortcut(&fyne.ShortcutCopy{Clipboard: a.window.Clipboard()}) },
		menu.RolePaste:     func() { a.sendShortcut(&fyne.ShortcutPaste{Clipboard: a.window.Clipboard()}) },
		menu.RoleSelectAll: func() { a.sendShortcut(&fyne.ShortcutSelectAll{}) },
	}

	if u, err := url.Parse(a.config.Menu.IssuesURL); err == nil && a.config.Menu.IssuesURL != "" {
		open := func() {
			if err := a.fyneApp.OpenURL(u); err != nil {
				a.view.ShowError("Could not open browser", err)
			}
		}
		actions[menu.RoleReportIssue] = open
		actions[menu.RoleFeedback] = open
	}
	return actions
}

// sendShortcut forwards an edit action to whichever widget has focus.
func (a *Application) sendShortcut(sc fyne.Shortcut) {
	if target, ok := a.window.Canvas().Focused().(fyne.Shortcutable); ok {
		target.TypedShortcut(sc)
	}
}

// Shutdown is used by callers that never reach Run.
func (a *Application) Shutdown() {
	a.lifecycle.Shutdown()
}
