package app

import (
	"sync"

	"handscribe/internal/logger"
	"handscribe/internal/shutdown"
)

type Lifecycle struct {
	shutdown *shutdown.Manager
	logger   logger.Logger
	once     sync.Once
}

func NewLifecycle(sm *shutdown.Manager, log logger.Logger) *Lifecycle {
	return &Lifecycle{shutdown: sm, logger: log}
}

// Shutdown cancels running generations and pending waits. Safe to call more than once.
func (l *Lifecycle) Shutdown() {
	l.once.Do(func() {
		l.logger.Info("Lifecycle", "shutdown sequence initiated", nil)
		l.shutdown.Shutdown()
		l.logger.Info("Lifecycle", "shutdown sequence completed", nil)
	})
}

// QuitOnWindowClose reports whether closing the last window ends the app.
// macOS apps conventionally keep running without windows.
func QuitOnWindowClose(goos string) bool {
	return goos != "darwin"
}
