package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dori/tickoff/internal/config"
	"github.com/dori/tickoff/internal/db"
	"github.com/dori/tickoff/internal/logging"
	"github.com/dori/tickoff/internal/model"
	"github.com/dori/tickoff/internal/notify"
	"github.com/dori/tickoff/internal/store"
	"github.com/gofrs/flock"
)

// ErrAlreadyRunning is returned when another process holds the data directory
var ErrAlreadyRunning = errors.New("another instance of tickoff is already running")

// App holds the application state and dependencies
type App struct {
	Config   *config.Config
	DB       *db.DB
	Store    *store.Store
	Notifier *notify.Notifier
	Logger   *logging.Logger
	DataDir  string
	lockFile *flock.Flock

	unwatch func()
}

// New creates a new application instance: it locks the data directory,
// opens the database and loads the task list.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	app := &App{
		Config:   cfg,
		DataDir:  dataDir,
		Notifier: notify.NewNotifier(cfg.Notifications.Enabled),
		Logger:   logging.Nop(),
	}

	if cfg.Logging.Enabled {
		logger, err := logging.New(dataDir, cfg.Logging.Level)
		if err != nil {
			return nil, err
		}
		app.Logger = logger
	}

	// Acquire lock to ensure single instance
	if err := app.acquireLock(); err != nil {
		app.Logger.Close()
		return nil, err
	}

	database, err := db.Open(cfg.Storage.Path)
	if err != nil {
		app.releaseLock()
		app.Logger.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	app.DB = database

	app.Store = store.New(database,
		store.WithKey(cfg.Storage.Key),
		store.WithLogger(app.Logger.Logger),
	)

	app.unwatch = app.Store.Subscribe(app.completionWatcher(app.Store.Summary()))

	app.Logger.Info("started", "db", cfg.Storage.Path, "key", cfg.Storage.Key)
	return app, nil
}

// completionWatcher notifies once each time the list goes from having open
// tasks to having none open.
func (a *App) completionWatcher(initial model.Summary) func(store.Snapshot) {
	wasDone := initial.AllDone()
	return func(snap store.Snapshot) {
		done := snap.Summary.AllDone()
		if done && !wasDone {
			if err := a.Notifier.SendAllDone(snap.Summary.Total); err != nil {
				a.Logger.Warn("failed to send notification", "error", err)
			}
		}
		wasDone = done
	}
}

// acquireLock acquires an exclusive file lock to prevent multiple instances
func (a *App) acquireLock() error {
	lockPath := filepath.Join(a.DataDir, "tickoff.lock")
	a.lockFile = flock.New(lockPath)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return ErrAlreadyRunning
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.unwatch != nil {
		a.unwatch()
	}

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	a.releaseLock()

	if a.Logger != nil {
		if err := a.Logger.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close log: %w", err))
		}
	}

	return errors.Join(errs...)
}
