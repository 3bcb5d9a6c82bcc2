package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"curator/internal/api"
	"curator/internal/config"
	"curator/internal/hub"
	"curator/internal/ledger"
	"curator/internal/logging"
	"curator/internal/publish"
	"curator/internal/store"
)

// Daemon owns the curation service's long-lived resources and enforces
// single-instance execution with a file lock.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	fileStore *store.FileStore
	ledger    *ledger.Store
	publisher *publish.Publisher
	apiServer *api.Server

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running       bool
	APIAddress    string
	DataDir       string
	LedgerPath    string
	LockFilePath  string
	HubConfigured bool
}

// New constructs a daemon with initialized dependencies. The publish
// ledger is opened here; the hub publisher is wired only when the
// config carries a hub token.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || logger == nil {
		return nil, errors.New("daemon requires config and logger")
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	fileStore := store.New(cfg.Paths.DataDir, logger)
	if err := fileStore.EnsureLayout(); err != nil {
		return nil, fmt.Errorf("ensure data layout: %w", err)
	}

	ledgerStore, err := ledger.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open publish ledger: %w", err)
	}

	var publisher *publish.Publisher
	if cfg.HubConfigured() {
		client := hub.New(cfg, logger)
		publisher = publish.New(fileStore, client, ledgerStore, cfg, logger)
	} else {
		logger.Info("hub token not configured; push disabled")
	}

	var pusher api.Pusher
	if publisher != nil {
		pusher = publisher
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "curatord.lock")
	return &Daemon{
		cfg:       cfg,
		logger:    logger,
		fileStore: fileStore,
		ledger:    ledgerStore,
		publisher: publisher,
		apiServer: api.New(cfg, fileStore, pusher, logger),
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and begins serving the HTTP API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another curator daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.apiServer.Start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return fmt.Errorf("start api server: %w", err)
	}
	d.cancel = cancel

	d.running.Store(true)
	d.logger.Info("curator daemon started",
		logging.String("address", d.apiServer.Addr()),
		logging.String("lock", d.lockPath))
	return nil
}

// Stop shuts the API server down and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.apiServer.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("curator daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.ledger != nil {
		return d.ledger.Close()
	}
	return nil
}

// Store exposes the file store for callers that embed the daemon.
func (d *Daemon) Store() *store.FileStore {
	return d.fileStore
}

// Status reports current runtime details.
func (d *Daemon) Status() Status {
	return Status{
		Running:       d.running.Load(),
		APIAddress:    d.apiServer.Addr(),
		DataDir:       d.cfg.Paths.DataDir,
		LedgerPath:    d.ledger.Path(),
		LockFilePath:  d.lockPath,
		HubConfigured: d.publisher != nil,
	}
}
