// Package db owns the lifecycle of the PostgreSQL connection: initial
// connect with bounded exponential backoff, migrations, background
// reconnection after a lost connection, and the health flag the rest of
// the server consults before touching the store.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"

	"github.com/ktkar/maintron/internal/logging"
	"github.com/ktkar/maintron/internal/server/migrations"
	"github.com/ktkar/maintron/internal/shared"
)

const (
	defaultBaseDelay    = 1 * time.Second
	defaultCapDelay     = 30 * time.Second
	defaultPingTimeout  = 5 * time.Second
	defaultPingInterval = 10 * time.Second
)

// Manager owns the *sql.DB handle. The availability flag is written only by
// the manager itself and may be read concurrently by anyone.
type Manager struct {
	dsn          string
	db           *sql.DB
	logger       logging.Logger
	maxAttempts  uint64
	baseDelay    time.Duration
	capDelay     time.Duration
	pingTimeout  time.Duration
	pingInterval time.Duration
	available    atomic.Bool
	cancel       context.CancelFunc

	// overridable in tests
	openFunc func(dsn string) (*sql.DB, error)
}

func NewManager(dsn string, maxRetries int, logger logging.Logger) *Manager {
	return &Manager{
		dsn:          dsn,
		logger:       logger.With("module", "db_manager"),
		maxAttempts:  uint64(maxRetries),
		baseDelay:    defaultBaseDelay,
		capDelay:     defaultCapDelay,
		pingTimeout:  defaultPingTimeout,
		pingInterval: defaultPingInterval,
		openFunc: func(dsn string) (*sql.DB, error) {
			return sql.Open("pgx", dsn)
		},
	}
}

// Open connects to the store, retrying with exponential backoff up to the
// configured attempt budget. Exhausting the budget is fatal: the caller must
// not start serving requests. On success migrations are applied and the
// background monitor is started.
func (m *Manager) Open(ctx context.Context) error {

	db, err := m.openFunc(m.dsn)
	if err != nil {
		return fmt.Errorf("db open error: %w", err)
	}
	m.db = db

	b := retry.WithMaxRetries(m.maxAttempts, m.backoff())
	if err := m.connect(ctx, b); err != nil {
		_ = db.Close()
		return fmt.Errorf("db connect error: %w", err)
	}

	if err := m.RunMigrations(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("migration error: %w", err)
	}

	m.available.Store(true)

	monitorCtx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	go m.monitor(monitorCtx)

	m.logger.Info(ctx, "connected to store")
	return nil
}

func (m *Manager) backoff() retry.Backoff {
	return retry.WithCappedDuration(m.capDelay, retry.NewExponential(m.baseDelay))
}

// connect pings the store until it answers or the backoff gives up.
func (m *Manager) connect(ctx context.Context, b retry.Backoff) error {
	attempt := 0
	return retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++

		pingCtx, cancel := context.WithTimeout(ctx, m.pingTimeout)
		defer cancel()

		if err := m.db.PingContext(pingCtx); err != nil {
			m.logger.Warn(ctx, "store ping failed", "attempt", attempt, "error", err.Error())
			return retry.RetryableError(err)
		}
		return nil
	})
}

// monitor watches the connection and re-runs the backoff loop after a lost
// connection. Unlike at startup the retry budget here is unbounded: the
// process stays up and requests fail fast until the store returns.
func (m *Manager) monitor(ctx context.Context) {
	ticker := time.NewTicker(m.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, m.pingTimeout)
			err := m.db.PingContext(pingCtx)
			cancel()

			if err == nil {
				continue
			}

			m.available.Store(false)
			m.logger.Warn(ctx, "store connection lost, reconnecting", "error", err.Error())

			if err := m.connect(ctx, m.backoff()); err != nil {
				// only reachable on shutdown
				return
			}

			m.available.Store(true)
			m.logger.Info(ctx, "store connection restored")
		}
	}
}

// RunMigrations applies the embedded goose migrations.
func (m *Manager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	return goose.UpContext(ctx, m.db, ".")
}

// IsAvailable reports whether the store is believed reachable.
func (m *Manager) IsAvailable() bool {
	return m.available.Load()
}

// Guard fails fast with the transient unavailability error when the store is
// down, so requests never block on a dead connection.
func (m *Manager) Guard(ctx context.Context) error {
	if !m.available.Load() {
		return shared.ErrUnavailable
	}
	return nil
}

func (m *Manager) Conn() *sql.DB {
	return m.db
}

func (m *Manager) Close() error {
	if m.cancel != nil {
		m.cancel()
	}
	m.available.Store(false)
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}
