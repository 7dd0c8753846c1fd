// Package sqlite implements the skilllog record store on a single SQLite
// file. Each skill is one JSON document keyed by an autoincrement integer, so
// records written by older builds load unchanged and fields unknown to this
// build survive every rewrite.
package sqlite

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/skilllog/pkg/types"
)

// Compile-time interface check.
var _ types.Store = (*Backend)(nil)

// Backend implements types.Store. All methods serialize on mu; the
// connection pool holds a single connection, so there is one writer.
type Backend struct {
	mu     sync.Mutex
	db     *sql.DB
	config types.Config
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithClock replaces time.Now as the source of record timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) { b.now = now }
}

// WithLogger sets the logger used for lifecycle and migration messages.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Backend) { b.logger = logger }
}

// Open creates the data directory if needed, opens the database file and
// brings its schema up to date. Any failure is fatal for the caller and is
// reported wrapped in types.ErrInitialization.
func Open(config types.Config, opts ...Option) (*Backend, error) {
	b := &Backend{
		config: config,
		now:    time.Now,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrInitialization, err)
	}
	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating data directory: %w", types.ErrInitialization, err)
	}

	path := config.DBPath()
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %w", types.ErrInitialization, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: connecting to %s: %w", types.ErrInitialization, path, err)
	}

	if err := migrate(db, migrationEnv{dataDir: config.DataDir, now: b.stamp()}, b.logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", types.ErrInitialization, err)
	}

	b.db = db
	b.logger.Debug("store opened", "path", path)
	return b, nil
}

// Path returns the database file path.
func (b *Backend) Path() string {
	return b.config.DBPath()
}

// Close releases the database. After Close every operation returns
// types.ErrStoreClosed. Close is idempotent.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	if err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	b.logger.Debug("store closed", "path", b.config.DBPath())
	return nil
}

// stamp returns the current time at the precision timestamps are stored
// with, so a value read back equals the value written.
func (b *Backend) stamp() time.Time {
	return b.now().UTC().Truncate(time.Millisecond)
}

// begin starts a transaction. The caller must hold b.mu.
func (b *Backend) begin() (*sql.Tx, error) {
	if b.db == nil {
		return nil, types.ErrStoreClosed
	}
	tx, err := b.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	return tx, nil
}
