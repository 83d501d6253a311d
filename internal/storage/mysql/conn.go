package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"travel_planner/internal/adapters/observability"
	"travel_planner/internal/domain"
)

// Conn owns the one physical store connection a session uses. The handle is
// created lazily, liveness-checked before every acquisition, and replaced
// wholesale (never patched) when the probe fails. There is no pooling here:
// the pool stays inside *sql.DB, but a session always talks through the same
// *sql.Conn until it is replaced.
type Conn struct {
	db  *sql.DB
	log zerolog.Logger

	mu   sync.Mutex
	conn *sql.Conn
}

func NewConn(db *sql.DB, log zerolog.Logger) *Conn {
	return &Conn{db: db, log: log}
}

// Connect establishes the session connection, replacing (and closing) any
// prior handle when force is set or the handle is absent.
func (c *Conn) Connect(ctx context.Context, force bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectLocked(ctx, force)
}

func (c *Conn) connectLocked(ctx context.Context, force bool) error {
	if c.conn != nil {
		if !force {
			return nil
		}
		_ = c.conn.Close()
		c.conn = nil
		c.log.Info().Msg("store connection closed")
	}
	conn, err := c.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConnection, err)
	}
	c.conn = conn
	c.log.Info().Msg("store connected")
	return nil
}

// Alive issues a trivial liveness probe against the session connection.
func (c *Conn) Alive(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil && c.conn.PingContext(ctx) == nil
}

// Close releases the session connection. Safe to call when never connected.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.log.Info().Msg("store connection closed")
	return err
}

// Acquire gives fn exclusive, short-lived transactional access to the session
// connection: commit on nil return, rollback on error. Acquisition probes
// liveness first and transparently reconnects once on a failed probe; if the
// replacement is dead too, the call fails with domain.ErrConnection and is
// not retried further at this layer.
func (c *Conn) Acquire(ctx context.Context, fn func(tx *sql.Tx) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLiveLocked(ctx); err != nil {
		return err
	}

	tx, err := c.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", domain.ErrConnection, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (c *Conn) ensureLiveLocked(ctx context.Context) error {
	if c.conn == nil {
		return c.connectLocked(ctx, false)
	}
	if c.conn.PingContext(ctx) == nil {
		return nil
	}
	// Probe failed: replace the handle once before giving up.
	observability.ObserveReconnect()
	c.log.Warn().Msg("liveness probe failed, reconnecting")
	if err := c.connectLocked(ctx, true); err != nil {
		return err
	}
	if err := c.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConnection, err)
	}
	c.log.Info().Msg("store reconnected")
	return nil
}
