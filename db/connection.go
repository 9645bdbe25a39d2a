// Package db implements the SQL tools the agent calls: schema
// introspection and guarded read-only query execution.
//
// Design decisions:
//   - Every tool call opens one fresh connection and closes it on every
//     exit path. There is no pool; the database server's own concurrency
//     control is all that is relied on.
//   - Connections come from a Connector so the tools can be exercised
//     without a live server.
//   - SSH tunnel integration is handled transparently: if SSH is enabled,
//     the tunnel is established once and each connection dials the local
//     endpoint.
package db

import (
	"context"
	"fmt"
	"sync"

	"github.com/SubediGaurab/ReportingWithAIAgent-Backend/config"
	"github.com/SubediGaurab/ReportingWithAIAgent-Backend/ssh"
	pgx "github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Conn is the part of *pgx.Conn the tools need.
type Conn interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close(ctx context.Context) error
}

// Connector hands out one new connection per call.
type Connector interface {
	Connect(ctx context.Context) (Conn, error)
}

// ConnectorFunc adapts a function to Connector.
type ConnectorFunc func(ctx context.Context) (Conn, error)

// Connect calls f.
func (f ConnectorFunc) Connect(ctx context.Context) (Conn, error) { return f(ctx) }

// PgConnector opens pgx connections from the configured credentials.
type PgConnector struct {
	cfg config.Config
	log *zap.Logger

	tunnelOnce sync.Once
	tunnel     *ssh.Tunnel
	tunnelAddr *ssh.Addr
	tunnelErr  error
}

var _ Connector = (*PgConnector)(nil)

// NewConnector returns a connector for cfg. Nothing is dialed until Connect.
func NewConnector(cfg config.Config, log *zap.Logger) *PgConnector {
	if log == nil {
		log = zap.NewNop()
	}
	return &PgConnector{cfg: cfg, log: log}
}

// Connect opens a new PostgreSQL connection, through the SSH tunnel when enabled.
func (c *PgConnector) Connect(ctx context.Context) (Conn, error) {
	cfg := c.cfg

	if cfg.SSH.Enabled {
		addr, err := c.ensureTunnel(ctx)
		if err != nil {
			return nil, err
		}
		cfg.Host = addr.Host
		cfg.Port = addr.Port
	}

	conn, err := pgx.Connect(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("pgx connect: %w", err)
	}
	return conn, nil
}

// ensureTunnel starts the tunnel on first use and reuses it afterwards.
func (c *PgConnector) ensureTunnel(ctx context.Context) (*ssh.Addr, error) {
	c.tunnelOnce.Do(func() {
		tunnel, err := ssh.NewTunnel(c.cfg.SSH, c.cfg.Host, c.cfg.Port, c.log)
		if err != nil {
			c.tunnelErr = fmt.Errorf("ssh tunnel: %w", err)
			return
		}
		addr, err := tunnel.Start(ctx)
		if err != nil {
			c.tunnelErr = fmt.Errorf("ssh tunnel start: %w", err)
			return
		}
		c.tunnel = tunnel
		c.tunnelAddr = addr
	})
	return c.tunnelAddr, c.tunnelErr
}

// Close stops the SSH tunnel if one was started.
func (c *PgConnector) Close() {
	if c.tunnel != nil {
		c.tunnel.Stop()
	}
}

// withConn runs fn on a fresh connection and always closes it.
func withConn(ctx context.Context, connector Connector, fn func(Conn) error) error {
	conn, err := connector.Connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close(ctx) //nolint:errcheck
	return fn(conn)
}
