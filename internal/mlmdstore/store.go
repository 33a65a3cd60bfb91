// Package mlmdstore wires the dialect, schema, registry and engine
// packages into one Store and owns back-end selection by database URI.
// Back-end registration follows a small factory pattern: a registry
// seeded at init() with the two built-in dialects, even though here
// there are exactly two fixed back-ends rather than an open set.
package mlmdstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel"

	"github.com/mlmd-go/mlmd/internal/dialect"
	"github.com/mlmd-go/mlmd/internal/engine"
	"github.com/mlmd-go/mlmd/internal/mlerr"
	"github.com/mlmd-go/mlmd/internal/registry"
	"github.com/mlmd-go/mlmd/internal/schema"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

var tracer = otel.Tracer("github.com/mlmd-go/mlmd/store")

// backendOpener opens a *sql.DB and a Dialect for one URI scheme.
type backendOpener func(ctx context.Context, uri string) (*sql.DB, dialect.Dialect, error)

var backendRegistry = map[string]backendOpener{}

func init() {
	backendRegistry["sqlite"] = openSQLite
	backendRegistry["mysql"] = openMySQL
}

// Store is the top-level handle on one connection. database/sql's
// pool is capped at one open connection so concurrent callers on one
// Store serialize, even though *sql.DB is itself safe for concurrent
// use.
type Store struct {
	db    *sql.DB
	qb    *dialect.QueryBuilder
	reg   *registry.Registry
	items *engine.ItemEngine
	rels  *engine.RelationEngine
}

// Option configures Open.
type Option func(*openConfig)

type openConfig struct {
	now func() time.Time
}

// WithClock overrides the wall clock Open's item engine uses for
// create/update timestamps. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(c *openConfig) { c.now = now }
}

// Open dispatches on the URI's scheme prefix to a registered back-end,
// opens the connection, and runs the schema bootstrapper. Supported schemes are "sqlite:" and "mysql:"; anything else
// fails with ErrUnsupportedDatabase.
func Open(ctx context.Context, uri string, opts ...Option) (*Store, error) {
	ctx, span := tracer.Start(ctx, "mlmd.Open")
	defer span.End()

	cfg := openConfig{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}

	scheme, _, found := strings.Cut(uri, ":")
	if !found {
		return nil, mlerr.ErrUnsupportedDatabase
	}
	opener, ok := backendRegistry[scheme]
	if !ok {
		return nil, fmt.Errorf("%s: %w", scheme, mlerr.ErrUnsupportedDatabase)
	}

	db, d, err := opener(ctx, uri)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := schema.Bootstrap(ctx, db, d); err != nil {
		_ = db.Close()
		return nil, err
	}

	qb := dialect.New(d)
	reg := registry.New(qb)
	store := &Store{
		db:    db,
		qb:    qb,
		reg:   reg,
		items: engine.NewItemEngine(db, qb, reg, cfg.now),
		rels:  engine.NewRelationEngine(db, qb),
	}
	return store, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error { return s.db.Close() }

func openSQLite(ctx context.Context, uri string) (*sql.DB, dialect.Dialect, error) {
	path := strings.TrimPrefix(uri, "sqlite:")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, mlerr.Wrap("open sqlite", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, mlerr.Wrap("ping sqlite", err)
	}
	return db, dialect.SQLite{}, nil
}

// openMySQL opens the MySQL connection, retrying the initial ping with
// exponential backoff: a freshly created database (or a server still
// coming up) can reject connections for a brief window.
func openMySQL(ctx context.Context, uri string) (*sql.DB, dialect.Dialect, error) {
	dsn := strings.TrimPrefix(uri, "mysql:")
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, nil, mlerr.Wrap("open mysql", err)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.MaxElapsedTime = 10 * time.Second
	if err := backoff.Retry(func() error {
		return db.PingContext(ctx)
	}, backoff.WithContext(bo, ctx)); err != nil {
		_ = db.Close()
		return nil, nil, mlerr.Wrap("ping mysql", err)
	}

	return db, dialect.MySQL{}, nil
}
