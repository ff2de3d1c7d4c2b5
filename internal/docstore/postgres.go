package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/qfvjug/internal/dbx"
	"github.com/dmitrijs2005/qfvjug/internal/docstore/migrations"
	"github.com/dmitrijs2005/qfvjug/internal/logging"
	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// NotifyChannel is the LISTEN channel fed by the documents trigger. The
// payload is the name of the changed collection.
const NotifyChannel = "documents_changed"

const (
	pgMinBackoff = 500 * time.Millisecond
	pgMaxBackoff = 30 * time.Second
)

// Postgres stores one JSONB row per document: the first path segment is the
// collection, the second the document id, anything deeper a field inside
// the body.
type Postgres struct {
	db     *sql.DB
	listen ListenFunc
	logger logging.Logger

	minBackoff time.Duration
}

// Listener delivers NOTIFY payloads from a dedicated connection.
type Listener interface {
	Wait(ctx context.Context) (string, error)
	Close(ctx context.Context) error
}

// ListenFunc opens a Listener subscribed to NotifyChannel.
type ListenFunc func(ctx context.Context) (Listener, error)

// NewPostgres wraps db. listen is used by Watch.
func NewPostgres(db *sql.DB, listen ListenFunc, logger logging.Logger) *Postgres {
	return &Postgres{db: db, listen: listen, logger: logger, minBackoff: pgMinBackoff}
}

// OpenPostgres connects to dsn, runs the migrations and returns a store whose
// watches use their own LISTEN connections.
func OpenPostgres(ctx context.Context, dsn string, logger logging.Logger) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}
	return NewPostgres(db, PgxListen(dsn), logger), nil
}

// gooseUpContext is a seam for tests.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

type pgxListener struct {
	conn *pgx.Conn
}

// PgxListen returns a ListenFunc that opens a pgx connection to dsn.
func PgxListen(dsn string) ListenFunc {
	return func(ctx context.Context) (Listener, error) {
		conn, err := pgx.Connect(ctx, dsn)
		if err != nil {
			return nil, err
		}
		if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{NotifyChannel}.Sanitize()); err != nil {
			conn.Close(ctx)
			return nil, err
		}
		return &pgxListener{conn: conn}, nil
	}
}

func (l *pgxListener) Wait(ctx context.Context) (string, error) {
	n, err := l.conn.WaitForNotification(ctx)
	if err != nil {
		return "", err
	}
	return n.Payload, nil
}

func (l *pgxListener) Close(ctx context.Context) error {
	return l.conn.Close(ctx)
}

func (p *Postgres) Get(ctx context.Context, path string) (json.RawMessage, error) {
	parts, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	return p.get(ctx, p.db, parts)
}

func (p *Postgres) get(ctx context.Context, db dbx.DBTX, parts []string) (json.RawMessage, error) {
	switch len(parts) {
	case 1:
		rows, err := db.QueryContext(ctx,
			`SELECT id, body FROM documents WHERE collection = $1 ORDER BY id`, parts[0])
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		defer rows.Close()

		out := map[string]json.RawMessage{}
		for rows.Next() {
			var id string
			var body []byte
			if err := rows.Scan(&id, &body); err != nil {
				return nil, fmt.Errorf("db error: %w", err)
			}
			out[id] = body
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if len(out) == 0 {
			return nil, nil
		}
		return json.Marshal(out)

	case 2:
		var body []byte
		err := db.QueryRowContext(ctx,
			`SELECT body FROM documents WHERE collection = $1 AND id = $2`, parts[0], parts[1]).Scan(&body)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		return body, nil

	default:
		var body []byte
		err := db.QueryRowContext(ctx,
			`SELECT body #> $3::text[] FROM documents WHERE collection = $1 AND id = $2`,
			parts[0], parts[1], fieldPath(parts)).Scan(&body)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if body == nil {
			return nil, nil
		}
		return body, nil
	}
}

// fieldPath renders the in-body segments as a Postgres text[] literal.
func fieldPath(parts []string) string {
	b, _ := json.Marshal(parts[2:])
	s := string(b)
	return "{" + s[1:len(s)-1] + "}"
}

func (p *Postgres) Set(ctx context.Context, path string, value any) error {
	parts, err := splitPath(path)
	if err != nil {
		return err
	}
	raw, err := encode(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if isNull(raw) {
		return p.remove(ctx, parts)
	}

	switch len(parts) {
	case 1:
		var children map[string]json.RawMessage
		if err := json.Unmarshal(raw, &children); err != nil {
			return fmt.Errorf("collection %s: value must be an object: %w", parts[0], err)
		}
		return dbx.WithTx(ctx, p.db, func(ctx context.Context, tx dbx.DBTX) error {
			if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE collection = $1`, parts[0]); err != nil {
				return fmt.Errorf("db error: %w", err)
			}
			for id, body := range children {
				if err := upsert(ctx, tx, parts[0], id, body); err != nil {
					return err
				}
			}
			return nil
		})

	case 2:
		return upsert(ctx, p.db, parts[0], parts[1], raw)

	default:
		_, err := p.db.ExecContext(ctx,
			`UPDATE documents SET body = jsonb_set(body, $3::text[], $4::jsonb, true)
			 WHERE collection = $1 AND id = $2`,
			parts[0], parts[1], fieldPath(parts), string(raw))
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	}
}

func upsert(ctx context.Context, db dbx.DBTX, collection, id string, body json.RawMessage) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, body) VALUES ($1, $2, $3::jsonb)
		 ON CONFLICT (collection, id) DO UPDATE SET body = EXCLUDED.body`,
		collection, id, string(body))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (p *Postgres) Push(ctx context.Context, path string, value any) (string, error) {
	parts, err := splitPath(path)
	if err != nil {
		return "", err
	}
	if len(parts) != 1 {
		return "", fmt.Errorf("%w: push below a collection only", ErrInvalidPath)
	}
	raw, err := encode(value)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", path, err)
	}
	key, err := newKey()
	if err != nil {
		return "", err
	}
	if _, err := p.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, body) VALUES ($1, $2, $3::jsonb)`,
		parts[0], key, string(raw)); err != nil {
		return "", fmt.Errorf("db error: %w", err)
	}
	return key, nil
}

func (p *Postgres) Remove(ctx context.Context, path string) error {
	parts, err := splitPath(path)
	if err != nil {
		return err
	}
	return p.remove(ctx, parts)
}

func (p *Postgres) remove(ctx context.Context, parts []string) error {
	var err error
	switch len(parts) {
	case 1:
		_, err = p.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = $1`, parts[0])
	case 2:
		_, err = p.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, parts[0], parts[1])
	default:
		_, err = p.db.ExecContext(ctx,
			`UPDATE documents SET body = body #- $3::text[] WHERE collection = $1 AND id = $2`,
			parts[0], parts[1], fieldPath(parts))
	}
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (p *Postgres) Watch(ctx context.Context, path string) (<-chan json.RawMessage, error) {
	parts, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	if p.listen == nil {
		return nil, errors.New("postgres store: watch not configured")
	}

	l, err := p.listen(ctx)
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	initial, err := p.get(ctx, p.db, parts)
	if err != nil {
		l.Close(context.Background())
		return nil, err
	}

	ch := make(chan json.RawMessage, 1)
	offer(ch, initial)

	go func() {
		defer close(ch)
		backoff := p.minBackoff
		for {
			err := p.follow(ctx, l, parts, ch)
			l.Close(context.Background())
			if ctx.Err() != nil {
				return
			}
			p.logger.Warn(ctx, "listen dropped", "path", path, "error", err, "retry_in", backoff)

			for {
				select {
				case <-ctx.Done():
					return
				case <-time.After(backoff):
				}
				backoff = min(backoff*2, pgMaxBackoff)
				if l, err = p.listen(ctx); err == nil {
					break
				}
				if ctx.Err() != nil {
					return
				}
				p.logger.Warn(ctx, "listen reconnect failed", "path", path, "error", err, "retry_in", backoff)
			}
			backoff = p.minBackoff

			// notifications sent while disconnected are lost
			snap, err := p.get(ctx, p.db, parts)
			if err != nil {
				p.logger.Warn(ctx, "re-read after reconnect failed", "path", path, "error", err)
				continue
			}
			offer(ch, snap)
		}
	}()

	return ch, nil
}

// follow re-reads the watched path on every notification for its
// collection until the listener fails.
func (p *Postgres) follow(ctx context.Context, l Listener, parts []string, ch chan json.RawMessage) error {
	for {
		collection, err := l.Wait(ctx)
		if err != nil {
			return err
		}
		if collection != parts[0] {
			continue
		}
		snap, err := p.get(ctx, p.db, parts)
		if err != nil {
			p.logger.Warn(ctx, "re-read after notify failed", "path", strings.Join(parts, "/"), "error", err)
			continue
		}
		offer(ch, snap)
	}
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
