// Package postgres provides a PostgreSQL-backed session store.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/bnema/mafia-engine/internal/adapters/repo/postgres/migrations"
	"github.com/bnema/mafia-engine/internal/adapters/repo/schema"
	"github.com/bnema/mafia-engine/internal/domain"
	"github.com/bnema/mafia-engine/internal/ports"
)

type Store struct {
	pool *pgxpool.Pool
}

var _ ports.SessionStore = (*Store)(nil)

// Open connects to connString and applies embedded migrations.
func Open(ctx context.Context, connString string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{pool: pool}, nil
}

func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	migrationDB := stdlib.OpenDBFromPool(pool)
	defer migrationDB.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, migrationDB, migrations.FS)
	if err != nil {
		return err
	}
	_, err = provider.Up(ctx)
	return err
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Put(ctx context.Context, session domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := schema.EncodeJSON(session)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO sessions (session_key, phase, ends_at, data, updated_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (session_key) DO UPDATE SET
		   phase = EXCLUDED.phase,
		   ends_at = EXCLUDED.ends_at,
		   data = EXCLUDED.data,
		   updated_at = now()`,
		string(session.Key), string(session.Phase.Name), session.Phase.EndsAt.UTC(), data,
	)
	if err != nil {
		return wrapErr(fmt.Sprintf("put session %s", session.Key), err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key domain.SessionKey) (domain.Session, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM sessions WHERE session_key = $1`, string(key)).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Session{}, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, key)
		}
		return domain.Session{}, wrapErr(fmt.Sprintf("get session %s", key), err)
	}
	return schema.DecodeJSON(data)
}

func (s *Store) Delete(ctx context.Context, key domain.SessionKey) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE session_key = $1`, string(key)); err != nil {
		return wrapErr(fmt.Sprintf("delete session %s", key), err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]domain.Session, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM sessions ORDER BY session_key`)
	if err != nil {
		return nil, wrapErr("list sessions", err)
	}
	payloads, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return nil, wrapErr("list sessions", err)
	}

	sessions := make([]domain.Session, 0, len(payloads))
	for _, data := range payloads {
		session, err := schema.DecodeJSON(data)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func wrapErr(op string, err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
