package phone

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 5 * time.Second
)

const phonesSchema = `
	CREATE TABLE IF NOT EXISTS phones (
		position INTEGER PRIMARY KEY,
		brand    TEXT NOT NULL DEFAULT '',
		model    TEXT NOT NULL DEFAULT '',
		storage  TEXT NOT NULL DEFAULT '',
		ram      TEXT NOT NULL DEFAULT '',
		screen   TEXT NOT NULL DEFAULT '',
		camera   TEXT NOT NULL DEFAULT '',
		battery  TEXT NOT NULL DEFAULT '',
		price    TEXT NOT NULL DEFAULT ''
	)
`

// PostgresBackend keeps the set in a single table ordered by position. Rows
// are renumbered on every save, the same way a rewritten file would be.
type PostgresBackend struct {
	db *sql.DB
}

func NewPostgresBackend(db *sql.DB) *PostgresBackend {
	return &PostgresBackend{db: db}
}

func (b *PostgresBackend) EnsureSchema(ctx context.Context) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := b.db.ExecContext(ctx, phonesSchema)
		return err
	})
}

func (b *PostgresBackend) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return b.db.PingContext(ctx)
	})
}

func (b *PostgresBackend) Load(ctx context.Context) ([]Record, error) {
	var out []Record

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := b.db.QueryContext(ctx, `
			SELECT brand, model, storage, ram, screen, camera, battery, price
			FROM phones
			ORDER BY position ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Record, 0, 64)
		for rows.Next() {
			var f Fields
			if err := rows.Scan(&f.Brand, &f.Model, &f.Storage, &f.RAM, &f.Screen, &f.Camera, &f.Battery, &f.Price); err != nil {
				return err
			}
			out = append(out, Record{ID: len(out) + FirstID, Fields: f})
		}
		return rows.Err()
	})

	return out, pgDetail(err)
}

func (b *PostgresBackend) Save(ctx context.Context, recs []Record) error {
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		tx, err := b.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, `DELETE FROM phones`); err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO phones (position, brand, model, storage, ram, screen, camera, battery, price)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, r := range recs {
			if _, err := stmt.ExecContext(ctx, i+FirstID,
				r.Brand, r.Model, r.Storage, r.RAM, r.Screen, r.Camera, r.Battery, r.Price); err != nil {
				return err
			}
		}

		return tx.Commit()
	})
	return pgDetail(err)
}

// pgDetail prefixes server-side errors with their SQLSTATE code.
func pgDetail(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("postgres %s: %w", pgErr.Code, err)
	}
	return err
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
