package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"PhoneStore/internal/config"
	"PhoneStore/internal/phone"
	"PhoneStore/internal/phonecsv"
)

func openBackend(ctx context.Context, cfg config.StoreConfig, log *zap.Logger) (phone.Backend, func(), error) {
	noop := func() {}

	switch cfg.Driver {
	case config.DriverCSV:
		log.Info("using csv backend", zap.String("path", cfg.CSVPath))
		return phone.NewFileBackend(cfg.CSVPath), noop, nil

	case config.DriverMemory:
		seed, err := memorySeed(cfg.CSVPath)
		if err != nil {
			return nil, noop, err
		}
		log.Info("using memory backend", zap.Int("seeded", len(seed)))
		return phone.NewMemBackend(seed...), noop, nil

	case config.DriverPostgres:
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return nil, noop, fmt.Errorf("open postgres: %w", err)
		}

		b := phone.NewPostgresBackend(db)
		if err := b.Ping(ctx); err != nil {
			_ = db.Close()
			return nil, noop, fmt.Errorf("ping postgres: %w", err)
		}
		if err := b.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, noop, fmt.Errorf("ensure schema: %w", err)
		}
		log.Info("using postgres backend")
		return b, func() { _ = db.Close() }, nil
	}

	return nil, noop, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

// memorySeed loads the CSV file, if there is one, as the starting set of the
// memory backend.
func memorySeed(path string) ([]phone.Fields, error) {
	if path == "" {
		return nil, nil
	}

	rows, err := phonecsv.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("seed memory backend from %s: %w", path, err)
	}

	seed := make([]phone.Fields, 0, len(rows))
	for _, rec := range phone.FromRows(rows) {
		seed = append(seed, rec.Fields)
	}
	return seed, nil
}
