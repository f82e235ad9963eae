package phone

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPgDetail(t *testing.T) {
	assert.NoError(t, pgDetail(nil))

	plain := errors.New("connection reset")
	assert.Same(t, plain, pgDetail(plain))

	pgErr := &pgconn.PgError{Code: "42P01", Message: `relation "phones" does not exist`}
	err := pgDetail(fmt.Errorf("query: %w", pgErr))
	assert.ErrorIs(t, err, pgErr)
	assert.Contains(t, err.Error(), "postgres 42P01")
}
