package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/thearchitector/zero-knowledge-poc/internal/domain"
)

func TestMapPgErr(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	fk := &pgconn.PgError{Code: "23503"}

	assert.ErrorIs(t, mapPgErr(unique), domain.ErrConflict)
	assert.ErrorIs(t, mapPgErr(fk), domain.ErrNotFound)
	assert.ErrorIs(t, mapPgErr(pgx.ErrNoRows), domain.ErrNotFound)

	// обёрнутые ошибки тоже распознаются
	assert.ErrorIs(t, mapPgErr(fmt.Errorf("insert: %w", unique)), domain.ErrConflict)
	assert.ErrorIs(t, mapPgErr(fmt.Errorf("scan: %w", pgx.ErrNoRows)), domain.ErrNotFound)

	// незнакомые коды и прочие ошибки проходят как есть
	other := &pgconn.PgError{Code: "40001"}
	assert.Equal(t, error(other), mapPgErr(other))
	plain := errors.New("boom")
	assert.Equal(t, plain, mapPgErr(plain))
}
