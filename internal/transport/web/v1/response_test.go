package v1

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thearchitector/zero-knowledge-poc/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   int
	}{
		{domain.ErrBadParams, http.StatusBadRequest, domain.ErrCodeBadParams},
		{domain.ErrNotFound, http.StatusForbidden, domain.ErrCodeForbidden},
		{domain.ErrForbidden, http.StatusForbidden, domain.ErrCodeForbidden},
		{domain.ErrMethodNotAllowed, http.StatusMethodNotAllowed, domain.ErrCodeMethodNotAllowed},
		{domain.ErrConflict, http.StatusInternalServerError, domain.ErrCodeUnexpected},
		{domain.ErrIntegrity, http.StatusInternalServerError, domain.ErrCodeUnexpected},
		{errors.New("boom"), http.StatusInternalServerError, domain.ErrCodeUnexpected},
		// обёрнутые тоже распознаются
		{fmt.Errorf("ctx: %w", domain.ErrNotFound), http.StatusForbidden, domain.ErrCodeForbidden},
	}
	for _, tc := range cases {
		status, env := MapDomainError(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		require.NotNil(t, env.Error, tc.err.Error())
		assert.Equal(t, tc.code, env.Error.Code, tc.err.Error())
	}

	// not_found и forbidden наружу неразличимы
	s1, e1 := MapDomainError(domain.ErrNotFound)
	s2, e2 := MapDomainError(domain.ErrForbidden)
	assert.Equal(t, s1, s2)
	assert.Equal(t, e1.Error.Text, e2.Error.Text)
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, s := range []string{"", "0", "-1", "abc", "1.5"} {
		_, err := ParseID(s)
		assert.ErrorIs(t, err, domain.ErrBadParams, s)
	}
}
