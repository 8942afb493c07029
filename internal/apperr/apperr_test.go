package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatus(t *testing.T) {
	cases := map[Kind]int{
		Validation:         http.StatusBadRequest,
		Authentication:     http.StatusUnauthorized,
		InvalidCredentials: http.StatusUnauthorized,
		NotFound:           http.StatusNotFound,
		DuplicateEmail:     http.StatusConflict,
		Persistence:        http.StatusInternalServerError,
	}
	for k, want := range cases {
		assert.Equal(t, want, k.Status(), k.String())
	}
}

func TestSentinelsMatchWrapped(t *testing.T) {
	err := fmt.Errorf("get listing: %w", Missing("listing not found"))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrDuplicateEmail))
	assert.Equal(t, NotFound, KindOf(err))
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, Persistence, KindOf(errors.New("connection refused")))
}

func TestUnwrapCause(t *testing.T) {
	cause := errors.New("unique_violation")
	err := Duplicate("email already registered", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "email already registered")
}
