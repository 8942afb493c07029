package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/villageveggies/backend/internal/apperr"
)

func TestZip(t *testing.T) {
	assert.True(t, Zip("80202"))
	assert.True(t, Zip("02134"))
	assert.False(t, Zip("8020"))
	assert.False(t, Zip("802021"))
	assert.False(t, Zip("8020a"))
	assert.False(t, Zip(" 80202"))
}

func TestDigits(t *testing.T) {
	assert.True(t, Digits("802"))
	assert.False(t, Digits(""))
	assert.False(t, Digits("80-2"))
	assert.False(t, Digits("٨٠٢"))
}

func TestFields(t *testing.T) {
	f := Fields{}
	f.Required("title", "  ")
	f.Required("price", "$3")
	f.Zip("zip", "8020")
	f.Required("zip", "8020")
	f.Email("email", "nobody")
	f.Email("ok", "a@x.com")

	err := f.Err("invalid listing")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	var e *apperr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, map[string]string{
		"title": "is required",
		"zip":   "must be exactly 5 digits",
		"email": "must be an email address",
	}, e.Details)
}

func TestFieldsEmpty(t *testing.T) {
	assert.NoError(t, Fields{}.Err("nothing"))
}
