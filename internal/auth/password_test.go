package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	h, err := HashPassword("Abc12345!")
	require.NoError(t, err)

	assert.True(t, VerifyPassword("Abc12345!", h))
	assert.False(t, VerifyPassword("abc12345!", h))
	assert.False(t, VerifyPassword("", h))
}

func TestHashIsSaltedPerCall(t *testing.T) {
	a, err := HashPassword("secret")
	require.NoError(t, err)
	b, err := HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	cost, err := bcrypt.Cost([]byte(a))
	require.NoError(t, err)
	assert.Equal(t, PasswordCost, cost)
}

func TestVerifyMalformedHash(t *testing.T) {
	assert.False(t, VerifyPassword("secret", "not-a-bcrypt-hash"))
	assert.False(t, VerifyPassword("secret", ""))
}
