package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("pw123", 10)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 10, cost)

	assert.NoError(t, CheckPassword(hash, "pw123"))
	assert.Error(t, CheckPassword(hash, "wrong"))
	assert.Error(t, CheckPassword(hash, ""))
}

func TestHashPassword_Salted(t *testing.T) {
	h1, err := HashPassword("same", 10)
	require.NoError(t, err)
	h2, err := HashPassword("same", 10)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestCheckPassword_EmptyHash(t *testing.T) {
	assert.Error(t, CheckPassword("", "anything"))
}
