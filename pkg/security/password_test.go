package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	hasher := NewBcryptHasher(4)

	hashed, err := hasher.Hash("correct horse battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hashed)

	assert.NoError(t, hasher.Compare(hashed, "correct horse battery"))
	assert.Error(t, hasher.Compare(hashed, "wrong horse battery"))
}

func TestHashRejectsBadLengths(t *testing.T) {
	hasher := NewBcryptHasher(4)

	_, err := hasher.Hash("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = hasher.Hash(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestZeroCostFallsBackToDefault(t *testing.T) {
	hasher := NewBcryptHasher(0)

	hashed, err := hasher.Hash("a long enough password")
	require.NoError(t, err)
	assert.NoError(t, hasher.Compare(hashed, "a long enough password"))
}
