package crypto

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("portal-admin-pass")
	require.NoError(t, err)
	require.NotEqual(t, "portal-admin-pass", hash)

	require.True(t, VerifyPassword(hash, "portal-admin-pass"))
	require.False(t, VerifyPassword(hash, "wrong-pass"))
}

func TestGenerateTokenLengthAndUniqueness(t *testing.T) {
	a, err := GenerateToken(32)
	require.NoError(t, err)
	b, err := GenerateToken(32)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestGenerateNumericCodeWidth(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateNumericCode(6)
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 100000)
		require.LessOrEqual(t, n, 999999)
	}
}

func TestGenerateNumericCodeRejectsBadWidths(t *testing.T) {
	_, err := GenerateNumericCode(2)
	require.Error(t, err)

	_, err = GenerateNumericCode(12)
	require.Error(t, err)
}
