package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_BcryptHasher(t *testing.T) {
	t.Parallel()

	h := BcryptHasher{}

	t.Run("produces bcrypt hash", func(t *testing.T) {
		got, err := h.Hash("correct horse battery staple")
		require.NoError(t, err)

		require.Len(t, got, 60, "bcrypt output is always 60 chars")
		require.Equal(t, "$2a$", got[:4], "bcrypt hash starts with the '$2a$' marker")
	})

	t.Run("compare matches original password", func(t *testing.T) {
		hash, err := h.Hash("correct horse battery staple")
		require.NoError(t, err)

		require.NoError(t, h.Compare(hash, "correct horse battery staple"))
	})

	t.Run("compare rejects wrong password", func(t *testing.T) {
		hash, err := h.Hash("correct horse battery staple")
		require.NoError(t, err)

		require.Error(t, h.Compare(hash, "incorrect horse"))
	})

	t.Run("passwords over bcrypt 72 byte limit still work", func(t *testing.T) {
		long := strings.Repeat("a", 100)

		hash, err := h.Hash(long)
		require.NoError(t, err, "sha256 prehash should keep bcrypt happy")

		require.NoError(t, h.Compare(hash, long))
		require.Error(t, h.Compare(hash, long+"b"), "sha256 prehash must not truncate long passwords")
	})
}
