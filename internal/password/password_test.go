package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	t.Parallel()

	digest, err := Hash("Abcd1234!")
	require.NoError(t, err)
	require.NotEqual(t, "Abcd1234!", digest)
	require.True(t, strings.HasPrefix(digest, "$2"), "expected a bcrypt digest, got %q", digest)

	require.True(t, Verify("Abcd1234!", digest))
	require.False(t, Verify("Abcd1234?", digest))
	require.False(t, Verify("", digest))
}

func TestVerifyGarbageDigest(t *testing.T) {
	t.Parallel()

	require.False(t, Verify("Abcd1234!", "not-a-digest"))
	require.False(t, Verify("Abcd1234!", ""))
}

func TestHashIsSalted(t *testing.T) {
	t.Parallel()

	first, err := Hash("Abcd1234!")
	require.NoError(t, err)
	second, err := Hash("Abcd1234!")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}
