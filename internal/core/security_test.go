// AngelaMos | 2026
// security_test.go

package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/hotel-maintenance/internal/config"
	"github.com/carterperez-dev/hotel-maintenance/internal/core"
)

var cheap = core.Argon2Params{Memory: 1024, Time: 1, Threads: 1, KeyLen: 32}

func TestPasswordHasher_RoundTrip(t *testing.T) {
	t.Parallel()

	h := core.NewPasswordHasher(cheap)

	encoded, err := h.Hash("boiler-room-key")
	require.NoError(t, err)
	require.Contains(t, encoded, "$argon2id$v=19$m=1024,t=1,p=1$")

	ok, rehash, err := h.Verify("boiler-room-key", encoded)
	require.NoError(t, err)
	require.True(t, ok)
	require.Empty(t, rehash)

	ok, _, err = h.Verify("wrong", encoded)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPasswordHasher_RehashOnParamChange(t *testing.T) {
	t.Parallel()

	old, err := core.NewPasswordHasher(cheap).Hash("linen-closet")
	require.NoError(t, err)

	stronger := cheap
	stronger.Time = 2
	ok, rehash, err := core.NewPasswordHasher(stronger).Verify("linen-closet", old)
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, rehash, ",t=2,")
}

func TestPasswordHasher_Malformed(t *testing.T) {
	t.Parallel()

	h := core.NewPasswordHasher(cheap)
	for _, encoded := range []string{
		"",
		"plain",
		"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=1$m=1,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=x$c2FsdA$a2V5",
		"$argon2id$v=19$m=1,t=1,p=1$!!!$a2V5",
	} {
		_, _, err := h.Verify("pw", encoded)
		require.ErrorIs(t, err, core.ErrMalformedHash, encoded)
	}
}

func TestPasswordHasher_DecoyNeverMatches(t *testing.T) {
	t.Parallel()

	h := core.NewPasswordHasher(cheap)

	ok, rehash, err := h.VerifyOrDecoy("decoy", nil)
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, rehash)

	empty := ""
	ok, _, err = h.VerifyOrDecoy("decoy", &empty)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestParamsFromConfig(t *testing.T) {
	t.Parallel()

	p := core.ParamsFromConfig(config.PasswordConfig{MemoryKiB: 2048, Iterations: 3, Parallelism: 2})
	require.Equal(t, core.Argon2Params{Memory: 2048, Time: 3, Threads: 2, KeyLen: 32}, p)
}

func TestHashToken(t *testing.T) {
	t.Parallel()

	require.Equal(t, core.HashToken("abc"), core.HashToken("abc"))
	require.NotEqual(t, core.HashToken("abc"), core.HashToken("abd"))
	require.Len(t, core.HashToken("abc"), 64)

	tok, err := core.GenerateRefreshToken()
	require.NoError(t, err)
	require.Len(t, tok, 43)
}
