package security_test

import (
	"testing"

	"github.com/medistore/medistore-backend/pkg/config"
	"github.com/medistore/medistore-backend/pkg/security"
	"github.com/stretchr/testify/require"
)

var testCfg = config.PasswordConfig{
	ArgonMemoryKB:    32768,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := security.HashPassword("very-secure-password", testCfg)
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	ok, err := security.VerifyPassword("very-secure-password", hash)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = security.VerifyPassword("bogus-password", hash)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	_, err := security.VerifyPassword("pw", "$bcrypt$nope")
	require.ErrorIs(t, err, security.ErrInvalidHash)

	_, err = security.VerifyPassword("pw", "$argon2id$v=19$m=x,t=1,p=1$c2FsdA$aGFzaA")
	require.ErrorIs(t, err, security.ErrInvalidHash)
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := security.HashPassword("", testCfg)
	require.Error(t, err)
}

func TestCheckPolicy(t *testing.T) {
	require.Error(t, security.CheckPolicy("12345"))
	require.NoError(t, security.CheckPolicy("123456"))
}

func TestNeedsRehash(t *testing.T) {
	hash, err := security.HashPassword("secret-pass", testCfg)
	require.NoError(t, err)
	require.False(t, security.NeedsRehash(hash, testCfg))

	stronger := testCfg
	stronger.ArgonTime = 3
	require.True(t, security.NeedsRehash(hash, stronger))
	require.True(t, security.NeedsRehash("garbage", testCfg))
}
