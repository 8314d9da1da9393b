package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/medistore/medistore-backend/pkg/config"
	"github.com/medistore/medistore-backend/pkg/enums"
)

var testJWT = config.JWTConfig{
	Secret:            "secret",
	Issuer:            "medistore",
	ExpirationMinutes: 30,
}

func TestMintAndParseAccessToken(t *testing.T) {
	now := time.Now().UTC()
	userID := uuid.New()

	token, minted, err := MintAccessToken(testJWT, now, AccessTokenPayload{UserID: userID, Role: enums.UserRoleSeller, JTI: "session-1"})
	require.NoError(t, err)
	require.Equal(t, "session-1", minted.ID)

	claims, err := ParseAccessToken(testJWT, token)
	require.NoError(t, err)
	require.Equal(t, userID, claims.UserID)
	require.Equal(t, enums.UserRoleSeller, claims.Role)
	require.Equal(t, "session-1", claims.ID)
	require.Equal(t, userID.String(), claims.Subject)
	require.WithinDuration(t, now.Add(30*time.Minute), claims.ExpiresAt.Time, time.Second)
}

func TestMintGeneratesJTI(t *testing.T) {
	_, claims, err := MintAccessToken(testJWT, time.Now(), AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRoleCustomer})
	require.NoError(t, err)
	_, err = uuid.Parse(claims.ID)
	require.NoError(t, err)
}

func TestMintRejectsInvalidInput(t *testing.T) {
	_, _, err := MintAccessToken(testJWT, time.Now(), AccessTokenPayload{UserID: uuid.New(), Role: "PHARMACIST"})
	require.Error(t, err)

	_, _, err = MintAccessToken(testJWT, time.Now(), AccessTokenPayload{Role: enums.UserRoleAdmin})
	require.Error(t, err)

	_, _, err = MintAccessToken(config.JWTConfig{Issuer: "x", ExpirationMinutes: 1}, time.Now(), AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRoleAdmin})
	require.Error(t, err)
}

func TestParseRejectsExpiredAndTampered(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	expired, _, err := MintAccessToken(testJWT, past, AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRoleCustomer})
	require.NoError(t, err)
	_, err = ParseAccessToken(testJWT, expired)
	require.Error(t, err)

	valid, _, err := MintAccessToken(testJWT, time.Now(), AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRoleCustomer})
	require.NoError(t, err)

	other := testJWT
	other.Secret = "different"
	_, err = ParseAccessToken(other, valid)
	require.Error(t, err)

	otherIssuer := testJWT
	otherIssuer.Issuer = "someone-else"
	_, err = ParseAccessToken(otherIssuer, valid)
	require.Error(t, err)

	parts := strings.Split(valid, ".")
	require.Len(t, parts, 3)
	_, err = ParseAccessToken(testJWT, parts[0]+"."+parts[1]+".bogus")
	require.Error(t, err)
}
