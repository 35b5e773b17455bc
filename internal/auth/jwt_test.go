package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "testsecretkeyforjwtauthentication"

func TestResetTokenCodec_IssueAndVerify(t *testing.T) {
	codec := NewResetTokenCodec(testSecret, time.Hour)

	token, err := codec.Issue("uid-123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "uid-123", claims.UID)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestResetTokenCodec_TokensIssuedTogetherDiffer(t *testing.T) {
	fixed := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	codec := NewResetTokenCodec(testSecret, time.Hour, WithClock(func() time.Time { return fixed }))

	first, err := codec.Issue("uid-1")
	require.NoError(t, err)
	second, err := codec.Issue("uid-1")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestResetTokenCodec_Expired(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	codec := NewResetTokenCodec(testSecret, time.Hour, WithClock(func() time.Time { return now }))

	token, err := codec.Issue("uid-1")
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.NotErrorIs(t, err, ErrInvalidToken)
}

func TestResetTokenCodec_InvalidSignature(t *testing.T) {
	token, err := NewResetTokenCodec(testSecret, time.Hour).Issue("uid-1")
	require.NoError(t, err)

	_, err = NewResetTokenCodec("wrongsecretkey", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Contains(t, err.Error(), "signature is invalid")
}

func TestResetTokenCodec_Malformed(t *testing.T) {
	codec := NewResetTokenCodec(testSecret, time.Hour)
	for _, raw := range []string{"not-a-token", "", "a.b.c"} {
		_, err := codec.Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken, raw)
		assert.NotErrorIs(t, err, ErrExpiredToken, raw)
	}
}

func TestResetTokenCodec_RejectsOtherAlgorithms(t *testing.T) {
	claims := ResetClaims{
		UID: "uid-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewResetTokenCodec(testSecret, time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResetTokenCodec_SecretMissingFailsOnUse(t *testing.T) {
	codec := NewResetTokenCodec("", 0)
	require.NotNil(t, codec)

	_, err := codec.Issue("uid-1")
	assert.ErrorIs(t, err, ErrSecretNotConfigured)
	_, err = codec.Verify("whatever")
	assert.ErrorIs(t, err, ErrSecretNotConfigured)
}

func TestSessionTokens(t *testing.T) {
	sessions := NewSessionTokens(testSecret, time.Hour)

	token, err := sessions.GenerateToken("uid-9", "sessao@example.com")
	require.NoError(t, err)
	assert.Equal(t, 3, len(strings.Split(token, ".")))

	claims, err := sessions.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "uid-9", claims.UID)
	assert.Equal(t, "sessao@example.com", claims.Email)
	assert.Equal(t, "doefood", claims.Issuer)

	_, err = NewSessionTokens("wrongsecretkey", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	sessions.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = sessions.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
