package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/moonwatch/pkg/errors"
)

func TestIssuerRoundTrip(t *testing.T) {
	issuer, err := NewIssuer(Config{Secret: "s3cret", TTL: time.Hour})
	require.NoError(t, err)

	id, token, err := issuer.New()
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := issuer.Parse(token)
	require.NoError(t, err)
	require.Equal(t, id, got)
}

func TestIssuerRejectsForeignAndExpiredTokens(t *testing.T) {
	issuer, err := NewIssuer(Config{Secret: "s3cret", TTL: time.Minute})
	require.NoError(t, err)
	other, err := NewIssuer(Config{Secret: "different", TTL: time.Minute})
	require.NoError(t, err)

	_, foreign, err := other.New()
	require.NoError(t, err)
	_, err = issuer.Parse(foreign)
	require.True(t, apperrors.IsCode(err, apperrors.CodeSessionError))

	_, token, err := issuer.New()
	require.NoError(t, err)
	issuer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = issuer.Parse(token)
	require.Error(t, err)

	_, err = issuer.Parse("  ")
	require.Error(t, err)
}

func TestIssuerRejectsNonUUIDSubject(t *testing.T) {
	issuer, err := NewIssuer(Config{Secret: "s3cret", TTL: time.Minute})
	require.NoError(t, err)
	token, err := issuer.Issue("not-a-uuid")
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	require.ErrorContains(t, err, "session id malformed")
}

func TestIssuerRejectsOtherAlgorithms(t *testing.T) {
	issuer, err := NewIssuer(Config{Secret: "s3cret", TTL: time.Minute})
	require.NoError(t, err)
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   "9b2f4c4e-4c59-4c1c-9a0e-2f0f8f3f7c11",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = issuer.Parse(unsigned)
	require.Error(t, err)
}

func TestNewIssuerValidates(t *testing.T) {
	_, err := NewIssuer(Config{TTL: time.Minute})
	require.Error(t, err)
	_, err = NewIssuer(Config{Secret: "x"})
	require.Error(t, err)
}
