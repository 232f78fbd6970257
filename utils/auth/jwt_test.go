package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidate(t *testing.T) {
	m := NewJWTManager(JWTConfig{Secret: "s3cret", Issuer: "bursary-hub-api", Expiry: time.Minute})

	token, jti, err := m.IssueToken("sub-1", "a@example.com", "Ama", "student")
	require.NoError(t, err)
	assert.NotEmpty(t, jti)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "sub-1", claims.Subject)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, "student", claims.Role)
	assert.Equal(t, jti, claims.ID)
}

func TestValidateRejects(t *testing.T) {
	m := NewJWTManager(JWTConfig{Secret: "s3cret", Issuer: "bursary-hub-api"})

	otherKey := NewJWTManager(JWTConfig{Secret: "other", Issuer: "bursary-hub-api"})
	forged, _, err := otherKey.IssueToken("sub-1", "", "", "staff")
	require.NoError(t, err)
	_, err = m.ValidateToken(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	otherIssuer := NewJWTManager(JWTConfig{Secret: "s3cret", Issuer: "someone-else"})
	foreign, _, err := otherIssuer.IssueToken("sub-1", "", "", "student")
	require.NoError(t, err)
	_, err = m.ValidateToken(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewJWTManager(JWTConfig{Secret: "s3cret", Issuer: "bursary-hub-api", Expiry: -time.Minute})
	old, _, err := expired.IssueToken("sub-1", "", "", "student")
	require.NoError(t, err)
	_, err = m.ValidateToken(old)
	assert.ErrorIs(t, err, ErrExpiredToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "sub-1",
		Issuer:    "bursary-hub-api",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.ValidateToken(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
