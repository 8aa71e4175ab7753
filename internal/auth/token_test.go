package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	svc := NewTokenService("super-secret", time.Hour)
	tok, err := svc.Issue("user-123")
	require.NoError(t, err)

	got, err := svc.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", got)
}

func TestIssue_PayloadShape(t *testing.T) {
	t.Parallel()

	svc := NewTokenService("super-secret", 0)
	tok, err := svc.Issue("abc")
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok, claims)
	require.NoError(t, err)

	user, ok := claims["user"].(map[string]any)
	require.True(t, ok, "user claim must be an object")
	assert.Equal(t, "abc", user["id"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	iat, err := claims.GetIssuedAt()
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenTTL, exp.Sub(iat.Time))
}

func TestIssue_MissingSecret(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService("", time.Hour).Issue("abc")
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestVerify_Failures(t *testing.T) {
	t.Parallel()

	svc := NewTokenService("right-secret", time.Hour)
	other, err := NewTokenService("wrong-secret", time.Hour).Issue("u1")
	require.NoError(t, err)
	past := NewTokenService("right-secret", time.Hour)
	past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := past.Issue("u1")
	require.NoError(t, err)

	noneAlg := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{User: ClaimsUser{ID: "u1"}})
	unsigned, err := noneAlg.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	emptyUser := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	noID, err := emptyUser.SignedString([]byte("right-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"Wrong Secret", other},
		{"Expired", expired},
		{"Malformed", "malformed.token.here"},
		{"Empty", ""},
		{"None Algorithm", unsigned},
		{"Missing User", noID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestUserIDContext(t *testing.T) {
	t.Parallel()

	_, ok := UserIDFrom(context.Background())
	assert.False(t, ok)

	id, ok := UserIDFrom(WithUserID(context.Background(), "u1"))
	assert.True(t, ok)
	assert.Equal(t, "u1", id)
}
