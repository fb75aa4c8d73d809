package auth

import (
	"testing"
	"time"

	"github.com/dkeye/Lobby/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identity() domain.Identity {
	return domain.NewIdentity("3f1c2d4e-0000-4000-8000-000000000001", "guest-3f1c2d", "lobby")
}

func TestTokenServiceIssueAndVerify(t *testing.T) {
	s := NewTokenService("test-secret", time.Hour)

	issued, err := s.Issue(identity())
	require.NoError(t, err)
	assert.NotEmpty(t, issued.Token)
	assert.Equal(t, time.Hour, issued.TTL)

	got, err := s.Verify(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, identity(), got)
}

func TestTokenServiceVerifyErrors(t *testing.T) {
	s := NewTokenService("test-secret", time.Hour)
	issued, err := s.Issue(identity())
	require.NoError(t, err)

	other := NewTokenService("other-secret", time.Hour)

	tests := []struct {
		name    string
		svc     *TokenService
		token   string
		wantErr error
	}{
		{name: "missing", svc: s, token: "", wantErr: ErrMissingToken},
		{name: "garbage", svc: s, token: "not-a-jwt", wantErr: ErrInvalidToken},
		{name: "wrong secret", svc: other, token: issued.Token, wantErr: ErrInvalidToken},
		{name: "tampered", svc: s, token: issued.Token + "x", wantErr: ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.svc.Verify(tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTokenServiceExpired(t *testing.T) {
	s := NewTokenService("test-secret", time.Minute)
	start := time.Now()
	s.now = func() time.Time { return start }

	issued, err := s.Issue(identity())
	require.NoError(t, err)

	s.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = s.Verify(issued.Token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenServiceRejectsIncompleteClaims(t *testing.T) {
	s := NewTokenService("test-secret", time.Hour)
	claims := Claims{
		UID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenServiceRequiresExpiry(t *testing.T) {
	s := NewTokenService("test-secret", time.Hour)
	claims := Claims{UID: "u1", Username: "n", Room: "lobby"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer  abc "))
	assert.Equal(t, "", BearerToken("Basic abc"))
	assert.Equal(t, "", BearerToken(""))
}
