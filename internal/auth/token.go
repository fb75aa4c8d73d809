// Package auth issues and verifies the guest bearer tokens that bind an
// identity to a room.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/dkeye/Lobby/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenTTL = 12 * time.Hour

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims carries the identity tuple the chat core consumes.
type Claims struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
	Room     string `json:"room"`
	jwt.RegisteredClaims
}

// Verifier turns a bearer token into a verified identity.
type Verifier interface {
	Verify(token string) (domain.Identity, error)
}

// Issued is a freshly signed token and its lifetime.
type Issued struct {
	Token     string
	ExpiresAt time.Time
	TTL       time.Duration
}

type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for id in its room.
func (s *TokenService) Issue(id domain.Identity) (Issued, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := Claims{
		UID:      string(id.User.ID),
		Username: id.User.Username,
		Room:     string(id.Room),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(id.User.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Issued{}, err
	}
	return Issued{Token: token, ExpiresAt: exp, TTL: s.ttl}, nil
}

func (s *TokenService) Verify(tokenString string) (domain.Identity, error) {
	if strings.TrimSpace(tokenString) == "" {
		return domain.Identity{}, ErrMissingToken
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Identity{}, ErrExpiredToken
		}
		return domain.Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return domain.Identity{}, ErrInvalidToken
	}
	uid := domain.UserID(claims.UID)
	if uid.Validate() != nil || claims.Username == "" || claims.Room == "" {
		return domain.Identity{}, ErrInvalidToken
	}
	return domain.NewIdentity(uid, claims.Username, domain.RoomName(claims.Room)), nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) string {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
