package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"agora/domain"
)

const CookieName = "Authorization"

type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

type UserLoader interface {
	GetByID(ctx context.Context, id string) (domain.User, error)
}

// Sessions issues and resolves the signed session cookie. The cookie only
// carries a reference to the user; the record itself is loaded from the
// store on every request.
type Sessions struct {
	key    []byte
	ttl    time.Duration
	secure bool
	users  UserLoader
}

func NewSessions(secret string, ttl time.Duration, secure bool, users UserLoader) *Sessions {
	return &Sessions{key: []byte(secret), ttl: ttl, secure: secure, users: users}
}

func (s *Sessions) Issue(u domain.User) (*http.Cookie, error) {
	if len(s.key) == 0 {
		return nil, errors.New("missing secret")
	}
	now := time.Now()
	exp := now.Add(s.ttl)
	claims := Claims{
		UserID: u.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return nil, fmt.Errorf("signing session token: %w", err)
	}

	cookie := s.cookie()
	cookie.Value = signed
	cookie.Expires = exp
	return cookie, nil
}

func (s *Sessions) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// LoadIdentity resolves the user referenced by a valid session. A reference
// to a user that no longer exists is reported as domain.ErrNotFound rather
// than degraded to an anonymous identity.
func (s *Sessions) LoadIdentity(ctx context.Context, claims *Claims) (domain.Identity, error) {
	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Anonymous(), fmt.Errorf("invalid session: %w", err)
		}
		return domain.Anonymous(), err
	}
	return domain.Authenticated(u), nil
}

func (s *Sessions) Clear() *http.Cookie {
	cookie := s.cookie()
	cookie.Expires = time.Now().Add(-1 * time.Second)
	cookie.MaxAge = -1
	return cookie
}

func (s *Sessions) cookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
