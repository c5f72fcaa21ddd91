package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"agora/domain"
)

type fakeUsers map[string]domain.User

func (f fakeUsers) GetByID(_ context.Context, id string) (domain.User, error) {
	u, ok := f[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func TestSessionRoundTrip(t *testing.T) {
	users := fakeUsers{"u1": {ID: "u1", Username: "alice", Access: domain.AccessUser}}
	s := NewSessions("secret", time.Hour, true, users)

	cookie, err := s.Issue(users["u1"])
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if cookie.Name != CookieName || !cookie.HttpOnly || !cookie.Secure || cookie.Path != "/" {
		t.Fatalf("unexpected cookie attributes: %+v", cookie)
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("cookie must be SameSite=Lax")
	}

	claims, err := s.Parse(cookie.Value)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "u1" || claims.ID == "" {
		t.Fatalf("unexpected claims %+v", claims)
	}

	id, err := s.LoadIdentity(context.Background(), claims)
	if err != nil {
		t.Fatalf("load identity: %v", err)
	}
	if id.Username() != "alice" || id.IsAdmin() {
		t.Fatalf("unexpected identity %+v", id)
	}
}

func TestSessionRejectsForeignTokens(t *testing.T) {
	s := NewSessions("secret", time.Hour, false, fakeUsers{})
	other := NewSessions("other", time.Hour, false, fakeUsers{})

	cookie, err := other.Issue(domain.User{ID: "u1"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Parse(cookie.Value); err == nil {
		t.Fatalf("token signed with another key accepted")
	}
	if _, err := s.Parse("not-a-token"); err == nil {
		t.Fatalf("garbage token accepted")
	}
}

func TestSessionExpired(t *testing.T) {
	s := NewSessions("secret", time.Hour, false, fakeUsers{})
	claims := Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Parse(token); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected expired token error, got %v", err)
	}
}

func TestSessionWithoutExpiry(t *testing.T) {
	s := NewSessions("secret", time.Hour, false, fakeUsers{})
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "u1"}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Parse(token); err == nil {
		t.Fatalf("token without expiry accepted")
	}
}

func TestLoadIdentityMissingUser(t *testing.T) {
	s := NewSessions("secret", time.Hour, false, fakeUsers{})
	_, err := s.LoadIdentity(context.Background(), &Claims{UserID: "gone"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a session of a deleted user, got %v", err)
	}
}

func TestIssueWithoutSecret(t *testing.T) {
	s := NewSessions("", time.Hour, false, fakeUsers{})
	if _, err := s.Issue(domain.User{ID: "u1"}); err == nil {
		t.Fatalf("issuing without a secret must fail")
	}
}

func TestClearCookie(t *testing.T) {
	s := NewSessions("secret", time.Hour, false, fakeUsers{})
	c := s.Clear()
	if c.Name != CookieName || c.Value != "" || c.MaxAge >= 0 {
		t.Fatalf("clear cookie must expire the session cookie: %+v", c)
	}
}
