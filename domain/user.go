package domain

import (
	"time"
)

type AccessLevel int

const (
	AccessGuest AccessLevel = 0
	AccessUser  AccessLevel = 1
	AccessAdmin AccessLevel = 2
)

func (a AccessLevel) String() string {
	switch a {
	case AccessGuest:
		return "guest"
	case AccessUser:
		return "user"
	case AccessAdmin:
		return "admin"
	}
	return "unknown"
}

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Access       AccessLevel
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u User) IsAdmin() bool {
	return u.Access == AccessAdmin
}

// UserField names a column that is unique across users.
type UserField string

const (
	UserFieldUsername UserField = "username"
	UserFieldEmail    UserField = "email"
)
