package domain

// Identity is the resolved caller of a request: either anonymous or an
// authenticated user. The zero value is anonymous.
type Identity struct {
	user *User
}

func Anonymous() Identity {
	return Identity{}
}

func Authenticated(u User) Identity {
	return Identity{user: &u}
}

func (i Identity) IsAuthenticated() bool {
	return i.user != nil
}

func (i Identity) IsAdmin() bool {
	return i.user != nil && i.user.IsAdmin()
}

func (i Identity) User() (User, bool) {
	if i.user == nil {
		return User{}, false
	}
	return *i.user, true
}

func (i Identity) Username() string {
	if i.user == nil {
		return ""
	}
	return i.user.Username
}
