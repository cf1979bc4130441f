package cfp

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is a speaker account. Email doubles as the login.
type User struct {
	ID        int       `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Password  string    `json:"-"`
	Admin     bool      `json:"admin"`
}

func (u *User) IsAuthed() bool {
	return u != nil && u.ID != 0
}

func (u *User) IsAdmin() bool {
	return u.IsAuthed() && u.Admin
}

// CanView reports whether the user may look at the given talk.
func (u *User) CanView(talk *Talk) bool {
	if !u.IsAuthed() || talk == nil {
		return false
	}
	return u.Admin || talk.UserID == u.ID
}

// UserFilter is the struct with all filterable fields on the user
type UserFilter struct {
	ID *int `json:"id"`

	// Email is case insensitive
	Email     *string `json:"email"`
	SessionID *string `json:"-"`

	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), err
}
