package users

import (
	"net/mail"
	"strings"

	apperrors "github.com/jrsteele09/go-todo-web/internal/errors"
	"github.com/jrsteele09/go-todo-web/internal/timestamp"
)

// User is the account returned by the API. It is never mutated client-side.
// ID is the server's UUID in string form; absent names arrive as null.
type User struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	CreatedAt timestamp.Time `json:"created_at"`
}

// DisplayName returns "First Last" when either name is known, otherwise the email.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// Profile is the registration request.
type Profile struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Normalize trims the free-text fields. The password is left untouched.
func (p Profile) Normalize() Profile {
	p.Email = strings.TrimSpace(p.Email)
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	return p
}

// Validate checks the fields the API would reject anyway, so the form can
// fail without a round trip. Password rules are left to the server.
func (p Profile) Validate() error {
	p = p.Normalize()
	if p.Email == "" {
		return apperrors.Validation("email is required")
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return apperrors.Validation("email address is not valid")
	}
	if p.Password == "" {
		return apperrors.Validation("password is required")
	}
	return nil
}

// Credentials is the login request.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Email) == "" || c.Password == "" {
		return apperrors.Validation("email and password are required")
	}
	return nil
}
