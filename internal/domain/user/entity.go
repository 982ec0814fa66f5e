// Package user holds the accounts that can sign in. Accounts only provide an
// attribution identity; they carry no roles.
package user

import (
	"strings"
	"time"

	"github.com/turtacn/CoalTransition-Atlas/pkg/types/common"
)

// User is a row of the users table.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Identity returns the attribution identity of u.
func (u *User) Identity() common.Identity {
	name := strings.TrimSpace(u.Name)
	if name == "" {
		name = strings.SplitN(u.Email, "@", 2)[0]
	}
	return common.Identity{
		Email:    u.Email,
		Name:     name,
		Initials: common.InitialsFor(name),
	}
}

// NormalizeEmail lower-cases and trims an address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

//Personal.AI order the ending
