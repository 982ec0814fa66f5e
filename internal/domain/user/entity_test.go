package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_Identity(t *testing.T) {
	u := &User{Email: "ada@example.org", Name: "Ada Lovelace"}
	id := u.Identity()
	assert.Equal(t, "Ada Lovelace", id.Name)
	assert.Equal(t, "AL", id.Initials)
	assert.Equal(t, "ada@example.org", id.Email)
}

func TestUser_Identity_FallsBackToMailbox(t *testing.T) {
	u := &User{Email: "grace@example.org"}
	id := u.Identity()
	assert.Equal(t, "grace", id.Name)
	assert.Equal(t, "G", id.Initials)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ada@example.org", NormalizeEmail("  Ada@Example.org "))
}

//Personal.AI order the ending
