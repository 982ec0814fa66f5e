package user

import "context"

// Repository persists user accounts.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) error
	TouchLogin(ctx context.Context, id string) error
}

//Personal.AI order the ending
