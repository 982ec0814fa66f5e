package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/turtacn/CoalTransition-Atlas/internal/domain/user"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/common"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *mockUserRepository) Create(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepository) TouchLogin(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type stubIssuer struct{ exp time.Time }

func (s stubIssuer) Issue(id common.Identity) (string, time.Time, error) {
	return "token-for-" + id.Email, s.exp, nil
}

type attempts struct{ ok, failed []string }

func (a *attempts) RecordAuthAttempt(success bool, reason string) {
	if success {
		a.ok = append(a.ok, reason)
		return
	}
	a.failed = append(a.failed, reason)
}

func hashed(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestLogin_Success(t *testing.T) {
	repo := &mockUserRepository{}
	rec := &attempts{}
	exp := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	svc := NewService(repo, stubIssuer{exp: exp}, logging.NewNopLogger(), WithAttemptRecorder(rec))

	repo.On("GetByEmail", mock.Anything, "ada@example.org").
		Return(&user.User{ID: "u1", Email: "ada@example.org", Name: "Ada Lovelace", PasswordHash: hashed(t, "analytical")}, nil)
	repo.On("TouchLogin", mock.Anything, "u1").Return(assert.AnError)

	res, err := svc.Login(context.Background(), " Ada@Example.org ", "analytical")
	require.NoError(t, err)
	assert.Equal(t, "token-for-ada@example.org", res.Token)
	assert.Equal(t, exp, res.ExpiresAt)
	assert.Equal(t, "AL", res.Identity.Initials)
	assert.Len(t, rec.ok, 1)
	repo.AssertExpectations(t)
}

func TestLogin_Failures(t *testing.T) {
	repo := &mockUserRepository{}
	rec := &attempts{}
	svc := NewService(repo, stubIssuer{}, logging.NewNopLogger(), WithAttemptRecorder(rec))

	repo.On("GetByEmail", mock.Anything, "ghost@example.org").Return(nil, errors.NotFound("user not found"))
	repo.On("GetByEmail", mock.Anything, "ada@example.org").
		Return(&user.User{ID: "u1", Email: "ada@example.org", PasswordHash: hashed(t, "analytical")}, nil)
	repo.On("GetByEmail", mock.Anything, "down@example.org").Return(nil, errors.New(errors.ErrCodeDatabaseError, "db down"))

	_, err := svc.Login(context.Background(), "ghost@example.org", "whatever")
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidCredentials))

	_, err = svc.Login(context.Background(), "ada@example.org", "wrong")
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidCredentials))

	_, err = svc.Login(context.Background(), "down@example.org", "x")
	assert.True(t, errors.IsCode(err, errors.ErrCodeDatabaseError))

	_, err = svc.Login(context.Background(), "", "x")
	assert.True(t, errors.IsValidation(err))

	assert.Equal(t, []string{"unknown_email", "bad_password"}, rec.failed)
	repo.AssertNotCalled(t, "TouchLogin", mock.Anything, mock.Anything)
}

func TestRegister(t *testing.T) {
	repo := &mockUserRepository{}
	svc := NewService(repo, stubIssuer{}, logging.NewNopLogger(), WithBcryptCost(bcrypt.MinCost))

	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *user.User) bool {
		return u.Email == "new@example.org" && u.Name == "New Person" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("long-enough")) == nil
	})).Return(nil)

	u, err := svc.Register(context.Background(), "New@Example.org", " New Person ", "long-enough")
	require.NoError(t, err)
	assert.Equal(t, "new@example.org", u.Email)

	_, err = svc.Register(context.Background(), "not-an-email", "x", "long-enough")
	assert.True(t, errors.IsValidation(err))
	_, err = svc.Register(context.Background(), "a@b.c", "x", "short")
	assert.True(t, errors.IsValidation(err))
}

func TestEnsureUser(t *testing.T) {
	repo := &mockUserRepository{}
	svc := NewService(repo, stubIssuer{}, logging.NewNopLogger(), WithBcryptCost(bcrypt.MinCost))

	repo.On("GetByEmail", mock.Anything, "admin@example.org").Return(&user.User{ID: "u1"}, nil).Once()
	require.NoError(t, svc.EnsureUser(context.Background(), "admin@example.org", "Admin", "bootstrap-pw"))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	repo.On("GetByEmail", mock.Anything, "admin@example.org").Return(nil, errors.NotFound("user not found")).Once()
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.Conflict("user already exists")).Once()
	require.NoError(t, svc.EnsureUser(context.Background(), "admin@example.org", "Admin", "bootstrap-pw"))
}

//Personal.AI order the ending
