package service

import (
	"context"
	"testing"

	"notesapi/internal/auth"
	dom "notesapi/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users     map[string]dom.User
	createErr error
	confirmed []string
	tokens    map[int64]string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]dom.User{}, tokens: map[int64]string{}}
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (dom.User, error) {
	u, ok := f.users[email]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserRepo) Create(_ context.Context, username, email, passwordHash string) (dom.User, error) {
	if f.createErr != nil {
		return dom.User{}, f.createErr
	}
	u := dom.User{ID: int64(len(f.users) + 1), Username: username, Email: email, PasswordHash: passwordHash}
	f.users[email] = u
	return u, nil
}

func (f *fakeUserRepo) UpdateRefreshToken(_ context.Context, userID int64, token string) error {
	f.tokens[userID] = token
	return nil
}

func (f *fakeUserRepo) ConfirmEmail(_ context.Context, email string) error {
	f.confirmed = append(f.confirmed, email)
	return nil
}

func newTestUserService(r *fakeUserRepo) *UserService {
	return NewUserService(r, auth.NewHasher(bcrypt.MinCost))
}

func seedUser(t *testing.T, s *UserService, r *fakeUserRepo, email, password string, confirmed bool) dom.User {
	t.Helper()
	u, err := s.Register(context.Background(), "testuser", email, password)
	require.NoError(t, err)
	u.Confirmed = confirmed
	r.users[email] = u
	return u
}

func TestUserService_ValidateCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)
	seedUser(t, svc, repo, "a@b.com", "password1", true)

	u, err := svc.ValidateCredentials(context.Background(), "a@b.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", u.Email)

	// Email lookup is case-insensitive.
	_, err = svc.ValidateCredentials(context.Background(), "A@B.com", "password1")
	assert.NoError(t, err)
}

func TestUserService_ValidateCredentials_Failures(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)
	seedUser(t, svc, repo, "a@b.com", "password1", true)
	seedUser(t, svc, repo, "new@b.com", "password2", false)

	// Unknown email and wrong password are indistinguishable.
	_, err := svc.ValidateCredentials(context.Background(), "nobody@b.com", "password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.ValidateCredentials(context.Background(), "a@b.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.ValidateCredentials(context.Background(), "a@b.com", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.ValidateCredentials(context.Background(), "new@b.com", "password2")
	assert.ErrorIs(t, err, ErrEmailNotConfirmed)
}

func TestUserService_Register_HashesPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)

	u, err := svc.Register(context.Background(), "alice", "A@B.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", u.Email)
	assert.NotEqual(t, "password1", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password1")))
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	repo.createErr = &pgconn.PgError{Code: "23505"}
	svc := newTestUserService(repo)

	_, err := svc.Register(context.Background(), "alice", "a@b.com", "password1")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserService_ConfirmEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)
	seedUser(t, svc, repo, "a@b.com", "password1", false)
	seedUser(t, svc, repo, "done@b.com", "password1", true)

	already, err := svc.ConfirmEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.False(t, already)
	assert.Equal(t, []string{"a@b.com"}, repo.confirmed)

	already, err = svc.ConfirmEmail(context.Background(), "done@b.com")
	require.NoError(t, err)
	assert.True(t, already)

	_, err = svc.ConfirmEmail(context.Background(), "nobody@b.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_RefreshTokenBookkeeping(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)
	u := seedUser(t, svc, repo, "a@b.com", "password1", true)

	require.NoError(t, svc.StoreRefreshToken(context.Background(), u.ID, "tok-1"))
	assert.Equal(t, "tok-1", repo.tokens[u.ID])

	// Only one refresh token per user; storing replaces the previous one.
	require.NoError(t, svc.StoreRefreshToken(context.Background(), u.ID, "tok-2"))
	assert.Equal(t, "tok-2", repo.tokens[u.ID])

	require.NoError(t, svc.ClearRefreshToken(context.Background(), u.ID))
	assert.Equal(t, "", repo.tokens[u.ID])
}
