package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	dom "notesapi/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	users map[string]dom.User
	calls int
	err   error
}

func (f *fakeStore) GetByEmail(_ context.Context, email string) (dom.User, error) {
	f.calls++
	if f.err != nil {
		return dom.User{}, f.err
	}
	u, ok := f.users[email]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

type fakeCache struct {
	entries map[string]dom.User
	getErr  error
	setErr  error
	sets    int
}

func (f *fakeCache) Get(_ context.Context, email string) (*dom.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.entries[email]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeCache) Set(_ context.Context, email string, u dom.User) error {
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[email] = u
	return nil
}

func newTestGateway(t *testing.T, store *fakeStore, cache *fakeCache) *Gateway {
	t.Helper()
	var uc UserCache
	if cache != nil {
		uc = cache
	}
	return NewGateway(newTestCodec(t), store, uc, time.Hour, 24*time.Hour)
}

func TestGateway_ResolveCurrentUser_CacheMissThenHit(t *testing.T) {
	store := &fakeStore{users: map[string]dom.User{
		"a@b.com": {ID: 1, Email: "a@b.com", Username: "alice", Confirmed: true},
	}}
	cache := &fakeCache{entries: map[string]dom.User{}}
	gw := newTestGateway(t, store, cache)

	access, _, err := gw.IssueTokenPair("a@b.com")
	require.NoError(t, err)

	u, err := gw.ResolveCurrentUser(context.Background(), access)
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	u, err = gw.ResolveCurrentUser(context.Background(), access)
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	// Second resolution within the TTL must be served from cache.
	assert.Equal(t, 1, store.calls)
	assert.Equal(t, 1, cache.sets)
}

func TestGateway_ResolveCurrentUser_UnknownUser(t *testing.T) {
	store := &fakeStore{users: map[string]dom.User{}}
	cache := &fakeCache{entries: map[string]dom.User{}}
	gw := newTestGateway(t, store, cache)

	// Correctly signed token for a user the store has never heard of (or
	// has since deleted) behaves like any other bad credential.
	access, _, err := gw.IssueTokenPair("ghost@b.com")
	require.NoError(t, err)

	_, err = gw.ResolveCurrentUser(context.Background(), access)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, 0, cache.sets)
}

func TestGateway_ResolveCurrentUser_TokenFailuresCollapse(t *testing.T) {
	store := &fakeStore{users: map[string]dom.User{
		"a@b.com": {ID: 1, Email: "a@b.com"},
	}}
	gw := newTestGateway(t, store, nil)

	_, refresh, err := gw.IssueTokenPair("a@b.com")
	require.NoError(t, err)

	cases := map[string]string{
		"garbage":           "not.a.jwt",
		"refresh as access": refresh,
		"empty":             "",
	}
	for name, tok := range cases {
		_, err := gw.ResolveCurrentUser(context.Background(), tok)
		assert.ErrorIs(t, err, ErrUnauthenticated, name)
	}
	// None of them may reach the store.
	assert.Equal(t, 0, store.calls)
}

func TestGateway_ResolveCurrentUser_ServesStaleSnapshot(t *testing.T) {
	store := &fakeStore{users: map[string]dom.User{
		"a@b.com": {ID: 1, Email: "a@b.com", Username: "alice"},
	}}
	cache := &fakeCache{entries: map[string]dom.User{}}
	gw := newTestGateway(t, store, cache)

	access, _, err := gw.IssueTokenPair("a@b.com")
	require.NoError(t, err)

	u, err := gw.ResolveCurrentUser(context.Background(), access)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	// The store-side record changes; nothing invalidates the cache. Within
	// the TTL the gateway keeps serving the old snapshot. Accepted
	// staleness window, not a bug.
	store.users["a@b.com"] = dom.User{ID: 1, Email: "a@b.com", Username: "renamed"}

	u, err = gw.ResolveCurrentUser(context.Background(), access)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, 1, store.calls)
}

func TestGateway_ResolveCurrentUser_CacheErrorFailsClosed(t *testing.T) {
	store := &fakeStore{users: map[string]dom.User{
		"a@b.com": {ID: 1, Email: "a@b.com"},
	}}
	cache := &fakeCache{entries: map[string]dom.User{}, getErr: errors.New("redis down")}
	gw := newTestGateway(t, store, cache)

	access, _, err := gw.IssueTokenPair("a@b.com")
	require.NoError(t, err)

	_, err = gw.ResolveCurrentUser(context.Background(), access)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, 0, store.calls)
}

func TestGateway_ResolveCurrentUser_NoCache(t *testing.T) {
	store := &fakeStore{users: map[string]dom.User{
		"a@b.com": {ID: 1, Email: "a@b.com"},
	}}
	gw := newTestGateway(t, store, nil)

	access, _, err := gw.IssueTokenPair("a@b.com")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		u, err := gw.ResolveCurrentUser(context.Background(), access)
		require.NoError(t, err)
		assert.Equal(t, int64(1), u.ID)
	}
	assert.Equal(t, 2, store.calls)
}

func TestGateway_DecodeRefresh(t *testing.T) {
	gw := newTestGateway(t, &fakeStore{}, nil)

	access, refresh, err := gw.IssueTokenPair("a@b.com")
	require.NoError(t, err)

	email, err := gw.DecodeRefresh(refresh)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", email)

	_, err = gw.DecodeRefresh(access)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = gw.DecodeRefresh("garbage")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestGateway_EmailVerificationRoundTrip(t *testing.T) {
	gw := newTestGateway(t, &fakeStore{}, nil)

	tok, err := gw.IssueEmailVerificationToken("a@b.com")
	require.NoError(t, err)

	email, err := gw.ResolveEmailFromVerificationToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", email)

	_, err = gw.ResolveEmailFromVerificationToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidEmailVerificationToken)
}
