package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	dom "notesapi/internal/domain"

	"github.com/jackc/pgx/v5"
)

var (
	// ErrUnauthenticated is the single outcome for every failed credential
	// check: bad signature, expiry, wrong scope, unknown user. Callers must
	// not learn which one it was.
	ErrUnauthenticated = errors.New("could not validate credentials")

	// ErrInvalidEmailVerificationToken is surfaced for a bad confirmation
	// link; it is a malformed client request, not a failed login.
	ErrInvalidEmailVerificationToken = errors.New("invalid token for email verification")
)

// UserStore is the slice of the persistence layer the gateway reads from.
// Absent users are reported with pgx.ErrNoRows.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (dom.User, error)
}

// UserCache caches user snapshots keyed by email. Get returns (nil, nil) on
// a miss; an expired entry and a never-written one look identical.
type UserCache interface {
	Get(ctx context.Context, email string) (*dom.User, error)
	Set(ctx context.Context, email string, u dom.User) error
}

// Gateway resolves bearer tokens to users and issues token pairs. It is an
// explicitly constructed service object: secret, codec, store and cache are
// injected, nothing lives in package state.
type Gateway struct {
	codec      *Codec
	users      UserStore
	cache      UserCache
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewGateway wires a Gateway. Non-positive TTLs fall back to the defaults
// (access 150m, refresh 7d). cache may be nil to disable caching.
func NewGateway(codec *Codec, users UserStore, cache UserCache, accessTTL, refreshTTL time.Duration) *Gateway {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &Gateway{
		codec:      codec,
		users:      users,
		cache:      cache,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssueTokenPair mints an access/refresh pair for email. Password checks
// happen in the login handler before this is called.
func (g *Gateway) IssueTokenPair(email string) (access, refresh string, err error) {
	access, err = g.codec.Issue(email, PurposeAccess, g.accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = g.codec.Issue(email, PurposeRefresh, g.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// ResolveCurrentUser decodes an access token and returns the user it names,
// served from cache when possible. A correctly signed token for a deleted
// user fails the same way a garbage token does.
func (g *Gateway) ResolveCurrentUser(ctx context.Context, bearer string) (dom.User, error) {
	email, err := g.codec.Decode(bearer, PurposeAccess)
	if err != nil {
		return dom.User{}, ErrUnauthenticated
	}

	if g.cache != nil {
		cached, err := g.cache.Get(ctx, email)
		if err != nil {
			// Fail closed: a broken cache must not silently widen the
			// store load on the auth path.
			return dom.User{}, fmt.Errorf("user cache: %w", err)
		}
		if cached != nil {
			return *cached, nil
		}
	}

	u, err := g.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrUnauthenticated
		}
		return dom.User{}, fmt.Errorf("get user by email: %w", err)
	}
	if g.cache != nil {
		if err := g.cache.Set(ctx, email, u); err != nil {
			return dom.User{}, fmt.Errorf("user cache: %w", err)
		}
	}
	return u, nil
}

// DecodeRefresh returns the subject of a refresh-scoped token. The caller
// compares the presented token against the one stored on the user record.
func (g *Gateway) DecodeRefresh(refreshToken string) (string, error) {
	email, err := g.codec.Decode(refreshToken, PurposeRefresh)
	if err != nil {
		return "", ErrUnauthenticated
	}
	return email, nil
}

// IssueEmailVerificationToken mints a confirmation token for email, valid 7 days.
func (g *Gateway) IssueEmailVerificationToken(email string) (string, error) {
	return g.codec.IssueEmailToken(email)
}

// ResolveEmailFromVerificationToken returns the email a confirmation token
// was issued for.
func (g *Gateway) ResolveEmailFromVerificationToken(token string) (string, error) {
	email, err := g.codec.DecodeEmailToken(token)
	if err != nil {
		return "", ErrInvalidEmailVerificationToken
	}
	return email, nil
}
