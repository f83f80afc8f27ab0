package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Purpose tags a token with its intended use. A token is only accepted by
// the flow it was issued for.
type Purpose string

const (
	PurposeAccess  Purpose = "access_token"
	PurposeRefresh Purpose = "refresh_token"
)

const (
	DefaultAccessTTL  = 150 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
	EmailTokenTTL     = 7 * 24 * time.Hour
)

var (
	// ErrInvalidToken covers malformed, badly signed and expired tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrWrongPurpose means the signature verified but the scope claim does
	// not match the operation consuming the token.
	ErrWrongPurpose = errors.New("invalid scope for token")
)

// claims is the wire payload: sub, iat, exp plus the scope tag.
// Email-verification tokens omit scope.
type claims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope,omitempty"`
}

// Codec signs and verifies compact expiring tokens with a shared secret.
type Codec struct {
	secret []byte
	method jwt.SigningMethod
}

// NewCodec returns a Codec for the given secret and HMAC algorithm name
// (HS256, HS384 or HS512).
func NewCodec(secret []byte, algorithm string) (*Codec, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("empty signing secret")
	}
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not HMAC", algorithm)
	}
	return &Codec{secret: secret, method: method}, nil
}

// Issue signs a token for subject with the given purpose, valid for ttl from now.
func (c *Codec) Issue(subject string, purpose Purpose, ttl time.Duration) (string, error) {
	return c.sign(claims{
		RegisteredClaims: c.registered(subject, ttl),
		Scope:            string(purpose),
	})
}

// IssueEmailToken signs an email-verification token for subject. It carries
// no scope claim; only the email-verification flow ever decodes it.
func (c *Codec) IssueEmailToken(subject string) (string, error) {
	return c.sign(claims{RegisteredClaims: c.registered(subject, EmailTokenTTL)})
}

// Decode verifies signature and expiry and checks the scope claim against
// expected. Returns the token subject.
func (c *Codec) Decode(encoded string, expected Purpose) (string, error) {
	cl, err := c.parse(encoded)
	if err != nil {
		return "", err
	}
	if cl.Scope != string(expected) {
		return "", ErrWrongPurpose
	}
	if cl.Subject == "" {
		return "", ErrInvalidToken
	}
	return cl.Subject, nil
}

// DecodeEmailToken verifies signature and expiry only; there is no scope to check.
func (c *Codec) DecodeEmailToken(encoded string) (string, error) {
	cl, err := c.parse(encoded)
	if err != nil {
		return "", err
	}
	if cl.Subject == "" {
		return "", ErrInvalidToken
	}
	return cl.Subject, nil
}

func (c *Codec) registered(subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now().UTC()
	return jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (c *Codec) sign(cl claims) (string, error) {
	signed, err := jwt.NewWithClaims(c.method, cl).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (c *Codec) parse(encoded string) (*claims, error) {
	cl := &claims{}
	token, err := jwt.ParseWithClaims(encoded, cl, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		// Expired, malformed and unsigned all collapse here; callers never
		// learn which check failed.
		return nil, ErrInvalidToken
	}
	return cl, nil
}
