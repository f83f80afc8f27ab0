package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec([]byte("test-secret"), "HS256")
	require.NoError(t, err)
	return c
}

func TestNewCodec_RejectsBadConfig(t *testing.T) {
	_, err := NewCodec(nil, "HS256")
	assert.Error(t, err)

	_, err = NewCodec([]byte("k"), "RS256")
	assert.Error(t, err, "asymmetric algorithms are not supported")

	_, err = NewCodec([]byte("k"), "bogus")
	assert.Error(t, err)
}

func TestCodec_IssueDecodeRoundTrip(t *testing.T) {
	c := newTestCodec(t)

	tok, err := c.Issue("a@b.com", PurposeAccess, DefaultAccessTTL)
	require.NoError(t, err)

	subject, err := c.Decode(tok, PurposeAccess)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", subject)
}

func TestCodec_PurposeMismatch(t *testing.T) {
	c := newTestCodec(t)

	refresh, err := c.Issue("a@b.com", PurposeRefresh, DefaultRefreshTTL)
	require.NoError(t, err)
	_, err = c.Decode(refresh, PurposeAccess)
	assert.ErrorIs(t, err, ErrWrongPurpose)

	access, err := c.Issue("a@b.com", PurposeAccess, DefaultAccessTTL)
	require.NoError(t, err)
	_, err = c.Decode(access, PurposeRefresh)
	assert.ErrorIs(t, err, ErrWrongPurpose)
}

func TestCodec_ExpiredToken(t *testing.T) {
	c := newTestCodec(t)

	tok, err := c.Issue("a@b.com", PurposeAccess, -time.Minute)
	require.NoError(t, err)

	// Signature is fine, expiry is not; both collapse into ErrInvalidToken.
	_, err = c.Decode(tok, PurposeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_WrongSecret(t *testing.T) {
	c := newTestCodec(t)
	other, err := NewCodec([]byte("other-secret"), "HS256")
	require.NoError(t, err)

	tok, err := other.Issue("a@b.com", PurposeAccess, time.Hour)
	require.NoError(t, err)

	_, err = c.Decode(tok, PurposeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_MalformedToken(t *testing.T) {
	c := newTestCodec(t)

	for _, bad := range []string{"", "garbage", "a.b.c", "not.a.jwt"} {
		_, err := c.Decode(bad, PurposeAccess)
		assert.ErrorIs(t, err, ErrInvalidToken, "input %q", bad)
	}
}

func TestCodec_EmailTokenRoundTrip(t *testing.T) {
	c := newTestCodec(t)

	tok, err := c.IssueEmailToken("a@b.com")
	require.NoError(t, err)

	subject, err := c.DecodeEmailToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", subject)
}

func TestCodec_EmailTokenHasNoScope(t *testing.T) {
	c := newTestCodec(t)

	tok, err := c.IssueEmailToken("a@b.com")
	require.NoError(t, err)

	// An email-verification token must never pass where an access or
	// refresh token is expected.
	_, err = c.Decode(tok, PurposeAccess)
	assert.ErrorIs(t, err, ErrWrongPurpose)
	_, err = c.Decode(tok, PurposeRefresh)
	assert.ErrorIs(t, err, ErrWrongPurpose)
}

func TestCodec_DecodeEmailTokenAcceptsScopedTokens(t *testing.T) {
	c := newTestCodec(t)

	// The email flow checks signature and expiry only; there is no scope
	// field to verify.
	tok, err := c.Issue("a@b.com", PurposeAccess, time.Hour)
	require.NoError(t, err)
	subject, err := c.DecodeEmailToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", subject)
}
