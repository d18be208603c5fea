package server

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *server {
	cfg := Config{Port: "0", JwtSecret: "test-secret"}
	return NewServer(cfg, nil, nil)
}

func TestTokenRoundTrip(t *testing.T) {
	s := newTestServer()

	token, err := s.issueToken(123)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := s.parseToken(token)
	require.NoError(t, err)
	assert.Equal(t, 123, userID)
}

func TestParseTokenRejectsForgedToken(t *testing.T) {
	s := newTestServer()
	token, err := s.issueToken(123)
	require.NoError(t, err)

	other := NewServer(Config{Port: "0", JwtSecret: "different-secret"}, nil, nil)
	_, err = other.parseToken(token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = s.parseToken("not.a.token")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthHeaderIsOptional(t *testing.T) {
	s := newTestServer()

	r := httptest.NewRequest("GET", "/ws", nil)
	userID, err := s.auth(r)
	require.NoError(t, err)
	assert.Equal(t, 0, userID, "anonymous connections may still log in in-band")

	token, err := s.issueToken(7)
	require.NoError(t, err)
	r.Header.Set("Authorization", "Bearer "+token)
	userID, err = s.auth(r)
	require.NoError(t, err)
	assert.Equal(t, 7, userID)
}

func TestAuthRejectsNonBearerSchemes(t *testing.T) {
	s := newTestServer()
	token, err := s.issueToken(7)
	require.NoError(t, err)

	for _, header := range []string{
		"Bearer" + token, // missing separator
		"Basic " + token,
		"Bearer",
	} {
		r := httptest.NewRequest("GET", "/ws", nil)
		r.Header.Set("Authorization", header)
		_, err := s.auth(r)
		assert.ErrorIsf(t, err, ErrUnauthorized, "header %q", header)
	}
}
