package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testService() *Service {
	return &Service{
		Secret:   []byte("test-secret"),
		TTL:      time.Hour,
		Username: "admin",
		Password: "qwe-12345",
	}
}

func TestCheckCredentialsPlaintext(t *testing.T) {
	s := testService()
	assert.NoError(t, s.checkCredentials("admin", "qwe-12345"))
	assert.ErrorIs(t, s.checkCredentials("admin", "wrong"), ErrInvalidCredentials)
	assert.ErrorIs(t, s.checkCredentials("root", "qwe-12345"), ErrInvalidCredentials)
}

func TestCheckCredentialsBcryptPreferred(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	s := testService()
	s.PasswordHash = string(hash)
	assert.NoError(t, s.checkCredentials("admin", "s3cret"))
	// the plaintext fallback is ignored once a hash is configured
	assert.ErrorIs(t, s.checkCredentials("admin", "qwe-12345"), ErrInvalidCredentials)
}

func TestCheckCredentialsEmptyPasswordNeverMatches(t *testing.T) {
	s := testService()
	s.Password = ""
	assert.ErrorIs(t, s.checkCredentials("admin", ""), ErrInvalidCredentials)
}

func TestTokenRoundTrip(t *testing.T) {
	s := testService()
	token, err := s.issueToken("admin", "jti-123")
	require.NoError(t, err)

	claims, err := s.parseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "jti-123", claims.ID)
	assert.Equal(t, "admin", claims.Subject)
}

func TestParseTokenRejectsForgeries(t *testing.T) {
	s := testService()
	token, err := s.issueToken("admin", "jti-123")
	require.NoError(t, err)

	other := testService()
	other.Secret = []byte("different-secret")
	_, err = other.parseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.parseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	s := testService()
	s.TTL = -time.Minute
	token, err := s.issueToken("admin", "jti-old")
	require.NoError(t, err)

	_, err = s.parseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
