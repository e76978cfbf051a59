package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/feedline/internal/common"
	"github.com/dmitrijs2005/feedline/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCredentialSource struct {
	cred *Credential
	err  error
}

func (f *fakeCredentialSource) CredentialByID(ctx context.Context, userID int64) (*Credential, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.cred == nil || f.cred.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return f.cred, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	cfg.TokenValidityDuration = time.Hour
	return cfg
}

func testCredential() *Credential {
	return &Credential{
		UserID:       42,
		Login:        "alice1",
		PasswordHash: []byte("digest"),
		Salt:         []byte("salt"),
	}
}

func TestTokenService_IssueThenValidate(t *testing.T) {
	cred := testCredential()
	s := NewTokenService(&fakeCredentialSource{cred: cred}, testConfig())

	token, err := s.Issue(cred)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	p, err := s.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), p.UserID)
	assert.Equal(t, "alice1", p.Login)
}

func TestTokenService_InvalidatedByCredentialChange(t *testing.T) {
	cred := testCredential()
	src := &fakeCredentialSource{cred: cred}
	s := NewTokenService(src, testConfig())

	token, err := s.Issue(cred)
	require.NoError(t, err)

	// password change rotates the stored hash
	changed := *cred
	changed.PasswordHash = []byte("new-digest")
	src.cred = &changed

	_, err = s.Validate(context.Background(), token)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestTokenService_InvalidatedByLoginMismatch(t *testing.T) {
	cred := testCredential()
	src := &fakeCredentialSource{cred: cred}
	s := NewTokenService(src, testConfig())

	token, err := s.Issue(cred)
	require.NoError(t, err)

	renamed := *cred
	renamed.Login = "alice2"
	src.cred = &renamed

	_, err = s.Validate(context.Background(), token)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestTokenService_UnknownUser(t *testing.T) {
	cred := testCredential()
	s := NewTokenService(&fakeCredentialSource{}, testConfig())

	token, err := s.Issue(cred)
	require.NoError(t, err)

	_, err = s.Validate(context.Background(), token)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestTokenService_LookupFailureIsUniform(t *testing.T) {
	cred := testCredential()
	s := NewTokenService(&fakeCredentialSource{err: errors.New("db down")}, testConfig())

	token, err := s.Issue(cred)
	require.NoError(t, err)

	_, err = s.Validate(context.Background(), token)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestTokenService_Expired(t *testing.T) {
	cred := testCredential()
	s := NewTokenService(&fakeCredentialSource{cred: cred}, testConfig())

	// issue in the past so the token is already expired
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := s.Issue(cred)
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.Validate(context.Background(), token)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestTokenService_FutureIssuedAtRejected(t *testing.T) {
	cred := testCredential()
	s := NewTokenService(&fakeCredentialSource{cred: cred}, testConfig())

	// forge a token stamped one hour in the future
	s.now = func() time.Time { return time.Now().Add(time.Hour) }
	token, err := s.Issue(cred)
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.Validate(context.Background(), token)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestTokenService_WrongSecret(t *testing.T) {
	cred := testCredential()
	s := NewTokenService(&fakeCredentialSource{cred: cred}, testConfig())

	token, err := s.Issue(cred)
	require.NoError(t, err)

	other := testConfig()
	other.SecretKey = "other-secret"
	s2 := NewTokenService(&fakeCredentialSource{cred: cred}, other)

	_, err = s2.Validate(context.Background(), token)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestTokenService_GarbageToken(t *testing.T) {
	s := NewTokenService(&fakeCredentialSource{}, testConfig())

	_, err := s.Validate(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestCredentialFingerprint_ChangesWithHashAndSalt(t *testing.T) {
	base := CredentialFingerprint([]byte("hash"), []byte("salt"))

	assert.NotEqual(t, base, CredentialFingerprint([]byte("hash2"), []byte("salt")))
	assert.NotEqual(t, base, CredentialFingerprint([]byte("hash"), []byte("salt2")))
	assert.Equal(t, base, CredentialFingerprint([]byte("hash"), []byte("salt")))
}
