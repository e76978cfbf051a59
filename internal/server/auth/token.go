// Package auth implements session tokens and password hashing for the
// Feedline server.
//
// Tokens are self-contained HS512 JWTs whose validity is recomputed on every
// use: besides signature and expiry, Validate re-reads the credential the
// token refers to and requires that it has not changed since issuance. No
// revocation state is kept server-side; changing the stored password hash
// invalidates every token issued before the change.
package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/dmitrijs2005/feedline/internal/common"
	"github.com/dmitrijs2005/feedline/internal/server/config"
	"github.com/golang-jwt/jwt/v5"
)

const tokenSubject = "Authentication"

// Credential is the stored credential view the token service revalidates
// against. Providers own the storage; the token service only reads.
type Credential struct {
	UserID       int64
	Login        string
	PasswordHash []byte
	Salt         []byte
}

// CredentialSource resolves the current credential for a user id. It should
// return common.ErrorNotFound when the user does not exist.
type CredentialSource interface {
	CredentialByID(ctx context.Context, userID int64) (*Credential, error)
}

// Principal identifies an authenticated requester.
type Principal struct {
	UserID int64
	Login  string
}

// Claims is the token payload: registered claims plus the login, user id and
// a non-reversible fingerprint of the credential at issuance time. The
// fingerprint binds the token to the exact stored hash+salt pair, so a
// password change rotates the fingerprint and strands old tokens.
type Claims struct {
	jwt.RegisteredClaims
	Login       string `json:"login"`
	UserID      int64  `json:"userId"`
	Fingerprint string `json:"credentialFingerprint"`
}

// CredentialFingerprint returns a hex SHA-256 over the stored password hash
// and salt.
func CredentialFingerprint(passwordHash, salt []byte) string {
	h := sha256.New()
	h.Write(passwordHash)
	h.Write(salt)
	return hex.EncodeToString(h.Sum(nil))
}

// TokenService issues and validates session tokens. Issuer, audience and the
// signing key are fixed per deployment.
type TokenService struct {
	credentials CredentialSource
	secret      []byte
	issuer      string
	audience    string
	validity    time.Duration
	now         func() time.Time
}

func NewTokenService(credentials CredentialSource, cfg *config.Config) *TokenService {
	return &TokenService{
		credentials: credentials,
		secret:      []byte(cfg.SecretKey),
		issuer:      cfg.JWTIssuer,
		audience:    cfg.JWTAudience,
		validity:    cfg.TokenValidityDuration,
		now:         time.Now,
	}
}

// Issue signs a token for the given credential.
func (s *TokenService) Issue(cred *Credential) (string, error) {
	now := s.now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   tokenSubject,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.validity)),
		},
		Login:       cred.Login,
		UserID:      cred.UserID,
		Fingerprint: CredentialFingerprint(cred.PasswordHash, cred.Salt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString(s.secret)
}

// Validate checks the token end to end: signature, expiry, issuer, audience
// and subject, then the live credential lookup, the login match, the
// credential fingerprint and the issuance timestamp. Every failure collapses
// to common.ErrorUnauthorized; callers cannot distinguish an expired token
// from a changed credential.
func (s *TokenService) Validate(ctx context.Context, tokenString string) (*Principal, error) {

	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithSubject(tokenSubject),
	)
	if err != nil || !token.Valid {
		return nil, common.ErrorUnauthorized
	}

	cred, err := s.credentials.CredentialByID(ctx, claims.UserID)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	if claims.Login != cred.Login {
		return nil, common.ErrorUnauthorized
	}

	current := CredentialFingerprint(cred.PasswordHash, cred.Salt)
	if subtle.ConstantTimeCompare([]byte(claims.Fingerprint), []byte(current)) != 1 {
		return nil, common.ErrorUnauthorized
	}

	// rejects clock-skewed or forged future timestamps
	if claims.IssuedAt == nil || claims.IssuedAt.After(s.now()) {
		return nil, common.ErrorUnauthorized
	}

	return &Principal{UserID: cred.UserID, Login: cred.Login}, nil
}
