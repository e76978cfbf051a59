package auth

import (
	"crypto/sha256"
	"crypto/subtle"

	"golang.org/x/crypto/pbkdf2"
)

// Hasher is the one-way password hashing capability used by registration,
// login and token validation. Implementations must be salted and compare in
// constant time.
type Hasher interface {
	Hash(plaintext string, salt []byte) []byte
	Verify(plaintext string, salt []byte, digest []byte) bool
}

const (
	pbkdf2Iterations = 100_000
	pbkdf2KeyLen     = 32

	// SaltSize is the number of random bytes generated per credential.
	SaltSize = 16
)

// PBKDF2Hasher derives digests with PBKDF2-SHA256 over an externally
// supplied salt.
type PBKDF2Hasher struct{}

func NewPBKDF2Hasher() *PBKDF2Hasher {
	return &PBKDF2Hasher{}
}

func (h *PBKDF2Hasher) Hash(plaintext string, salt []byte) []byte {
	return pbkdf2.Key([]byte(plaintext), salt, pbkdf2Iterations, pbkdf2KeyLen, sha256.New)
}

func (h *PBKDF2Hasher) Verify(plaintext string, salt []byte, digest []byte) bool {
	// always derive a full-length candidate so a truncated or empty stored
	// digest fails the compare instead of shortening the derivation
	candidate := pbkdf2.Key([]byte(plaintext), salt, pbkdf2Iterations, pbkdf2KeyLen, sha256.New)
	return subtle.ConstantTimeCompare(candidate, digest) == 1
}
