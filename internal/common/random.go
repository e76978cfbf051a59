package common

import (
	"crypto/rand"
)

// GenerateRandByteArray returns size bytes from the system CSPRNG. It panics
// if the generator fails, which on supported platforms means the process is
// in no state to continue anyway.
func GenerateRandByteArray(size int) []byte {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return buf
}
