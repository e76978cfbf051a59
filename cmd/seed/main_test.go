package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSeedFlags_CoexistsWithConfigFlags(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	// server config flags on the same argv must not break the seeder
	os.Args = []string{"seed",
		"-d", "postgres://elsewhere/db",
		"-s", "other-secret",
		"-c", "config.json",
		"-l", "alice1",
	}

	login, password := parseSeedFlags()

	assert.Equal(t, "alice1", login)
	assert.Empty(t, password)
}

func TestParseSeedFlags_PasswordFlagSkipsPrompt(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"seed", "-l", "alice1", "-x", "Secret1", "-a", ":9090"}

	login, password := parseSeedFlags()

	assert.Equal(t, "alice1", login)
	assert.Equal(t, "Secret1", password)
}

func TestParseSeedFlags_Defaults(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"seed"}

	login, password := parseSeedFlags()

	assert.Equal(t, "demo1", login)
	assert.Empty(t, password)
}
