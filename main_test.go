package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordCommand(t *testing.T) {
	var out bytes.Buffer
	hashPasswordCmd.SetOut(&out)
	defer hashPasswordCmd.SetOut(nil)

	require.NoError(t, hashPasswordCmd.RunE(hashPasswordCmd, []string{"hunter2"}))

	line := strings.TrimSpace(out.String())
	require.True(t, strings.HasPrefix(line, "ADMIN_PASSWORD_HASH="))
	hash := strings.TrimPrefix(line, "ADMIN_PASSWORD_HASH=")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2")))
}

func TestHashPasswordRequiresOneArg(t *testing.T) {
	assert.Error(t, hashPasswordCmd.Args(hashPasswordCmd, nil))
	assert.Error(t, hashPasswordCmd.Args(hashPasswordCmd, []string{"a", "b"}))
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "dump", "digest", "hash-password"} {
		assert.True(t, names[want], want)
	}
}
