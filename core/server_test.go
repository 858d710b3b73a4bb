package core

import (
	"bytes"
	"io"
	"log"
	"testing"

	"github.com/mishell-project/mishell/core/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	cfg, err := config.Initialize(t.TempDir(), log.New(io.Discard, "", 0))
	require.NoError(t, err)

	server, err := NewServer(cfg, &bytes.Buffer{})
	require.NoError(t, err)
	assert.NotNil(t, server.sshServer)
}

func TestNewServerRequiresHostKey(t *testing.T) {
	// An uninitialized configuration has no host key to serve with.
	_, err := NewServer(config.Default(), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "init")
}
