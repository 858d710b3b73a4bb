package config

import (
	"io"
	"log"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestInitialize(t *testing.T) {
	fs := afero.NewMemMapFs()

	cfg, err := initializeFs(fs, discardLogger())
	require.NoError(t, err)
	require.NotNil(t, cfg)

	for _, name := range []string{ConfigurationName, PrivateKeyName, LogsDirName} {
		exists, err := afero.Exists(fs, name)
		require.NoError(t, err)
		assert.True(t, exists, "missing %q after initialize", name)
	}

	keyPem, err := cfg.PrivateKeyPem()
	require.NoError(t, err)
	_, err = ssh.ParsePrivateKey(keyPem)
	assert.NoError(t, err, "generated host key doesn't parse")
}

func TestInitializeIsIdempotent(t *testing.T) {
	fs := afero.NewMemMapFs()

	first, err := initializeFs(fs, discardLogger())
	require.NoError(t, err)

	firstKey, err := first.PrivateKeyPem()
	require.NoError(t, err)

	second, err := initializeFs(fs, discardLogger())
	require.NoError(t, err)

	secondKey, err := second.PrivateKeyPem()
	require.NoError(t, err)
	assert.Equal(t, firstKey, secondKey, "host key was regenerated")
}

func TestInitializeKeepsExistingConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	custom := []byte("motd: hello\nsearch_path: /bin\n")
	require.NoError(t, afero.WriteFile(fs, ConfigurationName, custom, 0644))

	cfg, err := initializeFs(fs, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, "hello", cfg.Motd)
}

func TestCreateSessionLog(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg, err := initializeFs(fs, discardLogger())
	require.NoError(t, err)

	fd, err := cfg.CreateSessionLog("test.transcript")
	require.NoError(t, err)
	_, err = fd.Write([]byte("output"))
	require.NoError(t, err)
	require.NoError(t, fd.Close())

	content, err := afero.ReadFile(fs, LogsDirName+"/test.transcript")
	require.NoError(t, err)
	assert.Equal(t, "output", string(content))
}
