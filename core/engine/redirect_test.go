package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestResolveRedirects(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "in.txt", "hello\n")

	rd, err := ResolveRedirects(dir, Tokenize("sort < in.txt > out.txt"))
	require.NoError(t, err)
	defer rd.Close()

	require.NotNil(t, rd.In)
	require.NotNil(t, rd.Out)
	assert.Equal(t, filepath.Join(dir, "in.txt"), rd.In.Name())
	assert.Equal(t, filepath.Join(dir, "out.txt"), rd.Out.Name())

	// The output target was created.
	_, statErr := os.Stat(filepath.Join(dir, "out.txt"))
	assert.NoError(t, statErr)
}

func TestResolveRedirectsMissingInput(t *testing.T) {
	dir := t.TempDir()

	rd, err := ResolveRedirects(dir, Tokenize("sort < missing.txt"))
	require.Error(t, err)
	assert.Nil(t, rd)

	var openErr *OpenError
	require.ErrorAs(t, err, &openErr)
	assert.Equal(t, "missing.txt", openErr.Path)
}

func TestResolveRedirectsFailureClosesEarlierDescriptors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "in.txt", "")

	// The input opens first, then the output fails: nothing may leak and
	// no output file may be left behind.
	_, err := ResolveRedirects(dir, Tokenize("sort < in.txt > sub/out.txt"))
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "sub", "out.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestResolveRedirectsLastOperatorWins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "a")
	writeFile(t, dir, "b.txt", "b")

	rd, err := ResolveRedirects(dir, Tokenize("cat < a.txt < b.txt"))
	require.NoError(t, err)
	defer rd.Close()

	require.NotNil(t, rd.In)
	assert.Equal(t, filepath.Join(dir, "b.txt"), rd.In.Name())
}

func TestResolveRedirectsTrailingOperatorIgnored(t *testing.T) {
	rd, err := ResolveRedirects(t.TempDir(), Tokenize("ls >"))
	require.NoError(t, err)
	defer rd.Close()

	assert.Nil(t, rd.In)
	assert.Nil(t, rd.Out)
}

func TestRedirectsCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "in.txt", "")

	rd, err := ResolveRedirects(dir, Tokenize("cat < in.txt"))
	require.NoError(t, err)

	assert.NoError(t, rd.Close())
	assert.NoError(t, rd.Close())

	var nilRd *Redirects
	assert.NoError(t, nilRd.Close())
}
