package backend

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, dir string, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(dir, "test.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func writeTarGz(t *testing.T, dir string, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(dir, "test.tar.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)
	for name, content := range entries {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name: name,
			Mode: 0755,
			Size: int64(len(content)),
		}))
		_, err = tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestExtractZip(t *testing.T) {
	src := writeZip(t, t.TempDir(), map[string]string{
		"tool/bin/tool.exe": "binary",
		"tool/readme.txt":   "docs",
	})
	dest := t.TempDir()

	top, err := ExtractArchive(src, dest)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dest, "tool"), top)
	assert.FileExists(t, filepath.Join(dest, "tool", "bin", "tool.exe"))
	assert.FileExists(t, filepath.Join(dest, "tool", "readme.txt"))
}

func TestExtractTarGz(t *testing.T) {
	src := writeTarGz(t, t.TempDir(), map[string]string{
		"tool/tool": "binary",
	})
	dest := t.TempDir()

	top, err := ExtractArchive(src, dest)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dest, "tool"), top)
	content, err := os.ReadFile(filepath.Join(dest, "tool", "tool"))
	require.NoError(t, err)
	assert.Equal(t, "binary", string(content))
}

func TestExtractUnsupportedFormat(t *testing.T) {
	_, err := ExtractArchive("/tmp/whatever.rar", t.TempDir())
	assert.Error(t, err)
}

func TestFirstSegment(t *testing.T) {
	assert.Equal(t, "tool", firstSegment("tool/bin/tool.exe"))
	assert.Equal(t, "tool", firstSegment("./tool/bin"))
	assert.Equal(t, "flat.exe", firstSegment("flat.exe"))
}
