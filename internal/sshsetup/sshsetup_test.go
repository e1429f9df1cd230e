package sshsetup

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provision-machine/internal/config"
)

type fakeRunner struct {
	calls [][]string
	err   error
	// onRun simulates ssh-keygen writing the key file.
	onRun func(args []string)
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.onRun != nil {
		f.onRun(args)
	}
	return nil, f.err
}

func TestKeyGenerationWhenAbsent(t *testing.T) {
	dir := t.TempDir()
	keyPath := filepath.Join(dir, ".ssh", "id_ed25519")
	runner := &fakeRunner{}
	s := Setup{Fs: afero.NewOsFs(), Runner: runner, KeyPath: keyPath}

	s.Ensure(context.Background(), "dev@example.com", nil)

	require.Len(t, runner.calls, 1)
	call := runner.calls[0]
	assert.Equal(t, "ssh-keygen", call[0])
	assert.Contains(t, call, "ed25519")
	assert.Contains(t, call, "dev@example.com")
	assert.Contains(t, call, keyPath)
	assert.DirExists(t, filepath.Dir(keyPath), "key directory is created first")
}

func TestKeyGenerationSkippedWhenPresent(t *testing.T) {
	dir := t.TempDir()
	keyPath := filepath.Join(dir, "id_ed25519")
	require.NoError(t, os.WriteFile(keyPath, []byte("key"), 0600))
	runner := &fakeRunner{}
	s := Setup{Fs: afero.NewOsFs(), Runner: runner, KeyPath: keyPath}

	s.Ensure(context.Background(), "dev@example.com", nil)

	assert.Empty(t, runner.calls, "existing key must not be regenerated")
}

func TestLinksCreated(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "dotfiles", "gitconfig")
	require.NoError(t, os.MkdirAll(filepath.Dir(source), 0755))
	require.NoError(t, os.WriteFile(source, []byte("[user]"), 0644))
	target := filepath.Join(dir, "home", ".gitconfig")
	s := Setup{Fs: afero.NewOsFs(), Runner: &fakeRunner{}, KeyPath: filepath.Join(dir, "key")}

	s.Ensure(context.Background(), "dev@example.com", []config.Link{{Source: source, Target: target}})

	linked, err := os.Readlink(target)
	require.NoError(t, err)
	assert.Equal(t, source, linked)
}

func TestExistingLinkTargetLeftAlone(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, ".gitconfig")
	require.NoError(t, os.WriteFile(target, []byte("mine"), 0644))
	s := Setup{Fs: afero.NewOsFs(), Runner: &fakeRunner{}, KeyPath: filepath.Join(dir, "key")}

	s.Ensure(context.Background(), "dev@example.com", []config.Link{{Source: filepath.Join(dir, "src"), Target: target}})

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "mine", string(content))
}
