package detect

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provision-machine/internal/config"
)

type fakeProber struct {
	available map[string]bool
}

func (f fakeProber) IsAvailable(name string) bool { return f.available[name] }

type fakeLister struct {
	listing string
	err     error
	calls   int
}

func (f *fakeLister) InstalledList(context.Context) (string, error) {
	f.calls++
	return f.listing, f.err
}

func memFsWith(t *testing.T, paths ...string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, p := range paths {
		require.NoError(t, afero.WriteFile(fs, p, []byte("x"), 0755))
	}
	return fs
}

func TestDetectByPath(t *testing.T) {
	fs := memFsWith(t, "/apps/Tool/tool.exe")
	d := Detector{Fs: fs, Probe: fakeProber{}}

	res := d.Detect(context.Background(), config.AppDescriptor{
		Name:           "Tool",
		DetectionPaths: []string{"/missing/tool.exe", "/apps/Tool/tool.exe"},
	})

	assert.True(t, res.Found)
	assert.Equal(t, MethodFilesystemPath, res.Method)
	assert.Equal(t, "/apps/Tool/tool.exe", res.Detail)
}

func TestDetectByGlob(t *testing.T) {
	fs := memFsWith(t, "/apps/Tool-1.2.3/tool.exe")
	d := Detector{Fs: fs, Probe: fakeProber{}}

	res := d.Detect(context.Background(), config.AppDescriptor{
		Name:           "Tool",
		DetectionPaths: []string{"/apps/Tool-*/tool.exe"},
	})

	assert.True(t, res.Found)
	assert.Equal(t, MethodFilesystemPath, res.Method)
}

func TestDetectPathOrderFirstMatchWins(t *testing.T) {
	fs := memFsWith(t, "/a/tool.exe", "/b/tool.exe")
	d := Detector{Fs: fs}

	res := d.Detect(context.Background(), config.AppDescriptor{
		Name:           "Tool",
		DetectionPaths: []string{"/b/tool.exe", "/a/tool.exe"},
	})

	assert.Equal(t, "/b/tool.exe", res.Detail)
}

func TestDetectByCommandProbe(t *testing.T) {
	d := Detector{
		Fs:    afero.NewMemMapFs(),
		Probe: fakeProber{available: map[string]bool{"git": true}},
	}

	res := d.Detect(context.Background(), config.AppDescriptor{
		Name:             "Git",
		DetectionPaths:   []string{"/missing/git.exe"},
		DetectionCommand: "git",
	})

	assert.True(t, res.Found)
	assert.Equal(t, MethodCommandProbe, res.Method)
}

func TestPathBeatsCommandProbe(t *testing.T) {
	fs := memFsWith(t, "/apps/git/git.exe")
	d := Detector{Fs: fs, Probe: fakeProber{available: map[string]bool{"git": true}}}

	res := d.Detect(context.Background(), config.AppDescriptor{
		Name:             "Git",
		DetectionPaths:   []string{"/apps/git/git.exe"},
		DetectionCommand: "git",
	})

	assert.Equal(t, MethodFilesystemPath, res.Method)
}

func TestDetectByListing(t *testing.T) {
	lister := &fakeLister{listing: "Name    Id\nGit     Git.Git\n"}
	d := Detector{
		Fs:      afero.NewMemMapFs(),
		Probe:   fakeProber{},
		Listers: map[config.InstallMethod]Lister{config.MethodWinget: lister},
	}

	res := d.Detect(context.Background(), config.AppDescriptor{
		Name:          "Git",
		InstallMethod: config.MethodWinget,
		ListQuery:     "git.git",
	})

	assert.True(t, res.Found)
	assert.Equal(t, MethodPackageListing, res.Method)
	assert.Equal(t, 1, lister.calls)
}

func TestListingErrorMeansNotFound(t *testing.T) {
	lister := &fakeLister{err: errors.New("winget exploded")}
	d := Detector{
		Fs:      afero.NewMemMapFs(),
		Listers: map[config.InstallMethod]Lister{config.MethodWinget: lister},
	}

	res := d.Detect(context.Background(), config.AppDescriptor{
		Name:          "Git",
		InstallMethod: config.MethodWinget,
		ListQuery:     "git",
	})

	assert.False(t, res.Found)
}

func TestNotFound(t *testing.T) {
	d := Detector{Fs: afero.NewMemMapFs(), Probe: fakeProber{}}

	res := d.Detect(context.Background(), config.AppDescriptor{
		Name:             "Ghost",
		DetectionPaths:   []string{"/nope/*"},
		DetectionCommand: "ghost",
	})

	assert.False(t, res.Found)
	assert.Empty(t, res.Method)
}
