// Copyright (c) 2025 specctl contributors.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/obskit/specctlgo/internal/version"
)

func setupCacheDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SPECCTL_CACHE_DIR", dir)
	t.Setenv("SPECCTL_CACHE", "")
	return dir
}

func TestDirPrecedence(t *testing.T) {
	t.Setenv("SPECCTL_CACHE_DIR", "/tmp/somewhere")
	dir, ok := Dir()
	assert.True(t, ok)
	assert.Equal(t, "/tmp/somewhere", dir)

	t.Setenv("SPECCTL_CACHE_DIR", "")
	dir, ok = Dir()
	assert.True(t, ok)
	assert.Contains(t, dir, "specctl")
}

func TestEnabled(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{value: "", want: true},
		{value: "1", want: true},
		{value: "yes", want: true},
		{value: "0", want: false},
		{value: "false", want: false},
	}

	for _, tt := range tests {
		t.Run("value="+tt.value, func(t *testing.T) {
			t.Setenv("SPECCTL_CACHE", tt.value)
			assert.Equal(t, tt.want, Enabled())
		})
	}
}

func TestWriteReadRoundtrip(t *testing.T) {
	setupCacheDir(t)

	err := Write([]string{"arc_lines", "reid_arxiv"}, "template.fits", []byte("payload"))
	assert.NoError(t, err)

	entry, ok := Read([]string{"arc_lines", "reid_arxiv"}, "template.fits")
	assert.True(t, ok)
	assert.Equal(t, "template.fits", entry.Key)
	assert.Equal(t, []byte("payload"), entry.Data)
	assert.NotEqual(t, entry.Key, entry.EncodedKey, "filename must be the hashed key")

	// Wrong subtree misses.
	_, ok = Read([]string{"extinction"}, "template.fits")
	assert.False(t, ok)
}

func TestReadConsultsOnlyCurrentVersion(t *testing.T) {
	dir := setupCacheDir(t)

	// Plant an entry the way an older release would have laid it out.
	old := filepath.Join(dir, "0.3.0", "extinction")
	assert.NoError(t, os.MkdirAll(old, 0o755))
	assert.NoError(t, os.WriteFile(filepath.Join(old, encodeKey("kpnoextinct.dat")), []byte("stale"), 0o600))

	_, ok := Read([]string{"extinction"}, "kpnoextinct.dat")
	assert.False(t, ok, "entries cached by other versions must be invisible")

	// Writing through the current version makes it visible again.
	assert.NoError(t, Write([]string{"extinction"}, "kpnoextinct.dat", []byte("fresh")))
	entry, ok := Read([]string{"extinction"}, "kpnoextinct.dat")
	assert.True(t, ok)
	assert.Equal(t, []byte("fresh"), entry.Data)
	assert.Contains(t, entry.Path, version.Version)
}

func TestDisabledCacheMissesAndNoops(t *testing.T) {
	setupCacheDir(t)
	t.Setenv("SPECCTL_CACHE", "0")

	assert.NoError(t, Write(nil, "anything", []byte("x")))
	_, ok := Read(nil, "anything")
	assert.False(t, ok)
}

func TestInstall(t *testing.T) {
	setupCacheDir(t)

	src := filepath.Join(t.TempDir(), "my_arxiv.fits")
	assert.NoError(t, os.WriteFile(src, []byte("user template"), 0o644))

	p, err := Install(src, "arc_lines", "reid_arxiv")
	assert.NoError(t, err)
	assert.FileExists(t, p)

	entry, ok := Read([]string{"arc_lines", "reid_arxiv"}, "my_arxiv.fits")
	assert.True(t, ok)
	assert.Equal(t, []byte("user template"), entry.Data)

	_, err = Install(filepath.Join(t.TempDir(), "missing.fits"))
	assert.Error(t, err)
}

func TestListTracksWrites(t *testing.T) {
	setupCacheDir(t)

	assert.NoError(t, Write([]string{"sky"}, "b.dat", []byte("bb")))
	assert.NoError(t, Write([]string{"extinction"}, "a.dat", []byte("a")))

	infos, err := List()
	assert.NoError(t, err)
	assert.Len(t, infos, 2)
	assert.Equal(t, "a.dat", infos[0].Key)
	assert.Equal(t, "extinction", infos[0].Subdir)
	assert.Equal(t, int64(1), infos[0].Size)
	assert.Equal(t, "b.dat", infos[1].Key)
}

func TestPurgeByAge(t *testing.T) {
	setupCacheDir(t)

	assert.NoError(t, Write([]string{"sky"}, "old.dat", []byte("old")))
	assert.NoError(t, Write([]string{"sky"}, "new.dat", []byte("new")))

	oldPath, ok := EntryPath([]string{"sky"}, "old.dat")
	assert.True(t, ok)
	stale := time.Now().Add(-48 * time.Hour)
	assert.NoError(t, os.Chtimes(oldPath, stale, stale))

	assert.NoError(t, Purge(24))

	_, ok = Read([]string{"sky"}, "old.dat")
	assert.False(t, ok)
	_, ok = Read([]string{"sky"}, "new.dat")
	assert.True(t, ok)

	// Snapshot follows the removal.
	infos, err := List()
	assert.NoError(t, err)
	assert.Len(t, infos, 1)
	assert.Equal(t, "new.dat", infos[0].Key)

	// hours <= 0 is a no-op.
	assert.NoError(t, Purge(0))
}

func TestPurgeVersions(t *testing.T) {
	dir := setupCacheDir(t)

	assert.NoError(t, os.MkdirAll(filepath.Join(dir, "0.3.0"), 0o755))
	assert.NoError(t, os.MkdirAll(filepath.Join(dir, "0.3.1"), 0o755))
	assert.NoError(t, Write([]string{"sky"}, "keep.dat", []byte("k")))

	removed, err := PurgeVersions()
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"0.3.0", "0.3.1"}, removed)

	_, ok := Read([]string{"sky"}, "keep.dat")
	assert.True(t, ok, "current partition must survive")
}

func TestAssets(t *testing.T) {
	assets, err := Assets()
	assert.NoError(t, err)
	assert.NotEmpty(t, assets)
	for _, a := range assets {
		assert.NotEmpty(t, a.Name)
		assert.NotEmpty(t, a.URL)
		assert.Contains(t, a.Digest, "blake2b:")
	}

	a, err := AssetByName("KPNOEXTINCT.DAT")
	assert.NoError(t, err)
	assert.Equal(t, "kpnoextinct.dat", a.Name)

	_, err = AssetByName("nope.dat")
	assert.Error(t, err)
}

func TestFetchAsset(t *testing.T) {
	setupCacheDir(t)
	ctx := context.Background()

	payload := []byte("extinction curve payload")
	asset := Asset{
		Name:   "test.dat",
		Subdir: "extinction",
		URL:    "https://example.invalid/test.dat",
		Digest: "blake2b:cdae0fa660f21dbce8dc750ddd6fbcfad7ee87369c25fc4c42bb24e054d81d86",
	}

	calls := 0
	get := func(ctx context.Context, url string) ([]byte, error) {
		calls++
		return payload, nil
	}

	entry, err := FetchAsset(ctx, asset, get)
	assert.NoError(t, err)
	assert.Equal(t, payload, entry.Data)
	assert.Equal(t, 1, calls)

	// Second fetch is served from the cache.
	_, err = FetchAsset(ctx, asset, get)
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestFetchAssetDigestMismatch(t *testing.T) {
	setupCacheDir(t)

	asset := Asset{
		Name:   "bad.dat",
		Subdir: "extinction",
		URL:    "https://example.invalid/bad.dat",
		Digest: "blake2b:" + "00000000000000000000000000000000000000000000000000000000000000ff",
	}

	get := func(ctx context.Context, url string) ([]byte, error) {
		return []byte("tampered"), nil
	}

	_, err := FetchAsset(context.Background(), asset, get)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "digest mismatch")

	// Nothing was cached.
	_, ok := Read([]string{"extinction"}, "bad.dat")
	assert.False(t, ok)
}

func TestFetchAssetGetterError(t *testing.T) {
	setupCacheDir(t)

	asset := Asset{Name: "gone.dat", Subdir: "x", URL: "https://example.invalid/gone"}
	get := func(ctx context.Context, url string) ([]byte, error) {
		return nil, errors.New("connection refused")
	}

	_, err := FetchAsset(context.Background(), asset, get)
	assert.Error(t, err)
}

func TestInstalledRaw(t *testing.T) {
	setupCacheDir(t)
	assert.NoError(t, Write([]string{"sky"}, "a.dat", []byte("abc")))

	raw, err := InstalledRaw()
	assert.NoError(t, err)
	assert.Contains(t, string(raw), `"a.dat"`)
	assert.Contains(t, string(raw), `"sky"`)
}
