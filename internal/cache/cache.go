// Copyright (c) 2025 specctl contributors.
// SPDX-License-Identifier: Apache-2.0

// Package cache is the single accessor for specctl's on-disk reference data:
// files installed by the user and files fetched on demand. Entries live in a
// partition named after the software version, so an upgrade starts from an
// empty partition and previously cached entries go stale by construction.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/apex/log"

	"github.com/obskit/specctlgo/internal/version"
)

// snapshotFile records the clear-text key behind each hashed filename in a
// version partition. It doubles as the dataset for cq and diff.
const snapshotFile = "snapshot.json"

// Entry represents a cached artifact on disk.
// Key is the clear-text key; EncodedKey is the hashed filename.
type Entry struct {
	Key        string
	EncodedKey string
	Path       string
	Data       []byte
}

// Info is the snapshot record for one cached entry.
type Info struct {
	Key    string    `json:"key"`
	Subdir string    `json:"subdir"`
	Size   int64     `json:"size"`
	Stored time.Time `json:"stored"`
}

// Dir resolves the base cache directory.
// Precedence:
//  1. SPECCTL_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/specctl
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("SPECCTL_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "specctl"), true
	}
	return "", false
}

// Enabled returns true unless SPECCTL_CACHE explicitly disables it ("0"/"false").
func Enabled() bool {
	enabled, _ := os.LookupEnv("SPECCTL_CACHE")
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// VersionDir resolves the partition for the running software version. All
// reads and writes go through here; entries cached by other versions are
// invisible.
func VersionDir() (string, bool) {
	base, ok := Dir()
	if !ok {
		return "", false
	}
	return filepath.Join(base, version.Version), true
}

// EnsureBaseDir creates the current version partition if caching is enabled
// and a base path can be resolved. Returns the path, whether it is usable,
// and an error if creation failed.
func EnsureBaseDir() (string, bool, error) {
	if !Enabled() {
		return "", false, nil
	}
	dir, ok := VersionDir()
	if !ok {
		return "", false, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return dir, false, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return dir, true, nil
}

// EntryPath returns the absolute path where a cache entry would live given
// subdirectory components and the clear-text key. It also returns true if a
// file currently exists at that path.
func EntryPath(subdirs []string, clearKey string) (string, bool) {
	dir, ok := VersionDir()
	if !ok {
		return "", false
	}
	encoded := encodeKey(clearKey)
	p := filepath.Join(append([]string{dir}, append(subdirs, encoded)...)...)
	if _, err := os.Stat(p); err == nil {
		return p, true
	}
	return p, false
}

// Read attempts to read a cached entry from the current version partition.
func Read(subdirs []string, clearKey string) (*Entry, bool) {
	if !Enabled() {
		return nil, false
	}
	p, ok := EntryPath(subdirs, clearKey)
	if !ok {
		return nil, false
	}
	// No trimming: FITS and other binary assets are whitespace padded.
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}
	return &Entry{
		Key:        clearKey,
		EncodedKey: encodeKey(clearKey),
		Path:       p,
		Data:       b,
	}, true
}

// Write stores data for the given key beneath subdirs and records it in the
// partition snapshot. Creates directories as needed.
func Write(subdirs []string, clearKey string, data []byte) error {
	if !Enabled() {
		return nil // treat as disabled.
	}
	base, ok := VersionDir()
	if !ok {
		return nil // treat as disabled.
	}
	encoded := encodeKey(clearKey)
	dir := filepath.Join(append([]string{base}, subdirs...)...)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	p := filepath.Join(dir, encoded)
	if err := os.WriteFile(p, data, os.FileMode(0o600)); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write to cache: %w", err)
	}

	return recordSnapshot(encoded, Info{
		Key:    clearKey,
		Subdir: filepath.Join(subdirs...),
		Size:   int64(len(data)),
		Stored: time.Now().UTC(),
	})
}

// Install copies a local user file into the cache beneath subdirs, keyed by
// its basename, and returns the cached path.
func Install(srcPath string, subdirs ...string) (string, error) {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", srcPath, err)
	}

	key := filepath.Base(srcPath)
	if err := Write(subdirs, key, data); err != nil {
		return "", err
	}

	p, _ := EntryPath(subdirs, key)
	log.Debugf("installed %s as %s", srcPath, p)
	return p, nil
}

// List returns the snapshot records of the current version partition, sorted
// by key.
func List() ([]Info, error) {
	snap, err := loadSnapshot()
	if err != nil {
		return nil, err
	}

	infos := make([]Info, 0, len(snap))
	for _, info := range snap {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

// Purge removes files in the current partition older than the provided
// number of hours. If hours <= 0 or the cache dir cannot be resolved, it is
// a no-op.
func Purge(hours int) error {
	if hours <= 0 {
		log.Debug("cache cleaning disabled")
		return nil
	}
	dir, ok := VersionDir()
	if !ok {
		return nil
	}
	maxAge := time.Duration(hours) * time.Hour
	err := filepath.Walk(dir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return nil //nolint:nilerr // unreadable subtree, keep walking.
		}
		if info.IsDir() || filepath.Base(path) == snapshotFile {
			return nil
		}
		if time.Since(info.ModTime()) > maxAge {
			if err := os.Remove(path); err == nil {
				log.Debugf("removed cache file %s", path)
				dropSnapshot(filepath.Base(path))
			} else {
				log.WithError(err).Warnf("failed to remove cache file %s", path)
			}
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	return nil
}

// PurgeVersions removes the partitions of every software version other than
// the running one. Those entries can never be read again, so reclaiming the
// space after an upgrade is always safe. Returns the removed version names.
func PurgeVersions() ([]string, error) {
	base, ok := Dir()
	if !ok {
		return nil, nil
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cache base directory: %w", err)
	}

	var removed []string
	for _, e := range entries {
		if !e.IsDir() || e.Name() == version.Version {
			continue
		}
		if err := os.RemoveAll(filepath.Join(base, e.Name())); err != nil {
			return removed, fmt.Errorf("failed to remove stale partition %s: %w", e.Name(), err)
		}
		log.Debugf("removed stale cache partition %s", e.Name())
		removed = append(removed, e.Name())
	}
	return removed, nil
}

// encodeKey hashes k with MD5 and returns the hex string.
func encodeKey(k string) string {
	h := md5.New()
	_, _ = h.Write([]byte(k))
	return hex.EncodeToString(h.Sum(nil))
}

func snapshotPath() (string, bool) {
	dir, ok := VersionDir()
	if !ok {
		return "", false
	}
	return filepath.Join(dir, snapshotFile), true
}

func loadSnapshot() (map[string]Info, error) {
	p, ok := snapshotPath()
	if !ok {
		return map[string]Info{}, nil
	}
	raw, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Info{}, nil
		}
		return nil, fmt.Errorf("failed to read cache snapshot: %w", err)
	}
	snap := map[string]Info{}
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse cache snapshot: %w", err)
	}
	return snap, nil
}

func recordSnapshot(encodedKey string, info Info) error {
	snap, err := loadSnapshot()
	if err != nil {
		return err
	}
	snap[encodedKey] = info
	return saveSnapshot(snap)
}

// dropSnapshot is best-effort: a missing record just means cq shows one
// entry fewer.
func dropSnapshot(encodedKey string) {
	snap, err := loadSnapshot()
	if err != nil {
		return
	}
	delete(snap, encodedKey)
	_ = saveSnapshot(snap)
}

func saveSnapshot(snap map[string]Info) error {
	p, ok := snapshotPath()
	if !ok {
		return nil
	}
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(p, raw, os.FileMode(0o600)); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write cache snapshot: %w", err)
	}
	return nil
}
