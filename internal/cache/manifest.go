// Copyright (c) 2025 specctl contributors.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/apex/log"
	"golang.org/x/crypto/blake2b"
)

// assets.json is the bundled manifest of fetchable reference data. The diff
// command compares it against the partition snapshot to show what is missing
// or stale locally.
//
//go:embed assets.json
var assetsJSON []byte

// Asset is one fetchable reference-data file.
type Asset struct {
	Name   string `json:"name"`
	Subdir string `json:"subdir"`
	// URL is an https:// or s3://bucket/key source.
	URL string `json:"url"`
	// Digest is "blake2b:" followed by the hex BLAKE2b-256 of the content.
	Digest string `json:"digest"`
	Size   int64  `json:"size"`
}

type manifest struct {
	Version int     `json:"version"`
	Assets  []Asset `json:"assets"`
}

// Assets returns the bundled asset manifest.
func Assets() ([]Asset, error) {
	var m manifest
	if err := json.Unmarshal(assetsJSON, &m); err != nil {
		return nil, fmt.Errorf("failed to parse asset manifest: %w", err)
	}
	return m.Assets, nil
}

// AssetByName looks up a manifest asset, case-insensitively.
func AssetByName(name string) (*Asset, error) {
	assets, err := Assets()
	if err != nil {
		return nil, err
	}
	for i := range assets {
		if strings.EqualFold(assets[i].Name, name) {
			return &assets[i], nil
		}
	}
	return nil, fmt.Errorf("no asset named %s in the manifest", name)
}

// ManifestRaw exposes the bundled manifest bytes for diffing.
func ManifestRaw() []byte {
	return assetsJSON
}

// InstalledRaw renders the current partition snapshot in manifest shape so
// the two documents diff cleanly.
func InstalledRaw() ([]byte, error) {
	infos, err := List()
	if err != nil {
		return nil, err
	}

	m := manifest{Version: 1, Assets: make([]Asset, 0, len(infos))}
	for _, info := range infos {
		m.Assets = append(m.Assets, Asset{
			Name:   info.Key,
			Subdir: info.Subdir,
			Size:   info.Size,
		})
	}
	return json.MarshalIndent(m, "", "  ")
}

// Getter retrieves the raw bytes behind an asset URL. Injectable so fetch
// logic is testable without the network.
type Getter func(ctx context.Context, url string) ([]byte, error)

// FetchAsset returns the cached copy of the asset if present, otherwise
// downloads it with the provided getter, verifies its digest, and caches it.
func FetchAsset(ctx context.Context, a Asset, get Getter) (*Entry, error) {
	subdirs := splitSubdir(a.Subdir)

	if entry, ok := Read(subdirs, a.Name); ok {
		log.Debugf("cache hit for asset %s", a.Name)
		return entry, nil
	}

	data, err := get(ctx, a.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", a.Name, err)
	}

	if err := verifyDigest(a, data); err != nil {
		return nil, err
	}

	if err := Write(subdirs, a.Name, data); err != nil {
		return nil, err
	}

	p, _ := EntryPath(subdirs, a.Name)
	return &Entry{
		Key:        a.Name,
		EncodedKey: encodeKey(a.Name),
		Path:       p,
		Data:       data,
	}, nil
}

// verifyDigest checks fetched content against the manifest digest. Assets
// without a digest are accepted as-is.
func verifyDigest(a Asset, data []byte) error {
	if a.Digest == "" {
		return nil
	}

	want, ok := strings.CutPrefix(a.Digest, "blake2b:")
	if !ok {
		return fmt.Errorf("asset %s: unsupported digest %q", a.Name, a.Digest)
	}

	sum := blake2b.Sum256(data)
	got := hex.EncodeToString(sum[:])
	if !strings.EqualFold(got, want) {
		return fmt.Errorf("asset %s: digest mismatch: got %s, want %s", a.Name, got, want)
	}
	return nil
}

// Cached reports whether the asset is already present in the current
// version's partition.
func Cached(a Asset) bool {
	_, hit := Read(splitSubdir(a.Subdir), a.Name)
	return hit
}

func splitSubdir(subdir string) []string {
	if subdir == "" {
		return nil
	}
	return strings.Split(subdir, "/")
}
