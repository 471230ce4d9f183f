// Copyright (c) 2025 specctl contributors.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// setupTestConfig points SPECCTL_CFG at a testdata file and resets the
// package-level Config so the next access reloads.
func setupTestConfig(t *testing.T, testdataFile string) {
	t.Helper()

	absPath, err := filepath.Abs(filepath.Join("testdata", testdataFile))
	assert.NoError(t, err, "failed to get absolute path for test config")

	t.Setenv("SPECCTL_CFG", absPath)
	Config = Type{}
	t.Cleanup(func() { Config = Type{} })
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		testFile  string
		wantErr   bool
		checkFunc func(*testing.T, Type)
	}{
		{
			name:     "simple string values",
			testFile: "simple.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.NotEmpty(t, cfg.Source)
				assert.Contains(t, cfg.Data, "site")
				assert.Equal(t, "kpno", cfg.Data["site"])
				assert.Equal(t, 20, cfg.Data["toler"])
			},
		},
		{
			name:     "nested structure",
			testFile: "nested.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				cache, ok := cfg.Data["cache"].(map[string]interface{})
				assert.True(t, ok, "cache should be a map")
				assert.Equal(t, 72, cache["clean"])
				assert.Equal(t, "/var/cache/specctl", cache["dir"])
			},
		},
		{
			name:     "mixed types",
			testFile: "mixed-types.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.Equal(t, "specctl-test", cfg.Data["name"])
				assert.Equal(t, 2, cfg.Data["version"])
				assert.Equal(t, true, cfg.Data["enabled"])
				assert.Equal(t, 12.5, cfg.Data["toler"])
				sets, ok := cfg.Data["sets"].([]interface{})
				assert.True(t, ok)
				assert.Len(t, sets, 2)
			},
		},
		{
			name:     "empty file",
			testFile: "empty.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				// Empty YAML unmarshals to a nil map, which is acceptable.
				assert.NotEmpty(t, cfg.Source, "should have a source path")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestConfig(t, tt.testFile)

			cfg, err := Load()

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Setenv("SPECCTL_CFG", "/nonexistent/path/specctl.yaml")
	Config = Type{}

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoad_CfgIsDirectory(t *testing.T) {
	t.Setenv("SPECCTL_CFG", "testdata")
	Config = Type{}

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "points to a directory")
}

func TestGetString(t *testing.T) {
	tests := []struct {
		name         string
		testFile     string
		namespace    string
		key          string
		defaultValue []string
		want         string
		wantErr      bool
	}{
		{
			name:     "simple value",
			testFile: "simple.yaml",
			key:      "site",
			want:     "kpno",
		},
		{
			name:     "nested value",
			testFile: "nested.yaml",
			key:      "cache.dir",
			want:     "/var/cache/specctl",
		},
		{
			name:      "namespaced value wins",
			testFile:  "nested.yaml",
			namespace: "sq",
			key:       "output",
			want:      "json",
		},
		{
			name:         "missing key with default",
			testFile:     "simple.yaml",
			key:          "nope",
			defaultValue: []string{"fallback"},
			want:         "fallback",
		},
		{
			name:     "missing key without default",
			testFile: "simple.yaml",
			key:      "nope",
			wantErr:  true,
		},
		{
			name:     "non-string value",
			testFile: "simple.yaml",
			key:      "toler",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestConfig(t, tt.testFile)

			_, err := Load(tt.namespace)
			assert.NoError(t, err)

			got, err := GetString(tt.key, tt.defaultValue...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetInt(t *testing.T) {
	setupTestConfig(t, "nested.yaml")
	_, err := Load()
	assert.NoError(t, err)

	got, err := GetInt("cache.clean")
	assert.NoError(t, err)
	assert.Equal(t, 72, got)

	got, err = GetInt("cache.missing", 24)
	assert.NoError(t, err)
	assert.Equal(t, 24, got)
}

func TestGetFloat(t *testing.T) {
	setupTestConfig(t, "mixed-types.yaml")
	_, err := Load()
	assert.NoError(t, err)

	got, err := GetFloat("toler")
	assert.NoError(t, err)
	assert.InDelta(t, 12.5, got, 1e-12)

	// Ints promote.
	got, err = GetFloat("version")
	assert.NoError(t, err)
	assert.InDelta(t, 2.0, got, 1e-12)
}

func TestGetStringSlice(t *testing.T) {
	setupTestConfig(t, "mixed-types.yaml")
	_, err := Load()
	assert.NoError(t, err)

	got, err := GetStringSlice("sets")
	assert.NoError(t, err)
	assert.Equal(t, []string{"--output json", "--titles"}, got)

	_, err = GetStringSlice("name")
	assert.Error(t, err)
}
