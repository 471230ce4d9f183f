// Copyright (c) 2025 specctl contributors.
// SPDX-License-Identifier: Apache-2.0

// Package fetch retrieves asset content from the source schemes the manifest
// uses: https(s) and s3.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/apex/log"

	"github.com/obskit/specctlgo/internal/awsutil"
)

const httpTimeout = 5 * time.Minute

// Get downloads the content behind an asset URL, dispatching on scheme.
func Get(ctx context.Context, url string) ([]byte, error) {
	switch {
	case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
		return getHTTP(ctx, url)
	case strings.HasPrefix(url, "s3://"):
		return getS3(ctx, url)
	default:
		return nil, fmt.Errorf("unsupported asset URL scheme: %s", url)
	}
}

func getHTTP(ctx context.Context, url string) ([]byte, error) {
	log.Debugf("fetching %s", url)

	client := &http.Client{Timeout: httpTimeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}
	return data, nil
}

func getS3(ctx context.Context, url string) ([]byte, error) {
	bucket, key, err := awsutil.ParseS3URL(url)
	if err != nil {
		return nil, err
	}

	log.Debugf("fetching s3://%s/%s", bucket, key)

	cfg, err := awsutil.LoadConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return awsutil.GetObject(ctx, awsutil.NewS3(cfg), bucket, key)
}
