// Copyright (c) 2025 specctl contributors.
// SPDX-License-Identifier: Apache-2.0

// Package version holds the specctl release version. The cache layout is
// partitioned by this value, so bumping it invalidates previously cached
// reference data.
package version

// Version is the specctl release version, set at tag time.
const Version = "0.4.2"
