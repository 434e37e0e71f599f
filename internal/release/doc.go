// SPDX-License-Identifier: MPL-2.0

// Package release fetches the BlendLux release feed and turns it into a
// catalog of installable versions for the current platform.
//
// The package is organized into three concerns:
//   - client.go: HTTP client for the releases feed (one GET, JSON array)
//   - match.go: asset naming convention and platform/backend matching
//   - catalog.go: ordered version -> release mapping, feed order preserved
package release
