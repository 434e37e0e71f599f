// SPDX-License-Identifier: MPL-2.0

package release

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/blendlux/blendlux/internal/hostenv"
)

const (
	// DefaultFeedURL is the fixed releases endpoint queried by the updater.
	DefaultFeedURL = "https://api.github.com/repos/blendlux/blendlux/releases"

	// releaseNamePrefix is stripped from feed release names to obtain the
	// bare version string ("BlendLux v2.1" -> "v2.1").
	releaseNamePrefix = "BlendLux "

	// maxFeedResponseBytes is the upper bound on feed response size (10 MB).
	// Prevents unbounded memory consumption from malformed responses.
	maxFeedResponseBytes = 10 << 20
)

// ErrResponseNotOK is returned when the feed endpoint answers with a
// non-2xx status. The message wording is part of the operator contract.
var ErrResponseNotOK = errors.New("Response not ok")

type (
	// ConnectionError is returned when the feed endpoint cannot be reached
	// at all. The user-facing message is the contract-exact "Connection
	// error"; the underlying cause stays available through Unwrap for logs.
	ConnectionError struct {
		Err error
	}

	// feedRelease is the JSON wire format of one feed entry.
	feedRelease struct {
		Name       string      `json:"name"`
		Prerelease bool        `json:"prerelease"`
		Assets     []feedAsset `json:"assets"`
	}

	// feedAsset is the JSON wire format of one release asset.
	feedAsset struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
	}

	// FeedClient queries the releases feed and builds the catalog of
	// versions installable on the current platform.
	FeedClient struct {
		httpClient *http.Client
		feedURL    string
		userAgent  string
		logger     *log.Logger
	}

	// ClientOption configures a FeedClient during construction.
	ClientOption func(*FeedClient)
)

// Error returns the contract-exact message shown to the user.
func (e *ConnectionError) Error() string { return "Connection error" }

// Unwrap returns the underlying transport error.
func (e *ConnectionError) Unwrap() error { return e.Err }

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy
// configurations.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(f *FeedClient) {
		f.httpClient = c
	}
}

// WithFeedURL overrides the releases endpoint, primarily for test servers
// and mirror configurations.
func WithFeedURL(url string) ClientOption {
	return func(f *FeedClient) {
		f.feedURL = strings.TrimRight(url, "/")
	}
}

// WithUserAgent sets the User-Agent header sent with the feed request.
func WithUserAgent(ua string) ClientOption {
	return func(f *FeedClient) {
		f.userAgent = ua
	}
}

// WithLogger sets the logger used for fetch progress and diagnostics.
func WithLogger(l *log.Logger) ClientOption {
	return func(f *FeedClient) {
		f.logger = l
	}
}

// NewFeedClient creates a FeedClient with sensible defaults: the fixed
// BlendLux releases endpoint and http.DefaultClient.
func NewFeedClient(opts ...ClientOption) *FeedClient {
	f := &FeedClient{
		httpClient: http.DefaultClient,
		feedURL:    DefaultFeedURL,
		userAgent:  "blendlux/dev",
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = log.Default()
	}
	return f
}

// FetchReleases issues a single GET to the releases feed and returns the
// catalog of versions that have a downloadable build for the given
// platform descriptor. Releases whose assets all use unsupported naming or
// target other platforms are filtered out, not reported as errors. A parse
// failure is fatal to the whole fetch; there is no partial catalog.
func (f *FeedClient) FetchReleases(ctx context.Context, desc hostenv.Descriptor) (*Catalog, error) {
	system, err := desc.SystemID()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.feedURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating feed request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", f.userAgent)

	f.logger.Debug("fetching release feed", "url", f.feedURL, "system", system, "accelerated", desc.Accelerated)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }() // read-only response body

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.logger.Debug("release feed request failed", "status", resp.StatusCode)
		return nil, ErrResponseNotOK
	}

	var feed []feedRelease
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxFeedResponseBytes)).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decoding release feed: %w", err)
	}

	catalog := NewCatalog()
	for _, entry := range feed {
		assets := make([]Asset, 0, len(entry.Assets))
		for _, a := range entry.Assets {
			assets = append(assets, Asset(a))
		}

		url, ok := MatchAsset(assets, system, desc.Accelerated)
		if !ok {
			// No build for this platform/backend combination; the release
			// is not selectable.
			continue
		}

		catalog.Add(Release{
			VersionString: strings.TrimPrefix(entry.Name, releaseNamePrefix),
			Prerelease:    entry.Prerelease,
			DownloadURL:   url,
		})
	}

	f.logger.Debug("release feed fetched", "total", len(feed), "installable", catalog.Len())

	return catalog, nil
}
