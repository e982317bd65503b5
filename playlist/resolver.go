package playlist

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/hlsget-cli/hlsget/log"
	"github.com/hlsget-cli/hlsget/network"
	"github.com/samber/lo"
)

// DefaultMaxDepth bounds variant playlist nesting when the caller does not override it.
const DefaultMaxDepth = 5

// Resolver walks a variant playlist chain down to segment URLs.
// It performs no side effects beyond the network fetches.
type Resolver struct {
	Client *http.Client
	Parser Parser
}

// NewResolver returns a Resolver backed by the shared HTTP client and the m3u8 decoder.
func NewResolver() *Resolver {
	return &Resolver{
		Client: network.Client,
		Parser: M3U8Parser{},
	}
}

// Resolve fetches the playlist at playlistURL and returns the ordered absolute
// segment URLs of its media playlist. Master playlists are followed through
// the highest-bandwidth variant (first occurrence wins ties); the walk fails
// with a DepthError once maxDepth playlists have been visited without
// reaching a media playlist. A non-positive maxDepth selects DefaultMaxDepth.
func (r *Resolver) Resolve(ctx context.Context, playlistURL string, maxDepth int) ([]string, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	current := playlistURL
	for depth := 0; depth < maxDepth; depth++ {
		log.Infof("resolving playlist [depth %d]: %s", depth, current)

		data, err := r.fetch(ctx, current)
		if err != nil {
			return nil, &FetchError{URL: current, Err: err}
		}

		node, err := r.Parser.Parse(data)
		if err != nil {
			return nil, &ParseError{URL: current, Err: err}
		}

		if node.Kind == Media {
			log.Infof("media playlist with %d segments", len(node.Segments))
			return segmentURLs(current, node.Segments)
		}

		if len(node.Variants) == 0 {
			return nil, &ParseError{URL: current, Err: fmt.Errorf("master playlist contains no variants")}
		}

		// Highest bandwidth wins; the strict comparison keeps the first
		// variant in document order on ties.
		best := lo.MaxBy(node.Variants, func(a, b Variant) bool {
			return a.Bandwidth > b.Bandwidth
		})
		log.Infof("master playlist with %d variants, following bandwidth %d", len(node.Variants), best.Bandwidth)

		current, err = resolveReference(current, best.URI)
		if err != nil {
			return nil, &ParseError{URL: current, Err: err}
		}
	}

	return nil, &DepthError{MaxDepth: maxDepth}
}

// fetch retrieves the raw playlist document bytes.
func (r *Resolver) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// segmentURLs resolves every segment URI against the media playlist's URL.
// Absolute URIs pass through unchanged.
func segmentURLs(baseURL string, segments []Segment) ([]string, error) {
	urls := make([]string, 0, len(segments))
	for _, seg := range segments {
		abs, err := resolveReference(baseURL, seg.URI)
		if err != nil {
			return nil, &ParseError{URL: baseURL, Err: err}
		}
		urls = append(urls, abs)
	}
	return urls, nil
}

// resolveReference resolves a possibly relative URI against a base URL.
func resolveReference(baseURL, ref string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}

	rel, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid reference URL: %w", err)
	}

	return base.ResolveReference(rel).String(), nil
}
