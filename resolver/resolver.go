// Package resolver turns a source identifier into a playable stream descriptor.
package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/reel-cli/reel/log"
	"github.com/reel-cli/reel/stream"
	"github.com/samber/lo"
)

// Resolver performs a single resolution. Implementations must honour ctx.
type Resolver interface {
	Resolve(ctx context.Context, id stream.SourceID) (*stream.Descriptor, error)
}

// Func adapts a plain function to Resolver.
type Func func(ctx context.Context, id stream.SourceID) (*stream.Descriptor, error)

func (f Func) Resolve(ctx context.Context, id stream.SourceID) (*stream.Descriptor, error) {
	return f(ctx, id)
}

// HTTP resolves identifiers against a JSON endpoint.
type HTTP struct {
	// Endpoint is the prefix the escaped identifier is appended to.
	Endpoint string
	Client   *http.Client
}

// NewHTTP returns an HTTP resolver for endpoint using client.
func NewHTTP(endpoint string, client *http.Client) *HTTP {
	return &HTTP{Endpoint: endpoint, Client: client}
}

// Response is the body returned by the resolution endpoint.
type Response struct {
	SourceID string          `json:"sourceId"`
	Stream   *responseStream `json:"stream"`
	Error    string          `json:"error,omitempty"`
}

type responseStream struct {
	ID       string                `json:"id"`
	Kind     stream.Kind           `json:"type"`
	Playlist string                `json:"playlist"`
	Headers  map[string]string     `json:"headers"`
	Flags    []string              `json:"flags"`
	Captions []stream.CaptionTrack `json:"captions"`
}

const noOutput = "no_output"

// Resolve issues a single GET for id. It never retries.
func (h *HTTP) Resolve(ctx context.Context, id stream.SourceID) (*stream.Descriptor, error) {
	fail := func(kind Kind, err error) (*stream.Descriptor, error) {
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
			kind, err = Timeout, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return nil, &Error{Kind: kind, Source: id, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.Endpoint+url.PathEscape(id.String()), nil)
	if err != nil {
		return fail(Network, err)
	}
	req.Header.Set("Accept", "application/json")

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}

	log.Debugf("resolving %s via %s", id, req.URL.Host)
	resp, err := client.Do(req)
	if err != nil {
		return fail(Network, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(Network, fmt.Errorf("read body: %w", err))
	}

	var payload Response
	decodeErr := json.Unmarshal(body, &payload)

	// no_output wins over the status code
	if decodeErr == nil && payload.Error == noOutput {
		return fail(NoOutput, ErrNoOutput)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(Network, fmt.Errorf("unexpected status: %s", resp.Status))
	}

	if decodeErr != nil {
		return fail(Malformed, fmt.Errorf("decode response: %w", decodeErr))
	}

	descriptor, err := payload.descriptor()
	if err != nil {
		return fail(Malformed, err)
	}

	return descriptor, nil
}

func (r *Response) descriptor() (*stream.Descriptor, error) {
	if r.Error != "" {
		return nil, fmt.Errorf("endpoint error: %s", r.Error)
	}

	s := r.Stream
	if s == nil {
		return nil, errors.New("missing stream")
	}

	if s.Kind == "" {
		return nil, errors.New("missing stream type")
	}

	if !isHTTP(s.Playlist) {
		return nil, fmt.Errorf("invalid playlist url %q", s.Playlist)
	}

	if _, bad := lo.Find(s.Captions, func(c stream.CaptionTrack) bool {
		return c.ID == "" || c.URL == ""
	}); bad {
		return nil, errors.New("caption without id or url")
	}

	captions := s.Captions
	if captions == nil {
		captions = []stream.CaptionTrack{}
	}

	return &stream.Descriptor{
		ID:       s.ID,
		Kind:     s.Kind,
		Playlist: s.Playlist,
		Headers:  s.Headers,
		Captions: captions,
	}, nil
}

func isHTTP(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
