// Package registry fetches and indexes the remote snippet list. The list is
// a JSON array of objects with name, description and url members; it is
// downloaded whole and decoded with dejson, so malformed payloads report
// exact line/column positions.
package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tordmark/snipjet/dejson"
)

var (
	ErrOutOfRange   = errors.New("index out of range")
	ErrMissingField = errors.New("missing field")
)

// Script is one entry of the remote list.
type Script struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Hit is a search result with its 1-based position in the list.
type Hit struct {
	Index  int
	Script Script
}

// List wraps the decoded registry payload. Entries keep their decoded form:
// an entry missing a field is a lookup failure at access time, never a
// fetch failure.
type List struct {
	entries []dejson.Value
}

// Len returns the number of entries.
func (l *List) Len() int { return len(l.entries) }

// At returns the i-th script. Indexing is 1-based. An index outside
// [1, Len] or an entry without the name, description and url string members
// is an error.
func (l *List) At(i int) (Script, error) {
	if i < 1 || i > len(l.entries) {
		return Script{}, fmt.Errorf("%w: %d of %d", ErrOutOfRange, i, len(l.entries))
	}
	return scriptOf(l.entries[i-1])
}

// Search returns the entries whose name or description contains term,
// case-insensitively. Malformed entries are skipped.
func (l *List) Search(term string) []Hit {
	term = strings.ToLower(term)
	var hits []Hit
	for i := range l.entries {
		s, err := scriptOf(l.entries[i])
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(s.Name), term) ||
			strings.Contains(strings.ToLower(s.Description), term) {
			hits = append(hits, Hit{Index: i + 1, Script: s})
		}
	}
	return hits
}

func scriptOf(v dejson.Value) (Script, error) {
	obj := v.Object()
	if obj == nil {
		return Script{}, fmt.Errorf("%w: entry is %s, expected object",
			ErrMissingField, v.Kind())
	}
	var s Script
	for _, f := range []struct {
		key  string
		dest *string
	}{
		{"name", &s.Name},
		{"description", &s.Description},
		{"url", &s.URL},
	} {
		m, ok := obj.Get(f.key)
		if !ok || m.Kind() != dejson.KindString {
			return Script{}, fmt.Errorf("%w: %q", ErrMissingField, f.key)
		}
		*f.dest = m.Str()
	}
	return s, nil
}

// Client downloads the registry list and script bodies over HTTP.
type Client struct {
	http *http.Client
	url  string
	log  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the logger. The default is a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient returns a client reading the script list from listURL.
func NewClient(listURL string, opts ...Option) *Client {
	c := &Client{
		http: &http.Client{Timeout: 30 * time.Second},
		url:  listURL,
		log:  zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Fetch downloads and decodes the script list. The whole response body is
// read before decoding; partial decodes are not attempted.
func (c *Client) Fetch(ctx context.Context) (*List, error) {
	body, err := c.get(ctx, c.url)
	if err != nil {
		return nil, err
	}
	v, err := dejson.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("decoding registry list: %w", err)
	}
	if v.Kind() != dejson.KindArray {
		return nil, fmt.Errorf("registry list is %s, expected array", v.Kind())
	}
	c.log.Debug("fetched registry list",
		zap.String("url", c.url), zap.Int("entries", len(v.Array())))
	return &List{entries: v.Array()}, nil
}

// Download fetches the body of s from its url member.
func (c *Client) Download(ctx context.Context, s Script) (string, error) {
	if s.URL == "" {
		return "", fmt.Errorf("%w: %q", ErrMissingField, "url")
	}
	body, err := c.get(ctx, s.URL)
	if err != nil {
		return "", err
	}
	c.log.Debug("downloaded script",
		zap.String("name", s.Name), zap.Int("bytes", len(body)))
	return string(body), nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return b, nil
}
