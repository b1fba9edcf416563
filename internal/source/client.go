package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/five82/showcase/internal/catalog"
)

// Fetcher loads the raw catalog document.
type Fetcher interface {
	Fetch(ctx context.Context) ([]catalog.RawProduct, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// ErrNoLocation is returned when no source was configured.
var ErrNoLocation = errors.New("no catalog source configured")

// LoadError reports a catalog document that could not be fetched or decoded.
type LoadError struct {
	Location string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load catalog from %s: %v", e.Location, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Client reads the catalog document from a local file or an HTTP(S) URL.
type Client struct {
	location  *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultUserAgent = "showcase/0.1"
	requestTimeout   = 15 * time.Second
	maxDocumentBytes = 32 << 20
)

// NewClient builds a Client for location, which may be a path, a file URL or
// an HTTP(S) URL.
func NewClient(location string) (*Client, error) {
	u, err := parseLocation(location)
	if err != nil {
		return nil, err
	}
	return &Client{
		location: u,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// Location returns the resolved document location. Image references are
// resolved against it.
func (c *Client) Location() string {
	if c == nil || c.location == nil {
		return ""
	}
	if c.location.Scheme == "file" {
		return filepath.FromSlash(c.location.Path)
	}
	return c.location.String()
}

// Fetch retrieves and decodes the catalog document. Every failure comes back
// as a *LoadError.
func (c *Client) Fetch(ctx context.Context) ([]catalog.RawProduct, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	data, err := c.read(ctx)
	if err == nil {
		var items []catalog.RawProduct
		items, err = Decode(data)
		if err == nil {
			return items, nil
		}
	}
	return nil, &LoadError{Location: c.location.Redacted(), Err: err}
}

func (c *Client) read(ctx context.Context) ([]byte, error) {
	switch c.location.Scheme {
	case "http", "https":
		return c.download(ctx)
	case "file":
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(filepath.FromSlash(c.location.Path))
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported scheme %q", c.location.Scheme)
	}
}

func (c *Client) download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.location.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("source returned status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return data, nil
}

// Decode parses a catalog document: either a JSON array of records or an
// object holding the array under "products" or "items".
func Decode(data []byte) ([]catalog.RawProduct, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty document")
	}
	switch trimmed[0] {
	case '[':
		var items []catalog.RawProduct
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return items, nil
	case '{':
		var envelope struct {
			Products []catalog.RawProduct `json:"products"`
			Items    []catalog.RawProduct `json:"items"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		if envelope.Products != nil {
			return envelope.Products, nil
		}
		if envelope.Items != nil {
			return envelope.Items, nil
		}
		return nil, errors.New("document has no products array")
	default:
		return nil, errors.New("document is not a JSON array or object")
	}
}

func parseLocation(location string) (*url.URL, error) {
	trimmed := strings.TrimSpace(location)
	if trimmed == "" {
		return nil, ErrNoLocation
	}
	if strings.Contains(trimmed, "://") {
		u, err := url.Parse(trimmed)
		if err != nil {
			return nil, fmt.Errorf("parse source %q: %w", location, err)
		}
		u.Fragment = ""
		return u, nil
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return nil, fmt.Errorf("resolve source %q: %w", location, err)
	}
	return &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}, nil
}
