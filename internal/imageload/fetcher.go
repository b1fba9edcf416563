package imageload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register WebP decoder
	"golang.org/x/sync/singleflight"
)

// Fetcher retrieves and decodes the image named by ref.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) (image.Image, error)
}

// LoadError reports a failed image fetch or decode.
type LoadError struct {
	Ref string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load image %q: %v", e.Ref, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

const (
	defaultFetchTimeout = 10 * time.Second
	defaultMaxDimension = 512
	maxImageBytes       = 20 << 20
	defaultUserAgent    = "showcase/0.1"
)

// Options tune a Loader.
type Options struct {
	Timeout      time.Duration // per fetch; zero uses 10s
	MaxDimension int           // decoded images are shrunk to fit; zero uses 512
	HTTPClient   *http.Client
}

var _ Fetcher = (*Loader)(nil)

// Loader fetches images over HTTP(S) or from disk. References are resolved
// against the location of the catalog document. Successful decodes are
// cached; failures are not, so the next attempt retries.
type Loader struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
	maxDim  int

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]image.Image
}

// NewLoader returns a Loader resolving relative references against base,
// which may be an HTTP(S) URL, a file URL, or a filesystem path.
func NewLoader(base string, opts Options) (*Loader, error) {
	baseURL, err := parseLocation(base)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	maxDim := opts.MaxDimension
	if maxDim <= 0 {
		maxDim = defaultMaxDimension
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Loader{
		base:    baseURL,
		http:    client,
		timeout: timeout,
		maxDim:  maxDim,
		cache:   make(map[string]image.Image),
	}, nil
}

// Resolve returns the absolute location of ref.
func (l *Loader) Resolve(ref string) (*url.URL, error) {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		return nil, errors.New("image reference is empty")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		if l.base != nil && l.base.Scheme != "file" {
			return nil, fmt.Errorf("parse image reference: %w", err)
		}
		// Not URL-shaped, but still a usable file name.
		u = &url.URL{Path: filepath.ToSlash(trimmed)}
	}
	if u.IsAbs() {
		return u, nil
	}
	if l.base == nil {
		abs, err := filepath.Abs(filepath.FromSlash(u.Path))
		if err != nil {
			return nil, fmt.Errorf("resolve image path: %w", err)
		}
		return fileURL(abs), nil
	}
	return l.base.ResolveReference(u), nil
}

// Fetch implements Fetcher. Concurrent requests for the same location share
// one download; a caller whose ctx ends stops waiting without aborting the
// shared download.
func (l *Loader) Fetch(ctx context.Context, ref string) (image.Image, error) {
	u, err := l.Resolve(ref)
	if err != nil {
		return nil, &LoadError{Ref: ref, Err: err}
	}
	key := u.String()

	l.mu.RLock()
	cached, ok := l.cache[key]
	l.mu.RUnlock()
	if ok {
		return cached, nil
	}

	ch := l.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
		defer cancel()
		img, err := l.fetch(fetchCtx, u)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.cache[key] = img
		l.mu.Unlock()
		return img, nil
	})

	select {
	case <-ctx.Done():
		return nil, &LoadError{Ref: ref, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, &LoadError{Ref: ref, Err: res.Err}
		}
		return res.Val.(image.Image), nil
	}
}

func (l *Loader) fetch(ctx context.Context, u *url.URL) (image.Image, error) {
	var data []byte
	var err error
	switch u.Scheme {
	case "http", "https":
		data, err = l.download(ctx, u)
	case "file":
		data, err = readFile(ctx, u)
	default:
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() > l.maxDim || bounds.Dy() > l.maxDim {
		img = imaging.Fit(img, l.maxDim, l.maxDim, imaging.Lanczos)
	}
	return img, nil
}

func (l *Loader) download(ctx context.Context, u *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "image/*")
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := l.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("image %s returned status %d", u.Redacted(), resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return data, nil
}

func readFile(ctx context.Context, u *url.URL) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.FromSlash(u.Path))
	if err != nil {
		return nil, fmt.Errorf("read image file: %w", err)
	}
	return data, nil
}

// parseLocation turns the catalog location into a base URL, so relative
// references resolve next to the document.
func parseLocation(location string) (*url.URL, error) {
	trimmed := strings.TrimSpace(location)
	if trimmed == "" {
		return nil, nil
	}
	if strings.Contains(trimmed, "://") {
		u, err := url.Parse(trimmed)
		if err != nil {
			return nil, fmt.Errorf("parse image base %q: %w", location, err)
		}
		return u, nil
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return nil, fmt.Errorf("resolve image base %q: %w", location, err)
	}
	return fileURL(abs), nil
}

func fileURL(path string) *url.URL {
	return &url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
}
