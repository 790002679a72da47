package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	pkgopenapi "github.com/goliatone/go-formflow/pkg/openapi"
)

// MaxDocumentSize caps how much of a document is read from any source.
const MaxDocumentSize = 8 << 20

var (
	// ErrHTTPDisabled is returned for URL sources when no client is configured.
	ErrHTTPDisabled = errors.New("openapi loader: http support disabled")
	// ErrTooLarge is returned when a document exceeds MaxDocumentSize.
	ErrTooLarge = errors.New("openapi loader: document too large")
)

// StatusError reports a non-2xx response from a remote document.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("openapi loader: GET %s: status %d", e.URL, e.Status)
}

type fetchFunc func(ctx context.Context, location string) (io.ReadCloser, error)

// Loader implements pkgopenapi.Loader with one fetch strategy per source
// kind. Construction helpers live in the top-level formflow package.
type Loader struct {
	fetchers map[pkgopenapi.SourceKind]fetchFunc
}

var _ pkgopenapi.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options pkgopenapi.LoaderOptions) pkgopenapi.Loader {
	l := &Loader{fetchers: map[pkgopenapi.SourceKind]fetchFunc{
		pkgopenapi.SourceKindFile: openFile,
	}}
	if options.FileSystem != nil {
		fsys := options.FileSystem
		l.fetchers[pkgopenapi.SourceKindFS] = func(_ context.Context, name string) (io.ReadCloser, error) {
			return fsys.Open(name)
		}
	}
	if client := httpClient(options); client != nil {
		l.fetchers[pkgopenapi.SourceKindURL] = func(ctx context.Context, url string) (io.ReadCloser, error) {
			return get(ctx, client, url, options.RequestTimeout)
		}
	}
	return l
}

func httpClient(options pkgopenapi.LoaderOptions) *http.Client {
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if options.RequestTimeout > 0 && clone.Timeout == 0 {
			clone.Timeout = options.RequestTimeout
		}
		return &clone
	case options.AllowHTTPFallback:
		return &http.Client{Timeout: options.RequestTimeout}
	default:
		return nil
	}
}

// Load fetches a document from src and wraps it in a Document.
func (l *Loader) Load(ctx context.Context, src pkgopenapi.Source) (pkgopenapi.Document, error) {
	if src == nil {
		return pkgopenapi.Document{}, errors.New("openapi loader: source is nil")
	}
	if src.Location() == "" {
		return pkgopenapi.Document{}, fmt.Errorf("openapi loader: %s source has no location", src.Kind())
	}
	if err := ctx.Err(); err != nil {
		return pkgopenapi.Document{}, err
	}

	fetch, ok := l.fetchers[src.Kind()]
	if !ok {
		switch src.Kind() {
		case pkgopenapi.SourceKindURL:
			return pkgopenapi.Document{}, ErrHTTPDisabled
		case pkgopenapi.SourceKindFS:
			return pkgopenapi.Document{}, errors.New("openapi loader: filesystem is not configured")
		default:
			return pkgopenapi.Document{}, fmt.Errorf("openapi loader: unsupported source kind %q", src.Kind())
		}
	}

	body, err := fetch(ctx, src.Location())
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("openapi loader: read %s: %w", src.Location(), err)
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, MaxDocumentSize+1))
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("openapi loader: read %s: %w", src.Location(), err)
	}
	if len(data) > MaxDocumentSize {
		return pkgopenapi.Document{}, fmt.Errorf("%w: %s", ErrTooLarge, src.Location())
	}
	return pkgopenapi.NewDocument(src, data)
}

func openFile(_ context.Context, path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// get cancels the request context only once the body is closed.
func get(ctx context.Context, client *http.Client, url string, timeout time.Duration) (io.ReadCloser, error) {
	cancel := context.CancelFunc(func() {})
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, err
	}
	req.Header.Set("Accept", "application/json, application/yaml")

	resp, err := client.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		cancel()
		return nil, &StatusError{URL: url, Status: resp.StatusCode}
	}
	return cancelOnClose{ReadCloser: resp.Body, cancel: cancel}, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c cancelOnClose) Close() error {
	defer c.cancel()
	return c.ReadCloser.Close()
}
