package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/seat-storefront/internal/pkg/cache"
)

// Source fetches catalog data from the backend.
type Source interface {
	FetchOptions(ctx context.Context, category Category) ([]OptionRecord, error)
	FetchProducts(ctx context.Context) ([]ProductRecord, error)
}

// HTTPSource reads catalogs from the backend REST API.
type HTTPSource struct {
	baseURL      string
	optionPaths  map[Category]string
	productsPath string
	client       *http.Client
}

// NewHTTPSource returns a Source that GETs baseURL+path for each category.
// Categories missing from optionPaths cannot be fetched.
func NewHTTPSource(baseURL string, optionPaths map[Category]string, productsPath string) *HTTPSource {
	return &HTTPSource{
		baseURL:      strings.TrimRight(baseURL, "/"),
		optionPaths:  optionPaths,
		productsPath: productsPath,
		client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (s *HTTPSource) FetchOptions(ctx context.Context, category Category) ([]OptionRecord, error) {
	path, ok := s.optionPaths[category]
	if !ok {
		return nil, fmt.Errorf("catalog: no backend path for category %s", category)
	}
	body, err := s.get(ctx, path)
	if err != nil {
		return nil, err
	}
	return DecodeList[OptionRecord](body)
}

func (s *HTTPSource) FetchProducts(ctx context.Context) ([]ProductRecord, error) {
	body, err := s.get(ctx, s.productsPath)
	if err != nil {
		return nil, err
	}
	return DecodeList[ProductRecord](body)
}

func (s *HTTPSource) get(ctx context.Context, path string) ([]byte, error) {
	url := s.baseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: build request %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: GET %s: %w", url, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", url, err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("catalog: GET %s: unexpected status %d", url, res.StatusCode)
	}
	return body, nil
}

// CachedSource serves fetches from Redis when a fresh copy exists and
// writes successful backend responses back with a TTL. Cache failures fall
// through to the backend.
type CachedSource struct {
	next  Source
	cache cache.Cache
	ttl   time.Duration
}

func NewCachedSource(next Source, c cache.Cache, ttl time.Duration) *CachedSource {
	return &CachedSource{next: next, cache: c, ttl: ttl}
}

func (s *CachedSource) FetchOptions(ctx context.Context, category Category) ([]OptionRecord, error) {
	key := s.cache.GenerateKey("options", string(category))
	return cached(ctx, s, key, func(ctx context.Context) ([]OptionRecord, error) {
		return s.next.FetchOptions(ctx, category)
	})
}

func (s *CachedSource) FetchProducts(ctx context.Context) ([]ProductRecord, error) {
	key := s.cache.GenerateKey("products", "all")
	return cached(ctx, s, key, s.next.FetchProducts)
}

func cached[T any](ctx context.Context, s *CachedSource, key string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	if raw, err := s.cache.Get(ctx, key); err == nil && raw != "" {
		var out []T
		if err := json.Unmarshal([]byte(raw), &out); err == nil {
			return out, nil
		}
	}

	out, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(out)
	if err != nil {
		slog.ErrorContext(ctx, "catalog cache encode failed", "key", key, "error", err)
		return out, nil
	}
	if err := s.cache.Set(ctx, key, string(b), s.ttl); err != nil {
		slog.WarnContext(ctx, "catalog cache write failed", "key", key, "error", err)
	}
	return out, nil
}
