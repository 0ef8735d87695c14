package catalog

import (
	"context"
	"log/slog"

	"github.com/jcmexdev/seat-storefront/internal/pkg/metrics"
)

// Loader fetches dynamic catalogs into a Registry. A fetch that finishes
// after ctx is cancelled is discarded, so a shutting-down server never
// publishes a half-loaded catalog.
type Loader struct {
	source   Source
	registry *Registry
}

func NewLoader(source Source, registry *Registry) *Loader {
	return &Loader{source: source, registry: registry}
}

// LoadOptions fetches one category. The category must have been declared
// with Registry.Expect (or be already registered) so its mode is known.
func (l *Loader) LoadOptions(ctx context.Context, category Category) {
	recs, err := l.source.FetchOptions(ctx, category)
	if ctx.Err() != nil {
		slog.WarnContext(ctx, "catalog load abandoned", "category", category, "error", ctx.Err())
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "catalog fetch failed", "category", category, "error", err)
		metrics.RecordCatalogLoad(string(category), false)
		l.registry.Fail(category, err)
		return
	}

	opts, rejects := NormalizeOptions(recs)
	for _, r := range rejects {
		slog.WarnContext(ctx, "catalog record dropped", "category", category, "error", r)
	}
	if err := l.registry.Resolve(category, opts); err != nil {
		slog.ErrorContext(ctx, "catalog resolve failed", "category", category, "error", err)
		metrics.RecordCatalogLoad(string(category), false)
		return
	}
	metrics.RecordCatalogLoad(string(category), true)
	slog.InfoContext(ctx, "catalog loaded", "category", category, "options", len(opts))
}

// LoadProducts fetches the product list.
func (l *Loader) LoadProducts(ctx context.Context) {
	recs, err := l.source.FetchProducts(ctx)
	if ctx.Err() != nil {
		slog.WarnContext(ctx, "product load abandoned", "error", ctx.Err())
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "product fetch failed", "error", err)
		metrics.RecordCatalogLoad("products", false)
		l.registry.FailProducts(err)
		return
	}

	products, rejects := NormalizeProducts(recs)
	for _, r := range rejects {
		slog.WarnContext(ctx, "product record dropped", "error", r)
	}
	l.registry.SetProducts(NewProducts(products...))
	metrics.RecordCatalogLoad("products", true)
	slog.InfoContext(ctx, "products loaded", "count", len(products))
}

// LoadAll fetches products and then each category in order. Fetches run
// one after another; none of them block request handling.
func (l *Loader) LoadAll(ctx context.Context, categories ...Category) {
	l.LoadProducts(ctx)
	for _, c := range categories {
		if ctx.Err() != nil {
			return
		}
		l.LoadOptions(ctx, c)
	}
}
