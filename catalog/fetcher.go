package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hupe1980/greenmesh/logging"
)

// ErrDataUnavailable signals that every remote catalog endpoint failed. The
// HTTPFetcher recovers from it locally by serving the demo catalog, so
// callers only see it when fallback is explicitly disabled.
var ErrDataUnavailable = errors.New("catalog data unavailable")

// Fetcher provides read-only access to the product listing.
type Fetcher interface {
	Fetch(ctx context.Context) ([]Product, error)
}

// FetcherFunc adapts a plain function to the Fetcher interface.
type FetcherFunc func(ctx context.Context) ([]Product, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context) ([]Product, error) { return f(ctx) }

// HTTPFetcherOptions configure an HTTPFetcher.
type HTTPFetcherOptions struct {
	Timeout         time.Duration
	HTTPClient      *http.Client
	Logger          logging.Logger
	DisableFallback bool
}

// HTTPFetcher fetches the product listing from the upstream catalog service,
// trying the known endpoint paths in order. On total failure it substitutes
// the static demo catalog rather than aborting the request.
type HTTPFetcher struct {
	baseURL         string
	timeout         time.Duration
	client          *http.Client
	logger          logging.Logger
	disableFallback bool
}

// endpointPaths are the catalog listing paths tried in order, mirroring the
// upstream service's route variants.
var endpointPaths = []string{"/api/products", "/products", "/catalog", "/api/catalog"}

// NewHTTPFetcher creates an HTTPFetcher for the catalog at baseURL.
func NewHTTPFetcher(baseURL string, optFns ...func(o *HTTPFetcherOptions)) *HTTPFetcher {
	opts := HTTPFetcherOptions{
		Timeout: 10 * time.Second,
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &HTTPFetcher{
		baseURL:         baseURL,
		timeout:         opts.Timeout,
		client:          client,
		logger:          opts.Logger,
		disableFallback: opts.DisableFallback,
	}
}

// listingPayload tolerates both a bare array and an object wrapping it.
type listingPayload struct {
	Products []Product `json:"products"`
}

// Fetch tries each known endpoint with a bounded timeout and enriches the
// result with neutral sustainability defaults. When every endpoint fails it
// returns the demo catalog unless fallback is disabled.
func (f *HTTPFetcher) Fetch(ctx context.Context) ([]Product, error) {
	if f.baseURL != "" {
		for _, path := range endpointPaths {
			products, err := f.fetchEndpoint(ctx, f.baseURL+path)
			if err != nil {
				f.logger.Debug("catalog.fetch.endpoint_failed", "endpoint", path, "error", err.Error())
				continue
			}
			if len(products) > 0 {
				f.logger.Info("catalog.fetch.success", "endpoint", path, "count", len(products))
				return EnrichSustainabilityData(products), nil
			}
		}
	}

	if f.disableFallback {
		return nil, ErrDataUnavailable
	}

	f.logger.Warn("catalog.fetch.fallback", "reason", "all remote endpoints failed")
	return DemoCatalog(), nil
}

func (f *HTTPFetcher) fetchEndpoint(ctx context.Context, url string) ([]Product, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var wrapped listingPayload
	if err := json.Unmarshal(body, &wrapped); err == nil && len(wrapped.Products) > 0 {
		return wrapped.Products, nil
	}

	var bare []Product
	if err := json.Unmarshal(body, &bare); err != nil {
		return nil, err
	}
	return bare, nil
}

// StaticFetcher always serves the supplied products. Useful for tests and
// for running the agents without an upstream catalog.
func StaticFetcher(products []Product) Fetcher {
	return FetcherFunc(func(context.Context) ([]Product, error) {
		return products, nil
	})
}
