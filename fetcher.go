package neogeosync

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/paulmach/orb/geojson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/zerr"
	"golang.org/x/time/rate"

	"github.com/saulfrancisco-ruizacevedo/go-neogeosync/models"
)

// maxFeatureResponseBytes caps a single feature response.
const maxFeatureResponseBytes = 32 << 20

// HTTPFeatureFetcher loads a feature by requesting its GeoIdentifier URL as GeoJSON.
// The first feature of the returned collection is used; its geometry stays in NativeCRS.
type HTTPFeatureFetcher struct {
	client       *http.Client
	limiter      *rate.Limiter
	outputFormat string
	nativeCRS    string
	mapper       IdentityMapper
	logger       *slog.Logger
}

// FetcherOption configures an HTTPFeatureFetcher.
type FetcherOption func(*HTTPFeatureFetcher)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *HTTPFeatureFetcher) { f.client = c }
}

// WithRateLimit throttles requests to rps per second. Zero disables throttling.
func WithRateLimit(rps float64) FetcherOption {
	return func(f *HTTPFeatureFetcher) {
		if rps > 0 {
			f.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithFetcherLogger sets the logger.
func WithFetcherLogger(l *slog.Logger) FetcherOption {
	return func(f *HTTPFeatureFetcher) { f.logger = l }
}

// NewHTTPFeatureFetcher creates a fetcher from the features and identity sections of cfg.
func NewHTTPFeatureFetcher(cfg Config, opts ...FetcherOption) *HTTPFeatureFetcher {
	timeout := cfg.Features.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	f := &HTTPFeatureFetcher{
		client:       &http.Client{Timeout: timeout},
		outputFormat: cfg.Features.OutputFormat,
		nativeCRS:    cfg.Features.NativeCRS,
		mapper:       cfg.Mapper(),
		logger:       slog.Default(),
	}
	WithRateLimit(cfg.Features.RequestsPerSecond)(f)
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchFeature requests id and parses the response as a GeoJSON feature collection.
//
// Returns:
//
//	The first feature, tagged with id and the fetcher's native CRS, or an error
//	wrapping ErrFeatureFetchFailed, ErrFeatureParseFailed or ErrEmptyFeatureCollection.
func (f *HTTPFeatureFetcher) FetchFeature(ctx context.Context, id GeoIdentifier) (*models.Feature, error) {
	ctx, span := tracer.Start(ctx, "neogeosync.FetchFeature", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("geo.identifier", string(id)))

	feature, err := f.fetch(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return feature, nil
}

func (f *HTTPFeatureFetcher) fetch(ctx context.Context, id GeoIdentifier) (*models.Feature, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, zerr.With(zerr.Wrap(err, ErrFeatureFetchFailed.Error()), "identifier", string(id))
		}
	}

	reqURL, err := f.requestURL(id)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, ErrFeatureFetchFailed.Error()), "identifier", string(id))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, ErrFeatureFetchFailed.Error()), "identifier", string(id))
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, ErrFeatureFetchFailed.Error()), "identifier", string(id))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := zerr.With(zerr.Wrap(ErrFeatureFetchFailed, fmt.Sprintf("unexpected status %d", resp.StatusCode)),
			"identifier", string(id))
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeatureResponseBytes))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, ErrFeatureFetchFailed.Error()), "identifier", string(id))
	}

	collection, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, ErrFeatureParseFailed.Error()), "identifier", string(id))
	}
	if len(collection.Features) == 0 || collection.Features[0].Geometry == nil {
		return nil, zerr.With(zerr.Wrap(ErrEmptyFeatureCollection, "fetch feature"), "identifier", string(id))
	}

	f.logger.Debug("fetched feature", "identifier", string(id), "features", len(collection.Features))
	return f.toFeature(id, collection.Features[0]), nil
}

func (f *HTTPFeatureFetcher) requestURL(id GeoIdentifier) (string, error) {
	u, err := url.Parse(string(id))
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", zerr.With(zerr.New("identifier is not an absolute URL"), "identifier", string(id))
	}
	if f.outputFormat != "" {
		q := u.Query()
		q.Set("outputFormat", f.outputFormat)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// toFeature converts a GeoJSON feature. The feature id falls back to the id property.
func (f *HTTPFeatureFetcher) toFeature(id GeoIdentifier, gf *geojson.Feature) *models.Feature {
	props := map[string]interface{}(gf.Properties.Clone())

	featureID := ""
	switch v := gf.ID.(type) {
	case string:
		featureID = v
	case float64:
		featureID = fmt.Sprintf("%v", v)
	}
	if featureID == "" && f.mapper.FeatureIDProperty != "" {
		featureID, _ = gf.Properties[f.mapper.FeatureIDProperty].(string)
	}

	return &models.Feature{
		Identifier: string(id),
		FeatureID:  featureID,
		CRS:        f.nativeCRS,
		Geometry:   gf.Geometry,
		Properties: props,
	}
}
