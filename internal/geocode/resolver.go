// Package geocode resolves addresses to coordinates and back through a
// Nominatim-compatible HTTP provider.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"geo-region-api/internal/domain"
)

const (
	DefaultForwardURL = "https://nominatim.openstreetmap.org/search"
	DefaultReverseURL = "https://nominatim.openstreetmap.org/reverse"
	DefaultUserAgent  = "geo-region-api/1.0"
	DefaultTimeout    = 10 * time.Second
)

type Config struct {
	ForwardURL string
	ReverseURL string
	UserAgent  string
	Email      string // optional, forwarded as the provider's contact param
	Timeout    time.Duration
}

// Resolver issues exactly one provider call per lookup. It does not cache
// and does not retry.
type Resolver struct {
	cfg    Config
	client *http.Client
	log    *zap.Logger
}

var tracer = otel.Tracer("geo-region-api/geocode")

// New builds a Resolver. A nil client gets one bounded by cfg.Timeout.
func New(cfg Config, client *http.Client, l *zap.Logger) *Resolver {
	if cfg.ForwardURL == "" {
		cfg.ForwardURL = DefaultForwardURL
	}
	if cfg.ReverseURL == "" {
		cfg.ReverseURL = DefaultReverseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &Resolver{cfg: cfg, client: client, log: l}
}

type searchHit struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type reverseHit struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

// CoordinatesFromAddress returns the best single match for a free-text address.
func (r *Resolver) CoordinatesFromAddress(ctx context.Context, address string) (domain.Coordinates, error) {
	ctx, span := tracer.Start(ctx, "geocode.forward")
	defer span.End()

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")

	var hits []searchHit
	err := r.get(ctx, opForward, r.cfg.ForwardURL, q, &hits)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.Coordinates{}, domain.WrapError(domain.CodeGeoProvider, "Error fetching coordinates", err)
	}
	if len(hits) == 0 {
		observe(opForward, outcomeNotFound)
		return domain.Coordinates{}, domain.NewError(domain.CodeAddressNotFound, "Address not found.")
	}

	lat, errLat := strconv.ParseFloat(hits[0].Lat, 64)
	lng, errLng := strconv.ParseFloat(hits[0].Lon, 64)
	if errLat != nil || errLng != nil {
		observe(opForward, outcomeError)
		err := fmt.Errorf("malformed position %q,%q", hits[0].Lat, hits[0].Lon)
		span.RecordError(err)
		return domain.Coordinates{}, domain.WrapError(domain.CodeGeoProvider, "Error fetching coordinates", err)
	}
	observe(opForward, outcomeOK)
	span.SetAttributes(attribute.Float64("geo.lat", lat), attribute.Float64("geo.lng", lng))
	return domain.Coordinates{Lat: lat, Lng: lng}, nil
}

// AddressFromCoordinates returns the provider's display name for a position.
func (r *Resolver) AddressFromCoordinates(ctx context.Context, c domain.Coordinates) (string, error) {
	ctx, span := tracer.Start(ctx, "geocode.reverse", trace.WithAttributes(
		attribute.Float64("geo.lat", c.Lat),
		attribute.Float64("geo.lng", c.Lng),
	))
	defer span.End()

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(c.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(c.Lng, 'f', -1, 64))
	q.Set("format", "json")
	q.Set("limit", "1")

	var hit reverseHit
	if err := r.get(ctx, opReverse, r.cfg.ReverseURL, q, &hit); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", domain.WrapError(domain.CodeGeoProvider, "Error fetching address", err)
	}
	if strings.TrimSpace(hit.DisplayName) == "" {
		observe(opReverse, outcomeNotFound)
		return "", domain.NewError(domain.CodeCoordinatesNotFound, "Coordinates not found.")
	}
	observe(opReverse, outcomeOK)
	return hit.DisplayName, nil
}

// get performs the single outbound call and decodes the JSON body into out.
// Transport failures are counted here; empty-result outcomes by the caller.
func (r *Resolver) get(ctx context.Context, op, base string, q url.Values, out any) error {
	if r.cfg.Email != "" {
		q.Set("email", r.cfg.Email)
	}
	u := strings.TrimRight(base, "?&")
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	u += sep + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		observe(op, outcomeError)
		return err
	}
	req.Header.Set("User-Agent", r.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	t0 := time.Now()
	resp, err := r.client.Do(req)
	lookupDuration.WithLabelValues(op).Observe(time.Since(t0).Seconds())
	if err != nil {
		r.log.Warn("geocoder request failed", zap.String("op", op), zap.Error(err))
		observe(op, outcomeError)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		r.log.Warn("geocoder bad status", zap.String("op", op), zap.Int("status", resp.StatusCode))
		observe(op, outcomeError)
		return fmt.Errorf("provider returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		observe(op, outcomeError)
		return fmt.Errorf("decode provider response: %w", err)
	}
	r.log.Debug("geocoder response", zap.String("op", op), zap.Duration("latency", time.Since(t0)))
	return nil
}
