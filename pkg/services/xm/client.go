package xm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/datocol/hidroatlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

// ErrUpstreamUnavailable wraps any transport or decoding failure of the
// XM API so callers can map it to a user-facing "no data" message
// without inspecting the cause.
var ErrUpstreamUnavailable = fmt.Errorf("xm api unavailable")

const (
	defaultBaseURL = "https://servapibi.xm.com.co"
	defaultTimeout = 30 * time.Second

	dateLayout = "2006-01-02"
)

// Client is the data source contract the dashboard consumes. Both
// methods tolerate empty result sets: no matching data returns an empty
// slice, not an error.
type Client interface {
	GetObservations(ctx context.Context, metric domain.Metric, entity domain.Entity, start, end time.Time) ([]domain.Observation, error)
	GetCatalog(ctx context.Context, metric domain.Metric) ([]domain.CatalogEntry, error)
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type client struct {
	base string
	http *http.Client
}

// NewClient builds an HTTP-backed Client. Zero-value config fields fall
// back to the public XM endpoint and a 30s timeout.
func NewClient(cfg Config) Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &client{
		base: cfg.BaseURL,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type apiRequest struct {
	MetricID  string `json:"MetricId"`
	StartDate string `json:"StartDate"`
	EndDate   string `json:"EndDate"`
	Entity    string `json:"Entity"`
}

type entityValues struct {
	Values struct {
		Name        string  `json:"Name"`
		Value       float64 `json:"Value"`
		HydroRegion string  `json:"HydroRegion"`
	} `json:"Values"`
}

type apiResponse struct {
	Items []struct {
		Date          string         `json:"Date"`
		DailyEntities []entityValues `json:"DailyEntities"`
		ListEntities  []entityValues `json:"ListEntities"`
	} `json:"Items"`
}

func (c *client) GetObservations(
	ctx context.Context,
	metric domain.Metric,
	entity domain.Entity,
	start, end time.Time,
) ([]domain.Observation, error) {
	resp, err := c.post(ctx, "/daily", apiRequest{
		MetricID:  string(metric),
		StartDate: start.Format(dateLayout),
		EndDate:   end.Format(dateLayout),
		Entity:    string(entity),
	})
	if err != nil {
		return nil, err
	}

	var obs []domain.Observation
	for _, item := range resp.Items {
		date, err := time.Parse(dateLayout, item.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed date %q", ErrUpstreamUnavailable, item.Date)
		}
		for _, e := range item.DailyEntities {
			obs = append(obs, domain.Observation{
				Name:  e.Values.Name,
				Date:  date,
				Value: e.Values.Value,
			})
		}
	}
	return obs, nil
}

func (c *client) GetCatalog(ctx context.Context, metric domain.Metric) ([]domain.CatalogEntry, error) {
	// The list series are snapshots; any short window returns the
	// current catalog.
	end := time.Now()
	resp, err := c.post(ctx, "/lists", apiRequest{
		MetricID:  string(metric),
		StartDate: end.AddDate(0, 0, -1).Format(dateLayout),
		EndDate:   end.Format(dateLayout),
		Entity:    string(domain.EntitySystem),
	})
	if err != nil {
		return nil, err
	}

	var entries []domain.CatalogEntry
	for _, item := range resp.Items {
		for _, e := range item.ListEntities {
			entries = append(entries, domain.CatalogEntry{
				Name:   e.Values.Name,
				Region: e.Values.HydroRegion,
			})
		}
	}
	return entries, nil
}

func (c *client) post(ctx context.Context, path string, payload apiRequest) (*apiResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	zerolog.Ctx(ctx).Debug().
		Str("metric", payload.MetricID).
		Str("path", path).
		Msg("querying xm api")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var decoded apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUpstreamUnavailable, err)
	}
	return &decoded, nil
}
