package providers

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

	"golang.org/x/time/rate"

	"planes-utils/flightnoise/internal/constants"
	"planes-utils/flightnoise/internal/metrics"
	"planes-utils/flightnoise/internal/models/dtos"
)

// FR24DatetimeLayout is the query parameter format for flight_datetime_*.
const FR24DatetimeLayout = "2006-01-02T15:04:05"

// FR24Provider implements a client for the FlightRadar24 API
type FR24Provider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Plan    constants.SubscriptionPlan
	Metrics *metrics.MetricsRegistry

	limiter *rate.Limiter
}

// NewFR24Provider creates a provider paced to the plan's request rate.
// PlanNone sends requests back to back.
func NewFR24Provider(baseURL, apiKey string, plan constants.SubscriptionPlan, timeout time.Duration) *FR24Provider {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	p := &FR24Provider{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout: timeout,
		},
		Plan: plan,
	}
	if interval := plan.RequestInterval(); interval > 0 {
		p.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
	return p
}

// SummaryQuery selects flight summaries either by airports or by flight IDs,
// within [From, To].
type SummaryQuery struct {
	Airports  []string
	FlightIDs []string
	From      time.Time
	To        time.Time
}

// GetFlightSummaries fetches /flight-summary/full
func (p *FR24Provider) GetFlightSummaries(ctx context.Context, q SummaryQuery) (*dtos.FlightSummaryResponse, int, error) {
	if len(q.Airports) == 0 && len(q.FlightIDs) == 0 {
		return nil, 0, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "Either airports or flight IDs must be given",
		}
	}
	if q.From.IsZero() || q.To.IsZero() || q.To.Before(q.From) {
		return nil, 0, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "A valid datetime window is required",
		}
	}

	params := url.Values{}
	if len(q.Airports) > 0 {
		params.Set("airports", strings.Join(q.Airports, ","))
	}
	if len(q.FlightIDs) > 0 {
		params.Set("flight_ids", strings.Join(q.FlightIDs, ","))
	}
	params.Set("flight_datetime_from", q.From.UTC().Format(FR24DatetimeLayout))
	params.Set("flight_datetime_to", q.To.UTC().Format(FR24DatetimeLayout))

	var result dtos.FlightSummaryResponse
	status, err := p.doGET(ctx, "/flight-summary/full", params, &result)
	if err != nil {
		return nil, status, err
	}
	return &result, status, nil
}

// GetFlightTracks fetches the positions of a single flight
func (p *FR24Provider) GetFlightTracks(ctx context.Context, fr24ID string) (*dtos.FlightTracksResponse, int, error) {
	if fr24ID == "" {
		return nil, 0, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "Flight ID cannot be empty",
		}
	}

	params := url.Values{}
	params.Set("flight_id", fr24ID)

	var result dtos.FlightTracksResponse
	status, err := p.doGET(ctx, "/flight-tracks", params, &result)
	if err != nil {
		return nil, status, err
	}
	return &result, status, nil
}

// GetUsage fetches API credit usage for a period (24h, 7d, 30d, 1y)
func (p *FR24Provider) GetUsage(ctx context.Context, period constants.UsagePeriod) (*dtos.UsageResponse, int, error) {
	params := url.Values{}
	params.Set("period", string(period))

	var result dtos.UsageResponse
	status, err := p.doGET(ctx, "/usage", params, &result)
	if err != nil {
		return nil, status, err
	}
	return &result, status, nil
}

// ============================================================================
// HTTP Helper Methods
// ============================================================================

// wait blocks until the plan allows the next request
func (p *FR24Provider) wait(ctx context.Context) error {
	if p.limiter == nil {
		return nil
	}
	return p.limiter.Wait(ctx)
}

// doGET performs a paced, authenticated GET request
func (p *FR24Provider) doGET(ctx context.Context, endpoint string, params url.Values, result interface{}) (int, error) {
	if p.APIKey == "" {
		return 0, &ProviderError{
			Code:    constants.ErrCodeInvalidAPIKey,
			Message: "FR24_API_TOKEN is not set",
		}
	}

	if err := p.wait(ctx); err != nil {
		return 0, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Request cancelled while waiting for rate limit",
			Err:     err,
		}
	}

	reqURL := p.BaseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to create request",
			Err:     err,
		}
	}

	req.Header.Set("Authorization", "Bearer "+p.APIKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Version", "v1")

	start := time.Now()
	resp, err := p.Client.Do(req)
	if err != nil {
		p.observe(endpoint, 0, start)
		return 0, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()
	p.observe(endpoint, resp.StatusCode, start)

	if err := p.handleHTTPError(resp, endpoint); err != nil {
		return resp.StatusCode, err
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, &ProviderError{
			Code:       constants.ErrCodeNetworkError,
			Message:    "Failed to read response body",
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}

	if err := json.Unmarshal(bodyBytes, result); err != nil {
		return resp.StatusCode, &ProviderError{
			Code:       constants.ErrCodeInvalidDataFormat,
			Message:    "Failed to decode response",
			Details:    string(bodyBytes),
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}

	return resp.StatusCode, nil
}

func (p *FR24Provider) observe(endpoint string, status int, start time.Time) {
	if p.Metrics == nil {
		return
	}
	p.Metrics.FR24RequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	p.Metrics.FR24RequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

// handleHTTPError converts HTTP errors to ProviderError
func (p *FR24Provider) handleHTTPError(resp *http.Response, endpoint string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	bodyBytes, _ := io.ReadAll(resp.Body)
	return p.buildHTTPError(resp.StatusCode, endpoint, string(bodyBytes))
}

// buildHTTPError creates appropriate error based on status code
func (p *FR24Provider) buildHTTPError(statusCode int, endpoint string, body string) error {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &ProviderError{
			Code:       constants.ErrCodeInvalidAPIKey,
			Message:    fmt.Sprintf("Authentication failed for endpoint %s", endpoint),
			Details:    body,
			StatusCode: statusCode,
		}
	case http.StatusNotFound:
		return &ProviderError{
			Code:       constants.ErrCodeResourceNotFound,
			Message:    fmt.Sprintf("Resource not found: %s", endpoint),
			Details:    body,
			StatusCode: statusCode,
		}
	case http.StatusTooManyRequests:
		return &ProviderError{
			Code:       constants.ErrCodeRateLimited,
			Message:    constants.GetErrorMessage(constants.ErrCodeRateLimited),
			Details:    body,
			StatusCode: statusCode,
		}
	case http.StatusBadRequest:
		return &ProviderError{
			Code:       constants.ErrCodeInvalidDataFormat,
			Message:    fmt.Sprintf("Bad request to %s", endpoint),
			Details:    body,
			StatusCode: statusCode,
		}
	default:
		return &ProviderError{
			Code:       constants.ErrCodeNetworkError,
			Message:    fmt.Sprintf("HTTP %d from %s: %s", statusCode, endpoint, body),
			Details:    body,
			StatusCode: statusCode,
		}
	}
}
