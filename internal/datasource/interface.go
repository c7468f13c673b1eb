// Package datasource provides clients for the external stats and odds feeds.
package datasource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// StatsSource fetches weekly box scores
type StatsSource interface {
	// PlayerGameStatsByWeek returns every player's line for one week of a season
	PlayerGameStatsByWeek(ctx context.Context, season, week int) ([]PlayerGameStat, error)

	// Name returns the name of the data source
	Name() string
}

// OddsSource fetches events and player prop odds
type OddsSource interface {
	// Events returns the events commencing in [from, to)
	Events(ctx context.Context, from, to time.Time) ([]Event, error)

	// EventOdds returns the player prop markets for one event
	EventOdds(ctx context.Context, eventID string) (*EventOdds, error)

	// Name returns the name of the data source
	Name() string
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeUnknown              = "unknown"
)

var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrServerError          = errors.New("server error")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsCode reports whether err is a DataSourceError with code
func IsCode(err error, code string) bool {
	var dsErr DataSourceError
	return errors.As(err, &dsErr) && dsErr.Code == code
}

// statusError maps a non-200 response to a DataSourceError
func statusError(source string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return NewDataSourceError(source, ErrCodeAuthenticationFailed, "invalid API key", ErrAuthenticationFailed)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewDataSourceError(source, ErrCodeRateLimitExceeded, "rate limit exceeded", ErrRateLimitExceeded)
	case resp.StatusCode == http.StatusNotFound:
		return NewDataSourceError(source, ErrCodeNotFound, "resource not found", ErrNotFound)
	case resp.StatusCode >= 500:
		return NewDataSourceError(source, ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), ErrServerError)
	default:
		return NewDataSourceError(source, ErrCodeUnknown, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}
}
