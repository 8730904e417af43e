package clubelo

import "context"

// ClientInterface defines the interface for ratings snapshot downloads.
// This interface enables testability by allowing mock implementations.
type ClientInterface interface {
	FetchRatings(ctx context.Context, date string) (map[string]float64, error)
}

// Ensure Client implements the interface
var _ ClientInterface = (*Client)(nil)
