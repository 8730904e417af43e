package clubelo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vytor/leaguesim/internal/logger"
	"github.com/vytor/leaguesim/internal/realdata"
)

// DefaultBaseURL serves the current club Elo snapshot as CSV.
const DefaultBaseURL = "http://api.clubelo.com"

type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the snapshot endpoint, mainly for tests.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    DefaultBaseURL,
		log:        logger.Default().WithPrefix("clubelo"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchRatings downloads the ratings snapshot for a date (YYYY-MM-DD) and
// returns team name to Elo rating.
func (c *Client) FetchRatings(ctx context.Context, date string) (map[string]float64, error) {
	log := logger.FromContext(ctx).WithPrefix("clubelo").WithField("date", date)
	url := fmt.Sprintf("%s/%s", c.baseURL, date)

	log.Debug("fetching ratings snapshot from: %s", url)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("failed to fetch snapshot: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	log.Debug("snapshot response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("snapshot request failed: status=%d, body=%s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("snapshot status %d: %s", resp.StatusCode, string(body))
	}

	ratings, err := realdata.ParseRatings(resp.Body)
	if err != nil {
		log.Error("failed to parse snapshot: %v", err)
		return nil, err
	}

	log.Info("fetched ratings for %d teams", len(ratings))
	return ratings, nil
}
