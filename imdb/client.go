package imdb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"moviefav/movie"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

const (
	DefaultURL  = "https://imdb188.p.rapidapi.com/api/v1/searchIMDB"
	DefaultHost = "imdb188.p.rapidapi.com"

	headerAPIKey  = "X-RapidAPI-Key"
	headerAPIHost = "X-RapidAPI-Host"
	queryParam    = "query"
)

type Options struct {
	URL     string
	APIKey  string
	APIHost string

	// RateLimit is the number of outbound requests per second. Zero means unlimited.
	RateLimit float64
	Burst     int

	// BreakerFailures is the number of consecutive failures that opens the
	// circuit. Zero disables the breaker.
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// Client implements movie.Searcher against the RapidAPI IMDb search endpoint.
type Client struct {
	HTTPClient *http.Client
	URL        string
	APIKey     string
	APIHost    string
	Limiter    *rate.Limiter

	breaker *gobreaker.CircuitBreaker[[]movie.Movie]
}

// StatusError reports a non-2xx answer from the search API.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("imdb: unexpected status %d", e.StatusCode)
}

// searchResponse keeps Data nil when the body has no data array, which the
// API sends on subscription and quota errors.
type searchResponse struct {
	Data *[]searchResult `json:"data"`
}

type searchResult struct {
	Title string     `json:"title"`
	Year  flexString `json:"year"`
	Stars flexString `json:"stars"`
	Image *string    `json:"image"`
}

func NewClient(opts Options) *Client {
	c := &Client{
		HTTPClient: http.DefaultClient,
		URL:        opts.URL,
		APIKey:     opts.APIKey,
		APIHost:    opts.APIHost,
		Limiter:    rate.NewLimiter(rate.Inf, 1),
	}
	if c.URL == "" {
		c.URL = DefaultURL
	}
	if c.APIHost == "" {
		c.APIHost = DefaultHost
	}
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		c.Limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	if opts.BreakerFailures > 0 {
		threshold := opts.BreakerFailures
		c.breaker = gobreaker.NewCircuitBreaker[[]movie.Movie](gobreaker.Settings{
			Name:    "imdb-search",
			Timeout: opts.BreakerTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
		})
	}
	return c
}

// Search returns every candidate for title in API order, with covers resized.
func (c *Client) Search(ctx context.Context, title string) ([]movie.Movie, error) {
	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("imdb: rate limiter wait: %w", err)
	}
	if c.breaker == nil {
		return c.search(ctx, title)
	}
	return c.breaker.Execute(func() ([]movie.Movie, error) {
		return c.search(ctx, title)
	})
}

func (c *Client) search(ctx context.Context, title string) ([]movie.Movie, error) {
	u, err := url.Parse(c.URL)
	if err != nil {
		return nil, fmt.Errorf("imdb: parse url: %w", err)
	}
	q := u.Query()
	q.Set(queryParam, title)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("imdb: create request: %w", err)
	}
	req.Header.Set(headerAPIKey, c.APIKey)
	req.Header.Set(headerAPIHost, c.APIHost)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imdb: search %q: %w", title, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("imdb: decode search response: %w", err)
	}

	if body.Data == nil {
		return nil, fmt.Errorf("imdb: decode search response: missing data")
	}

	results := *body.Data
	movies := make([]movie.Movie, len(results))
	for i, r := range results {
		if r.Image == nil {
			return nil, fmt.Errorf("imdb: decode search response: result %d has no image", i)
		}
		movies[i] = movie.Movie{
			Title:     r.Title,
			Year:      string(r.Year),
			CastStars: string(r.Stars),
			Cover:     movie.LargeCover(*r.Image),
		}
	}
	return movies, nil
}

// flexString accepts a JSON string, number, list of strings or null.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null" || raw == "":
		*f = ""
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
	case strings.HasPrefix(raw, "["):
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*f = flexString(strings.Join(list, ", "))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*f = flexString(n.String())
	}
	return nil
}
