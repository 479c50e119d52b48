package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"streamcatalog/proj/internal/metrics"
	"streamcatalog/proj/internal/services/genres"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
)

const (
	movieGenresEndpoint = "/genre/movie/list"
	tvGenresEndpoint    = "/genre/tv/list"
)

var ErrUnavailable = errors.New("tmdb is unavailable")

type Config struct {
	BaseURL     string
	Token       string
	Timeout     time.Duration
	MaxFailures uint32
	OpenTimeout time.Duration
}

// Client reads genre lists from the TMDB v3 API. Every call goes through a
// circuit breaker that opens after MaxFailures consecutive failures.
type Client struct {
	log     *slog.Logger
	http    *http.Client
	baseURL string
	token   string
	cb      *gobreaker.CircuitBreaker[[]genres.ExternalGenre]
}

func New(log *slog.Logger, cfg Config) *Client {
	log = log.With("client", "tmdb")
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	cb := gobreaker.NewCircuitBreaker[[]genres.ExternalGenre](gobreaker.Settings{
		Name:        "tmdb",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", "from", from.String(), "to", to.String())
		},
	})
	return &Client{
		log:     log,
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		cb:      cb,
	}
}

type genreListResponse struct {
	Genres []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
}

func (c *Client) MovieGenres(ctx context.Context) ([]genres.ExternalGenre, error) {
	return c.genreList(ctx, movieGenresEndpoint)
}

func (c *Client) TVGenres(ctx context.Context) ([]genres.ExternalGenre, error) {
	return c.genreList(ctx, tvGenresEndpoint)
}

func (c *Client) genreList(ctx context.Context, endpoint string) ([]genres.ExternalGenre, error) {
	const op = "tmdb.Client.genreList"
	log := c.log.With("op", op, "endpoint", endpoint)
	result, err := c.cb.Execute(func() ([]genres.ExternalGenre, error) {
		return c.fetchGenres(ctx, endpoint)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.MetadataRequests.WithLabelValues(endpoint, "rejected").Inc()
			log.Warn("request rejected by circuit breaker")
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		metrics.MetadataRequests.WithLabelValues(endpoint, "failure").Inc()
		log.Error("request failed", "errMsg", err.Error())
		return nil, err
	}
	metrics.MetadataRequests.WithLabelValues(endpoint, "success").Inc()
	return result, nil
}

func (c *Client) fetchGenres(ctx context.Context, endpoint string) ([]genres.ExternalGenre, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("tmdb %s: unexpected status %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var payload genreListResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("tmdb %s: decode response: %w", endpoint, err)
	}
	out := make([]genres.ExternalGenre, 0, len(payload.Genres))
	for _, g := range payload.Genres {
		out = append(out, genres.ExternalGenre{ID: g.ID, Name: g.Name})
	}
	return out, nil
}
