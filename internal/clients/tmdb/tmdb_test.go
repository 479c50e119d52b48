package tmdb

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"streamcatalog/proj/internal/services/genres"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenreLists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/3/genre/movie/list":
			w.Write([]byte(`{"genres":[{"id":28,"name":"Action"},{"id":12,"name":"Adventure"}]}`))
		case "/3/genre/tv/list":
			w.Write([]byte(`{"genres":[{"id":10759,"name":"Action & Adventure"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := New(slog.Default(), Config{BaseURL: server.URL + "/3/", Token: "secret", Timeout: time.Second})
	movies, err := client.MovieGenres(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []genres.ExternalGenre{{ID: 28, Name: "Action"}, {ID: 12, Name: "Adventure"}}, movies)

	tv, err := client.TVGenres(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []genres.ExternalGenre{{ID: 10759, Name: "Action & Adventure"}}, tv)
}

func TestCircuitBreakerOpens(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"status_message":"Invalid API key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := New(slog.Default(), Config{BaseURL: server.URL, Timeout: time.Second, MaxFailures: 2, OpenTimeout: time.Minute})
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := client.MovieGenres(ctx)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnavailable)
	}
	_, err := client.MovieGenres(ctx)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(2), calls.Load())
}
