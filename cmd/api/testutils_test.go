package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"streamcatalog/proj/internal/config"
	"streamcatalog/proj/internal/lib/logger"
	"streamcatalog/proj/internal/services"
	"streamcatalog/proj/internal/storage/memory"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testAdminEmail = "admin@example.com"

type stubMailer struct{}

func (stubMailer) Send(string, string, any) error { return nil }

// inlineTasks runs background work before Add returns, so propagation is
// visible to the next request.
type inlineTasks struct{}

func (inlineTasks) Add(task func()) { task() }

func NewTestApplication(t *testing.T) *Application {
	t.Helper()
	cfg := &config.Config{
		DB: config.DB{Driver: config.DriverMemory},
		Auth: config.Auth{
			JWTSecret:   "test-secret",
			TokenTTL:    time.Hour,
			AdminEmails: []string{testAdminEmail},
		},
		CORS: config.CORS{AllowedOrigins: []string{"*"}},
	}
	log := logger.NewLogger(io.Discard, false)
	storage := memory.New()
	svc := services.New(log, cfg, services.MemoryRepositories(storage), inlineTasks{}, stubMailer{}, nil)
	return NewApplication(cfg, log, svc, storage, nil)
}

// tokenFor signs up a user with email and returns a bearer token for it.
func tokenFor(t *testing.T, app *Application, email string) string {
	t.Helper()
	ctx := context.Background()
	_, err := app.Services.Auth.Signup(ctx, email, email, "pa55word!")
	require.NoError(t, err)
	tokens, err := app.Services.Auth.Login(ctx, email, "pa55word!")
	require.NoError(t, err)
	return tokens.AccessToken
}

type testResponse struct {
	Code    int
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func doRequest(t *testing.T, handler http.Handler, method, path, token string, body any) testResponse {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			payload, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(payload)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	res := testResponse{Code: rec.Code}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res), rec.Body.String())
	}
	return res
}

// field walks nested objects of data by key.
func field(t *testing.T, data map[string]any, keys ...string) any {
	t.Helper()
	var cur any = data
	for _, k := range keys {
		obj, ok := cur.(map[string]any)
		require.Truef(t, ok, "%q is not an object", k)
		cur = obj[k]
	}
	return cur
}
