package controllers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/angelmondragon/babydeals-backend/pkg/config"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthLive(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev", Port: "0"}}
	resp := serve(HealthLive(cfg), newRequest(http.MethodGet, "/health/live", "", nil, nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get("X-Babydeals-Env"); got != "dev" {
		t.Fatalf("expected env header dev got %q", got)
	}
}

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev", Port: "0"}}
	ok := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("connection refused") })

	cases := []struct {
		name   string
		db     Pinger
		cache  Pinger
		status int
	}{
		{name: "all up", db: ok, cache: ok, status: http.StatusOK},
		{name: "database down", db: down, cache: ok, status: http.StatusServiceUnavailable},
		{name: "redis down", db: ok, cache: down, status: http.StatusServiceUnavailable},
		{name: "redis missing", db: ok, cache: nil, status: http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := serve(HealthReady(cfg, nil, tc.db, tc.cache), newRequest(http.MethodGet, "/health/ready", "", nil, nil))
			if resp.Code != tc.status {
				t.Fatalf("expected %d got %d", tc.status, resp.Code)
			}
			if tc.status != http.StatusOK {
				envelope := decodeError(t, resp)
				if envelope.Error.Code != "DEPENDENCY_ERROR" {
					t.Fatalf("expected DEPENDENCY_ERROR got %s", envelope.Error.Code)
				}
			}
		})
	}
}
