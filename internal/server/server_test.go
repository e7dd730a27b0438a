package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"hotornot/internal/config"
	"hotornot/internal/handlers"
	"hotornot/internal/middleware"
	"hotornot/internal/repository/memory"
	"hotornot/internal/service"
)

func TestHTTPServer_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.AppConfig{Environment: "test", HTTP: config.HTTPConfig{Host: "127.0.0.1", Port: 0}}
	store := memory.New()
	log := zerolog.Nop()

	h := handlers.NewHandlerSet(log, handlers.Dependencies{
		Config:      cfg,
		Store:       store,
		Pairs:       service.NewPairService(store.Images, store.Profiles, log),
		Votes:       service.NewVoteService(store.Images, store.Opponents, store.Votes, nil, log),
		Profiles:    service.NewProfileService(store.Votes),
		Leaderboard: service.NewLeaderboardService(store.Images, nil, 50, log),
	})
	srv := NewHTTPServer(cfg, log, h)

	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/api/healthz", http.StatusOK},
		{http.MethodGet, "/api/models", http.StatusOK},
		{http.MethodGet, "/api/nope", http.StatusNotFound},
		{http.MethodDelete, "/api/vote", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
		if w.Code != tt.want {
			t.Errorf("%s %s = %d, want %d", tt.method, tt.path, w.Code, tt.want)
		}
		if w.Header().Get(middleware.RequestIDHeader) == "" {
			t.Errorf("%s %s: missing request id header", tt.method, tt.path)
		}
	}
}
