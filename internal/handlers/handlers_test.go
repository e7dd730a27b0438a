package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"hotornot/internal/config"
	"hotornot/internal/models"
	"hotornot/internal/repository"
	"hotornot/internal/repository/memory"
	"hotornot/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, images ...models.Image) (*gin.Engine, *repository.Store) {
	t.Helper()
	store := memory.New()
	for i := range images {
		if err := store.Images.Create(context.Background(), &images[i]); err != nil {
			t.Fatal(err)
		}
	}

	log := zerolog.Nop()
	h := NewHandlerSet(log, Dependencies{
		Config:      &config.AppConfig{Environment: "test"},
		Store:       store,
		Pairs:       service.NewPairService(store.Images, store.Profiles, log),
		Votes:       service.NewVoteService(store.Images, store.Opponents, store.Votes, nil, log),
		Profiles:    service.NewProfileService(store.Votes),
		Leaderboard: service.NewLeaderboardService(store.Images, nil, 50, log),
	})

	r := gin.New()
	h.Register(r.Group("/api"))
	return r, store
}

func do(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
}

func pairImages() []models.Image {
	return []models.Image{
		{ID: "a", URL: "https://cdn/a.jpg", ModelName: "Ann", ModelUsername: "ann", IsActive: true},
		{ID: "b", URL: "https://cdn/b.jpg", IsActive: true},
	}
}

func TestModels(t *testing.T) {
	r, store := newTestRouter(t, pairImages()...)
	_ = store.Profiles.UpsertProfile(context.Background(), models.ModelProfile{Username: "ann", Instagram: "ann.ig"})

	w := do(r, http.MethodGet, "/api/models", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Models []map[string]any `json:"models"`
	}
	decode(t, w, &resp)
	if len(resp.Models) != 2 {
		t.Fatalf("models = %v", resp.Models)
	}
	for _, m := range resp.Models {
		switch m["_id"] {
		case "a":
			if m["instagram"] != "ann.ig" || m["modelName"] != "Ann" {
				t.Errorf("a = %v", m)
			}
		case "b":
			if m["modelName"] != models.DefaultModelName || m["modelUsername"] != models.DefaultModelUsername {
				t.Errorf("b defaults = %v", m)
			}
			if _, ok := m["instagram"]; ok {
				t.Errorf("b has instagram: %v", m)
			}
		default:
			t.Errorf("unexpected model %v", m)
		}
		if m["elo"] != float64(1200) || m["wins"] != float64(0) || m["winRate"] != float64(0) {
			t.Errorf("rating fields = %v", m)
		}
	}
}

func TestModels_NotEnoughImages(t *testing.T) {
	r, _ := newTestRouter(t, models.Image{ID: "a", URL: "a"})

	w := do(r, http.MethodGet, "/api/models", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Models []map[string]any `json:"models"`
	}
	decode(t, w, &resp)
	if len(resp.Models) != 1 {
		t.Fatalf("models = %v", resp.Models)
	}
}

func TestVote(t *testing.T) {
	r, store := newTestRouter(t, pairImages()...)

	w := do(r, http.MethodPost, "/api/vote", `{"winnerId":"a","loserId":"b","userId":"u1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp voteResponse
	decode(t, w, &resp)
	if !resp.Success || resp.WinnerNewElo != 1216 || resp.LoserNewElo != 1184 {
		t.Fatalf("resp = %+v", resp)
	}
	if n, _ := store.Votes.CountByVoter(context.Background(), "u1"); n != 1 {
		t.Errorf("votes = %d", n)
	}
}

func TestVote_Errors(t *testing.T) {
	r, store := newTestRouter(t, pairImages()...)

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "missing loser", body: `{"winnerId":"a"}`, want: http.StatusBadRequest},
		{name: "empty ids", body: `{"winnerId":"","loserId":""}`, want: http.StatusBadRequest},
		{name: "same image", body: `{"winnerId":"a","loserId":"a"}`, want: http.StatusBadRequest},
		{name: "malformed", body: `{"winnerId":`, want: http.StatusBadRequest},
		{name: "unknown image", body: `{"winnerId":"a","loserId":"zzz"}`, want: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/api/vote", tt.body)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
			var resp errorResponse
			decode(t, w, &resp)
			if resp.Error == "" {
				t.Errorf("missing error message")
			}
		})
	}

	a, _ := store.Images.GetByID(context.Background(), "a")
	if a.TimesRated != 0 {
		t.Errorf("rejected votes mutated image: %+v", a)
	}
}

func TestProfile(t *testing.T) {
	r, _ := newTestRouter(t, pairImages()...)
	do(r, http.MethodPost, "/api/vote", `{"winnerId":"a","loserId":"b"}`)

	w := do(r, http.MethodGet, "/api/profile", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp profileResponse
	decode(t, w, &resp)
	if resp.UserID != models.AnonymousVoter || resp.TotalVotes != 1 || resp.UniqueModelsVoted != 2 {
		t.Fatalf("resp = %+v", resp)
	}
	if len(resp.RecentVotes) != 1 || resp.RecentVotes[0].WinnerID != "a" {
		t.Errorf("recent = %+v", resp.RecentVotes)
	}
	if len(resp.TopWinners) != 1 || resp.TopWinners[0].ID != "a" || resp.TopWinners[0].URL != "https://cdn/a.jpg" {
		t.Errorf("top = %+v", resp.TopWinners)
	}

	w = do(r, http.MethodGet, "/api/profile?userId=nobody", "")
	var empty map[string]any
	decode(t, w, &empty)
	if empty["totalVotes"] != float64(0) {
		t.Errorf("empty profile = %v", empty)
	}
	if v, ok := empty["recentVotes"].([]any); !ok || len(v) != 0 {
		t.Errorf("recentVotes = %v, want []", empty["recentVotes"])
	}
}

func TestLeaderboard(t *testing.T) {
	r, _ := newTestRouter(t,
		models.Image{ID: "a", URL: "a", Rating: 1100},
		models.Image{ID: "b", URL: "b", Rating: 1300},
		models.Image{ID: "c", URL: "c", Rating: 1200},
	)

	w := do(r, http.MethodGet, "/api/leaderboard?limit=2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Leaderboard []leaderboardEntryResponse `json:"leaderboard"`
	}
	decode(t, w, &resp)
	if len(resp.Leaderboard) != 2 || resp.Leaderboard[0].ID != "b" || resp.Leaderboard[0].Rank != 1 || resp.Leaderboard[1].Elo != 1200 {
		t.Fatalf("leaderboard = %+v", resp.Leaderboard)
	}
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp healthResponse
	decode(t, w, &resp)
	if resp.Store != "memory" || resp.Cache != "disabled" || resp.Status != "ok" {
		t.Errorf("resp = %+v", resp)
	}
}
