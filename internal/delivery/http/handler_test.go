package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treasurehunter/watcher/config"
	"github.com/treasurehunter/watcher/internal/domain"
	"github.com/treasurehunter/watcher/internal/infrastructure/registry"
	"github.com/treasurehunter/watcher/internal/usecase"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubStatus struct {
	status  usecase.SchedulerStatus
	targets []domain.WatchTarget
}

func (s *stubStatus) Status() usecase.SchedulerStatus { return s.status }
func (s *stubStatus) Targets() []domain.WatchTarget   { return s.targets }

type roundFunc func() domain.RoundReport

func (f roundFunc) RunRound(context.Context, []domain.WatchTarget) domain.RoundReport { return f() }

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:*"},
		},
	}
}

func serve(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheckEndpoint(t *testing.T) {
	router := SetupRouter(testConfig(), NewHandler(nil, nil))

	w := serve(t, router, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "treasure-hunter", body["service"])
}

func TestStatusEndpoint(t *testing.T) {
	t.Run("reports scheduler totals and registry size", func(t *testing.T) {
		started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		source := &stubStatus{
			status: usecase.SchedulerStatus{
				Running:          true,
				StartedAt:        started,
				RoundsCompleted:  4,
				TotalAlerts:      2,
				TotalFetchErrors: 1,
				LastRound:        &domain.RoundReport{ID: "round-4", Targets: 6, Matches: 1},
			},
		}
		reg := registry.NewMemoryRegistry()
		reg.ShouldAlert(domain.MatchIdentity{TargetName: "A", ListingTitle: "a", ListingPrice: 1})
		reg.ShouldAlert(domain.MatchIdentity{TargetName: "B", ListingTitle: "b", ListingPrice: 2})

		router := SetupRouter(testConfig(), NewHandler(source, reg))
		w := serve(t, router, "/api/v1/status")
		require.Equal(t, http.StatusOK, w.Code)

		var body StatusResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Running)
		assert.Equal(t, 4, body.RoundsCompleted)
		assert.Equal(t, 2, body.TotalAlerts)
		assert.Equal(t, 1, body.TotalFetchErrors)
		assert.Equal(t, 2, body.RegistrySize)
		require.NotNil(t, body.LastRound)
		assert.Equal(t, "round-4", body.LastRound.ID)
		assert.True(t, body.StartedAt.Equal(started))
	})

	t.Run("returns 503 without a watch loop", func(t *testing.T) {
		router := SetupRouter(testConfig(), NewHandler(nil, nil))
		w := serve(t, router, "/api/v1/status")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestTargetsEndpoint(t *testing.T) {
	t.Run("lists targets in order with their tolerance", func(t *testing.T) {
		source := &stubStatus{targets: []domain.WatchTarget{
			{Name: "Hisense Inverter Air Conditioner", TargetPrice: 4379},
			{Name: "Hisense 20 Litre Microwave", TargetPrice: 770},
			{Name: `TCL 55" UHD 4K Smart TV`, TargetPrice: 4600},
		}}

		router := SetupRouter(testConfig(), NewHandler(source, registry.NewMemoryRegistry()))
		w := serve(t, router, "/api/v1/targets")
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Targets []TargetView `json:"targets"`
			Count   int          `json:"count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Equal(t, 3, body.Count)

		assert.Equal(t, TargetView{
			Name: "Hisense Inverter Air Conditioner", TargetPrice: 4379,
			Tolerance: 437, MinPrice: 3942, MaxPrice: 4816,
		}, body.Targets[0])
		assert.Equal(t, TargetView{
			Name: "Hisense 20 Litre Microwave", TargetPrice: 770,
			Tolerance: 200, MinPrice: 570, MaxPrice: 970,
		}, body.Targets[1])
		assert.Equal(t, `TCL 55" UHD 4K Smart TV`, body.Targets[2].Name)
		assert.Equal(t, 460, body.Targets[2].Tolerance)
	})

	t.Run("returns 503 without a watch loop", func(t *testing.T) {
		router := SetupRouter(testConfig(), NewHandler(nil, nil))
		w := serve(t, router, "/api/v1/targets")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestMatchesEndpoint(t *testing.T) {
	t.Run("lists alerted matches in first-seen order", func(t *testing.T) {
		reg := registry.NewMemoryRegistry()
		first := domain.MatchIdentity{TargetName: "Hisense 20 Litre Microwave", ListingTitle: "Hisense 20L Microwave Oven", ListingPrice: 900}
		second := domain.MatchIdentity{TargetName: "Syinix Swallow Maker", ListingTitle: "Syinix Swallow Maker", ListingPrice: 1100}
		reg.ShouldAlert(first)
		time.Sleep(time.Millisecond)
		reg.ShouldAlert(second)
		reg.ShouldAlert(first)

		router := SetupRouter(testConfig(), NewHandler(nil, reg))
		w := serve(t, router, "/api/v1/matches")
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Matches []domain.SeenMatch `json:"matches"`
			Count   int                `json:"count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Equal(t, 2, body.Count)
		assert.Equal(t, first, body.Matches[0].MatchIdentity)
		assert.Equal(t, second, body.Matches[1].MatchIdentity)
		assert.False(t, body.Matches[0].FirstSeen.IsZero())
		assert.Contains(t, w.Body.String(), `"listingPrice":900`)
	})

	t.Run("returns 503 without a registry", func(t *testing.T) {
		router := SetupRouter(testConfig(), NewHandler(nil, nil))
		w := serve(t, router, "/api/v1/matches")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestUnknownRoute(t *testing.T) {
	router := SetupRouter(testConfig(), NewHandler(nil, nil))
	w := serve(t, router, "/api/v1/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatusEndpointAgainstScheduler(t *testing.T) {
	targets := []domain.WatchTarget{{Name: "Syinix Swallow Maker", TargetPrice: 1120}}
	runner := roundFunc(func() domain.RoundReport {
		return domain.RoundReport{ID: "only", Targets: 1, Alerts: 1}
	})
	scheduler, err := usecase.NewScheduler(runner, targets, usecase.SchedulerConfig{MaxRounds: 1})
	require.NoError(t, err)
	require.NoError(t, scheduler.Run(t.Context()))

	router := SetupRouter(testConfig(), NewHandler(scheduler, registry.NewMemoryRegistry()))
	w := serve(t, router, "/api/v1/status")
	require.Equal(t, http.StatusOK, w.Code)

	var body StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Running)
	assert.Equal(t, 1, body.RoundsCompleted)
	assert.Equal(t, 1, body.TotalAlerts)
}
