package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/zoneroute/internal/config"
	"github.com/cory-johannsen/zoneroute/internal/observability"
	"github.com/cory-johannsen/zoneroute/internal/travel/atlas"
	"github.com/cory-johannsen/zoneroute/internal/travel/lookup"
	"github.com/cory-johannsen/zoneroute/internal/travel/resolve"
	"github.com/cory-johannsen/zoneroute/internal/travel/route"
	"github.com/cory-johannsen/zoneroute/internal/travel/zone"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func worldData() map[string][]zone.Connection {
	return map[string][]zone.Connection{
		"Guild Lobby": {
			{Target: "Guild Hall", Direction: zone.Both},
			{Target: "Plane of Knowledge", Direction: zone.Both},
		},
		"Guild Hall": {
			{Target: "North Qeynos", Direction: zone.Exit, Item: "Qeynos Totem", Description: "By the door"},
			{Target: "Guild Lobby", Direction: zone.Both},
		},
		"North Qeynos": {
			{Target: "Qeynos Hills", Direction: zone.Both},
		},
		"Qeynos Hills": {
			{Target: "Blackburrow", Direction: zone.Exit},
		},
		"Plane of Knowledge": {
			{Target: "Guild Lobby", Direction: zone.Both},
		},
		"Isle of Dread, The": {
			{Target: "Guild Hall", Direction: zone.Exit},
		},
	}
}

func webConfig() config.WebConfig {
	return config.WebConfig{
		Enabled:      true,
		Host:         "127.0.0.1",
		Port:         0,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		Summary:      true,
		Resolver: config.ResolverConfig{
			Strategy:         "fuzzy",
			AcceptThreshold:  70,
			SuggestThreshold: 30,
			MaxSuggestions:   3,
		},
	}
}

func newServer(t *testing.T) *Server {
	t.Helper()
	store := atlas.NewStaticStore(atlas.NewSnapshot(worldData(), "", 1), zap.NewNop())
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	planner, err := lookup.NewPlanner(store, lookup.Options{
		Frontend: "web",
		Resolver: resolve.Options{
			Strategy:         resolve.StrategyFuzzy,
			AcceptThreshold:  70,
			SuggestThreshold: 30,
			MaxSuggestions:   3,
		},
		Rules:       route.DefaultRules(),
		Summary:     true,
		DefaultFrom: "Guild Hall",
	}, zap.NewNop(), metrics)
	require.NoError(t, err)
	return NewServer(webConfig(), planner, reg, zaptest.NewLogger(t))
}

func do(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	return do(t, s, httptest.NewRequest(http.MethodGet, target, nil))
}

func postForm(t *testing.T, s *Server, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return do(t, s, req)
}

func TestIndex_RendersForm(t *testing.T) {
	s := newServer(t)
	w := get(t, s, "/")

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `name="to_zone"`)
	assert.Contains(t, body, `value="Guild Hall"`, "from defaults to the configured zone")
	assert.Contains(t, body, `<option value="Blackburrow">`)
	assert.NotContains(t, body, `id="result"`)
}

func TestSubmit_RendersRoute(t *testing.T) {
	s := newServer(t)
	w := postForm(t, s, url.Values{"to_zone": {"qeynos hills"}})

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "I checked 6 different routes.")
	assert.Contains(t, body, "The shortest path from Guild Hall to Qeynos Hills")
	assert.Contains(t, body, "• Arrived at Qeynos Hills!")
	assert.Contains(t, body, `value="qeynos hills"`, "the form keeps the user's input")
}

func TestSubmit_MissingDestination(t *testing.T) {
	s := newServer(t)
	w := postForm(t, s, url.Values{"from_zone": {"Guild Hall"}})

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `class="error"`)
	assert.Contains(t, body, "field is required.")
	assert.NotContains(t, body, `id="result"`)
}

func TestSubmit_NoMatch(t *testing.T) {
	s := newServer(t)
	w := postForm(t, s, url.Values{"to_zone": {"xyzzy"}})

	assert.Contains(t, w.Body.String(), "No sufficiently close matches found for")
}

func TestAPIRoute_OK(t *testing.T) {
	s := newServer(t)
	w := get(t, s, "/api/route?to=qeynos+hills")

	require.Equal(t, http.StatusOK, w.Code)
	var resp RouteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "Guild Hall", resp.From)
	assert.Equal(t, "Qeynos Hills", resp.To)
	assert.Equal(t, 6, resp.Checked)
	assert.Equal(t, uint64(1), resp.AtlasVersion)
	require.Len(t, resp.Steps, 3)
	assert.Equal(t, "Guild Hall", resp.Steps[0].Zone)
	assert.Empty(t, resp.Steps[0].Method)
	assert.Equal(t, "item", resp.Steps[1].Method)
	assert.Equal(t, "Guild Hall Item (Qeynos Totem)", resp.Steps[1].Label)
	assert.Equal(t, "Qeynos Totem", resp.Steps[1].Item)
	assert.Equal(t, "By the door", resp.Steps[1].Description)
	assert.True(t, strings.HasSuffix(resp.Text, "• Arrived at Qeynos Hills!"))
}

func TestAPIRoute_Errors(t *testing.T) {
	s := newServer(t)

	tests := []struct {
		name   string
		target string
		status int
		kind   string
	}{
		{"missing to", "/api/route?from=guild+hall", http.StatusBadRequest, observability.StatusEmptyInput},
		{"no match", "/api/route?to=xyzzy", http.StatusNotFound, observability.StatusNoMatch},
		{"no path", "/api/route?to=isle+of+dread", http.StatusUnprocessableEntity, observability.StatusNoPath},
		{"name too long", "/api/route?to=" + strings.Repeat("q", 200), http.StatusBadRequest, observability.StatusTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, s, tt.target)
			assert.Equal(t, tt.status, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.kind, resp.Kind)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestAPIZones(t *testing.T) {
	s := newServer(t)

	w := get(t, s, "/api/zones?prefix=guild")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Zones []string `json:"zones"`
		Count int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Guild Hall", "Guild Lobby"}, resp.Zones)
	assert.Equal(t, 2, resp.Count)

	w = get(t, s, "/api/zones")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 7, resp.Count)
}

func TestHealthz(t *testing.T) {
	s := newServer(t)
	w := get(t, s, "/healthz")

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, float64(7), resp["zones"])
	assert.Equal(t, float64(1), resp["atlas_version"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := newServer(t)
	get(t, s, "/api/route?to=qeynos+hills")

	w := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `zoneroute_lookups_total{frontend="web",status="ok"} 1`)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(io.EOF))
}

func TestServer_StartStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := newServer(t)
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	select {
	case <-s.Ready():
	case err := <-errCh:
		t.Fatalf("server exited early: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("server not ready")
	}
	require.NotEmpty(t, s.Addr())

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + s.Addr() + "/healthz")
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	s.Stop()
	s.Stop()
	assert.NoError(t, <-errCh)
}

func TestServer_StopBeforeStart(t *testing.T) {
	s := newServer(t)
	s.Stop()
	assert.NoError(t, s.Start())
	assert.Empty(t, s.Addr())
}
