package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-agecalc/internal/config"
	"github.com/tartampluch/go-agecalc/internal/engine"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func post(t *testing.T, s *Server, route, body string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, config.RouteAPI+route, strings.NewReader(body))
	resp := serve(s, req)
	return resp, decodeBody(t, resp)
}

func get(t *testing.T, s *Server, path string) (*http.Response, map[string]any) {
	t.Helper()
	resp := serve(s, httptest.NewRequest(http.MethodGet, path, nil))
	return resp, decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	return out
}

func TestAPI_Extract(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, body := post(t, srv, config.RouteExtract, `{"text":"15 de Janeiro de 1990 e 20/05/2020"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeJSON, resp.Header.Get(config.HeaderContentType))
	assert.Equal(t, true, body["understood"])
	assert.Equal(t, []any{"20/05/2020", "15/01/1990"}, body["dates"])
	assert.Equal(t, 1.0, testutil.ToFloat64(srv.metrics.extractions.WithLabelValues("2")))
}

func TestAPI_Extract_NotUnderstood(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, body := post(t, srv, config.RouteExtract, `{"text":"31/02/2020"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["understood"])
	assert.Equal(t, []any{}, body["dates"])
}

func TestAPI_Extract_Memoised(t *testing.T) {
	srv := newTestServer(t, Options{CacheSize: 4})

	post(t, srv, config.RouteExtract, `{"text":"1 de Março de 2001"}`)
	post(t, srv, config.RouteExtract, `{"text":"  1 de marco de 2001 "}`)

	assert.Equal(t, 1, srv.memo.Len(), "Folded spellings share one cache entry")
	dates, ok := srv.memo.Get("1 de marco de 2001")
	require.True(t, ok)
	assert.Equal(t, []engine.CalendarDate{{Year: 2001, Month: 3, Day: 1}}, dates)
}

func TestAPI_Extract_BadBody(t *testing.T) {
	srv := newTestServer(t, Options{})

	for _, body := range []string{`not json`, `{"text": 5}`, `{"unknown":"x"}`} {
		resp, out := post(t, srv, config.RouteExtract, body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		assert.Contains(t, out["error"], config.ErrDecodeBody)
	}
}

func TestAPI_Age(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, body := post(t, srv, config.RouteAge, `{"birth":"15/01/1990","current":"14/01/2024"}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "15/01/1990", body["birth"])
	assert.Equal(t, "14/01/2024", body["current"])
	assert.Equal(t, false, body["swapped"])
	assert.Equal(t, 33.0, body["years"])
	assert.Equal(t, 11.0, body["months"])
	assert.Equal(t, 30.0, body["days"])
	assert.Equal(t, 12417.0, body["total_days"])
	assert.Equal(t, 1.0, testutil.ToFloat64(srv.metrics.calculations.WithLabelValues(config.OutcomeOK)))
}

func TestAPI_Age_DefaultsToToday(t *testing.T) {
	srv := newTestServer(t, Options{Clock: fixedClock{time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)}})

	resp, body := post(t, srv, config.RouteAge, `{"birth":"15/01/1990"}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "15/01/2024", body["current"])
	assert.Equal(t, 34.0, body["years"])
}

func TestAPI_Age_Policies(t *testing.T) {
	inverted := `{"birth":"14/01/2024","current":"15/01/1990"}`

	t.Run("StrictRejects", func(t *testing.T) {
		srv := newTestServer(t, Options{Policy: engine.OrderStrict})
		resp, body := post(t, srv, config.RouteAge, inverted)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Contains(t, body["error"], config.ErrDateOrder)
		assert.Equal(t, 1.0, testutil.ToFloat64(srv.metrics.calculations.WithLabelValues(config.OutcomeRejected)))
	})

	t.Run("ServerSwaps", func(t *testing.T) {
		srv := newTestServer(t, Options{Policy: engine.OrderAutoSwap})
		resp, body := post(t, srv, config.RouteAge, inverted)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["swapped"])
		assert.Equal(t, "15/01/1990", body["birth"])
		assert.Equal(t, 1.0, testutil.ToFloat64(srv.metrics.calculations.WithLabelValues(config.OutcomeSwapped)))
	})

	t.Run("RequestOverridesServer", func(t *testing.T) {
		srv := newTestServer(t, Options{Policy: engine.OrderStrict})
		resp, body := post(t, srv, config.RouteAge, `{"birth":"14/01/2024","current":"15/01/1990","policy":"swap"}`)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["swapped"])
	})

	t.Run("EqualDatesAlwaysRejected", func(t *testing.T) {
		srv := newTestServer(t, Options{Policy: engine.OrderAutoSwap})
		resp, body := post(t, srv, config.RouteAge, `{"birth":"01/01/2000","current":"01/01/2000"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Contains(t, body["error"], config.ErrSameDate)
	})
}

func TestAPI_Age_InvalidInput(t *testing.T) {
	srv := newTestServer(t, Options{})

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"MissingBirth", `{"current":"01/01/2000"}`, config.ErrMissingField},
		{"BadBirth", `{"birth":"31/02/2020","current":"01/01/2021"}`, config.ErrInvalidDate},
		{"BadCurrent", `{"birth":"01/01/2000","current":"2021-01-01"}`, config.ErrInvalidDate},
		{"BadPolicy", `{"birth":"01/01/2000","current":"01/01/2021","policy":"maybe"}`, config.ErrInvalidPolicy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := post(t, srv, config.RouteAge, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, body["error"], tt.wantErr)
		})
	}
}

func TestAPI_Adulthood(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, body := get(t, srv, config.RouteAPI+"/adulthood/2006")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2006.0, body["birth_year"])
	assert.Equal(t, 2024.0, body["adult_year"])

	resp, _ = get(t, srv, config.RouteAPI+"/adulthood/1800")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = get(t, srv, config.RouteAPI+"/adulthood/abc")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_Months(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, body := get(t, srv, config.RouteAPI+"/months/1")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	month := body["month"].(map[string]any)
	assert.Equal(t, "Janeiro", month["name"])

	prev := body["previous"].([]any)
	require.Len(t, prev, 3)
	assert.Equal(t, "Outubro", prev[0].(map[string]any)["name"])
	assert.Equal(t, "Dezembro", prev[2].(map[string]any)["name"])

	resp, _ = get(t, srv, config.RouteAPI+"/months/13")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestAPI_RateLimited(t *testing.T) {
	srv := newTestServer(t, Options{RequestsPerMin: 2})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, config.RouteAPI+"/months/5", nil)
		req.RemoteAddr = "203.0.113.7:5000"
		codes = append(codes, serve(srv, req).StatusCode)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// Another client has its own bucket.
	req := httptest.NewRequest(http.MethodGet, config.RouteAPI+"/months/5", nil)
	req.RemoteAddr = "203.0.113.8:5000"
	assert.Equal(t, http.StatusOK, serve(srv, req).StatusCode)

	// Health checks are not limited.
	req = httptest.NewRequest(http.MethodGet, config.RouteHealth, nil)
	req.RemoteAddr = "203.0.113.7:5000"
	assert.Equal(t, http.StatusOK, serve(srv, req).StatusCode)
}

func TestMetrics_CountsByRoutePattern(t *testing.T) {
	srv := newTestServer(t, Options{})

	get(t, srv, config.RouteAPI+"/adulthood/2006")
	get(t, srv, config.RouteAPI+"/adulthood/1990")

	pattern := config.RouteAPI + config.RouteAdulthood
	assert.Equal(t, 2.0, testutil.ToFloat64(srv.metrics.requests.WithLabelValues(http.MethodGet, pattern, "200")))

	resp := serve(srv, httptest.NewRequest(http.MethodGet, config.RouteMetrics, nil))
	defer func() { _ = resp.Body.Close() }()
	raw, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), config.MetricRequests)
}

func TestMetrics_UnknownPathsShareOneSeries(t *testing.T) {
	srv := newTestServer(t, Options{})

	for _, path := range []string{"/nope", "/wp-login.php", "/a/b/c"} {
		resp := serve(srv, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}

	assert.Equal(t, 1, testutil.CollectAndCount(srv.metrics.requests))
	assert.Equal(t, 3.0, testutil.ToFloat64(
		srv.metrics.requests.WithLabelValues(http.MethodGet, config.RouteUnmatched, "404")))
}

func TestNew_DuplicateRegistryFails(t *testing.T) {
	srv := newTestServer(t, Options{})

	_, err := New(Options{Registry: srv.reg})
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrMetricsRegister)
}
