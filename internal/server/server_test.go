package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/life-in-weeks/internal/config"
	"github.com/tartampluch/life-in-weeks/internal/engine"
	"github.com/tartampluch/life-in-weeks/internal/metrics"
)

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func testSnapshot(t *testing.T) engine.Snapshot {
	t.Helper()
	life := &engine.Life{Clock: engine.FixedClock{At: time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)}}
	snap, err := life.Snapshot(engine.Profile{BirthDate: time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)}, 90)
	require.NoError(t, err)
	return snap
}

func publish(t *testing.T, srv *LifeServer, ics string) {
	t.Helper()
	require.NoError(t, srv.Update(testSnapshot(t), engine.GlobalEvents(), []byte(ics)))
}

func do(h http.Handler, method, path string, header http.Header) *http.Response {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Result()
}

// -----------------------------------------------------------------------------
// Handler Tests
// -----------------------------------------------------------------------------

func TestCalendar_ServingContent(t *testing.T) {
	srv := NewLifeServer("0", nil, nil)
	expectedICS := "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR"
	publish(t, srv, expectedICS)

	resp := do(srv.Router(), http.MethodGet, config.RouteCalendar, nil)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeTextCalendar, resp.Header.Get(config.HeaderContentType))
	assert.Equal(t, config.MimeNoSniff, resp.Header.Get(config.HeaderXContentType))
	assert.Contains(t, resp.Header.Get(config.HeaderCacheControl), "no-cache")
	assert.NotEmpty(t, resp.Header.Get(config.HeaderETag))

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, expectedICS, string(body))
}

func TestCalendar_Caching(t *testing.T) {
	srv := NewLifeServer("0", nil, nil)
	publish(t, srv, "DATA_VERSION_1")
	h := srv.Router()

	first := do(h, http.MethodGet, config.RouteCalendar, nil)
	etag := first.Header.Get(config.HeaderETag)
	lastMod := first.Header.Get(config.HeaderLastModified)
	_ = first.Body.Close()
	require.NotEmpty(t, etag)

	byETag := do(h, http.MethodGet, config.RouteCalendar, http.Header{config.HeaderIfNoneMatch: {etag}})
	defer func() { _ = byETag.Body.Close() }()
	assert.Equal(t, http.StatusNotModified, byETag.StatusCode)
	body, _ := io.ReadAll(byETag.Body)
	assert.Empty(t, body, "Body must be empty on 304 Not Modified")

	byDate := do(h, http.MethodGet, config.RouteCalendar, http.Header{config.HeaderIfModifiedSince: {lastMod}})
	defer func() { _ = byDate.Body.Close() }()
	assert.Equal(t, http.StatusNotModified, byDate.StatusCode)
}

func TestCalendar_Head(t *testing.T) {
	srv := NewLifeServer("0", nil, nil)
	publish(t, srv, "BEGIN:VCALENDAR")

	resp := do(srv.Router(), http.MethodHead, config.RouteCalendar, nil)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Empty(t, body)
}

func TestCalendar_MethodNotAllowed(t *testing.T) {
	srv := NewLifeServer("0", nil, nil)
	publish(t, srv, "x")

	resp := do(srv.Router(), http.MethodPost, config.RouteCalendar, nil)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRoutes_Initializing(t *testing.T) {
	srv := NewLifeServer("0", nil, nil)
	h := srv.Router()

	for _, route := range []string{config.RouteCalendar, config.RouteStats, config.RouteGrid, config.RouteEvents} {
		t.Run(route, func(t *testing.T) {
			resp := do(h, http.MethodGet, route, nil)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
			assert.Equal(t, config.RetryAfterSeconds, resp.Header.Get(config.HeaderRetryAfter))
		})
	}
}

func TestServer_Clear(t *testing.T) {
	srv := NewLifeServer("0", nil, nil)
	publish(t, srv, "x")
	h := srv.Router()

	resp := do(h, http.MethodGet, config.RouteStats, nil)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	srv.Clear()

	for _, route := range []string{config.RouteCalendar, config.RouteStats, config.RouteGrid, config.RouteEvents} {
		resp := do(h, http.MethodGet, route, nil)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, route)
		assert.Equal(t, config.RetryAfterSeconds, resp.Header.Get(config.HeaderRetryAfter), route)
	}
}

func TestStats_JSON(t *testing.T) {
	srv := NewLifeServer("0", nil, nil)
	publish(t, srv, "x")

	resp := do(srv.Router(), http.MethodGet, config.RouteStats, nil)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeJSON, resp.Header.Get(config.HeaderContentType))

	var got statsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "1990-06-15", got.BirthDate)
	assert.Equal(t, "2024-06-15", got.Now)
	assert.Equal(t, 1774, got.Stats.WeeksLived)
	assert.Equal(t, 2906, got.Stats.WeeksRemaining)
	assert.Equal(t, 1774, got.CurrentIndex)
}

func TestGrid_JSON(t *testing.T) {
	srv := NewLifeServer("0", nil, nil)
	publish(t, srv, "x")

	resp := do(srv.Router(), http.MethodGet, config.RouteGrid, nil)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		Cells []struct {
			Index int    `json:"index"`
			Year  int    `json:"year"`
			Week  int    `json:"week"`
			State string `json:"state"`
		} `json:"cells"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got.Cells, 4680)
	assert.Equal(t, "lived", got.Cells[1773].State)
	assert.Equal(t, "current", got.Cells[1774].State)
	assert.Equal(t, "future", got.Cells[1775].State)
	assert.Equal(t, 34, got.Cells[1774].Year)
	assert.Equal(t, 6, got.Cells[1774].Week)
}

func TestEvents_JSON(t *testing.T) {
	srv := NewLifeServer("0", nil, nil)
	publish(t, srv, "x")

	resp := do(srv.Router(), http.MethodGet, config.RouteEvents, nil)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string][]struct {
		ID        string `json:"id"`
		WeekIndex *int   `json:"week_index"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got["2020"], 1)
	assert.Equal(t, "covid-start", got["2020"][0].ID)
	require.NotNil(t, got["2020"][0].WeekIndex)
	assert.Equal(t, engine.WeeksLived(
		time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 3, 11, 0, 0, 0, 0, time.Local),
	), *got["2020"][0].WeekIndex)
}

func TestHealth(t *testing.T) {
	srv := NewLifeServer("0", nil, nil)
	h := srv.Router()

	var body map[string]string
	resp := do(h, http.MethodGet, config.RouteHealth, nil)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	_ = resp.Body.Close()
	assert.Equal(t, config.HealthStatusWaiting, body["status"])

	publish(t, srv, "x")
	resp = do(h, http.MethodGet, config.RouteHealth, nil)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	_ = resp.Body.Close()
	assert.Equal(t, config.HealthStatusOK, body["status"])
}

func TestMetrics_CountsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	srv := NewLifeServer("0", m, reg)
	h := srv.Router()

	_ = do(h, http.MethodGet, config.RouteStats, nil).Body.Close()
	publish(t, srv, "x")
	_ = do(h, http.MethodGet, config.RouteStats, nil).Body.Close()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues(config.RouteStats, "503")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues(config.RouteStats, "200")))

	resp := do(h, http.MethodGet, config.RouteMetrics, nil)
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), config.MetricNamespace+"_"+config.MetricHTTPRequests)
}

// -----------------------------------------------------------------------------
// Concurrency Tests (Race Detection)
// -----------------------------------------------------------------------------

// TestServer_RaceCondition stresses atomic publication against concurrent reads.
// Run this with `go test -race`.
func TestServer_RaceCondition(t *testing.T) {
	srv := NewLifeServer("0", nil, nil)
	h := srv.Router()
	snap := testSnapshot(t)
	var wg sync.WaitGroup
	end := time.Now().Add(300 * time.Millisecond)

	for w := 0; w < 3; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; time.Now().Before(end); i++ {
				_ = srv.Update(snap, nil, []byte(fmt.Sprintf("VERSION:%d-%d", id, i)))
				time.Sleep(time.Millisecond)
			}
		}(w)
	}

	for r := 0; r < 10; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) {
				req := httptest.NewRequest(http.MethodGet, config.RouteCalendar, nil)
				w := httptest.NewRecorder()
				h.ServeHTTP(w, req)
				if w.Code != http.StatusOK && w.Code != http.StatusServiceUnavailable {
					t.Errorf("Unexpected status code during race test: %d", w.Code)
				}
			}
		}()
	}

	wg.Wait()
}

// -----------------------------------------------------------------------------
// Integration Tests (Real TCP Lifecycle)
// -----------------------------------------------------------------------------

func TestServer_Lifecycle(t *testing.T) {
	const port = "18099"

	srv := NewLifeServer(port, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)
	go func() { errChan <- srv.Start(ctx) }()

	url := "http://127.0.0.1:" + port + config.RouteStats

	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return true
	}, 2*time.Second, 50*time.Millisecond, "Server failed to bind/listen in time")

	resp, err := http.Get(url)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	_ = resp.Body.Close()

	publish(t, srv, "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")

	resp, err = http.Get(url)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	cancel()
	select {
	case err := <-errChan:
		assert.NoError(t, err, "Server should shutdown gracefully without error")
	case <-time.After(5 * time.Second):
		t.Fatal("Server shutdown timed out")
	}
}

func TestServer_StartRequiresPort(t *testing.T) {
	err := NewLifeServer("", nil, nil).Start(context.Background())
	assert.EqualError(t, err, config.ErrPortRequired)
}
