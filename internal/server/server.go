package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tartampluch/life-in-weeks/internal/config"
	"github.com/tartampluch/life-in-weeks/internal/engine"
	"github.com/tartampluch/life-in-weeks/internal/metrics"
)

// cacheItem is one published life snapshot, pre-rendered for every route.
type cacheItem struct {
	ics          []byte
	stats        []byte
	grid         []byte
	events       []byte
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

// LifeServer exposes the latest snapshot over a localhost HTTP API.
type LifeServer struct {
	// Snapshots are read on every request but replaced at most a few times a
	// day, so readers load an immutable item without locking.
	cache atomic.Pointer[cacheItem]
	Port  string

	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
}

// NewLifeServer creates a server. m and g may be nil, in which case requests are
// not counted and /metrics serves the default registry.
func NewLifeServer(port string, m *metrics.Metrics, g prometheus.Gatherer) *LifeServer {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return &LifeServer{Port: port, metrics: m, gatherer: g}
}

type statsResponse struct {
	BirthDate    string       `json:"birth_date"`
	TargetAge    int          `json:"target_age"`
	Now          string       `json:"now"`
	CurrentIndex int          `json:"current_index"`
	Stats        engine.Stats `json:"stats"`
}

type placedEvent struct {
	engine.Event
	WeekIndex *int `json:"week_index,omitempty"`
}

// Update publishes a new snapshot. Readers see either the previous or the new
// item, never a mix of both.
func (s *LifeServer) Update(snap engine.Snapshot, events []engine.Event, ics []byte) error {
	stats, err := json.Marshal(statsResponse{
		BirthDate:    snap.BirthDate.Format(config.DateFormatISO),
		TargetAge:    snap.TargetAge,
		Now:          snap.Now.Format(config.DateFormatISO),
		CurrentIndex: snap.CurrentIndex,
		Stats:        snap.Stats,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrEncodeJSON, err)
	}

	grid, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrEncodeJSON, err)
	}

	byYear := make(map[int][]placedEvent)
	for _, e := range events {
		pe := placedEvent{Event: e}
		if idx, ok := engine.PlaceEvent(snap.BirthDate, snap.TargetAge, e); ok {
			pe.WeekIndex = &idx
		}
		y := e.Date.Year()
		byYear[y] = append(byYear[y], pe)
	}
	evJSON, err := json.Marshal(byYear)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrEncodeJSON, err)
	}

	hash := sha256.Sum256(ics)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	s.cache.Store(&cacheItem{
		ics:          ics,
		stats:        stats,
		grid:         grid,
		events:       evJSON,
		etag:         etag,
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	})

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(grid),
		config.LogKeyETag, etag,
	)
	return nil
}

// Clear drops the published snapshot. Every route answers 503 again until the
// next Update.
func (s *LifeServer) Clear() {
	s.cache.Store(nil)
	slog.Debug(config.MsgCacheCleared, config.LogKeyComponent, config.CompServer)
}

// Router builds the chi routing tree.
func (s *LifeServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.countRequests)

	r.Get(config.RouteHealth, s.handleHealth)
	r.Method(http.MethodGet, config.RouteMetrics, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(s.requireSnapshot)
		r.Get(config.RouteCalendar, s.handleCalendar)
		r.Head(config.RouteCalendar, s.handleCalendar)
		r.Get(config.RouteStats, s.jsonHandler(func(c *cacheItem) []byte { return c.stats }))
		r.Get(config.RouteGrid, s.jsonHandler(func(c *cacheItem) []byte { return c.grid }))
		r.Get(config.RouteEvents, s.jsonHandler(func(c *cacheItem) []byte { return c.events }))
	})
	return r
}

// Start serves the API on localhost and blocks until the context is cancelled.
func (s *LifeServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Router(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)
	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// countRequests feeds the per-route request counter.
func (s *LifeServer) countRequests(next http.Handler) http.Handler {
	if s.metrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	})
}

// requireSnapshot answers 503 until the first snapshot is published.
func (s *LifeServer) requireSnapshot(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cache.Load() == nil {
			w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
			http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *LifeServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status := config.HealthStatusOK
	if s.cache.Load() == nil {
		status = config.HealthStatusWaiting
	}
	writeJSON(w, map[string]string{
		"status":  status,
		"version": config.Version,
	})
}

func (s *LifeServer) jsonHandler(pick func(*cacheItem) []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item := s.cache.Load()
		w.Header().Set(config.HeaderContentType, config.MimeJSON)
		w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
		w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
		writeBody(w, pick(item))
	}
}

// handleCalendar serves the ICS feed with HTTP caching support.
func (s *LifeServer) handleCalendar(w http.ResponseWriter, r *http.Request) {
	item := s.cache.Load()

	w.Header().Set(config.HeaderContentType, config.MimeTextCalendar)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		clientTime, err1 := time.Parse(http.TimeFormat, since)
		serverTime, err2 := time.Parse(http.TimeFormat, item.lastModified)
		if err1 == nil && err2 == nil && !serverTime.After(clientTime) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	if r.Method == http.MethodGet {
		writeBody(w, item.ics)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error(config.ErrEncodeJSON, config.LogKeyComponent, config.CompServer, config.LogKeyError, err)
		http.Error(w, config.HTTPMsgInternalErr, http.StatusInternalServerError)
		return
	}
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	writeBody(w, data)
}

func writeBody(w io.Writer, data []byte) {
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}
