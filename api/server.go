// Package api provides the HTTP REST API server for coinview.
//
// It exposes endpoints for resolved quotes, windowed chart series,
// metrics panels, combined dashboards, market news, and WebSocket
// quote streaming.
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/seenimoa/coinview/internal/config"
	"github.com/seenimoa/coinview/internal/datasource"
	"github.com/seenimoa/coinview/pkg/models"
	"github.com/seenimoa/coinview/pkg/utils"
)

// Version is reported by the health endpoint. The CLI overwrites it
// with the build-time version at startup.
var Version = "dev"

// Server is the HTTP API server.
type Server struct {
	router chi.Router
	cfg    *config.Config
	agg    *datasource.Aggregator
	news   *datasource.News
	wsHub  *WSHub
}

// NewServer creates a configured API server with all routes and
// middleware. A nil aggregator or news source falls back to one built
// over the defaults.
func NewServer(cfg *config.Config, agg *datasource.Aggregator, news *datasource.News) *Server {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if agg == nil {
		agg = datasource.NewAggregator(nil, nil)
	}
	if news == nil {
		news = datasource.NewNews(agg.Catalog())
	}

	srv := &Server{
		cfg:   cfg,
		agg:   agg,
		news:  news,
		wsHub: NewWSHub(),
	}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start WebSocket hub and the quote stream
	go s.wsHub.Run()
	go s.streamQuotes()

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", s.handleHealth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health (also available at /health)
		r.Get("/health", s.handleHealth)

		// Catalog
		r.Get("/assets", s.handleAssets)
		r.Get("/windows", s.handleWindows)

		// Quotes, charts, metrics
		r.Get("/quote/{asset}", s.handleQuote)
		r.Get("/chart/{asset}", s.handleChart)
		r.Get("/metrics/{asset}", s.handleMetrics)
		r.Get("/dashboard/{asset}", s.handleDashboard)

		// News
		r.Get("/news", s.handleNews)

		// WebSocket quote stream
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ChartResponse pairs a fetched series with its display summary.
type ChartResponse struct {
	Series models.Series       `json:"series"`
	Chart  models.ChartSummary `json:"chart"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":   "ok",
			"version":  Version,
			"time_utc": utils.Stamp(utils.NowUTC()),
			"assets":   s.agg.Catalog().Len(),
		},
	})
}

func (s *Server) handleAssets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    s.agg.Catalog().All(),
	})
}

func (s *Server) handleWindows(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    models.Windows(),
	})
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "asset")
	if assetID == "" {
		writeError(w, http.StatusBadRequest, "asset is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    s.agg.ResolveQuote(ctx, assetID),
	})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "asset")
	if assetID == "" {
		writeError(w, http.StatusBadRequest, "asset is required")
		return
	}
	window := models.ParseWindow(r.URL.Query().Get("window"))

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	series, chart := s.agg.FetchChart(ctx, assetID, window)
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    ChartResponse{Series: series, Chart: chart},
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "asset")
	if assetID == "" {
		writeError(w, http.StatusBadRequest, "asset is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    s.agg.FetchMetrics(ctx, assetID),
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "asset")
	if assetID == "" {
		writeError(w, http.StatusBadRequest, "asset is required")
		return
	}
	window := models.ParseWindow(r.URL.Query().Get("window"))

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    s.agg.FetchDashboard(ctx, assetID, window),
	})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	limit := s.cfg.News.MaxArticles
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var (
		articles []models.NewsArticle
		err      error
	)
	if assetID := r.URL.Query().Get("asset"); assetID != "" {
		articles, err = s.news.GetAssetNews(ctx, assetID, limit)
	} else {
		articles, err = s.news.GetMarketNews(ctx, limit)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if articles == nil {
		articles = []models.NewsArticle{}
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    articles,
	})
}

// ============================================================
// Helpers
// ============================================================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}

// ============================================================
// WebSocket Hub
// ============================================================

// WSMessage is a message sent over WebSocket connections.
type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// WSHub manages WebSocket connections, per-client asset subscriptions,
// and message broadcasting.
type WSHub struct {
	mu         sync.RWMutex
	clients    map[*WSClient]bool
	broadcast  chan WSMessage
	register   chan *WSClient
	unregister chan *WSClient
}

// WSClient represents a single WebSocket connection.
type WSClient struct {
	hub  *WSHub
	send chan WSMessage
	subs map[string]bool // asset symbols this client follows; guarded by hub.mu
}

// NewWSHub creates a new WebSocket hub.
func NewWSHub() *WSHub {
	return &WSHub{
		clients:    make(map[*WSClient]bool),
		broadcast:  make(chan WSMessage, 256),
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
	}
}

// Run starts the hub event loop.
func (h *WSHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					// Slow client; disconnect
					h.mu.RUnlock()
					h.mu.Lock()
					delete(h.clients, client)
					close(client.send)
					h.mu.Unlock()
					h.mu.RLock()
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast sends a message to all connected WebSocket clients.
func (h *WSHub) Broadcast(msg WSMessage) {
	select {
	case h.broadcast <- msg:
	default:
		// Drop message if broadcast channel is full
	}
}

// BroadcastAsset sends a message to every client subscribed to the
// given asset symbol. Slow clients are skipped; the broadcast path
// handles their eviction.
func (h *WSHub) BroadcastAsset(symbol string, msg WSMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if !client.subs[symbol] {
			continue
		}
		select {
		case client.send <- msg:
		default:
		}
	}
}

// Subscribe records the client's interest in an asset symbol. The next
// stream tick and every one after it will carry a quote for it.
func (h *WSHub) Subscribe(client *WSClient, symbol string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	client.subs[symbol] = true
}

// Unsubscribe drops the client's interest in an asset symbol.
func (h *WSHub) Unsubscribe(client *WSClient, symbol string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(client.subs, symbol)
}

// SubscribedAssets returns the distinct asset symbols with at least one
// subscriber, sorted.
func (h *WSHub) SubscribedAssets() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for client := range h.clients {
		for sym := range client.subs {
			if !seen[sym] {
				seen[sym] = true
				out = append(out, sym)
			}
		}
	}
	sort.Strings(out)
	return out
}

// ClientCount returns the number of connected WebSocket clients.
func (h *WSHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Register adds a client to the hub.
func (h *WSHub) Register(client *WSClient) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *WSHub) Unregister(client *WSClient) {
	h.unregister <- client
}
