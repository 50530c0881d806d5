package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins; restrict in production
	},
}

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Budget for resolving one quote before it is pushed to subscribers.
	pushTimeout = 30 * time.Second
)

// handleWebSocket upgrades HTTP connections to WebSocket and manages
// bidirectional communication for the quote stream. Clients subscribe
// to assets and receive a freshly resolved quote per stream tick.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &WSClient{
		hub:  s.wsHub,
		send: make(chan WSMessage, 256),
		subs: make(map[string]bool),
	}

	s.wsHub.Register(client)

	// Start reader and writer goroutines
	go wsWritePump(conn, client)
	go wsReadPump(conn, client, s)
}

// wsReadPump pumps messages from the WebSocket connection to the hub.
func wsReadPump(conn *websocket.Conn, client *WSClient, s *Server) {
	defer func() {
		client.hub.Unregister(client)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		// Parse incoming message
		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case "subscribe":
			id := wsAssetID(msg.Data)
			if id == "" {
				continue
			}
			asset := s.agg.Catalog().Lookup(id)
			client.hub.Subscribe(client, asset.Symbol)
			client.send <- WSMessage{
				Type: "subscribed",
				Data: map[string]string{"asset": asset.Symbol},
			}
			// First quote right away; the stream ticker covers the rest.
			go s.pushQuote(asset.Symbol)
		case "unsubscribe":
			id := wsAssetID(msg.Data)
			if id == "" {
				continue
			}
			asset := s.agg.Catalog().Lookup(id)
			client.hub.Unsubscribe(client, asset.Symbol)
			client.send <- WSMessage{
				Type: "unsubscribed",
				Data: map[string]string{"asset": asset.Symbol},
			}
		case "ping":
			client.send <- WSMessage{Type: "pong"}
		}
	}
}

// wsWritePump pumps messages from the hub to the WebSocket connection.
func wsWritePump(conn *websocket.Conn, client *WSClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(msg)
			if err != nil {
				log.Printf("WebSocket marshal error: %v", err)
				return
			}

			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

			// Flush queued messages
			n := len(client.send)
			for i := 0; i < n; i++ {
				nextMsg := <-client.send
				nextData, err := json.Marshal(nextMsg)
				if err != nil {
					continue
				}
				if err := conn.WriteMessage(websocket.TextMessage, nextData); err != nil {
					return
				}
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// wsAssetID extracts the asset identifier from a subscribe payload of
// the form {"asset": "BTC"}.
func wsAssetID(data interface{}) string {
	m, ok := data.(map[string]interface{})
	if !ok {
		return ""
	}
	id, _ := m["asset"].(string)
	return strings.TrimSpace(id)
}

// streamQuotes re-resolves every subscribed asset on each stream tick
// and pushes the fresh quotes to their subscribers. It runs for the
// life of the server.
func (s *Server) streamQuotes() {
	interval := s.cfg.API.StreamInterval()
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		s.pushQuotes(context.Background())
	}
}

// pushQuotes resolves all currently subscribed assets concurrently and
// broadcasts each quote to its subscribers.
func (s *Server) pushQuotes(ctx context.Context) {
	symbols := s.wsHub.SubscribedAssets()
	if len(symbols) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, pushTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	for _, sym := range symbols {
		sym := sym
		g.Go(func() error {
			quote := s.agg.ResolveQuote(ctx, sym)
			s.wsHub.BroadcastAsset(sym, WSMessage{Type: "quote", Data: quote})
			return nil
		})
	}
	_ = g.Wait() // legs never return errors
}

// pushQuote resolves a single asset and broadcasts the quote to its
// subscribers.
func (s *Server) pushQuote(symbol string) {
	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()

	quote := s.agg.ResolveQuote(ctx, symbol)
	s.wsHub.BroadcastAsset(symbol, WSMessage{Type: "quote", Data: quote})
}
