package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/hoopcast/internal/metrics"
)

// Stream message types pushed by the feed
const (
	MessageTypeScoreUpdate = "score_update"
	MessageTypeGameFinal   = "game_final"
	MessageTypeHeartbeat   = "heartbeat"
)

// ScoreEvent is a live score change or final score for one game
type ScoreEvent struct {
	Type      string  `json:"-"`
	Date      string  `json:"date"`
	HomeTeam  string  `json:"home_team"`
	AwayTeam  string  `json:"away_team"`
	HomeScore float64 `json:"home_score"`
	AwayScore float64 `json:"away_score"`
	Period    string  `json:"period,omitempty"`
}

// Final reports whether the event closes the game
func (e ScoreEvent) Final() bool {
	return e.Type == MessageTypeGameFinal
}

// ScoreHandler is called for every score event received from the stream
type ScoreHandler func(event ScoreEvent) error

// streamEnvelope frames every message on the wire
type streamEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ReconnectConfig controls reconnection behavior
type ReconnectConfig struct {
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// DefaultReconnectConfig returns default reconnection configuration
func DefaultReconnectConfig() ReconnectConfig {
	return ReconnectConfig{
		MaxRetries:        10,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 1.5,
	}
}

// ScoreStreamClient handles the WebSocket connection to the feed's push
// channel for live scores
type ScoreStreamClient struct {
	streamURL       string
	apiKey          string
	mu              sync.RWMutex
	conn            *websocket.Conn
	isConnected     bool
	handlers        []ScoreHandler
	reconnectConfig ReconnectConfig
	lastMessageTime time.Time
	logger          *logrus.Logger
}

// NewScoreStreamClient creates a new score stream client
func NewScoreStreamClient(streamURL, apiKey string, logger *logrus.Logger) *ScoreStreamClient {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}

	return &ScoreStreamClient{
		streamURL:       streamURL,
		apiKey:          apiKey,
		handlers:        make([]ScoreHandler, 0),
		reconnectConfig: DefaultReconnectConfig(),
		logger:          logger,
	}
}

// SetReconnectConfig overrides the default reconnection behavior
func (s *ScoreStreamClient) SetReconnectConfig(cfg ReconnectConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconnectConfig = cfg
}

// Connect establishes the stream connection and starts the read loop
func (s *ScoreStreamClient) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isConnected {
		return fmt.Errorf("already connected")
	}

	s.logger.WithField("url", s.streamURL).Info("connecting to score stream")

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, s.streamURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to stream: %w", err)
	}

	s.conn = conn
	s.isConnected = true
	s.lastMessageTime = time.Now()

	go s.readMessages()

	return nil
}

// ConnectWithRetry dials the stream with exponential backoff until it
// succeeds, the retry budget is spent, or the context is cancelled
func (s *ScoreStreamClient) ConnectWithRetry(ctx context.Context) error {
	backoff := s.reconnectConfig.InitialBackoff

	var lastErr error
	for attempt := 0; attempt <= s.reconnectConfig.MaxRetries; attempt++ {
		if attempt > 0 {
			s.logger.WithField("attempt", attempt).Warnf("stream reconnect in %s", backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}

			backoff = time.Duration(float64(backoff) * s.reconnectConfig.BackoffMultiplier)
			if backoff > s.reconnectConfig.MaxBackoff {
				backoff = s.reconnectConfig.MaxBackoff
			}
		}

		if lastErr = s.Connect(ctx); lastErr == nil {
			return nil
		}
	}

	return fmt.Errorf("stream connection failed after %d attempts: %w", s.reconnectConfig.MaxRetries+1, lastErr)
}

// Authenticate sends the authentication message
func (s *ScoreStreamClient) Authenticate(ctx context.Context) error {
	return s.sendMessage(map[string]interface{}{
		"op":      "auth",
		"api_key": s.apiKey,
	})
}

// Subscribe subscribes to the live scores channel
func (s *ScoreStreamClient) Subscribe(ctx context.Context) error {
	return s.sendMessage(map[string]interface{}{
		"op":        "subscribe",
		"channels":  []string{"scores"},
		"heartbeat": true,
	})
}

// AddHandler registers a score event handler
func (s *ScoreStreamClient) AddHandler(handler ScoreHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, handler)
}

// readMessages reads messages from the WebSocket connection
func (s *ScoreStreamClient) readMessages() {
	defer s.Close()

	for {
		var envelope streamEnvelope
		if err := s.conn.ReadJSON(&envelope); err != nil {
			s.logger.WithError(err).Warn("score stream read failed")
			s.mu.Lock()
			s.isConnected = false
			s.mu.Unlock()
			return
		}

		s.mu.Lock()
		s.lastMessageTime = time.Now()
		s.mu.Unlock()

		metrics.RecordStreamMessage(envelope.Type)

		if envelope.Type == MessageTypeHeartbeat {
			continue
		}
		if envelope.Type != MessageTypeScoreUpdate && envelope.Type != MessageTypeGameFinal {
			s.logger.WithField("type", envelope.Type).Debug("ignoring unknown stream message")
			continue
		}

		var event ScoreEvent
		if err := json.Unmarshal(envelope.Data, &event); err != nil {
			s.logger.WithError(err).Warn("failed to decode score event")
			continue
		}
		event.Type = envelope.Type

		s.mu.RLock()
		handlers := s.handlers
		s.mu.RUnlock()

		for _, handler := range handlers {
			if err := handler(event); err != nil {
				s.logger.WithError(err).Warn("score handler error")
			}
		}
	}
}

// sendMessage sends a JSON message to the stream
func (s *ScoreStreamClient) sendMessage(msg interface{}) error {
	s.mu.RLock()
	if !s.isConnected || s.conn == nil {
		s.mu.RUnlock()
		return fmt.Errorf("not connected")
	}
	conn := s.conn
	s.mu.RUnlock()

	return conn.WriteJSON(msg)
}

// IsConnected returns whether the stream is connected
func (s *ScoreStreamClient) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isConnected
}

// LastMessageTime returns the time of the last received message
func (s *ScoreStreamClient) LastMessageTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastMessageTime
}

// Close closes the stream connection
func (s *ScoreStreamClient) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}

	s.isConnected = false
	return s.conn.Close()
}

// Ping sends a ping message to keep the connection alive
func (s *ScoreStreamClient) Ping() error {
	return s.sendMessage(map[string]interface{}{
		"op": "ping",
	})
}
