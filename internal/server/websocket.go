package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/molehole/internal/discovery"
	"github.com/muurk/molehole/internal/logging"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

// Request asks for one discovery run over a WebSocket connection.
// An empty source means "all". A missing timeout means the server's default
// window; any value sent, including 0, goes to the engine as is.
type Request struct {
	Source  string   `json:"source"`
	Timeout *float64 `json:"timeout,omitempty"`
}

func (r Request) timeout(fallback float64) float64 {
	if r.Timeout == nil {
		return fallback
	}
	return *r.Timeout
}

func (r Request) validate() error {
	switch r.Source {
	case "", discovery.SourceAll, discovery.SourceLAN, discovery.SourceAP:
		return nil
	default:
		return fmt.Errorf("unknown source %q (expected all, lan or ap)", r.Source)
	}
}

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error
		logging.Warn("WebSocket upgrade failed",
			zap.String("remote_addr", c.Request.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	remoteAddr := conn.RemoteAddr().String()
	s.wg.Add(1)
	s.track(remoteAddr, conn)
	defer func() {
		_ = conn.Close()
		s.untrack(remoteAddr)
		s.wg.Done()
		logging.LogConnection(remoteAddr, "websocket_closed")
	}()
	logging.LogConnection(remoteAddr, "websocket_upgraded")

	sess := &session{
		conn:           conn,
		remoteAddr:     remoteAddr,
		runner:         s.runner,
		defaultTimeout: s.config.DefaultTimeout,
	}
	sess.serve(s.baseCtx)
}

// session handles one WebSocket connection. Requests are answered in the
// order they arrive, one run at a time.
type session struct {
	conn           *websocket.Conn
	remoteAddr     string
	runner         Runner
	defaultTimeout float64

	writeMu sync.Mutex
}

func (ss *session) serve(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ss.conn.SetReadLimit(maxMessageSize)
	_ = ss.conn.SetReadDeadline(time.Now().Add(pongWait))
	ss.conn.SetPongHandler(func(string) error {
		return ss.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	requests := make(chan Request, 1)
	go ss.readLoop(ctx, cancel, requests)
	go ss.pingLoop(ctx)

	for req := range requests {
		result := ss.runner.Run(ctx, req.Source, req.timeout(ss.defaultTimeout))
		if ctx.Err() != nil {
			return
		}
		if err := ss.writeJSON(result); err != nil {
			logging.Warn("Failed to send WebSocket reply",
				zap.String("remote_addr", ss.remoteAddr),
				zap.Error(err),
			)
			return
		}
	}
}

// readLoop decodes requests until the peer goes away. Malformed requests
// are answered with an error and do not close the connection.
func (ss *session) readLoop(ctx context.Context, cancel context.CancelFunc, requests chan<- Request) {
	defer close(requests)
	defer cancel()

	for {
		messageType, data, err := ss.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Info("WebSocket read failed",
					zap.String("remote_addr", ss.remoteAddr),
					zap.Error(err),
				)
			}
			return
		}
		logging.LogWebSocketMessage(ss.remoteAddr, "recv", messageType, data)

		if messageType != websocket.TextMessage {
			_ = ss.writeJSON(errorResponse{Error: "expected a text message"})
			continue
		}

		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			_ = ss.writeJSON(errorResponse{Error: "invalid request: " + err.Error()})
			continue
		}
		if err := req.validate(); err != nil {
			_ = ss.writeJSON(errorResponse{Error: err.Error()})
			continue
		}

		select {
		case requests <- req:
		case <-ctx.Done():
			return
		}
	}
}

func (ss *session) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ss.writeMu.Lock()
			err := ss.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			ss.writeMu.Unlock()
			if err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (ss *session) writeJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode reply: %w", err)
	}

	ss.writeMu.Lock()
	defer ss.writeMu.Unlock()

	if err := ss.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	if err := ss.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return err
	}
	logging.LogWebSocketMessage(ss.remoteAddr, "send", websocket.TextMessage, data)
	return nil
}
