package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	mdwerror "github.com/msto63/textomat/foundation/core/error"
	mdwlog "github.com/msto63/textomat/foundation/core/log"
	"github.com/msto63/textomat/foundation/dsl"
)

// WebSocketHandler runs commands for websocket clients. Every connection
// owns one session, so the input is reused across its commands.
type WebSocketHandler struct {
	server   *Server
	upgrader websocket.Upgrader
	logger   *mdwlog.Logger
}

func newWebSocketHandler(s *Server) *WebSocketHandler {
	h := &WebSocketHandler{
		server: s,
		logger: s.logger.WithField("component", "websocket"),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin accepts every origin unless an allow list is configured
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	allowed := h.server.config.AllowedOrigins
	if len(allowed) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	for _, o := range allowed {
		if o == origin {
			return true
		}
	}
	h.logger.Warn("WebSocket origin rejected", mdwlog.Fields{"origin": origin})
	return false
}

// ServeHTTP handles WebSocket upgrade and connections
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnWithErr("WebSocket upgrade failed", err)
		return
	}
	h.handleConnection(conn)
}

// handleConnection handles a single WebSocket connection
func (h *WebSocketHandler) handleConnection(conn *websocket.Conn) {
	session := h.server.engine.NewSession()
	logger := h.logger.WithRequestID(session.ID).
		WithFields(mdwlog.Fields{"remote": conn.RemoteAddr().String()})

	h.server.track(conn, true)
	defer h.server.track(conn, false)
	defer conn.Close()

	logger.Info("WebSocket connection established")

	cfg := h.server.config
	conn.SetReadLimit(cfg.MaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	})

	done := make(chan struct{})
	defer close(done)
	go h.keepAlive(conn, done)

	// Read messages in a loop
	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.WarnWithErr("WebSocket read error", err)
			} else {
				logger.Info("WebSocket connection closed")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))

		switch msg.Type {
		case TypePing:
			h.send(conn, WSResponse{Type: TypePong, ID: msg.ID})

		case TypeReset:
			session.Reset()
			h.send(conn, WSResponse{Type: TypeReset, ID: msg.ID})

		case TypeProcess:
			var payload ProcessPayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				h.sendError(conn, msg.ID, CodeInvalidPayload, "Invalid process payload: "+err.Error(), nil)
				continue
			}
			trigger, ok := parseTrigger(payload.Trigger)
			if !ok {
				h.sendError(conn, msg.ID, CodeInvalidPayload, "Unknown trigger: "+payload.Trigger, nil)
				continue
			}
			h.process(conn, session, logger, msg.ID, payload, trigger)

		default:
			h.sendError(conn, msg.ID, CodeUnknownType, "Unknown message type: "+msg.Type, nil)
		}
	}
}

func (h *WebSocketHandler) process(conn *websocket.Conn, session *dsl.Session, logger *mdwlog.Logger, id string, payload ProcessPayload, trigger dsl.Trigger) {
	engine := h.server.engine
	res, err := engine.Process(session, payload.Input, payload.Command, trigger)
	if err != nil {
		logger.LogError(err)
		code := mdwerror.GetCode(err)
		var details map[string]interface{}
		if e, ok := mdwerror.As(err); ok {
			details = e.Details()
		}
		h.sendError(conn, id, code.String(), err.Error(), details)
		return
	}

	in, out := engine.Syntax(session)
	h.send(conn, WSResponse{
		Type: TypeResult,
		ID:   id,
		Payload: ResultPayload{
			Output:    res.Output,
			Headers:   nonNil(res.Headers),
			Unchanged: res.Unchanged,
			Changed:   nonNil(res.Changes.Strings()),
			Command:   res.Command.String(),
			Syntax:    Syntax{Input: in, Output: out},
		},
	})
}

// keepAlive pings the client until done is closed
func (h *WebSocketHandler) keepAlive(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(h.server.config.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			deadline := time.Now().Add(h.server.config.WriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}

// send sends a response message via WebSocket
func (h *WebSocketHandler) send(conn *websocket.Conn, resp WSResponse) {
	conn.SetWriteDeadline(time.Now().Add(h.server.config.WriteTimeout))
	if err := conn.WriteJSON(resp); err != nil {
		h.logger.WarnWithErr("WebSocket send error", err)
	}
}

// sendError sends an error response via WebSocket
func (h *WebSocketHandler) sendError(conn *websocket.Conn, id, code, message string, details map[string]interface{}) {
	h.send(conn, WSResponse{
		Type: TypeError,
		ID:   id,
		Payload: WSErrorPayload{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func parseTrigger(s string) (dsl.Trigger, bool) {
	switch s {
	case "", "run":
		return dsl.TriggerRun, true
	case "command":
		return dsl.TriggerCommand, true
	case "input":
		return dsl.TriggerInput, true
	}
	return dsl.TriggerRun, false
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
