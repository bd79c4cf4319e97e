package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/talentscout/screener/internal/protocol"
	"github.com/talentscout/screener/internal/screening"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsReadTimeout  = 120 * time.Second
)

// handleSessionWS drives an interview over a websocket. Turns are processed
// one at a time in arrival order; all writes happen from this goroutine, so
// the connection never sees interleaved frames.
func (s *Server) handleSessionWS(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromPath(w, r)
	if !ok {
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	s.metrics.SessionEvents.WithLabelValues("ws_connected").Inc()
	defer s.metrics.SessionEvents.WithLabelValues("ws_disconnected").Inc()

	conn.SetReadLimit(1 << 20)
	_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		return nil
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		if msgType != websocket.TextMessage {
			continue
		}

		parsed, err := protocol.ParseClientMessage(data)
		if err != nil {
			if !s.writeWS(conn, protocol.ErrorEvent{
				Type:   protocol.TypeErrorEvent,
				Code:   "invalid_client_message",
				Detail: err.Error(),
			}) {
				return
			}
			continue
		}

		switch msg := parsed.(type) {
		case protocol.UserMessage:
			if !s.handleWSUtterance(r, conn, sess, msg.Text) {
				return
			}
		case protocol.ClientControl:
			switch msg.Action {
			case protocol.ActionReset:
				s.controller.Reset(sess)
				if !s.writeWS(conn, protocol.SessionEvent{Type: protocol.TypeSessionEvent, Code: "reset"}) {
					return
				}
			case protocol.ActionEnd:
				if _, err := s.sessions.End(sess.ID); err == nil {
					s.metrics.ActiveSessions.Set(float64(s.sessions.ActiveCount()))
					s.metrics.SessionEvents.WithLabelValues("ended").Inc()
				}
				_ = s.writeWS(conn, protocol.SessionEvent{Type: protocol.TypeSessionEvent, Code: "ended"})
				return
			}
		}
	}
}

func (s *Server) handleWSUtterance(r *http.Request, conn *websocket.Conn, sess *screening.Session, text string) bool {
	if !s.writeWS(conn, protocol.AssistantWorking{Type: protocol.TypeAssistantWorking}) {
		return false
	}

	result, err := s.controller.HandleUtterance(r.Context(), sess, text)
	if err != nil {
		code := "turn_failed"
		if errors.Is(err, screening.ErrSessionEnded) {
			code = "session_ended"
		}
		s.logger.Warn("websocket turn failed", zap.String("session_id", sess.ID), zap.Error(err))
		return s.writeWS(conn, protocol.ErrorEvent{
			Type:   protocol.TypeErrorEvent,
			Code:   code,
			Detail: err.Error(),
		})
	}

	return s.writeWS(conn, protocol.AssistantMessage{
		Type:      protocol.TypeAssistantMessage,
		Text:      result.Reply,
		Sentiment: result.Sentiment,
		Record:    result.Record,
		Persisted: result.Persisted,
	})
}

func (s *Server) writeWS(conn *websocket.Conn, msg any) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(msg); err != nil {
		s.logger.Warn("websocket write failed", zap.Error(err))
		return false
	}
	return true
}
