package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"trivia-quiz/internal/app"
	"trivia-quiz/internal/domain"
)

// ControllerFactory builds a fresh, uninitialized controller per connection.
type ControllerFactory func() *app.Controller

type WSHandler struct {
	sessions   app.SessionRepository
	newSession ControllerFactory
	upgrader   websocket.Upgrader
}

func NewWSHandler(sessions app.SessionRepository, factory ControllerFactory) *WSHandler {
	return &WSHandler{
		sessions:   sessions,
		newSession: factory,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type selectPayload struct {
	Choice string `json:"choice"`
}

type sessionPayload struct {
	SessionID string `json:"sessionId"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type messagePayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and runs one single-user quiz session for the
// lifetime of the connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sessionID := uuid.NewString()
	ctrl := h.newSession()
	h.sessions.Put(sessionID, ctrl)
	defer h.sessions.Delete(sessionID)
	defer ctrl.Close()

	updates, cancel := ctrl.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})
	out := outbox{send: send, writerDone: writerDone}

	// single writer; gorilla connections do not support concurrent writes
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	out.push(outboundMessage[any]{Type: "session", Payload: sessionPayload{SessionID: sessionID}})

	go func() {
		defer close(updatesDone)
		for {
			select {
			case view, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "state", Payload: view}:
				case <-writerDone:
					return
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	ctrl.Initialize(r.Context())

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		h.sessions.Touch(sessionID)
		if !h.dispatch(r, ctrl, inbound, out) {
			break
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// dispatch applies one inbound message; false means the writer is gone.
func (h *WSHandler) dispatch(r *http.Request, ctrl *app.Controller, inbound inboundMessage, out outbox) bool {
	switch inbound.Type {
	case "select":
		var payload selectPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return out.push(errorMessage("invalid select payload"))
		}
		if _, err := ctrl.SelectAnswer(payload.Choice); err != nil {
			return out.push(errorMessage(err.Error()))
		}
	case "advance":
		_, err := ctrl.Advance()
		switch {
		case errors.Is(err, domain.ErrNoSelection):
			return out.push(outboundMessage[any]{Type: "warning", Payload: messagePayload{Message: "Please select an answer!"}})
		case err != nil:
			return out.push(errorMessage(err.Error()))
		}
	case "restart":
		ctrl.Restart(r.Context())
	default:
		return out.push(errorMessage("unsupported message type"))
	}
	return out.alive()
}

// outbox queues messages for the connection writer.
type outbox struct {
	send       chan<- outboundMessage[any]
	writerDone <-chan struct{}
}

// push reports false once the writer has exited.
func (o outbox) push(msg outboundMessage[any]) bool {
	select {
	case o.send <- msg:
		return true
	case <-o.writerDone:
		return false
	}
}

func (o outbox) alive() bool {
	select {
	case <-o.writerDone:
		return false
	default:
		return true
	}
}

// ServeSession reports the current view of a live session as JSON.
func (h *WSHandler) ServeSession(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.sessions.Get(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, messagePayload{Message: domain.ErrSessionNotFound.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ctrl.View())
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func errorMessage(msg string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: messagePayload{Message: msg}}
}
