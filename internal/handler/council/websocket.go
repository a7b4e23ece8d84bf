package council

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"council-chamber/pkg/utils"
)

var watchUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// handleWatch pushes the same progress events as the SSE stream over a
// websocket, for clients that prefer a single duplex connection.
func (h *Handler) handleWatch(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	session, err := h.svc.GetSession(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Session not found")
		return
	}

	conn, err := watchUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed for session=%s: %v", sessionID, err)
		return
	}
	defer conn.Close()

	// Discard inbound frames; the watch is push-only. Reading also
	// surfaces client closes.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(sessionEvent{
		Event:     "status",
		SessionID: sessionID,
		Status:    session.Status,
	}); err != nil {
		return
	}

	poll := time.NewTicker(streamPollInterval)
	defer poll.Stop()

	ctx := r.Context()
	sent := 0

	for {
		select {
		case <-ctx.Done():
			return
		case <-closed:
			log.Printf("[ws] client closed watch for session=%s", sessionID)
			return
		case <-poll.C:
			session, err := h.svc.GetSession(ctx, sessionID)
			if err != nil {
				log.Printf("[ws] session=%s lookup failed mid-watch: %v", sessionID, err)
				return
			}

			for i := sent; i < len(session.Messages); i++ {
				msg := session.Messages[i]
				if err := conn.WriteJSON(sessionEvent{
					Event:     "message",
					SessionID: sessionID,
					Message:   &msg,
				}); err != nil {
					return
				}
			}
			sent = len(session.Messages)

			if session.Status.Terminal() {
				_ = conn.WriteJSON(sessionEvent{
					Event:     "complete",
					SessionID: sessionID,
					Status:    session.Status,
					Consensus: session.Consensus,
				})
				return
			}
		}
	}
}
