package council

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"council-chamber/internal/model/council"
	"council-chamber/pkg/utils"
)

const (
	streamPollInterval = time.Second
	heartbeatInterval  = 8 * time.Second
)

// sessionEvent is the payload pushed over SSE and websocket watches.
type sessionEvent struct {
	Event     string           `json:"event"`
	SessionID string           `json:"sessionId,omitempty"`
	Status    council.Status   `json:"status,omitempty"`
	Message   *council.Message `json:"message,omitempty"`
	Consensus string           `json:"consensus,omitempty"`
	Time      string           `json:"time,omitempty"`
}

// handleStream exposes deliberation progress as Server-Sent Events: one
// status event on open, a message event per appended turn, heartbeats
// while waiting, and a complete event at a terminal status.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	session, err := h.svc.GetSession(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Session not found")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)
	log.Printf("[sse] opening stream for session=%s", sessionID)

	utils.SendSSEEvent(w, flusher, "status", sessionEvent{
		Event:     "status",
		SessionID: sessionID,
		Status:    session.Status,
	})

	poll := time.NewTicker(streamPollInterval)
	defer poll.Stop()
	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	ctx := r.Context()
	sent := 0

	for {
		select {
		case <-ctx.Done():
			log.Printf("[sse] closing stream for session=%s", sessionID)
			return
		case t := <-heartbeat.C:
			utils.SendSSEEvent(w, flusher, "heartbeat", sessionEvent{
				Event: "heartbeat",
				Time:  t.UTC().Format(time.RFC3339),
			})
		case <-poll.C:
			done, next := h.pushProgress(ctx, w, flusher, sessionID, sent)
			sent = next
			if done {
				return
			}
		}
	}
}

// pushProgress emits transcript entries past the sent cursor and the
// terminal event once the session settles. Returns (finished, new cursor).
func (h *Handler) pushProgress(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, sessionID string, sent int) (bool, int) {
	session, err := h.svc.GetSession(ctx, sessionID)
	if err != nil {
		// Store reads only fail for unknown ids; treat as stream end.
		log.Printf("[sse] session=%s lookup failed mid-stream: %v", sessionID, err)
		return true, sent
	}

	for i := sent; i < len(session.Messages); i++ {
		msg := session.Messages[i]
		utils.SendSSEEvent(w, flusher, "message", sessionEvent{
			Event:     "message",
			SessionID: sessionID,
			Message:   &msg,
		})
	}
	sent = len(session.Messages)

	if session.Status.Terminal() {
		utils.SendSSEEvent(w, flusher, "complete", sessionEvent{
			Event:     "complete",
			SessionID: sessionID,
			Status:    session.Status,
			Consensus: session.Consensus,
		})
		return true, sent
	}
	return false, sent
}
