package council

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"council-chamber/internal/model/persona"
	councilService "council-chamber/internal/service/council"
	"council-chamber/pkg/utils"
)

// Handler serves the session and inquiry endpoints.
type Handler struct {
	svc *councilService.Service
}

// New creates the council HTTP handler.
func New(svc *councilService.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the council routes on the API router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Post("/deliberate", h.handleCreateSession)
	r.Get("/session/{sessionID}", h.handleGetSession)
	r.Get("/session/{sessionID}/messages", h.handleGetMessages)
	r.Get("/session/{sessionID}/stream", h.handleStream)
	r.Get("/session/{sessionID}/watch", h.handleWatch)
	r.Post("/inquire", h.handleInquire)
	r.Get("/councilors", h.handleListCouncilors)
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Topic      string   `json:"topic"`
		Mode       string   `json:"mode"`
		Councilors []string `json:"councilors"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.svc.StartDeliberation(r.Context(), payload.Topic, payload.Mode, payload.Councilors)
	if err != nil {
		switch {
		case errors.Is(err, councilService.ErrTopicRequired):
			utils.RespondError(w, http.StatusBadRequest, "Topic is required")
		case errors.Is(err, councilService.ErrGatewayUnavailable):
			utils.RespondError(w, http.StatusServiceUnavailable, "inference gateway unavailable")
		default:
			utils.RespondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]any{
		"sessionId": session.ID,
		"mode":      session.Mode,
		"topic":     session.Topic,
		"status":    session.Status,
	})
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	session, err := h.svc.GetSession(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Session not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, session.Summary())
}

func (h *Handler) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	messages, err := h.svc.Messages(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Session not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, messages)
}

func (h *Handler) handleInquire(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Question  string `json:"question"`
		Councilor string `json:"councilor"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.Councilor == "" {
		payload.Councilor = persona.SpeakerID
	}

	answer, err := h.svc.Inquire(r.Context(), payload.Question, payload.Councilor)
	if err != nil {
		switch {
		case errors.Is(err, councilService.ErrQuestionRequired):
			utils.RespondError(w, http.StatusBadRequest, "Question is required")
		case errors.Is(err, councilService.ErrGatewayUnavailable):
			utils.RespondError(w, http.StatusServiceUnavailable, "inference gateway unavailable")
		default:
			utils.RespondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"question":  payload.Question,
		"councilor": payload.Councilor,
		"answer":    answer,
		"timestamp": time.Now().UTC(),
	})
}

func (h *Handler) handleListCouncilors(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.svc.Councilors())
}
