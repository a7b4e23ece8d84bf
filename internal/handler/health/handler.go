package health

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"council-chamber/pkg/utils"
)

// ServiceName identifies this API in health payloads.
const ServiceName = "ai-council-agent-api"

const probeTimeout = 2 * time.Second

// Handler reports service liveness and gateway reachability.
type Handler struct {
	probeURL string
	client   *http.Client
}

// New creates the health handler. gatewayBaseURL may be empty when the
// process booted without a gateway.
func New(gatewayBaseURL string) *Handler {
	probeURL := ""
	if gatewayBaseURL != "" {
		probeURL = strings.TrimRight(gatewayBaseURL, "/") + "/models"
	}
	return &Handler{
		probeURL: probeURL,
		client:   &http.Client{Timeout: probeTimeout},
	}
}

// RegisterRoutes mounts the health endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.handleHealth)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"service":   ServiceName,
		"lm_studio": h.probeGateway(r.Context()),
		"timestamp": time.Now().UTC(),
	})
}

// probeGateway checks the model listing endpoint of the completion server.
func (h *Handler) probeGateway(ctx context.Context) string {
	if h.probeURL == "" {
		return "unreachable"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.probeURL, nil)
	if err != nil {
		return "unreachable"
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return "unreachable"
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return "ok"
	}
	return "error"
}
