package council

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"council-chamber/internal/model/council"
	"council-chamber/internal/model/persona"
	"council-chamber/internal/worker"
)

var (
	ErrQuestionRequired   = errors.New("question is required")
	ErrGatewayUnavailable = errors.New("inference gateway unavailable")
)

// Service fronts the session store and launches deliberation workers.
// It is the only component that schedules orchestration runs, so at most
// one worker ever mutates a given session.
type Service struct {
	store    Store
	personas persona.Store
	gateway  Gateway
	runner   *worker.Runner
	orch     *Orchestrator
}

// NewService wires the council facade. gateway may be nil, in which case
// the service boots degraded and rejects work that needs inference.
func NewService(store Store, personas persona.Store, gateway Gateway, runner *worker.Runner) *Service {
	return &Service{
		store:    store,
		personas: personas,
		gateway:  gateway,
		runner:   runner,
		orch:     NewOrchestrator(store, personas, gateway),
	}
}

// Ready reports whether the inference gateway is configured.
func (s *Service) Ready() bool {
	return s.gateway != nil
}

// StartDeliberation allocates a session and launches its single
// orchestration worker. The caller never blocks on the worker; the worker
// runs on the runner's detached context, so client disconnects cannot
// cancel it.
func (s *Service) StartDeliberation(ctx context.Context, topic, mode string, councilors []string) (council.Session, error) {
	if !s.Ready() {
		return council.Session{}, ErrGatewayUnavailable
	}

	session, err := s.store.Create(ctx, topic, mode, councilors)
	if err != nil {
		return council.Session{}, err
	}

	id := session.ID
	s.runner.Go("deliberation:"+id, func(workerCtx context.Context) {
		s.orch.Run(workerCtx, id)
	})

	return session, nil
}

// GetSession returns a snapshot of the session state.
func (s *Service) GetSession(ctx context.Context, sessionID string) (council.Session, error) {
	return s.store.Get(ctx, sessionID)
}

// Messages returns the session transcript in append order.
func (s *Service) Messages(ctx context.Context, sessionID string) ([]council.Message, error) {
	return s.store.Messages(ctx, sessionID)
}

// Councilors lists the fixed panel registry.
func (s *Service) Councilors() []persona.Persona {
	return s.personas.List()
}

// Inquire answers a single ad hoc question in a councilor's voice,
// bypassing session storage entirely. Gateway failures degrade into the
// answer text, mirroring deliberation turns.
func (s *Service) Inquire(ctx context.Context, question, councilorID string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrQuestionRequired
	}
	if !s.Ready() {
		return "", ErrGatewayUnavailable
	}
	if councilorID == "" {
		councilorID = persona.SpeakerID
	}

	p := s.personas.Resolve(councilorID)
	system, user := inquiryPrompt(p, question)
	answer, err := s.gateway.Complete(ctx, system, user, 0)
	if err != nil {
		return fmt.Sprintf("[Error querying LM Studio: %v]", err), nil
	}
	return answer, nil
}
