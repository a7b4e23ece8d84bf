package council

import (
	"context"
	"fmt"
	"log"

	"council-chamber/internal/model/council"
	"council-chamber/internal/model/persona"
)

// synthesisMaxTokens gives the closing synthesis a larger output budget
// than regular turns.
const synthesisMaxTokens = 800

// Gateway is the text-completion service consulted for every turn.
// Implementations enforce their own call timeout and never retry.
type Gateway interface {
	Complete(ctx context.Context, system, user string, maxTokens int) (string, error)
}

// Orchestrator drives one deliberation per session: opening statement,
// independent councilor contributions, then a synthesis. Exactly one run
// may ever be active per session identifier.
type Orchestrator struct {
	store    Store
	personas persona.Store
	gateway  Gateway
}

// NewOrchestrator wires the deliberation state machine to its collaborators.
func NewOrchestrator(store Store, personas persona.Store, gateway Gateway) *Orchestrator {
	return &Orchestrator{store: store, personas: personas, gateway: gateway}
}

// Run executes the turn sequence for sessionID until the session is
// completed or failed. Gateway errors degrade into transcript content and
// never abort the run; store errors mark the session failed.
func (o *Orchestrator) Run(ctx context.Context, sessionID string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[council] deliberation panic for session=%s: %v", sessionID, r)
			o.fail(ctx, sessionID)
		}
	}()

	if err := o.store.SetStatus(ctx, sessionID, council.StatusRunning, ""); err != nil {
		log.Printf("[council] cannot start session=%s: %v", sessionID, err)
		return
	}

	session, err := o.store.Get(ctx, sessionID)
	if err != nil {
		log.Printf("[council] session=%s vanished before opening: %v", sessionID, err)
		o.fail(ctx, sessionID)
		return
	}

	speaker := o.personas.Resolve(persona.SpeakerID)

	// Opening statement from the Speaker.
	system, user := openingPrompt(speaker, session.Topic)
	opening := o.turn(ctx, system, user, 0)
	if err := o.store.AppendMessage(ctx, sessionID, council.Message{
		Councilor: speaker.ID,
		Role:      council.RoleOpening,
		Content:   opening,
	}); err != nil {
		log.Printf("[council] append opening failed for session=%s: %v", sessionID, err)
		o.fail(ctx, sessionID)
		return
	}

	// Each councilor contributes in configured order, seeing only the
	// opening statement. Turns are sequential, never fanned out.
	for _, id := range session.Councilors {
		if id == persona.SpeakerID {
			continue
		}
		p := o.personas.Resolve(id)
		system, user := contributionPrompt(p, session.Topic, opening)
		content := o.turn(ctx, system, user, 0)
		if err := o.store.AppendMessage(ctx, sessionID, council.Message{
			Councilor: p.ID,
			Role:      council.RoleContribution,
			Content:   content,
		}); err != nil {
			log.Printf("[council] append contribution failed for session=%s: %v", sessionID, err)
			o.fail(ctx, sessionID)
			return
		}
	}

	transcript, err := o.store.Messages(ctx, sessionID)
	if err != nil {
		log.Printf("[council] transcript read failed for session=%s: %v", sessionID, err)
		o.fail(ctx, sessionID)
		return
	}
	contributions := make([]council.Message, 0, len(transcript))
	for _, msg := range transcript {
		if msg.Role == council.RoleContribution {
			contributions = append(contributions, msg)
		}
	}

	// Synthesis from the Speaker, with a larger output budget.
	system, user = synthesisPrompt(speaker, session.Topic, opening, contributions)
	synthesis := o.turn(ctx, system, user, synthesisMaxTokens)
	if err := o.store.AppendMessage(ctx, sessionID, council.Message{
		Councilor: speaker.ID,
		Role:      council.RoleSynthesis,
		Content:   synthesis,
	}); err != nil {
		log.Printf("[council] append synthesis failed for session=%s: %v", sessionID, err)
		o.fail(ctx, sessionID)
		return
	}

	if err := o.store.SetStatus(ctx, sessionID, council.StatusCompleted, synthesis); err != nil {
		log.Printf("[council] complete failed for session=%s: %v", sessionID, err)
		return
	}
	log.Printf("[council] session=%s completed with %d messages", sessionID, len(transcript)+1)
}

// turn performs one gateway call, converting any failure into the inline
// error marker so the deliberation degrades instead of aborting.
func (o *Orchestrator) turn(ctx context.Context, system, user string, maxTokens int) string {
	content, err := o.gateway.Complete(ctx, system, user, maxTokens)
	if err != nil {
		return fmt.Sprintf("[Error querying LM Studio: %v]", err)
	}
	return content
}

func (o *Orchestrator) fail(ctx context.Context, sessionID string) {
	if err := o.store.SetStatus(ctx, sessionID, council.StatusFailed, ""); err != nil {
		log.Printf("[council] marking session=%s failed: %v", sessionID, err)
	}
}
