package council_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	model "council-chamber/internal/model/council"
	"council-chamber/internal/model/persona"
	council "council-chamber/internal/service/council"
)

// fakeGateway scripts completions without a model server.
type fakeGateway struct {
	err   error
	calls []string
}

func (g *fakeGateway) Complete(_ context.Context, system, user string, maxTokens int) (string, error) {
	g.calls = append(g.calls, user)
	if g.err != nil {
		return "", g.err
	}
	return fmt.Sprintf("reply %d (budget %d)", len(g.calls), maxTokens), nil
}

func runDeliberation(t *testing.T, gateway council.Gateway, councilors []string) (*council.MemoryStore, model.Session) {
	t.Helper()
	store := council.NewMemoryStore()
	personas := persona.NewMemoryStore(persona.Seed())
	orch := council.NewOrchestrator(store, personas, gateway)

	ctx := context.Background()
	session, err := store.Create(ctx, "Should the city ban combustion cars?", "deliberation", councilors)
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}

	orch.Run(ctx, session.ID)

	final, err := store.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	return store, final
}

func TestDeliberationMessageOrder(t *testing.T) {
	gateway := &fakeGateway{}
	_, session := runDeliberation(t, gateway, []string{"speaker", "technocrat", "ethicist"})

	if session.Status != model.StatusCompleted {
		t.Fatalf("expected completed, got %s", session.Status)
	}

	want := []struct {
		councilor string
		role      model.Role
	}{
		{"speaker", model.RoleOpening},
		{"technocrat", model.RoleContribution},
		{"ethicist", model.RoleContribution},
		{"speaker", model.RoleSynthesis},
	}
	if len(session.Messages) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(session.Messages))
	}
	for i, w := range want {
		msg := session.Messages[i]
		if msg.Councilor != w.councilor || msg.Role != w.role {
			t.Fatalf("message[%d]: got %s/%s want %s/%s", i, msg.Councilor, msg.Role, w.councilor, w.role)
		}
		if msg.Timestamp.IsZero() {
			t.Fatalf("message[%d] missing timestamp", i)
		}
	}

	synthesis := session.Messages[len(session.Messages)-1]
	if session.Consensus != synthesis.Content {
		t.Fatal("consensus must equal the synthesis text")
	}
}

func TestSpeakerOnlyPanel(t *testing.T) {
	gateway := &fakeGateway{}
	_, session := runDeliberation(t, gateway, []string{"speaker"})

	if session.Status != model.StatusCompleted {
		t.Fatalf("expected completed, got %s", session.Status)
	}
	if len(session.Messages) != 2 {
		t.Fatalf("expected opening+synthesis, got %d messages", len(session.Messages))
	}
	if session.Messages[0].Role != model.RoleOpening || session.Messages[1].Role != model.RoleSynthesis {
		t.Fatal("speaker-only panel must yield opening then synthesis")
	}
}

func TestGatewayFailureStillCompletes(t *testing.T) {
	gateway := &fakeGateway{err: errors.New("connection refused")}
	_, session := runDeliberation(t, gateway, []string{"speaker", "skeptic"})

	if session.Status != model.StatusCompleted {
		t.Fatalf("gateway failures must not fail the session, got %s", session.Status)
	}
	if session.Consensus == "" {
		t.Fatal("completed session must carry a consensus")
	}
	if !strings.Contains(session.Consensus, "[Error querying LM Studio") {
		t.Fatalf("consensus should embed the error marker, got %q", session.Consensus)
	}
	for _, msg := range session.Messages {
		if !strings.Contains(msg.Content, "connection refused") {
			t.Fatalf("expected embedded failure reason in %q", msg.Content)
		}
	}
}

func TestUnknownCouncilorKeepsAuthorship(t *testing.T) {
	gateway := &fakeGateway{}
	_, session := runDeliberation(t, gateway, []string{"speaker", "astrologer"})

	if session.Status != model.StatusCompleted {
		t.Fatalf("expected completed, got %s", session.Status)
	}
	if session.Messages[1].Councilor != "astrologer" {
		t.Fatalf("contribution must be authored under the requested id, got %s", session.Messages[1].Councilor)
	}
}

func TestContributionPromptsSeeOnlyOpening(t *testing.T) {
	gateway := &fakeGateway{}
	runDeliberation(t, gateway, []string{"speaker", "technocrat", "ethicist"})

	// calls: opening, technocrat, ethicist, synthesis
	if len(gateway.calls) != 4 {
		t.Fatalf("expected 4 gateway calls, got %d", len(gateway.calls))
	}

	openingReply := "reply 1"
	technocratReply := "reply 2"

	ethicistPrompt := gateway.calls[2]
	if !strings.Contains(ethicistPrompt, openingReply) {
		t.Fatal("contribution prompt must include the opening statement")
	}
	if strings.Contains(ethicistPrompt, technocratReply) {
		t.Fatal("contribution prompts must not leak earlier contributions")
	}

	synthesisPrompt := gateway.calls[3]
	if !strings.Contains(synthesisPrompt, "technocrat:") {
		t.Fatal("synthesis prompt must join contributions as councilor: content blocks")
	}
}

func TestSynthesisUsesLargerBudget(t *testing.T) {
	gateway := &fakeGateway{}
	_, session := runDeliberation(t, gateway, []string{"speaker"})

	synthesis := session.Messages[len(session.Messages)-1]
	if !strings.Contains(synthesis.Content, "budget 800") {
		t.Fatalf("synthesis should request the larger budget, got %q", synthesis.Content)
	}
}

func TestRunOnVanishedSession(t *testing.T) {
	store := council.NewMemoryStore()
	personas := persona.NewMemoryStore(persona.Seed())
	orch := council.NewOrchestrator(store, personas, &fakeGateway{})

	// No session with this id exists; the run must abort quietly.
	orch.Run(context.Background(), "nonexistent")

	if store.Len() != 0 {
		t.Fatal("a failed start must not allocate sessions")
	}
}
