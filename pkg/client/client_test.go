package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"council-chamber/pkg/client"
)

// fakeServer mimics the council API for client tests.
type fakeServer struct {
	status       atomic.Value // string
	messages     atomic.Value // []client.Message
	createStatus int
	failGets     atomic.Int64 // number of GETs to fail before succeeding
}

func newFakeServer() *fakeServer {
	s := &fakeServer{createStatus: http.StatusCreated}
	s.status.Store("running")
	s.messages.Store([]client.Message{})
	return s
}

func (s *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/session", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(s.createStatus)
		if s.createStatus == http.StatusCreated {
			json.NewEncoder(w).Encode(map[string]string{
				"sessionId": "sess-1",
				"status":    "running",
			})
		} else {
			json.NewEncoder(w).Encode(map[string]string{"error": "Topic is required"})
		}
	})
	mux.HandleFunc("/api/session/sess-1", func(w http.ResponseWriter, _ *http.Request) {
		if s.failGets.Load() > 0 {
			s.failGets.Add(-1)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"sessionId": "sess-1",
			"status":    s.status.Load(),
		})
	})
	mux.HandleFunc("/api/session/sess-1/messages", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(s.messages.Load())
	})
	return mux
}

func startFake(t *testing.T, s *fakeServer) *client.Client {
	t.Helper()
	srv := httptest.NewServer(s.handler())
	t.Cleanup(srv.Close)
	return client.New(srv.URL)
}

func TestCreateSession(t *testing.T) {
	s := newFakeServer()
	c := startFake(t, s)

	id, err := c.CreateSession(context.Background(), "deliberation", "topic", nil)
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}
	if id != "sess-1" {
		t.Fatalf("unexpected id %s", id)
	}
}

func TestCreateSessionRejected(t *testing.T) {
	s := newFakeServer()
	s.createStatus = http.StatusBadRequest
	c := startFake(t, s)

	if _, err := c.CreateSession(context.Background(), "deliberation", "", nil); err == nil {
		t.Fatal("expected an error for a rejected create")
	}
}

func TestWaitForCompletionZeroTimeout(t *testing.T) {
	s := newFakeServer()
	c := startFake(t, s)

	start := time.Now()
	if c.WaitForCompletion(context.Background(), "sess-1", 0, 10*time.Millisecond) {
		t.Fatal("running session must not report completed")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("zero timeout must return immediately, took %s", elapsed)
	}
}

func TestWaitForCompletionEventuallyCompletes(t *testing.T) {
	s := newFakeServer()
	c := startFake(t, s)

	go func() {
		time.Sleep(30 * time.Millisecond)
		s.status.Store("completed")
	}()

	if !c.WaitForCompletion(context.Background(), "sess-1", 2*time.Second, 10*time.Millisecond) {
		t.Fatal("expected completion")
	}
}

func TestWaitForCompletionFailedSession(t *testing.T) {
	s := newFakeServer()
	s.status.Store("failed")
	c := startFake(t, s)

	if c.WaitForCompletion(context.Background(), "sess-1", 2*time.Second, 10*time.Millisecond) {
		t.Fatal("failed session must report false")
	}
}

func TestWaitForCompletionRepollsOnTransientError(t *testing.T) {
	s := newFakeServer()
	s.failGets.Store(2)
	s.status.Store("completed")
	c := startFake(t, s)

	if !c.WaitForCompletion(context.Background(), "sess-1", 2*time.Second, 10*time.Millisecond) {
		t.Fatal("transient fetch errors must re-poll, not abort")
	}
}

func TestResultFindsFinalRuling(t *testing.T) {
	s := newFakeServer()
	s.messages.Store([]client.Message{
		{Councilor: "technocrat", Role: "contribution", Content: "numbers look fine"},
		{Councilor: "speaker", Role: "synthesis", Content: "Having heard all sides, the Final Ruling: adopt X."},
		{Councilor: "skeptic", Role: "contribution", Content: "I still object"},
	})
	c := startFake(t, s)

	result, err := c.Result(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("Result err: %v", err)
	}
	if result.Kind != client.KindFinalResult {
		t.Fatalf("expected final_result, got %s", result.Kind)
	}
	if result.Author != "speaker" {
		t.Fatalf("unexpected author %s", result.Author)
	}
}

func TestResultMarkerIsCaseInsensitive(t *testing.T) {
	s := newFakeServer()
	s.messages.Store([]client.Message{
		{Councilor: "speaker", Role: "synthesis", Content: "FINAL PREDICTION: rain."},
	})
	c := startFake(t, s)

	result, err := c.Result(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("Result err: %v", err)
	}
	if result.Kind != client.KindFinalResult {
		t.Fatalf("expected final_result, got %s", result.Kind)
	}
}

func TestResultFallsBackToLastMessage(t *testing.T) {
	s := newFakeServer()
	s.messages.Store([]client.Message{
		{Councilor: "speaker", Role: "opening", Content: "we convene"},
		{Councilor: "ethicist", Role: "contribution", Content: "consider the harm"},
	})
	c := startFake(t, s)

	result, err := c.Result(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("Result err: %v", err)
	}
	if result.Kind != client.KindLastMessage {
		t.Fatalf("expected last_message, got %s", result.Kind)
	}
	if result.Author != "ethicist" || result.Content != "consider the harm" {
		t.Fatalf("fallback must be the last message verbatim, got %+v", result)
	}
}

func TestResultEmptyTranscript(t *testing.T) {
	s := newFakeServer()
	c := startFake(t, s)

	result, err := c.Result(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("Result err: %v", err)
	}
	if result != nil {
		t.Fatalf("expected nil result for an empty transcript, got %+v", result)
	}
}

func TestQuickDeliberate(t *testing.T) {
	s := newFakeServer()
	s.status.Store("completed")
	s.messages.Store([]client.Message{
		{Councilor: "speaker", Role: "synthesis", Content: "Final Ruling: proceed."},
	})
	c := startFake(t, s)

	result, err := c.QuickDeliberate(context.Background(), "topic", "legislative", 2*time.Second)
	if err != nil {
		t.Fatalf("QuickDeliberate err: %v", err)
	}
	if result == nil || result.Kind != client.KindFinalResult {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestQuickDeliberateShortCircuitsOnCreateFailure(t *testing.T) {
	s := newFakeServer()
	s.createStatus = http.StatusBadRequest
	c := startFake(t, s)

	if _, err := c.QuickDeliberate(context.Background(), "", "legislative", time.Second); err == nil {
		t.Fatal("expected create failure to short-circuit")
	}
}

func TestQuickDeliberateTimesOut(t *testing.T) {
	s := newFakeServer()
	c := startFake(t, s) // stays running

	if _, err := c.QuickDeliberate(context.Background(), "topic", "legislative", 30*time.Millisecond); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestHealth(t *testing.T) {
	s := newFakeServer()
	c := startFake(t, s)

	if err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health err: %v", err)
	}
}
