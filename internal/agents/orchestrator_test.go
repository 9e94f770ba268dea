package agents

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/helpdesk-labs/support-agent/internal/conversation"
)

type scriptedAgent struct {
	intent   string
	response string
	err      error
	calls    int
}

func (a *scriptedAgent) Run(_ context.Context, state *State) error {
	a.calls++
	if a.intent != "" {
		state.Intent = a.intent
	}
	if a.err != nil {
		state.Response = apologyResponse
		return a.err
	}
	state.Response = a.response
	return nil
}

type memoryStore struct {
	sessions  map[string]*conversation.Conversation
	createErr error
	getErr    error
	addErr    error
	nextID    int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: map[string]*conversation.Conversation{}}
}

func (s *memoryStore) CreateSession(_ context.Context) (string, error) {
	if s.createErr != nil {
		return "", s.createErr
	}
	s.nextID++
	id := fmt.Sprintf("session-%d", s.nextID)
	s.sessions[id] = &conversation.Conversation{SessionID: id}
	return id, nil
}

func (s *memoryStore) Get(_ context.Context, sessionID string) (*conversation.Conversation, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	conv, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s not found", sessionID)
	}
	return conv, nil
}

func (s *memoryStore) AddMessage(_ context.Context, sessionID string, msg conversation.Message) error {
	if s.addErr != nil {
		return s.addErr
	}
	conv, ok := s.sessions[sessionID]
	if !ok {
		conv = &conversation.Conversation{SessionID: sessionID}
		s.sessions[sessionID] = conv
	}
	conv.Messages = append(conv.Messages, msg)
	return nil
}

func newTestOrchestrator(router, rag, tool, responder *scriptedAgent, store conversation.Store) *Orchestrator {
	return NewOrchestrator(router, rag, tool, responder, store, zerolog.Nop())
}

func TestOrchestratorDispatchesByIntent(t *testing.T) {
	tests := []struct {
		name   string
		intent string
		want   string
	}{
		{"knowledge goes to rag", IntentKnowledge, "rag answer"},
		{"action goes to tools", IntentAction, "tool answer"},
		{"conversation goes to responder", IntentConversation, "chat answer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := &scriptedAgent{intent: tt.intent}
			rag := &scriptedAgent{response: "rag answer"}
			tool := &scriptedAgent{response: "tool answer"}
			responder := &scriptedAgent{response: "chat answer"}
			o := newTestOrchestrator(router, rag, tool, responder, newMemoryStore())

			reply := o.HandleMessage(context.Background(), "", "hello there")
			if reply.Response != tt.want {
				t.Errorf("Response = %q, want %q", reply.Response, tt.want)
			}
			if reply.Intent != tt.intent {
				t.Errorf("Intent = %q, want %q", reply.Intent, tt.intent)
			}
		})
	}
}

func TestOrchestratorCreatesSessionWhenEmpty(t *testing.T) {
	store := newMemoryStore()
	o := newTestOrchestrator(
		&scriptedAgent{intent: IntentConversation},
		&scriptedAgent{}, &scriptedAgent{},
		&scriptedAgent{response: "hi"},
		store,
	)

	reply := o.HandleMessage(context.Background(), "", "hello")
	if reply.SessionID == "" {
		t.Fatal("SessionID is empty, want a generated id")
	}

	conv := store.sessions[reply.SessionID]
	if conv == nil {
		t.Fatalf("session %s not persisted", reply.SessionID)
	}
	if len(conv.Messages) != 2 {
		t.Fatalf("got %d persisted messages, want 2", len(conv.Messages))
	}
	if conv.Messages[0].Role != "user" || conv.Messages[1].Role != "assistant" {
		t.Errorf("message roles = %q, %q, want user, assistant", conv.Messages[0].Role, conv.Messages[1].Role)
	}
	if conv.Messages[1].Content != "hi" {
		t.Errorf("assistant message = %q, want %q", conv.Messages[1].Content, "hi")
	}
}

func TestOrchestratorAgentFailureStillReplies(t *testing.T) {
	o := newTestOrchestrator(
		&scriptedAgent{intent: IntentKnowledge},
		&scriptedAgent{err: errors.New("model unavailable")},
		&scriptedAgent{}, &scriptedAgent{},
		newMemoryStore(),
	)

	reply := o.HandleMessage(context.Background(), "", "what is the return policy?")
	if reply.Response != apologyResponse {
		t.Errorf("Response = %q, want apology", reply.Response)
	}
}

func TestOrchestratorStoreFailuresAreNonFatal(t *testing.T) {
	store := newMemoryStore()
	store.createErr = errors.New("redis down")
	store.addErr = errors.New("redis down")

	o := newTestOrchestrator(
		&scriptedAgent{intent: IntentConversation},
		&scriptedAgent{}, &scriptedAgent{},
		&scriptedAgent{response: "still here"},
		store,
	)

	reply := o.HandleMessage(context.Background(), "", "hello")
	if reply.Response != "still here" {
		t.Errorf("Response = %q, want %q", reply.Response, "still here")
	}
}

func TestOrchestratorRouterFailureFallsBackToConversation(t *testing.T) {
	responder := &scriptedAgent{response: "fallback chat"}
	o := newTestOrchestrator(
		&scriptedAgent{err: errors.New("router broke")},
		&scriptedAgent{}, &scriptedAgent{},
		responder,
		newMemoryStore(),
	)

	reply := o.HandleMessage(context.Background(), "", "anything at all")
	if reply.Intent != IntentConversation {
		t.Errorf("Intent = %q, want %q", reply.Intent, IntentConversation)
	}
	if responder.calls != 1 {
		t.Errorf("responder called %d times, want 1", responder.calls)
	}
}

func TestOrchestratorLoadsExistingHistory(t *testing.T) {
	store := newMemoryStore()
	ctx := context.Background()
	id, err := store.CreateSession(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.AddMessage(ctx, id, conversation.Message{Role: "user", Content: "earlier question"}); err != nil {
		t.Fatal(err)
	}

	router := &scriptedAgent{intent: IntentConversation}
	probe := &probeAgent{response: "ok"}
	o := NewOrchestrator(router, &scriptedAgent{}, &scriptedAgent{}, probe, store, zerolog.Nop())

	reply := o.HandleMessage(ctx, id, "follow up")
	if reply.SessionID != id {
		t.Errorf("SessionID = %q, want %q", reply.SessionID, id)
	}
	if len(probe.seen) != 1 {
		t.Fatalf("agent saw %d history messages, want 1", len(probe.seen))
	}
	if probe.seen[0].Content != "earlier question" {
		t.Errorf("history message = %q", probe.seen[0].Content)
	}
}

// probeAgent snapshots the history it was handed at Run time.
type probeAgent struct {
	response string
	seen     []conversation.Message
}

func (a *probeAgent) Run(_ context.Context, state *State) error {
	if state.History != nil {
		a.seen = append([]conversation.Message(nil), state.History.Messages...)
	}
	state.Response = a.response
	return nil
}
