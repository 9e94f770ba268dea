package agents

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/helpdesk-labs/support-agent/internal/conversation"
)

// Agent is one step of the pipeline: it reads the state and fills in its
// part. Agents set an apology response before returning an error, so the
// orchestrator can absorb failures without leaving Response empty.
type Agent interface {
	Run(ctx context.Context, state *State) error
}

// Reply is the orchestrator's answer to one inbound message.
type Reply struct {
	SessionID string   `json:"session_id"`
	Intent    string   `json:"intent"`
	Response  string   `json:"response"`
	Sources   []string `json:"sources,omitempty"`
}

// Orchestrator routes each message through the router and the selected
// specialist agent, keeping the conversation store up to date. LLM and
// retrieval faults surface to the user as apologetic replies, never as
// errors to the transport layer.
type Orchestrator struct {
	router    Agent
	rag       Agent
	tool      Agent
	responder Agent
	store     conversation.Store
	logger    zerolog.Logger
}

func NewOrchestrator(
	router Agent,
	rag Agent,
	tool Agent,
	responder Agent,
	store conversation.Store,
	logger zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		router:    router,
		rag:       rag,
		tool:      tool,
		responder: responder,
		store:     store,
		logger:    logger,
	}
}

// HandleMessage runs the full pipeline for one message and always produces
// a reply.
func (o *Orchestrator) HandleMessage(ctx context.Context, sessionID string, message string) Reply {
	sessionID, history := o.loadSession(ctx, sessionID)

	state := &State{
		SessionID: sessionID,
		Message:   message,
		History:   history,
	}

	if err := o.router.Run(ctx, state); err != nil {
		o.logger.Error().Err(err).Msg("Router failed")
		state.Intent = IntentConversation
	}

	agent := o.agentFor(state.Intent)
	if err := agent.Run(ctx, state); err != nil {
		o.logger.Error().Err(err).Str("intent", state.Intent).Msg("Agent failed")
	}

	o.saveMessages(ctx, state)

	return Reply{
		SessionID: state.SessionID,
		Intent:    state.Intent,
		Response:  state.Response,
		Sources:   state.RetrievedDocs,
	}
}

func (o *Orchestrator) agentFor(intent string) Agent {
	switch intent {
	case IntentKnowledge:
		return o.rag
	case IntentAction:
		return o.tool
	default:
		return o.responder
	}
}

// loadSession resolves the session id and its history. Store failures are
// non-fatal: the message is still answered, just without history.
func (o *Orchestrator) loadSession(ctx context.Context, sessionID string) (string, *conversation.Conversation) {
	if sessionID == "" {
		created, err := o.store.CreateSession(ctx)
		if err != nil {
			o.logger.Error().Err(err).Msg("Failed to create session, continuing without one")
			return "", nil
		}
		return created, nil
	}

	history, err := o.store.Get(ctx, sessionID)
	if err != nil {
		o.logger.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to load conversation, continuing without history")
		return sessionID, nil
	}
	return sessionID, history
}

func (o *Orchestrator) saveMessages(ctx context.Context, state *State) {
	if state.SessionID == "" {
		return
	}

	now := time.Now()
	userMsg := conversation.Message{Role: "user", Content: state.Message, Timestamp: now}
	if err := o.store.AddMessage(ctx, state.SessionID, userMsg); err != nil {
		o.logger.Warn().Err(err).Msg("Failed to save user message")
	}

	assistantMsg := conversation.Message{Role: "assistant", Content: state.Response, Timestamp: now}
	if err := o.store.AddMessage(ctx, state.SessionID, assistantMsg); err != nil {
		o.logger.Warn().Err(err).Msg("Failed to save assistant message")
	}
}
