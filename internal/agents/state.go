package agents

import (
	"context"

	"github.com/helpdesk-labs/support-agent/internal/bedrock"
	"github.com/helpdesk-labs/support-agent/internal/conversation"
)

// Intents the router can produce.
const (
	IntentKnowledge    = "knowledge"
	IntentAction       = "action"
	IntentConversation = "conversation"
)

// LLMClient is the model boundary shared by every agent; satisfied by
// *bedrock.Client and by fakes in tests.
type LLMClient interface {
	InvokeModel(ctx context.Context, req bedrock.ClaudeRequest) (*bedrock.ClaudeResponse, error)
}

// DocRetriever is the knowledge-base boundary of the RAG agent. Retrieve
// never fails; an empty slice means nothing relevant was found.
type DocRetriever interface {
	Retrieve(ctx context.Context, query string, topK int, useHybrid bool) []string
}

// ToolCall records one executed tool invocation.
type ToolCall struct {
	Tool       string         `json:"tool"`
	Parameters map[string]any `json:"parameters"`
	Result     any            `json:"result,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// State flows through the pipeline for one inbound message. The router fills
// Intent, the selected agent fills Response and its own bookkeeping fields.
type State struct {
	SessionID     string
	Message       string
	History       *conversation.Conversation
	Intent        string
	Reasoning     string
	RetrievedDocs []string
	ToolCalls     []ToolCall
	Response      string
}
