package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/helpdesk-labs/support-agent/internal/bedrock"
)

const routingPrompt = `You are an intelligent routing agent for a customer support system.
Analyze the user's message and classify the intent into one of these categories:

1. **knowledge**: the user is asking a question that requires retrieving
   information from the knowledge base.
   Examples: "How do I reset my password?", "What are your return policies?"

2. **action**: the user wants to perform an action that requires tool execution.
   Examples: "Check my order status", "Cancel my subscription"

3. **conversation**: general conversation, greetings or chitchat.
   Examples: "Hello", "Thanks for your help", "How are you?"

User message: %s

Respond with ONLY the category name (knowledge, action, or conversation) and a brief reasoning.
Format: category|reasoning`

// Router classifies the intent of an inbound message. Cheap heuristics run
// first; the model is only consulted when they are inconclusive, and any
// model failure degrades to the conversation intent.
type Router struct {
	llm    LLMClient
	logger zerolog.Logger
}

func NewRouter(llm LLMClient, logger zerolog.Logger) *Router {
	return &Router{llm: llm, logger: logger}
}

// Run classifies state.Message and sets state.Intent and state.Reasoning.
func (r *Router) Run(ctx context.Context, state *State) error {
	if intent, reason, decided := r.heuristicIntent(state.Message); decided {
		state.Intent = intent
		state.Reasoning = reason
		r.logger.Info().Str("intent", intent).Str("method", "heuristic").Msg("Intent classified")
		return nil
	}

	intent, reason := r.llmIntent(ctx, state.Message)
	state.Intent = intent
	state.Reasoning = reason
	r.logger.Info().Str("intent", intent).Str("method", "llm").Msg("Intent classified")
	return nil
}

var greetings = []string{
	"hello", "hi", "hey", "thanks", "thank you", "bye", "goodbye", "ok", "okay", "yes", "no",
}

// heuristicIntent short-circuits clear conversational messages so greetings
// never pay for a model call.
func (r *Router) heuristicIntent(message string) (string, string, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(message))
	trimmed = strings.Trim(trimmed, "!.?")

	for _, word := range greetings {
		if trimmed == word {
			return IntentConversation, "simple greeting", true
		}
	}
	if len(trimmed) < 5 {
		return IntentConversation, "too short to classify", true
	}

	return "", "", false
}

func (r *Router) llmIntent(ctx context.Context, message string) (string, string) {
	response, err := r.llm.InvokeModel(ctx, bedrock.ClaudeRequest{
		Prompt:      fmt.Sprintf(routingPrompt, message),
		MaxTokens:   100,
		Temperature: 0.0,
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("Intent classification failed, defaulting to conversation")
		return IntentConversation, "classification unavailable"
	}

	intent, reason, ok := parseRoutingResponse(response.Content)
	if !ok {
		r.logger.Warn().Str("response", response.Content).Msg("Unparseable routing response, defaulting to conversation")
		return IntentConversation, "unparseable classification"
	}

	return intent, reason
}

// parseRoutingResponse expects "category|reasoning" and validates the
// category against the known intents.
func parseRoutingResponse(content string) (string, string, bool) {
	parts := strings.SplitN(strings.TrimSpace(content), "|", 2)
	intent := strings.ToLower(strings.TrimSpace(parts[0]))

	reason := ""
	if len(parts) == 2 {
		reason = strings.TrimSpace(parts[1])
	}

	switch intent {
	case IntentKnowledge, IntentAction, IntentConversation:
		return intent, reason, true
	}
	return "", "", false
}
