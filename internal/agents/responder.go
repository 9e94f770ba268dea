package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/helpdesk-labs/support-agent/internal/bedrock"
)

const conversationPrompt = `You are a friendly and professional customer support assistant.

Conversation history:
%s

User message: %s

Instructions:
- Be warm, professional, and helpful
- For greetings, respond appropriately
- For thanks, acknowledge politely
- For unclear requests, ask clarifying questions
- Keep responses concise and natural

Response:`

// maxHistoryMessages bounds how much conversation history goes into the prompt.
const maxHistoryMessages = 10

// Responder handles general conversation: greetings, thanks and anything
// that needs neither the knowledge base nor a tool.
type Responder struct {
	llm       LLMClient
	maxTokens int
	logger    zerolog.Logger
}

func NewResponder(llm LLMClient, maxTokens int, logger zerolog.Logger) *Responder {
	return &Responder{llm: llm, maxTokens: maxTokens, logger: logger}
}

func (a *Responder) Run(ctx context.Context, state *State) error {
	history := "None"
	if state.History != nil && len(state.History.Messages) > 0 {
		messages := state.History.Messages
		if len(messages) > maxHistoryMessages {
			messages = messages[len(messages)-maxHistoryMessages:]
		}

		var sb strings.Builder
		for _, msg := range messages {
			fmt.Fprintf(&sb, "%s: %s\n", msg.Role, msg.Content)
		}
		history = sb.String()
	}

	response, err := a.llm.InvokeModel(ctx, bedrock.ClaudeRequest{
		Prompt:      fmt.Sprintf(conversationPrompt, history, state.Message),
		MaxTokens:   a.maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to generate conversational response")
		state.Response = apologyResponse
		return err
	}

	state.Response = response.Content
	return nil
}
