package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/helpdesk-labs/support-agent/internal/bedrock"
)

const ragPrompt = `You are a helpful customer support assistant.
Answer the user's question based on the provided context from the knowledge base.

Context from knowledge base:
%s

User question: %s

Instructions:
- Provide a clear, concise answer based on the context
- If the context doesn't contain relevant information, say so politely
- Be professional and helpful

Answer:`

const apologyResponse = "I apologize, but I encountered an error processing your request. Please try again."

// RAGAgent answers knowledge questions: it retrieves relevant passages and
// conditions the model's answer on them.
type RAGAgent struct {
	llm       LLMClient
	retriever DocRetriever
	topK      int
	maxTokens int
	logger    zerolog.Logger
}

func NewRAGAgent(llm LLMClient, retriever DocRetriever, topK int, maxTokens int, logger zerolog.Logger) *RAGAgent {
	return &RAGAgent{
		llm:       llm,
		retriever: retriever,
		topK:      topK,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

// Run retrieves context for state.Message and generates the response.
// Retrieval never fails; an empty knowledge base just produces an honest
// "nothing found" context for the model.
func (a *RAGAgent) Run(ctx context.Context, state *State) error {
	docs := a.retriever.Retrieve(ctx, state.Message, a.topK, true)
	state.RetrievedDocs = docs

	a.logger.Info().Int("docs", len(docs)).Msg("Retrieved knowledge-base passages")

	contextBlock := "No relevant information found in knowledge base."
	if len(docs) > 0 {
		contextBlock = strings.Join(docs, "\n\n")
	}

	response, err := a.llm.InvokeModel(ctx, bedrock.ClaudeRequest{
		Prompt:      fmt.Sprintf(ragPrompt, contextBlock, state.Message),
		MaxTokens:   a.maxTokens,
		Temperature: 0.3,
	})
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to generate RAG response")
		state.Response = apologyResponse
		return err
	}

	state.Response = response.Content
	return nil
}
