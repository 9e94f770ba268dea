package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/helpdesk-labs/support-agent/internal/bedrock"
	"github.com/helpdesk-labs/support-agent/internal/tools"
)

const toolPlanPrompt = `You are a helpful assistant that can use tools to help users.

Available tools:
%s

User request: %s

Instructions:
- Analyze if you need to use any tools to fulfill the request
- If yes, identify which tool(s) to use and extract the required parameters
- Respond in JSON format with tool calls

Response format:
{
    "needs_tools": true/false,
    "tool_calls": [
        {"tool": "tool_name", "parameters": {...}}
    ],
    "reasoning": "Why these tools are needed"
}

Response:`

const toolSummaryPrompt = `You are a helpful customer support assistant.
The user asked: %s

These tools were executed on their behalf, with these results:
%s

Write a short, friendly reply to the user summarizing what happened.
Do not mention tools or JSON; just report the outcome.

Reply:`

// toolPlan is the JSON the model returns when planning tool usage.
type toolPlan struct {
	NeedsTools bool `json:"needs_tools"`
	ToolCalls  []struct {
		Tool       string         `json:"tool"`
		Parameters map[string]any `json:"parameters"`
	} `json:"tool_calls"`
	Reasoning string `json:"reasoning"`
}

// ToolAgent turns action requests into tool executions: the model plans
// which tools to call, the registry runs them, and the model summarizes the
// results for the user. Tool errors end up in the reply, never as a raised
// error.
type ToolAgent struct {
	llm       LLMClient
	registry  *tools.Registry
	maxTokens int
	logger    zerolog.Logger
}

func NewToolAgent(llm LLMClient, registry *tools.Registry, maxTokens int, logger zerolog.Logger) *ToolAgent {
	return &ToolAgent{
		llm:       llm,
		registry:  registry,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

func (a *ToolAgent) Run(ctx context.Context, state *State) error {
	plan, err := a.planTools(ctx, state.Message)
	if err != nil {
		a.logger.Error().Err(err).Msg("Tool planning failed")
		state.Response = apologyResponse
		return err
	}

	if !plan.NeedsTools || len(plan.ToolCalls) == 0 {
		state.Response = "I don't need to use any tools for this request. Could you tell me a bit more about what you'd like to do?"
		return nil
	}

	for _, call := range plan.ToolCalls {
		executed := ToolCall{Tool: call.Tool, Parameters: call.Parameters}

		result, err := a.registry.Execute(ctx, call.Tool, call.Parameters)
		if err != nil {
			a.logger.Warn().Err(err).Str("tool", call.Tool).Msg("Tool execution failed")
			executed.Error = err.Error()
		} else {
			executed.Result = result
		}

		state.ToolCalls = append(state.ToolCalls, executed)
	}

	state.Response = a.summarize(ctx, state)
	return nil
}

func (a *ToolAgent) planTools(ctx context.Context, message string) (*toolPlan, error) {
	var descriptions []string
	for _, tool := range a.registry.All() {
		descriptions = append(descriptions, fmt.Sprintf("- %s: %s", tool.Name, tool.Description))
	}

	response, err := a.llm.InvokeModel(ctx, bedrock.ClaudeRequest{
		Prompt:      fmt.Sprintf(toolPlanPrompt, strings.Join(descriptions, "\n"), message),
		MaxTokens:   a.maxTokens,
		Temperature: 0.0,
	})
	if err != nil {
		return nil, fmt.Errorf("tool planning call failed: %w", err)
	}

	plan, err := parseToolPlan(response.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tool plan: %w", err)
	}

	return plan, nil
}

// parseToolPlan decodes the plan JSON, tolerating prose around the object.
func parseToolPlan(content string) (*toolPlan, error) {
	var plan toolPlan
	if err := json.Unmarshal([]byte(content), &plan); err == nil {
		return &plan, nil
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object in model response")
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// summarize asks the model for a user-facing reply; if that call fails, a
// plain-text fallback describing the tool outcomes is used instead.
func (a *ToolAgent) summarize(ctx context.Context, state *State) string {
	results, err := json.MarshalIndent(state.ToolCalls, "", "  ")
	if err != nil {
		results = []byte("(unavailable)")
	}

	response, err := a.llm.InvokeModel(ctx, bedrock.ClaudeRequest{
		Prompt:      fmt.Sprintf(toolSummaryPrompt, state.Message, string(results)),
		MaxTokens:   a.maxTokens,
		Temperature: 0.3,
	})
	if err != nil {
		a.logger.Warn().Err(err).Msg("Tool summary call failed, using plain fallback")
		return a.fallbackSummary(state)
	}

	return response.Content
}

func (a *ToolAgent) fallbackSummary(state *State) string {
	var sb strings.Builder
	sb.WriteString("Here is what I did:\n")
	for _, call := range state.ToolCalls {
		if call.Error != "" {
			fmt.Fprintf(&sb, "- %s: failed (%s)\n", call.Tool, call.Error)
			continue
		}
		fmt.Fprintf(&sb, "- %s: done\n", call.Tool)
	}
	return sb.String()
}
