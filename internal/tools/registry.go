package tools

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Handler is the single execution contract every tool implements. Tools that
// finish instantly and tools that call out to other systems look the same to
// the dispatcher.
type Handler func(ctx context.Context, params map[string]any) (any, error)

// Tool is a named capability the tool agent can invoke.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
	Handler     Handler        `json:"-"`
}

// Registry holds the tools available to the tool agent. Register everything
// at startup; the registry is read-only afterwards.
type Registry struct {
	tools map[string]Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Re-registering a name replaces the previous tool.
func (r *Registry) Register(tool Tool) error {
	if tool.Name == "" {
		return fmt.Errorf("tool name must not be empty")
	}
	if tool.Handler == nil {
		return fmt.Errorf("tool %s has no handler", tool.Name)
	}

	if _, exists := r.tools[tool.Name]; !exists {
		r.order = append(r.order, tool.Name)
	}
	r.tools[tool.Name] = tool

	log.Info().Str("tool", tool.Name).Msg("Registered tool")
	return nil
}

// All returns every registered tool in registration order.
func (r *Registry) All() []Tool {
	all := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		all = append(all, r.tools[name])
	}
	return all
}

// Execute runs a tool by name.
func (r *Registry) Execute(ctx context.Context, name string, params map[string]any) (any, error) {
	tool, found := r.tools[name]
	if !found {
		return nil, fmt.Errorf("tool not found: %s", name)
	}

	log.Info().Str("tool", name).Interface("params", params).Msg("Executing tool")

	result, err := tool.Handler(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("tool %s failed: %w", name, err)
	}

	return result, nil
}
