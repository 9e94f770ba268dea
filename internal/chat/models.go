package chat

import "github.com/helpdesk-labs/support-agent/internal/middleware"

type ChatRequest struct {
	SessionID string `json:"session_id,omitempty" description:"Omit to start a new conversation"`
	Message   string `json:"message"`
}

func (r *ChatRequest) Validate() error {
	if r.Message == "" {
		return middleware.ErrEmptyMessage
	}
	return nil
}

type ChatResponse struct {
	SessionID string   `json:"session_id"`
	Intent    string   `json:"intent"`
	Response  string   `json:"response"`
	Sources   []string `json:"sources,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
