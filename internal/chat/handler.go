package chat

import (
	"context"
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog/log"

	"github.com/helpdesk-labs/support-agent/internal/agents"
	"github.com/helpdesk-labs/support-agent/internal/middleware"
)

// Conversationalist answers one chat message; satisfied by
// *agents.Orchestrator.
type Conversationalist interface {
	HandleMessage(ctx context.Context, sessionID string, message string) agents.Reply
}

type Handler struct {
	orchestrator Conversationalist
	version      string
}

func NewHandler(orchestrator Conversationalist, version string) *Handler {
	return &Handler{orchestrator: orchestrator, version: version}
}

// Chat handles POST /api/v1/chat
func (h *Handler) Chat(req *restful.Request, resp *restful.Response) {
	var chatReq ChatRequest
	if err := req.ReadEntity(&chatReq); err != nil {
		log.Error().Err(err).Msg("Failed to parse chat request")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	if err := chatReq.Validate(); err != nil {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	log.Info().
		Str("session_id", chatReq.SessionID).
		Int("message_len", len(chatReq.Message)).
		Msg("Process chat message")

	reply := h.orchestrator.HandleMessage(req.Request.Context(), chatReq.SessionID, chatReq.Message)

	resp.WriteHeaderAndEntity(http.StatusOK, ChatResponse{
		SessionID: reply.SessionID,
		Intent:    reply.Intent,
		Response:  reply.Response,
		Sources:   reply.Sources,
	})
}

// Health handles GET /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: h.version,
	})
}
