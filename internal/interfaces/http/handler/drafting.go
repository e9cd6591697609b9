package handler

import (
	"github.com/gin-gonic/gin"

	"lexia-api/internal/application/conversation"
	"lexia-api/internal/application/drafting"
	"lexia-api/internal/domain/repository"
	"lexia-api/internal/interfaces/http/dto"
	"lexia-api/internal/interfaces/http/middleware"
	"lexia-api/pkg/logger"
)

// interviewHistoryPageSize bounds how much transcript rides into one
// interview turn.
const interviewHistoryPageSize = 100

// DraftingHandler serves the drafting session endpoints.
type DraftingHandler struct {
	svc         *drafting.Service
	interviewer *drafting.Interviewer
	convSvc     *conversation.Service
}

// NewDraftingHandler creates the handler.
func NewDraftingHandler(
	svc *drafting.Service,
	interviewer *drafting.Interviewer,
	convSvc *conversation.Service,
) *DraftingHandler {
	return &DraftingHandler{
		svc:         svc,
		interviewer: interviewer,
		convSvc:     convSvc,
	}
}

// CreateSession opens a drafting session.
// @Summary Create drafting session
// @Tags Drafting
// @Accept json
// @Produce json
// @Success 201 {object} dto.Response[dto.SessionResponse]
// @Router /v1/drafting-sessions [post]
func (h *DraftingHandler) CreateSession(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	var req dto.CreateSessionRequest
	// empty body means an ad-hoc session with no source text
	_ = c.ShouldBindJSON(&req)

	session, err := h.svc.CreateSession(ctx, userID, req.CaseID, req.RawInput)
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Created(c, dto.NewSessionResponse(session))
}

// GetSession returns one drafting session.
func (h *DraftingHandler) GetSession(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)
	sessionID := dto.BindSessionID(c)

	session, err := h.svc.GetSession(ctx, sessionID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Success(c, dto.NewSessionResponse(session))
}

// ListSessions pages through the caller's drafting sessions.
func (h *DraftingHandler) ListSessions(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)
	page := dto.BindPage(c)

	result, err := h.svc.ListSessions(ctx, userID, repository.NewPagination(page.Page, page.PageSize))
	if err != nil {
		respondError(c, err)
		return
	}

	sessions := make([]*dto.SessionResponse, 0, len(result.Items))
	for _, s := range result.Items {
		sessions = append(sessions, dto.NewSessionResponse(s))
	}

	dto.SuccessWithPage(c, &dto.SessionListResponse{Sessions: sessions},
		dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}

// AdvanceStep merges collected facts and reports what is still missing.
// @Summary Advance drafting step
// @Tags Drafting
// @Accept json
// @Produce json
// @Param sid path string true "session id"
// @Success 200 {object} dto.Response[dto.AdvanceStepResponse]
// @Router /v1/drafting-sessions/{sid}/advance [post]
func (h *DraftingHandler) AdvanceStep(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)
	sessionID := dto.BindSessionID(c)

	var req dto.AdvanceStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.svc.AdvanceStep(ctx, sessionID, userID, req.State)
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Success(c, dto.NewAdvanceStepResponse(result))
}

// Consolidated returns the derived facts view for the stored state.
func (h *DraftingHandler) Consolidated(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)
	sessionID := dto.BindSessionID(c)

	facts, err := h.svc.Consolidate(ctx, sessionID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Success(c, facts)
}

// Complete moves a ready session to its terminal step.
func (h *DraftingHandler) Complete(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)
	sessionID := dto.BindSessionID(c)

	session, err := h.svc.Complete(ctx, sessionID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Success(c, dto.NewSessionResponse(session))
}

// Interview runs one interview turn against the LLM. When the request names
// a conversation, the turn reads its history from that transcript and both
// sides of the exchange are validated and appended to it afterwards.
func (h *DraftingHandler) Interview(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)
	sessionID := dto.BindSessionID(c)

	var req dto.InterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "prompt is required")
		return
	}

	session, err := h.svc.GetSession(ctx, sessionID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	in := &drafting.InterviewInput{
		Session:  session,
		Prompt:   req.Prompt,
		Provider: req.Provider,
	}
	if req.ConversationID != nil {
		page, err := h.convSvc.ListMessages(ctx, *req.ConversationID, userID,
			repository.NewPagination(1, interviewHistoryPageSize))
		if err != nil {
			respondError(c, err)
			return
		}
		in.History = page.Items
	}

	out, err := h.interviewer.Generate(ctx, in)
	if err != nil {
		respondError(c, err)
		return
	}

	if req.ConversationID != nil {
		h.persistTurn(c, *req.ConversationID, userID, req.Prompt, out)
	}

	resp := &dto.InterviewResponse{Content: out.Content}
	for _, tc := range out.ToolCalls {
		resp.ToolCalls = append(resp.ToolCalls, dto.InterviewToolCall{
			ID:        tc.ID,
			Name:      tc.Name,
			Arguments: string(tc.Arguments),
		})
	}
	dto.Success(c, resp)
}

// persistTurn appends the exchange to the conversation through the same
// validate-then-append path clients use. A failed write is logged, not
// surfaced: the reply already exists and the client can replay the turn.
func (h *DraftingHandler) persistTurn(c *gin.Context, conversationID, userID, prompt string, out *drafting.InterviewOutput) {
	ctx := c.Request.Context()

	assistant := conversation.IncomingMessage{
		Role:    "assistant",
		Content: out.Content,
	}
	for _, tc := range out.ToolCalls {
		assistant.ToolCalls = append(assistant.ToolCalls, conversation.IncomingToolCall{
			ID:        tc.ID,
			Name:      tc.Name,
			Arguments: tc.Arguments,
		})
	}

	incoming := []conversation.IncomingMessage{
		{Role: "user", Content: prompt},
		assistant,
	}

	if _, err := h.convSvc.Reconcile(ctx, conversationID, userID, incoming); err != nil {
		logger.Warn(ctx, "failed to persist interview turn",
			"conversation_id", conversationID,
			"error", err.Error(),
		)
	}
}
