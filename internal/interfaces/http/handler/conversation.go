package handler

import (
	"github.com/gin-gonic/gin"

	"lexia-api/internal/application/conversation"
	"lexia-api/internal/domain/repository"
	"lexia-api/internal/interfaces/http/dto"
	"lexia-api/internal/interfaces/http/middleware"
)

// ConversationHandler serves the conversation and transcript endpoints.
type ConversationHandler struct {
	svc *conversation.Service
}

// NewConversationHandler creates the handler.
func NewConversationHandler(svc *conversation.Service) *ConversationHandler {
	return &ConversationHandler{svc: svc}
}

// CreateConversation opens an empty transcript.
func (h *ConversationHandler) CreateConversation(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	var req dto.CreateConversationRequest
	// empty body means an unattached conversation
	_ = c.ShouldBindJSON(&req)

	conv, err := h.svc.CreateConversation(ctx, userID, req.CaseID)
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Created(c, dto.NewConversationResponse(conv))
}

// GetConversation returns one conversation.
func (h *ConversationHandler) GetConversation(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)
	conversationID := dto.BindConversationID(c)

	conv, err := h.svc.GetConversation(ctx, conversationID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Success(c, dto.NewConversationResponse(conv))
}

// ListMessages pages through the transcript in position order.
func (h *ConversationHandler) ListMessages(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)
	conversationID := dto.BindConversationID(c)
	page := dto.BindPage(c)

	result, err := h.svc.ListMessages(ctx, conversationID, userID,
		repository.NewPagination(page.Page, page.PageSize))
	if err != nil {
		respondError(c, err)
		return
	}

	messages := make([]*dto.MessageResponse, 0, len(result.Items))
	for _, m := range result.Items {
		messages = append(messages, dto.NewMessageResponse(m))
	}

	dto.SuccessWithPage(c, &dto.MessageListResponse{Messages: messages},
		dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}

// AppendMessages validates and appends a client-replayed batch. An empty
// batch acknowledges with stored=0 and writes nothing, so clients can replay
// blindly after a stream ends.
// @Summary Append transcript messages
// @Tags Conversation
// @Accept json
// @Produce json
// @Param cid path string true "conversation id"
// @Success 200 {object} dto.Response[dto.AppendMessagesResponse]
// @Router /v1/conversations/{cid}/messages [post]
func (h *ConversationHandler) AppendMessages(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)
	conversationID := dto.BindConversationID(c)

	var req dto.AppendMessagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body")
		return
	}

	stored, err := h.svc.Reconcile(ctx, conversationID, userID, req.Messages)
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Success(c, &dto.AppendMessagesResponse{OK: true, Stored: stored})
}
