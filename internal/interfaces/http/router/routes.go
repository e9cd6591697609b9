package router

import (
	"github.com/gin-gonic/gin"

	"lexia-api/internal/interfaces/http/handler"
)

// RegisterV1Routes registers the v1 API routes.
func RegisterV1Routes(
	v1 *gin.RouterGroup,
	draftingHandler *handler.DraftingHandler,
	conversationHandler *handler.ConversationHandler,
) {
	sessions := v1.Group("/drafting-sessions")
	{
		sessions.GET("", draftingHandler.ListSessions)
		sessions.POST("", draftingHandler.CreateSession)
		sessions.GET("/:sid", draftingHandler.GetSession)
		sessions.POST("/:sid/advance", draftingHandler.AdvanceStep)
		sessions.GET("/:sid/consolidated", draftingHandler.Consolidated)
		sessions.POST("/:sid/complete", draftingHandler.Complete)
		sessions.POST("/:sid/interview", draftingHandler.Interview)
	}

	conversations := v1.Group("/conversations")
	{
		conversations.POST("", conversationHandler.CreateConversation)
		conversations.GET("/:cid", conversationHandler.GetConversation)
		conversations.GET("/:cid/messages", conversationHandler.ListMessages)
		conversations.POST("/:cid/messages", conversationHandler.AppendMessages)
	}
}
