package controller

import (
	"github.com/gin-gonic/gin"

	"digiassistant-client-V1.0/internal/service"
	"digiassistant-client-V1.0/utilities"
)

func RegisterRoutes(
	r *gin.Engine,
	accountService service.AccountService,
	conversationService service.ConversationService,
	reportService service.ReportService,
) {
	// Auth routes.
	authCtrl := NewAuthController(accountService)
	authRoutes := r.Group("/api/auth")
	{
		authRoutes.POST("/register", authCtrl.Register)
		authRoutes.POST("/login", authCtrl.Login)
		authRoutes.GET("/me", utilities.AuthMiddleware(), authCtrl.Me)
	}

	// Diagnostic routes. Everything under /api/v1 requires a bearer token.
	conversationCtrl := NewConversationController(conversationService)
	resultsCtrl := NewResultsController(conversationService, reportService, accountService)
	v1 := r.Group("/api/v1", utilities.AuthMiddleware())
	{
		v1.GET("/active-conversation", conversationCtrl.GetActiveConversation)
		v1.POST("/chat", conversationCtrl.Chat)
		v1.GET("/results/:id/structured", resultsCtrl.GetStructuredResults)
		v1.GET("/results/:id/pdf", resultsCtrl.DownloadPDF)
	}
}
