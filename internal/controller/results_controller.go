package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"digiassistant-client-V1.0/internal/service"
)

// ResultsController serves the structured report and its PDF rendition.
type ResultsController struct {
	conversationService service.ConversationService
	reportService       service.ReportService
	accountService      service.AccountService
}

func NewResultsController(
	conversationService service.ConversationService,
	reportService service.ReportService,
	accountService service.AccountService,
) *ResultsController {
	return &ResultsController{
		conversationService: conversationService,
		reportService:       reportService,
		accountService:      accountService,
	}
}

// GetStructuredResults handles GET /api/v1/results/:id/structured
func (rc *ResultsController) GetStructuredResults(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := rc.conversationService.Results(userID, c.Param("id"))
	if err != nil {
		rc.renderResultsError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DownloadPDF handles GET /api/v1/results/:id/pdf
func (rc *ResultsController) DownloadPDF(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	conversationID := c.Param("id")
	result, err := rc.conversationService.Results(userID, conversationID)
	if err != nil {
		rc.renderResultsError(c, err)
		return
	}

	user, err := rc.accountService.GetUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to load user"})
		return
	}

	pdfContent, err := rc.reportService.BuildReport(user, result)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to generate report"})
		return
	}

	filename := fmt.Sprintf("DigiAssistant_Report_%s.pdf", conversationID)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", pdfContent)
}

func (rc *ResultsController) renderResultsError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrConversationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Conversation not found"})
	case errors.Is(err, service.ErrResultsNotReady):
		c.JSON(http.StatusConflict, gin.H{"detail": "Results not available: assessment not finished"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to compute results"})
	}
}
