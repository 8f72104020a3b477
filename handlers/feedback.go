package handlers

import (
	"net/http"

	"pulsefit/middleware"
	"pulsefit/models"
	"pulsefit/services/feedback"
	"pulsefit/utils"

	"github.com/gin-gonic/gin"
)

type FeedbackHandler struct {
	Service feedback.FeedbackService
}

func NewFeedbackHandler(service feedback.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{Service: service}
}

type submitFeedbackRequest struct {
	Type     models.FeedbackType `json:"type"`
	TargetID string              `json:"targetId"`
	Rating   int                 `json:"rating"`
	Comment  string              `json:"comment"`
}

// SubmitFeedback handles POST /api/feedback.
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	var req submitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	fb, err := h.Service.Submit(c.Request.Context(), feedback.SubmitInput{
		UserID:   c.GetString(middleware.ContextUserID),
		Type:     req.Type,
		TargetID: req.TargetID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"feedback": fb})
}

// ListFeedback handles GET /api/feedback?type=&targetId=.
func (h *FeedbackHandler) ListFeedback(c *gin.Context) {
	items, stats, err := h.Service.ListForTarget(c.Request.Context(), models.FeedbackType(c.Query("type")), c.Query("targetId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": items, "stats": stats})
}
