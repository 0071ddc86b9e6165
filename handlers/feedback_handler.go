package handlers

import (
	"net/http"

	"github.com/NomadCrew/feedback-service/errors"
	"github.com/NomadCrew/feedback-service/services"
	"github.com/NomadCrew/feedback-service/types"
	"github.com/gin-gonic/gin"
)

// FeedbackHandler handles feedback submission and listing endpoints.
type FeedbackHandler struct {
	feedbackService *services.FeedbackService
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(feedbackService *services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// SubmitFeedback godoc
// @Summary      Submit feedback
// @Description  Stores a name/email/message submission and returns the stored record
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Param        body  body      types.FeedbackCreate  true  "Feedback payload"
// @Success      201   {object}  types.Feedback
// @Failure      400   {object}  types.ErrorResponse
// @Failure      429   {object}  types.ErrorResponse
// @Failure      500   {object}  types.ErrorResponse
// @Router       /feedback [post]
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	var req types.FeedbackCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		// Unparseable bodies are reported the same way as missing fields.
		_ = c.Error(errors.Wrap(err, errors.ValidationError, errors.MsgRequiredFields))
		return
	}

	created, err := h.feedbackService.Create(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListFeedback godoc
// @Summary      List feedback
// @Description  Returns one page of feedback, newest first
// @Tags         feedback
// @Produce      json
// @Param        limit   query     int  false  "Page size (1-200, default 50)"
// @Param        offset  query     int  false  "Records to skip (default 0)"
// @Success      200     {object}  types.FeedbackListResponse
// @Failure      500     {object}  types.ErrorResponse
// @Router       /feedback [get]
func (h *FeedbackHandler) ListFeedback(c *gin.Context) {
	page := services.NormalizePage(c.Query("limit"), c.Query("offset"))

	resp, err := h.feedbackService.List(c.Request.Context(), page)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
