package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/nyayasetu/internal/domain/auth"
	"github.com/yanqian/nyayasetu/internal/domain/feedback"
)

// SubmitFeedback records a thumbs-up or thumbs-down for an answer.
func (h *Handler) SubmitFeedback(c *gin.Context) {
	var req feedback.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	entry, err := h.feedbackSvc.Submit(c.Request.Context(), req)
	if err != nil {
		abortWithAppError(c, "feedback_failed", err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// Login exchanges operator credentials for an access token.
func (h *Handler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	resp, err := h.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		abortWithAppError(c, "auth_failed", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// FeedbackSummary returns aggregate satisfaction figures.
func (h *Handler) FeedbackSummary(c *gin.Context) {
	top, err := queryInt(c, "top")
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "top must be a number", err))
		return
	}
	summary, err := h.feedbackSvc.Summary(c.Request.Context(), top)
	if err != nil {
		abortWithAppError(c, "feedback_failed", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// RecentFeedback lists the latest feedback entries, newest first.
func (h *Handler) RecentFeedback(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "limit must be a number", err))
		return
	}
	entries, err := h.feedbackSvc.Recent(c.Request.Context(), limit)
	if err != nil {
		abortWithAppError(c, "feedback_failed", err)
		return
	}
	operator := ""
	if claims, ok := getClaims(c); ok {
		operator = claims.Username
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "operator": operator})
}
