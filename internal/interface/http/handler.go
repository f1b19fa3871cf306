package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/nyayasetu/internal/domain/auth"
	"github.com/yanqian/nyayasetu/internal/domain/faq"
	"github.com/yanqian/nyayasetu/internal/domain/feedback"
	"github.com/yanqian/nyayasetu/internal/domain/speech"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	faqSvc      faq.Service
	speechSvc   speech.Service
	feedbackSvc feedback.Service
	authSvc     auth.Service
	logger      *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(faqSvc faq.Service, speechSvc speech.Service, feedbackSvc feedback.Service, authSvc auth.Service, logger *slog.Logger) *Handler {
	return &Handler{
		faqSvc:      faqSvc,
		speechSvc:   speechSvc,
		feedbackSvc: feedbackSvc,
		authSvc:     authSvc,
		logger:      logger.With("component", "http.handler"),
	}
}

type answerRequest struct {
	faq.Request
	Speak bool `json:"speak,omitempty"`
}

type answerResponse struct {
	faq.Response
	Audio   *speech.Handle `json:"audio,omitempty"`
	Warning string         `json:"warning,omitempty"`
}

// Health reports liveness and the size of the loaded table.
func (h *Handler) Health(c *gin.Context) {
	catalog := h.faqSvc.Catalog(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"status": "ok", "rows": catalog.Rows})
}

// Languages lists every supported language and the ones the table carries.
func (h *Handler) Languages(c *gin.Context) {
	catalog := h.faqSvc.Catalog(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"supported":    faq.SupportedLanguages(),
		"available":    catalog.Languages,
		"allowedSteps": catalog.AllowedSteps,
		"defaultSteps": catalog.DefaultSteps,
	})
}

// Categories lists the categories present in the table.
func (h *Handler) Categories(c *gin.Context) {
	catalog := h.faqSvc.Catalog(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"categories": catalog.Categories})
}

// Examples returns sample questions for a language.
func (h *Handler) Examples(c *gin.Context) {
	language := c.DefaultQuery("language", string(faq.LanguageEnglish))
	limit, err := queryInt(c, "limit")
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "limit must be a number", err))
		return
	}
	items, err := h.faqSvc.Examples(c.Request.Context(), language, limit)
	if err != nil {
		abortWithAppError(c, "faq_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"examples": items})
}

// Answer looks up the closest question and returns its formatted steps.
func (h *Handler) Answer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	h.respondWithAnswer(c, req)
}

// AnswerVoice accepts either a recorded question or a typed one as multipart form data.
func (h *Handler) AnswerVoice(c *gin.Context) {
	req, err := answerRequestFromForm(c)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	input, err := speechInputFromForm(c)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "failed to read audio upload", err))
		return
	}

	lang, err := faq.ParseLanguage(req.Language)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", err.Error(), err))
		return
	}
	question, err := h.speechSvc.ResolveQuestion(c.Request.Context(), input, lang)
	if err != nil {
		abortWithAppError(c, "transcription_failed", err)
		return
	}
	req.Question = question
	h.respondWithAnswer(c, req)
}

// AnswerReport returns the answer as a downloadable text file.
func (h *Handler) AnswerReport(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	resp, err := h.faqSvc.Answer(c.Request.Context(), req.Request)
	if err != nil {
		abortWithAppError(c, "faq_failed", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="legal_steps.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(faq.RenderReport(resp)))
}

// Trending returns the most common questions, optionally for one language.
func (h *Handler) Trending(c *gin.Context) {
	items, err := h.faqSvc.Trending(c.Request.Context(), c.Query("language"))
	if err != nil {
		abortWithAppError(c, "faq_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": items})
}

func (h *Handler) respondWithAnswer(c *gin.Context, req answerRequest) {
	ctx := c.Request.Context()
	resp, err := h.faqSvc.Answer(ctx, req.Request)
	if err != nil {
		abortWithAppError(c, "faq_failed", err)
		return
	}
	out := answerResponse{Response: resp}
	if req.Speak {
		handle, err := h.speechSvc.Speak(ctx, spokenText(resp), resp.Language)
		if err != nil {
			h.logger.Warn("answer audio unavailable", "language", resp.Language, "error", err)
			out.Warning = errMessage(err)
		} else {
			out.Audio = &handle
		}
	}
	c.JSON(http.StatusOK, out)
}

// spokenText is the short answer followed by the numbered steps.
func spokenText(resp faq.Response) string {
	var b strings.Builder
	b.WriteString(resp.ShortAnswer)
	for i, step := range resp.Steps {
		b.WriteString("\n")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(step)
	}
	return b.String()
}

func answerRequestFromForm(c *gin.Context) (answerRequest, error) {
	steps, err := formInt(c, "steps")
	if err != nil {
		return answerRequest{}, err
	}
	return answerRequest{
		Request: faq.Request{
			Language: c.PostForm("language"),
			Category: c.PostForm("category"),
			Policy:   faq.MatchPolicy(c.PostForm("policy")),
			Steps:    steps,
		},
		Speak: parseFormBool(c.PostForm("speak")),
	}, nil
}

func formInt(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.PostForm(key))
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func parseFormBool(raw string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && v
}
