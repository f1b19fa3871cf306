package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/nyayasetu/internal/domain/faq"
	"github.com/yanqian/nyayasetu/internal/domain/speech"
)

const maxAudioUpload = 10 << 20

type speakRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Speak synthesizes text and returns a handle to the stored audio.
func (h *Handler) Speak(c *gin.Context) {
	var req speakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	lang, err := faq.ParseLanguage(req.Language)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", err.Error(), err))
		return
	}
	handle, err := h.speechSvc.Speak(c.Request.Context(), req.Text, lang)
	if err != nil {
		abortWithAppError(c, "speech_failed", err)
		return
	}
	c.JSON(http.StatusCreated, handle)
}

// Audio streams a stored artifact.
func (h *Handler) Audio(c *gin.Context) {
	artifact, err := h.speechSvc.Audio(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, speech.ErrArtifactNotFound) {
			abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "audio not found or expired", err))
			return
		}
		abortWithAppError(c, "audio_failed", err)
		return
	}
	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
}

// speechInputFromForm resolves the multipart body into exactly one input
// variant. An uploaded "audio" file wins over a "question" text field.
func speechInputFromForm(c *gin.Context) (speech.Input, error) {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return speech.TranscribedText(c.PostForm("question")), nil
		}
		return speech.NoInput(), err
	}
	if fileHeader.Size > maxAudioUpload {
		return speech.NoInput(), fmt.Errorf("audio exceeds %d bytes", maxAudioUpload)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return speech.NoInput(), err
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxAudioUpload))
	if err != nil {
		return speech.NoInput(), err
	}
	return speech.RawAudio(speech.Clip{
		Data:     data,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Filename: fileHeader.Filename,
	}), nil
}
