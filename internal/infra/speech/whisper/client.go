// Package whisper transcribes recordings through an OpenAI compatible
// /audio/transcriptions endpoint.
package whisper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/yanqian/nyayasetu/internal/domain/faq"
	"github.com/yanqian/nyayasetu/internal/domain/speech"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "whisper-1"
)

// Client performs transcription requests.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient constructs a transcription client.
func NewClient(apiKey, baseURL, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("whisper api key cannot be empty")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Transcribe uploads the clip and returns the recognized text.
func (c *Client) Transcribe(ctx context.Context, clip speech.Clip, lang faq.Language) (string, error) {
	body, contentType, err := c.encode(clip, lang)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", body)
	if err != nil {
		return "", fmt.Errorf("build transcription request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request transcription: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read transcription: %w", err)
	}
	if resp.StatusCode >= 300 {
		if msg := gjson.GetBytes(payload, "error.message"); msg.Exists() {
			return "", fmt.Errorf("transcription failed: status=%d message=%s", resp.StatusCode, msg.String())
		}
		return "", fmt.Errorf("transcription failed: status=%d body=%s", resp.StatusCode, truncate(payload, 512))
	}
	if !gjson.ValidBytes(payload) {
		return "", fmt.Errorf("decode transcription: invalid json")
	}
	text := gjson.GetBytes(payload, "text")
	if !text.Exists() {
		return "", fmt.Errorf("decode transcription: missing text")
	}
	return strings.TrimSpace(text.String()), nil
}

func (c *Client) encode(clip speech.Clip, lang faq.Language) (io.Reader, string, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	filename := clip.Filename
	if filename == "" {
		filename = "recording" + extensionFor(clip.MimeType)
	}
	mimeType := clip.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", mimeType)
	part, err := form.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("encode transcription request: %w", err)
	}
	if _, err := part.Write(clip.Data); err != nil {
		return nil, "", fmt.Errorf("encode transcription request: %w", err)
	}
	if err := form.WriteField("model", c.model); err != nil {
		return nil, "", err
	}
	if code := lang.Code(); code != "" {
		if err := form.WriteField("language", code); err != nil {
			return nil, "", err
		}
	}
	if err := form.WriteField("response_format", "json"); err != nil {
		return nil, "", err
	}
	if err := form.Close(); err != nil {
		return nil, "", err
	}
	return &buf, form.FormDataContentType(), nil
}

func extensionFor(mimeType string) string {
	switch {
	case strings.Contains(mimeType, "wav"):
		return ".wav"
	case strings.Contains(mimeType, "webm"):
		return ".webm"
	case strings.Contains(mimeType, "ogg"):
		return ".ogg"
	case strings.Contains(mimeType, "mpeg"), strings.Contains(mimeType, "mp3"):
		return ".mp3"
	case strings.Contains(mimeType, "mp4"), strings.Contains(mimeType, "m4a"):
		return ".m4a"
	default:
		return ".wav"
	}
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n])
	}
	return string(b)
}

var _ speech.Transcriber = (*Client)(nil)
