// Package gtts synthesizes speech through the Google Translate TTS endpoint.
package gtts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/avast/retry-go/v4"

	"github.com/yanqian/nyayasetu/internal/domain/faq"
	"github.com/yanqian/nyayasetu/internal/domain/speech"
)

const (
	defaultBaseURL = "https://translate.google.com/translate_tts"
	// maxChunkRunes is the longest text the endpoint accepts per request.
	maxChunkRunes = 200
)

// voices are the languages the endpoint can speak. Assamese has no voice.
var voices = map[faq.Language]bool{
	faq.LanguageEnglish: true,
	faq.LanguageHindi:   true,
	faq.LanguageMarathi: true,
	faq.LanguageBengali: true,
	faq.LanguageTamil:   true,
	faq.LanguageTelugu:  true,
}

// Client fetches MP3 audio for text.
type Client struct {
	baseURL    string
	httpClient *http.Client
	attempts   uint
	delay      time.Duration
}

// NewClient builds a TTS client.
func NewClient(baseURL string, timeout time.Duration, attempts uint) *Client {
	endpoint := strings.TrimSpace(baseURL)
	if endpoint == "" {
		endpoint = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if attempts == 0 {
		attempts = 3
	}
	return &Client{
		baseURL:    endpoint,
		httpClient: &http.Client{Timeout: timeout},
		attempts:   attempts,
		delay:      200 * time.Millisecond,
	}
}

// Synthesize splits text into chunks the endpoint accepts and concatenates
// the returned MP3 streams.
func (c *Client) Synthesize(ctx context.Context, text string, lang faq.Language) ([]byte, error) {
	if !voices[lang] {
		return nil, speech.ErrUnsupportedLanguage
	}
	parts := chunkText(text, maxChunkRunes)
	if len(parts) == 0 {
		return nil, fmt.Errorf("nothing to synthesize")
	}
	var audio bytes.Buffer
	for i, part := range parts {
		data, err := c.fetchWithRetry(ctx, part, lang.Code(), i, len(parts))
		if err != nil {
			return nil, err
		}
		audio.Write(data)
	}
	return audio.Bytes(), nil
}

func (c *Client) fetchWithRetry(ctx context.Context, text, code string, idx, total int) ([]byte, error) {
	var data []byte
	err := retry.Do(
		func() error {
			var err error
			data, err = c.fetch(ctx, text, code, idx, total)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	return data, err
}

func (c *Client) fetch(ctx context.Context, text, code string, idx, total int) ([]byte, error) {
	query := url.Values{}
	query.Set("ie", "UTF-8")
	query.Set("client", "tw-ob")
	query.Set("tl", code)
	query.Set("q", text)
	query.Set("idx", strconv.Itoa(idx))
	query.Set("total", strconv.Itoa(total))
	query.Set("textlen", strconv.Itoa(len([]rune(text))))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("build tts request: %w", err))
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		err := fmt.Errorf("tts request error: status=%d body=%s", resp.StatusCode, string(payload))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, retry.Unrecoverable(err)
		}
		return nil, err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tts response: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("tts returned no audio")
	}
	return data, nil
}

// chunkText splits text into pieces of at most limit runes, cutting after
// sentence punctuation when possible, then on spaces, then anywhere.
func chunkText(text string, limit int) []string {
	var out []string
	runes := []rune(strings.TrimSpace(text))
	for len(runes) > 0 {
		if len(runes) <= limit {
			out = appendChunk(out, runes)
			break
		}
		cut := lastBoundary(runes[:limit], isSentenceEnd)
		if cut <= 0 {
			cut = lastBoundary(runes[:limit], unicode.IsSpace)
		}
		if cut <= 0 {
			cut = limit
		}
		out = appendChunk(out, runes[:cut])
		runes = []rune(strings.TrimSpace(string(runes[cut:])))
	}
	return out
}

func appendChunk(out []string, runes []rune) []string {
	if s := strings.TrimSpace(string(runes)); s != "" {
		return append(out, s)
	}
	return out
}

// lastBoundary returns the index just past the last rune matching fn.
func lastBoundary(runes []rune, fn func(rune) bool) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if fn(runes[i]) {
			return i + 1
		}
	}
	return 0
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '।', '॥', ';', ',':
		return true
	}
	return false
}

var _ speech.Synthesizer = (*Client)(nil)
