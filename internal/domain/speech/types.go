package speech

import (
	"context"
	"errors"
	"time"

	"github.com/yanqian/nyayasetu/internal/domain/faq"
)

var (
	// ErrUnsupportedLanguage is returned by a Synthesizer or Transcriber that has no voice for the language.
	ErrUnsupportedLanguage = errors.New("language not supported by speech service")
	// ErrArtifactNotFound means the audio id is unknown or has expired.
	ErrArtifactNotFound = errors.New("audio artifact not found")
)

// Synthesizer turns text into compressed audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, lang faq.Language) ([]byte, error)
}

// Transcriber turns a recording into text.
type Transcriber interface {
	Transcribe(ctx context.Context, clip Clip, lang faq.Language) (string, error)
}

// Artifact is a stored audio payload.
type Artifact struct {
	ID          string
	ContentType string
	Data        []byte
	ExpiresAt   time.Time
}

// AudioStorage keeps synthesized audio until it expires.
type AudioStorage interface {
	Put(ctx context.Context, artifact Artifact) error
	Get(ctx context.Context, id string) (Artifact, error)
}

// Handle points a client at a stored artifact.
type Handle struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	ContentType string    `json:"contentType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Config tunes the speech service.
type Config struct {
	// AudioTTL is how long a synthesized artifact stays retrievable.
	AudioTTL time.Duration
	// MaxChars caps the text sent to the synthesizer.
	MaxChars int
	// BasePath prefixes the artifact id in Handle.URL.
	BasePath string
}
