package speech

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/nyayasetu/internal/domain/faq"
	apperrors "github.com/yanqian/nyayasetu/pkg/errors"
	"github.com/yanqian/nyayasetu/pkg/util"
)

const (
	defaultAudioTTL = 15 * time.Minute
	defaultMaxChars = 3000
	defaultBasePath = "/api/v1/audio/"
	mp3ContentType  = "audio/mpeg"
)

// Service synthesizes answers to audio and resolves spoken questions.
type Service interface {
	Speak(ctx context.Context, text string, lang faq.Language) (Handle, error)
	ResolveQuestion(ctx context.Context, in Input, lang faq.Language) (string, error)
	Audio(ctx context.Context, id string) (Artifact, error)
}

type service struct {
	cfg         Config
	synthesizer Synthesizer
	transcriber Transcriber
	storage     AudioStorage
	now         func() time.Time
	logger      *slog.Logger
}

// NewService wires the speech collaborators. Any of them may be nil, in which
// case the matching operation reports a speech_error.
func NewService(cfg Config, synthesizer Synthesizer, transcriber Transcriber, storage AudioStorage, logger *slog.Logger) Service {
	if cfg.AudioTTL <= 0 {
		cfg.AudioTTL = defaultAudioTTL
	}
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = defaultMaxChars
	}
	if cfg.BasePath == "" {
		cfg.BasePath = defaultBasePath
	}
	if !strings.HasSuffix(cfg.BasePath, "/") {
		cfg.BasePath += "/"
	}
	return &service{
		cfg:         cfg,
		synthesizer: synthesizer,
		transcriber: transcriber,
		storage:     storage,
		now:         util.NowUTC,
		logger:      logger.With("component", "speech.service"),
	}
}

func (s *service) Speak(ctx context.Context, text string, lang faq.Language) (Handle, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Handle{}, apperrors.Wrap(apperrors.CodeInvalidInput, "text cannot be empty", nil)
	}
	if !lang.Valid() {
		return Handle{}, apperrors.Wrap(apperrors.CodeInvalidInput, "unsupported language", nil)
	}
	if s.synthesizer == nil || s.storage == nil {
		return Handle{}, apperrors.Wrap(apperrors.CodeSpeech, "text-to-speech is not configured", nil)
	}
	if runes := []rune(text); len(runes) > s.cfg.MaxChars {
		text = string(runes[:s.cfg.MaxChars])
	}

	audio, err := s.synthesizer.Synthesize(ctx, text, lang)
	if err != nil {
		s.logger.Warn("speech synthesis failed", "language", lang, "error", err)
		if errors.Is(err, ErrUnsupportedLanguage) {
			return Handle{}, apperrors.Wrap(apperrors.CodeSpeech, "audio is not available for "+lang.Title(), err)
		}
		return Handle{}, apperrors.Wrap(apperrors.CodeSpeech, "speech synthesis failed", err)
	}

	artifact := Artifact{
		ID:          uuid.NewString(),
		ContentType: mp3ContentType,
		Data:        audio,
		ExpiresAt:   s.now().Add(s.cfg.AudioTTL),
	}
	if err := s.storage.Put(ctx, artifact); err != nil {
		s.logger.Warn("audio store failed", "id", artifact.ID, "error", err)
		return Handle{}, apperrors.Wrap(apperrors.CodeSpeech, "failed to store audio", err)
	}
	s.logger.Info("speech synthesized", "id", artifact.ID, "language", lang, "bytes", len(audio))
	return Handle{
		ID:          artifact.ID,
		URL:         s.cfg.BasePath + artifact.ID,
		ContentType: artifact.ContentType,
		ExpiresAt:   artifact.ExpiresAt,
	}, nil
}

// ResolveQuestion turns an Input into question text. NoInput is a validation
// error; a failed transcription is a speech_error.
func (s *service) ResolveQuestion(ctx context.Context, in Input, lang faq.Language) (string, error) {
	switch in.Kind() {
	case KindText:
		text, _ := in.Text()
		return text, nil
	case KindAudio:
		if s.transcriber == nil {
			return "", apperrors.Wrap(apperrors.CodeSpeech, "speech recognition is not configured", nil)
		}
		clip, _ := in.Clip()
		text, err := s.transcriber.Transcribe(ctx, clip, lang)
		if err != nil {
			s.logger.Warn("transcription failed", "language", lang, "error", err)
			return "", apperrors.Wrap(apperrors.CodeSpeech, "could not understand the recording", err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return "", apperrors.Wrap(apperrors.CodeSpeech, "could not understand the recording", nil)
		}
		return text, nil
	default:
		return "", apperrors.Wrap(apperrors.CodeInvalidInput, "question cannot be empty", nil)
	}
}

func (s *service) Audio(ctx context.Context, id string) (Artifact, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Artifact{}, ErrArtifactNotFound
	}
	if s.storage == nil {
		return Artifact{}, ErrArtifactNotFound
	}
	artifact, err := s.storage.Get(ctx, id)
	if err != nil {
		return Artifact{}, err
	}
	if !artifact.ExpiresAt.IsZero() && s.now().After(artifact.ExpiresAt) {
		return Artifact{}, ErrArtifactNotFound
	}
	return artifact, nil
}
