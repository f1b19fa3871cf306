package speech

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/nyayasetu/internal/domain/faq"
	apperrors "github.com/yanqian/nyayasetu/pkg/errors"
)

type stubSynthesizer struct {
	audio []byte
	err   error
	text  string
}

func (s *stubSynthesizer) Synthesize(_ context.Context, text string, _ faq.Language) ([]byte, error) {
	s.text = text
	return s.audio, s.err
}

type stubTranscriber struct {
	text string
	err  error
}

func (s stubTranscriber) Transcribe(context.Context, Clip, faq.Language) (string, error) {
	return s.text, s.err
}

type stubStorage struct {
	mu        sync.Mutex
	artifacts map[string]Artifact
	err       error
}

func newStubStorage() *stubStorage {
	return &stubStorage{artifacts: make(map[string]Artifact)}
}

func (s *stubStorage) Put(_ context.Context, a Artifact) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts[a.ID] = a
	return nil
}

func (s *stubStorage) Get(_ context.Context, id string) (Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.artifacts[id]
	if !ok {
		return Artifact{}, ErrArtifactNotFound
	}
	return a, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSpeakStoresArtifact(t *testing.T) {
	storage := newStubStorage()
	svc := NewService(Config{AudioTTL: time.Minute}, &stubSynthesizer{audio: []byte("mp3")}, nil, storage, testLogger())

	handle, err := svc.Speak(context.Background(), "Visit nearest police station.", faq.LanguageEnglish)
	require.NoError(t, err)
	require.Equal(t, "/api/v1/audio/"+handle.ID, handle.URL)
	require.Equal(t, "audio/mpeg", handle.ContentType)

	artifact, err := svc.Audio(context.Background(), handle.ID)
	require.NoError(t, err)
	require.Equal(t, []byte("mp3"), artifact.Data)
}

func TestSpeakTruncatesLongText(t *testing.T) {
	synth := &stubSynthesizer{audio: []byte("mp3")}
	svc := NewService(Config{MaxChars: 4}, synth, nil, newStubStorage(), testLogger())

	_, err := svc.Speak(context.Background(), "चरण एक दो", faq.LanguageHindi)
	require.NoError(t, err)
	require.Equal(t, "चरण ", synth.text)
}

func TestSpeakFailuresAreSpeechErrors(t *testing.T) {
	cases := map[string]Service{
		"unsupported": NewService(Config{}, &stubSynthesizer{err: ErrUnsupportedLanguage}, nil, newStubStorage(), testLogger()),
		"network":     NewService(Config{}, &stubSynthesizer{err: errors.New("dial tcp: timeout")}, nil, newStubStorage(), testLogger()),
		"storage":     NewService(Config{}, &stubSynthesizer{audio: []byte("x")}, nil, &stubStorage{err: errors.New("bucket gone")}, testLogger()),
		"unwired":     NewService(Config{}, nil, nil, nil, testLogger()),
	}
	for name, svc := range cases {
		_, err := svc.Speak(context.Background(), "hello", faq.LanguageAssamese)
		require.True(t, apperrors.IsCode(err, apperrors.CodeSpeech), name)
	}
}

func TestSpeakValidatesInput(t *testing.T) {
	svc := NewService(Config{}, &stubSynthesizer{}, nil, newStubStorage(), testLogger())

	_, err := svc.Speak(context.Background(), "  ", faq.LanguageEnglish)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	_, err = svc.Speak(context.Background(), "hi", faq.Language("latin"))
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestAudioExpires(t *testing.T) {
	storage := newStubStorage()
	svc := NewService(Config{AudioTTL: time.Minute}, &stubSynthesizer{audio: []byte("mp3")}, nil, storage, testLogger()).(*service)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	handle, err := svc.Speak(context.Background(), "hello", faq.LanguageEnglish)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = svc.Audio(context.Background(), handle.ID)
	require.ErrorIs(t, err, ErrArtifactNotFound)

	_, err = svc.Audio(context.Background(), "../etc/passwd")
	require.ErrorIs(t, err, ErrArtifactNotFound)
}

func TestResolveQuestion(t *testing.T) {
	svc := NewService(Config{}, nil, stubTranscriber{text: " file FIR "}, nil, testLogger())

	text, err := svc.ResolveQuestion(context.Background(), TranscribedText("  bail  "), faq.LanguageEnglish)
	require.NoError(t, err)
	require.Equal(t, "bail", text)

	text, err = svc.ResolveQuestion(context.Background(), RawAudio(Clip{Data: []byte("wav"), MimeType: "audio/wav"}), faq.LanguageEnglish)
	require.NoError(t, err)
	require.Equal(t, "file FIR", text)

	_, err = svc.ResolveQuestion(context.Background(), RawAudio(Clip{}), faq.LanguageEnglish)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	_, err = svc.ResolveQuestion(context.Background(), NoInput(), faq.LanguageEnglish)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestResolveQuestionTranscriptionFailure(t *testing.T) {
	failing := NewService(Config{}, nil, stubTranscriber{err: errors.New("503")}, nil, testLogger())
	_, err := failing.ResolveQuestion(context.Background(), RawAudio(Clip{Data: []byte("wav")}), faq.LanguageHindi)
	require.True(t, apperrors.IsCode(err, apperrors.CodeSpeech))

	silent := NewService(Config{}, nil, stubTranscriber{text: "  "}, nil, testLogger())
	_, err = silent.ResolveQuestion(context.Background(), RawAudio(Clip{Data: []byte("wav")}), faq.LanguageHindi)
	require.True(t, apperrors.IsCode(err, apperrors.CodeSpeech))
}

func TestInputVariants(t *testing.T) {
	require.Equal(t, KindNone, TranscribedText("   ").Kind())
	require.Equal(t, KindText, TranscribedText("x").Kind())
	require.Equal(t, KindAudio, RawAudio(Clip{Data: []byte{1}}).Kind())
	_, ok := NoInput().Text()
	require.False(t, ok)
	require.Equal(t, "audio", KindAudio.String())
}
