package whisper

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/nyayasetu/internal/domain/faq"
	"github.com/yanqian/nyayasetu/internal/domain/speech"
)

type captured struct {
	mu       sync.Mutex
	auth     string
	language string
	model    string
	filename string
	audio    []byte
}

func TestClientTranscribe(t *testing.T) {
	var got captured
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.mu.Lock()
		defer got.mu.Unlock()
		got.auth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			got.language = r.FormValue("language")
			got.model = r.FormValue("model")
			if f, header, err := r.FormFile("file"); err == nil {
				got.filename = header.Filename
				got.audio, _ = io.ReadAll(f)
				f.Close()
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"  एफआईआर कैसे दर्ज करें  "}`))
	}))
	defer srv.Close()

	client, err := NewClient("sk-test", srv.URL, "", time.Second)
	require.NoError(t, err)

	text, err := client.Transcribe(context.Background(), speech.Clip{Data: []byte("RIFF"), MimeType: "audio/wav"}, faq.LanguageHindi)
	require.NoError(t, err)
	require.Equal(t, "एफआईआर कैसे दर्ज करें", text)

	got.mu.Lock()
	defer got.mu.Unlock()
	require.Equal(t, "Bearer sk-test", got.auth)
	require.Equal(t, "hi", got.language)
	require.Equal(t, "whisper-1", got.model)
	require.Equal(t, "recording.wav", got.filename)
	require.Equal(t, []byte("RIFF"), got.audio)
}

func TestClientTranscribeErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer srv.Close()

	client, err := NewClient("sk-test", srv.URL, "whisper-1", time.Second)
	require.NoError(t, err)
	_, err = client.Transcribe(context.Background(), speech.Clip{Data: []byte("x")}, faq.LanguageEnglish)
	require.ErrorContains(t, err, "bad key")

	missing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"duration":1.2}`))
	}))
	defer missing.Close()
	client, err = NewClient("sk-test", missing.URL, "", time.Second)
	require.NoError(t, err)
	_, err = client.Transcribe(context.Background(), speech.Clip{Data: []byte("x")}, faq.LanguageEnglish)
	require.ErrorContains(t, err, "missing text")
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(" ", "", "", 0)
	require.Error(t, err)
}
