package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapAndIsCode(t *testing.T) {
	base := errors.New("disk full")
	err := fmt.Errorf("append: %w", Wrap(CodeFeedback, "feedback write failed", base))

	if !IsCode(err, CodeFeedback) {
		t.Fatalf("expected code %q on %v", CodeFeedback, err)
	}
	if IsCode(err, CodeInvalidInput) {
		t.Fatalf("unexpected code match")
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause to be reachable")
	}
	if got := CodeOf(errors.New("plain")); got != "" {
		t.Fatalf("expected empty code got %q", got)
	}
}

func TestAppErrorMessage(t *testing.T) {
	if got := Wrap(CodeInvalidInput, "question cannot be empty", nil).Error(); got != "question cannot be empty" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := Wrap(CodeSpeech, "tts failed", errors.New("timeout")).Error(); got != "tts failed: timeout" {
		t.Fatalf("unexpected message %q", got)
	}
}
