package speech

import "strings"

// InputKind tags which variant an Input holds.
type InputKind int

const (
	KindNone InputKind = iota
	KindAudio
	KindText
)

func (k InputKind) String() string {
	switch k {
	case KindAudio:
		return "audio"
	case KindText:
		return "text"
	default:
		return "none"
	}
}

// Clip is recorded audio as it arrived from the client.
type Clip struct {
	Data     []byte
	MimeType string
	Filename string
}

// Input is what the question box received: nothing, a recording, or text
// that was already transcribed on the client. It is resolved once at the
// transport boundary.
type Input struct {
	kind InputKind
	clip Clip
	text string
}

// NoInput is the empty variant.
func NoInput() Input { return Input{kind: KindNone} }

// RawAudio wraps a recording. An empty recording is NoInput.
func RawAudio(clip Clip) Input {
	if len(clip.Data) == 0 {
		return NoInput()
	}
	return Input{kind: KindAudio, clip: clip}
}

// TranscribedText wraps text. Blank text is NoInput.
func TranscribedText(text string) Input {
	text = strings.TrimSpace(text)
	if text == "" {
		return NoInput()
	}
	return Input{kind: KindText, text: text}
}

// Kind reports the variant.
func (in Input) Kind() InputKind { return in.kind }

// Clip returns the recording when Kind is KindAudio.
func (in Input) Clip() (Clip, bool) { return in.clip, in.kind == KindAudio }

// Text returns the transcription when Kind is KindText.
func (in Input) Text() (string, bool) { return in.text, in.kind == KindText }
