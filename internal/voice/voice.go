// Package voice bridges speech capture and playback. Either capability may
// be missing at runtime; callers get ErrUnsupported or a no-op rather than
// having to probe the platform themselves.
package voice

import (
	"context"
	"errors"
	"fmt"
)

// DefaultLocale is the recognition and synthesis locale.
const DefaultLocale = "bn-BD"

// ErrUnsupported is returned when no capture capability exists.
var ErrUnsupported = errors.New("speech recognition not supported")

// Code classifies a failed recognition.
type Code string

const (
	CodeNoSpeech     Code = "no-speech"
	CodeNotAllowed   Code = "not-allowed"
	CodeNetwork      Code = "network"
	CodeAborted      Code = "aborted"
	CodeAudioCapture Code = "audio-capture"
)

// RecognitionError ends a capture session without a transcript.
type RecognitionError struct {
	Code Code
	Err  error
}

func (e *RecognitionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("recognition %s: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("recognition %s", e.Code)
}

func (e *RecognitionError) Unwrap() error {
	return e.Err
}

// Event is the single terminal result of a capture session. Exactly one of
// Transcript or Err is meaningful.
type Event struct {
	Transcript string
	Err        *RecognitionError
}

// Recognizer turns speech into text.
type Recognizer interface {
	// Capture starts one capture session. The returned channel yields
	// exactly one Event and is then closed. Cancelling ctx aborts the
	// session with CodeAborted.
	Capture(ctx context.Context, locale string) (<-chan Event, error)
}

// Voice is an installed synthesizer voice.
type Voice struct {
	Name     string
	Language string
}

// Speaker reads text aloud.
type Speaker interface {
	// Speak stops any utterance in progress and starts reading text. It
	// returns once playback has started.
	Speak(text, locale string) error

	// Voices lists installed voices.
	Voices() ([]Voice, error)
}

// Unsupported is the Recognizer used when nothing can capture speech.
type Unsupported struct{}

func (Unsupported) Capture(context.Context, string) (<-chan Event, error) {
	return nil, ErrUnsupported
}

// Silent is the Speaker used when no synthesizer is installed.
type Silent struct{}

func (Silent) Speak(string, string) error { return nil }
func (Silent) Voices() ([]Voice, error)   { return nil, nil }

// Language returns the language part of a locale such as "bn-BD".
func Language(locale string) string {
	for i, r := range locale {
		if r == '-' || r == '_' {
			return locale[:i]
		}
	}
	return locale
}

func recognitionErr(code Code, err error) *RecognitionError {
	return &RecognitionError{Code: code, Err: err}
}
