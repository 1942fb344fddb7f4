//go:build portaudio

package voice

import (
	"context"
	"errors"
	"fmt"

	"github.com/gordonklaus/portaudio"
	"github.com/rs/zerolog/log"
)

const framesPerBuffer = 512

// Microphone captures from the default input device and recognizes the
// utterance with Google speech.
type Microphone struct {
	stt *GoogleClient
}

// NewRecognizer returns a microphone recognizer, or Unsupported when no
// speech API key is configured.
func NewRecognizer(apiKey string) Recognizer {
	if apiKey == "" {
		return Unsupported{}
	}
	return &Microphone{stt: NewGoogleClient(apiKey)}
}

func (m *Microphone) Capture(ctx context.Context, locale string) (<-chan Event, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	if _, err := portaudio.DefaultInputDevice(); err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}

	ch := make(chan Event, 1)
	go func() {
		defer close(ch)
		defer portaudio.Terminate()
		ch <- m.capture(ctx, locale)
	}()
	return ch, nil
}

func (m *Microphone) capture(ctx context.Context, locale string) Event {
	in := make([]int16, framesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(1, 0, SampleRate, len(in), in)
	if err != nil {
		return Event{Err: recognitionErr(CodeAudioCapture, err)}
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return Event{Err: recognitionErr(CodeAudioCapture, err)}
	}
	defer stream.Stop()

	ep := newEndpointer(SampleRate)
	for {
		if ctx.Err() != nil {
			return Event{Err: recognitionErr(CodeAborted, ctx.Err())}
		}
		if err := stream.Read(); err != nil {
			if errors.Is(err, portaudio.InputOverflowed) {
				continue
			}
			return Event{Err: recognitionErr(CodeAudioCapture, err)}
		}

		done, rerr := ep.feed(in)
		if rerr != nil {
			return Event{Err: rerr}
		}
		if done {
			break
		}
	}
	log.Debug().Int("samples", len(ep.samples)).Msg("utterance captured")

	text, err := m.stt.Transcribe(ctx, NewBuffer(ep.samples, SampleRate), locale)
	if err != nil {
		var rerr *RecognitionError
		if errors.As(err, &rerr) {
			return Event{Err: rerr}
		}
		return Event{Err: recognitionErr(CodeNetwork, err)}
	}
	return Event{Transcript: text}
}
