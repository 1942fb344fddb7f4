package voice

import "time"

// Endpointing defaults for microphone capture.
const (
	DefaultSpeechThreshold = 450
	DefaultTrailingSilence = time.Second
	DefaultNoSpeechTimeout = 8 * time.Second
	DefaultMaxUtterance    = 25 * time.Second
)

// endpointer decides when an utterance is over by watching frame loudness.
// Time is measured in samples so the decision does not depend on how fast
// frames arrive.
type endpointer struct {
	rate      int
	threshold float64
	silence   int // samples of quiet that end speech
	noSpeech  int // samples before giving up on hearing anything
	max       int // hard cap on utterance length

	heard   bool
	quiet   int
	samples []int16
}

func newEndpointer(rate int) *endpointer {
	toSamples := func(d time.Duration) int { return int(d.Seconds() * float64(rate)) }
	return &endpointer{
		rate:      rate,
		threshold: DefaultSpeechThreshold,
		silence:   toSamples(DefaultTrailingSilence),
		noSpeech:  toSamples(DefaultNoSpeechTimeout),
		max:       toSamples(DefaultMaxUtterance),
	}
}

// feed appends one frame. It reports done when the utterance is complete,
// and a non-nil error when capture should end without one.
func (e *endpointer) feed(frame []int16) (done bool, err *RecognitionError) {
	e.samples = append(e.samples, frame...)

	if RMS(frame) > e.threshold {
		e.heard = true
		e.quiet = 0
	} else {
		e.quiet += len(frame)
	}

	switch {
	case !e.heard && len(e.samples) >= e.noSpeech:
		return false, recognitionErr(CodeNoSpeech, nil)
	case e.heard && e.quiet >= e.silence:
		return true, nil
	case len(e.samples) >= e.max:
		return e.heard, nil
	}
	return false, nil
}
