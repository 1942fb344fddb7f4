//go:build !portaudio

package voice

// NewRecognizer returns Unsupported; microphone capture needs the portaudio
// build tag.
func NewRecognizer(string) Recognizer {
	return Unsupported{}
}
