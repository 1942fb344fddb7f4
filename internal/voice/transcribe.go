package voice

import (
	"context"
	"fmt"
	"os"
)

// TranscribeFile recognizes speech in a 16-bit WAV file.
func TranscribeFile(ctx context.Context, stt *GoogleClient, path, locale string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	buf, err := DecodeWAV(f)
	if err != nil {
		return "", err
	}
	return stt.Transcribe(ctx, buf, locale)
}
