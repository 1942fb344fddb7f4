package voice

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-audio/audio"
	"github.com/rs/zerolog/log"
)

// GoogleEndpoint is the speech API v2 recognize URL.
const GoogleEndpoint = "http://www.google.com/speech-api/v2/recognize"

type alternative struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
}

type result struct {
	Alternative []alternative `json:"alternative"`
	Final       bool          `json:"final"`
}

type recognizeResponse struct {
	Result []result `json:"result"`
}

// GoogleClient sends FLAC audio to the Google speech API.
type GoogleClient struct {
	endpoint   string
	key        string
	httpClient *http.Client
}

// GoogleOption configures a GoogleClient.
type GoogleOption func(*GoogleClient)

// WithEndpoint overrides the recognize URL.
func WithEndpoint(u string) GoogleOption {
	return func(g *GoogleClient) { g.endpoint = u }
}

// WithGoogleHTTPClient replaces the HTTP client.
func WithGoogleHTTPClient(hc *http.Client) GoogleOption {
	return func(g *GoogleClient) { g.httpClient = hc }
}

// NewGoogleClient returns a client authenticating with key.
func NewGoogleClient(key string, opts ...GoogleOption) *GoogleClient {
	g := &GoogleClient{
		endpoint:   GoogleEndpoint,
		key:        key,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Transcribe encodes buf and recognizes it. Failures are *RecognitionError.
func (g *GoogleClient) Transcribe(ctx context.Context, buf *audio.IntBuffer, locale string) (string, error) {
	data, err := EncodeFLAC(buf)
	if err != nil {
		return "", recognitionErr(CodeAudioCapture, err)
	}
	return g.Recognize(ctx, data, buf.Format.SampleRate, locale)
}

// Recognize posts FLAC audio and returns the most confident transcript.
func (g *GoogleClient) Recognize(ctx context.Context, flacData []byte, rate int, locale string) (string, error) {
	q := url.Values{}
	q.Set("client", "chromium")
	q.Set("lang", locale)
	q.Set("key", g.key)
	q.Set("pFilter", "0")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint+"?"+q.Encode(), bytes.NewReader(flacData))
	if err != nil {
		return "", recognitionErr(CodeNetwork, err)
	}
	req.Header.Set("Content-Type", fmt.Sprintf("audio/x-flac; rate=%d", rate))

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", recognitionErr(CodeAborted, err)
		}
		return "", recognitionErr(CodeNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", recognitionErr(CodeNotAllowed, fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", recognitionErr(CodeNetwork, fmt.Errorf("status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", recognitionErr(CodeNetwork, err)
	}

	alt, err := bestHypothesis(body)
	if err != nil {
		return "", err
	}
	log.Debug().
		Dur("latency", time.Since(start)).
		Float64("confidence", alt.Confidence).
		Msg("speech recognized")
	return alt.Transcript, nil
}

// bestHypothesis scans the newline-delimited response for the first
// non-empty result and picks its most confident alternative.
func bestHypothesis(body []byte) (alternative, error) {
	sc := bufio.NewScanner(bytes.NewReader(body))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var r recognizeResponse
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			return alternative{}, recognitionErr(CodeNetwork, fmt.Errorf("decode response: %w", err))
		}
		if len(r.Result) == 0 {
			continue
		}

		best, highest := alternative{}, -1.0
		for _, a := range r.Result[0].Alternative {
			if a.Confidence > highest {
				best, highest = a, a.Confidence
			}
		}
		if strings.TrimSpace(best.Transcript) == "" {
			break
		}
		return best, nil
	}
	return alternative{}, recognitionErr(CodeNoSpeech, nil)
}
