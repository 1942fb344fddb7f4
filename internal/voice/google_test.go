package voice

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecognize_BestHypothesis(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "chromium", r.URL.Query().Get("client"))
		assert.Equal(t, "bn-BD", r.URL.Query().Get("lang"))
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		assert.Equal(t, "0", r.URL.Query().Get("pFilter"))
		assert.Equal(t, "audio/x-flac; rate=16000", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "fLaC-data", string(body))

		io.WriteString(w, `{"result":[]}`+"\n")
		io.WriteString(w, `{"result":[{"alternative":[{"transcript":"ঢাকা কোথায়","confidence":0.62},{"transcript":"ঢাকা কোথায়?","confidence":0.91},{"transcript":"ঢাকা"}],"final":true}],"result_index":0}`+"\n")
	}))
	defer srv.Close()

	g := NewGoogleClient("secret", WithEndpoint(srv.URL))
	text, err := g.Recognize(context.Background(), []byte("fLaC-data"), SampleRate, "bn-BD")
	require.NoError(t, err)
	assert.Equal(t, "ঢাকা কোথায়?", text)
}

func TestRecognize_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		code    Code
	}{
		{"forbidden", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}, CodeNotAllowed},
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}, CodeNetwork},
		{"no result", func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"result":[]}`+"\n")
		}, CodeNoSpeech},
		{"empty transcript", func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"result":[{"alternative":[{"transcript":""}]}]}`)
		}, CodeNoSpeech},
		{"garbage", func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `<html>`)
		}, CodeNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewGoogleClient("k", WithEndpoint(srv.URL)).
				Recognize(context.Background(), []byte("x"), SampleRate, DefaultLocale)

			var rerr *RecognitionError
			require.True(t, errors.As(err, &rerr), "err = %v", err)
			assert.Equal(t, tt.code, rerr.Code)
		})
	}
}

func TestRecognize_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewGoogleClient("k", WithEndpoint(url)).
		Recognize(context.Background(), []byte("x"), SampleRate, DefaultLocale)
	var rerr *RecognitionError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, CodeNetwork, rerr.Code)
}

func TestRecognize_Canceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGoogleClient("k", WithEndpoint(srv.URL)).
		Recognize(ctx, []byte("x"), SampleRate, DefaultLocale)
	var rerr *RecognitionError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, CodeAborted, rerr.Code)
}

func TestTranscribe_SendsFLAC(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "fLaC", string(body[:4]))
		io.WriteString(w, `{"result":[{"alternative":[{"transcript":"নমস্কার","confidence":0.9}],"final":true}]}`)
	}))
	defer srv.Close()

	g := NewGoogleClient("k", WithEndpoint(srv.URL))
	text, err := g.Transcribe(context.Background(), NewBuffer(sine(SampleRate/2, 6000), SampleRate), DefaultLocale)
	require.NoError(t, err)
	assert.Equal(t, "নমস্কার", text)
}
