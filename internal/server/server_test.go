package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pigeonic/banglachat/internal/answer"
	"github.com/pigeonic/banglachat/internal/chat"
	"github.com/pigeonic/banglachat/internal/gateway"
	"github.com/pigeonic/banglachat/internal/llm"
)

type answerFunc func(ctx context.Context, req chat.Request) (*chat.Response, error)

func (f answerFunc) Answer(ctx context.Context, req chat.Request) (*chat.Response, error) {
	return f(ctx, req)
}

func newTestServer(t *testing.T, a Answerer, opts ...Option) *httptest.Server {
	t.Helper()
	opts = append([]Option{WithLogger(zerolog.Nop())}, opts...)
	srv := httptest.NewServer(New(a, opts...).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func postChat(t *testing.T, srv *httptest.Server, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/chat", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestChat_OK(t *testing.T) {
	var got chat.Request
	srv := newTestServer(t, answerFunc(func(_ context.Context, req chat.Request) (*chat.Response, error) {
		got = req
		return &chat.Response{Answer: "ঢাকায় আজ রোদ", Sources: []string{"bmd.gov.bd"}}, nil
	}))

	resp, body := postChat(t, srv, `{"query":"ঢাকার আবহাওয়া কেমন?","topic":"সাধারণ","difficulty":"easy"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "ঢাকায় আজ রোদ", body["answer"])
	assert.Equal(t, []any{"bmd.gov.bd"}, body["sources"])
	assert.Equal(t, chat.Request{Query: "ঢাকার আবহাওয়া কেমন?", Topic: "সাধারণ", Difficulty: "easy"}, got)
}

func TestChat_BadRequests(t *testing.T) {
	called := false
	srv := newTestServer(t, answerFunc(func(context.Context, chat.Request) (*chat.Response, error) {
		called = true
		return &chat.Response{}, nil
	}))

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"query":`},
		{"blank query", `{"query":"  ","topic":"সাধারণ","difficulty":"easy"}`},
		{"unknown topic", `{"query":"q","topic":"রান্না","difficulty":"easy"}`},
		{"unknown difficulty", `{"query":"q","topic":"সাধারণ","difficulty":"expert"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := postChat(t, srv, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.NotEmpty(t, body["error"])
		})
	}
	assert.False(t, called, "answerer must not run for invalid requests")
}

func TestChat_AnswerErrors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&llm.UnavailableError{}, http.StatusBadGateway},
		{fmt.Errorf("answer generation: %w", &llm.RateLimitError{}), http.StatusServiceUnavailable},
		{&llm.RequestError{Status: 401}, http.StatusInternalServerError},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		srv := newTestServer(t, answerFunc(func(context.Context, chat.Request) (*chat.Response, error) {
			return nil, tt.err
		}))
		resp, _ := postChat(t, srv, `{"query":"q"}`)
		assert.Equal(t, tt.want, resp.StatusCode, "error %v", tt.err)
	}
}

func TestChat_Timeout(t *testing.T) {
	srv := newTestServer(t, answerFunc(func(ctx context.Context, _ chat.Request) (*chat.Response, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}), WithTimeout(20*time.Millisecond))

	resp, _ := postChat(t, srv, `{"query":"q"}`)
	assert.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)
}

func TestChat_PanicRecovered(t *testing.T) {
	srv := newTestServer(t, answerFunc(func(context.Context, chat.Request) (*chat.Response, error) {
		panic("boom")
	}))
	resp, _ := postChat(t, srv, `{"query":"q"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestTopics(t *testing.T) {
	srv := newTestServer(t, answerFunc(nil))

	resp, err := http.Get(srv.URL + "/topics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out topicsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Len(t, out.Topics, 6)
	assert.Len(t, out.Difficulties, 3)
	assert.Equal(t, "সাধারণ", out.Default)
	assert.Equal(t, difficultyView{ID: "medium", Label: "মাঝারি"}, out.Difficulties[1])
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, answerFunc(nil))
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t, answerFunc(nil), WithOrigins("http://localhost:3000"))

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/chat", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))

	req, _ = http.NewRequest(http.MethodOptions, srv.URL+"/chat", nil)
	req.Header.Set("Origin", "http://evil.example")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

// syncBuffer guards a bytes.Buffer written by the server goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestAccessLog(t *testing.T) {
	var buf syncBuffer
	srv := newTestServer(t, answerFunc(nil), WithLogger(zerolog.New(&buf)))

	resp, err := http.Get(srv.URL + "/topics")
	require.NoError(t, err)
	resp.Body.Close()

	// The access line is written after the response is flushed.
	require.Eventually(t, func() bool {
		return strings.Contains(buf.String(), `"path":"/topics"`)
	}, time.Second, 5*time.Millisecond)

	line := buf.String()
	assert.Contains(t, line, `"status":200`)
	assert.Contains(t, line, `"request_id"`)
}

// The chat client's gateway and the server agree on the wire format.
func TestRoundTripWithGateway(t *testing.T) {
	svc := answer.NewService(&llm.Mock{Echo: true}, answer.DefaultConfig())
	srv := newTestServer(t, svc)

	res := gateway.New(srv.URL).Do(context.Background(), chat.Request{
		Query:      "বাংলাদেশের রাজধানী কোথায়?",
		Topic:      "শিক্ষা",
		Difficulty: "medium",
	})
	require.NoError(t, res.Err)
	assert.False(t, res.Fallback)
	assert.Equal(t, "বাংলাদেশের রাজধানী কোথায়?", res.Response.Answer)
}

func TestListenAndServe_Shutdown(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	s := New(answerFunc(nil), WithLogger(zerolog.Nop()))
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
