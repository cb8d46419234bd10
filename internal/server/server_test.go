package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lsaver/pkg/cache"
	"github.com/matzehuels/lsaver/pkg/config"
	"github.com/matzehuels/lsaver/pkg/errors"
	"github.com/matzehuels/lsaver/pkg/observability"
	"github.com/matzehuels/lsaver/pkg/pipeline"
)

func newTestServer(t *testing.T, c cache.Cache) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	s := New(pipeline.NewRunner(c, nil, logger), config.Default(), logger)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, body := get(t, ts.URL+"/healthz")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get(headerRequestID) == "" {
		t.Error("missing request id header")
	}
	var got map[string]string
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["status"] != "ok" {
		t.Errorf("status field = %q", got["status"])
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	ts := newTestServer(t, nil)
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(headerRequestID, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(headerRequestID); got != "abc-123" {
		t.Errorf("request id = %q, want abc-123", got)
	}
}

func TestRender(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name        string
		query       string
		contentType string
		contains    string
	}{
		{"svg default", "seed=7&duration=1", "image/svg+xml", "<svg"},
		{"json", "seed=7&duration=1&format=json", "application/json", `"seed": 7`},
		{"no previews", "seed=7&duration=1&previews=false", "image/svg+xml", "<svg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, ts.URL+"/v1/render?"+tt.query)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, body %s", resp.StatusCode, body)
			}
			if ct := resp.Header.Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", ct, tt.contentType)
			}
			if resp.Header.Get("X-Run-ID") == "" {
				t.Error("missing X-Run-ID")
			}
			if !strings.Contains(string(body), tt.contains) {
				t.Errorf("body missing %q", tt.contains)
			}
		})
	}
}

func TestRenderErrors(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name   string
		path   string
		status int
		code   errors.Code
	}{
		{"missing seed", "/v1/render", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"negative seed", "/v1/render?seed=-1", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad duration", "/v1/render?seed=1&duration=abc", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"duration too long", "/v1/render?seed=1&duration=100000", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad format", "/v1/render?seed=1&format=gif", http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"grammar without seed", "/v1/grammar", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown route", "/v2/nothing", http.StatusNotFound, errors.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, ts.URL+tt.path)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", resp.StatusCode, tt.status, body)
			}
			var got errorResponse
			if err := json.Unmarshal(body, &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Code != string(tt.code) {
				t.Errorf("code = %q, want %q", got.Code, tt.code)
			}
			if got.Error == "" {
				t.Error("empty error message")
			}
		})
	}
}

func TestRenderCacheHit(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ts := newTestServer(t, c)
	url := ts.URL + "/v1/render?seed=3&duration=0.5&format=json"

	first, firstBody := get(t, url)
	second, secondBody := get(t, url)

	if first.Header.Get("X-Cache") != "miss" {
		t.Errorf("first X-Cache = %q, want miss", first.Header.Get("X-Cache"))
	}
	if second.Header.Get("X-Cache") != "hit" {
		t.Errorf("second X-Cache = %q, want hit", second.Header.Get("X-Cache"))
	}
	if string(firstBody) != string(secondBody) {
		t.Error("cached body differs from first render")
	}
}

func TestGrammar(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ts := newTestServer(t, c)

	resp, body := get(t, ts.URL+"/v1/grammar?seed=42")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	if resp.Header.Get("X-Cache") != "miss" {
		t.Errorf("X-Cache = %q, want miss", resp.Header.Get("X-Cache"))
	}

	var got struct {
		Seed    uint64 `json:"seed"`
		Grammar struct {
			Axiom string `json:"axiom"`
			Rules []struct {
				Symbol string `json:"symbol"`
				Body   string `json:"body"`
			} `json:"rules"`
			Angle float64 `json:"angle"`
		} `json:"grammar"`
		ExpandedLength int    `json:"expanded_length"`
		Stop           string `json:"stop"`
	}
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Seed != 42 || got.Grammar.Axiom == "" || len(got.Grammar.Rules) == 0 {
		t.Errorf("unexpected grammar response: %s", body)
	}
	if got.ExpandedLength < len(got.Grammar.Axiom) {
		t.Errorf("expanded length %d shorter than axiom %q", got.ExpandedLength, got.Grammar.Axiom)
	}

	again, againBody := get(t, ts.URL+"/v1/grammar?seed=42")
	if again.Header.Get("X-Cache") != "hit" {
		t.Errorf("second X-Cache = %q, want hit", again.Header.Get("X-Cache"))
	}
	if string(againBody) != string(body) {
		t.Error("cached grammar differs")
	}
}

type countingHTTPHooks struct {
	requests  int
	responses map[int]int
}

func (h *countingHTTPHooks) OnRequest(context.Context, string, string) { h.requests++ }
func (h *countingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.responses[status]++
}

func TestHTTPHooks(t *testing.T) {
	hooks := &countingHTTPHooks{responses: map[int]int{}}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	logger := log.New(io.Discard)
	h := New(pipeline.NewRunner(nil, nil, logger), config.Default(), logger).Handler()
	for _, path := range []string{"/healthz", "/v1/render"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if hooks.requests != 2 {
		t.Errorf("requests = %d, want 2", hooks.requests)
	}
	want := map[int]int{http.StatusOK: 1, http.StatusBadRequest: 1}
	if fmt.Sprint(hooks.responses) != fmt.Sprint(want) {
		t.Errorf("responses = %v, want %v", hooks.responses, want)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidConfig, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeGenerationExhausted, "x"), http.StatusUnprocessableEntity},
		{errors.New(errors.ErrCodeUnsupported, "x"), http.StatusNotImplemented},
		{errors.New(errors.ErrCodeRenderFailed, "x"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", errors.New(errors.ErrCodeNotFound, "x")), http.StatusNotFound},
		{fmt.Errorf("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor() = %d, want %d", got, tt.want)
			}
		})
	}
}
