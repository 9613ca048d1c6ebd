package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sitelens/sitelens/internal/model"
)

type stubRunner struct {
	err   error
	delay time.Duration
	input string
}

func (s *stubRunner) Run(ctx context.Context, rawInput string) (*model.CombinedReport, error) {
	s.input = rawInput
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return &model.CombinedReport{
		Input: model.NewURLInput("https://example.com"),
		Branches: []model.BranchResult{
			{Name: model.BranchSEO, Status: model.BranchRan},
		},
	}, nil
}

func newTestServer(runner Runner) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(runner, WithLogger(logger))
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	return body
}

// TestHealth tests the health endpoint.
func TestHealth(t *testing.T) {
	t.Parallel()

	s := newTestServer(&stubRunner{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := decodeBody(t, rec); body["status"] != "healthy" {
		t.Errorf("status field = %v", body["status"])
	}
}

// TestAnalyzeSync tests the synchronous endpoint with string input.
func TestAnalyzeSync(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{}
	s := newTestServer(runner)

	rec := postJSON(t, s.Handler(), "/analyze", `{"input": "https://example.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["status"] != string(StatusCompleted) {
		t.Errorf("status = %v, want completed", body["status"])
	}
	if body["analysis_id"] == "" {
		t.Error("analysis_id missing")
	}
	if body["result"] == nil {
		t.Error("result missing from synchronous response")
	}
	if runner.input != "https://example.com" {
		t.Errorf("runner received %q", runner.input)
	}
}

// TestAnalyzeStructuredInput tests that an object input passes through as
// JSON text.
func TestAnalyzeStructuredInput(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{}
	s := newTestServer(runner)

	rec := postJSON(t, s.Handler(), "/analyze", `{"input": {"screenshot": "/tmp/x.png"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(runner.input, `"screenshot"`) {
		t.Errorf("structured input not forwarded as JSON: %q", runner.input)
	}
}

// TestAnalyzeBadRequests tests malformed and empty bodies.
func TestAnalyzeBadRequests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{not json`},
		{"missing input", `{}`},
		{"empty string input", `{"input": ""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newTestServer(&stubRunner{})
			rec := postJSON(t, s.Handler(), "/analyze", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

// TestAnalyzeRunnerError tests that a runner failure maps to 500 with the
// error state recorded.
func TestAnalyzeRunnerError(t *testing.T) {
	t.Parallel()

	s := newTestServer(&stubRunner{err: errors.New("browser crashed")})
	rec := postJSON(t, s.Handler(), "/analyze", `{"input": "https://example.com"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != string(StatusError) {
		t.Errorf("status = %v, want error", body["status"])
	}
	if !strings.Contains(body["error"].(string), "browser crashed") {
		t.Errorf("error = %v", body["error"])
	}
}

// TestAnalyzeAsyncLifecycle tests the pending to completed state machine.
func TestAnalyzeAsyncLifecycle(t *testing.T) {
	t.Parallel()

	s := newTestServer(&stubRunner{delay: 50 * time.Millisecond})

	rec := postJSON(t, s.Handler(), "/analyze/async", `{"input": "https://example.com"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}

	id, _ := decodeBody(t, rec)["analysis_id"].(string)
	if id == "" {
		t.Fatal("analysis_id missing")
	}

	// Poll until completion.
	deadline := time.Now().Add(3 * time.Second)
	for {
		req := httptest.NewRequest(http.MethodGet, "/analyze/"+id, nil)
		poll := httptest.NewRecorder()
		s.Handler().ServeHTTP(poll, req)

		if poll.Code != http.StatusOK {
			t.Fatalf("poll status = %d", poll.Code)
		}

		body := decodeBody(t, poll)
		switch body["status"] {
		case string(StatusCompleted):
			if body["result"] == nil {
				t.Error("completed analysis has no result")
			}
			if body["timestamp"] == nil {
				t.Error("completed analysis has no timestamp")
			}
			return
		case string(StatusPending), string(StatusProcessing):
			if time.Now().After(deadline) {
				t.Fatalf("analysis stuck in %v", body["status"])
			}
			time.Sleep(10 * time.Millisecond)
		default:
			t.Fatalf("unexpected status %v", body["status"])
		}
	}
}

// TestStatusUnknownID tests 404 for unknown analysis ids.
func TestStatusUnknownID(t *testing.T) {
	t.Parallel()

	s := newTestServer(&stubRunner{})
	req := httptest.NewRequest(http.MethodGet, "/analyze/no-such-id", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// TestDeleteAnalysis tests record deletion.
func TestDeleteAnalysis(t *testing.T) {
	t.Parallel()

	s := newTestServer(&stubRunner{})

	rec := postJSON(t, s.Handler(), "/analyze", `{"input": "https://example.com"}`)
	id, _ := decodeBody(t, rec)["analysis_id"].(string)

	req := httptest.NewRequest(http.MethodDelete, "/analyze/"+id, nil)
	del := httptest.NewRecorder()
	s.Handler().ServeHTTP(del, req)
	if del.Code != http.StatusOK {
		t.Fatalf("delete status = %d", del.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/analyze/"+id, nil)
	get := httptest.NewRecorder()
	s.Handler().ServeHTTP(get, req)
	if get.Code != http.StatusNotFound {
		t.Errorf("status after delete = %d, want 404", get.Code)
	}
}
