package speakerid

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", WithRetry(0))
}

func TestCreateProfile(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/speaker/verification/profiles" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Api-Key") != "test-key" {
			t.Errorf("missing api key header")
		}
		var req struct {
			Locale string `json:"locale"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.Locale != "en-US" {
			t.Errorf("locale = %q, want en-US", req.Locale)
		}
		json.NewEncoder(w).Encode(Profile{ID: "p-123", Locale: req.Locale, EnrollmentStatus: StatusEnrolling})
	})

	p, err := c.CreateProfile(context.Background(), "")
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	if p.ID != "p-123" || p.EnrollmentStatus != StatusEnrolling {
		t.Errorf("profile = %+v", p)
	}
}

func TestEnrollAndVerify(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "audio/wav" {
			t.Errorf("content type = %q, want audio/wav", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if !bytes.Equal(body, []byte("RIFFfake")) {
			t.Errorf("body = %q", body)
		}
		switch {
		case strings.HasSuffix(r.URL.Path, "/enrollments"):
			json.NewEncoder(w).Encode(Enrollment{ProfileID: "p-1", EnrollmentStatus: StatusEnrolled, SpeechSeconds: 12})
		case strings.HasSuffix(r.URL.Path, "/verify"):
			json.NewEncoder(w).Encode(Verification{Recognized: true, Confidence: 0.91})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	e, err := c.Enroll(context.Background(), "p-1", strings.NewReader("RIFFfake"))
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if e.EnrollmentStatus != StatusEnrolled {
		t.Errorf("status = %q", e.EnrollmentStatus)
	}

	v, err := c.Verify(context.Background(), "p-1", strings.NewReader("RIFFfake"))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !v.Recognized || v.Confidence != 0.91 {
		t.Errorf("verification = %+v", v)
	}
}

func TestAPIErrorParsing(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":{"code":"InvalidAudio","message":"audio too short"}}`)
	})

	_, err := c.Verify(context.Background(), "p-1", strings.NewReader("x"))
	apiErr, ok := AsError(err)
	if !ok {
		t.Fatalf("want *Error, got %v", err)
	}
	if !apiErr.IsInvalidAudio() {
		t.Errorf("IsInvalidAudio = false for %+v", apiErr)
	}
	if apiErr.Retryable() {
		t.Error("bad request should not be retryable")
	}
}

func TestRetryOnServerError(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(Profile{ID: "p-9"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", WithRetry(2))
	p, err := c.CreateProfile(context.Background(), "en-US")
	if err != nil {
		t.Fatalf("CreateProfile after retry: %v", err)
	}
	if p.ID != "p-9" {
		t.Errorf("profile id = %q", p.ID)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestErrorClassification(t *testing.T) {
	e := &Error{HTTPStatus: http.StatusTooManyRequests}
	if !e.IsRateLimit() || !e.Retryable() {
		t.Error("429 must be retryable rate limit")
	}
	e = &Error{HTTPStatus: http.StatusNotFound}
	if !e.IsNotFound() || e.Retryable() {
		t.Error("404 must be non-retryable not-found")
	}
	e = &Error{HTTPStatus: http.StatusBadGateway}
	if !e.IsServerError() || !e.Retryable() {
		t.Error("502 must be retryable server error")
	}
}
