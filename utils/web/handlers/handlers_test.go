package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandshakeHandler(t *testing.T) {
	recorder := httptest.NewRecorder()
	HandshakeHandler("hola")(recorder, httptest.NewRequest("GET", "/", nil))

	var message string
	if err := json.NewDecoder(recorder.Body).Decode(&message); err != nil || message != "hola" {
		t.Errorf("Expected \"hola\", got %q (%v)", message, err)
	}
	if recorder.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Unexpected content type %q", recorder.Header().Get("Content-Type"))
	}
}

func TestHealthHandler(t *testing.T) {
	var failure error
	handler := HealthHandler("ok", func() error { return failure })

	recorder := httptest.NewRecorder()
	handler(recorder, httptest.NewRequest("GET", "/", nil))
	if recorder.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", recorder.Code)
	}

	failure = errors.New("memoria detenida")
	recorder = httptest.NewRecorder()
	handler(recorder, httptest.NewRequest("GET", "/", nil))
	if recorder.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", recorder.Code)
	}
}
