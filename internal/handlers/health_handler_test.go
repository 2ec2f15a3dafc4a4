package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hireloop/interview/internal/config"
	"hireloop/interview/internal/prompts"
)

type fakeProvider struct{}

func (fakeProvider) GenerateContent(_ context.Context, _ string) (string, error) {
	return "", nil
}

func (fakeProvider) GetProviderName() string {
	return "fake"
}

func TestHealthzHandler(t *testing.T) {
	handler := NewHealthHandler(nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	recorder := httptest.NewRecorder()
	handler.HealthzHandler(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["status"] != "ok" || body["service"] != "interview" {
		t.Fatalf("unexpected health body: %+v", body)
	}
}

func TestReadyzNotReadyWithoutProvider(t *testing.T) {
	handler := NewHealthHandler(nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	recorder := httptest.NewRecorder()
	handler.ReadyzHandler(recorder, req)

	if recorder.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", recorder.Code)
	}
	var body ReadinessResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Status != "not_ready" {
		t.Fatalf("expected not_ready, got %s", body.Status)
	}
	if body.Checks["provider"].Status != "failed" {
		t.Fatalf("expected provider check to fail, got %+v", body.Checks)
	}
}

func TestReadyzReadyWithDependencies(t *testing.T) {
	manager, err := prompts.NewManager()
	if err != nil {
		t.Fatalf("failed to load prompts: %v", err)
	}
	handler := NewHealthHandler(fakeProvider{}, manager, &config.Config{})

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	recorder := httptest.NewRecorder()
	handler.ReadyzHandler(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
}
