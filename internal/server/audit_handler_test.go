package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAuditHandlerReturnsLoggedEntries(t *testing.T) {
	srv, _ := newTestServer(t)

	evalReq := httptest.NewRequest(http.MethodPost, "/evaluate", strings.NewReader(`{"name": "search", "args": {}}`))
	evalReq.Header.Set("Content-Type", "application/json")
	srv.echo.ServeHTTP(httptest.NewRecorder(), evalReq)

	req := httptest.NewRequest(http.MethodGet, "/audit", nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body["total"] != float64(1) {
		t.Errorf("expected total=1 after one evaluate call, got %v", body["total"])
	}
}

func TestAuditHandlerEmptyLogReturnsZeroTotal(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/audit", nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body["total"] != float64(0) {
		t.Errorf("expected total=0 for an empty log, got %v", body["total"])
	}
}
