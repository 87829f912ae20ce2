package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/infrastructure-observatory/freshness/internal/store"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db, "test-version")
}

func doJSON(t *testing.T, srv *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	var decoded map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("%s %s: decode body %q: %v", method, path, w.Body.String(), err)
	}
	return w, decoded
}

func TestHealthEndpoint(t *testing.T) {
	srv := testServer(t)

	w, body := doJSON(t, srv, "GET", "/api/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
	if body["version"] != "test-version" {
		t.Errorf("version = %v, want test-version", body["version"])
	}
	if body["db"] != true {
		t.Errorf("db = %v, want true", body["db"])
	}
}

func TestPoliciesEndpoint(t *testing.T) {
	srv := testServer(t)

	w, body := doJSON(t, srv, "GET", "/api/policies", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body["count"] != float64(9) {
		t.Errorf("count = %v, want 9", body["count"])
	}
}

func TestCalculateEndpoint(t *testing.T) {
	srv := testServer(t)

	w, body := doJSON(t, srv, "POST", "/api/calculate",
		`{"confidence": 0.9, "timestamp": "2024-01-01", "topic": "ai_training", "reference": "2025-01-01"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", w.Code, body)
	}
	if body["current_confidence"] != 0.15 {
		t.Errorf("current_confidence = %v, want 0.15", body["current_confidence"])
	}
}

func TestCalculateEndpointErrors(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"bad json", `{nope`, http.StatusBadRequest},
		{"missing timestamp", `{"confidence": 0.9}`, http.StatusBadRequest},
		{"bad timestamp", `{"confidence": 0.9, "timestamp": "banana"}`, http.StatusBadRequest},
		{"bad confidence", `{"confidence": 1.5, "timestamp": "2024-01-01"}`, http.StatusBadRequest},
		{"unknown topic", `{"confidence": 0.9, "timestamp": "2024-01-01", "topic": "nope"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		w, body := doJSON(t, srv, "POST", "/api/calculate", tt.body)
		if w.Code != tt.want {
			t.Errorf("%s: status = %d, want %d (body %v)", tt.name, w.Code, tt.want, body)
		}
	}
}

func TestCheckEndpointPersistsReport(t *testing.T) {
	srv := testServer(t)

	w, body := doJSON(t, srv, "POST", "/api/check", `{
		"records": [
			{"confidence": 0.9, "timestamp": "2025-01-01"},
			{"confidence": 0.85, "timestamp": "2023-01-01"}
		],
		"topic": "ai_training",
		"threshold": 0.5,
		"reference": "2025-01-15"
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", w.Code, body)
	}

	report, ok := body["report"].(map[string]any)
	if !ok {
		t.Fatalf("missing report in body: %v", body)
	}
	if report["stale_entries"] != float64(1) {
		t.Errorf("stale_entries = %v, want 1", report["stale_entries"])
	}

	reportID, _ := body["report_id"].(string)
	if reportID == "" {
		t.Fatal("expected a persisted report_id")
	}

	// Round-trip through the history routes.
	w, row := doJSON(t, srv, "GET", "/api/reports/"+reportID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get report: status = %d", w.Code)
	}
	if row["topic"] != "ai_training" {
		t.Errorf("topic = %v", row["topic"])
	}

	w, list := doJSON(t, srv, "GET", "/api/reports", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list reports: status = %d", w.Code)
	}
	if list["count"] != float64(1) {
		t.Errorf("count = %v, want 1", list["count"])
	}
}

func TestCheckEndpointEmptyRecords(t *testing.T) {
	// An empty dataset is a valid check, not a client error.
	srv := testServer(t)

	w, body := doJSON(t, srv, "POST", "/api/check", `{"records": [], "topic": "news"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", w.Code, body)
	}

	report, ok := body["report"].(map[string]any)
	if !ok {
		t.Fatalf("missing report in body: %v", body)
	}
	if report["total_entries"] != float64(0) {
		t.Errorf("total_entries = %v, want 0", report["total_entries"])
	}
	if report["stale_entries"] != float64(0) {
		t.Errorf("stale_entries = %v, want 0", report["stale_entries"])
	}
}

func TestCheckEndpointUnknownTopic(t *testing.T) {
	srv := testServer(t)

	w, _ := doJSON(t, srv, "POST", "/api/check",
		`{"records": [{"timestamp": "2025-01-01"}], "topic": "nope"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestGetReportNotFound(t *testing.T) {
	srv := testServer(t)

	w, _ := doJSON(t, srv, "GET", "/api/reports/not-a-real-id", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
