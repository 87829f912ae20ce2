package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/infrastructure-observatory/freshness/internal/freshness"
	"github.com/infrastructure-observatory/freshness/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, freshness.ErrUnknownPolicy):
		status = http.StatusNotFound
	case freshness.IsRecordError(err):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// parseReference accepts an optional reference instant for replay
// scenarios; empty means "now".
func parseReference(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return freshness.ParseTimestamp(raw)
}

func (s *Server) handlePolicies(w http.ResponseWriter, r *http.Request) {
	type policyJSON struct {
		Topic        string  `json:"topic"`
		LambdaPerDay float64 `json:"lambda_per_day"`
		Floor        float64 `json:"floor"`
		Name         string  `json:"name"`
		Description  string  `json:"description"`
	}

	all := freshness.Policies()
	out := make([]policyJSON, len(all))
	for i, p := range all {
		out[i] = policyJSON{p.Topic, p.LambdaPerDay, p.Floor, p.Name, p.Description}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(out),
		"policies": out,
	})
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Confidence   *float64 `json:"confidence"`
		Timestamp    string   `json:"timestamp"`
		Topic        string   `json:"topic"`
		CustomLambda *float64 `json:"custom_lambda"`
		CustomFloor  *float64 `json:"custom_floor"`
		Reference    string   `json:"reference"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Timestamp == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "timestamp required"})
		return
	}

	confidence := freshness.DefaultConfidence
	if req.Confidence != nil {
		confidence = *req.Confidence
	}
	topic := req.Topic
	if topic == "" {
		topic = "ai_training"
	}

	ref, err := parseReference(req.Reference)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := freshness.CalculateAt(confidence, req.Timestamp, topic, freshness.CalcOpts{
		Reference:    ref,
		CustomLambda: req.CustomLambda,
		CustomFloor:  req.CustomFloor,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Records   []map[string]any `json:"records"`
		Topic     string           `json:"topic"`
		Threshold *float64         `json:"threshold"`
		Reference string           `json:"reference"`
		Source    string           `json:"source"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	topic := req.Topic
	if topic == "" {
		topic = "ai_training"
	}
	threshold := freshness.DefaultThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	ref, err := parseReference(req.Reference)
	if err != nil {
		writeError(w, err)
		return
	}

	report, err := freshness.BatchCheck(req.Records, topic, freshness.BatchOpts{
		Threshold: threshold,
		Reference: ref,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	reportID := ""
	if s.db != nil {
		source := req.Source
		if source == "" {
			source = "api"
		}
		id, err := s.db.SaveReport(source, report)
		if err != nil {
			log.Printf("save report: %v", err)
		} else {
			reportID = id
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"report_id": reportID,
		"report":    report,
	})
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no report store configured"})
		return
	}

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	rows, err := s.db.ListReports(limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(rows),
		"reports": reportRowsJSON(rows),
	})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no report store configured"})
		return
	}

	id := chi.URLParam(r, "reportID")
	row, err := s.db.GetReport(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if row == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "report not found"})
		return
	}

	writeJSON(w, http.StatusOK, reportRowJSON(*row))
}

type reportRowOut struct {
	ID                string  `json:"id"`
	Source            string  `json:"source"`
	Topic             string  `json:"topic"`
	Threshold         float64 `json:"threshold"`
	TotalEntries      int     `json:"total_entries"`
	FreshEntries      int     `json:"fresh_entries"`
	StaleEntries      int     `json:"stale_entries"`
	SkippedEntries    int     `json:"skipped_entries"`
	AverageConfidence float64 `json:"average_confidence"`
	StaleIndices      []int   `json:"stale_indices"`
	CreatedAt         int64   `json:"created_at"`
}

func reportRowJSON(r store.ReportRow) reportRowOut {
	return reportRowOut{
		ID:                r.ID,
		Source:            r.Source,
		Topic:             r.Topic,
		Threshold:         r.Threshold,
		TotalEntries:      r.TotalEntries,
		FreshEntries:      r.FreshEntries,
		StaleEntries:      r.StaleEntries,
		SkippedEntries:    r.SkippedEntries,
		AverageConfidence: r.AverageConfidence,
		StaleIndices:      r.StaleIndices,
		CreatedAt:         r.CreatedAt,
	}
}

func reportRowsJSON(rows []store.ReportRow) []reportRowOut {
	out := make([]reportRowOut, len(rows))
	for i, r := range rows {
		out[i] = reportRowJSON(r)
	}
	return out
}
