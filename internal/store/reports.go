package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/infrastructure-observatory/freshness/internal/freshness"
)

// ReportRow is one persisted dataset check.
type ReportRow struct {
	ID                string
	Source            string // file path, "api", or "memory"
	Topic             string
	Threshold         float64
	TotalEntries      int
	FreshEntries      int
	StaleEntries      int
	SkippedEntries    int
	AverageConfidence float64
	StaleIndices      []int
	CreatedAt         int64 // unix millis
}

// SaveReport persists a batch report and returns its generated ID.
func (db *DB) SaveReport(source string, report freshness.Report) (string, error) {
	id := uuid.NewString()
	now := time.Now().UnixMilli()

	indices, err := json.Marshal(report.StaleIndices)
	if err != nil {
		return "", fmt.Errorf("marshal stale indices: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO reports (id, source, topic, threshold, total_entries, fresh_entries,
			stale_entries, skipped_entries, avg_confidence, stale_indices, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, source, report.Topic, report.Threshold, report.TotalEntries, report.FreshEntries,
		report.StaleEntries, report.SkippedEntries, report.AverageConfidence, string(indices), now)
	if err != nil {
		return "", fmt.Errorf("insert report: %w", err)
	}

	return id, nil
}

// GetReport returns a report by ID, or nil when not found.
func (db *DB) GetReport(id string) (*ReportRow, error) {
	row := db.QueryRow(`
		SELECT id, source, topic, threshold, total_entries, fresh_entries,
			stale_entries, skipped_entries, avg_confidence, stale_indices, created_at
		FROM reports WHERE id = ?
	`, id)

	r, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	return r, nil
}

// ListReports returns the most recent reports, newest first.
func (db *DB) ListReports(limit int) ([]ReportRow, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(`
		SELECT id, source, topic, threshold, total_entries, fresh_entries,
			stale_entries, skipped_entries, avg_confidence, stale_indices, created_at
		FROM reports ORDER BY created_at DESC, id LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []ReportRow
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(s rowScanner) (*ReportRow, error) {
	var r ReportRow
	var indices string
	err := s.Scan(&r.ID, &r.Source, &r.Topic, &r.Threshold, &r.TotalEntries, &r.FreshEntries,
		&r.StaleEntries, &r.SkippedEntries, &r.AverageConfidence, &indices, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(indices), &r.StaleIndices); err != nil {
		return nil, fmt.Errorf("unmarshal stale indices: %w", err)
	}
	return &r, nil
}
