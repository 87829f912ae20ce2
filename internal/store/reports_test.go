package store

import (
	"testing"

	"github.com/infrastructure-observatory/freshness/internal/freshness"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleReport() freshness.Report {
	return freshness.Report{
		TotalEntries:      10,
		FreshEntries:      7,
		StaleEntries:      2,
		SkippedEntries:    1,
		StaleIndices:      []int{3, 8},
		AverageConfidence: 0.64,
		Threshold:         0.3,
		Topic:             "ai_training",
		PolicyName:        "AI training data",
	}
}

func TestSaveAndGetReport(t *testing.T) {
	db := testDB(t)

	id, err := db.SaveReport("training_data.json", sampleReport())
	if err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty report ID")
	}

	row, err := db.GetReport(id)
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if row == nil {
		t.Fatal("expected report row, got nil")
	}

	if row.Source != "training_data.json" {
		t.Errorf("source = %q", row.Source)
	}
	if row.Topic != "ai_training" {
		t.Errorf("topic = %q", row.Topic)
	}
	if row.StaleEntries != 2 || row.SkippedEntries != 1 {
		t.Errorf("stale = %d, skipped = %d", row.StaleEntries, row.SkippedEntries)
	}
	if len(row.StaleIndices) != 2 || row.StaleIndices[0] != 3 || row.StaleIndices[1] != 8 {
		t.Errorf("stale indices = %v, want [3 8]", row.StaleIndices)
	}
	if row.AverageConfidence != 0.64 {
		t.Errorf("avg = %v", row.AverageConfidence)
	}
	if row.CreatedAt == 0 {
		t.Error("expected created_at to be set")
	}
}

func TestGetReportNotFound(t *testing.T) {
	db := testDB(t)

	row, err := db.GetReport("no-such-id")
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if row != nil {
		t.Errorf("expected nil, got %+v", row)
	}
}

func TestListReports(t *testing.T) {
	db := testDB(t)

	for i := 0; i < 5; i++ {
		if _, err := db.SaveReport("memory", sampleReport()); err != nil {
			t.Fatalf("SaveReport: %v", err)
		}
	}

	rows, err := db.ListReports(3)
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("len = %d, want 3", len(rows))
	}

	all, err := db.ListReports(0) // default limit
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("len = %d, want 5", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].CreatedAt > all[i-1].CreatedAt {
			t.Error("reports not ordered newest first")
			break
		}
	}
}

func TestSchemaVersion(t *testing.T) {
	db := testDB(t)

	v, err := db.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if v != 1 {
		t.Errorf("SchemaVersion = %d, want 1", v)
	}
}
