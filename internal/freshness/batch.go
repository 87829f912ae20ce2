package freshness

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultThreshold is the staleness cutoff used when a caller has no
// opinion of its own.
const DefaultThreshold = 0.3

// DefaultConfidence is assumed for records with no confidence field.
const DefaultConfidence = 1.0

// BatchOpts tunes a batch evaluation.
type BatchOpts struct {
	// Threshold marks entries stale when current confidence drops below
	// it. Callers wanting the conventional cutoff pass DefaultThreshold.
	Threshold float64

	// Reference is the "now" instant for every entry. Zero means
	// time.Now(), resolved once so the whole batch shares one clock.
	Reference time.Time
}

// Alert describes one stale entry.
type Alert struct {
	Index      int     `json:"index"`
	Timestamp  string  `json:"timestamp"`
	AgeDays    float64 `json:"age_days"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// Report aggregates a batch evaluation over an ordered record sequence.
type Report struct {
	TotalEntries      int     `json:"total_entries"`
	FreshEntries      int     `json:"fresh_entries"`
	StaleEntries      int     `json:"stale_entries"`
	SkippedEntries    int     `json:"skipped_entries"`
	StaleIndices      []int   `json:"stale_indices"`
	SkippedIndices    []int   `json:"skipped_indices,omitempty"`
	AverageConfidence float64 `json:"average_confidence"`
	MinConfidence     float64 `json:"min_confidence"`
	MaxConfidence     float64 `json:"max_confidence"`
	Alerts            []Alert `json:"alerts,omitempty"`
	Threshold         float64 `json:"threshold"`
	Topic             string  `json:"topic"`
	PolicyName        string  `json:"policy"`
	Summary           string  `json:"summary"`
}

// BatchCheck evaluates every record in input order against one topic
// policy and threshold.
//
// An unknown topic fails the whole batch up front — a bad topic affects
// every record identically. Individual records that fail normalization
// or calculation are skipped and counted, never aborting the pass; they
// are excluded from the average and from stale accounting.
func BatchCheck(records []map[string]any, topic string, opts BatchOpts) (Report, error) {
	policy, err := LookupPolicy(topic)
	if err != nil {
		return Report{}, err
	}

	ref := opts.Reference
	if ref.IsZero() {
		ref = time.Now()
	}

	report := Report{
		TotalEntries: len(records),
		StaleIndices: []int{},
		Threshold:    opts.Threshold,
		Topic:        topic,
		PolicyName:   policy.Name,
	}

	sum := 0.0
	valid := 0

	for i, rec := range records {
		norm, err := Normalize(rec, DefaultConfidence)
		if err != nil {
			report.SkippedEntries++
			report.SkippedIndices = append(report.SkippedIndices, i)
			continue
		}

		res, err := Calculate(norm.InitialConfidence, norm.CapturedAt, topic, CalcOpts{Reference: ref})
		if err != nil {
			// Only confidence range errors can surface here; the topic
			// was validated above.
			report.SkippedEntries++
			report.SkippedIndices = append(report.SkippedIndices, i)
			continue
		}

		sum += res.CurrentConfidence
		valid++
		if valid == 1 {
			report.MinConfidence = res.CurrentConfidence
			report.MaxConfidence = res.CurrentConfidence
		} else {
			if res.CurrentConfidence < report.MinConfidence {
				report.MinConfidence = res.CurrentConfidence
			}
			if res.CurrentConfidence > report.MaxConfidence {
				report.MaxConfidence = res.CurrentConfidence
			}
		}

		if res.StaleAt(opts.Threshold) {
			report.StaleEntries++
			report.StaleIndices = append(report.StaleIndices, i)
			report.Alerts = append(report.Alerts, Alert{
				Index:      i,
				Timestamp:  norm.RawTimestamp,
				AgeDays:    res.AgeDays,
				Confidence: res.CurrentConfidence,
				Reason:     fmt.Sprintf("confidence %.1f%% below threshold %.0f%%", res.CurrentConfidence*100, opts.Threshold*100),
			})
		} else {
			report.FreshEntries++
		}
	}

	if valid > 0 {
		report.AverageConfidence = sum / float64(valid)
	}
	report.Summary = buildSummary(report)

	return report, nil
}

// IsRecordError reports whether an error is one of the per-record kinds
// that batch evaluation tolerates by skipping the record.
func IsRecordError(err error) bool {
	return errors.Is(err, ErrMissingTimestamp) ||
		errors.Is(err, ErrInvalidTimestamp) ||
		errors.Is(err, ErrInvalidConfidence)
}

func buildSummary(r Report) string {
	total := r.TotalEntries
	denom := total
	if denom == 0 {
		denom = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Dataset: %d entries\n", total)
	fmt.Fprintf(&b, "Fresh entries: %d (%.1f%%)\n", r.FreshEntries, float64(r.FreshEntries)/float64(denom)*100)
	fmt.Fprintf(&b, "Stale entries: %d (%.1f%%)\n", r.StaleEntries, float64(r.StaleEntries)/float64(denom)*100)
	if r.SkippedEntries > 0 {
		fmt.Fprintf(&b, "Skipped (malformed): %d (%.1f%%)\n", r.SkippedEntries, float64(r.SkippedEntries)/float64(denom)*100)
	}
	fmt.Fprintf(&b, "Average confidence: %.1f%%\n", r.AverageConfidence*100)
	// No range to report when every record was skipped.
	if r.FreshEntries+r.StaleEntries > 0 {
		fmt.Fprintf(&b, "Confidence range: %.1f%% - %.1f%%\n", r.MinConfidence*100, r.MaxConfidence*100)
	}
	fmt.Fprintf(&b, "Decay policy: %s\n", r.PolicyName)
	fmt.Fprintf(&b, "Threshold: %.0f%%", r.Threshold*100)
	return b.String()
}
