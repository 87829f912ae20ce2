package freshness

import (
	"fmt"
	"time"
)

// timestampFields is the fixed probe order for timestamp resolution.
// The first present field wins, parseable or not.
var timestampFields = []string{"timestamp", "created_at", "date", "captured_at", "updated_at"}

// timestampFormats is the ordered list of accepted string representations.
// Naive (zone-less) values are taken as UTC.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalized is a record reduced to the two values a calculation needs,
// plus the original payload for reporting.
type Normalized struct {
	InitialConfidence float64
	CapturedAt        time.Time
	// RawTimestamp is the timestamp value as it appeared in the record,
	// kept for alert output.
	RawTimestamp string
	Payload      map[string]any
}

// ParseTimestamp converts a raw timestamp value into a time.Time.
// Strings are tried against each accepted format in order; a time.Time
// passes through unchanged.
func ParseTimestamp(v any) (time.Time, error) {
	switch ts := v.(type) {
	case time.Time:
		return ts, nil
	case string:
		for _, layout := range timestampFormats {
			if t, err := time.ParseInLocation(layout, ts, time.UTC); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, ts)
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported value %v (%T)", ErrInvalidTimestamp, v, v)
	}
}

// Normalize extracts a capture instant and initial confidence from a
// generic record. The record itself is never mutated.
//
// Timestamp: first field present from the probe order, which must then
// parse (ErrMissingTimestamp when none present, ErrInvalidTimestamp when
// present but unparseable). Confidence: the "confidence" field when
// present, which must be numeric and in [0, 1] (ErrInvalidConfidence
// otherwise — out-of-range values are rejected, not clamped); absent
// means defaultConfidence.
func Normalize(rec map[string]any, defaultConfidence float64) (Normalized, error) {
	var rawTS any
	found := false
	for _, field := range timestampFields {
		if v, ok := rec[field]; ok {
			rawTS = v
			found = true
			break
		}
	}
	if !found {
		return Normalized{}, fmt.Errorf("%w: no field among %v", ErrMissingTimestamp, timestampFields)
	}

	capturedAt, err := ParseTimestamp(rawTS)
	if err != nil {
		return Normalized{}, err
	}

	confidence := defaultConfidence
	if v, ok := rec["confidence"]; ok {
		n, ok := asFloat(v)
		if !ok {
			return Normalized{}, fmt.Errorf("%w: confidence field %v (%T) is not numeric", ErrInvalidConfidence, v, v)
		}
		if n < 0 || n > 1 {
			return Normalized{}, fmt.Errorf("%w: confidence %v outside [0, 1]", ErrInvalidConfidence, n)
		}
		confidence = n
	}

	return Normalized{
		InitialConfidence: confidence,
		CapturedAt:        capturedAt,
		RawTimestamp:      fmt.Sprintf("%v", rawTS),
		Payload:           rec,
	}, nil
}

// asFloat accepts the numeric types a JSON decode or in-memory record
// plausibly carries.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
