package freshness

import "errors"

// Sentinel errors for the core. Callers match with errors.Is — specific
// context (topic name, field value) is added via %w wrapping at the
// failure site.
var (
	// ErrUnknownPolicy means the topic has no catalog entry and no full
	// custom override was supplied.
	ErrUnknownPolicy = errors.New("unknown decay policy")

	// ErrInvalidConfidence means a confidence value fell outside [0, 1]
	// or a record's confidence field was not numeric.
	ErrInvalidConfidence = errors.New("invalid confidence")

	// ErrMissingTimestamp means none of the recognized timestamp fields
	// were present on a record.
	ErrMissingTimestamp = errors.New("missing timestamp")

	// ErrInvalidTimestamp means a timestamp value was present but could
	// not be parsed with any accepted format.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)
