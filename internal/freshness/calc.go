package freshness

import (
	"fmt"
	"math"
	"time"
)

// hoursPerDay converts a time.Duration age into fractional days.
const hoursPerDay = 24.0

// CalcOpts tunes a single freshness calculation.
type CalcOpts struct {
	// Reference is the "now" instant ages are measured against.
	// Zero means time.Now().
	Reference time.Time

	// CustomLambda and CustomFloor override the catalog values when set.
	// Supplying both bypasses the catalog entirely; supplying one keeps
	// the catalog value for the other.
	CustomLambda *float64
	CustomFloor  *float64
}

// Result is the outcome of one freshness calculation.
type Result struct {
	CurrentConfidence float64 `json:"current_confidence"`
	AgeDays           float64 `json:"age_days"`
	Topic             string  `json:"topic"`
	LambdaPerDay      float64 `json:"lambda_per_day"`
	Floor             float64 `json:"floor"`
}

// StaleAt reports whether the decayed confidence falls below a threshold.
func (r Result) StaleAt(threshold float64) bool {
	return r.CurrentConfidence < threshold
}

// Calculate applies exponential decay to an initial confidence:
//
//	C(t) = max(floor, C0 × e^(−λ × age_days))
//
// A capture instant later than the reference clamps age to zero rather
// than failing, tolerating clock skew in replay scenarios. With both
// custom overrides set the topic is never looked up, so any topic string
// is accepted.
func Calculate(initial float64, capturedAt time.Time, topic string, opts CalcOpts) (Result, error) {
	if initial < 0 || initial > 1 {
		return Result{}, fmt.Errorf("%w: initial confidence %v outside [0, 1]", ErrInvalidConfidence, initial)
	}

	lambda, floor, err := resolveParams(topic, opts)
	if err != nil {
		return Result{}, err
	}

	ref := opts.Reference
	if ref.IsZero() {
		ref = time.Now()
	}

	ageDays := ref.Sub(capturedAt).Hours() / hoursPerDay
	if ageDays < 0 {
		ageDays = 0
	}

	raw := initial * math.Exp(-lambda*ageDays)
	current := math.Max(floor, math.Min(1.0, raw))

	return Result{
		CurrentConfidence: current,
		AgeDays:           ageDays,
		Topic:             topic,
		LambdaPerDay:      lambda,
		Floor:             floor,
	}, nil
}

// CalculateAt is Calculate with a raw timestamp value (string or time.Time)
// instead of a parsed instant.
func CalculateAt(initial float64, timestamp any, topic string, opts CalcOpts) (Result, error) {
	capturedAt, err := ParseTimestamp(timestamp)
	if err != nil {
		return Result{}, err
	}
	return Calculate(initial, capturedAt, topic, opts)
}

// resolveParams picks the decay rate and floor: custom overrides when set,
// catalog values otherwise. The catalog is only consulted for parameters
// the caller did not override.
func resolveParams(topic string, opts CalcOpts) (lambda, floor float64, err error) {
	if opts.CustomLambda != nil && opts.CustomFloor != nil {
		return *opts.CustomLambda, *opts.CustomFloor, nil
	}

	policy, err := LookupPolicy(topic)
	if err != nil {
		return 0, 0, err
	}

	lambda = policy.LambdaPerDay
	floor = policy.Floor
	if opts.CustomLambda != nil {
		lambda = *opts.CustomLambda
	}
	if opts.CustomFloor != nil {
		floor = *opts.CustomFloor
	}
	return lambda, floor, nil
}
