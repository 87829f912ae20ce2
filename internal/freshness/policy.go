package freshness

import (
	"fmt"
	"math"
)

// Policy defines how confidence in a topic's data decays with age.
type Policy struct {
	Topic        string  // catalog key, e.g. "news", "medical"
	LambdaPerDay float64 // exponential decay rate, per day
	Floor        float64 // minimum confidence the curve can reach
	Name         string  // human label
	Description  string
}

// HalfLife returns the age in days at which confidence reaches half its
// initial value, ignoring the floor. Infinite when the policy never decays.
func (p Policy) HalfLife() float64 {
	if p.LambdaPerDay <= 0 {
		return math.Inf(1)
	}
	return math.Ln2 / p.LambdaPerDay
}

// catalog is the fixed policy table, ordered fastest to slowest decay.
// Built once at init and never mutated; safe for concurrent reads.
var catalog = []Policy{
	{Topic: "social_media", LambdaPerDay: 0.15, Floor: 0.02, Name: "Social media content", Description: "Social media trends change extremely fast"},
	{Topic: "news", LambdaPerDay: 0.10, Floor: 0.05, Name: "Fast decay (news)", Description: "News and current events become stale quickly"},
	{Topic: "financial", LambdaPerDay: 0.08, Floor: 0.10, Name: "Financial data", Description: "Market data and financial info changes quickly"},
	{Topic: "ai_training", LambdaPerDay: 0.02, Floor: 0.15, Name: "AI training data", Description: "AI/ML best practices evolve rapidly"},
	{Topic: "medical", LambdaPerDay: 0.015, Floor: 0.25, Name: "Medical guidelines", Description: "Medical knowledge updates regularly"},
	{Topic: "code", LambdaPerDay: 0.005, Floor: 0.20, Name: "Medium decay (code)", Description: "Code examples and APIs evolve moderately"},
	{Topic: "science", LambdaPerDay: 0.002, Floor: 0.30, Name: "Slow decay (science)", Description: "Scientific facts change slowly"},
	{Topic: "legal", LambdaPerDay: 0.001, Floor: 0.40, Name: "Very slow decay (legal)", Description: "Legal precedents are highly stable"},
	{Topic: "history", LambdaPerDay: 0.0, Floor: 1.00, Name: "No decay (history)", Description: "Historical facts don't change"},
}

var catalogByTopic = func() map[string]Policy {
	m := make(map[string]Policy, len(catalog))
	for _, p := range catalog {
		m[p.Topic] = p
	}
	return m
}()

// LookupPolicy returns the catalog entry for a topic.
// Topic matching is exact on the lowercase key.
func LookupPolicy(topic string) (Policy, error) {
	p, ok := catalogByTopic[topic]
	if !ok {
		return Policy{}, fmt.Errorf("%w: %q", ErrUnknownPolicy, topic)
	}
	return p, nil
}

// Policies returns all catalog entries ordered fastest to slowest decay.
func Policies() []Policy {
	out := make([]Policy, len(catalog))
	copy(out, catalog)
	return out
}
