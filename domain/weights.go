package domain

import (
	"fmt"
	"math"
	"sort"
)

// WeightSumTolerance is the allowed deviation of the weight sum from 1.0
const WeightSumTolerance = 1e-6

// WeightingPolicy maps module names to their relative contribution to
// the overall score. Immutable after construction; loaded once when the
// aggregation engine is built.
type WeightingPolicy struct {
	weights map[string]float64
}

// NewWeightingPolicy validates and constructs a weighting policy.
// All weights must be positive and the sum must be 1.0 within tolerance.
func NewWeightingPolicy(weights map[string]float64) (WeightingPolicy, error) {
	if len(weights) == 0 {
		return WeightingPolicy{}, NewConfigError("weighting policy has no modules", nil)
	}

	sum := 0.0
	for module, w := range weights {
		if w <= 0 {
			return WeightingPolicy{}, NewConfigError(
				fmt.Sprintf("weight for module %q must be > 0, got %g", module, w), nil)
		}
		sum += w
	}

	if math.Abs(sum-1.0) > WeightSumTolerance {
		return WeightingPolicy{}, NewConfigError(
			fmt.Sprintf("module weights must sum to 1.0, got %g", sum), nil)
	}

	copied := make(map[string]float64, len(weights))
	for module, w := range weights {
		copied[module] = w
	}
	return WeightingPolicy{weights: copied}, nil
}

// DefaultWeights returns the built-in module weighting
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		"links":         0.25,
		"formatting":    0.20,
		"accessibility": 0.25,
		"mobile":        0.15,
		"performance":   0.15,
	}
}

// DefaultWeightingPolicy returns the built-in policy
func DefaultWeightingPolicy() WeightingPolicy {
	policy, err := NewWeightingPolicy(DefaultWeights())
	if err != nil {
		// The default table is a compile-time constant; a failure here
		// is a programming error, not a runtime condition.
		panic(err)
	}
	return policy
}

// Weight returns the configured weight for a module and whether one exists
func (p WeightingPolicy) Weight(module string) (float64, bool) {
	w, ok := p.weights[module]
	return w, ok
}

// Modules returns the weighted module names in sorted order
func (p WeightingPolicy) Modules() []string {
	names := make([]string, 0, len(p.weights))
	for m := range p.weights {
		names = append(names, m)
	}
	sort.Strings(names)
	return names
}

// Effective returns the weights restricted to the modules that actually
// ran, re-normalized to sum to 1.0. Skipping a module must not bias the
// overall score toward zero, so the remaining weights are rescaled.
func (p WeightingPolicy) Effective(ran []string) map[string]float64 {
	sum := 0.0
	for _, m := range ran {
		if w, ok := p.weights[m]; ok {
			sum += w
		}
	}

	effective := make(map[string]float64, len(ran))
	if sum <= 0 {
		return effective
	}
	for _, m := range ran {
		if w, ok := p.weights[m]; ok {
			effective[m] = w / sum
		}
	}
	return effective
}
