package domain

import (
	"math"
	"testing"
)

func TestNewWeightingPolicy(t *testing.T) {
	tests := []struct {
		name    string
		weights map[string]float64
		wantErr bool
	}{
		{
			name:    "default weights",
			weights: DefaultWeights(),
			wantErr: false,
		},
		{
			name:    "sum within tolerance",
			weights: map[string]float64{"a": 0.5, "b": 0.5000001},
			wantErr: false,
		},
		{
			name:    "empty",
			weights: map[string]float64{},
			wantErr: true,
		},
		{
			name:    "sum too low",
			weights: map[string]float64{"a": 0.4, "b": 0.4},
			wantErr: true,
		},
		{
			name:    "sum too high",
			weights: map[string]float64{"a": 0.6, "b": 0.6},
			wantErr: true,
		},
		{
			name:    "zero weight",
			weights: map[string]float64{"a": 0, "b": 1.0},
			wantErr: true,
		},
		{
			name:    "negative weight",
			weights: map[string]float64{"a": -0.5, "b": 1.5},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWeightingPolicy(tt.weights)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				} else if !IsConfigError(err) {
					t.Errorf("Expected config error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestWeightingPolicy_Effective(t *testing.T) {
	policy := DefaultWeightingPolicy()

	t.Run("all modules ran", func(t *testing.T) {
		effective := policy.Effective(policy.Modules())
		sum := 0.0
		for _, w := range effective {
			sum += w
		}
		if math.Abs(sum-1.0) > WeightSumTolerance {
			t.Errorf("Effective weights should sum to 1.0, got %g", sum)
		}
		if w := effective["links"]; math.Abs(w-0.25) > WeightSumTolerance {
			t.Errorf("Full run should keep configured weights, links = %g", w)
		}
	})

	t.Run("subset renormalizes", func(t *testing.T) {
		effective := policy.Effective([]string{"links", "formatting"})
		sum := 0.0
		for _, w := range effective {
			sum += w
		}
		if math.Abs(sum-1.0) > WeightSumTolerance {
			t.Errorf("Effective weights should sum to 1.0, got %g", sum)
		}
		// 0.25 / (0.25 + 0.20)
		if w := effective["links"]; math.Abs(w-0.25/0.45) > WeightSumTolerance {
			t.Errorf("links should renormalize to %g, got %g", 0.25/0.45, w)
		}
	})

	t.Run("unknown modules ignored", func(t *testing.T) {
		effective := policy.Effective([]string{"links", "spelling"})
		if _, ok := effective["spelling"]; ok {
			t.Error("Unconfigured module should not receive a weight")
		}
		if w := effective["links"]; math.Abs(w-1.0) > WeightSumTolerance {
			t.Errorf("Sole configured module should carry full weight, got %g", w)
		}
	})

	t.Run("no configured modules ran", func(t *testing.T) {
		effective := policy.Effective([]string{"spelling"})
		if len(effective) != 0 {
			t.Errorf("Expected empty effective weights, got %v", effective)
		}
	})
}

func TestWeightingPolicy_Modules(t *testing.T) {
	policy := DefaultWeightingPolicy()
	modules := policy.Modules()

	expected := []string{"accessibility", "formatting", "links", "mobile", "performance"}
	if len(modules) != len(expected) {
		t.Fatalf("Expected %d modules, got %d", len(expected), len(modules))
	}
	for i, name := range expected {
		if modules[i] != name {
			t.Errorf("Expected module %d to be %s, got %s", i, name, modules[i])
		}
	}
}

func TestSeverityPenalty(t *testing.T) {
	findings := []Finding{
		{Severity: SeverityCritical},
		{Severity: SeverityMajor},
		{Severity: SeverityMajor},
		{Severity: SeverityMinor},
	}

	// 100 - 10 - 3 - 3 - 1
	if score := SeverityPenalty(findings, 10, 3, 1); score != 83 {
		t.Errorf("Expected score 83, got %g", score)
	}

	// Heavy penalties clamp at zero
	many := make([]Finding, 20)
	for i := range many {
		many[i] = Finding{Severity: SeverityCritical}
	}
	if score := SeverityPenalty(many, 15, 5, 1); score != 0 {
		t.Errorf("Expected clamped score 0, got %g", score)
	}

	if score := SeverityPenalty(nil, 10, 3, 1); score != 100 {
		t.Errorf("Expected perfect score for no findings, got %g", score)
	}
}
