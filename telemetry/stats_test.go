package telemetry

import (
	"math"
	"testing"
)

func TestComputeDistribution(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	d := ComputeDistribution(values)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"mean", d.Mean, 5.5},
		{"std", d.Std, 3.02765},
		{"p10", d.P10, 1},
		{"p50", d.P50, 5},
		{"p90", d.P90, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got-tt.want) > 0.001 {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestComputeDistributionDoesNotReorderInput(t *testing.T) {
	values := []float64{3, 1, 2}
	ComputeDistribution(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input reordered: %v", values)
	}
}

func TestComputeDistributionEdges(t *testing.T) {
	if d := ComputeDistribution(nil); d != (Distribution{}) {
		t.Errorf("empty sample = %+v, want zeros", d)
	}

	d := ComputeDistribution([]float64{42})
	if d.Mean != 42 || d.Std != 0 || d.P50 != 42 {
		t.Errorf("single sample = %+v", d)
	}
}

func TestRange(t *testing.T) {
	lo, mean, hi := Range([]float64{0.2, 0.8, 0.5})
	if lo != 0.2 || hi != 0.8 || math.Abs(mean-0.5) > 1e-9 {
		t.Errorf("Range = %v %v %v", lo, mean, hi)
	}

	lo, mean, hi = Range(nil)
	if lo != 0 || mean != 0 || hi != 0 {
		t.Error("empty range should be zeros")
	}
}
