package persistence

import (
	"math"
	"testing"
)

func TestVectorLiteralRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		vector []float32
	}{
		{name: "small vector", vector: []float32{0.1, -0.25, 3}},
		{name: "single element", vector: []float32{0.000001}},
		{name: "zeros", vector: []float32{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			literal := vectorLiteral(tt.vector)
			got, err := parseVector(literal)
			if err != nil {
				t.Fatalf("parseVector(%q): %v", literal, err)
			}
			if len(got) != len(tt.vector) {
				t.Fatalf("length = %d, want %d", len(got), len(tt.vector))
			}
			for i := range got {
				if math.Abs(float64(got[i]-tt.vector[i])) > 1e-6 {
					t.Errorf("element %d = %f, want %f", i, got[i], tt.vector[i])
				}
			}
		})
	}
}

func TestParseVectorEdgeCases(t *testing.T) {
	if got, err := parseVector("[]"); err != nil || got != nil {
		t.Errorf("parseVector empty = %v, %v; want nil, nil", got, err)
	}
	if _, err := parseVector("[1,notanumber]"); err == nil {
		t.Error("parseVector accepted malformed input")
	}
}
