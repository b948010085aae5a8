package rag

import (
	"math"
	"strconv"
	"strings"
	"testing"
)

func TestBuildSearchQueryThresholdAndOrdering(t *testing.T) {
	query := []float32{0.1, 0.2, 0.3}

	tests := []struct {
		name      string
		scope     Scope
		threshold float64
		wantArgs  int
	}{
		{
			name:      "emails scope",
			scope:     Scope{Kind: ScopeEmails, OwnerID: "owner-1"},
			threshold: 0.8,
			wantArgs:  5,
		},
		{
			name:      "emails without label scope",
			scope:     Scope{Kind: ScopeEmailsWithoutLabel, OwnerID: "owner-1", ExcludeLabelID: 42},
			threshold: 0.5,
			wantArgs:  6,
		},
		{
			name:      "documents scope",
			scope:     Scope{Kind: ScopeDocuments, OwnerID: "owner-1"},
			threshold: 0.8,
			wantArgs:  5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := buildSearchQuery(query, "text-embedding-3-small", tt.scope, 10, tt.threshold)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(args) != tt.wantArgs {
				t.Fatalf("args = %d, want %d", len(args), tt.wantArgs)
			}

			// similarity >= threshold means distance <= 1-threshold
			maxDistance, ok := args[3].(float64)
			if !ok {
				t.Fatalf("args[3] = %T, want float64", args[3])
			}
			if math.Abs(maxDistance-(1.0-tt.threshold)) > 1e-9 {
				t.Errorf("max distance = %f, want %f", maxDistance, 1.0-tt.threshold)
			}
			if !strings.Contains(sql, "<=> $1 <= $4") {
				t.Error("distance cut is not inclusive of the threshold")
			}

			if !strings.Contains(sql, "ORDER BY distance ASC") {
				t.Error("results are not ordered closest first")
			}
			if !strings.Contains(sql, "embedding_model = $3") {
				t.Error("query does not filter on the embedding model tag")
			}
		})
	}
}

func TestBuildSearchQueryLabelExclusion(t *testing.T) {
	scope := Scope{Kind: ScopeEmailsWithoutLabel, OwnerID: "owner-1", ExcludeLabelID: 7}

	sql, args, err := buildSearchQuery([]float32{0.5}, "text-embedding-3-small", scope, 5, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(sql, "NOT EXISTS") {
		t.Error("query does not exclude already-labeled emails")
	}
	if got := args[len(args)-1]; got != int64(7) {
		t.Errorf("exclude label arg = %v, want 7", got)
	}
}

func TestBuildSearchQueryRejectsBadInput(t *testing.T) {
	good := Scope{Kind: ScopeEmails, OwnerID: "owner-1"}

	if _, _, err := buildSearchQuery(nil, "model", good, 10, 0.5); err == nil {
		t.Error("empty query vector accepted")
	}
	if _, _, err := buildSearchQuery([]float32{0.1}, "", good, 10, 0.5); err == nil {
		t.Error("missing model tag accepted")
	}
	if _, _, err := buildSearchQuery([]float32{0.1}, "model", Scope{Kind: "threads"}, 10, 0.5); err == nil {
		t.Error("unknown scope accepted")
	}

	// limit defaults rather than erroring
	_, args, err := buildSearchQuery([]float32{0.1}, "model", good, 0, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if args[4] != 10 {
		t.Errorf("default limit = %v, want 10", args[4])
	}
}

func TestPgVectorRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   []float32
	}{
		{"single", []float32{0.5}},
		{"typical", []float32{0.1, -0.25, 0.333333, 1}},
		{"tiny values", []float32{0.000001, -0.000001}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			literal := pgVector(tt.in)

			if !strings.HasPrefix(literal, "[") || !strings.HasSuffix(literal, "]") {
				t.Fatalf("literal %q is not bracketed", literal)
			}

			parts := strings.Split(literal[1:len(literal)-1], ",")
			if len(parts) != len(tt.in) {
				t.Fatalf("literal holds %d components, want %d", len(parts), len(tt.in))
			}
			for i, p := range parts {
				f, err := strconv.ParseFloat(p, 32)
				if err != nil {
					t.Fatalf("component %d %q: %v", i, p, err)
				}
				if math.Abs(f-float64(tt.in[i])) > 1e-5 {
					t.Errorf("component %d = %f, want %f", i, f, tt.in[i])
				}
			}
		})
	}

	if got := pgVector(nil); got != "[0]" {
		t.Errorf("empty vector literal = %q, want [0]", got)
	}
}
