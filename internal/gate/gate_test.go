package gate

import (
	"strings"
	"testing"
)

func TestRangeBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		r       Range
		length  int
		enabled bool
	}{
		{"below min", Range{4, 50}, 3, false},
		{"at min is inclusive", Range{4, 50}, 4, true},
		{"inside", Range{4, 50}, 20, true},
		{"just below max", Range{4, 50}, 49, true},
		{"at max is exclusive", Range{4, 50}, 50, false},
		{"above max", Range{4, 50}, 51, false},
		{"empty", Range{4, 50}, 0, false},
		{"variant min 5 at 4", Range{5, 50}, 4, false},
		{"variant min 5 at 5", Range{5, 50}, 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := strings.Repeat("a", tt.length)
			got := tt.r.Evaluate(text)
			if got.Enabled != tt.enabled {
				t.Errorf("Evaluate(len=%d) enabled = %v, want %v", tt.length, got.Enabled, tt.enabled)
			}
			if got.Length != tt.length {
				t.Errorf("Length = %d, want %d", got.Length, tt.length)
			}
			wantStyle := StyleDisabled
			if tt.enabled {
				wantStyle = StyleEnabled
			}
			if got.Style != wantStyle {
				t.Errorf("Style = %v, want %v", got.Style, wantStyle)
			}
		})
	}
}

func TestEvaluateCountsRunes(t *testing.T) {
	r := Range{Min: 4, Max: 50}
	if st := r.Evaluate("héllo"); st.Length != 5 || !st.Enabled {
		t.Errorf("Evaluate(héllo) = %+v", st)
	}
	if st := r.Evaluate("日本語"); st.Length != 3 || st.Enabled {
		t.Errorf("Evaluate(日本語) = %+v", st)
	}
}

func TestEvaluateBoundaryTexts(t *testing.T) {
	if !(Range{Min: 5, Max: 50}).Evaluate("hello").Enabled {
		t.Error("hello with min=5 must be enabled")
	}
	if (Range{Min: 4, Max: 50}).Evaluate("ab").Enabled {
		t.Error("ab with min=4 must stay disabled")
	}
}

func TestNewRangeValidates(t *testing.T) {
	if _, err := NewRange(-1, 10); err == nil {
		t.Error("expected error for negative min")
	}
	if _, err := NewRange(10, 10); err == nil {
		t.Error("expected error for empty range")
	}
	r, err := NewRange(4, 50)
	if err != nil {
		t.Fatalf("NewRange(4, 50): %v", err)
	}
	if r.String() != "[4, 50)" {
		t.Errorf("String() = %q", r.String())
	}
}
