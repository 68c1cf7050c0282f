package adviser

import (
	"testing"

	"github.com/matzehuels/adviser/pkg/errors"
)

func TestNewRunMode(t *testing.T) {
	tests := []struct {
		name       string
		rt         RecommendationType
		dt         DecisionType
		wantErr    bool
		wantAdvise bool
	}{
		{"neither", "", "", true, false},
		{"both", RecommendationLatest, DecisionAll, true, false},
		{"recommendation only", RecommendationLatest, "", false, true},
		{"decision only", "", DecisionRandom, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewRunMode(tt.rt, tt.dt)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewRunMode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeInvalidConfiguration) {
					t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidConfiguration)
				}
				return
			}
			if m.IsAdviser() != tt.wantAdvise {
				t.Errorf("IsAdviser() = %v, want %v", m.IsAdviser(), tt.wantAdvise)
			}
			if m.IsDependencyMonkey() == m.IsAdviser() {
				t.Error("IsAdviser() and IsDependencyMonkey() must be mutually exclusive")
			}
		})
	}
}

func TestParseRunMode(t *testing.T) {
	tests := []struct {
		name           string
		recommendation string
		decision       string
		want           string
		wantErr        bool
	}{
		{"latest", "latest", "", "adviser(latest)", false},
		{"random", "", "random", "dependency_monkey(random)", false},
		{"unknown recommendation", "newest", "", "", true},
		{"unknown decision", "", "some", "", true},
		{"both", "stable", "all", "", true},
		{"neither", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseRunMode(tt.recommendation, tt.decision)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRunMode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidConfiguration) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidConfiguration)
			}
			if got := m.String(); !tt.wantErr && got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunModeAccessors(t *testing.T) {
	m := Advise(RecommendationTesting)
	if rt, ok := m.RecommendationType(); !ok || rt != RecommendationTesting {
		t.Errorf("RecommendationType() = %q, %v", rt, ok)
	}
	if _, ok := m.DecisionType(); ok {
		t.Error("DecisionType() ok = true on advisory mode")
	}
	if m.Kind() != "adviser" {
		t.Errorf("Kind() = %q, want adviser", m.Kind())
	}

	m = DependencyMonkey(DecisionAll)
	if dt, ok := m.DecisionType(); !ok || dt != DecisionAll {
		t.Errorf("DecisionType() = %q, %v", dt, ok)
	}
	if m.Kind() != "dependency_monkey" {
		t.Errorf("Kind() = %q, want dependency_monkey", m.Kind())
	}

	var zero RunMode
	if zero.Validate() == nil {
		t.Error("zero RunMode should not validate")
	}
	if zero.IsAdviser() || zero.IsDependencyMonkey() {
		t.Error("zero RunMode should be neither kind")
	}
	if zero.Kind() != "" || zero.String() != "invalid" {
		t.Errorf("zero RunMode Kind() = %q, String() = %q", zero.Kind(), zero.String())
	}
}
