package pipeline

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/matzehuels/adviser/pkg/adviser"
	"github.com/matzehuels/adviser/pkg/errors"
	"github.com/matzehuels/adviser/pkg/observability"
)

// scriptedUnit answers ShouldInclude from a script indexed by call number.
type scriptedUnit struct {
	name     string
	stage    Stage
	defaults Parameters
	decide   func(call int, v View) (Parameters, bool)
	calls    int
}

func (u *scriptedUnit) Name() string                     { return u.name }
func (u *scriptedUnit) Stage() Stage                     { return u.stage }
func (u *scriptedUnit) DefaultConfiguration() Parameters { return u.defaults }

func (u *scriptedUnit) ShouldInclude(v View) (Parameters, bool) {
	u.calls++
	if u.decide == nil {
		return nil, false
	}
	return u.decide(u.calls, v)
}

// onCall includes the unit with params on the given call only.
func onCall(n int, params Parameters) func(int, View) (Parameters, bool) {
	return func(call int, _ View) (Parameters, bool) {
		if call == n {
			return params, true
		}
		return nil, false
	}
}

type fixture struct {
	units   map[string]*scriptedUnit
	catalog *Catalog
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	units := []*scriptedUnit{
		{name: "Boot1", stage: StageBoot, decide: onCall(1, Parameters{"some_parameter": 1.0})},
		{name: "Boot2", stage: StageBoot},
		{name: "Sieve1", stage: StageSieve},
		{name: "Sieve2", stage: StageSieve, defaults: Parameters{"date": "2015-09-15"}, decide: onCall(1, Parameters{"foo": "bar"})},
		{name: "Step1", stage: StageStep, defaults: Parameters{"guido_retirement": 2019}, decide: onCall(1, Parameters{})},
		{name: "Step2", stage: StageStep},
		{name: "Stride1", stage: StageStride, decide: onCall(2, Parameters{"linus": "torvalds"})},
		{name: "Stride2", stage: StageStride, defaults: Parameters{"foo": nil}, decide: onCall(1, Parameters{})},
		{name: "Wrap1", stage: StageWrap},
		{name: "Wrap2", stage: StageWrap, decide: onCall(1, Parameters{})},
	}

	f := &fixture{units: make(map[string]*scriptedUnit), catalog: &Catalog{}}
	for _, u := range units {
		f.units[u.name] = u
		if err := f.catalog.Register(u); err != nil {
			t.Fatalf("Register(%s) error = %v", u.name, err)
		}
	}
	return f
}

type recordingHooks struct {
	observability.NoopBuilderHooks
	passes   []int
	included []string
	done     int
	err      error
}

func (h *recordingHooks) OnUnitIncluded(_ context.Context, stage, unit string, pass int) {
	h.included = append(h.included, fmt.Sprintf("%d:%s:%s", pass, stage, unit))
}

func (h *recordingHooks) OnPassComplete(_ context.Context, pass, _ int) {
	h.passes = append(h.passes, pass)
}

func (h *recordingHooks) OnBuildComplete(_ context.Context, passes, _ int, _ time.Duration, err error) {
	h.done = passes
	h.err = err
}

func TestBuildConvergence(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetBuilderHooks(hooks)
	defer observability.Reset()

	f := newFixture(t)
	cfg, err := NewBuilder(f.catalog, Options{}).AdviserConfiguration(context.Background(), adviser.RecommendationLatest)
	if err != nil {
		t.Fatalf("AdviserConfiguration() error = %v", err)
	}

	want := map[Stage][]UnitEntry{
		StageBoot:  {{Name: "Boot1", Configuration: Parameters{"some_parameter": 1.0}}},
		StageSieve: {{Name: "Sieve2", Configuration: Parameters{"date": "2015-09-15", "foo": "bar"}}},
		StageStep:  {{Name: "Step1", Configuration: Parameters{"guido_retirement": 2019}}},
		StageStride: {
			{Name: "Stride2", Configuration: Parameters{"foo": nil}},
			{Name: "Stride1", Configuration: Parameters{"linus": "torvalds"}},
		},
		StageWrap: {{Name: "Wrap2", Configuration: Parameters{}}},
	}
	for _, s := range Stages {
		if got := cfg.Units(s); !reflect.DeepEqual(got, want[s]) {
			t.Errorf("%s = %v, want %v", s.Key(), got, want[s])
		}
	}

	if !slices.Equal(hooks.passes, []int{1, 2, 3}) {
		t.Errorf("passes = %v, want [1 2 3]", hooks.passes)
	}
	if hooks.done != 3 || hooks.err != nil {
		t.Errorf("OnBuildComplete(passes=%d, err=%v), want (3, nil)", hooks.done, hooks.err)
	}
	wantIncluded := []string{
		"1:boot:Boot1", "1:sieve:Sieve2", "1:step:Step1", "1:stride:Stride2", "1:wrap:Wrap2",
		"2:stride:Stride1",
	}
	if !slices.Equal(hooks.included, wantIncluded) {
		t.Errorf("included = %v, want %v", hooks.included, wantIncluded)
	}

	calls := map[string]int{
		"Boot1": 1, "Sieve2": 1, "Step1": 1, "Stride2": 1, "Wrap2": 1,
		"Stride1": 2,
		"Boot2":   3, "Sieve1": 3, "Step2": 3, "Wrap1": 3,
	}
	for name, want := range calls {
		if got := f.units[name].calls; got != want {
			t.Errorf("%s queried %d times, want %d", name, got, want)
		}
	}
}

func TestBuildOmitsUnselectedUnits(t *testing.T) {
	f := newFixture(t)
	cfg, err := NewBuilder(f.catalog, Options{}).AdviserConfiguration(context.Background(), adviser.RecommendationStable)
	if err != nil {
		t.Fatalf("AdviserConfiguration() error = %v", err)
	}
	for _, name := range []string{"Boot2", "Sieve1", "Step2", "Wrap1"} {
		if slices.Contains(cfg.Names(), name) {
			t.Errorf("configuration contains never-selected unit %s", name)
		}
	}
	if cfg.Len() != 6 {
		t.Errorf("Len() = %d, want 6", cfg.Len())
	}
}

func TestBuildSeesInclusionsOfSamePass(t *testing.T) {
	// Sieve depends on a boot included earlier in the same pass; Boot
	// depends on a wrap only included at the end of the first pass.
	c := &Catalog{}
	c.MustRegister(
		&scriptedUnit{name: "LateBoot", stage: StageBoot, decide: func(_ int, v View) (Parameters, bool) {
			return Parameters{}, v.IsIncluded("Wrap")
		}},
		&scriptedUnit{name: "Boot", stage: StageBoot, decide: onCall(1, nil)},
		&scriptedUnit{name: "Sieve", stage: StageSieve, decide: func(_ int, v View) (Parameters, bool) {
			return nil, v.IsIncluded("Boot")
		}},
		&scriptedUnit{name: "Wrap", stage: StageWrap, decide: onCall(1, nil)},
	)

	hooks := &recordingHooks{}
	observability.SetBuilderHooks(hooks)
	defer observability.Reset()

	cfg, err := NewBuilder(c, Options{}).DependencyMonkeyConfiguration(context.Background(), adviser.DecisionAll)
	if err != nil {
		t.Fatalf("DependencyMonkeyConfiguration() error = %v", err)
	}
	if got, want := cfg.Names(), []string{"Boot", "LateBoot", "Sieve", "Wrap"}; !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	want := []string{"1:boot:Boot", "1:sieve:Sieve", "1:wrap:Wrap", "2:boot:LateBoot"}
	if !slices.Equal(hooks.included, want) {
		t.Errorf("included = %v, want %v", hooks.included, want)
	}
	// Every candidate is included after pass two, so no empty pass is needed.
	if hooks.done != 2 {
		t.Errorf("passes = %d, want 2", hooks.done)
	}
}

func TestBuildModeVisibleToUnits(t *testing.T) {
	c := &Catalog{}
	c.MustRegister(
		&scriptedUnit{name: "AdviserOnly", stage: StageStep, decide: func(_ int, v View) (Parameters, bool) {
			return nil, v.IsAdviserPipeline()
		}},
		&scriptedUnit{name: "MonkeyOnly", stage: StageStep, decide: func(_ int, v View) (Parameters, bool) {
			return nil, v.IsDependencyMonkeyPipeline()
		}},
		&scriptedUnit{name: "RandomOnly", stage: StageWrap, decide: func(_ int, v View) (Parameters, bool) {
			dt, ok := v.Mode().DecisionType()
			return Parameters{"decision": string(dt)}, ok && dt == adviser.DecisionRandom
		}},
	)
	b := NewBuilder(c, Options{})

	tests := []struct {
		mode adviser.RunMode
		want []string
	}{
		{adviser.Advise(adviser.RecommendationTesting), []string{"AdviserOnly"}},
		{adviser.DependencyMonkey(adviser.DecisionAll), []string{"MonkeyOnly"}},
		{adviser.DependencyMonkey(adviser.DecisionRandom), []string{"MonkeyOnly", "RandomOnly"}},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			cfg, err := b.Build(context.Background(), tt.mode)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if got := cfg.Names(); !slices.Equal(got, tt.want) {
				t.Errorf("Names() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildInvalidMode(t *testing.T) {
	f := newFixture(t)
	_, err := NewBuilder(f.catalog, Options{}).Build(context.Background(), adviser.RunMode{})
	if !errors.Is(err, errors.ErrCodeInvalidConfiguration) {
		t.Fatalf("Build() error = %v, want %s", err, errors.ErrCodeInvalidConfiguration)
	}
	for name, u := range f.units {
		if u.calls != 0 {
			t.Errorf("%s queried %d times before mode validation", name, u.calls)
		}
	}
}

// chain returns n boot units where unit i is selected once unit i+1 is, so
// the catalog needs n passes to settle.
func chain(n int) *Catalog {
	c := &Catalog{}
	for i := 1; i <= n; i++ {
		next := fmt.Sprintf("U%d", i+1)
		last := i == n
		c.MustRegister(&scriptedUnit{name: fmt.Sprintf("U%d", i), stage: StageBoot, decide: func(_ int, v View) (Parameters, bool) {
			return nil, last || v.IsIncluded(next)
		}})
	}
	return c
}

func TestBuildPassCap(t *testing.T) {
	t.Run("unsettled", func(t *testing.T) {
		_, err := NewBuilder(chain(5), Options{MaxPasses: 3}).AdviserConfiguration(context.Background(), adviser.RecommendationLatest)
		if !errors.Is(err, errors.ErrCodeInvalidConfiguration) {
			t.Fatalf("error = %v, want %s", err, errors.ErrCodeInvalidConfiguration)
		}
	})

	t.Run("settled", func(t *testing.T) {
		cfg, err := NewBuilder(chain(5), Options{}).AdviserConfiguration(context.Background(), adviser.RecommendationLatest)
		if err != nil {
			t.Fatalf("AdviserConfiguration() error = %v", err)
		}
		if got, want := cfg.Names(), []string{"U5", "U4", "U3", "U2", "U1"}; !slices.Equal(got, want) {
			t.Errorf("Names() = %v, want %v", got, want)
		}
	})

	t.Run("minimum", func(t *testing.T) {
		// Three passes are always honored, even when a lower cap is requested.
		_, err := NewBuilder(chain(3), Options{MaxPasses: 1}).AdviserConfiguration(context.Background(), adviser.RecommendationLatest)
		if err != nil {
			t.Errorf("AdviserConfiguration() error = %v", err)
		}
	})
}

func TestBuildInvalidParameters(t *testing.T) {
	c := &Catalog{}
	c.MustRegister(&scriptedUnit{name: "Nested", stage: StageStep, decide: onCall(1, Parameters{"nested": map[string]any{"a": 1}})})

	_, err := NewBuilder(c, Options{}).AdviserConfiguration(context.Background(), adviser.RecommendationLatest)
	if !errors.Is(err, errors.ErrCodeInvalidConfiguration) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidConfiguration)
	}
}

func TestBuildEmptyCatalog(t *testing.T) {
	cfg, err := NewBuilder(nil, Options{}).AdviserConfiguration(context.Background(), adviser.RecommendationLatest)
	if err != nil {
		t.Fatalf("AdviserConfiguration() error = %v", err)
	}
	if cfg.Len() != 0 {
		t.Errorf("Len() = %d, want 0", cfg.Len())
	}
}

func TestOptionsWithDefaults(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, DefaultMaxPasses},
		{-1, DefaultMaxPasses},
		{1, MinPasses},
		{3, 3},
		{25, 25},
	}
	for _, tt := range tests {
		got := Options{MaxPasses: tt.in}.WithDefaults()
		if got.MaxPasses != tt.want {
			t.Errorf("WithDefaults(MaxPasses=%d).MaxPasses = %d, want %d", tt.in, got.MaxPasses, tt.want)
		}
		if got.Logger == nil {
			t.Error("WithDefaults() should set a logger")
		}
	}
}
