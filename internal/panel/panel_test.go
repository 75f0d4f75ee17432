package panel

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"galaxy-server/internal/galaxy"
	apperrors "galaxy-server/internal/shared/errors"
)

func newTestPanel() *Panel {
	return New("Galaxy Generator", galaxy.DefaultParameters(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestControlsMatchDefaults(t *testing.T) {
	p := newTestPanel()
	want := []string{"count", "size", "radius", "branches", "spin", "randomness", "randomness_power", "inside_color", "outside_color"}
	controls := p.Controls()
	if len(controls) != len(want) {
		t.Fatalf("expected %d controls, got %d", len(want), len(controls))
	}
	for i, c := range controls {
		if c.Field != want[i] {
			t.Errorf("control %d: expected %s, got %s", i, want[i], c.Field)
		}
		if c.Kind == KindColor && c.Range != nil {
			t.Errorf("%s: color controls have no range", c.Field)
		}
	}

	params := p.Parameters()
	for _, c := range controls {
		if c.Range == nil {
			continue
		}
		var v float64
		switch c.Field {
		case "count":
			v = float64(params.Count)
		case "size":
			v = params.Size
		case "radius":
			v = params.Radius
		case "branches":
			v = float64(params.Branches)
		case "spin":
			v = params.Spin
		case "randomness":
			v = params.Randomness
		case "randomness_power":
			v = params.RandomnessPower
		}
		if v < c.Range.Min || v > c.Range.Max {
			t.Errorf("default %s=%v outside [%v, %v]", c.Field, v, c.Range.Min, c.Range.Max)
		}
	}
}

func TestRangeApply(t *testing.T) {
	cases := []struct {
		r    Range
		in   float64
		want float64
	}{
		{Range{300, 1000000, 150}, 1000, 1050},
		{Range{300, 1000000, 150}, 4, 300},
		{Range{300, 1000000, 150}, 5e6, 1000000},
		{Range{0.001, 0.1, 0.001}, 0.01234, 0.012},
		{Range{-5, 5, 0.001}, -7, -5},
		{Range{0, 2, 0.001}, 0.2, 0.2},
		{Range{2, 15, 1}, 3.6, 4},
	}
	for _, tc := range cases {
		if got := tc.r.Apply(tc.in); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("%+v.Apply(%v) = %v, want %v", tc.r, tc.in, got, tc.want)
		}
	}
}

func TestCommitFiresOnceWithFullSnapshot(t *testing.T) {
	p := newTestPanel()
	var calls []galaxy.Parameters
	p.OnFinishChange(func(_ context.Context, params galaxy.Parameters) error {
		calls = append(calls, params)
		return nil
	})

	got, err := p.Commit(t.Context(), map[string]any{
		"branches":     json.Number("4"),
		"spin":         -1.5,
		"inside_color": "#ffffff",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(calls) != 1 {
		t.Fatalf("expected exactly one callback, got %d", len(calls))
	}
	if calls[0] != got {
		t.Fatal("callback should receive the committed parameters")
	}
	if got.Branches != 4 || got.Spin != -1.5 || got.InsideColor.Hex() != "#ffffff" {
		t.Fatalf("changes not applied: %+v", got)
	}
	if got.Radius != galaxy.DefaultRadius || got.OutsideColor.Hex() != galaxy.DefaultOutsideColor {
		t.Fatal("untouched fields must keep their values")
	}
}

func TestCommitClampsToDomain(t *testing.T) {
	p := newTestPanel()
	got, err := p.Commit(t.Context(), map[string]any{
		"count":    4,
		"branches": 40,
		"spin":     json.Number("1.23456"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.Count != 300 || got.Branches != 15 || got.Spin != 1.235 {
		t.Fatalf("unexpected clamped values %+v", got)
	}
}

func TestCommitRejectsBadInputAtomically(t *testing.T) {
	p := newTestPanel()
	calls := 0
	p.OnFinishChange(func(context.Context, galaxy.Parameters) error {
		calls++
		return nil
	})

	for _, changes := range []map[string]any{
		{"branches": 4, "colour": "#fff"},
		{"branches": 4, "radius": "big"},
		{"branches": 4, "inside_color": 12},
		{"branches": 4, "outside_color": "blue"},
		{"branches": 4, "spin": math.NaN()},
		{"branches": 4, "seed": -1},
	} {
		_, err := p.Commit(t.Context(), changes)
		if apperrors.GetType(err) != apperrors.ErrorTypeValidation {
			t.Errorf("%v: expected validation error, got %v", changes, err)
		}
	}
	if calls != 0 {
		t.Fatalf("rejected commits must not fire callbacks, got %d", calls)
	}
	if p.Parameters().Branches != galaxy.DefaultBranches {
		t.Fatal("rejected commits must not change parameters")
	}
}

func TestCommitRollsBackOnCallbackFailure(t *testing.T) {
	p := newTestPanel()
	boom := errors.New("install failed")
	p.OnFinishChange(func(context.Context, galaxy.Parameters) error { return boom })

	if _, err := p.Commit(t.Context(), map[string]any{"radius": 9}); !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}
	if p.Parameters().Radius != galaxy.DefaultRadius {
		t.Fatal("parameters should roll back after a failed callback")
	}
}

func TestCommitSeed(t *testing.T) {
	p := newTestPanel()
	got, err := p.Commit(t.Context(), map[string]any{"seed": json.Number("18446744073709551615")})
	if err != nil {
		t.Fatal(err)
	}
	if got.Seed == nil || *got.Seed != math.MaxUint64 {
		t.Fatalf("seed not applied: %v", got.Seed)
	}

	got, err = p.Commit(t.Context(), map[string]any{"seed": nil})
	if err != nil {
		t.Fatal(err)
	}
	if got.Seed != nil {
		t.Fatal("nil seed should clear it")
	}
}

func TestEmptyCommitIsNoop(t *testing.T) {
	p := newTestPanel()
	calls := 0
	p.OnFinishChange(func(context.Context, galaxy.Parameters) error {
		calls++
		return nil
	})
	if _, err := p.Commit(t.Context(), nil); err != nil {
		t.Fatal(err)
	}
	if calls != 0 {
		t.Fatal("empty commit must not regenerate")
	}
}
