package panel

import (
	"math"

	"galaxy-server/internal/galaxy"
)

type Kind string

const (
	KindInteger Kind = "integer"
	KindNumber  Kind = "number"
	KindColor   Kind = "color"
)

// Range is a slider domain. Values snap to multiples of Step, then clamp.
type Range struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

type Control struct {
	Field string `json:"field"`
	Label string `json:"label"`
	Kind  Kind   `json:"kind"`
	Range *Range `json:"range,omitempty"`

	setNumber func(*galaxy.Parameters, float64)
	setColor  func(*galaxy.Parameters, galaxy.Color)
}

// Controls lists the panel in display order.
func Controls() []Control {
	return []Control{
		{
			Field: "count", Label: "Count", Kind: KindInteger,
			Range:     &Range{Min: 300, Max: 1000000, Step: 150},
			setNumber: func(p *galaxy.Parameters, v float64) { p.Count = int(v) },
		},
		{
			Field: "size", Label: "Size", Kind: KindNumber,
			Range:     &Range{Min: 0.001, Max: 0.1, Step: 0.001},
			setNumber: func(p *galaxy.Parameters, v float64) { p.Size = v },
		},
		{
			Field: "radius", Label: "Radius", Kind: KindNumber,
			Range:     &Range{Min: 0.01, Max: 20, Step: 0.01},
			setNumber: func(p *galaxy.Parameters, v float64) { p.Radius = v },
		},
		{
			Field: "branches", Label: "Branches", Kind: KindInteger,
			Range:     &Range{Min: 2, Max: 15, Step: 1},
			setNumber: func(p *galaxy.Parameters, v float64) { p.Branches = int(v) },
		},
		{
			Field: "spin", Label: "Spin", Kind: KindNumber,
			Range:     &Range{Min: -5, Max: 5, Step: 0.001},
			setNumber: func(p *galaxy.Parameters, v float64) { p.Spin = v },
		},
		{
			Field: "randomness", Label: "Randomness", Kind: KindNumber,
			Range:     &Range{Min: 0, Max: 2, Step: 0.001},
			setNumber: func(p *galaxy.Parameters, v float64) { p.Randomness = v },
		},
		{
			Field: "randomness_power", Label: "Randomness Power", Kind: KindNumber,
			Range:     &Range{Min: 1, Max: 15, Step: 0.001},
			setNumber: func(p *galaxy.Parameters, v float64) { p.RandomnessPower = v },
		},
		{
			Field: "inside_color", Label: "Inside Color", Kind: KindColor,
			setColor: func(p *galaxy.Parameters, c galaxy.Color) { p.InsideColor = c },
		},
		{
			Field: "outside_color", Label: "Outside Color", Kind: KindColor,
			setColor: func(p *galaxy.Parameters, c galaxy.Color) { p.OutsideColor = c },
		},
	}
}

// Apply snaps v to the step grid, rounds away float noise and clamps.
func (r Range) Apply(v float64) float64 {
	if r.Step > 0 {
		v = math.Round(v/r.Step) * r.Step
		scale := math.Pow(10, stepDecimals(r.Step))
		v = math.Round(v*scale) / scale
	}
	return math.Max(r.Min, math.Min(r.Max, v))
}

func stepDecimals(step float64) float64 {
	d := math.Ceil(-math.Log10(step))
	if d < 0 {
		return 0
	}
	return d
}
