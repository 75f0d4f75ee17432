package galaxy

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	apperrors "galaxy-server/internal/shared/errors"
)

// seqSource replays a fixed sequence of draws, cycling when exhausted.
type seqSource struct {
	values []float64
	next   int
}

func (s *seqSource) Float64() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func nearly(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func seed(v uint64) *uint64 { return &v }

func TestGenerateCountMatches(t *testing.T) {
	for _, count := range []int{0, 1, 7, 300, 4500} {
		p := DefaultParameters()
		p.Count = count
		cloud, err := Generate(p, NewSource(seed(1)))
		if err != nil {
			t.Fatalf("count=%d: %v", count, err)
		}
		if len(cloud.Positions) != count || len(cloud.Colors) != count {
			t.Fatalf("count=%d: got %d positions, %d colors", count, len(cloud.Positions), len(cloud.Colors))
		}
	}
}

func TestGenerateColorsStayInUnitRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for trial := 0; trial < 20; trial++ {
		p := DefaultParameters()
		p.Count = 500
		p.Branches = 2 + rng.IntN(14)
		p.Spin = rng.Float64()*10 - 5
		p.Randomness = rng.Float64() * 2
		p.RandomnessPower = 1 + rng.Float64()*14
		p.InsideColor.R, p.InsideColor.G, p.InsideColor.B = rng.Float64(), rng.Float64(), rng.Float64()
		p.OutsideColor.R, p.OutsideColor.G, p.OutsideColor.B = rng.Float64(), rng.Float64(), rng.Float64()

		cloud, err := Generate(p, rng)
		if err != nil {
			t.Fatal(err)
		}
		for i, c := range cloud.Colors {
			for _, v := range []float64{c.R, c.G, c.B} {
				if v < 0 || v > 1 || math.IsNaN(v) {
					t.Fatalf("trial %d particle %d: color component %v out of [0,1]", trial, i, v)
				}
			}
		}
	}
}

func TestGenerateZeroRadiusIsInsideColor(t *testing.T) {
	p := DefaultParameters()
	p.Count = 3
	src := &seqSource{values: []float64{0, 0.3, 0.7, 0.3, 0.7, 0.3, 0.7}}

	cloud, err := Generate(p, src)
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range cloud.Colors {
		if c != p.InsideColor.Color {
			t.Fatalf("particle %d: color %+v, want inside %+v", i, c, p.InsideColor.Color)
		}
		if cloud.Positions[i].X != 0 || cloud.Positions[i].Y != 0 || cloud.Positions[i].Z != 0 {
			t.Fatalf("particle %d at radius 0 should sit at the origin, got %+v", i, cloud.Positions[i])
		}
	}
}

func TestGenerateOuterEdgeApproachesOutsideColor(t *testing.T) {
	p := DefaultParameters()
	p.Count = 1
	p.Randomness = 0
	almostOne := math.Nextafter(1, 0)
	cloud, err := Generate(p, &seqSource{values: []float64{almostOne, 0.5}})
	if err != nil {
		t.Fatal(err)
	}
	c := cloud.Colors[0]
	out := p.OutsideColor
	if !nearly(c.R, out.R, 1e-12) || !nearly(c.G, out.G, 1e-12) || !nearly(c.B, out.B, 1e-12) {
		t.Fatalf("edge color %+v, want ~%+v", c, out.Color)
	}
}

func TestBranchAngleIsPeriodic(t *testing.T) {
	for branches := 1; branches <= 15; branches++ {
		for i := 0; i < 100; i++ {
			if BranchAngle(i, branches) != BranchAngle(i+branches, branches) {
				t.Fatalf("branches=%d: angle(%d) != angle(%d)", branches, i, i+branches)
			}
			if a := BranchAngle(i, branches); a < 0 || a >= 2*math.Pi {
				t.Fatalf("branches=%d: angle(%d)=%v outside [0, 2π)", branches, i, a)
			}
		}
	}
}

func TestGenerateWithoutRandomnessLiesOnSpiral(t *testing.T) {
	for _, power := range []float64{0, 1, 3, 15} {
		p := DefaultParameters()
		p.Count = 2000
		p.Randomness = 0
		p.RandomnessPower = power
		p.Spin = 1.7

		src := NewSource(seed(42))
		radii := &recordingSource{src: src, every: 7}
		cloud, err := Generate(p, radii)
		if err != nil {
			t.Fatal(err)
		}
		for i, pos := range cloud.Positions {
			r := radii.recorded[i] * p.Radius
			theta := BranchAngle(i, p.Branches) + r*p.Spin
			if pos.Y != 0 {
				t.Fatalf("power=%v particle %d: y=%v, want 0", power, i, pos.Y)
			}
			if pos.X != math.Cos(theta)*r || pos.Z != math.Sin(theta)*r {
				t.Fatalf("power=%v particle %d: (%v, %v) off the spiral (%v, %v)",
					power, i, pos.X, pos.Z, math.Cos(theta)*r, math.Sin(theta)*r)
			}
		}
	}
}

// recordingSource remembers the first draw of every group of `every` draws,
// which is the radius draw of each particle.
type recordingSource struct {
	src      RandomSource
	every    int
	n        int
	recorded []float64
}

func (r *recordingSource) Float64() float64 {
	v := r.src.Float64()
	if r.n%r.every == 0 {
		r.recorded = append(r.recorded, v)
	}
	r.n++
	return v
}

func TestGenerateJitterBoundedByRandomness(t *testing.T) {
	p := DefaultParameters()
	p.Count = 5000
	p.Randomness = 0.5
	p.Spin = 0

	rec := &recordingSource{src: NewSource(seed(9)), every: 7}
	cloud, err := Generate(p, rec)
	if err != nil {
		t.Fatal(err)
	}
	for i, pos := range cloud.Positions {
		r := rec.recorded[i] * p.Radius
		if math.Abs(pos.Y) > p.Randomness*r+1e-12 {
			t.Fatalf("particle %d: |y|=%v exceeds randomness*radius=%v", i, math.Abs(pos.Y), p.Randomness*r)
		}
	}
}

func TestGenerateSeededIsBitIdentical(t *testing.T) {
	p := DefaultParameters()
	p.Count = 10000
	p.Seed = seed(20240611)

	a, err := Generate(p, NewSource(p.Seed))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(p, NewSource(p.Seed))
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Positions {
		pa, pb := a.Positions[i], b.Positions[i]
		if math.Float64bits(pa.X) != math.Float64bits(pb.X) ||
			math.Float64bits(pa.Y) != math.Float64bits(pb.Y) ||
			math.Float64bits(pa.Z) != math.Float64bits(pb.Z) {
			t.Fatalf("particle %d differs: %+v vs %+v", i, pa, pb)
		}
		if a.Colors[i] != b.Colors[i] {
			t.Fatalf("particle %d color differs", i)
		}
	}
}

func TestGenerateDifferentSeedsDiffer(t *testing.T) {
	p := DefaultParameters()
	p.Count = 10
	a, _ := Generate(p, NewSource(seed(1)))
	b, _ := Generate(p, NewSource(seed(2)))
	if a.Positions[0] == b.Positions[0] && a.Positions[1] == b.Positions[1] {
		t.Fatal("different seeds produced the same leading particles")
	}
}

func TestGenerateRejectsInvalidParameters(t *testing.T) {
	cases := map[string]func(*Parameters){
		"zero branches":         func(p *Parameters) { p.Branches = 0 },
		"negative count":        func(p *Parameters) { p.Count = -1 },
		"zero radius":           func(p *Parameters) { p.Radius = 0 },
		"nan spin":              func(p *Parameters) { p.Spin = math.NaN() },
		"negative power":        func(p *Parameters) { p.RandomnessPower = -1 },
		"infinite radius":       func(p *Parameters) { p.Radius = math.Inf(1) },
		"negative random":       func(p *Parameters) { p.Randomness = -0.1 },
		"negative size":         func(p *Parameters) { p.Size = -1 },
		"overflowing spin":      func(p *Parameters) { p.Spin = 1e308 },
		"radius beyond float32": func(p *Parameters) { p.Radius = 1e300 },
		"jitter beyond float32": func(p *Parameters) {
			p.Radius = 1e38
			p.Randomness = 10
		},
	}
	for name, mutate := range cases {
		p := DefaultParameters()
		mutate(&p)
		src := &seqSource{values: []float64{0.5}}
		cloud, err := Generate(p, src)
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		if cloud != nil {
			t.Fatalf("%s: expected no output, got %d points", name, cloud.Len())
		}
		if !errors.Is(err, ErrInvalidParameters) || apperrors.GetType(err) != apperrors.ErrorTypeValidation {
			t.Fatalf("%s: expected invalid-parameter validation error, got %v", name, err)
		}
		if src.next != 0 {
			t.Fatalf("%s: generator drew %d values before failing", name, src.next)
		}
	}
}

func TestGenerateFourArmScenario(t *testing.T) {
	p := DefaultParameters()
	p.Count = 4
	p.Branches = 4
	p.Radius = 1
	p.Spin = 0
	p.Randomness = 0

	radii := []float64{0.9, 0.4, 0.65, 0.2}
	var draws []float64
	for _, r := range radii {
		draws = append(draws, r, 0.3, 0.7, 0.3, 0.7, 0.3, 0.7)
	}

	cloud, err := Generate(p, &seqSource{values: draws})
	if err != nil {
		t.Fatal(err)
	}

	wantAngles := []float64{0, math.Pi / 2, math.Pi, 3 * math.Pi / 2}
	for i, pos := range cloud.Positions {
		if pos.Y != 0 {
			t.Fatalf("particle %d: y=%v", i, pos.Y)
		}
		dist := math.Hypot(pos.X, pos.Z)
		if !nearly(dist, radii[i], 1e-12) {
			t.Fatalf("particle %d: distance %v, want %v", i, dist, radii[i])
		}
		angle := math.Atan2(pos.Z, pos.X)
		if angle < -1e-12 {
			angle += 2 * math.Pi
		}
		if !nearly(angle, wantAngles[i], 1e-12) {
			t.Fatalf("particle %d: angle %v, want %v", i, angle, wantAngles[i])
		}
	}
}

func TestGenerateNilSourceUsesSeed(t *testing.T) {
	p := DefaultParameters()
	p.Count = 100
	p.Seed = seed(5)
	a, err := Generate(p, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Generate(p, NewSource(seed(5)))
	if a.Positions[99] != b.Positions[99] {
		t.Fatal("nil source should fall back to the parameter seed")
	}
}

func TestGenerateLargeFiniteParametersStayFinite(t *testing.T) {
	p := DefaultParameters()
	p.Count = 200
	p.Radius = 1e30
	p.Spin = 1e200
	p.Randomness = 2

	seed := uint64(9)
	cloud, err := Generate(p, NewSource(&seed))
	if err != nil {
		t.Fatalf("parameters within range should generate: %v", err)
	}
	for i, f := range cloud.PositionBuffer() {
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			t.Fatalf("position component %d is %v", i, f)
		}
	}
	for i, f := range cloud.ColorBuffer() {
		if math.IsNaN(float64(f)) {
			t.Fatalf("color component %d is NaN", i)
		}
	}
}
