package galaxy

import (
	"math"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"
)

// RandomSource yields uniform values in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// pcgStream separates the PCG stream from the seed so nearby seeds do not
// produce correlated sequences.
const pcgStream = 0x9e3779b97f4a7c15

// NewSource returns a reproducible source for a non-nil seed and a freshly
// seeded one otherwise.
func NewSource(seed *uint64) RandomSource {
	if seed == nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(*seed, *seed^pcgStream))
}

// BranchAngle is the angle of the arm particle i belongs to.
func BranchAngle(i, branches int) float64 {
	return float64(i%branches) / float64(branches) * math.Pi * 2
}

// Generate places p.Count particles along p.Branches spiral arms. Per particle
// it draws, in order: the radius, then magnitude and sign for x, y and z.
// A nil rng falls back to NewSource(p.Seed).
func Generate(p Parameters, rng RandomSource) (*PointCloud, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewSource(p.Seed)
	}

	cloud := &PointCloud{
		Positions: make([]r3.Vec, p.Count),
		Colors:    make([]colorful.Color, p.Count),
	}
	inside, outside := p.InsideColor.Color, p.OutsideColor.Color

	for i := 0; i < p.Count; i++ {
		radius := rng.Float64() * p.Radius
		angle := BranchAngle(i, p.Branches) + radius*p.Spin

		var offset r3.Vec
		offset.X = jitter(rng, p, radius)
		offset.Y = jitter(rng, p, radius)
		offset.Z = jitter(rng, p, radius)

		arm := r3.Vec{X: math.Cos(angle) * radius, Z: math.Sin(angle) * radius}
		cloud.Positions[i] = r3.Add(arm, offset)
		cloud.Colors[i] = mix(inside, outside, radius/p.Radius)
	}

	return cloud, nil
}

// jitter is symmetric around the arm; a higher power pulls it toward zero.
func jitter(rng RandomSource, p Parameters, radius float64) float64 {
	magnitude := math.Pow(rng.Float64(), p.RandomnessPower)
	sign := -1.0
	if rng.Float64() < 0.5 {
		sign = 1
	}
	return magnitude * sign * p.Randomness * radius
}

func mix(inside, outside colorful.Color, t float64) colorful.Color {
	t = math.Max(0, math.Min(1, t))
	return inside.BlendRgb(outside, t).Clamped()
}
