package galaxy

import (
	"errors"
	"math"
	"strconv"
	"strings"

	apperrors "galaxy-server/internal/shared/errors"
)

// ErrInvalidParameters is wrapped by every validation failure from Validate.
var ErrInvalidParameters = errors.New("invalid galaxy parameters")

const (
	DefaultCount           = 100000
	DefaultSize            = 0.01
	DefaultRadius          = 5
	DefaultBranches        = 3
	DefaultSpin            = 1
	DefaultRandomness      = 0.2
	DefaultRandomnessPower = 3
	DefaultInsideColor     = "#ff6030"
	DefaultOutsideColor    = "#1b3984"
)

func DefaultParameters() Parameters {
	return Parameters{
		Count:           DefaultCount,
		Size:            DefaultSize,
		Radius:          DefaultRadius,
		Branches:        DefaultBranches,
		Spin:            DefaultSpin,
		Randomness:      DefaultRandomness,
		RandomnessPower: DefaultRandomnessPower,
		InsideColor:     MustParseColor(DefaultInsideColor),
		OutsideColor:    MustParseColor(DefaultOutsideColor),
	}
}

// Validate rejects parameter sets that would make the generator divide by zero
// or emit NaN geometry, including finite fields whose products overflow. The
// farthest a particle can land is radius * (1 + randomness), which must fit the
// float32 buffers. It does not enforce the panel's slider ranges.
func (p Parameters) Validate() error {
	switch {
	case p.Count < 0:
		return invalid("count must be non-negative, got " + strconv.Itoa(p.Count))
	case p.Branches < 1:
		return invalid("branches must be at least 1, got " + strconv.Itoa(p.Branches))
	case !finite(p.Radius) || p.Radius <= 0:
		return invalid("radius must be a positive finite number, got " + formatFloat(p.Radius))
	case !finite(p.Spin):
		return invalid("spin must be finite, got " + formatFloat(p.Spin))
	case !finite(p.Randomness) || p.Randomness < 0:
		return invalid("randomness must be a non-negative finite number, got " + formatFloat(p.Randomness))
	case !finite(p.RandomnessPower) || p.RandomnessPower < 0:
		return invalid("randomness_power must be a non-negative finite number, got " + formatFloat(p.RandomnessPower))
	case !finite(p.Size) || p.Size < 0:
		return invalid("size must be a non-negative finite number, got " + formatFloat(p.Size))
	case math.Abs(p.Radius*p.Spin) > maxSpinAngle:
		return invalid("radius * spin overflows the arm angle, got spin " + formatFloat(p.Spin))
	case p.Radius+p.Radius*p.Randomness > math.MaxFloat32:
		return invalid("radius and randomness place particles beyond float32 range, got radius " + formatFloat(p.Radius))
	}
	return nil
}

// maxSpinAngle leaves headroom for adding the branch angle without reaching +Inf.
const maxSpinAngle = math.MaxFloat64 / 2

func invalid(message string) error {
	return apperrors.WrapValidation(message, ErrInvalidParameters)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// canonical renders every field that influences the cloud, exactly. Size is
// left out because it only changes the material.
func (p Parameters) canonical() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(p.Count))
	for _, f := range []float64{p.Radius, float64(p.Branches), p.Spin, p.Randomness, p.RandomnessPower,
		p.InsideColor.R, p.InsideColor.G, p.InsideColor.B,
		p.OutsideColor.R, p.OutsideColor.G, p.OutsideColor.B} {
		b.WriteByte('|')
		b.WriteString(formatFloat(f))
	}
	b.WriteByte('|')
	if p.Seed != nil {
		b.WriteString(strconv.FormatUint(*p.Seed, 10))
	} else {
		b.WriteByte('-')
	}
	return b.String()
}
