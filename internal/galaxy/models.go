package galaxy

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// Color is an RGB gradient endpoint. It travels as a "#rrggbb" string in JSON,
// YAML and the database.
type Color struct {
	colorful.Color
}

func ParseColor(hex string) (Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return Color{c}, nil
}

// MustParseColor is for package-level defaults only.
func MustParseColor(hex string) Color {
	c, err := ParseColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Color) String() string {
	return c.Hex()
}

func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Hex())
}

func (c *Color) UnmarshalJSON(data []byte) error {
	var hex string
	if err := json.Unmarshal(data, &hex); err != nil {
		return fmt.Errorf("color must be a hex string: %w", err)
	}
	parsed, err := ParseColor(hex)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Color) MarshalYAML() (interface{}, error) {
	return c.Hex(), nil
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	var hex string
	if err := value.Decode(&hex); err != nil {
		return err
	}
	parsed, err := ParseColor(hex)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Parameters drive one galaxy generation. Size only affects the point
// material; every other field shapes the cloud itself.
type Parameters struct {
	Count           int     `json:"count" yaml:"count"`
	Size            float64 `json:"size" yaml:"size"`
	Radius          float64 `json:"radius" yaml:"radius"`
	Branches        int     `json:"branches" yaml:"branches"`
	Spin            float64 `json:"spin" yaml:"spin"`
	Randomness      float64 `json:"randomness" yaml:"randomness"`
	RandomnessPower float64 `json:"randomness_power" yaml:"randomness_power"`
	InsideColor     Color   `json:"inside_color" yaml:"inside_color"`
	OutsideColor    Color   `json:"outside_color" yaml:"outside_color"`
	// Seed opts into reproducible output. Nil means a fresh random stream per call.
	Seed *uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// PointCloud is the full set of particles handed to a renderer as one unit.
// Positions and Colors are index-aligned.
type PointCloud struct {
	Positions []r3.Vec
	Colors    []colorful.Color
}

func (pc *PointCloud) Len() int {
	if pc == nil {
		return 0
	}
	return len(pc.Positions)
}

// PositionBuffer flattens positions into x,y,z triples as a GPU vertex buffer expects.
func (pc *PointCloud) PositionBuffer() []float32 {
	buf := make([]float32, 0, pc.Len()*3)
	for _, p := range pc.Positions {
		buf = append(buf, float32(p.X), float32(p.Y), float32(p.Z))
	}
	return buf
}

// ColorBuffer flattens colors into r,g,b triples.
func (pc *PointCloud) ColorBuffer() []float32 {
	buf := make([]float32, 0, pc.Len()*3)
	for _, c := range pc.Colors {
		buf = append(buf, float32(c.R), float32(c.G), float32(c.B))
	}
	return buf
}

// Result is what the service hands back for a generation request.
type Result struct {
	Cloud      *PointCloud
	Parameters Parameters
	Cached     bool
}

type Preset struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  Parameters `json:"parameters"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
