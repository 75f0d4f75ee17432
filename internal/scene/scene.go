package scene

import (
	"time"

	"galaxy-server/internal/galaxy"
)

const (
	BlendingAdditive = "additive"

	// RotationSpeed is the idle spin around the Y axis, in radians per second.
	RotationSpeed = 0.04
)

// Material describes how a client should draw the points.
type Material struct {
	Size            float64 `json:"size"`
	SizeAttenuation bool    `json:"size_attenuation"`
	DepthWrite      bool    `json:"depth_write"`
	Blending        string  `json:"blending"`
	VertexColors    bool    `json:"vertex_colors"`
	Transparent     bool    `json:"transparent"`
	AlphaMap        string  `json:"alpha_map"`
}

// PointsMaterial is the glowing additive material every galaxy uses.
func PointsMaterial(size float64, alphaMap string) Material {
	return Material{
		Size:            size,
		SizeAttenuation: true,
		DepthWrite:      false,
		Blending:        BlendingAdditive,
		VertexColors:    true,
		Transparent:     true,
		AlphaMap:        alphaMap,
	}
}

// Points is one installed cloud together with its material. Once disposed its
// buffers are gone and it must not be rendered.
type Points struct {
	Cloud       *galaxy.PointCloud
	Material    Material
	Generation  uint64
	InstalledAt time.Time
	disposed    bool
}

func (p *Points) Dispose() {
	p.Cloud = nil
	p.disposed = true
}

func (p *Points) Disposed() bool {
	return p.disposed
}

type AssetKind string

const (
	AssetBackground AssetKind = "background"
	AssetAlphaMap   AssetKind = "alpha_map"
	AssetMusic      AssetKind = "music"
)

// Asset is a static file the client loads next to the cloud. Path is
// relative to the assets directory.
type Asset struct {
	Kind   AssetKind `json:"kind"`
	URL    string    `json:"url"`
	Path   string    `json:"-"`
	Loop   bool      `json:"loop,omitempty"`
	Volume float64   `json:"volume,omitempty"`
}

const AssetsURLPrefix = "/assets/"

func DefaultAssets() []Asset {
	return []Asset{
		{Kind: AssetBackground, URL: AssetsURLPrefix + "textures/2k_stars.jpg", Path: "textures/2k_stars.jpg"},
		{Kind: AssetAlphaMap, URL: AssetsURLPrefix + "textures/galaxy.png", Path: "textures/galaxy.png"},
		{Kind: AssetMusic, URL: AssetsURLPrefix + "music/Hope%20to%20see%20you%20again.mp3", Path: "music/Hope to see you again.mp3", Loop: true, Volume: 0.5},
	}
}
