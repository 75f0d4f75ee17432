package scene

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"galaxy-server/internal/galaxy"
)

// Generator produces the cloud for a parameter set; *galaxy.Service implements it.
type Generator interface {
	Generate(ctx context.Context, p galaxy.Parameters) (*galaxy.Result, error)
}

// Host owns the currently installed points. Only one Points is live at a time.
type Host struct {
	mu         sync.RWMutex
	points     *Points
	params     galaxy.Parameters
	generation uint64
	epoch      uint64
	assets     []Asset
	startedAt  time.Time
	now        func() time.Time
	logger     *slog.Logger
}

// State is the scene as a client sees it.
type State struct {
	Generation  uint64            `json:"generation"`
	Count       int               `json:"count"`
	Parameters  galaxy.Parameters `json:"parameters"`
	Material    Material          `json:"material"`
	Assets      []Asset           `json:"assets"`
	RotationY   float64           `json:"rotation_y"`
	InstalledAt time.Time         `json:"installed_at"`
}

func NewHost(assets []Asset, logger *slog.Logger) *Host {
	return &Host{
		assets:    assets,
		epoch:     rand.Uint64(),
		startedAt: time.Now(),
		now:       time.Now,
		logger:    logger.With("component", "scene_host"),
	}
}

func (h *Host) alphaMap() string {
	for _, a := range h.assets {
		if a.Kind == AssetAlphaMap {
			return a.URL
		}
	}
	return ""
}

// Install makes cloud the live points and then disposes the previous ones.
func (h *Host) Install(cloud *galaxy.PointCloud, material Material) *Points {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.installLocked(cloud, material)
}

func (h *Host) installLocked(cloud *galaxy.PointCloud, material Material) *Points {
	h.generation++
	next := &Points{
		Cloud:       cloud,
		Material:    material,
		Generation:  h.generation,
		InstalledAt: h.now(),
	}

	prev := h.points
	h.points = next
	if prev != nil {
		prev.Dispose()
	}

	h.logger.Debug("Points installed",
		"generation", next.Generation,
		"count", cloud.Len(),
		"replaced", prev != nil)
	return next
}

// Regenerate builds a new cloud for p and installs it. The previous points
// stay live if generation fails.
func (h *Host) Regenerate(ctx context.Context, gen Generator, p galaxy.Parameters) (*Points, error) {
	result, err := gen.Generate(ctx, p)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	points := h.installLocked(result.Cloud, PointsMaterial(p.Size, h.alphaMap()))
	h.params = p
	return points, nil
}

// Current returns a copy of the live points, or false before the first install.
func (h *Host) Current() (Points, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.points == nil {
		return Points{}, false
	}
	return *h.points, true
}

// Epoch is a random value fixed for the life of the host. Generations restart
// at 1 with every process, so clients need both to identify a cloud.
func (h *Host) Epoch() uint64 {
	return h.epoch
}

func (h *Host) Generation() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.generation
}

func (h *Host) Assets() []Asset {
	return append([]Asset(nil), h.assets...)
}

// RotationY is the idle spin angle after elapsed time.
func (h *Host) RotationY(elapsed time.Duration) float64 {
	return elapsed.Seconds() * RotationSpeed
}

func (h *Host) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()

	state := State{
		Generation: h.generation,
		Parameters: h.params,
		Assets:     h.Assets(),
		RotationY:  h.RotationY(h.now().Sub(h.startedAt)),
	}
	if h.points != nil {
		state.Count = h.points.Cloud.Len()
		state.Material = h.points.Material
		state.InstalledAt = h.points.InstalledAt
	}
	return state
}
