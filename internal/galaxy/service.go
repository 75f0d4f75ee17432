package galaxy

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"galaxy-server/internal/shared/config"
	"galaxy-server/internal/shared/errors"
)

const maxPresetNameLength = 100

// PresetStore is the persistence the service needs; *Repository implements it.
type PresetStore interface {
	CreatePreset(ctx context.Context, preset *Preset) error
	GetPresetByID(ctx context.Context, id int) (*Preset, error)
	GetPresetByName(ctx context.Context, name string) (*Preset, error)
	ListPresets(ctx context.Context) ([]Preset, error)
	DeletePreset(ctx context.Context, id int) error
}

type Service struct {
	repo     PresetStore
	cache    Cache
	maxCount int
	cacheTTL time.Duration
	logger   *slog.Logger
}

func NewService(repo PresetStore, cache Cache, cfg config.GalaxyConfig, logger *slog.Logger) *Service {
	logger.Debug("Initializing galaxy service",
		"max_count", cfg.MaxCount,
		"cache_ttl", cfg.CacheTTL,
		"cache_enabled", cache != nil)

	return &Service{
		repo:     repo,
		cache:    cache,
		maxCount: cfg.MaxCount,
		cacheTTL: cfg.CacheTTL,
		logger:   logger,
	}
}

func (s *Service) DefaultParameters() Parameters {
	return DefaultParameters()
}

func (s *Service) MaxCount() int {
	return s.maxCount
}

func (s *Service) validate(p Parameters) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if s.maxCount > 0 && p.Count > s.maxCount {
		return errors.Validationf("count %d exceeds the server limit of %d", p.Count, s.maxCount)
	}
	return nil
}

// Generate builds the cloud for p. Seeded parameters are served from and
// written to the cache; cache failures only cost a regeneration.
func (s *Service) Generate(ctx context.Context, p Parameters) (*Result, error) {
	logger := s.logger.With("component", "galaxy_service", "operation", "generate",
		"count", p.Count, "branches", p.Branches, "seeded", p.Seed != nil)

	if err := s.validate(p); err != nil {
		return nil, err
	}

	key, cacheable := CacheKey(p)
	if cacheable && s.cache != nil {
		cloud, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			logger.Warn("Point cloud cache read failed", "error", err)
		} else if ok {
			logger.Debug("Point cloud served from cache", "key", key)
			return &Result{Cloud: cloud, Parameters: p, Cached: true}, nil
		}
	}

	started := time.Now()
	cloud, err := Generate(p, NewSource(p.Seed))
	if err != nil {
		return nil, err
	}
	logger.Debug("Point cloud generated", "elapsed", time.Since(started))

	if cacheable && s.cache != nil {
		if err := s.cache.Set(ctx, key, cloud, s.cacheTTL); err != nil {
			logger.Warn("Point cloud cache write failed", "error", err)
		}
	}

	return &Result{Cloud: cloud, Parameters: p}, nil
}

func (s *Service) CreatePreset(ctx context.Context, name, description string, p Parameters, createdBy string) (*Preset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Validation("preset name is required")
	}
	if len(name) > maxPresetNameLength {
		return nil, errors.Validationf("preset name must be at most %d characters", maxPresetNameLength)
	}
	if err := s.validate(p); err != nil {
		return nil, err
	}

	preset := &Preset{
		Name:        name,
		Description: description,
		Parameters:  p,
		CreatedBy:   createdBy,
	}
	if err := s.repo.CreatePreset(ctx, preset); err != nil {
		return nil, err
	}

	s.logger.Info("Preset created", "preset_id", preset.ID, "name", preset.Name, "created_by", createdBy)
	return preset, nil
}

func (s *Service) GetPreset(ctx context.Context, id int) (*Preset, error) {
	return s.repo.GetPresetByID(ctx, id)
}

func (s *Service) ListPresets(ctx context.Context) ([]Preset, error) {
	return s.repo.ListPresets(ctx)
}

func (s *Service) DeletePreset(ctx context.Context, id int) error {
	s.logger.Info("Deleting preset", "preset_id", id)
	return s.repo.DeletePreset(ctx, id)
}

func (s *Service) GeneratePreset(ctx context.Context, id int) (*Result, error) {
	preset, err := s.repo.GetPresetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Generate(ctx, preset.Parameters)
}

// SeedPresets inserts every spec whose name is not taken yet and returns how
// many were created.
func (s *Service) SeedPresets(ctx context.Context, specs []PresetSpec) (int, error) {
	logger := s.logger.With("component", "galaxy_service", "operation", "seed_presets")

	created := 0
	for _, spec := range specs {
		_, err := s.repo.GetPresetByName(ctx, spec.Name)
		if err == nil {
			logger.Debug("Preset already present, skipping", "name", spec.Name)
			continue
		}
		if !errors.Is(err, errors.ErrorTypeNotFound) {
			return created, err
		}

		if _, err := s.CreatePreset(ctx, spec.Name, spec.Description, spec.Parameters, "seed"); err != nil {
			if errors.Is(err, errors.ErrorTypeConflict) {
				continue
			}
			return created, err
		}
		created++
	}

	logger.Info("Presets seeded", "created", created, "total", len(specs))
	return created, nil
}
