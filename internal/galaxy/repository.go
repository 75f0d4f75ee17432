package galaxy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"galaxy-server/internal/shared/database"
	apperrors "galaxy-server/internal/shared/errors"
)

const presetColumns = `id, name, description, count, size, radius, branches, spin,
		randomness, randomness_power, inside_color, outside_color, seed,
		created_by, created_at, updated_at`

type Repository struct {
	db database.Executor
}

func NewRepository(db database.Executor) *Repository {
	logger := slog.With("component", "galaxy_repository", "operation", "init")
	logger.Debug("Initializing galaxy preset repository")
	return &Repository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPreset(row rowScanner) (*Preset, error) {
	var preset Preset
	var inside, outside string
	var seed sql.NullInt64

	err := row.Scan(
		&preset.ID,
		&preset.Name,
		&preset.Description,
		&preset.Parameters.Count,
		&preset.Parameters.Size,
		&preset.Parameters.Radius,
		&preset.Parameters.Branches,
		&preset.Parameters.Spin,
		&preset.Parameters.Randomness,
		&preset.Parameters.RandomnessPower,
		&inside,
		&outside,
		&seed,
		&preset.CreatedBy,
		&preset.CreatedAt,
		&preset.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if preset.Parameters.InsideColor, err = ParseColor(inside); err != nil {
		return nil, fmt.Errorf("preset %d inside color: %w", preset.ID, err)
	}
	if preset.Parameters.OutsideColor, err = ParseColor(outside); err != nil {
		return nil, fmt.Errorf("preset %d outside color: %w", preset.ID, err)
	}
	if seed.Valid {
		s := uint64(seed.Int64)
		preset.Parameters.Seed = &s
	}
	return &preset, nil
}

// seedValue stores the uint64 seed bit-for-bit in a BIGINT column.
func seedValue(seed *uint64) sql.NullInt64 {
	if seed == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*seed), Valid: true}
}

func (r *Repository) CreatePreset(ctx context.Context, preset *Preset) error {
	logger := slog.With(
		"component", "galaxy_repository",
		"operation", "create_preset",
		"name", preset.Name,
	)
	logger.Debug("Creating galaxy preset")

	p := preset.Parameters
	query := `
		INSERT INTO galaxy_presets (name, description, count, size, radius, branches, spin,
			randomness, randomness_power, inside_color, outside_color, seed, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		preset.Name,
		preset.Description,
		p.Count,
		p.Size,
		p.Radius,
		p.Branches,
		p.Spin,
		p.Randomness,
		p.RandomnessPower,
		p.InsideColor.Hex(),
		p.OutsideColor.Hex(),
		seedValue(p.Seed),
		preset.CreatedBy,
	).Scan(&preset.ID, &preset.CreatedAt, &preset.UpdatedAt)

	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.Conflictf("preset %q already exists", preset.Name)
		}
		return apperrors.WrapInternal("failed to create preset", err)
	}

	logger.Info("Galaxy preset created", "preset_id", preset.ID)
	return nil
}

func (r *Repository) GetPresetByID(ctx context.Context, id int) (*Preset, error) {
	logger := slog.With("component", "galaxy_repository", "operation", "get_preset", "preset_id", id)
	logger.Debug("Getting preset by ID")

	query := `SELECT ` + presetColumns + ` FROM galaxy_presets WHERE id = $1`

	preset, err := scanPreset(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundf("preset not found with id: %d", id)
		}
		return nil, apperrors.WrapInternal("failed to get preset", err)
	}
	return preset, nil
}

func (r *Repository) GetPresetByName(ctx context.Context, name string) (*Preset, error) {
	logger := slog.With("component", "galaxy_repository", "operation", "get_preset_by_name", "name", name)
	logger.Debug("Getting preset by name")

	query := `SELECT ` + presetColumns + ` FROM galaxy_presets WHERE name = $1`

	preset, err := scanPreset(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundf("preset not found with name: %s", name)
		}
		return nil, apperrors.WrapInternal("failed to get preset", err)
	}
	return preset, nil
}

func (r *Repository) ListPresets(ctx context.Context) ([]Preset, error) {
	logger := slog.With("component", "galaxy_repository", "operation", "list_presets")
	logger.Debug("Listing presets")

	query := `SELECT ` + presetColumns + ` FROM galaxy_presets ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.WrapInternal("failed to list presets", err)
	}
	defer rows.Close()

	var presets []Preset
	for rows.Next() {
		preset, err := scanPreset(rows)
		if err != nil {
			return nil, apperrors.WrapInternal("failed to scan preset", err)
		}
		presets = append(presets, *preset)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.WrapInternal("failed to iterate presets", err)
	}

	logger.Debug("Presets listed", "count", len(presets))
	return presets, nil
}

func (r *Repository) DeletePreset(ctx context.Context, id int) error {
	logger := slog.With("component", "galaxy_repository", "operation", "delete_preset", "preset_id", id)

	result, err := r.db.ExecContext(ctx, `DELETE FROM galaxy_presets WHERE id = $1`, id)
	if err != nil {
		return apperrors.WrapInternal("failed to delete preset", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.WrapInternal("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NotFoundf("preset not found with id: %d", id)
	}

	logger.Info("Galaxy preset deleted")
	return nil
}
