package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"galaxy-server/internal/galaxy"
	"galaxy-server/internal/middleware"
	"galaxy-server/internal/shared/errors"
	"galaxy-server/internal/shared/response"
)

const maxBodyBytes = 1 << 20

type GalaxyHandler struct {
	service *galaxy.Service
}

func NewGalaxyHandler(service *galaxy.Service) *GalaxyHandler {
	return &GalaxyHandler{service: service}
}

type DefaultsResponse struct {
	Parameters galaxy.Parameters `json:"parameters"`
	MaxCount   int               `json:"max_count"`
}

type CreatePresetRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Parameters  galaxy.Parameters `json:"parameters"`
}

func (h *GalaxyHandler) GetDefaults(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, DefaultsResponse{
		Parameters: h.service.DefaultParameters(),
		MaxCount:   h.service.MaxCount(),
	})
}

// decodeParameters reads a JSON body over the default parameters, so omitted
// fields keep their default value.
func decodeParameters(w http.ResponseWriter, r *http.Request, out interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return errors.WrapValidation("invalid request body", err)
	}
	return nil
}

func (h *GalaxyHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "generate_galaxy")

	params := h.service.DefaultParameters()
	if err := decodeParameters(w, r, &params); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	result, err := h.service.Generate(ctx, params)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	cacheHeader(w, result)
	if err := WriteCloud(w, r, result.Cloud, &result.Parameters); err != nil {
		response.Error(w, r, logger, err)
	}
}

func (h *GalaxyHandler) ListPresets(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "list_presets")

	presets, err := h.service.ListPresets(r.Context())
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if presets == nil {
		presets = []galaxy.Preset{}
	}

	response.Success(w, http.StatusOK, presets)
}

func presetID(r *http.Request) (int, error) {
	idStr := r.PathValue("id")
	if idStr == "" {
		return 0, errors.Validation("preset ID is required")
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, errors.WrapValidation("invalid preset ID format", err)
	}
	return id, nil
}

func (h *GalaxyHandler) GetPreset(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_preset")

	id, err := presetID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	preset, err := h.service.GetPreset(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, preset)
}

func (h *GalaxyHandler) GeneratePreset(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "generate_preset")

	id, err := presetID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	result, err := h.service.GeneratePreset(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	cacheHeader(w, result)
	if err := WriteCloud(w, r, result.Cloud, &result.Parameters); err != nil {
		response.Error(w, r, logger, err)
	}
}

func (h *GalaxyHandler) CreatePreset(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "create_preset")

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	req := CreatePresetRequest{Parameters: h.service.DefaultParameters()}
	if err := decodeParameters(w, r, &req); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	preset, err := h.service.CreatePreset(r.Context(), req.Name, req.Description, req.Parameters, claims.Email)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, preset)
}

func (h *GalaxyHandler) DeletePreset(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "delete_preset")

	id, err := presetID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if err := h.service.DeletePreset(r.Context(), id); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
