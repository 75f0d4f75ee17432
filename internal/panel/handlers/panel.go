package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"galaxy-server/internal/galaxy"
	"galaxy-server/internal/panel"
	"galaxy-server/internal/scene"
	"galaxy-server/internal/shared/errors"
	"galaxy-server/internal/shared/response"
)

const maxBodyBytes = 64 << 10

type PanelHandler struct {
	panel *panel.Panel
	host  *scene.Host
}

func NewPanelHandler(p *panel.Panel, host *scene.Host) *PanelHandler {
	return &PanelHandler{panel: p, host: host}
}

type PanelResponse struct {
	Title      string            `json:"title"`
	Controls   []panel.Control   `json:"controls"`
	Parameters galaxy.Parameters `json:"parameters"`
}

type CommitResponse struct {
	Parameters galaxy.Parameters `json:"parameters"`
	Scene      scene.State       `json:"scene"`
}

func (h *PanelHandler) GetPanel(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, PanelResponse{
		Title:      h.panel.Title(),
		Controls:   h.panel.Controls(),
		Parameters: h.panel.Parameters(),
	})
}

// Commit applies one finished interaction, e.g. {"branches": 4}.
func (h *PanelHandler) Commit(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "commit_panel")

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()

	var changes map[string]any
	if err := decoder.Decode(&changes); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
		return
	}

	params, err := h.panel.Commit(r.Context(), changes)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, CommitResponse{
		Parameters: params,
		Scene:      h.host.State(),
	})
}
