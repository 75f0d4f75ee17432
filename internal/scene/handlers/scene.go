package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	galaxyHandlers "galaxy-server/internal/galaxy/handlers"
	"galaxy-server/internal/scene"
	"galaxy-server/internal/shared/errors"
	"galaxy-server/internal/shared/response"
)

type SceneHandler struct {
	host *scene.Host
}

func NewSceneHandler(host *scene.Host) *SceneHandler {
	return &SceneHandler{host: host}
}

func (h *SceneHandler) GetScene(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, h.host.State())
}

func etag(epoch, generation uint64) string {
	return fmt.Sprintf(`"gen-%016x-%d"`, epoch, generation)
}

func matchesETag(header, tag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == tag {
			return true
		}
	}
	return false
}

// GetPoints serves the installed cloud. Clients poll with If-None-Match and
// only download again after a regeneration.
func (h *SceneHandler) GetPoints(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_scene_points")

	points, ok := h.host.Current()
	if !ok {
		response.Error(w, r, logger, errors.NotFoundf("no galaxy installed yet"))
		return
	}

	tag := etag(h.host.Epoch(), points.Generation)
	w.Header().Set("ETag", tag)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Add("Vary", "Accept")

	if inm := r.Header.Get("If-None-Match"); inm != "" && matchesETag(inm, tag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if err := galaxyHandlers.WriteCloud(w, r, points.Cloud, nil); err != nil {
		response.Error(w, r, logger, err)
	}
}
