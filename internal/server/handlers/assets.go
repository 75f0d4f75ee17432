package handlers

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"galaxy-server/internal/scene"
)

// MissingAssets returns the assets that are not present under dir and logs
// a warning for each, so a broken deploy shows up at startup rather than as
// a blank scene.
func MissingAssets(dir string, assets []scene.Asset) []scene.Asset {
	logger := slog.With("component", "assets", "operation", "check", "dir", dir)

	var missing []scene.Asset
	for _, a := range assets {
		path := filepath.Join(dir, filepath.FromSlash(a.Path))
		if _, err := os.Stat(path); err != nil {
			logger.Warn("Scene asset not available", "kind", a.Kind, "path", path, "error", err)
			missing = append(missing, a)
		}
	}

	if len(missing) == 0 {
		logger.Debug("All scene assets present", "count", len(assets))
	}
	return missing
}

// NewAssetsHandler serves dir under scene.AssetsURLPrefix.
func NewAssetsHandler(dir string) http.Handler {
	return http.StripPrefix(scene.AssetsURLPrefix, http.FileServer(http.Dir(dir)))
}
