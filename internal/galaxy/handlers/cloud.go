package handlers

import (
	"mime"
	"net/http"
	"strconv"
	"strings"

	"galaxy-server/internal/galaxy"
	"galaxy-server/internal/shared/errors"
	"galaxy-server/internal/shared/response"
)

// CloudResponse is the JSON rendering of a point cloud: two flat buffers
// laid out the way a vertex buffer expects them.
type CloudResponse struct {
	Count      int                `json:"count"`
	Positions  []float32          `json:"positions"`
	Colors     []float32          `json:"colors"`
	Parameters *galaxy.Parameters `json:"parameters,omitempty"`
}

// WantsBinary reports whether the client asked for the GXPC encoding.
func WantsBinary(r *http.Request) bool {
	if r.URL.Query().Get("format") == "binary" {
		return true
	}
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && mediaType == galaxy.BinaryContentType {
			return true
		}
	}
	return false
}

// WriteCloud renders cloud in the format the client asked for.
func WriteCloud(w http.ResponseWriter, r *http.Request, cloud *galaxy.PointCloud, params *galaxy.Parameters) error {
	w.Header().Set("X-Galaxy-Count", strconv.Itoa(cloud.Len()))

	if WantsBinary(r) {
		data, err := cloud.MarshalBinary()
		if err != nil {
			return errors.WrapInternal("failed to encode point cloud", err)
		}
		response.Binary(w, http.StatusOK, galaxy.BinaryContentType, data)
		return nil
	}

	response.Success(w, http.StatusOK, CloudResponse{
		Count:      cloud.Len(),
		Positions:  cloud.PositionBuffer(),
		Colors:     cloud.ColorBuffer(),
		Parameters: params,
	})
	return nil
}

func cacheHeader(w http.ResponseWriter, result *galaxy.Result) {
	switch {
	case result.Cached:
		w.Header().Set("X-Galaxy-Cache", "hit")
	case result.Parameters.Seed == nil:
		w.Header().Set("X-Galaxy-Cache", "bypass")
	default:
		w.Header().Set("X-Galaxy-Cache", "miss")
	}
}
