package response

import (
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"galaxy-server/internal/shared/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestErrorMapsTypeToStatus(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{errors.Validation("bad"), http.StatusBadRequest},
		{errors.NotFoundf("preset %d not found", 1), http.StatusNotFound},
		{errors.Conflictf("dup"), http.StatusConflict},
		{errors.Unauthorized("who"), http.StatusUnauthorized},
		{errors.Forbidden("no"), http.StatusForbidden},
		{errors.MethodNotAllowed("PUT"), http.StatusMethodNotAllowed},
		{errors.External("redis down"), http.StatusServiceUnavailable},
		{errors.RateLimited("slow down"), http.StatusTooManyRequests},
		{io.EOF, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/galaxy/presets/1", nil)
		Error(rec, req, discardLogger(), tc.err)

		if rec.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
		var body ErrorResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Code != tc.code {
			t.Fatalf("unexpected body %+v", body)
		}
		if tc.code == http.StatusInternalServerError {
			if body.Message != internalMessage {
				t.Fatalf("internal details leaked: %q", body.Message)
			}
		} else if body.Message != tc.err.Error() {
			t.Fatalf("unexpected message %q", body.Message)
		}
	}
}

func TestBinary(t *testing.T) {
	rec := httptest.NewRecorder()
	Binary(rec, http.StatusOK, "application/octet-stream", []byte{1, 2, 3})
	if rec.Header().Get("Content-Length") != "3" {
		t.Fatalf("unexpected length header %q", rec.Header().Get("Content-Length"))
	}
	if rec.Body.Len() != 3 {
		t.Fatalf("unexpected body length %d", rec.Body.Len())
	}
}

func TestSuccessWithUnencodablePayload(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, http.StatusOK, map[string]float64{"x": math.NaN()})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != internalMessage {
		t.Fatalf("unexpected body %+v", body)
	}
}
