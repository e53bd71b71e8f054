package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/floorwalk/pkg/errors"
)

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeRaw(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(code)
	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err, "request_id", RequestID(r.Context()))
	}
	writeJSON(w, status, errorBody{Code: code, Message: errors.UserMessage(err)})
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeRoomNotFound, errors.ErrCodeNoCandidate:
		return http.StatusNotFound
	case errors.ErrCodeNoPathFound:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidRoom, errors.ErrCodeInvalidCategory,
		errors.ErrCodeInvalidFloor, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeGraphNotReady, errors.ErrCodeHistoryUnavailable:
		return http.StatusServiceUnavailable
	case errors.ErrCodeRenderUnavailable, errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}
