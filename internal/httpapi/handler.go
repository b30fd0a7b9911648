package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/remindr/internal/logger"
)

const maxBodyBytes = 1 << 20

// handlerFunc is an http handler that reports failures by returning them.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Server) handle(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		he := asHTTPError(err)
		attrs := []any{
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", he.Code),
		}
		if he.Err != nil {
			attrs = append(attrs, slog.Any("error", he.Err))
		}
		if he.Code >= http.StatusInternalServerError {
			s.logger.ErrorContext(r.Context(), he.Message, attrs...)
		} else {
			s.logger.DebugContext(r.Context(), he.Message, attrs...)
		}

		writeJSON(w, he.Code, errorResponse{
			Error:     he.Message,
			Details:   he.Details,
			RequestID: logger.RequestID(r.Context()),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errBadRequest("Request body is required")
		}
		return &HTTPError{Code: http.StatusBadRequest, Message: "Invalid JSON body", Details: err.Error(), Err: err}
	}
	return nil
}
