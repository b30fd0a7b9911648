package httpapi

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/dmitrymomot/remindr/internal/logger"
)

// requestIDHeaders are checked in order for an upstream request id.
var requestIDHeaders = []string{"X-Request-ID", "X-Correlation-ID"}

// requestID puts the upstream or a fresh request id into the context, where
// the logger picks it up, and echoes it in the response.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		for _, h := range requestIDHeaders {
			if v := strings.TrimSpace(r.Header.Get(h)); v != "" {
				id = v
				break
			}
		}
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), id)))
	})
}

const stackSize = 4096

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			stack := make([]byte, stackSize)
			stack = stack[:runtime.Stack(stack, false)]
			s.logger.ErrorContext(r.Context(), "panic recovered",
				slog.Any("panic", rec),
				slog.String("stack", string(stack)),
			)
			s.handle(func(http.ResponseWriter, *http.Request) error {
				return errInternal("Internal Server Error", fmt.Errorf("panic: %v", rec))
			})(w, r)
		}()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		s.logger.DebugContext(r.Context(), "http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("took", time.Since(start)),
		)
	})
}

// bearerSecret rejects requests without "Authorization: Bearer <secret>".
// With optional set an empty secret disables the check; otherwise an empty
// secret rejects every request.
func (s *Server) bearerSecret(optional bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if s.secret == "" && optional {
			return next
		}
		want := []byte("Bearer " + s.secret)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(r.Header.Get("Authorization"))
			if s.secret == "" || subtle.ConstantTimeCompare(got, want) != 1 {
				s.handle(func(http.ResponseWriter, *http.Request) error {
					return errUnauthorized()
				})(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
