package middleware

import (
	"crypto/hmac"
	"net/http"

	"seatwise/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

// StaffAuth guards staff-only routes with the shared API key from the
// X-API-Key header. Wrapped per route, not globally, because most of the
// surface is public guest traffic. An empty configured key locks the staff
// surface shut rather than leaving it open.
func StaffAuth(apiKey string, log *logger.Logger) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			presented := r.Header.Get("X-API-Key")

			if apiKey == "" || presented == "" || !hmac.Equal([]byte(presented), []byte(apiKey)) {
				logAndRejectAuth(w, log, r)
				return
			}

			next(w, r, ps)
		}
	}
}

func logAndRejectAuth(w http.ResponseWriter, log *logger.Logger, r *http.Request) {
	requestID := ""
	if rid := r.Context().Value(RequestIDKey); rid != nil {
		if id, ok := rid.(string); ok {
			requestID = id
		}
	}

	log.Warn("Staff authentication failed",
		"request_id", requestID,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
}
