package http

import (
	"context"
	"encoding/json"
	"net/http"
)

// ExpiredCleaner is the minimal interface needed to sweep expired
// reservations.
type ExpiredCleaner interface {
	CleanupExpired(ctx context.Context) (int, error)
}

// HandleCleanup returns an HTTP handler that removes every reservation whose
// end instant has passed.
func HandleCleanup(svc ExpiredCleaner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		removed, err := svc.CleanupExpired(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(cleanupResponse{Removed: removed})
	}
}

type cleanupResponse struct {
	Removed int `json:"removed"`
}
