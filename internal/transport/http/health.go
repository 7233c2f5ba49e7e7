package http

import "net/http"

// HealthHandler reports process liveness. It deliberately avoids touching
// the store: a degraded data file must not fail liveness probes.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
