package http

import "net/http"

// NotFoundHandler renders unknown routes with the same JSON error envelope
// as the rest of the API.
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	})
}
