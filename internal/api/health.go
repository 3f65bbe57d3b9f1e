package api

import "net/http"

// health is the liveness probe. It reports the process is up; it says nothing
// about the vector index or model provider.
func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
