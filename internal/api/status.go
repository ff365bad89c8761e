package api

import (
	"encoding/json"
	"net/http"
	"os"
)

// statusFile is a variable so tests can point it at a fixture.
var statusFile = "data/status.json"

// Status serves the operator-maintained status document. The file is read on
// every request so an edit shows up without a restart.
func (s *Server) Status(w http.ResponseWriter, r *http.Request) {
	raw, err := os.ReadFile(statusFile)
	if err != nil {
		writeError(w, http.StatusNotFound, "Status is unavailable")
		return
	}
	if !json.Valid(raw) {
		s.log.Error("status document is not valid json", "path", statusFile)
		writeError(w, http.StatusInternalServerError, "Status is unavailable")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=60")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

// Health is the liveness probe.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
