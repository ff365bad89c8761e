package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/oriongle/portal-server/internal/middleware"
)

// maxJSONBody bounds request bodies on JSON endpoints; the router's
// MaxBodySize middleware enforces it. File uploads carry base64 payloads,
// so the bound sits above the decoded file cap.
const maxJSONBody = 8 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeBodyError answers a failed decodeJSON: 413 when the body blew the
// size bound, 400 for everything else.
func writeBodyError(w http.ResponseWriter, err error) {
	if middleware.HandleMaxBytesError(w, err, maxJSONBody) {
		return
	}
	writeError(w, http.StatusBadRequest, "Invalid request body")
}

// decodeJSON reads and parses the request body into v. Read errors,
// including the MaxBytesReader overflow, come back to the caller for
// writeBodyError to classify.
func decodeJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return errors.New("empty request body")
	}
	return json.Unmarshal(body, v)
}
