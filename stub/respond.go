package stub

import (
	"encoding/json"
	"net/http"

	"github.com/miosa/coursebuddy/logx"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logx.Error().Err(err).Msg("encode response")
	}
}

// respondError answers in FastAPI's {"detail": ...} shape.
func respondError(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"detail": detail})
}
