// internal/app/features/campaigns/respond.go
package campaigns

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/evalhub/internal/app/system/inputval"
)

// maxBodyBytes bounds request bodies; a launch for a whole organization
// is a few hundred ids.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
	Data   any               `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeAndValidate reads a JSON body into v and runs its validate tags.
// On failure it has already written a 400 and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	if err := inputval.Struct(v); err != nil {
		var fe inputval.FieldErrors
		if errors.As(err, &fe) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: fe})
			return false
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
