package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Schwarzoo/SmartDeskMap/internal/app"
	"github.com/Schwarzoo/SmartDeskMap/internal/domain"
)

// TableReserver is the minimal interface needed for single-table endpoints.
type TableReserver interface {
	GetTable(ctx context.Context, id int64) (domain.Table, error)
	ReserveTable(ctx context.Context, in app.ReserveTableInput) (domain.Table, error)
	ReleaseTable(ctx context.Context, id int64) (domain.Table, error)
}

// HandleTable returns an HTTP handler for /tables/{id} and
// /tables/{id}/reservations.
func HandleTable(svc TableReserver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, sub, ok := parseTablePath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch sub {
		case "":
			if r.Method != http.MethodGet {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			table, err := svc.GetTable(r.Context(), id)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(toTableResponse(table))
			return
		case "reservations":
			switch r.Method {
			case http.MethodPost:
				handleReserve(w, r, svc, id)
				return
			case http.MethodDelete:
				table, err := svc.ReleaseTable(r.Context(), id)
				if err != nil {
					writeServiceError(w, err)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(toTableResponse(table))
				return
			default:
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
	}
}

func handleReserve(w http.ResponseWriter, r *http.Request, svc TableReserver, id int64) {
	var req createReservationRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}
	if req.Username == "" {
		writeError(w, http.StatusBadRequest, codeMissingRequiredField, "username is required")
		return
	}
	if req.Start == "" || req.End == "" {
		writeError(w, http.StatusBadRequest, codeMissingRequiredField, "start and end are required")
		return
	}

	// The boundary owns parsing; the service only sees typed instants.
	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidTimestamp, "invalid start format")
		return
	}
	end, err := time.Parse(time.RFC3339, req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidTimestamp, "invalid end format")
		return
	}

	table, err := svc.ReserveTable(r.Context(), app.ReserveTableInput{
		TableID: id,
		Owner:   req.Username,
		Start:   start.UTC(),
		End:     end.UTC(),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toTableResponse(table))
}

// parseTablePath splits /tables/{id} or /tables/{id}/reservations. The id
// must be a positive decimal; anything else is a routing miss.
func parseTablePath(path string) (int64, string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || len(parts) > 3 || parts[0] != "tables" {
		return 0, "", false
	}
	id, ok := parseTableID(parts[1])
	if !ok {
		return 0, "", false
	}
	if len(parts) == 2 {
		return id, "", true
	}
	if parts[2] == "" {
		return 0, "", false
	}
	return id, parts[2], true
}

type createReservationRequest struct {
	Username string `json:"username"`
	Start    string `json:"start"`
	End      string `json:"end"`
}
