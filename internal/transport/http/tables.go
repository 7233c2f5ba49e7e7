package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Schwarzoo/SmartDeskMap/internal/domain"
)

// TableCatalog is the minimal interface needed for the /tables collection.
type TableCatalog interface {
	ListTables(ctx context.Context) ([]domain.Table, error)
	CreateTable(ctx context.Context, id int64) (domain.Table, error)
}

// HandleTables returns an HTTP handler for listing and creating tables.
func HandleTables(svc TableCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			tables, err := svc.ListTables(r.Context())
			if err != nil {
				writeServiceError(w, err)
				return
			}
			resp := make([]tableResponse, 0, len(tables))
			for _, table := range tables {
				resp = append(resp, toTableResponse(table))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
			return
		case http.MethodPost:
			var req createTableRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			if req.ID == nil {
				writeError(w, http.StatusBadRequest, codeMissingRequiredField, "id is required")
				return
			}

			table, err := svc.CreateTable(r.Context(), *req.ID)
			if err != nil {
				writeServiceError(w, err)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(toTableResponse(table))
			return
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
	}
}

// writeServiceError maps domain errors onto HTTP statuses and codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrOwnerRequired):
		writeError(w, http.StatusBadRequest, codeOwnerRequired, err.Error())
	case errors.Is(err, domain.ErrInvalidInterval):
		writeError(w, http.StatusBadRequest, codeInvalidInterval, err.Error())
	case errors.Is(err, domain.ErrTableNotFound):
		writeError(w, http.StatusNotFound, codeTableNotFound, err.Error())
	case errors.Is(err, domain.ErrTableExists):
		writeError(w, http.StatusConflict, codeTableExists, err.Error())
	case errors.Is(err, domain.ErrConflict):
		// The conflicting reservation is deliberately not disclosed.
		writeError(w, http.StatusConflict, codeReservationConflict, err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, codeStoreUnavailable, domain.ErrStoreUnavailable.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

func parseTableID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

type createTableRequest struct {
	ID *int64 `json:"id"`
}

type tableResponse struct {
	ID           int64                 `json:"id"`
	Reservations []reservationResponse `json:"reservations"`
}

type reservationResponse struct {
	Username string    `json:"username"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

func toTableResponse(table domain.Table) tableResponse {
	resp := tableResponse{
		ID:           table.ID,
		Reservations: make([]reservationResponse, 0, len(table.Reservations)),
	}
	for _, res := range table.Reservations {
		resp.Reservations = append(resp.Reservations, reservationResponse{
			Username: res.Owner,
			Start:    res.Interval.Start,
			End:      res.Interval.End,
		})
	}
	return resp
}
