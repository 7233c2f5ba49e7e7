package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Schwarzoo/SmartDeskMap/internal/domain"
)

type stubTableCatalog struct {
	tables []domain.Table
	table  domain.Table
	err    error
}

func (s *stubTableCatalog) ListTables(_ context.Context) ([]domain.Table, error) {
	return s.tables, s.err
}

func (s *stubTableCatalog) CreateTable(_ context.Context, _ int64) (domain.Table, error) {
	return s.table, s.err
}

func TestHandleTables_List(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	svc := &stubTableCatalog{
		tables: []domain.Table{
			{ID: 1, Reservations: []domain.Reservation{
				{Owner: "ana", Interval: domain.Interval{Start: start, End: start.Add(time.Hour)}},
			}},
			{ID: 2},
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/tables", nil)
	rec := httptest.NewRecorder()
	HandleTables(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp []tableResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(resp))
	}
	if resp[0].ID != 1 || len(resp[0].Reservations) != 1 {
		t.Fatalf("expected table 1 with 1 reservation, got %+v", resp[0])
	}
	if resp[0].Reservations[0].Username != "ana" {
		t.Fatalf("expected username ana, got %s", resp[0].Reservations[0].Username)
	}
	// Empty reservation lists render as [], not null.
	if resp[1].Reservations == nil {
		t.Fatalf("expected empty reservations array for table 2")
	}
}

func TestHandleTables_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "success",
			body:           `{"id":7}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "invalid json",
			body:           `{"id":`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   codeInvalidRequestBody,
		},
		{
			name:           "missing id",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   codeMissingRequiredField,
		},
		{
			name:           "non-positive id",
			body:           `{"id":0}`,
			serviceErr:     domain.ErrInvalidID,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   codeInvalidID,
		},
		{
			name:           "duplicate id",
			body:           `{"id":7}`,
			serviceErr:     domain.ErrTableExists,
			expectedStatus: http.StatusConflict,
			expectedCode:   codeTableExists,
		},
		{
			name:           "store unavailable",
			body:           `{"id":7}`,
			serviceErr:     domain.ErrStoreUnavailable,
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   codeStoreUnavailable,
		},
		{
			name:           "internal error",
			body:           `{"id":7}`,
			serviceErr:     errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   codeInternalError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubTableCatalog{
				table: domain.Table{ID: 7},
				err:   tt.serviceErr,
			}
			req := httptest.NewRequest(http.MethodPost, "/tables", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			HandleTables(svc).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
			if tt.expectedCode != "" && !strings.Contains(rec.Body.String(), tt.expectedCode) {
				t.Fatalf("expected code %q in body, got %q", tt.expectedCode, rec.Body.String())
			}
		})
	}
}

func TestHandleTables_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodDelete, "/tables", nil)
	rec := httptest.NewRecorder()
	HandleTables(&stubTableCatalog{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
}
