package app

import (
	"context"
	"time"

	"github.com/Schwarzoo/SmartDeskMap/internal/clock"
	"github.com/Schwarzoo/SmartDeskMap/internal/domain"
)

// CatalogStore is the persistence contract the service depends on. Update
// must serialize the whole load-mutate-save cycle per catalog: a reservation's
// conflict check and append then always run against the same durable
// snapshot, and two overlapping concurrent candidates can never both commit.
type CatalogStore interface {
	Load(ctx context.Context) (domain.Catalog, error)
	Update(ctx context.Context, fn func(cat *domain.Catalog) error) error
}

type TableService struct {
	store CatalogStore
	clock clock.Clock
}

func NewTableService(store CatalogStore, clk clock.Clock) *TableService {
	return &TableService{
		store: store,
		clock: clk,
	}
}

// ListTables returns every table in catalog order.
func (s *TableService) ListTables(ctx context.Context) ([]domain.Table, error) {
	cat, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	tables := cat.ListAll()
	out := make([]domain.Table, len(tables))
	for i, table := range tables {
		out[i] = snapshotTable(table)
	}
	return out, nil
}

// GetTable returns the table with the given id.
func (s *TableService) GetTable(ctx context.Context, id int64) (domain.Table, error) {
	if id <= 0 {
		return domain.Table{}, domain.ErrInvalidID
	}
	cat, err := s.store.Load(ctx)
	if err != nil {
		return domain.Table{}, err
	}
	table := cat.FindByID(id)
	if table == nil {
		return domain.Table{}, domain.ErrTableNotFound
	}
	return snapshotTable(*table), nil
}

// CreateTable registers a new empty table under the given id.
func (s *TableService) CreateTable(ctx context.Context, id int64) (domain.Table, error) {
	if id <= 0 {
		return domain.Table{}, domain.ErrInvalidID
	}

	var result domain.Table
	err := s.store.Update(ctx, func(cat *domain.Catalog) error {
		table, err := cat.AddTable(id)
		if err != nil {
			return err
		}
		result = snapshotTable(*table)
		return nil
	})
	if err != nil {
		return domain.Table{}, err
	}
	return result, nil
}

type ReserveTableInput struct {
	TableID int64
	Owner   string
	Start   time.Time
	End     time.Time
}

// ReserveTable admits a reservation when the candidate interval does not
// overlap any existing reservation on the table. Lookup, conflict check,
// append, and save run inside one store update, so at most one of any set of
// overlapping concurrent candidates is admitted; the rest get ErrConflict.
// A failed save surfaces as an error and the reservation is not applied.
func (s *TableService) ReserveTable(ctx context.Context, in ReserveTableInput) (domain.Table, error) {
	if in.TableID <= 0 {
		return domain.Table{}, domain.ErrInvalidID
	}
	if in.Owner == "" {
		return domain.Table{}, domain.ErrOwnerRequired
	}
	candidate, err := domain.NewInterval(in.Start, in.End)
	if err != nil {
		return domain.Table{}, err
	}

	var result domain.Table
	err = s.store.Update(ctx, func(cat *domain.Catalog) error {
		table := cat.FindByID(in.TableID)
		if table == nil {
			return domain.ErrTableNotFound
		}
		if err := table.Reserve(in.Owner, candidate); err != nil {
			return err
		}
		result = snapshotTable(*table)
		return nil
	})
	if err != nil {
		return domain.Table{}, err
	}
	return result, nil
}

// ReleaseTable clears every reservation on the table, expired or not.
func (s *TableService) ReleaseTable(ctx context.Context, id int64) (domain.Table, error) {
	if id <= 0 {
		return domain.Table{}, domain.ErrInvalidID
	}

	var result domain.Table
	err := s.store.Update(ctx, func(cat *domain.Catalog) error {
		table := cat.FindByID(id)
		if table == nil {
			return domain.ErrTableNotFound
		}
		table.Release()
		result = snapshotTable(*table)
		return nil
	})
	if err != nil {
		return domain.Table{}, err
	}
	return result, nil
}

// CleanupExpired removes every reservation across the catalog whose end
// instant is at or before the current time and reports how many were removed.
func (s *TableService) CleanupExpired(ctx context.Context) (int, error) {
	now := s.clock.Now()

	removed := 0
	err := s.store.Update(ctx, func(cat *domain.Catalog) error {
		removed = cat.SweepAll(now)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// snapshotTable deep-copies a table so callers never alias the catalog the
// store hands back to other requests.
func snapshotTable(table domain.Table) domain.Table {
	out := domain.Table{ID: table.ID}
	if len(table.Reservations) > 0 {
		out.Reservations = make([]domain.Reservation, len(table.Reservations))
		copy(out.Reservations, table.Reservations)
	}
	return out
}
