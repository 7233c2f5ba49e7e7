package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Schwarzoo/SmartDeskMap/internal/domain"
	"github.com/Schwarzoo/SmartDeskMap/internal/storage/jsonfile"
)

// NewTestStore returns a file store rooted in a per-test temp directory.
func NewTestStore(t *testing.T) *jsonfile.Store {
	t.Helper()
	return jsonfile.NewStore(filepath.Join(t.TempDir(), "catalog.json"), nil)
}

// SeedTable creates a table and its reservations directly through the store.
func SeedTable(t *testing.T, store *jsonfile.Store, id int64, reservations ...domain.Reservation) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := store.Update(ctx, func(cat *domain.Catalog) error {
		table, err := cat.AddTable(id)
		if err != nil {
			return err
		}
		for _, res := range reservations {
			if err := table.Reserve(res.Owner, res.Interval); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed table %d: %v", id, err)
	}
}

// LoadTable re-reads the durable state and returns the table, failing the
// test when it is absent.
func LoadTable(t *testing.T, store *jsonfile.Store, id int64) domain.Table {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cat, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	table := cat.FindByID(id)
	if table == nil {
		t.Fatalf("table %d not found in store", id)
	}
	return *table
}

// Interval builds a valid interval or fails the test.
func Interval(t *testing.T, start, end time.Time) domain.Interval {
	t.Helper()
	iv, err := domain.NewInterval(start, end)
	if err != nil {
		t.Fatalf("interval [%v, %v): %v", start, end, err)
	}
	return iv
}
