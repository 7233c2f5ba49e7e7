package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Schwarzoo/SmartDeskMap/internal/domain"
)

// Store persists the whole catalog to a single JSON file. Every mutation runs
// a full read-mutate-write cycle under the write lock, so concurrent callers
// are serialized and conflict checks always see the latest durable state.
type Store struct {
	path   string
	logger *log.Logger

	mu sync.RWMutex
}

// NewStore returns a store backed by the file at path. The file does not need
// to exist yet.
func NewStore(path string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{path: path, logger: logger}
}

// Load reads the current catalog. A missing, unreadable, or corrupt file
// degrades to an empty catalog rather than failing the read path.
func (s *Store) Load(ctx context.Context) (domain.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return domain.Catalog{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readLocked(), nil
}

// Update runs fn against the current catalog and commits the result. The
// read, fn, and write form one critical section per store, so check-then-
// mutate sequences in fn cannot interleave with other writers. A failed
// commit leaves the previous file contents intact and returns
// domain.ErrStoreUnavailable; the mutation is then not durably applied.
func (s *Store) Update(ctx context.Context, fn func(cat *domain.Catalog) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cat := s.readLocked()
	if err := fn(&cat); err != nil {
		return err
	}
	return s.writeLocked(cat)
}

func (s *Store) readLocked() domain.Catalog {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Printf("WARN: read %s: %v; starting from empty catalog", s.path, err)
		}
		return domain.Catalog{}
	}

	var fc fileCatalog
	if err := json.Unmarshal(data, &fc); err != nil {
		s.logger.Printf("WARN: parse %s: %v; starting from empty catalog", s.path, err)
		return domain.Catalog{}
	}

	cat, err := fc.toDomain()
	if err != nil {
		s.logger.Printf("WARN: decode %s: %v; starting from empty catalog", s.path, err)
		return domain.Catalog{}
	}
	return cat
}

func (s *Store) writeLocked(cat domain.Catalog) error {
	data, err := json.Marshal(fromDomain(cat))
	if err != nil {
		return fmt.Errorf("%w: encode catalog: %v", domain.ErrStoreUnavailable, err)
	}

	// Write to a temp file in the target directory and rename over the
	// destination so the commit is all-or-nothing.
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", domain.ErrStoreUnavailable, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: write temp file: %v", domain.ErrStoreUnavailable, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: sync temp file: %v", domain.ErrStoreUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: close temp file: %v", domain.ErrStoreUnavailable, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: commit %s: %v", domain.ErrStoreUnavailable, s.path, err)
	}
	return nil
}

// Wire layout of the persisted file. Timestamps are stored as RFC 3339
// strings and normalized to UTC on decode.

const timeLayout = time.RFC3339Nano

type fileCatalog struct {
	Tables []fileTable `json:"tables"`
}

type fileTable struct {
	ID           int64             `json:"id"`
	Reservations []fileReservation `json:"reservations"`
}

type fileReservation struct {
	Username string `json:"username"`
	Start    string `json:"start"`
	End      string `json:"end"`
}

func (fc fileCatalog) toDomain() (domain.Catalog, error) {
	cat := domain.Catalog{}
	for _, ft := range fc.Tables {
		if ft.ID <= 0 {
			return domain.Catalog{}, fmt.Errorf("table id %d: %w", ft.ID, domain.ErrInvalidID)
		}
		table, err := cat.AddTable(ft.ID)
		if err != nil {
			return domain.Catalog{}, fmt.Errorf("table id %d: %w", ft.ID, err)
		}
		for _, fr := range ft.Reservations {
			start, err := time.Parse(timeLayout, fr.Start)
			if err != nil {
				return domain.Catalog{}, fmt.Errorf("table %d: start %q: %w", ft.ID, fr.Start, domain.ErrInvalidInterval)
			}
			end, err := time.Parse(timeLayout, fr.End)
			if err != nil {
				return domain.Catalog{}, fmt.Errorf("table %d: end %q: %w", ft.ID, fr.End, domain.ErrInvalidInterval)
			}
			iv, err := domain.NewInterval(start.UTC(), end.UTC())
			if err != nil {
				return domain.Catalog{}, fmt.Errorf("table %d: [%s, %s): %w", ft.ID, fr.Start, fr.End, err)
			}
			// Re-admit through Reserve so a tampered file cannot smuggle
			// overlapping reservations past the table invariant.
			if err := table.Reserve(fr.Username, iv); err != nil {
				return domain.Catalog{}, fmt.Errorf("table %d: [%s, %s): %w", ft.ID, fr.Start, fr.End, err)
			}
		}
	}
	return cat, nil
}

func fromDomain(cat domain.Catalog) fileCatalog {
	fc := fileCatalog{Tables: make([]fileTable, 0, len(cat.Tables))}
	for _, table := range cat.Tables {
		ft := fileTable{
			ID:           table.ID,
			Reservations: make([]fileReservation, 0, len(table.Reservations)),
		}
		for _, res := range table.Reservations {
			ft.Reservations = append(ft.Reservations, fileReservation{
				Username: res.Owner,
				Start:    res.Interval.Start.UTC().Format(timeLayout),
				End:      res.Interval.End.UTC().Format(timeLayout),
			})
		}
		fc.Tables = append(fc.Tables, ft)
	}
	return fc
}
