package domain

import "time"

// Catalog is the complete set of tables, unique by id. It is the unit of
// load/save persistence: loaded wholesale, mutated in memory, written back
// wholesale. Iteration order is the persisted order and is stable absent
// mutation.
type Catalog struct {
	Tables []Table
}

// FindByID returns the table with the given id, or nil when absent. The
// pointer aliases the catalog's backing slice so mutations stick.
func (c *Catalog) FindByID(id int64) *Table {
	for i := range c.Tables {
		if c.Tables[i].ID == id {
			return &c.Tables[i]
		}
	}
	return nil
}

// ListAll returns the tables in catalog order.
func (c *Catalog) ListAll() []Table {
	return c.Tables
}

// AddTable appends a new empty table with the given id.
func (c *Catalog) AddTable(id int64) (*Table, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	if c.FindByID(id) != nil {
		return nil, ErrTableExists
	}
	c.Tables = append(c.Tables, Table{ID: id})
	return &c.Tables[len(c.Tables)-1], nil
}

// SweepAll expires reservations across every table and returns the total
// number removed.
func (c *Catalog) SweepAll(now time.Time) int {
	total := 0
	for i := range c.Tables {
		total += c.Tables[i].SweepExpired(now)
	}
	return total
}
