package database

import (
	"fmt"
	"sync"
)

// Catalog manages a collection of named tables in registration order
type Catalog struct {
	tables map[string]Table
	order  []string
	mu     sync.RWMutex
}

// NewCatalog creates a new empty catalog
func NewCatalog() *Catalog {
	return &Catalog{
		tables: make(map[string]Table),
	}
}

// RegisterTable adds a table to the catalog under its name. Registering a
// name again replaces the table and keeps its position.
func (c *Catalog) RegisterTable(t Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tables[t.Name()]; !ok {
		c.order = append(c.order, t.Name())
	}
	c.tables[t.Name()] = t
}

// GetTable retrieves a table by name
func (c *Catalog) GetTable(name string) (Table, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tables[name]
	if !ok {
		return nil, fmt.Errorf("table '%s' not found", name)
	}
	return t, nil
}

// Tables returns every table in registration order
func (c *Catalog) Tables() []Table {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tables := make([]Table, 0, len(c.order))
	for _, name := range c.order {
		tables = append(tables, c.tables[name])
	}
	return tables
}

// Len returns the number of registered tables
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}
