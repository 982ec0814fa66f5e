package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/turtacn/CoalTransition-Atlas/internal/application/catalog"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/common"
)

// MemRowStore is an in-memory catalog.RowStore. Rows are kept in insertion
// order per table; "id" is assigned on Insert when missing.
type MemRowStore struct {
	mu      sync.Mutex
	tables  map[string][]common.Row
	nextID  int
	Selects []catalog.Query

	// FailOn makes Select fail for a table once the given number of calls
	// for that table has been reached (1 = first call fails).
	FailOn  map[string]int
	calls   map[string]int
	FailErr error
}

// NewMemRowStore returns an empty store.
func NewMemRowStore() *MemRowStore {
	return &MemRowStore{
		tables: make(map[string][]common.Row),
		FailOn: make(map[string]int),
		calls:  make(map[string]int),
	}
}

// Seed appends rows to table without assigning ids.
func (m *MemRowStore) Seed(table string, rows ...common.Row) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range rows {
		m.tables[table] = append(m.tables[table], r.Clone())
	}
}

// Len returns the number of rows in table.
func (m *MemRowStore) Len(table string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tables[table])
}

func (m *MemRowStore) Select(_ context.Context, table string, q catalog.Query) ([]common.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Selects = append(m.Selects, q)
	m.calls[table]++
	if n, ok := m.FailOn[table]; ok && m.calls[table] >= n {
		if m.FailErr != nil {
			return nil, m.FailErr
		}
		return nil, fmt.Errorf("select %s: connection reset", table)
	}

	var matched []common.Row
	for _, r := range m.tables[table] {
		if matches(r, q.Filters) {
			matched = append(matched, r)
		}
	}
	if q.Order != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].String(q.Order) < matched[j].String(q.Order)
		})
	}
	if q.Offset >= len(matched) {
		return []common.Row{}, nil
	}
	matched = matched[q.Offset:]
	if q.Limit > 0 && q.Limit < len(matched) {
		matched = matched[:q.Limit]
	}
	out := make([]common.Row, len(matched))
	for i, r := range matched {
		out[i] = r.Clone()
	}
	return out, nil
}

func (m *MemRowStore) Insert(_ context.Context, table string, row common.Row) (common.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := row.Clone()
	if r.String("id") == "" {
		m.nextID++
		r["id"] = fmt.Sprintf("%d", m.nextID)
	}
	m.tables[table] = append(m.tables[table], r)
	return r.Clone(), nil
}

func (m *MemRowStore) Update(_ context.Context, table, id string, patch common.Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.tables[table] {
		if r.String("id") == id {
			for k, v := range patch {
				r[k] = v
			}
			return nil
		}
	}
	return fmt.Errorf("%s %s not found", table, id)
}

func (m *MemRowStore) Delete(_ context.Context, table, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.tables[table]
	for i, r := range rows {
		if r.String("id") == id {
			m.tables[table] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%s %s not found", table, id)
}

func matches(r common.Row, filters map[string]interface{}) bool {
	for k, v := range filters {
		if r.String(k) != fmt.Sprint(v) {
			return false
		}
	}
	return true
}

var _ catalog.RowStore = (*MemRowStore)(nil)

//Personal.AI order the ending
