// Package catalog loads tables from the row store into in-memory snapshots.
// Reads are paged; a failed load never replaces the last good snapshot.
package catalog

import (
	"context"
	"fmt"

	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/common"
)

// Table names.
const (
	TableProjects              = "projects"
	TableGlobalPlants          = "global_plants"
	TableImpactTotal           = "impact_results_total"
	TableImpactAnnual          = "impact_results_annual"
	TableTransactions          = "transactions"
	TableTransactionActivities = "transaction_activities"
	TableProjectChangeLog      = "project_change_log"
	TableUsers                 = "users"
)

// Tables lists every table the row store serves.
var Tables = []string{
	TableProjects,
	TableGlobalPlants,
	TableImpactTotal,
	TableImpactAnnual,
	TableTransactions,
	TableTransactionActivities,
	TableProjectChangeLog,
	TableUsers,
}

// SnapshotTables are the tables explorer views keep in memory.
var SnapshotTables = []string{TableGlobalPlants, TableImpactTotal, TableProjects}

// KnownTable reports whether name is served by the row store.
func KnownTable(name string) bool {
	for _, t := range Tables {
		if t == name {
			return true
		}
	}
	return false
}

// DefaultPageSize is the number of rows fetched per page.
const DefaultPageSize = 1000

// Query selects rows. Filters are equality matches. Order names a column; an
// empty Order means the store's stable default (primary key).
type Query struct {
	Filters map[string]interface{}
	Order   string
	Offset  int
	Limit   int
}

// RowStore is the row store access contract.
type RowStore interface {
	Select(ctx context.Context, table string, q Query) ([]common.Row, error)
	Insert(ctx context.Context, table string, row common.Row) (common.Row, error)
	Update(ctx context.Context, table, id string, patch common.Row) error
	Delete(ctx context.Context, table, id string) error
}

// FetchAll reads table page by page until a page returns fewer than pageSize
// rows. Any page error fails the whole fetch with ErrCodeFetchFailed and no
// rows. Pages are not a consistent snapshot: writes between pages are not
// reconciled.
func FetchAll(ctx context.Context, store RowStore, table string, pageSize int) ([]common.Row, int, error) {
	if !KnownTable(table) {
		return nil, 0, errors.Errorf(errors.ErrCodeTableUnknown, "unknown table %q", table)
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var (
		all   []common.Row
		pages int
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, pages, errors.New(errors.ErrCodeFetchFailed, "fetch cancelled").WithCause(err).WithDetail("table=" + table)
		}
		page, err := store.Select(ctx, table, Query{Offset: len(all), Limit: pageSize})
		pages++
		if err != nil {
			return nil, pages, errors.New(errors.ErrCodeFetchFailed, "row store read failed").
				WithCause(err).WithDetail(fmt.Sprintf("table=%s page=%d", table, pages))
		}
		all = append(all, page...)
		if len(page) < pageSize {
			break
		}
	}
	if all == nil {
		all = []common.Row{}
	}
	return all, pages, nil
}

//Personal.AI order the ending
