package catalog_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CoalTransition-Atlas/internal/application/catalog"
	"github.com/turtacn/CoalTransition-Atlas/internal/testutil"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/common"
)

func seedPlants(store *testutil.MemRowStore, n int) {
	for i := 0; i < n; i++ {
		store.Seed(catalog.TableGlobalPlants, common.Row{"id": fmt.Sprintf("%05d", i), "plant_name": fmt.Sprintf("P%d", i)})
	}
}

func TestFetchAll_PagesUntilShortPage(t *testing.T) {
	store := testutil.NewMemRowStore()
	seedPlants(store, 2500)

	rows, pages, err := catalog.FetchAll(context.Background(), store, catalog.TableGlobalPlants, 1000)
	require.NoError(t, err)
	assert.Len(t, rows, 2500)
	assert.Equal(t, 3, pages)
	assert.Equal(t, "P0", rows[0].String("plant_name"))
	assert.Equal(t, "P2499", rows[2499].String("plant_name"))

	require.Len(t, store.Selects, 3)
	assert.Equal(t, 0, store.Selects[0].Offset)
	assert.Equal(t, 1000, store.Selects[1].Offset)
	assert.Equal(t, 2000, store.Selects[2].Offset)
	assert.Equal(t, 1000, store.Selects[2].Limit)
}

func TestFetchAll_ExactMultipleEndsOnEmptyPage(t *testing.T) {
	store := testutil.NewMemRowStore()
	seedPlants(store, 2000)

	rows, pages, err := catalog.FetchAll(context.Background(), store, catalog.TableGlobalPlants, 1000)
	require.NoError(t, err)
	assert.Len(t, rows, 2000)
	assert.Equal(t, 3, pages)
}

func TestFetchAll_EmptyTableIsSuccess(t *testing.T) {
	store := testutil.NewMemRowStore()
	rows, pages, err := catalog.FetchAll(context.Background(), store, catalog.TableProjects, 0)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
	assert.Equal(t, 1, pages)
	assert.Equal(t, catalog.DefaultPageSize, store.Selects[0].Limit)
}

func TestFetchAll_PageErrorFailsWholeFetch(t *testing.T) {
	store := testutil.NewMemRowStore()
	seedPlants(store, 1500)
	store.FailOn[catalog.TableGlobalPlants] = 2

	rows, pages, err := catalog.FetchAll(context.Background(), store, catalog.TableGlobalPlants, 1000)
	require.Error(t, err)
	assert.Nil(t, rows, "no partial result")
	assert.Equal(t, 2, pages)
	assert.True(t, errors.IsCode(err, errors.ErrCodeFetchFailed))
	assert.Contains(t, err.Error(), "page=2")
}

func TestFetchAll_UnknownTable(t *testing.T) {
	_, _, err := catalog.FetchAll(context.Background(), testutil.NewMemRowStore(), "invoices", 10)
	assert.True(t, errors.IsCode(err, errors.ErrCodeTableUnknown))
}

func TestFetchAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := catalog.FetchAll(ctx, testutil.NewMemRowStore(), catalog.TableUsers, 10)
	assert.True(t, errors.IsCode(err, errors.ErrCodeFetchFailed))
	assert.ErrorIs(t, err, context.Canceled)
}

//Personal.AI order the ending
