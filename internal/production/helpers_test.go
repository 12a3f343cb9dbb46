package production

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/kitchenops/pkg/db/models"
	"github.com/angelmondragon/kitchenops/pkg/enums"
	"github.com/angelmondragon/kitchenops/pkg/migrate"
	"github.com/angelmondragon/kitchenops/pkg/types"
)

const testDay = "2026-10-19"

func newItem(product string, variants []string, unit enums.ProductionUnit, ordered int64) models.ProductionLineItem {
	return models.ProductionLineItem{
		ID:               uuid.New(),
		OrderID:          uuid.New(),
		ProductName:      product,
		Variants:         types.VariantOptions(variants),
		Unit:             unit,
		QuantityOrdered:  decimal.NewFromInt(ordered),
		QuantityProduced: decimal.Zero,
		ProductionStatus: enums.ProductionStatusPending,
		ProductionDay:    testDay,
	}
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.RequireFromString(want).Equal(got), "expected %s, got %s", want, got)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, migrate.Run(context.Background(), sqlDB, migrate.DialectSQLite, "up"))
	return conn
}

func seed(t *testing.T, conn *gorm.DB, items ...models.ProductionLineItem) {
	t.Helper()
	for i := range items {
		require.NoError(t, conn.Create(&items[i]).Error)
	}
}

// memoryStore keeps snapshots in a map, copying on the way in and out.
type memoryStore struct {
	data    map[string]*Aggregate
	saves   int
	saveErr error
	loadErr error
	deletes int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string]*Aggregate)}
}

func (m *memoryStore) Load(_ context.Context, day string) (*Aggregate, bool, error) {
	if m.loadErr != nil {
		return nil, false, m.loadErr
	}
	agg, ok := m.data[day]
	if !ok {
		return nil, false, nil
	}
	return agg.Clone(), true, nil
}

func (m *memoryStore) Save(_ context.Context, agg *Aggregate) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[agg.Day] = agg.Clone()
	return nil
}

func (m *memoryStore) Invalidate(_ context.Context, day string) error {
	m.deletes++
	delete(m.data, day)
	return nil
}
