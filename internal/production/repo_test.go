package production

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/kitchenops/pkg/enums"
)

func TestRepositoryFindAndList(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	repo := NewRepository(conn)

	msemen := newItem("Msemen", []string{"honey", "butter"}, enums.ProductionUnitPiece, 5)
	harcha := newItem("Harcha", nil, enums.ProductionUnitTray, 2)
	other := newItem("Baghrir", nil, enums.ProductionUnitKG, 1)
	other.ProductionDay = "2026-10-20"
	seed(t, conn, msemen, harcha, other)

	found, err := repo.FindLineItem(ctx, msemen.ID)
	require.NoError(t, err)
	require.Equal(t, enums.ProductionStatusPending, found.ProductionStatus)
	requireDecimal(t, "5", found.QuantityOrdered)
	requireDecimal(t, "0", found.QuantityProduced)
	require.Equal(t, "butter|honey", found.Variants.Signature())

	_, err = repo.FindLineItem(ctx, uuid.New())
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	items, err := repo.ListForDay(ctx, testDay)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "Harcha", items[0].ProductName)
	require.Equal(t, "Msemen", items[1].ProductName)
}

func TestRepositoryUpdateProductionIsGuarded(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	repo := NewRepository(conn)

	item := newItem("Msemen", nil, enums.ProductionUnitPiece, 5)
	seed(t, conn, item)

	loaded, err := repo.FindLineItem(ctx, item.ID)
	require.NoError(t, err)

	notes := "first batch"
	next := *loaded
	next.QuantityProduced = decimal.NewFromInt(2)
	next.ProductionStatus = enums.ProductionStatusPartiallyCompleted
	next.ProductionNotes = &notes
	require.NoError(t, repo.UpdateProduction(ctx, next, *loaded))

	// the stale snapshot no longer matches the row
	require.ErrorIs(t, repo.UpdateProduction(ctx, next, *loaded), ErrStaleItem)

	reloaded, err := repo.FindLineItem(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, enums.ProductionStatusPartiallyCompleted, reloaded.ProductionStatus)
	requireDecimal(t, "2", reloaded.QuantityProduced)
	require.Equal(t, "first batch", *reloaded.ProductionNotes)
}

func TestRepositoryWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	repo := NewRepository(conn)
	item := newItem("Msemen", nil, enums.ProductionUnitPiece, 5)
	seed(t, conn, item)

	sentinel := errors.New("abort")
	err := conn.Transaction(func(tx *gorm.DB) error {
		txRepo := repo.WithTx(tx)
		loaded, err := txRepo.FindLineItem(ctx, item.ID)
		if err != nil {
			return err
		}
		next := *loaded
		next.ProductionStatus = enums.ProductionStatusCompleted
		next.QuantityProduced = next.QuantityOrdered
		if err := txRepo.UpdateProduction(ctx, next, *loaded); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	reloaded, err := repo.FindLineItem(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, enums.ProductionStatusPending, reloaded.ProductionStatus)
	require.Equal(t, repo, repo.WithTx(nil))
}
