package repository

import (
	"context"
	"testing"

	"tiepbuoc/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryRepository_CreateLaptopsBatch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInventoryRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateLaptops(ctx, nil), "empty batch is a no-op")

	donorID := uint(1)
	items := []models.Laptop{
		{DonorID: &donorID, Status: models.ItemStatusAvailable, Note: "tiep nhan tu Le Van C"},
		{DonorID: &donorID, Status: models.ItemStatusAvailable, Note: "tiep nhan tu Le Van C"},
	}
	require.NoError(t, repo.CreateLaptops(ctx, items))

	all, err := repo.AllLaptops(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, item := range all {
		assert.Equal(t, models.ItemStatusAvailable, item.Status)
	}
}

func TestInventoryRepository_ReserveComponent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInventoryRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateComponents(ctx, []models.Component{
		{Status: models.ItemStatusAvailable, Note: "RAM 8GB"},
	}))

	all, err := repo.AllComponents(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	id := all[0].ID

	reserved, err := repo.ReserveComponent(ctx, id, "Pham Van D", "0904444444")
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusReserved, reserved.Status)
	assert.Equal(t, "Pham Van D", reserved.SupporterName)
	assert.Equal(t, "0904444444", reserved.SupporterPhone)

	// Second registration for the same component loses the race.
	_, err = repo.ReserveComponent(ctx, id, "Someone Else", "0905555555")
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)

	// Unknown component id.
	_, err = repo.ReserveComponent(ctx, 999, "X", "Y")
	require.Error(t, err)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestInventoryRepository_StatusCounts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInventoryRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateLaptops(ctx, []models.Laptop{
		{Status: models.ItemStatusAvailable},
		{Status: models.ItemStatusAvailable},
		{Status: models.ItemStatusDelivered},
	}))

	counts, err := repo.LaptopStatusCounts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[models.ItemStatusAvailable])
	assert.EqualValues(t, 1, counts[models.ItemStatusDelivered])
	assert.EqualValues(t, 0, counts[models.ItemStatusAssigned])
}

func TestInventoryRepository_ListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInventoryRepository(db)
	ctx := context.Background()

	donorA := uint(10)
	donorB := uint(20)
	require.NoError(t, repo.CreateMotorbikes(ctx, []models.Motorbike{
		{DonorID: &donorA, Status: models.ItemStatusAvailable},
		{DonorID: &donorB, Status: models.ItemStatusDelivered},
	}))

	byDonor, total, err := repo.ListMotorbikes(ctx, InventoryFilter{DonorID: &donorA})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, byDonor, 1)

	byStatus, total, err := repo.ListMotorbikes(ctx, InventoryFilter{Status: models.ItemStatusDelivered})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, byStatus, 1)
	assert.Equal(t, donorB, *byStatus[0].DonorID)
}

func TestInventoryRepository_TuitionPledge(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInventoryRepository(db)
	ctx := context.Background()

	pledge := &models.TuitionPledge{
		Status:    models.PledgeStatusPledged,
		Amount:    "500000",
		Frequency: "monthly",
	}
	require.NoError(t, repo.CreateTuitionPledge(ctx, pledge))
	require.NotZero(t, pledge.ID)

	got, err := repo.GetTuitionPledge(ctx, pledge.ID)
	require.NoError(t, err)
	assert.Equal(t, "500000", got.Amount)
	assert.EqualValues(t, 500000, models.ParseAmount(got.Amount))

	counts, err := repo.TuitionStatusCounts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts[models.PledgeStatusPledged])
}
