package repository

import (
	"context"
	"errors"
	"testing"

	"tiepbuoc/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestApplicationRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)
	ctx := context.Background()

	app := &models.Application{
		Type:           models.ApplicationTypeDonor,
		FullName:       "Tran Thi B",
		Phone:          "0900000000",
		SupportTypes:   models.SupportTypeList{models.SupportLaptop},
		LaptopQuantity: intPtr(2),
		Status:         models.ApplicationStatusPending,
	}
	require.NoError(t, repo.Create(ctx, app))
	require.NotZero(t, app.ID)

	got, err := repo.GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tran Thi B", got.FullName)
	assert.Equal(t, models.ApplicationStatusPending, got.Status)
	assert.Equal(t, 2, got.Quantity(models.SupportLaptop))
}

func TestApplicationRepository_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)

	_, err := repo.GetByID(context.Background(), 999)
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestApplicationRepository_List_Filters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)
	ctx := context.Background()

	createPendingApplication(t, db, models.ApplicationTypeDonor, "0901111111")
	createPendingApplication(t, db, models.ApplicationTypeDonor, "0902222222")
	student := createPendingApplication(t, db, models.ApplicationTypeStudent, "0903333333")
	require.NoError(t, db.Model(student).Update("status", models.ApplicationStatusApproved).Error)

	donors, total, err := repo.List(ctx, ApplicationFilter{Type: models.ApplicationTypeDonor})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, donors, 2)

	pending, total, err := repo.List(ctx, ApplicationFilter{Status: models.ApplicationStatusPending})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, pending, 2)

	byPhone, total, err := repo.List(ctx, ApplicationFilter{Search: "0903333333"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, byPhone, 1)
	assert.Equal(t, models.ApplicationTypeStudent, byPhone[0].Type)
}

func TestApplicationRepository_List_Pagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		createPendingApplication(t, db, models.ApplicationTypeDonor, "090000000"+string(rune('0'+i)))
	}

	page, total, err := repo.List(ctx, ApplicationFilter{Limit: 2, Offset: 0})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, page, 2)

	rest, _, err := repo.List(ctx, ApplicationFilter{Limit: 100, Offset: 4})
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestApplicationRepository_CountByStatus(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewApplicationRepository(db)

	rows := sqlmock.NewRows([]string{"count"}).AddRow(3)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "applications"`).
		WillReturnRows(rows)

	count, err := repo.CountByStatus(context.Background(), models.ApplicationStatusPending)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueConstraintError(t *testing.T) {
	t.Parallel()
	assert.False(t, isUniqueConstraintError(nil))
	assert.False(t, isUniqueConstraintError(assert.AnError))
	assert.True(t, isUniqueConstraintError(errors.New(`duplicate key value violates unique constraint "idx_areas_name"`)))
	assert.True(t, isUniqueConstraintError(errors.New("ERROR: some failure (SQLSTATE 23505)")))
}
