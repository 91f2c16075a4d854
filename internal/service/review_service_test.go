package service

import (
	"context"
	"testing"
	"time"

	"tiepbuoc/internal/models"
	"tiepbuoc/internal/notifications"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReviewService(db *gorm.DB) *ReviewService {
	return NewReviewService(db, notifications.NewNotifier(nil))
}

func createApplication(t *testing.T, db *gorm.DB, app *models.Application) *models.Application {
	t.Helper()
	if app.Status == "" {
		app.Status = models.ApplicationStatusPending
	}
	require.NoError(t, db.Create(app).Error)
	return app
}

func TestApprove_DonorFirstTime_CreatesDonorAndFansOutInventory(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db)
	ctx := context.Background()

	app := createApplication(t, db, &models.Application{
		Type:           models.ApplicationTypeDonor,
		FullName:       "Le Van C",
		Phone:          "0900000000",
		SupportTypes:   models.SupportTypeList{models.SupportLaptop},
		LaptopQuantity: intPtr(2),
	})

	result, err := svc.Approve(ctx, app.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, result.DonorID)
	assert.False(t, result.Merged)
	assert.Equal(t, models.ApplicationStatusApproved, result.Application.Status)
	require.NotNil(t, result.Application.ReviewedAt)

	var donors []models.Donor
	require.NoError(t, db.Find(&donors).Error)
	require.Len(t, donors, 1)
	require.NotNil(t, donors[0].LaptopQuantity)
	assert.Equal(t, 2, *donors[0].LaptopQuantity)

	var laptops []models.Laptop
	require.NoError(t, db.Find(&laptops).Error)
	require.Len(t, laptops, 2)
	for _, l := range laptops {
		assert.Equal(t, models.ItemStatusAvailable, l.Status)
		require.NotNil(t, l.DonorID)
		assert.Equal(t, *result.DonorID, *l.DonorID)
		assert.Contains(t, l.Note, "Le Van C")
	}
}

func TestApprove_DonorSecondTime_MergesByPhone(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db)
	ctx := context.Background()

	first := createApplication(t, db, &models.Application{
		Type:           models.ApplicationTypeDonor,
		FullName:       "Le Van C",
		Phone:          "0900000000",
		SupportTypes:   models.SupportTypeList{models.SupportLaptop},
		LaptopQuantity: intPtr(2),
	})
	firstResult, err := svc.Approve(ctx, first.ID, 1)
	require.NoError(t, err)

	second := createApplication(t, db, &models.Application{
		Type:          models.ApplicationTypeDonor,
		FullName:      "Le Van C",
		Phone:         "0900000000",
		SupportTypes:  models.SupportTypeList{models.SupportTuition},
		TuitionAmount: "500000",
	})
	secondResult, err := svc.Approve(ctx, second.ID, 1)
	require.NoError(t, err)
	assert.True(t, secondResult.Merged)
	assert.Equal(t, *firstResult.DonorID, *secondResult.DonorID)

	var donors []models.Donor
	require.NoError(t, db.Find(&donors).Error)
	require.Len(t, donors, 1, "same phone must never produce two active donor rows")
	donor := donors[0]
	assert.Equal(t, models.SupportTypeList{models.SupportLaptop, models.SupportTuition}, donor.SupportTypes)
	require.NotNil(t, donor.LaptopQuantity)
	assert.Equal(t, 2, *donor.LaptopQuantity)
	assert.Equal(t, "500000", donor.TuitionAmount)

	var laptopCount int64
	require.NoError(t, db.Model(&models.Laptop{}).Count(&laptopCount).Error)
	assert.EqualValues(t, 2, laptopCount, "second approval declares no laptops, so no new rows")

	var pledges []models.TuitionPledge
	require.NoError(t, db.Find(&pledges).Error)
	require.Len(t, pledges, 1)
	assert.Equal(t, models.PledgeStatusPledged, pledges[0].Status)
	assert.Equal(t, "500000", pledges[0].Amount)
	require.NotNil(t, pledges[0].DonorID)
	assert.Equal(t, *firstResult.DonorID, *pledges[0].DonorID)
}

func TestApprove_StudentMerge_ReceivedFlagsNeverRegressed(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db)
	ctx := context.Background()

	first := createApplication(t, db, &models.Application{
		Type:       models.ApplicationTypeStudent,
		FullName:   "Nguyen Thi D",
		Phone:      "0911111111",
		NeedLaptop: true,
	})
	firstResult, err := svc.Approve(ctx, first.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, firstResult.StudentID)

	// The student has since received their laptop.
	receivedAt := time.Now()
	require.NoError(t, db.Model(&models.Student{}).
		Where("id = ?", *firstResult.StudentID).
		Updates(map[string]interface{}{
			"laptop_received":    true,
			"laptop_received_at": receivedAt,
		}).Error)

	second := createApplication(t, db, &models.Application{
		Type:        models.ApplicationTypeStudent,
		FullName:    "Nguyen Thi D",
		Phone:       "0911111111",
		NeedLaptop:  false,
		NeedTuition: true,
	})
	secondResult, err := svc.Approve(ctx, second.ID, 1)
	require.NoError(t, err)
	assert.True(t, secondResult.Merged)
	assert.Equal(t, *firstResult.StudentID, *secondResult.StudentID)

	var students []models.Student
	require.NoError(t, db.Find(&students).Error)
	require.Len(t, students, 1)
	student := students[0]
	assert.True(t, student.LaptopReceived, "received flags survive merges")
	require.NotNil(t, student.LaptopReceivedAt)
	assert.True(t, student.NeedLaptop, "a need once declared is never retracted")
	assert.True(t, student.NeedTuition)
}

func TestReject_StoresReasonVerbatim_NoSideEffects(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db)
	ctx := context.Background()

	app := createApplication(t, db, &models.Application{
		Type:           models.ApplicationTypeDonor,
		FullName:       "Tran Van E",
		Phone:          "0922222222",
		SupportTypes:   models.SupportTypeList{models.SupportLaptop},
		LaptopQuantity: intPtr(3),
	})

	rejected, err := svc.Reject(ctx, app.ID, 2, "không đủ điều kiện")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusRejected, rejected.Status)
	assert.Equal(t, "không đủ điều kiện", rejected.RejectionReason)

	var stored models.Application
	require.NoError(t, db.First(&stored, app.ID).Error)
	assert.Equal(t, "không đủ điều kiện", stored.RejectionReason)
	require.NotNil(t, stored.ReviewedByUserID)
	assert.EqualValues(t, 2, *stored.ReviewedByUserID)

	var donorCount, laptopCount int64
	require.NoError(t, db.Model(&models.Donor{}).Count(&donorCount).Error)
	require.NoError(t, db.Model(&models.Laptop{}).Count(&laptopCount).Error)
	assert.Zero(t, donorCount)
	assert.Zero(t, laptopCount)
}

func TestReview_TerminalApplication_ConflictWithoutSideEffects(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db)
	ctx := context.Background()

	app := createApplication(t, db, &models.Application{
		Type:           models.ApplicationTypeDonor,
		FullName:       "Le Van C",
		Phone:          "0900000000",
		SupportTypes:   models.SupportTypeList{models.SupportLaptop},
		LaptopQuantity: intPtr(2),
	})

	_, err := svc.Approve(ctx, app.ID, 1)
	require.NoError(t, err)

	// Duplicate review: status guard refuses, fan-out must not repeat.
	_, err = svc.Approve(ctx, app.ID, 3)
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)

	_, err = svc.Reject(ctx, app.ID, 3, "muộn")
	require.Error(t, err)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)

	var laptopCount, donorCount int64
	require.NoError(t, db.Model(&models.Laptop{}).Count(&laptopCount).Error)
	require.NoError(t, db.Model(&models.Donor{}).Count(&donorCount).Error)
	assert.EqualValues(t, 2, laptopCount)
	assert.EqualValues(t, 1, donorCount)

	var stored models.Application
	require.NoError(t, db.First(&stored, app.ID).Error)
	assert.Equal(t, models.ApplicationStatusApproved, stored.Status)
	assert.Empty(t, stored.RejectionReason)
}

func TestApprove_UnknownApplication(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db)

	_, err := svc.Approve(context.Background(), 999, 1)
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestApprove_CreatesNotificationRow(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db)
	ctx := context.Background()

	app := createApplication(t, db, &models.Application{
		Type:     models.ApplicationTypeStudent,
		FullName: "Nguyen Thi D",
		Phone:    "0911111111",
	})
	_, err := svc.Approve(ctx, app.ID, 1)
	require.NoError(t, err)

	var notes []models.Notification
	require.NoError(t, db.Find(&notes).Error)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationTypeReview, notes[0].Type)
	assert.False(t, notes[0].IsRead)
}

func TestFanOut_QuantitiesComeFromApplicationNotMergedTotals(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db)
	ctx := context.Background()

	first := createApplication(t, db, &models.Application{
		Type:           models.ApplicationTypeDonor,
		FullName:       "Le Van C",
		Phone:          "0900000000",
		SupportTypes:   models.SupportTypeList{models.SupportLaptop},
		LaptopQuantity: intPtr(2),
	})
	_, err := svc.Approve(ctx, first.ID, 1)
	require.NoError(t, err)

	second := createApplication(t, db, &models.Application{
		Type:           models.ApplicationTypeDonor,
		FullName:       "Le Van C",
		Phone:          "0900000000",
		SupportTypes:   models.SupportTypeList{models.SupportLaptop},
		LaptopQuantity: intPtr(1),
	})
	_, err = svc.Approve(ctx, second.ID, 1)
	require.NoError(t, err)

	// Merged donor total is 3, but the second fan-out adds only the second
	// application's single unit.
	var donor models.Donor
	require.NoError(t, db.First(&donor).Error)
	require.NotNil(t, donor.LaptopQuantity)
	assert.Equal(t, 3, *donor.LaptopQuantity)

	var laptopCount int64
	require.NoError(t, db.Model(&models.Laptop{}).Count(&laptopCount).Error)
	assert.EqualValues(t, 3, laptopCount)
}
