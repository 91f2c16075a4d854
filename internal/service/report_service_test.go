package service

import (
	"context"
	"testing"
	"time"

	"tiepbuoc/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedNow is a Friday; the trailing week runs Saturday 22nd through Friday
// 28th, so the Sunday-first labels wrap.
var fixedNow = time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)

func dayPtr(t *testing.T, day int) *time.Time {
	t.Helper()
	d := time.Date(2026, time.August, day, 10, 0, 0, 0, time.UTC)
	return &d
}

func TestComputeReport_WeekdayLabelsSundayFirst(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db)

	report, err := svc.ComputeReport(context.Background(), fixedNow)
	require.NoError(t, err)
	require.Len(t, report.WeeklyData, 7)

	labels := make([]string, 7)
	for i, p := range report.WeeklyData {
		labels[i] = p.Label
	}
	assert.Equal(t, []string{"T7", "CN", "T2", "T3", "T4", "T5", "T6"}, labels)
	assert.Equal(t, "2026-08-22", report.WeeklyData[0].Date)
	assert.Equal(t, "2026-08-28", report.WeeklyData[6].Date)

	require.Len(t, report.MonthlyTrend, 6)
	assert.Equal(t, "2026-03", report.MonthlyTrend[0].Month)
	assert.Equal(t, "2026-08", report.MonthlyTrend[5].Month)
}

func TestComputeReport_WeeklyBuckets(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db)

	// Delivered inside the week (Tue 25th) -> bucket index 3.
	require.NoError(t, db.Create(&models.Laptop{
		Status:      models.ItemStatusDelivered,
		DeliveredAt: dayPtr(t, 25),
	}).Error)
	// Available items never qualify, whatever their dates say.
	require.NoError(t, db.Create(&models.Laptop{
		Status:     models.ItemStatusAvailable,
		ReceivedAt: dayPtr(t, 25),
	}).Error)
	// Delivered before the week: monthly bucket only.
	july := time.Date(2026, time.July, 10, 10, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.Laptop{
		Status:      models.ItemStatusDelivered,
		DeliveredAt: &july,
	}).Error)
	// Assigned motorbike on Sunday 23rd -> bucket index 1.
	require.NoError(t, db.Create(&models.Motorbike{
		Status:     models.ItemStatusAssigned,
		AssignedAt: dayPtr(t, 23),
	}).Error)

	report, err := svc.ComputeReport(context.Background(), fixedNow)
	require.NoError(t, err)

	assert.Equal(t, 1, report.WeeklyData[3].Laptops)
	assert.Equal(t, 1, report.WeeklyData[1].Motorbikes)

	weekLaptops := 0
	weekMotorbikes := 0
	for _, p := range report.WeeklyData {
		weekLaptops += p.Laptops
		weekMotorbikes += p.Motorbikes
	}
	assert.Equal(t, 1, weekLaptops, "bucket sum equals qualifying rows inside the window")
	assert.Equal(t, 1, weekMotorbikes)

	// Monthly trend: July laptop + August laptop + August motorbike.
	assert.Equal(t, 1, report.MonthlyTrend[4].Total)
	assert.Equal(t, 2, report.MonthlyTrend[5].Total)
	assert.Equal(t, 2, report.Distribution[models.SupportLaptop])
	assert.Equal(t, 1, report.Distribution[models.SupportMotorbike])
}

func TestComputeReport_RowWithoutResolvableDateExcluded(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db)

	laptop := &models.Laptop{Status: models.ItemStatusDelivered}
	require.NoError(t, db.Create(laptop).Error)
	// Strip every date column; the row must contribute to no windowed bucket.
	require.NoError(t, db.Model(laptop).UpdateColumn("updated_at", nil).Error)

	report, err := svc.ComputeReport(context.Background(), fixedNow)
	require.NoError(t, err)

	total := 0
	for _, p := range report.WeeklyData {
		total += p.Laptops
	}
	assert.Zero(t, total)
	for _, p := range report.MonthlyTrend {
		assert.Zero(t, p.Total)
	}
	assert.Zero(t, report.Distribution[models.SupportLaptop])
}

func TestComputeReport_TuitionAmounts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db)

	require.NoError(t, db.Create(&models.TuitionPledge{
		Status:    models.PledgeStatusPledged,
		Amount:    "500000",
		PledgedAt: dayPtr(t, 24),
	}).Error)
	// Unparsable amount still counts as an event, just contributes 0 money.
	require.NoError(t, db.Create(&models.TuitionPledge{
		Status:    models.PledgeStatusPaid,
		Amount:    "chưa rõ",
		PaidAt:    dayPtr(t, 26),
	}).Error)
	// Cancelled pledges never qualify.
	require.NoError(t, db.Create(&models.TuitionPledge{
		Status:    models.PledgeStatusCancelled,
		Amount:    "999999",
		PledgedAt: dayPtr(t, 24),
	}).Error)

	report, err := svc.ComputeReport(context.Background(), fixedNow)
	require.NoError(t, err)

	assert.EqualValues(t, 500000, report.Summary.TuitionThisWeek)
	assert.EqualValues(t, 500000, report.Summary.TuitionThisMonth)
	assert.Equal(t, 2, report.Distribution[models.SupportTuition])
	assert.Equal(t, 2, report.WeeklyBreakdown[models.SupportTuition].CompletedThisWeek)
}

func TestComputeReport_NewEntitiesAndLiveCounts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db)

	require.NoError(t, db.Create(&models.Donor{
		FullName: "Le Van C", Phone: "0900000000", IsActive: true,
		CreatedAt: *dayPtr(t, 26),
	}).Error)
	// Outside the trailing week.
	require.NoError(t, db.Create(&models.Donor{
		FullName: "Old Donor", Phone: "0901111111", IsActive: true,
		CreatedAt: *dayPtr(t, 10),
	}).Error)
	require.NoError(t, db.Create(&models.Student{
		FullName: "Nguyen Thi D", Phone: "0912222222", IsActive: true,
		NeedLaptop: true, CreatedAt: *dayPtr(t, 27),
	}).Error)
	require.NoError(t, db.Create(&models.Laptop{
		Status:     models.ItemStatusAssigned,
		AssignedAt: dayPtr(t, 25),
	}).Error)

	report, err := svc.ComputeReport(context.Background(), fixedNow)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Summary.NewDonorsThisWeek)
	assert.Equal(t, 1, report.Summary.NewStudentsThisWeek)
	assert.Equal(t, 1, report.WeeklyData[4].NewDonors)
	assert.Equal(t, 1, report.WeeklyData[5].NewStudents)

	assert.EqualValues(t, 2, report.Summary.ActiveDonors)
	assert.EqualValues(t, 1, report.Summary.ActiveStudents)
	assert.EqualValues(t, 1, report.WeeklyBreakdown[models.SupportLaptop].InProgress)
	assert.EqualValues(t, 1, report.WeeklyBreakdown[models.SupportLaptop].StillNeeded)
	assert.EqualValues(t, 0, report.WeeklyBreakdown[models.SupportMotorbike].StillNeeded)
}

func TestDashboard_UsesComputeReport(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db)

	report, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	require.Len(t, report.WeeklyData, 7)
	require.Len(t, report.MonthlyTrend, 6)
}
