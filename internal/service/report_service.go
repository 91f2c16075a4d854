package service

import (
	"context"
	"time"

	"tiepbuoc/internal/cache"
	"tiepbuoc/internal/models"

	"gorm.io/gorm"
)

// weekdayLabels is the Sunday-first label cycle the dashboard charts use.
var weekdayLabels = [7]string{"CN", "T2", "T3", "T4", "T5", "T6", "T7"}

// WeeklyPoint is one day of the trailing week.
type WeeklyPoint struct {
	Date        string `json:"date"`
	Label       string `json:"label"`
	Laptops     int    `json:"laptops"`
	Motorbikes  int    `json:"motorbikes"`
	NewStudents int    `json:"new_students"`
	NewDonors   int    `json:"new_donors"`
}

// MonthlyPoint is one month of the trailing six, with a combined count of all
// qualifying support events.
type MonthlyPoint struct {
	Month string `json:"month"`
	Total int    `json:"total"`
}

// CategoryBreakdown compares this week's completions against live counts.
type CategoryBreakdown struct {
	CompletedThisWeek int   `json:"completed_this_week"`
	InProgress        int64 `json:"in_progress"`
	StillNeeded       int64 `json:"still_needed"`
}

// ReportSummary is the flat scalar rollup at the top of the dashboard.
type ReportSummary struct {
	ActiveDonors        int64 `json:"active_donors"`
	ActiveStudents      int64 `json:"active_students"`
	PendingApplications int64 `json:"pending_applications"`
	NewDonorsThisWeek   int   `json:"new_donors_this_week"`
	NewStudentsThisWeek int   `json:"new_students_this_week"`
	TuitionThisWeek     int64 `json:"tuition_this_week"`
	TuitionThisMonth    int64 `json:"tuition_this_month"`
}

// DashboardReport is the bounded-window statistical summary for the admin
// reporting screen.
type DashboardReport struct {
	GeneratedAt     time.Time                            `json:"generated_at"`
	WeeklyData      []WeeklyPoint                        `json:"weekly_data"`
	MonthlyTrend    []MonthlyPoint                       `json:"monthly_trend"`
	Distribution    map[models.SupportType]int           `json:"distribution"`
	WeeklyBreakdown map[models.SupportType]CategoryBreakdown `json:"weekly_breakdown"`
	Summary         ReportSummary                        `json:"summary"`
}

// ReportService aggregates inventory, donor and student rows into the
// dashboard report. All bucketing happens in memory over charity-scale data.
type ReportService struct {
	db *gorm.DB
}

// NewReportService returns a ReportService bound to the given DB handle.
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// Dashboard returns the cached report, recomputing it on miss.
func (s *ReportService) Dashboard(ctx context.Context) (*DashboardReport, error) {
	var report DashboardReport
	err := cache.Aside(ctx, cache.DashboardReportKey, &report, cache.ReportTTL, func() error {
		computed, err := s.ComputeReport(ctx, time.Now())
		if err != nil {
			return err
		}
		report = *computed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// ComputeReport builds the report for a fixed now. The 7-day window is
// [now-6d, now] bucketed by calendar day; the 6-month window starts at the
// first day of the month five months before now. Rows whose event date cannot
// be resolved contribute to no windowed bucket. Live counts (in progress,
// still needed, totals) are independent queries, not derived from the
// windowed row set.
func (s *ReportService) ComputeReport(ctx context.Context, now time.Time) (*DashboardReport, error) {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	weekStart := today.AddDate(0, 0, -6)
	sixMonthsAgo := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, -5, 0)

	report := &DashboardReport{
		GeneratedAt:     now,
		WeeklyData:      make([]WeeklyPoint, 7),
		MonthlyTrend:    make([]MonthlyPoint, 6),
		Distribution:    make(map[models.SupportType]int),
		WeeklyBreakdown: make(map[models.SupportType]CategoryBreakdown),
	}

	for i := 0; i < 7; i++ {
		day := weekStart.AddDate(0, 0, i)
		report.WeeklyData[i] = WeeklyPoint{
			Date:  day.Format("2006-01-02"),
			Label: weekdayLabels[int(day.Weekday())],
		}
	}
	for i := 0; i < 6; i++ {
		report.MonthlyTrend[i] = MonthlyPoint{
			Month: sixMonthsAgo.AddDate(0, i, 0).Format("2006-01"),
		}
	}

	// dayIndex maps an event date into the weekly buckets; -1 means outside.
	dayIndex := func(t *time.Time) int {
		if t == nil {
			return -1
		}
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		if d.Before(weekStart) || d.After(today) {
			return -1
		}
		return int(d.Sub(weekStart).Hours() / 24)
	}
	monthIndex := func(t *time.Time) int {
		if t == nil {
			return -1
		}
		if t.Before(sixMonthsAgo) || t.After(now) {
			return -1
		}
		return int(t.Month()) - int(sixMonthsAgo.Month()) + 12*(t.Year()-sixMonthsAgo.Year())
	}

	breakdown := map[models.SupportType]*CategoryBreakdown{
		models.SupportLaptop:     {},
		models.SupportMotorbike:  {},
		models.SupportComponents: {},
		models.SupportTuition:    {},
	}

	var laptops []models.Laptop
	if err := s.db.WithContext(ctx).Find(&laptops).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for i := range laptops {
		l := &laptops[i]
		if l.Status != models.ItemStatusAssigned && l.Status != models.ItemStatusDelivered {
			continue
		}
		event := l.EventDate()
		if idx := dayIndex(event); idx >= 0 {
			report.WeeklyData[idx].Laptops++
			breakdown[models.SupportLaptop].CompletedThisWeek++
		}
		if idx := monthIndex(event); idx >= 0 && idx < 6 {
			report.MonthlyTrend[idx].Total++
			report.Distribution[models.SupportLaptop]++
		}
	}

	var motorbikes []models.Motorbike
	if err := s.db.WithContext(ctx).Find(&motorbikes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for i := range motorbikes {
		m := &motorbikes[i]
		if m.Status != models.ItemStatusAssigned && m.Status != models.ItemStatusDelivered {
			continue
		}
		event := m.EventDate()
		if idx := dayIndex(event); idx >= 0 {
			report.WeeklyData[idx].Motorbikes++
			breakdown[models.SupportMotorbike].CompletedThisWeek++
		}
		if idx := monthIndex(event); idx >= 0 && idx < 6 {
			report.MonthlyTrend[idx].Total++
			report.Distribution[models.SupportMotorbike]++
		}
	}

	var components []models.Component
	if err := s.db.WithContext(ctx).Find(&components).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for i := range components {
		c := &components[i]
		switch c.Status {
		case models.ItemStatusAssigned, models.ItemStatusDelivered, models.ItemStatusInstalled:
		default:
			continue
		}
		event := c.EventDate()
		if idx := dayIndex(event); idx >= 0 {
			breakdown[models.SupportComponents].CompletedThisWeek++
		}
		if idx := monthIndex(event); idx >= 0 && idx < 6 {
			report.MonthlyTrend[idx].Total++
			report.Distribution[models.SupportComponents]++
		}
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	var pledges []models.TuitionPledge
	if err := s.db.WithContext(ctx).Find(&pledges).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for i := range pledges {
		p := &pledges[i]
		switch p.Status {
		case models.PledgeStatusPledged, models.PledgeStatusPaid, models.PledgeStatusCompleted:
		default:
			continue
		}
		event := p.EventDate()
		amount := models.ParseAmount(p.Amount)
		if idx := dayIndex(event); idx >= 0 {
			breakdown[models.SupportTuition].CompletedThisWeek++
			report.Summary.TuitionThisWeek += amount
		}
		if idx := monthIndex(event); idx >= 0 && idx < 6 {
			report.MonthlyTrend[idx].Total++
			report.Distribution[models.SupportTuition]++
		}
		if event != nil && !event.Before(monthStart) && !event.After(now) {
			report.Summary.TuitionThisMonth += amount
		}
	}

	var donors []models.Donor
	if err := s.db.WithContext(ctx).Where("created_at >= ?", weekStart).Find(&donors).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for i := range donors {
		created := donors[i].CreatedAt
		if idx := dayIndex(&created); idx >= 0 {
			report.WeeklyData[idx].NewDonors++
			report.Summary.NewDonorsThisWeek++
		}
	}

	var students []models.Student
	if err := s.db.WithContext(ctx).Where("created_at >= ?", weekStart).Find(&students).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for i := range students {
		created := students[i].CreatedAt
		if idx := dayIndex(&created); idx >= 0 {
			report.WeeklyData[idx].NewStudents++
			report.Summary.NewStudentsThisWeek++
		}
	}

	if err := s.liveCounts(ctx, report, breakdown); err != nil {
		return nil, err
	}

	for t, b := range breakdown {
		report.WeeklyBreakdown[t] = *b
	}
	return report, nil
}

// liveCounts fills the unwindowed counters: totals, in-progress inventory and
// outstanding student needs.
func (s *ReportService) liveCounts(ctx context.Context, report *DashboardReport, breakdown map[models.SupportType]*CategoryBreakdown) error {
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.Donor{}).Where("is_active = ?", true).
		Count(&report.Summary.ActiveDonors).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := db.Model(&models.Student{}).Where("is_active = ?", true).
		Count(&report.Summary.ActiveStudents).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := db.Model(&models.Application{}).Where("status = ?", models.ApplicationStatusPending).
		Count(&report.Summary.PendingApplications).Error; err != nil {
		return models.NewInternalError(err)
	}

	if err := db.Model(&models.Laptop{}).Where("status = ?", models.ItemStatusAssigned).
		Count(&breakdown[models.SupportLaptop].InProgress).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := db.Model(&models.Motorbike{}).Where("status = ?", models.ItemStatusAssigned).
		Count(&breakdown[models.SupportMotorbike].InProgress).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := db.Model(&models.Component{}).Where("status = ?", models.ItemStatusAssigned).
		Count(&breakdown[models.SupportComponents].InProgress).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := db.Model(&models.TuitionPledge{}).Where("status = ?", models.PledgeStatusPledged).
		Count(&breakdown[models.SupportTuition].InProgress).Error; err != nil {
		return models.NewInternalError(err)
	}

	needs := []struct {
		t        models.SupportType
		need     string
		received string
	}{
		{models.SupportLaptop, "need_laptop", "laptop_received"},
		{models.SupportMotorbike, "need_motorbike", "motorbike_received"},
		{models.SupportComponents, "need_components", "components_received"},
		{models.SupportTuition, "need_tuition", "tuition_received"},
	}
	for _, n := range needs {
		if err := db.Model(&models.Student{}).
			Where("is_active = ? AND "+n.need+" = ? AND "+n.received+" = ?", true, true, false).
			Count(&breakdown[n.t].StillNeeded).Error; err != nil {
			return models.NewInternalError(err)
		}
	}
	return nil
}
