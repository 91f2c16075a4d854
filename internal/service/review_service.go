// Package service holds the application's business workflows on top of the
// repository layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tiepbuoc/internal/cache"
	"tiepbuoc/internal/middleware"
	"tiepbuoc/internal/models"
	"tiepbuoc/internal/notifications"

	"gorm.io/gorm"
)

// ReviewService promotes pending applications into long-lived donor/student
// records. Approval runs the merge and the inventory fan-out inside one
// transaction, with a status guard on the application row so a duplicate or
// concurrent review can never re-run the side effects.
type ReviewService struct {
	db       *gorm.DB
	notifier *notifications.Notifier
}

// NewReviewService returns a ReviewService bound to the given DB handle.
func NewReviewService(db *gorm.DB, notifier *notifications.Notifier) *ReviewService {
	return &ReviewService{db: db, notifier: notifier}
}

// ReviewResult reports what an approval produced.
type ReviewResult struct {
	Application *models.Application `json:"application"`
	DonorID     *uint               `json:"donor_id,omitempty"`
	StudentID   *uint               `json:"student_id,omitempty"`
	// Merged is true when the approval folded into an existing row instead of
	// creating a new one.
	Merged bool `json:"merged"`
}

// Approve transitions a pending application to approved and materializes or
// merges the corresponding donor/student plus dependent inventory rows.
func (s *ReviewService) Approve(ctx context.Context, applicationID, reviewerID uint) (*ReviewResult, error) {
	result := &ReviewResult{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		app, err := s.claimApplication(ctx, tx, applicationID, reviewerID, models.ApplicationStatusApproved, "")
		if err != nil {
			return err
		}
		result.Application = app

		switch app.Type {
		case models.ApplicationTypeDonor:
			donorID, merged, err := s.approveDonor(tx, app)
			if err != nil {
				return err
			}
			result.DonorID = &donorID
			result.Merged = merged
		case models.ApplicationTypeStudent:
			studentID, merged, err := s.approveStudent(tx, app)
			if err != nil {
				return err
			}
			result.StudentID = &studentID
			result.Merged = merged
		default:
			return models.NewValidationError("Unknown application type")
		}

		notification := &models.Notification{
			Type:    models.NotificationTypeReview,
			Title:   "Đơn đăng ký đã được duyệt",
			Message: fmt.Sprintf("Đơn #%d (%s) của %s đã được duyệt", app.ID, app.Type, app.FullName),
		}
		if err := tx.Create(notification).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterReview(ctx, result.Application, result.DonorID, result.StudentID, "approved")
	return result, nil
}

// Reject transitions a pending application to rejected, storing the reason
// verbatim. No donor/student/inventory rows are touched.
func (s *ReviewService) Reject(ctx context.Context, applicationID, reviewerID uint, reason string) (*models.Application, error) {
	var app *models.Application

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		claimed, err := s.claimApplication(ctx, tx, applicationID, reviewerID, models.ApplicationStatusRejected, reason)
		if err != nil {
			return err
		}
		app = claimed

		notification := &models.Notification{
			Type:    models.NotificationTypeReview,
			Title:   "Đơn đăng ký đã bị từ chối",
			Message: fmt.Sprintf("Đơn #%d (%s) của %s đã bị từ chối", app.ID, app.Type, app.FullName),
		}
		if err := tx.Create(notification).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterReview(ctx, app, nil, nil, "rejected")
	return app, nil
}

// claimApplication loads the application and flips it out of pending with a
// guarded UPDATE. RowsAffected == 0 means another review got there first; the
// caller gets a conflict error and no side effects run.
func (s *ReviewService) claimApplication(
	ctx context.Context,
	tx *gorm.DB,
	applicationID, reviewerID uint,
	target models.ApplicationStatus,
	reason string,
) (*models.Application, error) {
	var app models.Application
	if err := tx.First(&app, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Application", applicationID)
		}
		return nil, models.NewInternalError(err)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":              target,
		"reviewed_at":         now,
		"reviewed_by_user_id": reviewerID,
		"updated_at":          now,
	}
	if reason != "" {
		updates["rejection_reason"] = reason
	}

	res := tx.Model(&models.Application{}).
		Where("id = ? AND status = ?", applicationID, models.ApplicationStatusPending).
		Updates(updates)
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		middleware.Logger.WarnContext(ctx, "application already reviewed, skipping",
			slog.Uint64("application_id", uint64(applicationID)),
			slog.String("current_status", string(app.Status)),
			slog.Uint64("reviewer_id", uint64(reviewerID)),
		)
		return nil, models.NewConflictError("Application has already been reviewed")
	}

	app.Status = target
	app.ReviewedAt = &now
	app.ReviewedByUserID = &reviewerID
	if reason != "" {
		app.RejectionReason = reason
	}
	return &app, nil
}

func (s *ReviewService) approveDonor(tx *gorm.DB, app *models.Application) (uint, bool, error) {
	var donor models.Donor
	merged := false

	err := tx.Where("phone = ? AND is_active = ?", app.Phone, true).
		Order("created_at ASC").
		First(&donor).Error
	switch {
	case err == nil:
		donor.MergeApplication(app)
		if err := tx.Save(&donor).Error; err != nil {
			return 0, false, models.NewInternalError(err)
		}
		merged = true
	case errors.Is(err, gorm.ErrRecordNotFound):
		donor = *models.NewDonorFromApplication(app)
		if err := tx.Create(&donor).Error; err != nil {
			return 0, false, models.NewInternalError(err)
		}
	default:
		return 0, false, models.NewInternalError(err)
	}

	if err := s.fanOutInventory(tx, app, donor.ID); err != nil {
		return 0, false, err
	}
	return donor.ID, merged, nil
}

// fanOutInventory creates one inventory row per declared unit. Counts come
// from the triggering application's quantities, never from the merged donor
// totals.
func (s *ReviewService) fanOutInventory(tx *gorm.DB, app *models.Application, donorID uint) error {
	now := time.Now()
	note := fmt.Sprintf("Tiếp nhận từ %s", app.FullName)

	if app.SupportTypes.Contains(models.SupportLaptop) {
		if n := app.Quantity(models.SupportLaptop); n > 0 {
			items := make([]models.Laptop, n)
			for i := range items {
				items[i] = models.Laptop{
					DonorID:    &donorID,
					Status:     models.ItemStatusAvailable,
					Note:       note,
					ReceivedAt: &now,
				}
			}
			if err := tx.Create(&items).Error; err != nil {
				return models.NewInternalError(err)
			}
		}
	}

	if app.SupportTypes.Contains(models.SupportMotorbike) {
		if n := app.Quantity(models.SupportMotorbike); n > 0 {
			items := make([]models.Motorbike, n)
			for i := range items {
				items[i] = models.Motorbike{
					DonorID:    &donorID,
					Status:     models.ItemStatusAvailable,
					Note:       note,
					ReceivedAt: &now,
				}
			}
			if err := tx.Create(&items).Error; err != nil {
				return models.NewInternalError(err)
			}
		}
	}

	if app.SupportTypes.Contains(models.SupportComponents) {
		if n := app.Quantity(models.SupportComponents); n > 0 {
			items := make([]models.Component, n)
			for i := range items {
				items[i] = models.Component{
					DonorID:    &donorID,
					Status:     models.ItemStatusAvailable,
					Note:       note,
					ReceivedAt: &now,
				}
			}
			if err := tx.Create(&items).Error; err != nil {
				return models.NewInternalError(err)
			}
		}
	}

	if app.SupportTypes.Contains(models.SupportTuition) {
		frequency := app.TuitionFrequency
		if frequency == "" {
			frequency = app.Frequency
		}
		pledge := models.TuitionPledge{
			DonorID:   &donorID,
			Status:    models.PledgeStatusPledged,
			Amount:    app.TuitionAmount,
			Frequency: frequency,
			Note:      note,
			PledgedAt: &now,
		}
		if err := tx.Create(&pledge).Error; err != nil {
			return models.NewInternalError(err)
		}
	}

	return nil
}

func (s *ReviewService) approveStudent(tx *gorm.DB, app *models.Application) (uint, bool, error) {
	var student models.Student
	merged := false

	err := tx.Where("phone = ? AND is_active = ?", app.Phone, true).
		Order("created_at ASC").
		First(&student).Error
	switch {
	case err == nil:
		student.MergeApplication(app)
		if err := tx.Save(&student).Error; err != nil {
			return 0, false, models.NewInternalError(err)
		}
		merged = true
	case errors.Is(err, gorm.ErrRecordNotFound):
		student = *models.NewStudentFromApplication(app)
		if err := tx.Create(&student).Error; err != nil {
			return 0, false, models.NewInternalError(err)
		}
	default:
		return 0, false, models.NewInternalError(err)
	}

	return student.ID, merged, nil
}

// afterReview runs the post-commit side effects: cache invalidation, metrics
// and the admin event. Failures here are logged, never surfaced; the review
// itself is already durable.
func (s *ReviewService) afterReview(ctx context.Context, app *models.Application, donorID, studentID *uint, outcome string) {
	if app == nil {
		return
	}

	cache.InvalidateApplication(ctx, app.ID)
	if donorID != nil {
		cache.InvalidateDonor(ctx, *donorID, app.Phone)
	}
	if studentID != nil {
		cache.InvalidateStudent(ctx, *studentID)
	}
	cache.InvalidateReports(ctx)

	middleware.ApplicationsReviewed.WithLabelValues(string(app.Type), outcome).Inc()

	event := notifications.Event{
		Type:    models.NotificationTypeReview,
		Title:   fmt.Sprintf("Application %s", outcome),
		Message: fmt.Sprintf("Đơn #%d của %s: %s", app.ID, app.FullName, outcome),
		RefID:   app.ID,
	}
	if err := s.notifier.PublishAdmin(ctx, event); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish review event",
			slog.Uint64("application_id", uint64(app.ID)),
			slog.String("error", err.Error()),
		)
	}
}
