package repository

import (
	"context"
	"errors"
	"strings"

	"tiepbuoc/internal/cache"
	"tiepbuoc/internal/models"

	"gorm.io/gorm"
)

// StudentFilter narrows student listings on the admin console.
type StudentFilter struct {
	NeedType   models.SupportType
	Search     string
	ActiveOnly bool
	Limit      int
	Offset     int
}

// StudentRepository defines persistence operations for students.
type StudentRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Student, error)
	GetActiveByPhone(ctx context.Context, phone string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Deactivate(ctx context.Context, id uint) error
	List(ctx context.Context, filter StudentFilter) ([]models.Student, int64, error)
	ListActive(ctx context.Context) ([]models.Student, error)
	CountActive(ctx context.Context) (int64, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository returns a new StudentRepository implementation.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (*models.Student, error) {
	var student models.Student
	key := cache.StudentKey(id)

	err := cache.Aside(ctx, key, &student, cache.StudentTTL, func() error {
		if err := readDB(r.db).WithContext(ctx).Preload("Area").First(&student, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Student", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// GetActiveByPhone returns the active student row for a phone number, or nil
// when none exists. Always reads the primary, same as donors.
func (r *studentRepository) GetActiveByPhone(ctx context.Context, phone string) (*models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).
		Where("phone = ? AND is_active = ?", phone, true).
		Order("created_at ASC").
		First(&student).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &student, nil
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	if err := r.db.WithContext(ctx).Create(student).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *studentRepository) Update(ctx context.Context, student *models.Student) error {
	if err := r.db.WithContext(ctx).Save(student).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateStudent(ctx, student.ID)
	return nil
}

func (r *studentRepository) Deactivate(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Student", id)
	}
	cache.InvalidateStudent(ctx, id)
	return nil
}

func (r *studentRepository) List(ctx context.Context, filter StudentFilter) ([]models.Student, int64, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	q := readDB(r.db).WithContext(ctx).Model(&models.Student{})
	if filter.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	switch filter.NeedType {
	case models.SupportLaptop:
		q = q.Where("need_laptop = ?", true)
	case models.SupportMotorbike:
		q = q.Where("need_motorbike = ?", true)
	case models.SupportComponents:
		q = q.Where("need_components = ?", true)
	case models.SupportTuition:
		q = q.Where("need_tuition = ?", true)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(full_name) LIKE ? OR phone LIKE ?", like, "%"+s+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var students []models.Student
	if err := q.Preload("Area").
		Order("created_at DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&students).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return students, total, nil
}

// ListActive returns every active student, used by the anonymized public list.
func (r *studentRepository) ListActive(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	if err := readDB(r.db).WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&students).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return students, nil
}

func (r *studentRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Student{}).
		Where("is_active = ?", true).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
