package repository

import (
	"context"
	"errors"
	"strings"

	"tiepbuoc/internal/models"

	"gorm.io/gorm"
)

// AreaRepository defines persistence operations for geographic areas.
type AreaRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Area, error)
	GetOrCreateByName(ctx context.Context, name string) (*models.Area, error)
	Create(ctx context.Context, area *models.Area) error
	Update(ctx context.Context, area *models.Area) error
	List(ctx context.Context) ([]models.Area, error)
}

type areaRepository struct {
	db *gorm.DB
}

// NewAreaRepository returns a new AreaRepository implementation.
func NewAreaRepository(db *gorm.DB) AreaRepository {
	return &areaRepository{db: db}
}

func (r *areaRepository) GetByID(ctx context.Context, id uint) (*models.Area, error) {
	var area models.Area
	if err := readDB(r.db).WithContext(ctx).First(&area, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Area", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &area, nil
}

// GetOrCreateByName resolves the registration form's free-text area box:
// an existing area wins, otherwise a new one is inserted.
func (r *areaRepository) GetOrCreateByName(ctx context.Context, name string) (*models.Area, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("Area name is required")
	}

	var area models.Area
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&area).Error
	if err == nil {
		return &area, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewInternalError(err)
	}

	area = models.Area{Name: name, IsActive: true}
	if err := r.db.WithContext(ctx).Create(&area).Error; err != nil {
		if isUniqueConstraintError(err) {
			// Lost a race with a concurrent insert; read the winner.
			if err := r.db.WithContext(ctx).Where("name = ?", name).First(&area).Error; err != nil {
				return nil, models.NewInternalError(err)
			}
			return &area, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &area, nil
}

func (r *areaRepository) Create(ctx context.Context, area *models.Area) error {
	if err := r.db.WithContext(ctx).Create(area).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Area already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *areaRepository) Update(ctx context.Context, area *models.Area) error {
	if err := r.db.WithContext(ctx).Save(area).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *areaRepository) List(ctx context.Context) ([]models.Area, error) {
	var areas []models.Area
	if err := readDB(r.db).WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&areas).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return areas, nil
}
