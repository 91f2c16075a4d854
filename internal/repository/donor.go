package repository

import (
	"context"
	"errors"
	"strings"

	"tiepbuoc/internal/cache"
	"tiepbuoc/internal/models"

	"gorm.io/gorm"
)

// DonorFilter narrows donor listings on the admin console.
type DonorFilter struct {
	SupportType models.SupportType
	Search      string
	ActiveOnly  bool
	Limit       int
	Offset      int
}

// DonorRepository defines persistence operations for donors.
type DonorRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Donor, error)
	GetActiveByPhone(ctx context.Context, phone string) (*models.Donor, error)
	Create(ctx context.Context, donor *models.Donor) error
	Update(ctx context.Context, donor *models.Donor) error
	Deactivate(ctx context.Context, id uint) error
	List(ctx context.Context, filter DonorFilter) ([]models.Donor, int64, error)
	CountActive(ctx context.Context) (int64, error)
}

type donorRepository struct {
	db *gorm.DB
}

// NewDonorRepository returns a new DonorRepository implementation.
func NewDonorRepository(db *gorm.DB) DonorRepository {
	return &donorRepository{db: db}
}

func (r *donorRepository) GetByID(ctx context.Context, id uint) (*models.Donor, error) {
	var donor models.Donor
	key := cache.DonorKey(id)

	err := cache.Aside(ctx, key, &donor, cache.DonorTTL, func() error {
		if err := readDB(r.db).WithContext(ctx).Preload("Area").First(&donor, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Donor", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &donor, nil
}

// GetActiveByPhone returns the active donor row for a phone number, or nil
// when none exists. Phone is the merge key for approvals, so this always hits
// the primary to avoid replica lag splitting one donor into two rows.
func (r *donorRepository) GetActiveByPhone(ctx context.Context, phone string) (*models.Donor, error) {
	var donor models.Donor
	err := r.db.WithContext(ctx).
		Where("phone = ? AND is_active = ?", phone, true).
		Order("created_at ASC").
		First(&donor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &donor, nil
}

func (r *donorRepository) Create(ctx context.Context, donor *models.Donor) error {
	if err := r.db.WithContext(ctx).Create(donor).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *donorRepository) Update(ctx context.Context, donor *models.Donor) error {
	if err := r.db.WithContext(ctx).Save(donor).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateDonor(ctx, donor.ID, donor.Phone)
	return nil
}

func (r *donorRepository) Deactivate(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&models.Donor{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Donor", id)
	}
	cache.Invalidate(ctx, cache.DonorKey(id))
	return nil
}

func (r *donorRepository) List(ctx context.Context, filter DonorFilter) ([]models.Donor, int64, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	q := readDB(r.db).WithContext(ctx).Model(&models.Donor{})
	if filter.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if filter.SupportType != "" {
		// SupportTypes is stored as a JSON array in a text column.
		q = q.Where("support_types LIKE ?", "%\""+string(filter.SupportType)+"\"%")
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(full_name) LIKE ? OR phone LIKE ?", like, "%"+s+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var donors []models.Donor
	if err := q.Preload("Area").
		Order("created_at DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&donors).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return donors, total, nil
}

func (r *donorRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Donor{}).
		Where("is_active = ?", true).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
