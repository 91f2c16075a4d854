package repository

import (
	"context"
	"errors"

	"tiepbuoc/internal/cache"
	"tiepbuoc/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingRepository defines persistence operations for app settings.
type SettingRepository interface {
	Get(ctx context.Context, key string) (*models.AppSetting, error)
	Set(ctx context.Context, key, value string) error
	List(ctx context.Context) ([]models.AppSetting, error)
}

type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository returns a new SettingRepository implementation.
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

// Get returns the setting for key, or nil when it was never set. Callers
// apply their own defaults for missing keys.
func (r *settingRepository) Get(ctx context.Context, key string) (*models.AppSetting, error) {
	var setting models.AppSetting
	cacheKey := cache.SettingKey(key)

	found := false
	err := cache.Aside(ctx, cacheKey, &setting, cache.SettingTTL, func() error {
		if err := readDB(r.db).WithContext(ctx).Where("key = ?", key).First(&setting).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Setting", key)
			}
			return models.NewInternalError(err)
		}
		found = true
		return nil
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
			return nil, nil
		}
		return nil, err
	}
	if !found && setting.Key == "" {
		return nil, nil
	}
	return &setting, nil
}

// Set upserts the value for key.
func (r *settingRepository) Set(ctx context.Context, key, value string) error {
	setting := models.AppSetting{Key: key, Value: value}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&setting).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateSetting(ctx, key)
	return nil
}

func (r *settingRepository) List(ctx context.Context) ([]models.AppSetting, error) {
	var settings []models.AppSetting
	if err := readDB(r.db).WithContext(ctx).Order("key ASC").Find(&settings).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return settings, nil
}
