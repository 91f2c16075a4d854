package repository

import (
	"context"
	"errors"
	"time"

	"tiepbuoc/internal/models"

	"gorm.io/gorm"
)

// InventoryFilter narrows inventory listings on the admin console.
type InventoryFilter struct {
	Status    string
	DonorID   *uint
	StudentID *uint
	Limit     int
	Offset    int
}

// StatusCounts maps an inventory status to its row count.
type StatusCounts map[string]int64

// InventoryRepository defines persistence operations for the four support
// inventories. Laptops, motorbikes and components are unit rows; tuition is
// tracked as pledges.
type InventoryRepository interface {
	CreateLaptops(ctx context.Context, items []models.Laptop) error
	CreateMotorbikes(ctx context.Context, items []models.Motorbike) error
	CreateComponents(ctx context.Context, items []models.Component) error
	CreateTuitionPledge(ctx context.Context, pledge *models.TuitionPledge) error

	GetLaptop(ctx context.Context, id uint) (*models.Laptop, error)
	GetMotorbike(ctx context.Context, id uint) (*models.Motorbike, error)
	GetComponent(ctx context.Context, id uint) (*models.Component, error)
	GetTuitionPledge(ctx context.Context, id uint) (*models.TuitionPledge, error)

	UpdateLaptop(ctx context.Context, item *models.Laptop) error
	UpdateMotorbike(ctx context.Context, item *models.Motorbike) error
	UpdateComponent(ctx context.Context, item *models.Component) error
	UpdateTuitionPledge(ctx context.Context, pledge *models.TuitionPledge) error

	ListLaptops(ctx context.Context, filter InventoryFilter) ([]models.Laptop, int64, error)
	ListMotorbikes(ctx context.Context, filter InventoryFilter) ([]models.Motorbike, int64, error)
	ListComponents(ctx context.Context, filter InventoryFilter) ([]models.Component, int64, error)
	ListTuitionPledges(ctx context.Context, filter InventoryFilter) ([]models.TuitionPledge, int64, error)

	ListAvailableComponents(ctx context.Context) ([]models.Component, error)
	ReserveComponent(ctx context.Context, id uint, supporterName, supporterPhone string) (*models.Component, error)

	LaptopStatusCounts(ctx context.Context) (StatusCounts, error)
	MotorbikeStatusCounts(ctx context.Context) (StatusCounts, error)
	ComponentStatusCounts(ctx context.Context) (StatusCounts, error)
	TuitionStatusCounts(ctx context.Context) (StatusCounts, error)

	AllLaptops(ctx context.Context) ([]models.Laptop, error)
	AllMotorbikes(ctx context.Context) ([]models.Motorbike, error)
	AllComponents(ctx context.Context) ([]models.Component, error)
	AllTuitionPledges(ctx context.Context) ([]models.TuitionPledge, error)
}

type inventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository returns a new InventoryRepository implementation.
func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) CreateLaptops(ctx context.Context, items []models.Laptop) error {
	if len(items) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&items).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *inventoryRepository) CreateMotorbikes(ctx context.Context, items []models.Motorbike) error {
	if len(items) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&items).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *inventoryRepository) CreateComponents(ctx context.Context, items []models.Component) error {
	if len(items) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&items).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *inventoryRepository) CreateTuitionPledge(ctx context.Context, pledge *models.TuitionPledge) error {
	if err := r.db.WithContext(ctx).Create(pledge).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *inventoryRepository) GetLaptop(ctx context.Context, id uint) (*models.Laptop, error) {
	var item models.Laptop
	if err := readDB(r.db).WithContext(ctx).Preload("Donor").Preload("Student").First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Laptop", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &item, nil
}

func (r *inventoryRepository) GetMotorbike(ctx context.Context, id uint) (*models.Motorbike, error) {
	var item models.Motorbike
	if err := readDB(r.db).WithContext(ctx).Preload("Donor").Preload("Student").First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Motorbike", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &item, nil
}

func (r *inventoryRepository) GetComponent(ctx context.Context, id uint) (*models.Component, error) {
	var item models.Component
	if err := readDB(r.db).WithContext(ctx).Preload("Donor").Preload("Student").First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Component", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &item, nil
}

func (r *inventoryRepository) GetTuitionPledge(ctx context.Context, id uint) (*models.TuitionPledge, error) {
	var pledge models.TuitionPledge
	if err := readDB(r.db).WithContext(ctx).Preload("Donor").Preload("Student").First(&pledge, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("TuitionPledge", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &pledge, nil
}

func (r *inventoryRepository) UpdateLaptop(ctx context.Context, item *models.Laptop) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *inventoryRepository) UpdateMotorbike(ctx context.Context, item *models.Motorbike) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *inventoryRepository) UpdateComponent(ctx context.Context, item *models.Component) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *inventoryRepository) UpdateTuitionPledge(ctx context.Context, pledge *models.TuitionPledge) error {
	if err := r.db.WithContext(ctx).Save(pledge).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func applyInventoryFilter(q *gorm.DB, filter InventoryFilter) (*gorm.DB, int) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.DonorID != nil {
		q = q.Where("donor_id = ?", *filter.DonorID)
	}
	if filter.StudentID != nil {
		q = q.Where("student_id = ?", *filter.StudentID)
	}
	return q, limit
}

func (r *inventoryRepository) ListLaptops(ctx context.Context, filter InventoryFilter) ([]models.Laptop, int64, error) {
	q, limit := applyInventoryFilter(readDB(r.db).WithContext(ctx).Model(&models.Laptop{}), filter)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var items []models.Laptop
	if err := q.Preload("Donor").Preload("Student").
		Order("created_at DESC").Limit(limit).Offset(filter.Offset).
		Find(&items).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return items, total, nil
}

func (r *inventoryRepository) ListMotorbikes(ctx context.Context, filter InventoryFilter) ([]models.Motorbike, int64, error) {
	q, limit := applyInventoryFilter(readDB(r.db).WithContext(ctx).Model(&models.Motorbike{}), filter)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var items []models.Motorbike
	if err := q.Preload("Donor").Preload("Student").
		Order("created_at DESC").Limit(limit).Offset(filter.Offset).
		Find(&items).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return items, total, nil
}

func (r *inventoryRepository) ListComponents(ctx context.Context, filter InventoryFilter) ([]models.Component, int64, error) {
	q, limit := applyInventoryFilter(readDB(r.db).WithContext(ctx).Model(&models.Component{}), filter)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var items []models.Component
	if err := q.Preload("Donor").Preload("Student").
		Order("created_at DESC").Limit(limit).Offset(filter.Offset).
		Find(&items).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return items, total, nil
}

func (r *inventoryRepository) ListTuitionPledges(ctx context.Context, filter InventoryFilter) ([]models.TuitionPledge, int64, error) {
	q, limit := applyInventoryFilter(readDB(r.db).WithContext(ctx).Model(&models.TuitionPledge{}), filter)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var pledges []models.TuitionPledge
	if err := q.Preload("Donor").Preload("Student").
		Order("created_at DESC").Limit(limit).Offset(filter.Offset).
		Find(&pledges).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return pledges, total, nil
}

// ListAvailableComponents returns components strangers can register to supply.
func (r *inventoryRepository) ListAvailableComponents(ctx context.Context) ([]models.Component, error) {
	var items []models.Component
	if err := readDB(r.db).WithContext(ctx).
		Where("status = ?", models.ItemStatusAvailable).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return items, nil
}

// ReserveComponent flips an available component to reserved and records the
// supporter's contact details. The guarded UPDATE makes concurrent public
// registrations for the same component race safely: exactly one wins.
func (r *inventoryRepository) ReserveComponent(ctx context.Context, id uint, supporterName, supporterPhone string) (*models.Component, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&models.Component{}).
		Where("id = ? AND status = ?", id, models.ItemStatusAvailable).
		Updates(map[string]interface{}{
			"status":          models.ItemStatusReserved,
			"supporter_name":  supporterName,
			"supporter_phone": supporterPhone,
			"updated_at":      now,
		})
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		var existing models.Component
		if err := r.db.WithContext(ctx).First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("Component", id)
			}
			return nil, models.NewInternalError(err)
		}
		return nil, models.NewValidationError("Component is no longer available")
	}
	return r.GetComponent(ctx, id)
}

func (r *inventoryRepository) statusCounts(ctx context.Context, model interface{}) (StatusCounts, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	if err := readDB(r.db).WithContext(ctx).
		Model(model).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	counts := make(StatusCounts, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

func (r *inventoryRepository) LaptopStatusCounts(ctx context.Context) (StatusCounts, error) {
	return r.statusCounts(ctx, &models.Laptop{})
}

func (r *inventoryRepository) MotorbikeStatusCounts(ctx context.Context) (StatusCounts, error) {
	return r.statusCounts(ctx, &models.Motorbike{})
}

func (r *inventoryRepository) ComponentStatusCounts(ctx context.Context) (StatusCounts, error) {
	return r.statusCounts(ctx, &models.Component{})
}

func (r *inventoryRepository) TuitionStatusCounts(ctx context.Context) (StatusCounts, error) {
	return r.statusCounts(ctx, &models.TuitionPledge{})
}

// The All* methods feed the reporting aggregator, which resolves event dates
// in memory. The dataset is charity-scale; paging it would cost more than it
// saves.

func (r *inventoryRepository) AllLaptops(ctx context.Context) ([]models.Laptop, error) {
	var items []models.Laptop
	if err := readDB(r.db).WithContext(ctx).Find(&items).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return items, nil
}

func (r *inventoryRepository) AllMotorbikes(ctx context.Context) ([]models.Motorbike, error) {
	var items []models.Motorbike
	if err := readDB(r.db).WithContext(ctx).Find(&items).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return items, nil
}

func (r *inventoryRepository) AllComponents(ctx context.Context) ([]models.Component, error) {
	var items []models.Component
	if err := readDB(r.db).WithContext(ctx).Find(&items).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return items, nil
}

func (r *inventoryRepository) AllTuitionPledges(ctx context.Context) ([]models.TuitionPledge, error) {
	var pledges []models.TuitionPledge
	if err := readDB(r.db).WithContext(ctx).Find(&pledges).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return pledges, nil
}
