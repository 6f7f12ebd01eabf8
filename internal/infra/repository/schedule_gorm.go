package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/home-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/home-scheduler/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// --------------------------------------------------
// Schedule (read)
// --------------------------------------------------

func (r *ScheduleGormRepository) GetSchedule(
	ctx context.Context,
	id uint,
) (*models.Schedule, error) {

	var s models.Schedule
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *ScheduleGormRepository) ListSchedules(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Schedule, error) {

	q := r.db.WithContext(ctx).Model(&models.Schedule{})

	if f.WithJoins {
		q = q.
			Preload("Address").
			Preload("Service.Category").
			Preload("Provider").
			Preload("User")
	}

	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.ProviderID != nil {
		q = q.Where("provider_id = ?", *f.ProviderID)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", domain.StatusStrings(f.Statuses))
	}
	if f.DateFrom != nil {
		q = q.Where("date >= ?", *f.DateFrom)
	}

	if f.OrderDesc {
		q = q.Order("date DESC").Order("time DESC")
	} else {
		q = q.Order("date ASC").Order("time ASC")
	}

	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var out []models.Schedule
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ScheduleGormRepository) CountSchedules(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Schedule{}).
		Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *ScheduleGormRepository) TopServices(
	ctx context.Context,
	limit int,
) ([]domain.ServiceUsage, error) {

	var out []domain.ServiceUsage
	err := r.db.WithContext(ctx).
		Table("schedules").
		Select("services.id AS service_id, services.name AS name, COUNT(schedules.id) AS usage_count").
		Joins("JOIN services ON services.id = schedules.service_id").
		Group("services.id, services.name").
		Order("usage_count DESC").
		Order("services.id ASC").
		Limit(limit).
		Scan(&out).Error

	if err != nil {
		return nil, err
	}
	return out, nil
}

// --------------------------------------------------
// Schedule (write)
// --------------------------------------------------

func (r *ScheduleGormRepository) CreateSchedule(
	ctx context.Context,
	s *models.Schedule,
) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *ScheduleGormRepository) UpdateScheduleFields(
	ctx context.Context,
	id uint,
	fields map[string]any,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Schedule{}).
		Where("id = ?", id).
		Updates(fields)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CompareAndSetStatus aplica a transição apenas se o status não mudou
// desde a leitura. O WHERE status IN (...) é o que impede duas transições
// concorrentes de vencerem.
func (r *ScheduleGormRepository) CompareAndSetStatus(
	ctx context.Context,
	upd domain.StatusUpdate,
) (bool, error) {

	fields := map[string]any{
		"status":     string(upd.To),
		"updated_at": time.Now(),
	}
	if upd.ProviderID != nil {
		fields["provider_id"] = *upd.ProviderID
	}

	res := r.db.WithContext(ctx).
		Model(&models.Schedule{}).
		Where("id = ? AND status IN ?", upd.ScheduleID, domain.StatusStrings(upd.From)).
		Updates(fields)

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *ScheduleGormRepository) DeleteSchedule(
	ctx context.Context,
	id uint,
) error {

	res := r.db.WithContext(ctx).Delete(&models.Schedule{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// Lookups
// --------------------------------------------------

func (r *ScheduleGormRepository) GetUser(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *ScheduleGormRepository) GetAddress(
	ctx context.Context,
	id uint,
) (*models.Address, error) {

	var a models.Address
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *ScheduleGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var s models.Service
	if err := r.db.WithContext(ctx).
		Preload("Category").
		First(&s, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

// Compile-time check
var _ domain.Repository = (*ScheduleGormRepository)(nil)
