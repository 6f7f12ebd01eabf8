package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/home-scheduler/internal/models"
)

type NotificationLogGormRepository struct {
	db *gorm.DB
}

func NewNotificationLogGormRepository(db *gorm.DB) *NotificationLogGormRepository {
	return &NotificationLogGormRepository{db: db}
}

func (r *NotificationLogGormRepository) SaveNotificationLog(
	ctx context.Context,
	entry *models.NotificationLog,
) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *NotificationLogGormRepository) ListBySchedule(
	ctx context.Context,
	scheduleID uint,
) ([]models.NotificationLog, error) {

	var logs []models.NotificationLog
	if err := r.db.WithContext(ctx).
		Where("schedule_id = ?", scheduleID).
		Order("created_at ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// PurgeOlderThan remove o histórico de envios anterior ao corte
func (r *NotificationLogGormRepository) PurgeOlderThan(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.NotificationLog{})

	return res.RowsAffected, res.Error
}
