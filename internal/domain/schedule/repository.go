package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/home-scheduler/internal/models"
)

var ErrNotFound = errors.New("record not found")

// StatusUpdate é aplicada somente se o status atual estiver em From
type StatusUpdate struct {
	ScheduleID uint
	From       []Status
	To         Status
	ProviderID *uint
}

type ServiceUsage struct {
	ServiceID uint   `json:"serviceId"`
	Name      string `json:"name"`
	Count     int64  `gorm:"column:usage_count" json:"count"`
}

type ListFilter struct {
	UserID     *uint
	ProviderID *uint
	Statuses   []Status
	DateFrom   *time.Time
	OrderDesc  bool
	Limit      int
	WithJoins  bool
}

type Repository interface {
	// -------- Schedule (read) --------
	GetSchedule(
		ctx context.Context,
		id uint,
	) (*models.Schedule, error)

	ListSchedules(
		ctx context.Context,
		filter ListFilter,
	) ([]models.Schedule, error)

	CountSchedules(
		ctx context.Context,
	) (int64, error)

	TopServices(
		ctx context.Context,
		limit int,
	) ([]ServiceUsage, error)

	// -------- Schedule (write) --------
	CreateSchedule(
		ctx context.Context,
		s *models.Schedule,
	) error

	UpdateScheduleFields(
		ctx context.Context,
		id uint,
		fields map[string]any,
	) error

	// CompareAndSetStatus retorna false quando o status atual já não está em From
	CompareAndSetStatus(
		ctx context.Context,
		upd StatusUpdate,
	) (bool, error)

	DeleteSchedule(
		ctx context.Context,
		id uint,
	) error

	// -------- Lookups --------
	GetUser(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	GetAddress(
		ctx context.Context,
		id uint,
	) (*models.Address, error)

	GetService(
		ctx context.Context,
		id uint,
	) (*models.Service, error)
}
