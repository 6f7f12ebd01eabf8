package dto

import "github.com/BruksfildServices01/home-scheduler/internal/models"

type PopularServiceDTO struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// HomeSummaryDTO segue os nomes de campo consumidos pelo frontend
type HomeSummaryDTO struct {
	LatestSchedule   []models.Schedule   `json:"latestSchedule"`
	WaitingToConfirm []models.Schedule   `json:"waitingToConfirm"`
	NextSchedule     []models.Schedule   `json:"nextSchedule"`
	OngoingSchedule  []models.Schedule   `json:"ongoingSchedule"`
	PopularServices  []PopularServiceDTO `json:"popularServices"`
	ScheduleLength   int64               `json:"scheduleLength"`
}
