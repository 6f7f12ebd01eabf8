package models

import "time"

const (
	NotificationSent    = "sent"
	NotificationFailed  = "failed"
	NotificationSkipped = "skipped"
	NotificationDropped = "dropped"
)

// Uma linha por tentativa de envio de mensagem
type NotificationLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	MessageID   string `gorm:"size:36;index" json:"messageId"`
	ScheduleID  uint   `gorm:"index" json:"scheduleId"`
	RecipientID uint   `json:"recipientId"`
	Kind        string `gorm:"size:20" json:"kind"`

	Phone   string `gorm:"size:20" json:"phone"`
	Message string `gorm:"type:text" json:"message"`

	Status       string `gorm:"size:10;not null" json:"status"`
	ErrorMessage string `gorm:"type:text" json:"errorMessage"`

	CreatedAt time.Time `json:"createdAt"`
}
