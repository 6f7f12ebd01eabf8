package models

import "time"

type Role string

const (
	RoleClient   Role = "CLIENTE"
	RoleProvider Role = "PRESTADOR"
	RoleAdmin    Role = "ADMIN"
)

const (
	NotificationEnabled  = "A"
	NotificationDisabled = "I"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string  `gorm:"size:100;not null" json:"name"`
	Email        string  `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string  `gorm:"size:255;not null" json:"-"`
	Phone        *string `gorm:"size:20" json:"fone"`
	Role         Role    `gorm:"size:20;not null;default:'CLIENTE'" json:"role"`

	// "A" ativo, "I" inativo
	Notification string `gorm:"size:1;not null;default:'A'" json:"notification"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) NotificationsEnabled() bool {
	return u.Notification == NotificationEnabled
}

func (u *User) HasPhone() bool {
	return u.Phone != nil && *u.Phone != ""
}
