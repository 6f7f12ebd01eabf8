package models

import "time"

type Schedule struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Title       string  `gorm:"size:150;not null" json:"title"`
	Description *string `gorm:"size:500" json:"description"`

	Date time.Time `gorm:"type:date;not null" json:"date"`
	Time string    `gorm:"size:5;not null" json:"time"`

	Status string `gorm:"size:20;not null;default:'A_CONFIRMAR'" json:"status"`

	UserID uint `gorm:"not null" json:"userId"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`

	ServiceID uint    `gorm:"not null" json:"serviceId"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"service,omitempty"`

	AddressID uint    `gorm:"not null" json:"addressId"`
	Address   Address `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"address,omitempty"`

	ProviderID *uint `json:"providerId"`
	Provider   *User `gorm:"foreignKey:ProviderID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"provider,omitempty"`

	// preenchido quando o agendamento nasce de um reagendamento
	RescheduledFromID *uint `json:"rescheduledFromId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
