package models

import "time"

// Endereço do cliente onde o serviço é executado
type Address struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index" json:"userId"`

	Street       string `gorm:"size:150;not null" json:"street"`
	Number       string `gorm:"size:20" json:"number"`
	Complement   string `gorm:"size:100" json:"complement"`
	Neighborhood string `gorm:"size:100" json:"neighborhood"`
	City         string `gorm:"size:100;not null" json:"city"`
	State        string `gorm:"size:2" json:"state"`
	ZipCode      string `gorm:"size:10" json:"zipCode"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
