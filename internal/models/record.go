package models

import "time"

type Record struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Description string
	CreatedAt   time.Time

	// Relationships
	Images []Image `gorm:"foreignKey:RecordID;constraint:OnDelete:CASCADE"`
}
