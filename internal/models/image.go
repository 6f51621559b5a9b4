package models

import "time"

// Image holds the bare stored filename of an uploaded file. The web-facing
// path is the upload prefix plus Filename; see the storage package.
type Image struct {
	ID        uint   `gorm:"primaryKey"`
	RecordID  uint   `gorm:"not null;index"`
	Filename  string `gorm:"not null"`
	CreatedAt time.Time
}
