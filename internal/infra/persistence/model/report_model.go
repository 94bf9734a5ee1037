package model

import (
	"time"

	"github.com/google/uuid"
)

// ReportModel mirrors the 'reports' table.
type ReportModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Approved  bool      `gorm:"not null"`
	Price     int       `gorm:"not null"`
	Make      string    `gorm:"type:varchar(100);not null"`
	Model     string    `gorm:"type:varchar(100);not null"`
	Year      int       `gorm:"not null"`
	Mileage   int       `gorm:"not null"`
	Lng       float64   `gorm:"not null"`
	Lat       float64   `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (ReportModel) TableName() string {
	return "reports"
}
