package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// Report is a sale price observation submitted by a user.
// Only approved reports take part in price estimates.
type Report struct {
	ID        uuid.UUID
	UserID    uuid.UUID // Submitting user
	Approved  bool
	Price     int
	Make      string
	Model     string
	Year      int
	Mileage   int
	Location  orb.Point // [lng, lat]
	CreatedAt time.Time
	UpdatedAt time.Time
}
