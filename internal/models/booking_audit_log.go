package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// BookingAuditLog records every lifecycle mutation applied to a booking.
type BookingAuditLog struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingID   uuid.UUID `gorm:"index"`
	Action      string
	PerformedBy string
	Details     datatypes.JSON
	CreatedAt   time.Time
}
