package models

import (
	"time"

	"github.com/google/uuid"
)

// Platform is the distribution channel a booking came through.
type Platform string

const (
	PlatformBookingCom Platform = "Booking.com"
	PlatformAgoda      Platform = "Agoda"
	PlatformAirbnb     Platform = "Airbnb"
	PlatformExpedia    Platform = "Expedia"
	PlatformDirect     Platform = "Direct"
)

// Platforms lists every valid platform value.
var Platforms = []Platform{
	PlatformBookingCom,
	PlatformAgoda,
	PlatformAirbnb,
	PlatformExpedia,
	PlatformDirect,
}

func (p Platform) Valid() bool {
	for _, v := range Platforms {
		if p == v {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PayOnline PaymentMethod = "online"
	PayBank   PaymentMethod = "bank"
	PayCash   PaymentMethod = "cash"
	PayCard   PaymentMethod = "card"
)

// BookingStatus is the canonical lifecycle enumeration. All read and
// write paths use these values.
type BookingStatus string

const (
	StatusBooked     BookingStatus = "booked"
	StatusCheckedIn  BookingStatus = "checked_in"
	StatusCheckedOut BookingStatus = "checked_out"
	StatusCancelled  BookingStatus = "cancelled"
)

// Booking is a persisted reservation. Reference is unique among active
// (non-cancelled) bookings; the partial index enforces this at the
// storage layer so concurrent creates cannot both slip through.
type Booking struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GuestName string    `gorm:"not null" json:"guest_name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	IDNumber  string    `json:"id_number,omitempty"`
	Reference string    `gorm:"uniqueIndex:idx_bookings_active_reference,where:status <> 'cancelled'" json:"reference"`
	UnitType  string    `json:"unit_type,omitempty"`

	PropertyID uuid.UUID  `gorm:"type:uuid;index;not null" json:"property_id"`
	RoomID     *uuid.UUID `gorm:"type:uuid;index" json:"room_id,omitempty"`

	Platform      Platform      `gorm:"index" json:"platform"`
	PaymentMethod PaymentMethod `json:"payment_method,omitempty"`

	// Amount is what was actually collected. ExpectedPayment is the
	// net-of-commission figure for OTA payouts, when known.
	Amount          float64    `json:"amount"`
	ExpectedPayment *float64   `json:"expected_payment,omitempty"`
	PaymentDate     *time.Time `json:"payment_date,omitempty"`

	CheckInDate  time.Time `gorm:"index;not null" json:"check_in_date"`
	CheckOutDate time.Time `gorm:"index;not null" json:"check_out_date"`

	Status    BookingStatus `gorm:"index;default:booked" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	Property *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	Room     *Room     `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}

// PaidAmount is the figure reconciliation compares against a ledger:
// the expected payout when present, else the collected amount.
func (b *Booking) PaidAmount() float64 {
	if b.ExpectedPayment != nil {
		return *b.ExpectedPayment
	}
	return b.Amount
}

// PropertyLabel returns the display name when the relation is loaded.
func (b *Booking) PropertyLabel() string {
	if b.Property != nil && b.Property.Name != "" {
		return b.Property.Name
	}
	return b.PropertyID.String()
}
