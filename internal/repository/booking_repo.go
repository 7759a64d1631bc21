package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"property-management-backend/internal/models"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Expose DB if needed
func (r *BookingRepository) DB() *gorm.DB {
	return r.db
}

// BookingFilter is a strongly-typed query filter. Nil fields are not
// applied. Conditions() builds the where clauses without touching the
// database, so the filter logic is testable on its own.
type BookingFilter struct {
	CheckInFrom  *time.Time
	CheckInTo    *time.Time
	CheckOutFrom *time.Time
	CheckOutTo   *time.Time
	// OverlapsDay selects bookings whose stay interval overlaps the
	// given day: check_in_date <= endOfDay AND check_out_date >= startOfDay.
	OverlapsDay *time.Time

	PropertyID *uuid.UUID
	Platform   *models.Platform
	Statuses   []models.BookingStatus
	// ExcludeStatus filters out a single status, typically cancelled.
	ExcludeStatus *models.BookingStatus
	// Unassigned selects bookings with no room assigned yet.
	Unassigned bool
}

// Conditions returns parallel slices of SQL fragments and their
// arguments, one pair per active field.
func (f BookingFilter) Conditions() ([]string, [][]any) {
	var conds []string
	var args [][]any

	add := func(cond string, a ...any) {
		conds = append(conds, cond)
		args = append(args, a)
	}

	if f.CheckInFrom != nil {
		add("check_in_date >= ?", *f.CheckInFrom)
	}
	if f.CheckInTo != nil {
		add("check_in_date <= ?", *f.CheckInTo)
	}
	if f.CheckOutFrom != nil {
		add("check_out_date >= ?", *f.CheckOutFrom)
	}
	if f.CheckOutTo != nil {
		add("check_out_date <= ?", *f.CheckOutTo)
	}
	if f.OverlapsDay != nil {
		start := StartOfDay(*f.OverlapsDay)
		end := EndOfDay(*f.OverlapsDay)
		add("check_in_date <= ? AND check_out_date >= ?", end, start)
	}
	if f.PropertyID != nil {
		add("property_id = ?", *f.PropertyID)
	}
	if f.Platform != nil {
		add("platform = ?", *f.Platform)
	}
	if len(f.Statuses) > 0 {
		add("status IN ?", f.Statuses)
	}
	if f.ExcludeStatus != nil {
		add("status <> ?", *f.ExcludeStatus)
	}
	if f.Unassigned {
		add("room_id IS NULL")
	}

	return conds, args
}

// Find runs the filter with property and room display fields preloaded.
func (r *BookingRepository) Find(f BookingFilter) ([]models.Booking, error) {
	query := r.db.Model(&models.Booking{}).
		Preload("Property").
		Preload("Room")

	conds, args := f.Conditions()
	for i, c := range conds {
		query = query.Where(c, args[i]...)
	}

	var bookings []models.Booking
	err := query.Order("check_in_date ASC").Find(&bookings).Error
	return bookings, err
}

func (r *BookingRepository) GetByID(id uuid.UUID) (*models.Booking, error) {
	var b models.Booking
	err := r.db.Preload("Property").Preload("Room").First(&b, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) Create(b *models.Booking) error {
	return r.db.Create(b).Error
}

func (r *BookingRepository) Save(b *models.Booking) error {
	return r.db.Save(b).Error
}

// Delete removes a booking permanently. Soft deletion is a status
// change handled by the service layer.
func (r *BookingRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Booking{}, "id = ?", id).Error
}

// FindByStayOverlap returns bookings whose stay interval overlaps the
// given day for a specific property.
func (r *BookingRepository) FindByStayOverlap(propertyID uuid.UUID, day time.Time) ([]models.Booking, error) {
	cancelled := models.StatusCancelled
	return r.Find(BookingFilter{
		OverlapsDay:   &day,
		PropertyID:    &propertyID,
		ExcludeStatus: &cancelled,
	})
}

// FindByCheckOutRange returns non-cancelled bookings checking out in
// [from, to], optionally restricted to one platform. Used for OTA
// income and reconciliation.
func (r *BookingRepository) FindByCheckOutRange(from, to time.Time, platform *models.Platform) ([]models.Booking, error) {
	cancelled := models.StatusCancelled
	start := StartOfDay(from)
	end := EndOfDay(to)
	return r.Find(BookingFilter{
		CheckOutFrom:  &start,
		CheckOutTo:    &end,
		Platform:      platform,
		ExcludeStatus: &cancelled,
	})
}

// FindUnassignedByCheckIn returns bookings with no room assigned that
// check in on the given day.
func (r *BookingRepository) FindUnassignedByCheckIn(day time.Time) ([]models.Booking, error) {
	cancelled := models.StatusCancelled
	start := StartOfDay(day)
	end := EndOfDay(day)
	return r.Find(BookingFilter{
		CheckInFrom:   &start,
		CheckInTo:     &end,
		Unassigned:    true,
		ExcludeStatus: &cancelled,
	})
}

func (r *BookingRepository) CreateAuditLog(entry *models.BookingAuditLog) error {
	return r.db.Create(entry).Error
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last nanosecond of t's day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
