package booking

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"property-management-backend/internal/models"
	"property-management-backend/internal/repository"
)

// ErrDuplicateReference means another active booking already carries
// the reference. Raised by the storage layer's partial unique index,
// so two near-simultaneous creates cannot both get through.
var ErrDuplicateReference = errors.New("active booking with this reference already exists")

var ErrInvalidTransition = errors.New("invalid status transition")

// Update actions accepted by Apply.
const (
	ActionAssignRoom = "assign_room"
	ActionCheckIn    = "check_in"
	ActionCheckOut   = "check_out"
)

type Service struct {
	bookingRepo  *repository.BookingRepository
	propertyRepo *repository.PropertyRepository
}

func NewService(bookingRepo *repository.BookingRepository, propertyRepo *repository.PropertyRepository) *Service {
	return &Service{bookingRepo: bookingRepo, propertyRepo: propertyRepo}
}

// Create inserts a new booking. A reference is generated when none is
// supplied; a duplicate active reference surfaces as ErrDuplicateReference.
func (s *Service) Create(b *models.Booking) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Reference == "" {
		b.Reference = uuid.New().String()
	}
	if b.Status == "" {
		b.Status = models.StatusBooked
	}

	if err := s.bookingRepo.Create(b); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateReference
		}
		return err
	}

	s.audit(b.ID, "create", map[string]any{
		"reference": b.Reference,
		"platform":  b.Platform,
	})
	return nil
}

// AssignRoom sets the room on a booking.
func (s *Service) AssignRoom(id, roomID uuid.UUID) (*models.Booking, error) {
	b, err := s.bookingRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	room, err := s.propertyRepo.GetRoomByID(roomID)
	if err != nil {
		return nil, err
	}
	if room.PropertyID != b.PropertyID {
		return nil, fmt.Errorf("room %s does not belong to property %s", roomID, b.PropertyID)
	}

	b.RoomID = &roomID
	if err := s.bookingRepo.Save(b); err != nil {
		return nil, err
	}
	s.audit(b.ID, ActionAssignRoom, map[string]any{"room_id": roomID.String()})
	return b, nil
}

// CheckIn marks a booked reservation as checked in.
func (s *Service) CheckIn(id uuid.UUID) (*models.Booking, error) {
	return s.transition(id, ActionCheckIn, models.StatusBooked, models.StatusCheckedIn)
}

// CheckOut marks a checked-in reservation as checked out.
func (s *Service) CheckOut(id uuid.UUID) (*models.Booking, error) {
	return s.transition(id, ActionCheckOut, models.StatusCheckedIn, models.StatusCheckedOut)
}

func (s *Service) transition(id uuid.UUID, action string, from, to models.BookingStatus) (*models.Booking, error) {
	b, err := s.bookingRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if b.Status != from {
		return nil, fmt.Errorf("%w: %s while %s", ErrInvalidTransition, action, b.Status)
	}
	b.Status = to
	if err := s.bookingRepo.Save(b); err != nil {
		return nil, err
	}
	s.audit(b.ID, action, map[string]any{"from": from, "to": to})
	return b, nil
}

// Delete cancels a booking (soft delete). With permanent set it removes
// the record entirely.
func (s *Service) Delete(id uuid.UUID, permanent bool) error {
	b, err := s.bookingRepo.GetByID(id)
	if err != nil {
		return err
	}

	if permanent {
		if err := s.bookingRepo.Delete(id); err != nil {
			return err
		}
		s.audit(id, "permanent_delete", map[string]any{"reference": b.Reference})
		return nil
	}

	b.Status = models.StatusCancelled
	if err := s.bookingRepo.Save(b); err != nil {
		return err
	}
	s.audit(id, "cancel", map[string]any{"reference": b.Reference})
	return nil
}

func (s *Service) audit(bookingID uuid.UUID, action string, details map[string]any) {
	payload, _ := json.Marshal(details)
	_ = s.bookingRepo.CreateAuditLog(&models.BookingAuditLog{
		ID:        uuid.New(),
		BookingID: bookingID,
		Action:    action,
		Details:   payload,
		CreatedAt: time.Now(),
	})
}

// DayType tags a booking relative to a query date: checkin when the
// stay starts that day, checkout when it ends that day, stay otherwise.
// Check-in wins when a one-day booking starts and ends the same day.
func DayType(b models.Booking, day time.Time) string {
	d := repository.StartOfDay(day)
	if repository.StartOfDay(b.CheckInDate).Equal(d) {
		return "checkin"
	}
	if repository.StartOfDay(b.CheckOutDate).Equal(d) {
		return "checkout"
	}
	return "stay"
}

// ListForRange returns bookings whose stay intersects [from, to]
// (check_in_date <= endOfDay(to) AND check_out_date >= startOfDay(from)),
// tagged relative to the from date. A single-day listing passes from == to.
func (s *Service) ListForRange(from, to time.Time, propertyID *uuid.UUID) ([]TaggedBooking, error) {
	cancelled := models.StatusCancelled
	start := repository.StartOfDay(from)
	end := repository.EndOfDay(to)
	bookings, err := s.bookingRepo.Find(repository.BookingFilter{
		CheckInTo:     &end,
		CheckOutFrom:  &start,
		PropertyID:    propertyID,
		ExcludeStatus: &cancelled,
	})
	if err != nil {
		return nil, err
	}

	tagged := make([]TaggedBooking, 0, len(bookings))
	for _, b := range bookings {
		tagged = append(tagged, TaggedBooking{Booking: b, Type: DayType(b, from)})
	}
	return tagged, nil
}

// TaggedBooking pairs a booking with its computed day type.
type TaggedBooking struct {
	models.Booking
	Type string `json:"type"`
}

func (s *Service) Repo() *repository.BookingRepository {
	return s.bookingRepo
}
