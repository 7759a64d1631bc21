package income

import (
	"time"

	"github.com/google/uuid"

	"property-management-backend/internal/models"
	"property-management-backend/internal/repository"
)

// Summary buckets collected income by platform. Direct income is
// additionally split by how it was paid.
type Summary struct {
	Total float64 `json:"total"`

	BookingCom float64 `json:"booking_com"`
	Agoda      float64 `json:"agoda"`
	Airbnb     float64 `json:"airbnb"`
	Expedia    float64 `json:"expedia"`

	Direct     float64 `json:"direct"`
	DirectBank float64 `json:"direct_bank"`
	DirectCash float64 `json:"direct_cash"`
}

// Summarize reduces an already-filtered, non-cancelled booking set into
// per-platform totals. Single pass, no side effects.
func Summarize(bookings []models.Booking) Summary {
	var s Summary
	for i := range bookings {
		b := &bookings[i]
		s.Total += b.Amount

		switch b.Platform {
		case models.PlatformBookingCom:
			s.BookingCom += b.Amount
		case models.PlatformAgoda:
			s.Agoda += b.Amount
		case models.PlatformAirbnb:
			s.Airbnb += b.Amount
		case models.PlatformExpedia:
			s.Expedia += b.Amount
		case models.PlatformDirect:
			s.Direct += b.Amount
			switch b.PaymentMethod {
			case models.PayBank:
				s.DirectBank += b.Amount
			case models.PayCash:
				s.DirectCash += b.Amount
			}
		}
	}
	return s
}

type Service struct {
	bookingRepo *repository.BookingRepository
}

func NewService(bookingRepo *repository.BookingRepository) *Service {
	return &Service{bookingRepo: bookingRepo}
}

// Report returns the bucketed totals for a window plus the records
// behind them. Platform and property are optional narrowing filters.
func (s *Service) Report(from, to time.Time, platform *models.Platform, propertyID *uuid.UUID) (Summary, []models.Booking, error) {
	cancelled := models.StatusCancelled
	start := repository.StartOfDay(from)
	end := repository.EndOfDay(to)

	bookings, err := s.bookingRepo.Find(repository.BookingFilter{
		CheckOutFrom:  &start,
		CheckOutTo:    &end,
		Platform:      platform,
		PropertyID:    propertyID,
		ExcludeStatus: &cancelled,
	})
	if err != nil {
		return Summary{}, nil, err
	}

	return Summarize(bookings), bookings, nil
}
