package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"property-management-backend/internal/models"
)

func stay(checkIn, checkOut string) models.Booking {
	ci, _ := time.Parse("2006-01-02", checkIn)
	co, _ := time.Parse("2006-01-02", checkOut)
	return models.Booking{CheckInDate: ci, CheckOutDate: co}
}

func TestDayType(t *testing.T) {
	b := stay("2025-07-10", "2025-07-14")

	cases := []struct {
		day  string
		want string
	}{
		{"2025-07-10", "checkin"},
		{"2025-07-14", "checkout"},
		{"2025-07-12", "stay"},
		{"2025-07-11", "stay"},
	}
	for _, tc := range cases {
		day, _ := time.Parse("2006-01-02", tc.day)
		assert.Equal(t, tc.want, DayType(b, day), "day %s", tc.day)
	}
}

func TestDayTypeIgnoresTimeOfDay(t *testing.T) {
	b := stay("2025-07-10", "2025-07-14")
	afternoon := time.Date(2025, 7, 10, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, "checkin", DayType(b, afternoon))
}

func TestDayTypeCheckInWinsOnSameDayStay(t *testing.T) {
	b := stay("2025-07-10", "2025-07-10")
	day, _ := time.Parse("2006-01-02", "2025-07-10")
	assert.Equal(t, "checkin", DayType(b, day))
}
