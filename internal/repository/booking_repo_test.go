package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-management-backend/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestBookingFilterEmpty(t *testing.T) {
	conds, args := BookingFilter{}.Conditions()
	assert.Empty(t, conds)
	assert.Empty(t, args)
}

func TestBookingFilterCheckOutRange(t *testing.T) {
	from := day("2025-03-01")
	to := day("2025-03-31")
	cancelled := models.StatusCancelled

	conds, args := BookingFilter{
		CheckOutFrom:  &from,
		CheckOutTo:    &to,
		ExcludeStatus: &cancelled,
	}.Conditions()

	require.Len(t, conds, 3)
	assert.Equal(t, "check_out_date >= ?", conds[0])
	assert.Equal(t, []any{from}, args[0])
	assert.Equal(t, "check_out_date <= ?", conds[1])
	assert.Equal(t, []any{to}, args[1])
	assert.Equal(t, "status <> ?", conds[2])
	assert.Equal(t, []any{models.StatusCancelled}, args[2])
}

func TestBookingFilterOverlapDayUsesInclusiveRule(t *testing.T) {
	d := day("2025-06-15")

	conds, args := BookingFilter{OverlapsDay: &d}.Conditions()

	require.Len(t, conds, 1)
	assert.Equal(t, "check_in_date <= ? AND check_out_date >= ?", conds[0])
	require.Len(t, args[0], 2)
	assert.Equal(t, EndOfDay(d), args[0][0])
	assert.Equal(t, StartOfDay(d), args[0][1])
}

func TestBookingFilterPlatformAndProperty(t *testing.T) {
	platform := models.PlatformAgoda
	propertyID := uuid.New()

	conds, args := BookingFilter{
		Platform:   &platform,
		PropertyID: &propertyID,
	}.Conditions()

	require.Len(t, conds, 2)
	assert.Equal(t, "property_id = ?", conds[0])
	assert.Equal(t, []any{propertyID}, args[0])
	assert.Equal(t, "platform = ?", conds[1])
	assert.Equal(t, []any{platform}, args[1])
}

func TestBookingFilterUnassignedAndStatuses(t *testing.T) {
	conds, args := BookingFilter{
		Statuses:   []models.BookingStatus{models.StatusBooked, models.StatusCheckedIn},
		Unassigned: true,
	}.Conditions()

	require.Len(t, conds, 2)
	assert.Equal(t, "status IN ?", conds[0])
	assert.Equal(t, []any{[]models.BookingStatus{models.StatusBooked, models.StatusCheckedIn}}, args[0])
	assert.Equal(t, "room_id IS NULL", conds[1])
	assert.Empty(t, args[1])
}

func TestDayBounds(t *testing.T) {
	d := time.Date(2025, 6, 15, 13, 45, 12, 0, time.UTC)

	start := StartOfDay(d)
	end := EndOfDay(d)

	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), start)
	assert.True(t, end.After(time.Date(2025, 6, 15, 23, 59, 59, 0, time.UTC)))
	assert.True(t, end.Before(time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)))
}
