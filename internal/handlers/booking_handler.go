package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"property-management-backend/internal/models"
	service "property-management-backend/internal/services/booking"
)

const dateLayout = "2006-01-02"

type BookingHandler struct {
	service *service.Service
}

func NewBookingHandler(s *service.Service) *BookingHandler {
	return &BookingHandler{service: s}
}

// Create handles POST /api/bookings.
func (h *BookingHandler) Create(c *gin.Context) {
	var payload struct {
		GuestName       string   `json:"guest_name"`
		Email           string   `json:"email"`
		Phone           string   `json:"phone"`
		IDNumber        string   `json:"id_number"`
		Reference       string   `json:"reference"` // optional, generated when empty
		UnitType        string   `json:"unit_type"`
		PropertyID      string   `json:"property_id"`
		RoomID          string   `json:"room_id"`
		Platform        string   `json:"platform"`
		PaymentMethod   string   `json:"payment_method"`
		Amount          float64  `json:"amount"`
		ExpectedPayment *float64 `json:"expected_payment"`
		PaymentDate     string   `json:"payment_date"`
		CheckInDate     string   `json:"check_in_date"`
		CheckOutDate    string   `json:"check_out_date"`
	}

	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if payload.GuestName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "guest name is required"})
		return
	}
	if payload.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	propertyID, err := uuid.Parse(payload.PropertyID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid property ID"})
		return
	}

	platform := models.Platform(payload.Platform)
	if !platform.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid platform"})
		return
	}

	checkIn, err := time.Parse(dateLayout, payload.CheckInDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid check-in date, expected yyyy-mm-dd"})
		return
	}
	checkOut, err := time.Parse(dateLayout, payload.CheckOutDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid check-out date, expected yyyy-mm-dd"})
		return
	}
	if checkOut.Before(checkIn) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check-out date before check-in date"})
		return
	}

	b := &models.Booking{
		GuestName:       payload.GuestName,
		Email:           payload.Email,
		Phone:           payload.Phone,
		IDNumber:        payload.IDNumber,
		Reference:       payload.Reference,
		UnitType:        payload.UnitType,
		PropertyID:      propertyID,
		Platform:        platform,
		PaymentMethod:   models.PaymentMethod(payload.PaymentMethod),
		Amount:          payload.Amount,
		ExpectedPayment: payload.ExpectedPayment,
		CheckInDate:     checkIn,
		CheckOutDate:    checkOut,
	}

	if payload.RoomID != "" {
		roomID, err := uuid.Parse(payload.RoomID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room ID"})
			return
		}
		b.RoomID = &roomID
	}
	if payload.PaymentDate != "" {
		paymentDate, err := time.Parse(dateLayout, payload.PaymentDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment date, expected yyyy-mm-dd"})
			return
		}
		b.PaymentDate = &paymentDate
	}

	if err := h.service.Create(b); err != nil {
		if errors.Is(err, service.ErrDuplicateReference) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		log.Println("ERROR creating booking:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create booking"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "booking created", "booking": b})
}

// List handles GET /api/bookings?date= or ?from=&to=, optional propertyId.
func (h *BookingHandler) List(c *gin.Context) {
	from, to, ok := h.window(c)
	if !ok {
		return
	}

	propertyID, ok := optionalUUID(c, "propertyId")
	if !ok {
		return
	}

	items, err := h.service.ListForRange(from, to, propertyID)
	if err != nil {
		log.Println("ERROR listing bookings:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list bookings", "items": []service.TaggedBooking{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Overlap handles GET /api/bookings/overlap?date=&propertyId=. Both
// parameters are required; the query uses the inclusive-overlap rule.
func (h *BookingHandler) Overlap(c *gin.Context) {
	day, err := time.Parse(dateLayout, c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date parameter is required (yyyy-mm-dd)"})
		return
	}
	propertyID, err := uuid.Parse(c.Query("propertyId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "propertyId parameter is required"})
		return
	}

	items, err := h.service.Repo().FindByStayOverlap(propertyID, day)
	if err != nil {
		log.Println("ERROR listing overlapping bookings:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list bookings", "items": []models.Booking{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Checkouts handles GET /api/bookings/checkouts?from=&to=&platform=.
func (h *BookingHandler) Checkouts(c *gin.Context) {
	from, to, ok := h.window(c)
	if !ok {
		return
	}

	var platform *models.Platform
	if p := c.Query("platform"); p != "" {
		pl := models.Platform(p)
		if !pl.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid platform"})
			return
		}
		platform = &pl
	}

	items, err := h.service.Repo().FindByCheckOutRange(from, to, platform)
	if err != nil {
		log.Println("ERROR listing checkouts:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list bookings", "items": []models.Booking{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Unassigned handles GET /api/bookings/unassigned?date=.
func (h *BookingHandler) Unassigned(c *gin.Context) {
	day, err := time.Parse(dateLayout, c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date parameter is required (yyyy-mm-dd)"})
		return
	}

	items, err := h.service.Repo().FindUnassignedByCheckIn(day)
	if err != nil {
		log.Println("ERROR listing unassigned bookings:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list bookings", "items": []models.Booking{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Update handles PUT /api/bookings/:id with an action payload.
func (h *BookingHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking ID"})
		return
	}

	var payload struct {
		Action string `json:"action"`
		RoomID string `json:"room_id"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	var b *models.Booking
	switch payload.Action {
	case service.ActionAssignRoom:
		roomID, err2 := uuid.Parse(payload.RoomID)
		if err2 != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room ID"})
			return
		}
		b, err = h.service.AssignRoom(id, roomID)
	case service.ActionCheckIn:
		b, err = h.service.CheckIn(id)
	case service.ActionCheckOut:
		b, err = h.service.CheckOut(id)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action"})
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		case errors.Is(err, service.ErrInvalidTransition):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Println("ERROR updating booking:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update booking"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "booking updated", "booking": b})
}

// Delete handles DELETE /api/bookings/:id. Soft delete by default;
// ?permanent=true removes the record.
func (h *BookingHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking ID"})
		return
	}

	permanent := c.Query("permanent") == "true"
	if err := h.service.Delete(id, permanent); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
			return
		}
		log.Println("ERROR deleting booking:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete booking"})
		return
	}

	if permanent {
		c.JSON(http.StatusOK, gin.H{"message": "booking permanently deleted"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking cancelled"})
}

// window reads either ?date= or ?from=&to=. Writes the 400 itself and
// returns ok=false when the parameters are missing or malformed.
func (h *BookingHandler) window(c *gin.Context) (time.Time, time.Time, bool) {
	if d := c.Query("date"); d != "" {
		day, err := time.Parse(dateLayout, d)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected yyyy-mm-dd"})
			return time.Time{}, time.Time{}, false
		}
		return day, day, true
	}

	from, err := time.Parse(dateLayout, c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date or from/to parameters are required (yyyy-mm-dd)"})
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse(dateLayout, c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to parameter is required (yyyy-mm-dd)"})
		return time.Time{}, time.Time{}, false
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to date before from date"})
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// optionalUUID reads an optional UUID query parameter. Writes the 400
// itself when the value is present but malformed.
func optionalUUID(c *gin.Context, name string) (*uuid.UUID, bool) {
	return parseOptionalUUID(c, c.Query(name), name)
}

// optionalFormUUID is optionalUUID for multipart form fields.
func optionalFormUUID(c *gin.Context, name string) (*uuid.UUID, bool) {
	return parseOptionalUUID(c, c.PostForm(name), name)
}

func parseOptionalUUID(c *gin.Context, v, name string) (*uuid.UUID, bool) {
	if v == "" {
		return nil, true
	}
	id, err := uuid.Parse(v)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return nil, false
	}
	return &id, true
}
