package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"property-management-backend/internal/models"
	"property-management-backend/internal/repository"
)

type PropertyHandler struct {
	repo *repository.PropertyRepository
}

func NewPropertyHandler(repo *repository.PropertyRepository) *PropertyHandler {
	return &PropertyHandler{repo: repo}
}

// List handles GET /api/properties.
func (h *PropertyHandler) List(c *gin.Context) {
	items, err := h.repo.GetAll()
	if err != nil {
		log.Println("ERROR listing properties:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list properties", "items": []models.Property{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Create handles POST /api/properties.
func (h *PropertyHandler) Create(c *gin.Context) {
	var payload struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	}
	if err := c.BindJSON(&payload); err != nil || payload.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "property name is required"})
		return
	}

	p := &models.Property{
		ID:        uuid.New(),
		Name:      payload.Name,
		Address:   payload.Address,
		CreatedAt: time.Now(),
	}
	if err := h.repo.Create(p); err != nil {
		log.Println("ERROR creating property:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create property"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "property created", "property": p})
}

// Rooms handles GET /api/properties/:id/rooms.
func (h *PropertyHandler) Rooms(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid property ID"})
		return
	}

	items, err := h.repo.GetRooms(id)
	if err != nil {
		log.Println("ERROR listing rooms:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list rooms", "items": []models.Room{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// CreateRoom handles POST /api/properties/:id/rooms.
func (h *PropertyHandler) CreateRoom(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid property ID"})
		return
	}

	var payload struct {
		Name     string `json:"name"`
		UnitType string `json:"unit_type"`
	}
	if err := c.BindJSON(&payload); err != nil || payload.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room name is required"})
		return
	}

	room := &models.Room{
		ID:         uuid.New(),
		PropertyID: id,
		Name:       payload.Name,
		UnitType:   payload.UnitType,
		CreatedAt:  time.Now(),
	}
	if err := h.repo.CreateRoom(room); err != nil {
		log.Println("ERROR creating room:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create room"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "room created", "room": room})
}
