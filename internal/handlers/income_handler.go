package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"property-management-backend/internal/models"
	service "property-management-backend/internal/services/income"
)

type IncomeHandler struct {
	service *service.Service
}

func NewIncomeHandler(s *service.Service) *IncomeHandler {
	return &IncomeHandler{service: s}
}

// Summary handles GET /api/income?from=&to=&platform=&propertyId=.
func (h *IncomeHandler) Summary(c *gin.Context) {
	from, err := time.Parse(dateLayout, c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from parameter is required (yyyy-mm-dd)"})
		return
	}
	to, err := time.Parse(dateLayout, c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to parameter is required (yyyy-mm-dd)"})
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

	propertyID, ok := optionalUUID(c, "propertyId")
	if !ok {
		return
	}

	summary, items, err := h.service.Report(from, to, platform, propertyID)
	if err != nil {
		log.Println("ERROR building income summary:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build income summary", "items": []models.Booking{}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary, "items": items})
}
