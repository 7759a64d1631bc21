package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"property-management-backend/internal/models"
	"property-management-backend/internal/services/matching"
	service "property-management-backend/internal/services/reconciliation"
)

type ReconciliationHandler struct {
	service *service.Service
}

func NewReconciliationHandler(s *service.Service) *ReconciliationHandler {
	return &ReconciliationHandler{service: s}
}

// Upload handles POST /api/reconciliation/upload. The settlement file
// comes as multipart form data alongside platform and window fields;
// the pass runs synchronously and the full report is returned.
func (h *ReconciliationHandler) Upload(c *gin.Context) {
	platform := models.Platform(c.PostForm("platform"))
	if !platform.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid platform"})
		return
	}

	from, err := time.Parse(dateLayout, c.PostForm("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from field is required (yyyy-mm-dd)"})
		return
	}
	to, err := time.Parse(dateLayout, c.PostForm("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to field is required (yyyy-mm-dd)"})
		return
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to date before from date"})
		return
	}

	propertyID, ok := optionalFormUUID(c, "propertyId")
	if !ok {
		return
	}

	var pred matching.Predicate
	if mode := c.PostForm("match"); mode != "" {
		p, ok := predicateByName(mode)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid match mode, expected exact, prefix or contains"})
			return
		}
		pred = p
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	defer file.Close()

	log.Println("Reconciling", header.Filename, "size:", header.Size, "platform:", platform)

	report, err := h.service.Reconcile(platform, from, to, propertyID, header.Filename, file, pred)
	if err != nil {
		log.Println("ERROR reconciling:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not reconcile upload", "groups": []matching.PropertyGroup{}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

func predicateByName(name string) (matching.Predicate, bool) {
	switch name {
	case "exact":
		return matching.MatchExact, true
	case "prefix":
		return matching.MatchPrefix, true
	case "contains":
		return matching.MatchContains, true
	default:
		return nil, false
	}
}
