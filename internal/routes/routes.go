package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	handler "property-management-backend/internal/handlers"
	"property-management-backend/internal/repository"
	bookingService "property-management-backend/internal/services/booking"
	incomeService "property-management-backend/internal/services/income"
	reconService "property-management-backend/internal/services/reconciliation"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB) {
	bookingRepo := repository.NewBookingRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)

	bookingSvc := bookingService.NewService(bookingRepo, propertyRepo)
	incomeSvc := incomeService.NewService(bookingRepo)
	reconSvc := reconService.NewService(bookingRepo)

	bookingHandler := handler.NewBookingHandler(bookingSvc)
	incomeHandler := handler.NewIncomeHandler(incomeSvc)
	reconHandler := handler.NewReconciliationHandler(reconSvc)
	propertyHandler := handler.NewPropertyHandler(propertyRepo)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Booking routes
	bookings := api.Group("/bookings")
	{
		bookings.POST("", bookingHandler.Create)
		bookings.GET("", bookingHandler.List)
		bookings.GET("/overlap", bookingHandler.Overlap)
		bookings.GET("/checkouts", bookingHandler.Checkouts)
		bookings.GET("/unassigned", bookingHandler.Unassigned)
		bookings.PUT("/:id", bookingHandler.Update)
		bookings.DELETE("/:id", bookingHandler.Delete)
	}

	// Income summary
	api.GET("/income", incomeHandler.Summary)

	// Reconciliation upload
	recon := api.Group("/reconciliation")
	recon.POST("/upload", reconHandler.Upload)

	// Property routes
	properties := api.Group("/properties")
	{
		properties.GET("", propertyHandler.List)
		properties.POST("", propertyHandler.Create)
		properties.GET("/:id/rooms", propertyHandler.Rooms)
		properties.POST("/:id/rooms", propertyHandler.CreateRoom)
	}
}
