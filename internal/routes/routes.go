package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"medicicol-server/internal/config"
	"medicicol-server/internal/handlers"
	"medicicol-server/internal/mailer"
	"medicicol-server/internal/middleware"
	"medicicol-server/internal/models"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, sender mailer.Sender, logger zerolog.Logger) {
	// Initialize handlers
	userHandler := handlers.NewUserHandler(db, cfg)
	doctorHandler := handlers.NewDoctorHandler(db, cfg)
	appointmentHandler := handlers.NewAppointmentHandler(db)
	adminHandler := handlers.NewAdminHandler(db)
	inquiryHandler := handlers.NewInquiryHandler(db)
	notificationHandler := handlers.NewNotificationHandler(sender, logger)

	// Patient accounts
	usuarios := router.Group("/usuarios")
	{
		usuarios.POST("/registro", userHandler.Register)
		usuarios.POST("/login", userHandler.Login)
		usuarios.GET("/:id", userHandler.GetProfile)
	}

	// Doctors: profile, availability windows and doctor-side appointment
	// operations
	medicos := router.Group("/medicos")
	{
		medicos.POST("/registro", doctorHandler.RegisterDoctor)
		medicos.POST("/login", doctorHandler.LoginDoctor)
		medicos.GET("/especialidad/:id", doctorHandler.GetDoctorsBySpecialty)
		medicos.PUT("/citas/:id/estado", doctorHandler.UpdateAppointmentStatus)
		medicos.PUT("/citas/:id/nota", doctorHandler.AddCaseNote)
		medicos.GET("/:id", doctorHandler.GetDoctor)
		medicos.POST("/:id/disponibilidad", doctorHandler.CreateAvailability)
		medicos.GET("/:id/disponibilidad", doctorHandler.GetAvailability)
		medicos.GET("/:id/citas", doctorHandler.GetDoctorAppointments)
	}

	// Appointments and the specialty catalog
	citas := router.Group("/citas")
	{
		citas.GET("/especialidades", appointmentHandler.ListSpecialties)
		citas.POST("/especialidades", appointmentHandler.CreateSpecialty)
		citas.GET("/disponibilidad/:id", appointmentHandler.SearchAvailableDoctors)
		citas.GET("/disponibles/:id", appointmentHandler.GetOpenSlots)
		citas.GET("/historial/:id", appointmentHandler.GetHistory)
		citas.POST("/", appointmentHandler.CreateAppointment)
		citas.GET("/", appointmentHandler.ListAppointments)
		citas.GET("/:id", appointmentHandler.GetAppointment)
		citas.PUT("/:id/cancelar", appointmentHandler.CancelAppointment)
		citas.PUT("/:id/reprogramar", appointmentHandler.RescheduleAppointment)
	}

	// Administrative overrides, gated on the stored admin role flag
	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleAuthMiddleware(models.RoleAdmin))
	{
		admin.GET("/usuarios", adminHandler.ListUsers)
		admin.PUT("/usuarios/:id", adminHandler.UpdateUser)
		admin.DELETE("/usuarios/:id", adminHandler.DeleteUser)
		admin.GET("/medicos", adminHandler.ListDoctors)
		admin.PUT("/medicos/:id", adminHandler.UpdateDoctor)
		admin.DELETE("/medicos/:id", adminHandler.DeleteDoctor)
		admin.GET("/citas", adminHandler.ListAppointments)
		admin.GET("/estadisticas", adminHandler.GetStatistics)
	}

	// Complaint/inquiry log
	dudas := router.Group("/dudas")
	{
		dudas.POST("/", inquiryHandler.CreateInquiry)
		dudas.GET("/", inquiryHandler.ListInquiries)
		dudas.DELETE("/:id", inquiryHandler.DeleteInquiry)
	}

	// Outbound email notifications; decoupled from the appointment
	// mutations that trigger them
	notificaciones := router.Group("/notificaciones")
	{
		notificaciones.POST("/cita-confirmada", notificationHandler.SendConfirmation)
		notificaciones.POST("/recordatorio", notificationHandler.SendReminder)
		notificaciones.POST("/cita-cambio", notificationHandler.SendChange)
		notificaciones.POST("/cita-cancelada", notificationHandler.SendCancellation)
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
