// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/harukimoto/trainlight/internal/handler"
	"github.com/harukimoto/trainlight/internal/middleware"
	"github.com/harukimoto/trainlight/internal/model"
)

// Handlers collects every handler the route table needs.
type Handlers struct {
	Auth         *handler.AuthHandler
	Templates    *handler.TemplateHandler
	Videos       *handler.VideoHandler
	Reservations *handler.ReservationHandler
	Payments     *handler.PaymentHandler
	Webhooks     *handler.WebhookHandler
	Admin        *handler.AdminHandler
}

// Register sets up the full route table.
//
// Public:    health, auth, template catalog, slot availability, webhook.
// Customer:  videos, reservations, payments (JWT, any role).
// Admin:     catalog management, cross-user listings, schedules (ADMIN).
func Register(e *echo.Echo, h Handlers, jwtSecret string) {
	e.GET("/healthz", handler.Health)

	auth := e.Group("/v1/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)

	// The provider authenticates with a signature header, not a JWT.
	e.POST("/v1/webhooks/stripe", h.Webhooks.HandleStripe)

	e.GET("/v1/templates", h.Templates.ListByCategory)
	e.GET("/v1/templates/:id", h.Templates.Get)
	e.GET("/v1/slots", h.Reservations.Availability)

	v1 := e.Group("/v1")
	v1.Use(middleware.JWTAuth(jwtSecret))
	v1.Use(middleware.RequireRole(model.RoleUser, model.RoleAdmin))

	v1.GET("/me", h.Auth.Me)

	v1.POST("/videos", h.Videos.Create)
	v1.GET("/videos", h.Videos.List)
	v1.GET("/videos/:id", h.Videos.Get)
	v1.DELETE("/videos/:id", h.Videos.Delete)

	v1.POST("/reservations", h.Reservations.Create)
	v1.GET("/reservations", h.Reservations.List)
	v1.GET("/reservations/:id", h.Reservations.Get)
	v1.PUT("/reservations/:id", h.Reservations.Update)
	v1.POST("/reservations/:id/cancel", h.Reservations.Cancel)

	v1.POST("/payments/checkout", h.Payments.CreateCheckout)
	v1.GET("/payments", h.Payments.List)
	v1.GET("/payments/:id", h.Payments.Get)

	admin := e.Group("/v1/admin")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole(model.RoleAdmin))

	admin.GET("/users", h.Admin.ListUsers)
	admin.GET("/reservations", h.Admin.ListReservations)
	admin.GET("/payments", h.Admin.ListPayments)

	admin.GET("/templates", h.Admin.ListTemplates)
	admin.POST("/templates", h.Admin.CreateTemplate)
	admin.PUT("/templates/:id", h.Admin.UpdateTemplate)
	admin.DELETE("/templates/:id", h.Admin.DeleteTemplate)

	admin.POST("/schedules", h.Admin.CreateSchedule)
	admin.GET("/schedules", h.Admin.ListSchedules)
	admin.PUT("/schedules/:id", h.Admin.UpdateSchedule)
}
