package app

import (
	"github.com/labstack/echo/v4"

	"github.com/mohammedgidrah/testing-hotel-sub000/app/entities"
	"github.com/mohammedgidrah/testing-hotel-sub000/app/handlers"
	"github.com/mohammedgidrah/testing-hotel-sub000/app/middleware"
)

func RegisterRoutes(
	e *echo.Echo,
	sessionHandler *handlers.SessionHandler,
	availabilityHandler *handlers.AvailabilityHandler,
	draftHandler *handlers.DraftHandler,
	followUpHandler *handlers.FollowUpHandler,
	authMiddleware echo.MiddlewareFunc,
) {
	// Session routes
	sessionGroup := e.Group("/session", authMiddleware)
	sessionGroup.GET("", sessionHandler.GetSession)
	sessionGroup.POST("/logout", sessionHandler.Logout)

	// Availability routes
	frontDesk := middleware.RoleAuthMiddleware(entities.RoleAdmin, entities.RoleReceptionist)
	e.GET("/rooms/:id/blocked-dates", availabilityHandler.GetBlockedDates, authMiddleware, frontDesk)

	// Booking routes
	bookingGroup := e.Group("/booking", authMiddleware, frontDesk)
	bookingGroup.POST("/quote", draftHandler.Quote)
	bookingGroup.POST("/drafts", draftHandler.OpenDraft)
	bookingGroup.GET("/drafts/:id", draftHandler.GetDraft)
	bookingGroup.DELETE("/drafts/:id", draftHandler.CancelDraft)
	bookingGroup.PUT("/drafts/:id/room", draftHandler.SelectRoom)
	bookingGroup.POST("/drafts/:id/availability/retry", draftHandler.RetryAvailability)
	bookingGroup.PUT("/drafts/:id/check-in", draftHandler.PickCheckIn)
	bookingGroup.PUT("/drafts/:id/check-out", draftHandler.PickCheckOut)
	bookingGroup.PUT("/drafts/:id/guest", draftHandler.SelectGuest)
	bookingGroup.PUT("/drafts/:id/services", draftHandler.SetServices)
	bookingGroup.POST("/drafts/:id/services/:serviceId/toggle", draftHandler.ToggleService)
	bookingGroup.PUT("/drafts/:id/payment", draftHandler.SetPayment)
	bookingGroup.POST("/drafts/:id/submit", draftHandler.SubmitDraft)

	// Payment follow-up routes
	paymentGroup := e.Group("/payments", authMiddleware, middleware.RoleAuthMiddleware(entities.RoleAdmin, entities.RoleAccountant))
	paymentGroup.GET("/follow-ups", followUpHandler.GetFollowUps)
	paymentGroup.POST("/follow-ups/:id/retry", followUpHandler.RetryFollowUp)
	paymentGroup.POST("/follow-ups/:id/resolve", followUpHandler.ResolveFollowUp)
}
