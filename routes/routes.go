package routes

import (
	"turfbook/admin"
	"turfbook/auth"
	"turfbook/booking"
	"turfbook/middleware"
	"turfbook/pricing"
	"turfbook/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(auth.Register))
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/logout", auth.Logout)
	router.GET("/api/auth/me", middleware.Authenticate(auth.Me))
}

func AddBookingRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	// Public catalogue endpoints.
	router.GET("/api/slots", rl.Limit(booking.GetSlots))
	router.GET("/api/slots/available/:date", rl.Limit(booking.GetAvailableSlots))
	router.GET("/api/pricing", rl.Limit(pricing.GetAllPricing))
	router.GET("/api/operating-hours", rl.Limit(admin.GetOperatingHours))
	router.POST("/api/bookings/calculate-price", rl.Limit(booking.CalculatePrice))
	router.POST("/api/bookings/check-collisions", rl.Limit(booking.CheckCollisions))

	router.POST("/api/bookings", rl.Limit(middleware.Authenticate(booking.CreateBooking)))
	router.GET("/api/my-bookings", middleware.Authenticate(booking.GetMyBookings))
	router.GET("/api/bookings/:id", middleware.Authenticate(booking.GetBookingByID))
}

func AddAdminRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/admin/dashboard", middleware.AdminOnly(admin.GetDashboardStats))

	router.GET("/api/admin/bookings", middleware.AdminOnly(admin.GetAllBookings))
	router.GET("/api/admin/bookings/legacy", middleware.AdminOnly(admin.GetLegacyBookings))
	router.GET("/api/admin/bookings/upcoming", middleware.AdminOnly(admin.GetUpcomingBookings))
	router.PUT("/api/admin/bookings/:id/status", middleware.AdminOnly(admin.UpdateBookingStatus))
	router.PUT("/api/admin/bookings/:id", middleware.AdminOnly(admin.UpdateBooking))
	router.DELETE("/api/admin/bookings/:id", middleware.AdminOnly(admin.DeleteBooking))

	router.POST("/api/admin/handle-bid", middleware.AdminOnly(admin.HandleBid))
	router.POST("/api/admin/resolve-collision", middleware.AdminOnly(admin.ResolveCollision))

	router.PUT("/api/admin/pricing", middleware.AdminOnly(pricing.UpdatePricing))
	router.PUT("/api/admin/operating-hours", middleware.AdminOnly(admin.UpdateOperatingHours))

	router.GET("/api/admin/notifications", middleware.AdminOnly(admin.GetNotifications))
	router.PUT("/api/admin/notifications/:notification_id/read", middleware.AdminOnly(admin.MarkNotificationRead))

	router.POST("/api/payment-confirmation", rl.Limit(middleware.Authenticate(admin.HandlePaymentConfirmation)))
	router.GET("/api/admin/payment-notifications", middleware.AdminOnly(admin.GetPaymentNotifications))
	router.PUT("/api/admin/payment-notifications/:notification_id/read", middleware.AdminOnly(admin.MarkPaymentNotificationRead))

	router.GET("/api/payment/qrcode/:bookingId", middleware.Authenticate(admin.GeneratePaymentQR))
	router.GET("/api/payment/receipt/:bookingId", middleware.Authenticate(admin.PrintReceipt))

	router.GET("/api/admin/users", middleware.AdminOnly(admin.GetAllUsers))
}
