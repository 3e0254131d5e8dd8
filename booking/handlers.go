package booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"turfbook/db"
	"turfbook/globals"
	"turfbook/middleware"
	"turfbook/models"
	"turfbook/notify"
	"turfbook/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Eng is the engine all handlers share, wired from the db package's
// collections. Tests construct their own Engine with fakes instead.
var Eng = NewEngine(
	NewMongoStore(db.BookingsCollection, db.CollisionsCollection),
	notify.NewEmitter(db.NotificationsCollection),
	time.Now,
)

// RespondEngineErr maps the engine's error taxonomy onto HTTP statuses.
func RespondEngineErr(w http.ResponseWriter, r *http.Request, err error) {
	traceID := middleware.TraceID(r)
	switch {
	case errors.Is(err, ErrNotFound):
		utils.RespondWithErrorTrace(w, http.StatusNotFound, firstLine(err), traceID)
	case errors.Is(err, ErrConflict):
		utils.RespondWithErrorTrace(w, http.StatusConflict, firstLine(err), traceID)
	case errors.Is(err, ErrInvalidInput):
		utils.RespondWithErrorTrace(w, http.StatusBadRequest, firstLine(err), traceID)
	default:
		utils.RespondWithErrorTrace(w, http.StatusInternalServerError, "Server error", traceID)
	}
}

// firstLine strips the wrapped sentinel suffix for client-facing messages.
func firstLine(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "+ErrNotFound.Error()); i > 0 {
		return msg[:i]
	}
	if i := strings.LastIndex(msg, ": "+ErrConflict.Error()); i > 0 {
		return msg[:i]
	}
	return msg
}

// POST /api/bookings/calculate-price
func CalculatePrice(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithErrorTrace(w, http.StatusBadRequest, "Invalid body", middleware.TraceID(r))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	quote, err := Eng.PriceInterval(ctx, req.StartTime, req.EndTime)
	if err != nil {
		RespondEngineErr(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, quote)
}

// POST /api/bookings/check-collisions
func CheckCollisions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		BookingDate string `json:"booking_date"`
		StartTime   string `json:"start_time"`
		EndTime     string `json:"end_time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithErrorTrace(w, http.StatusBadRequest, "Invalid body", middleware.TraceID(r))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	collisions, err := Eng.FindCollisions(ctx, req.BookingDate, req.StartTime, req.EndTime, "")
	if err != nil {
		RespondEngineErr(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"collisions":      collisions,
		"collision_count": len(collisions),
	})
}

// POST /api/bookings
func CreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		BookingDate string  `json:"booking_date"`
		StartTime   string  `json:"start_time"`
		EndTime     string  `json:"end_time"`
		IsBid       bool    `json:"is_bid"`
		BidAmount   float64 `json:"bid_amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithErrorTrace(w, http.StatusBadRequest, "Invalid body", middleware.TraceID(r))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := Eng.CreateBooking(ctx, CreateRequest{
		UserID:      middleware.UserID(r),
		BookingDate: req.BookingDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsBid:       req.IsBid,
		BidAmount:   req.BidAmount,
	})
	if err != nil {
		RespondEngineErr(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, result)
}

// GET /api/my-bookings
func GetMyBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.BookingsCollection.Find(ctx,
		bson.M{"user_id": middleware.UserID(r)},
		options.Find().SetSort(bson.D{{Key: "booking_date", Value: -1}, {Key: "start_time", Value: 1}}))
	if err != nil {
		utils.RespondWithErrorTrace(w, http.StatusInternalServerError, "Server error", middleware.TraceID(r))
		return
	}
	defer cur.Close(ctx)

	bookings := []models.Booking{}
	if err := cur.All(ctx, &bookings); err != nil {
		utils.RespondWithErrorTrace(w, http.StatusInternalServerError, "Server error", middleware.TraceID(r))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, bookings)
}

// GET /api/bookings/:id
// Only the owner or an admin may read a booking.
func GetBookingByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	b, err := Eng.store.BookingByID(ctx, ps.ByName("id"))
	if err != nil {
		RespondEngineErr(w, r, err)
		return
	}

	role, _ := r.Context().Value(globals.RoleKey).(string)
	if b.UserID != middleware.UserID(r) && role != "admin" {
		utils.RespondWithErrorTrace(w, http.StatusForbidden, "Access denied", middleware.TraceID(r))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, b)
}
