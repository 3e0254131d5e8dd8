package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"turfbook/booking"
	"turfbook/db"
	"turfbook/middleware"
	"turfbook/models"
	"turfbook/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var validStatuses = map[string]bool{
	models.StatusPending:   true,
	models.StatusConfirmed: true,
	models.StatusCancelled: true,
	models.StatusRejected:  true,
}

// GET /api/admin/bookings
// Every booking with its collision records and the owner embedded, newest
// date first.
func GetAllBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cur, err := db.BookingsCollection.Aggregate(ctx, bson.A{
		bson.M{"$lookup": bson.M{
			"from":         "booking_collisions",
			"localField":   "id",
			"foreignField": "colliding_booking_id",
			"as":           "collisions",
		}},
		bson.M{"$lookup": bson.M{
			"from":         "users",
			"localField":   "user_id",
			"foreignField": "id",
			"as":           "user",
		}},
		bson.M{"$addFields": bson.M{
			"collision_count": bson.M{"$size": "$collisions"},
			"user_name":       bson.M{"$arrayElemAt": bson.A{"$user.name", 0}},
			"email":           bson.M{"$arrayElemAt": bson.A{"$user.email", 0}},
			"phone":           bson.M{"$arrayElemAt": bson.A{"$user.phone", 0}},
		}},
		bson.M{"$project": bson.M{"user": 0, "password": 0}},
		bson.M{"$sort": bson.D{{Key: "booking_date", Value: -1}, {Key: "start_time", Value: 1}}},
	})
	if err != nil {
		utils.RespondWithErrorTrace(w, http.StatusInternalServerError, "Server error", middleware.TraceID(r))
		return
	}
	defer cur.Close(ctx)

	rows := []bson.M{}
	if err := cur.All(ctx, &rows); err != nil {
		utils.RespondWithErrorTrace(w, http.StatusInternalServerError, "Server error", middleware.TraceID(r))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, rows)
}

// GET /api/admin/bookings/legacy?date=YYYY-MM-DD
func GetLegacyBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	sort := bson.D{{Key: "booking_date", Value: -1}, {Key: "start_time", Value: 1}}
	if date := r.URL.Query().Get("date"); date != "" {
		filter["booking_date"] = date
		sort = bson.D{{Key: "start_time", Value: 1}}
	}

	cur, err := db.BookingsCollection.Find(ctx, filter, options.Find().SetSort(sort))
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

// GET /api/admin/bookings/upcoming
// Today's and tomorrow's bookings.
func GetUpcomingBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	today := time.Now().Format("2006-01-02")
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	cur, err := db.BookingsCollection.Find(ctx,
		bson.M{"booking_date": bson.M{"$in": []string{today, tomorrow}}},
		options.Find().SetSort(bson.D{{Key: "booking_date", Value: 1}, {Key: "start_time", Value: 1}}))
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

// PUT /api/admin/bookings/:id/status
func UpdateBookingStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !validStatuses[req.Status] {
		utils.RespondWithErrorTrace(w, http.StatusBadRequest, "Invalid status", middleware.TraceID(r))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var b models.Booking
	err := db.BookingsCollection.FindOneAndUpdate(ctx,
		bson.M{"id": ps.ByName("id")},
		bson.M{"$set": bson.M{"status": req.Status, "updated_at": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&b)
	if err != nil {
		utils.RespondWithErrorTrace(w, http.StatusNotFound, "Booking not found", middleware.TraceID(r))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, b)
}

// PUT /api/admin/bookings/:id
// Moves a booking; refused outright when the new interval overlaps another
// active booking.
func UpdateBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		BookingDate string `json:"booking_date"`
		StartTime   string `json:"start_time"`
		EndTime     string `json:"end_time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithErrorTrace(w, http.StatusBadRequest, "Invalid body", middleware.TraceID(r))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	b, err := booking.Eng.EditBooking(ctx, ps.ByName("id"), req.BookingDate, req.StartTime, req.EndTime)
	if err != nil {
		booking.RespondEngineErr(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, b)
}

// DELETE /api/admin/bookings/:id
func DeleteBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := booking.Eng.DeleteBooking(ctx, ps.ByName("id")); err != nil {
		booking.RespondEngineErr(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Booking deleted successfully"})
}

// GET /api/admin/users
func GetAllUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.UserCollection.Find(ctx, bson.M{},
		options.Find().
			SetSort(bson.M{"created_at": -1}).
			SetProjection(bson.M{"password": 0}))
	if err != nil {
		utils.RespondWithErrorTrace(w, http.StatusInternalServerError, "Server error", middleware.TraceID(r))
		return
	}
	defer cur.Close(ctx)

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		utils.RespondWithErrorTrace(w, http.StatusInternalServerError, "Server error", middleware.TraceID(r))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, users)
}

// GET /api/admin/dashboard
func GetDashboardStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	today := time.Now().Format("2006-01-02")

	todayBookings, err := db.BookingsCollection.CountDocuments(ctx, bson.M{"booking_date": today})
	if err != nil {
		utils.RespondWithErrorTrace(w, http.StatusInternalServerError, "Server error", middleware.TraceID(r))
		return
	}
	pendingBookings, _ := db.BookingsCollection.CountDocuments(ctx, bson.M{"status": models.StatusPending})
	pendingBids, _ := db.BookingsCollection.CountDocuments(ctx, bson.M{"is_bid": true, "bid_status": models.BidPending})
	unresolvedCollisions, _ := db.CollisionsCollection.CountDocuments(ctx, bson.M{"collision_status": models.CollisionPending})
	unreadNotifications, _ := db.NotificationsCollection.CountDocuments(ctx, bson.M{"is_read": false})
	unreadPayments, _ := db.PaymentNotificationsCollection.CountDocuments(ctx, bson.M{"is_read": false})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"todayBookings":              todayBookings,
		"pendingBookings":            pendingBookings,
		"pendingBids":                pendingBids,
		"unresolvedCollisions":       unresolvedCollisions,
		"totalRevenue":               sumRevenue(ctx, bson.M{"status": models.StatusConfirmed}),
		"todayRevenue":               sumRevenue(ctx, bson.M{"status": models.StatusConfirmed, "booking_date": today}),
		"unreadNotifications":        unreadNotifications,
		"unreadPaymentNotifications": unreadPayments,
	})
}

func sumRevenue(ctx context.Context, match bson.M) float64 {
	cur, err := db.BookingsCollection.Aggregate(ctx, bson.A{
		bson.M{"$match": match},
		bson.M{"$group": bson.M{"_id": nil, "revenue": bson.M{"$sum": "$total_amount"}}},
	})
	if err != nil {
		return 0
	}
	defer cur.Close(ctx)

	var rows []struct {
		Revenue float64 `bson:"revenue"`
	}
	if err := cur.All(ctx, &rows); err != nil || len(rows) == 0 {
		return 0
	}
	return rows[0].Revenue
}
