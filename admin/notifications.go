package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"turfbook/db"
	"turfbook/middleware"
	"turfbook/models"
	"turfbook/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GET /api/admin/notifications
// Unread inbox entries, newest first.
func GetNotifications(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.NotificationsCollection.Find(ctx, bson.M{"is_read": false},
		options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		utils.RespondWithErrorTrace(w, http.StatusInternalServerError, "Server error", middleware.TraceID(r))
		return
	}
	defer cur.Close(ctx)

	notifications := []models.AdminNotification{}
	if err := cur.All(ctx, &notifications); err != nil {
		utils.RespondWithErrorTrace(w, http.StatusInternalServerError, "Server error", middleware.TraceID(r))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, notifications)
}

// PUT /api/admin/notifications/:notification_id/read
func MarkNotificationRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var n models.AdminNotification
	err := db.NotificationsCollection.FindOneAndUpdate(ctx,
		bson.M{"id": ps.ByName("notification_id")},
		bson.M{"$set": bson.M{"is_read": true}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&n)
	if err != nil {
		utils.RespondWithErrorTrace(w, http.StatusNotFound, "Notification not found", middleware.TraceID(r))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, n)
}

// POST /api/payment-confirmation
// Records a user's claim of payment; no money moves through this system.
func HandlePaymentConfirmation(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		BookingID     string `json:"bookingId"`
		PaymentMethod string `json:"paymentMethod"`
		Message       string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithErrorTrace(w, http.StatusBadRequest, "Invalid body", middleware.TraceID(r))
		return
	}
	if req.BookingID == "" || req.PaymentMethod == "" || req.Message == "" {
		utils.RespondWithErrorTrace(w, http.StatusBadRequest,
			"Missing required fields: bookingId, paymentMethod, or message", middleware.TraceID(r))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	n := models.PaymentNotification{
		ID:            utils.GenerateID(14),
		BookingID:     req.BookingID,
		PaymentMethod: req.PaymentMethod,
		Message:       req.Message,
		IsRead:        false,
		CreatedAt:     time.Now(),
	}
	if _, err := db.PaymentNotificationsCollection.InsertOne(ctx, n); err != nil {
		utils.RespondWithErrorTrace(w, http.StatusInternalServerError, "Server error", middleware.TraceID(r))
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":       true,
		"message":       "Payment confirmation received successfully",
		"bookingId":     req.BookingID,
		"paymentMethod": req.PaymentMethod,
		"timestamp":     n.CreatedAt.Format(time.RFC3339),
	})
}

// GET /api/admin/payment-notifications
func GetPaymentNotifications(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.PaymentNotificationsCollection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		utils.RespondWithErrorTrace(w, http.StatusInternalServerError, "Server error", middleware.TraceID(r))
		return
	}
	defer cur.Close(ctx)

	notifications := []models.PaymentNotification{}
	if err := cur.All(ctx, &notifications); err != nil {
		utils.RespondWithErrorTrace(w, http.StatusInternalServerError, "Server error", middleware.TraceID(r))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, notifications)
}

// PUT /api/admin/payment-notifications/:notification_id/read
func MarkPaymentNotificationRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	_, err := db.PaymentNotificationsCollection.UpdateOne(ctx,
		bson.M{"id": ps.ByName("notification_id")},
		bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		utils.RespondWithErrorTrace(w, http.StatusInternalServerError, "Server error", middleware.TraceID(r))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Payment notification marked as read",
	})
}
