package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"turfbook/booking"
	"turfbook/middleware"
	"turfbook/utils"

	"github.com/julienschmidt/httprouter"
)

// POST /api/admin/handle-bid
func HandleBid(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		BookingID string `json:"booking_id"`
		Action    string `json:"action"` // "approve" or "reject"
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithErrorTrace(w, http.StatusBadRequest, "Invalid body", middleware.TraceID(r))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	b, err := booking.Eng.AdjudicateBid(ctx, req.BookingID, req.Action, middleware.UserID(r))
	if err != nil {
		booking.RespondEngineErr(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":    true,
		"message":    "Bid " + req.Action + "d successfully",
		"booking_id": b.ID,
		"action":     req.Action,
		"booking":    b,
	})
}

// POST /api/admin/resolve-collision
func ResolveCollision(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		CollisionID        string `json:"collision_id"`
		PreferredBookingID string `json:"preferred_booking_id"`
		RejectedBookingID  string `json:"rejected_booking_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithErrorTrace(w, http.StatusBadRequest, "Invalid body", middleware.TraceID(r))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	preferred, rejected, err := booking.Eng.ResolveCollision(ctx,
		req.CollisionID, req.PreferredBookingID, req.RejectedBookingID, middleware.UserID(r))
	if err != nil {
		booking.RespondEngineErr(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":      true,
		"message":      "Collision resolved successfully",
		"collision_id": req.CollisionID,
		"preferred":    preferred,
		"rejected":     rejected,
	})
}
