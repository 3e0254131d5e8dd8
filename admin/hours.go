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

// GET /api/admin/operating-hours
func GetOperatingHours(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.OperatingHoursCollection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"day_of_week": 1}))
	if err != nil {
		utils.RespondWithErrorTrace(w, http.StatusInternalServerError, "Server error", middleware.TraceID(r))
		return
	}
	defer cur.Close(ctx)

	hours := []models.OperatingHours{}
	if err := cur.All(ctx, &hours); err != nil {
		utils.RespondWithErrorTrace(w, http.StatusInternalServerError, "Server error", middleware.TraceID(r))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, hours)
}

// PUT /api/admin/operating-hours
// Upserts one document per weekday.
func UpdateOperatingHours(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		OperatingHours []models.OperatingHours `json:"operating_hours"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.OperatingHours) == 0 {
		utils.RespondWithErrorTrace(w, http.StatusBadRequest, "Invalid body", middleware.TraceID(r))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	for _, h := range req.OperatingHours {
		if h.DayOfWeek < 0 || h.DayOfWeek > 6 {
			utils.RespondWithErrorTrace(w, http.StatusBadRequest, "day_of_week must be 0-6", middleware.TraceID(r))
			return
		}
		h.UpdatedAt = time.Now()
		_, err := db.OperatingHoursCollection.UpdateOne(ctx,
			bson.M{"day_of_week": h.DayOfWeek},
			bson.M{"$set": h},
			options.Update().SetUpsert(true))
		if err != nil {
			utils.RespondWithErrorTrace(w, http.StatusInternalServerError, "Server error", middleware.TraceID(r))
			return
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Operating hours updated successfully",
	})
}
