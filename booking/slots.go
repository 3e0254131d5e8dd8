package booking

import (
	"context"
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

// The fixed-slot routes predate free-form intervals. A slot is just a
// pre-registered interval; availability is answered by the same engine.

// GET /api/slots
func GetSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	slots, err := activeSlots(ctx)
	if err != nil {
		utils.RespondWithErrorTrace(w, http.StatusInternalServerError, "Server error", middleware.TraceID(r))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, slots)
}

// GET /api/slots/available/:date
// A slot is available on a date iff no active booking overlaps its interval.
func GetAvailableSlots(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	date := ps.ByName("date")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	slots, err := activeSlots(ctx)
	if err != nil {
		utils.RespondWithErrorTrace(w, http.StatusInternalServerError, "Server error", middleware.TraceID(r))
		return
	}

	available, err := availableOn(ctx, Eng, slots, date)
	if err != nil {
		RespondEngineErr(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, available)
}

// availableOn keeps a slot iff the engine finds no collision for its interval.
func availableOn(ctx context.Context, eng *Engine, slots []models.TurfSlot, date string) ([]models.TurfSlot, error) {
	available := []models.TurfSlot{}
	for _, slot := range slots {
		collisions, err := eng.FindCollisions(ctx, date, slot.StartTime, slot.EndTime, "")
		if err != nil {
			return nil, err
		}
		if len(collisions) == 0 {
			available = append(available, slot)
		}
	}
	return available, nil
}

func activeSlots(ctx context.Context) ([]models.TurfSlot, error) {
	cur, err := db.SlotsCollection.Find(ctx, bson.M{"is_active": true},
		options.Find().SetSort(bson.M{"start_time": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var slots []models.TurfSlot
	if err := cur.All(ctx, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}
