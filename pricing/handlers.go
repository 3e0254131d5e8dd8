package pricing

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"turfbook/db"
	"turfbook/middleware"
	"turfbook/models"
	"turfbook/rdx"
	"turfbook/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const cacheKey = "pricing:active"

// ActiveBands returns the active rate band snapshot, served from Redis when
// fresh. The cache is invalidated on every admin pricing update.
func ActiveBands(ctx context.Context) ([]models.RateBand, error) {
	if cached, err := rdx.RdxGet(cacheKey); err == nil && cached != "" {
		var bands []models.RateBand
		if err := json.Unmarshal([]byte(cached), &bands); err == nil {
			return bands, nil
		}
	}

	cur, err := db.PricingCollection.Find(ctx, bson.M{"is_active": true},
		options.Find().SetSort(bson.M{"start_time": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var bands []models.RateBand
	if err := cur.All(ctx, &bands); err != nil {
		return nil, err
	}

	if data, err := json.Marshal(bands); err == nil {
		_ = rdx.RdxSet(cacheKey, string(data), time.Minute)
	}
	return bands, nil
}

// GET /api/pricing
func GetAllPricing(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.PricingCollection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"start_time": 1}))
	if err != nil {
		utils.RespondWithErrorTrace(w, http.StatusInternalServerError, "Server error", middleware.TraceID(r))
		return
	}
	defer cur.Close(ctx)

	bands := []models.RateBand{}
	if err := cur.All(ctx, &bands); err != nil {
		utils.RespondWithErrorTrace(w, http.StatusInternalServerError, "Server error", middleware.TraceID(r))
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, bands)
}

// PUT /api/admin/pricing
// Bands are never deleted; only base_price and is_active change.
func UpdatePricing(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		PricingID string   `json:"pricing_id"`
		BasePrice *float64 `json:"base_price"`
		IsActive  *bool    `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithErrorTrace(w, http.StatusBadRequest, "Invalid body", middleware.TraceID(r))
		return
	}
	if req.PricingID == "" || (req.BasePrice == nil && req.IsActive == nil) {
		utils.RespondWithErrorTrace(w, http.StatusBadRequest, "Missing pricing_id or fields to update", middleware.TraceID(r))
		return
	}
	if req.BasePrice != nil && *req.BasePrice < 0 {
		utils.RespondWithErrorTrace(w, http.StatusBadRequest, "base_price must not be negative", middleware.TraceID(r))
		return
	}

	set := bson.M{"updated_at": time.Now()}
	if req.BasePrice != nil {
		set["base_price"] = *req.BasePrice
	}
	if req.IsActive != nil {
		set["is_active"] = *req.IsActive
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var band models.RateBand
	err := db.PricingCollection.FindOneAndUpdate(ctx,
		bson.M{"id": req.PricingID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&band)
	if err != nil {
		utils.RespondWithErrorTrace(w, http.StatusNotFound, "Pricing not found", middleware.TraceID(r))
		return
	}

	_ = rdx.RdxDel(cacheKey)
	utils.RespondWithJSON(w, http.StatusOK, band)
}
