package db

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"turfbook/models"
	"turfbook/utils"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

// Default two-hour bands covering 06:00 to 22:00. Seeded once into both the
// pricing table and the legacy fixed-slot catalogue.
var defaultBands = []struct {
	Label string
	Start string
	End   string
	Price float64
}{
	{"Early Morning", "06:00:00", "08:00:00", 500},
	{"Morning", "08:00:00", "10:00:00", 500},
	{"Late Morning", "10:00:00", "12:00:00", 600},
	{"Noon", "12:00:00", "14:00:00", 600},
	{"Afternoon", "14:00:00", "16:00:00", 600},
	{"Evening", "16:00:00", "18:00:00", 700},
	{"Prime Time", "18:00:00", "20:00:00", 800},
	{"Night", "20:00:00", "22:00:00", 800},
}

// EnsureDefaults seeds the admin account, rate bands, fixed slots and
// operating hours on first boot. Safe to call on every startup.
func EnsureDefaults(ctx context.Context) error {
	if err := seedAdmin(ctx); err != nil {
		return err
	}
	if err := seedPricing(ctx); err != nil {
		return err
	}
	if err := seedSlots(ctx); err != nil {
		return err
	}
	return seedOperatingHours(ctx)
}

func seedAdmin(ctx context.Context) error {
	count, err := UserCollection.CountDocuments(ctx, bson.M{"role": "admin"})
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := models.User{
		ID:        "u" + utils.GenerateID(10),
		Name:      "Admin",
		Email:     "admin@cricket.com",
		Password:  string(hashed),
		Role:      "admin",
		CreatedAt: time.Now(),
	}
	if _, err := UserCollection.InsertOne(ctx, admin); err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	log.Printf("seeded default admin %s", admin.Email)
	return nil
}

func seedPricing(ctx context.Context) error {
	count, err := PricingCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("count pricing: %w", err)
	}
	if count > 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(defaultBands))
	for _, b := range defaultBands {
		docs = append(docs, models.RateBand{
			ID:        utils.GenerateID(14),
			Label:     b.Label,
			StartTime: b.Start,
			EndTime:   b.End,
			BasePrice: b.Price,
			IsActive:  true,
			UpdatedAt: time.Now(),
		})
	}
	if _, err := PricingCollection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert pricing: %w", err)
	}
	log.Printf("seeded %d rate bands", len(docs))
	return nil
}

func seedSlots(ctx context.Context) error {
	count, err := SlotsCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("count slots: %w", err)
	}
	if count > 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(defaultBands))
	for _, b := range defaultBands {
		docs = append(docs, models.TurfSlot{
			ID:        utils.GenerateID(14),
			SlotName:  b.Label,
			StartTime: b.Start,
			EndTime:   b.End,
			Price:     b.Price * 2, // two hour slot, hourly rate
			IsActive:  true,
		})
	}
	if _, err := SlotsCollection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert slots: %w", err)
	}
	log.Printf("seeded %d turf slots", len(docs))
	return nil
}

func seedOperatingHours(ctx context.Context) error {
	count, err := OperatingHoursCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("count operating hours: %w", err)
	}
	if count > 0 {
		return nil
	}

	docs := make([]interface{}, 0, 7)
	for day := 0; day < 7; day++ {
		docs = append(docs, models.OperatingHours{
			DayOfWeek:   day,
			OpeningTime: "06:00:00",
			ClosingTime: "22:00:00",
			IsActive:    true,
			UpdatedAt:   time.Now(),
		})
	}
	if _, err := OperatingHoursCollection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert operating hours: %w", err)
	}
	log.Println("seeded operating hours")
	return nil
}
