package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection                 *mongo.Collection
	BookingsCollection             *mongo.Collection
	CollisionsCollection           *mongo.Collection
	PricingCollection              *mongo.Collection
	SlotsCollection                *mongo.Collection
	NotificationsCollection        *mongo.Collection
	PaymentNotificationsCollection *mongo.Collection
	OperatingHoursCollection       *mongo.Collection
	Client                         *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	var err error
	Client, err = mongo.Connect(context.TODO(), options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database("turfdb")
	UserCollection = database.Collection("users")
	BookingsCollection = database.Collection("bookings")
	CollisionsCollection = database.Collection("booking_collisions")
	PricingCollection = database.Collection("time_slot_pricing")
	SlotsCollection = database.Collection("turf_slots")
	NotificationsCollection = database.Collection("admin_notifications")
	PaymentNotificationsCollection = database.Collection("payment_notifications")
	OperatingHoursCollection = database.Collection("operating_hours")
}
