package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"turfbook/models"
	"turfbook/pricing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoStore persists bookings and collisions in MongoDB. Rate bands come
// from the pricing package so every caller shares the same cached snapshot.
type mongoStore struct {
	bookings   *mongo.Collection
	collisions *mongo.Collection
}

func NewMongoStore(bookings, collisions *mongo.Collection) Store {
	return &mongoStore{bookings: bookings, collisions: collisions}
}

func (s *mongoStore) ActiveRateBands(ctx context.Context) ([]models.RateBand, error) {
	return pricing.ActiveBands(ctx)
}

func (s *mongoStore) ActiveBookingsOnDate(ctx context.Context, date string) ([]models.Booking, error) {
	cur, err := s.bookings.Find(ctx, bson.M{
		"booking_date": date,
		"status":       bson.M{"$in": []string{models.StatusPending, models.StatusConfirmed}},
	}, options.Find().SetSort(bson.M{"start_time": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Booking
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *mongoStore) BookingByID(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	err := s.bookings.FindOne(ctx, bson.M{"id": id}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *mongoStore) InsertBooking(ctx context.Context, b *models.Booking) error {
	_, err := s.bookings.InsertOne(ctx, b)
	return err
}

func (s *mongoStore) SetBookingStatus(ctx context.Context, id, status string, at time.Time) error {
	_, err := s.bookings.UpdateOne(ctx, bson.M{"id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": at}})
	return err
}

func (s *mongoStore) SetBidOutcome(ctx context.Context, id, bidStatus, status string, at time.Time) error {
	_, err := s.bookings.UpdateOne(ctx, bson.M{"id": id},
		bson.M{"$set": bson.M{"bid_status": bidStatus, "status": status, "updated_at": at}})
	return err
}

func (s *mongoStore) UpdateBookingInterval(ctx context.Context, id, date, start, end string, amount float64, at time.Time) error {
	_, err := s.bookings.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{
		"booking_date": date,
		"start_time":   start,
		"end_time":     end,
		"total_amount": amount,
		"updated_at":   at,
	}})
	return err
}

func (s *mongoStore) DeleteBooking(ctx context.Context, id string) error {
	res, err := s.bookings.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *mongoStore) InsertCollision(ctx context.Context, c *models.Collision) error {
	_, err := s.collisions.InsertOne(ctx, c)
	return err
}

func (s *mongoStore) CollisionByID(ctx context.Context, id string) (*models.Collision, error) {
	var c models.Collision
	err := s.collisions.FindOne(ctx, bson.M{"id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("collision %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *mongoStore) CollisionsByColliding(ctx context.Context, bookingID string) ([]models.Collision, error) {
	cur, err := s.collisions.Find(ctx, bson.M{"colliding_booking_id": bookingID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Collision
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *mongoStore) MarkCollisionResolved(ctx context.Context, id, adminID string, at time.Time) error {
	_, err := s.collisions.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{
		"collision_status": models.CollisionResolved,
		"resolved_by":      adminID,
		"updated_at":       at,
	}})
	return err
}

func (s *mongoStore) DeleteCollisionsForBooking(ctx context.Context, bookingID string) error {
	_, err := s.collisions.DeleteMany(ctx, bson.M{"$or": []bson.M{
		{"original_booking_id": bookingID},
		{"colliding_booking_id": bookingID},
	}})
	return err
}
