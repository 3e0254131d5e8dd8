package models

import "time"

// Booking statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusRejected  = "rejected"
)

// Bid statuses. Empty means the booking is not a bid.
const (
	BidPending  = "pending"
	BidAccepted = "accepted"
	BidRejected = "rejected"
)

// Collision statuses.
const (
	CollisionPending  = "pending"
	CollisionResolved = "resolved"
)

type User struct {
	ID        string    `json:"id" bson:"id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Phone     string    `json:"phone" bson:"phone"`
	Password  string    `json:"-" bson:"password"`
	Role      string    `json:"role" bson:"role"` // "user" or "admin"
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// RateBand is a time-of-day interval with an hourly price. Bands are never
// deleted, only deactivated; only base_price and is_active are mutable.
type RateBand struct {
	ID        string    `json:"id" bson:"id"`
	Label     string    `json:"label" bson:"label"`
	StartTime string    `json:"start_time" bson:"start_time"` // HH:MM:SS
	EndTime   string    `json:"end_time" bson:"end_time"`
	BasePrice float64   `json:"base_price" bson:"base_price"` // per hour
	IsActive  bool      `json:"is_active" bson:"is_active"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

type Booking struct {
	ID          string    `json:"id" bson:"id"`
	UserID      string    `json:"user_id" bson:"user_id"`
	BookingDate string    `json:"booking_date" bson:"booking_date"` // YYYY-MM-DD
	StartTime   string    `json:"start_time" bson:"start_time"`     // HH:MM:SS
	EndTime     string    `json:"end_time" bson:"end_time"`
	TotalAmount float64   `json:"total_amount" bson:"total_amount"`
	Status      string    `json:"status" bson:"status"`
	IsBid       bool      `json:"is_bid" bson:"is_bid"`
	BidAmount   float64   `json:"bid_amount,omitempty" bson:"bid_amount,omitempty"`
	BidStatus   string    `json:"bid_status,omitempty" bson:"bid_status,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// Collision links an older booking with a newer one that overlaps it.
// Created together with the colliding booking, mutated only by adjudication.
type Collision struct {
	ID                 string    `json:"id" bson:"id"`
	OriginalBookingID  string    `json:"original_booking_id" bson:"original_booking_id"`
	CollidingBookingID string    `json:"colliding_booking_id" bson:"colliding_booking_id"`
	CollisionStatus    string    `json:"collision_status" bson:"collision_status"`
	ResolvedBy         string    `json:"resolved_by,omitempty" bson:"resolved_by,omitempty"`
	CreatedAt          time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" bson:"updated_at"`
}

type AdminNotification struct {
	ID               string    `json:"id" bson:"id"`
	BookingID        string    `json:"booking_id" bson:"booking_id"`
	UserID           string    `json:"user_id" bson:"user_id"`
	NotificationType string    `json:"notification_type" bson:"notification_type"`
	Message          string    `json:"message" bson:"message"`
	IsRead           bool      `json:"is_read" bson:"is_read"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
}

// PaymentNotification records a user's claim of having paid. The system does
// not process payments; this is an inbox entry for the admin to verify.
type PaymentNotification struct {
	ID            string    `json:"id" bson:"id"`
	BookingID     string    `json:"booking_id" bson:"booking_id"`
	PaymentMethod string    `json:"payment_method" bson:"payment_method"`
	Message       string    `json:"message" bson:"message"`
	IsRead        bool      `json:"is_read" bson:"is_read"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}

// TurfSlot is the legacy fixed-slot variant: a pre-registered interval with a
// flat price. Availability for a slot is answered by the same collision
// engine that backs free-form bookings.
type TurfSlot struct {
	ID        string  `json:"id" bson:"id"`
	SlotName  string  `json:"slot_name" bson:"slot_name"`
	StartTime string  `json:"start_time" bson:"start_time"`
	EndTime   string  `json:"end_time" bson:"end_time"`
	Price     float64 `json:"price" bson:"price"`
	IsActive  bool    `json:"is_active" bson:"is_active"`
}

type OperatingHours struct {
	DayOfWeek   int       `json:"day_of_week" bson:"day_of_week"` // 0=Sun..6=Sat
	OpeningTime string    `json:"opening_time" bson:"opening_time"`
	ClosingTime string    `json:"closing_time" bson:"closing_time"`
	IsActive    bool      `json:"is_active" bson:"is_active"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}
