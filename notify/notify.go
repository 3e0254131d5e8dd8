package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"turfbook/models"
	"turfbook/rdx"
	"turfbook/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

// Notification types emitted by the booking engine and admin surface.
const (
	TypeCollisionDetected = "collision_detected"
	TypeBidRequest        = "bid_request"
	TypeBidApprove        = "bid_approve"
	TypeBidReject         = "bid_reject"
	TypeCollisionApproved = "collision_resolved_approved"
	TypeCollisionRejected = "collision_resolved_rejected"
)

// Notifier is the fire-and-forget sink consumed by the booking engine. A
// failed notification must never roll back the mutation it accompanies, so
// implementations log and swallow their own errors.
type Notifier interface {
	Notify(ctx context.Context, bookingID, userID, notificationType, message string)
}

// Emitter appends notifications to the admin inbox collection and mirrors
// them on a Redis channel for any live consumer.
type Emitter struct {
	coll    *mongo.Collection
	channel string
}

func NewEmitter(coll *mongo.Collection) *Emitter {
	return &Emitter{coll: coll, channel: "booking-events"}
}

func (e *Emitter) Notify(ctx context.Context, bookingID, userID, notificationType, message string) {
	n := models.AdminNotification{
		ID:               utils.GenerateID(14),
		BookingID:        bookingID,
		UserID:           userID,
		NotificationType: notificationType,
		Message:          message,
		IsRead:           false,
		CreatedAt:        time.Now(),
	}

	if _, err := e.coll.InsertOne(ctx, n); err != nil {
		log.Printf("[notify] insert failed for booking %s: %v", bookingID, err)
		return
	}

	data, err := json.Marshal(n)
	if err != nil {
		log.Printf("[notify] marshal failed for booking %s: %v", bookingID, err)
		return
	}

	if err := rdx.Conn.Publish(context.Background(), e.channel, data).Err(); err != nil {
		log.Printf("[notify] publish failed for booking %s: %v", bookingID, err)
	}
}

// StartEventWorker subscribes to the notification channel and logs events as
// they arrive. Live delivery beyond logging is out of scope; this keeps a
// single consumer draining the channel.
func StartEventWorker() {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, "booking-events")
	ch := sub.Channel()

	log.Println("[notify] event worker listening")

	for msg := range ch {
		var n models.AdminNotification
		if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
			log.Printf("[notify] bad event payload: %v", err)
			continue
		}
		log.Printf("[notify] %s booking=%s user=%s", n.NotificationType, n.BookingID, n.UserID)
	}
}
