package booking

import (
	"context"
	"fmt"
	"time"

	"turfbook/models"
	"turfbook/notify"
	"turfbook/pricing"
	"turfbook/utils"
)

// Store is the persistence surface the engine needs. The Mongo implementation
// lives in store.go; tests use an in-memory one.
type Store interface {
	ActiveRateBands(ctx context.Context) ([]models.RateBand, error)

	// ActiveBookingsOnDate returns pending and confirmed bookings for a date.
	ActiveBookingsOnDate(ctx context.Context, date string) ([]models.Booking, error)
	BookingByID(ctx context.Context, id string) (*models.Booking, error)
	InsertBooking(ctx context.Context, b *models.Booking) error
	SetBookingStatus(ctx context.Context, id, status string, at time.Time) error
	SetBidOutcome(ctx context.Context, id, bidStatus, status string, at time.Time) error
	UpdateBookingInterval(ctx context.Context, id, date, start, end string, amount float64, at time.Time) error
	DeleteBooking(ctx context.Context, id string) error

	InsertCollision(ctx context.Context, c *models.Collision) error
	CollisionByID(ctx context.Context, id string) (*models.Collision, error)
	CollisionsByColliding(ctx context.Context, bookingID string) ([]models.Collision, error)
	MarkCollisionResolved(ctx context.Context, id, adminID string, at time.Time) error
	DeleteCollisionsForBooking(ctx context.Context, bookingID string) error
}

// Engine owns booking pricing, collision detection and lifecycle. All
// collaborators are injected; it holds no ambient state.
type Engine struct {
	store    Store
	notifier notify.Notifier
	now      func() time.Time
}

func NewEngine(store Store, notifier notify.Notifier, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{store: store, notifier: notifier, now: now}
}

// PriceInterval quotes an arbitrary time-of-day interval against the active
// rate bands. A zero total means no band covers the interval; the caller
// decides whether that is a configuration problem.
func (e *Engine) PriceInterval(ctx context.Context, start, end string) (pricing.Quote, error) {
	iv, err := pricing.ParseInterval(start, end)
	if err != nil {
		return pricing.Quote{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	bands, err := e.store.ActiveRateBands(ctx)
	if err != nil {
		return pricing.Quote{}, err
	}
	return pricing.Price(bands, iv), nil
}

// FindCollisions returns every pending or confirmed booking on the date whose
// interval overlaps [start,end) under half-open semantics. excludeID drops the
// booking being edited from the result.
func (e *Engine) FindCollisions(ctx context.Context, date, start, end, excludeID string) ([]models.Booking, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	iv, err := pricing.ParseInterval(start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	existing, err := e.store.ActiveBookingsOnDate(ctx, date)
	if err != nil {
		return nil, err
	}

	collisions := []models.Booking{}
	for _, b := range existing {
		if b.ID == excludeID {
			continue
		}
		other, err := pricing.ParseInterval(b.StartTime, b.EndTime)
		if err != nil {
			continue
		}
		if pricing.Overlaps(iv, other) {
			collisions = append(collisions, b)
		}
	}
	return collisions, nil
}

type CreateRequest struct {
	UserID      string
	BookingDate string
	StartTime   string
	EndTime     string
	IsBid       bool
	BidAmount   float64
}

type CreateResult struct {
	Booking    models.Booking   `json:"booking"`
	Collisions []models.Booking `json:"collisions"`
}

// CreateBooking prices the interval, detects collisions against existing
// active bookings and persists the booking together with one collision record
// per conflicting booking. Conflicting requests are never refused here: the
// new booking starts pending and the admin adjudicates later. Pre-existing
// unadjudicated bids do not block creation either.
func (e *Engine) CreateBooking(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidInput)
	}
	if err := validateDate(req.BookingDate); err != nil {
		return nil, err
	}
	iv, err := pricing.ParseInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if req.IsBid && req.BidAmount <= 0 {
		return nil, fmt.Errorf("%w: bid_amount must be positive", ErrInvalidInput)
	}

	bands, err := e.store.ActiveRateBands(ctx)
	if err != nil {
		return nil, err
	}
	basePrice := pricing.Price(bands, iv).Total

	// A bid may exceed the computed price but never undercut it.
	amount := basePrice
	if req.IsBid && req.BidAmount > basePrice {
		amount = req.BidAmount
	}

	collisions, err := e.FindCollisions(ctx, req.BookingDate, req.StartTime, req.EndTime, "")
	if err != nil {
		return nil, err
	}

	now := e.now()
	b := models.Booking{
		ID:          utils.GenerateID(14),
		UserID:      req.UserID,
		BookingDate: req.BookingDate,
		StartTime:   pricing.FormatClock(iv.Start),
		EndTime:     pricing.FormatClock(iv.End),
		TotalAmount: amount,
		Status:      models.StatusConfirmed,
		IsBid:       req.IsBid,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if len(collisions) > 0 {
		b.Status = models.StatusPending
	}
	if req.IsBid {
		b.BidAmount = req.BidAmount
		b.BidStatus = models.BidPending
	}

	if err := e.store.InsertBooking(ctx, &b); err != nil {
		return nil, err
	}

	notifType := notify.TypeCollisionDetected
	if req.IsBid {
		notifType = notify.TypeBidRequest
	}
	for _, existing := range collisions {
		c := models.Collision{
			ID:                 utils.GenerateID(14),
			OriginalBookingID:  existing.ID,
			CollidingBookingID: b.ID,
			CollisionStatus:    models.CollisionPending,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err := e.store.InsertCollision(ctx, &c); err != nil {
			return nil, err
		}
		e.notifier.Notify(ctx, b.ID, b.UserID, notifType,
			fmt.Sprintf("Booking for %s from %s to %s conflicts with an existing booking (%s-%s).",
				b.BookingDate, b.StartTime, b.EndTime, existing.StartTime, existing.EndTime))
	}

	return &CreateResult{Booking: b, Collisions: collisions}, nil
}

// AdjudicateBid finalizes a bid. Approving confirms the bid, rejects every
// booking it collided with and resolves those collision records. Rejecting
// touches only the bid itself; competing bookings may still need their own
// adjudication. A bid that is no longer pending is returned unchanged.
func (e *Engine) AdjudicateBid(ctx context.Context, bookingID, action, adminID string) (*models.Booking, error) {
	if action != "approve" && action != "reject" {
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidInput, action)
	}

	b, err := e.store.BookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsBid {
		return nil, fmt.Errorf("booking %s is not a bid: %w", bookingID, ErrNotFound)
	}
	if b.BidStatus != models.BidPending {
		// Already adjudicated; repeat calls are a no-op.
		return b, nil
	}

	now := e.now()
	if action == "approve" {
		if err := e.store.SetBidOutcome(ctx, b.ID, models.BidAccepted, models.StatusConfirmed, now); err != nil {
			return nil, err
		}
		b.BidStatus = models.BidAccepted
		b.Status = models.StatusConfirmed

		cols, err := e.store.CollisionsByColliding(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		for _, c := range cols {
			if err := e.store.SetBookingStatus(ctx, c.OriginalBookingID, models.StatusRejected, now); err != nil {
				return nil, err
			}
			if err := e.store.MarkCollisionResolved(ctx, c.ID, adminID, now); err != nil {
				return nil, err
			}
		}

		e.notifier.Notify(ctx, b.ID, b.UserID, notify.TypeBidApprove,
			fmt.Sprintf("Your bid for %s from %s to %s has been approved!", b.BookingDate, b.StartTime, b.EndTime))
	} else {
		if err := e.store.SetBidOutcome(ctx, b.ID, models.BidRejected, models.StatusRejected, now); err != nil {
			return nil, err
		}
		b.BidStatus = models.BidRejected
		b.Status = models.StatusRejected

		e.notifier.Notify(ctx, b.ID, b.UserID, notify.TypeBidReject,
			fmt.Sprintf("Your bid for %s from %s to %s has been rejected.", b.BookingDate, b.StartTime, b.EndTime))
	}

	b.UpdatedAt = now
	return b, nil
}

// ResolveCollision settles a non-bid collision. The admin names the winner
// and the loser explicitly; no first-come-first-served rule is inferred.
func (e *Engine) ResolveCollision(ctx context.Context, collisionID, preferredID, rejectedID, adminID string) (*models.Booking, *models.Booking, error) {
	if _, err := e.store.CollisionByID(ctx, collisionID); err != nil {
		return nil, nil, err
	}
	preferred, err := e.store.BookingByID(ctx, preferredID)
	if err != nil {
		return nil, nil, err
	}
	rejected, err := e.store.BookingByID(ctx, rejectedID)
	if err != nil {
		return nil, nil, err
	}

	now := e.now()
	if err := e.store.MarkCollisionResolved(ctx, collisionID, adminID, now); err != nil {
		return nil, nil, err
	}
	if err := e.store.SetBookingStatus(ctx, preferred.ID, models.StatusConfirmed, now); err != nil {
		return nil, nil, err
	}
	if err := e.store.SetBookingStatus(ctx, rejected.ID, models.StatusRejected, now); err != nil {
		return nil, nil, err
	}
	preferred.Status = models.StatusConfirmed
	preferred.UpdatedAt = now
	rejected.Status = models.StatusRejected
	rejected.UpdatedAt = now

	e.notifier.Notify(ctx, preferred.ID, preferred.UserID, notify.TypeCollisionApproved,
		fmt.Sprintf("Your booking for %s from %s to %s has been confirmed!",
			preferred.BookingDate, preferred.StartTime, preferred.EndTime))
	e.notifier.Notify(ctx, rejected.ID, rejected.UserID, notify.TypeCollisionRejected,
		fmt.Sprintf("Your booking for %s from %s to %s has been rejected due to a time conflict.",
			rejected.BookingDate, rejected.StartTime, rejected.EndTime))

	return preferred, rejected, nil
}

// EditBooking moves a booking to a new date/interval. Unlike creation, an
// edit never records collisions: any overlap with another active booking
// blocks the edit outright. The amount is recomputed from the rate bands.
func (e *Engine) EditBooking(ctx context.Context, bookingID, date, start, end string) (*models.Booking, error) {
	b, err := e.store.BookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := validateDate(date); err != nil {
		return nil, err
	}
	iv, err := pricing.ParseInterval(start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	collisions, err := e.FindCollisions(ctx, date, start, end, b.ID)
	if err != nil {
		return nil, err
	}
	if len(collisions) > 0 {
		return nil, fmt.Errorf("Time slot already booked: %w", ErrConflict)
	}

	bands, err := e.store.ActiveRateBands(ctx)
	if err != nil {
		return nil, err
	}
	amount := pricing.Price(bands, iv).Total

	now := e.now()
	startStr := pricing.FormatClock(iv.Start)
	endStr := pricing.FormatClock(iv.End)
	if err := e.store.UpdateBookingInterval(ctx, b.ID, date, startStr, endStr, amount, now); err != nil {
		return nil, err
	}

	b.BookingDate = date
	b.StartTime = startStr
	b.EndTime = endStr
	b.TotalAmount = amount
	b.UpdatedAt = now
	return b, nil
}

// DeleteBooking removes the booking and every collision record referencing it
// on either side, so no dangling collision rows survive.
func (e *Engine) DeleteBooking(ctx context.Context, bookingID string) error {
	if err := e.store.DeleteBooking(ctx, bookingID); err != nil {
		return err
	}
	return e.store.DeleteCollisionsForBooking(ctx, bookingID)
}

func validateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("%w: invalid booking_date %q", ErrInvalidInput, date)
	}
	return nil
}
