package booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"turfbook/models"
	"turfbook/notify"
)

// memStore is an in-memory Store used by engine tests.
type memStore struct {
	bands      []models.RateBand
	bookings   map[string]models.Booking
	collisions map[string]models.Collision
}

func newMemStore(bands ...models.RateBand) *memStore {
	return &memStore{
		bands:      bands,
		bookings:   make(map[string]models.Booking),
		collisions: make(map[string]models.Collision),
	}
}

func (s *memStore) ActiveRateBands(ctx context.Context) ([]models.RateBand, error) {
	return s.bands, nil
}

func (s *memStore) ActiveBookingsOnDate(ctx context.Context, date string) ([]models.Booking, error) {
	out := []models.Booking{}
	for _, b := range s.bookings {
		if b.BookingDate != date {
			continue
		}
		if b.Status != models.StatusPending && b.Status != models.StatusConfirmed {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (s *memStore) BookingByID(ctx context.Context, id string) (*models.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}
	return &b, nil
}

func (s *memStore) InsertBooking(ctx context.Context, b *models.Booking) error {
	s.bookings[b.ID] = *b
	return nil
}

func (s *memStore) SetBookingStatus(ctx context.Context, id, status string, at time.Time) error {
	b, ok := s.bookings[id]
	if !ok {
		return fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}
	b.Status = status
	b.UpdatedAt = at
	s.bookings[id] = b
	return nil
}

func (s *memStore) SetBidOutcome(ctx context.Context, id, bidStatus, status string, at time.Time) error {
	b, ok := s.bookings[id]
	if !ok {
		return fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}
	b.BidStatus = bidStatus
	b.Status = status
	b.UpdatedAt = at
	s.bookings[id] = b
	return nil
}

func (s *memStore) UpdateBookingInterval(ctx context.Context, id, date, start, end string, amount float64, at time.Time) error {
	b, ok := s.bookings[id]
	if !ok {
		return fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}
	b.BookingDate = date
	b.StartTime = start
	b.EndTime = end
	b.TotalAmount = amount
	b.UpdatedAt = at
	s.bookings[id] = b
	return nil
}

func (s *memStore) DeleteBooking(ctx context.Context, id string) error {
	if _, ok := s.bookings[id]; !ok {
		return fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}
	delete(s.bookings, id)
	return nil
}

func (s *memStore) InsertCollision(ctx context.Context, c *models.Collision) error {
	s.collisions[c.ID] = *c
	return nil
}

func (s *memStore) CollisionByID(ctx context.Context, id string) (*models.Collision, error) {
	c, ok := s.collisions[id]
	if !ok {
		return nil, fmt.Errorf("collision %s: %w", id, ErrNotFound)
	}
	return &c, nil
}

func (s *memStore) CollisionsByColliding(ctx context.Context, bookingID string) ([]models.Collision, error) {
	out := []models.Collision{}
	for _, c := range s.collisions {
		if c.CollidingBookingID == bookingID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memStore) MarkCollisionResolved(ctx context.Context, id, adminID string, at time.Time) error {
	c, ok := s.collisions[id]
	if !ok {
		return fmt.Errorf("collision %s: %w", id, ErrNotFound)
	}
	c.CollisionStatus = models.CollisionResolved
	c.ResolvedBy = adminID
	c.UpdatedAt = at
	s.collisions[id] = c
	return nil
}

func (s *memStore) DeleteCollisionsForBooking(ctx context.Context, bookingID string) error {
	for id, c := range s.collisions {
		if c.OriginalBookingID == bookingID || c.CollidingBookingID == bookingID {
			delete(s.collisions, id)
		}
	}
	return nil
}

type sentNotification struct {
	BookingID string
	UserID    string
	Type      string
	Message   string
}

type recordingNotifier struct {
	sent []sentNotification
}

func (n *recordingNotifier) Notify(ctx context.Context, bookingID, userID, notificationType, message string) {
	n.sent = append(n.sent, sentNotification{bookingID, userID, notificationType, message})
}

var testClock = func() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func testBand(id, start, end string, price float64) models.RateBand {
	return models.RateBand{ID: id, Label: id, StartTime: start, EndTime: end, BasePrice: price, IsActive: true}
}

func newTestEngine(bands ...models.RateBand) (*Engine, *memStore, *recordingNotifier) {
	store := newMemStore(bands...)
	notifier := &recordingNotifier{}
	return NewEngine(store, notifier, testClock), store, notifier
}

func TestCreateBookingNoCollision(t *testing.T) {
	eng, store, notifier := newTestEngine(testBand("b1", "06:00:00", "08:00:00", 500))

	res, err := eng.CreateBooking(context.Background(), CreateRequest{
		UserID:      "u1",
		BookingDate: "2025-06-10",
		StartTime:   "06:00",
		EndTime:     "07:00",
	})
	if err != nil {
		t.Fatal(err)
	}
	b := res.Booking
	if b.Status != models.StatusConfirmed {
		t.Errorf("status = %q, want confirmed", b.Status)
	}
	if b.TotalAmount != 500 {
		t.Errorf("amount = %v, want 500", b.TotalAmount)
	}
	if b.StartTime != "06:00:00" || b.EndTime != "07:00:00" {
		t.Errorf("times not canonical: %q-%q", b.StartTime, b.EndTime)
	}
	if len(res.Collisions) != 0 || len(store.collisions) != 0 {
		t.Errorf("unexpected collisions: %v", res.Collisions)
	}
	if len(notifier.sent) != 0 {
		t.Errorf("unexpected notifications: %v", notifier.sent)
	}
}

func TestCreateBookingCollisionGoesPending(t *testing.T) {
	eng, store, notifier := newTestEngine(testBand("b1", "06:00:00", "08:00:00", 500))
	ctx := context.Background()

	first, err := eng.CreateBooking(ctx, CreateRequest{
		UserID: "u1", BookingDate: "2025-06-10", StartTime: "06:00", EndTime: "07:00",
	})
	if err != nil {
		t.Fatal(err)
	}

	second, err := eng.CreateBooking(ctx, CreateRequest{
		UserID: "u2", BookingDate: "2025-06-10", StartTime: "06:30", EndTime: "07:30",
	})
	if err != nil {
		t.Fatal(err)
	}

	if second.Booking.Status != models.StatusPending {
		t.Errorf("conflicting booking status = %q, want pending", second.Booking.Status)
	}
	if len(second.Collisions) != 1 || second.Collisions[0].ID != first.Booking.ID {
		t.Fatalf("collisions = %+v", second.Collisions)
	}
	// The first booking stays confirmed until an admin decides.
	if stored, _ := store.BookingByID(ctx, first.Booking.ID); stored.Status != models.StatusConfirmed {
		t.Errorf("existing booking flipped to %q", stored.Status)
	}
	if len(store.collisions) != 1 {
		t.Fatalf("collision rows = %d, want 1", len(store.collisions))
	}
	for _, c := range store.collisions {
		if c.OriginalBookingID != first.Booking.ID || c.CollidingBookingID != second.Booking.ID {
			t.Errorf("collision row = %+v", c)
		}
		if c.CollisionStatus != models.CollisionPending {
			t.Errorf("collision status = %q", c.CollisionStatus)
		}
	}
	if len(notifier.sent) != 1 || notifier.sent[0].Type != notify.TypeCollisionDetected {
		t.Errorf("notifications = %+v", notifier.sent)
	}
}

func TestCreateBookingTouchingIntervalsDoNotCollide(t *testing.T) {
	eng, _, _ := newTestEngine(testBand("b1", "06:00:00", "12:00:00", 500))
	ctx := context.Background()

	if _, err := eng.CreateBooking(ctx, CreateRequest{
		UserID: "u1", BookingDate: "2025-06-10", StartTime: "10:00", EndTime: "11:00",
	}); err != nil {
		t.Fatal(err)
	}

	res, err := eng.CreateBooking(ctx, CreateRequest{
		UserID: "u2", BookingDate: "2025-06-10", StartTime: "11:00", EndTime: "12:00",
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Booking.Status != models.StatusConfirmed || len(res.Collisions) != 0 {
		t.Errorf("back to back booking collided: %+v", res)
	}
}

func TestCreateBookingDifferentDatesDoNotCollide(t *testing.T) {
	eng, _, _ := newTestEngine(testBand("b1", "06:00:00", "12:00:00", 500))
	ctx := context.Background()

	if _, err := eng.CreateBooking(ctx, CreateRequest{
		UserID: "u1", BookingDate: "2025-06-10", StartTime: "10:00", EndTime: "11:00",
	}); err != nil {
		t.Fatal(err)
	}
	res, err := eng.CreateBooking(ctx, CreateRequest{
		UserID: "u2", BookingDate: "2025-06-11", StartTime: "10:00", EndTime: "11:00",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Collisions) != 0 {
		t.Errorf("bookings on different dates collided")
	}
}

func TestCreateBookingBidAmountFloor(t *testing.T) {
	eng, _, _ := newTestEngine(testBand("b1", "06:00:00", "08:00:00", 500))
	ctx := context.Background()

	// A bid below the computed price pays the computed price.
	low, err := eng.CreateBooking(ctx, CreateRequest{
		UserID: "u1", BookingDate: "2025-06-10", StartTime: "06:00", EndTime: "07:00",
		IsBid: true, BidAmount: 300,
	})
	if err != nil {
		t.Fatal(err)
	}
	if low.Booking.TotalAmount != 500 {
		t.Errorf("low bid amount = %v, want base 500", low.Booking.TotalAmount)
	}
	if low.Booking.BidAmount != 300 || low.Booking.BidStatus != models.BidPending {
		t.Errorf("bid fields = %v/%q", low.Booking.BidAmount, low.Booking.BidStatus)
	}

	high, err := eng.CreateBooking(ctx, CreateRequest{
		UserID: "u2", BookingDate: "2025-06-11", StartTime: "06:00", EndTime: "07:00",
		IsBid: true, BidAmount: 900,
	})
	if err != nil {
		t.Fatal(err)
	}
	if high.Booking.TotalAmount != 900 {
		t.Errorf("high bid amount = %v, want 900", high.Booking.TotalAmount)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	eng, _, _ := newTestEngine(testBand("b1", "06:00:00", "08:00:00", 500))
	ctx := context.Background()

	cases := []CreateRequest{
		{UserID: "", BookingDate: "2025-06-10", StartTime: "06:00", EndTime: "07:00"},
		{UserID: "u1", BookingDate: "10-06-2025", StartTime: "06:00", EndTime: "07:00"},
		{UserID: "u1", BookingDate: "2025-06-10", StartTime: "07:00", EndTime: "06:00"},
		{UserID: "u1", BookingDate: "2025-06-10", StartTime: "06:00", EndTime: "06:00"},
		{UserID: "u1", BookingDate: "2025-06-10", StartTime: "06:00", EndTime: "07:00", IsBid: true, BidAmount: 0},
	}
	for i, req := range cases {
		if _, err := eng.CreateBooking(ctx, req); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("case %d: err = %v, want ErrInvalidInput", i, err)
		}
	}
}

func TestAdjudicateBidApprove(t *testing.T) {
	eng, store, notifier := newTestEngine(testBand("b1", "06:00:00", "08:00:00", 500))
	ctx := context.Background()

	original, err := eng.CreateBooking(ctx, CreateRequest{
		UserID: "u1", BookingDate: "2025-06-10", StartTime: "06:00", EndTime: "07:00",
	})
	if err != nil {
		t.Fatal(err)
	}
	bid, err := eng.CreateBooking(ctx, CreateRequest{
		UserID: "u2", BookingDate: "2025-06-10", StartTime: "06:00", EndTime: "07:00",
		IsBid: true, BidAmount: 800,
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := eng.AdjudicateBid(ctx, bid.Booking.ID, "approve", "admin1")
	if err != nil {
		t.Fatal(err)
	}
	if got.BidStatus != models.BidAccepted || got.Status != models.StatusConfirmed {
		t.Errorf("bid after approve = %q/%q", got.BidStatus, got.Status)
	}

	loser, _ := store.BookingByID(ctx, original.Booking.ID)
	if loser.Status != models.StatusRejected {
		t.Errorf("losing booking status = %q, want rejected", loser.Status)
	}
	for _, c := range store.collisions {
		if c.CollisionStatus != models.CollisionResolved || c.ResolvedBy != "admin1" {
			t.Errorf("collision not resolved: %+v", c)
		}
	}

	last := notifier.sent[len(notifier.sent)-1]
	if last.Type != notify.TypeBidApprove {
		t.Errorf("last notification type = %q", last.Type)
	}
	want := "Your bid for 2025-06-10 from 06:00:00 to 07:00:00 has been approved!"
	if last.Message != want {
		t.Errorf("message = %q, want %q", last.Message, want)
	}
}

func TestAdjudicateBidRejectLeavesCompetitors(t *testing.T) {
	eng, store, notifier := newTestEngine(testBand("b1", "06:00:00", "08:00:00", 500))
	ctx := context.Background()

	original, err := eng.CreateBooking(ctx, CreateRequest{
		UserID: "u1", BookingDate: "2025-06-10", StartTime: "06:00", EndTime: "07:00",
	})
	if err != nil {
		t.Fatal(err)
	}
	bid, err := eng.CreateBooking(ctx, CreateRequest{
		UserID: "u2", BookingDate: "2025-06-10", StartTime: "06:00", EndTime: "07:00",
		IsBid: true, BidAmount: 800,
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := eng.AdjudicateBid(ctx, bid.Booking.ID, "reject", "admin1")
	if err != nil {
		t.Fatal(err)
	}
	if got.BidStatus != models.BidRejected || got.Status != models.StatusRejected {
		t.Errorf("bid after reject = %q/%q", got.BidStatus, got.Status)
	}

	winner, _ := store.BookingByID(ctx, original.Booking.ID)
	if winner.Status != models.StatusConfirmed {
		t.Errorf("competing booking touched: %q", winner.Status)
	}
	last := notifier.sent[len(notifier.sent)-1]
	if last.Type != notify.TypeBidReject {
		t.Errorf("last notification type = %q", last.Type)
	}
}

func TestAdjudicateBidRepeatIsNoOp(t *testing.T) {
	eng, _, notifier := newTestEngine(testBand("b1", "06:00:00", "08:00:00", 500))
	ctx := context.Background()

	bid, err := eng.CreateBooking(ctx, CreateRequest{
		UserID: "u1", BookingDate: "2025-06-10", StartTime: "06:00", EndTime: "07:00",
		IsBid: true, BidAmount: 800,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := eng.AdjudicateBid(ctx, bid.Booking.ID, "approve", "admin1"); err != nil {
		t.Fatal(err)
	}
	before := len(notifier.sent)

	// Second adjudication returns the booking unchanged and emits nothing.
	got, err := eng.AdjudicateBid(ctx, bid.Booking.ID, "reject", "admin1")
	if err != nil {
		t.Fatal(err)
	}
	if got.BidStatus != models.BidAccepted || got.Status != models.StatusConfirmed {
		t.Errorf("repeat adjudication changed outcome: %q/%q", got.BidStatus, got.Status)
	}
	if len(notifier.sent) != before {
		t.Errorf("repeat adjudication sent notifications")
	}
}

func TestAdjudicateBidErrors(t *testing.T) {
	eng, _, _ := newTestEngine(testBand("b1", "06:00:00", "08:00:00", 500))
	ctx := context.Background()

	plain, err := eng.CreateBooking(ctx, CreateRequest{
		UserID: "u1", BookingDate: "2025-06-10", StartTime: "06:00", EndTime: "07:00",
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := eng.AdjudicateBid(ctx, plain.Booking.ID, "approve", "admin1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("non-bid booking: err = %v, want ErrNotFound", err)
	}
	if _, err := eng.AdjudicateBid(ctx, "missing", "approve", "admin1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing booking: err = %v, want ErrNotFound", err)
	}
	if _, err := eng.AdjudicateBid(ctx, plain.Booking.ID, "maybe", "admin1"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad action: err = %v, want ErrInvalidInput", err)
	}
}

func TestResolveCollision(t *testing.T) {
	eng, store, notifier := newTestEngine(testBand("b1", "06:00:00", "08:00:00", 500))
	ctx := context.Background()

	first, err := eng.CreateBooking(ctx, CreateRequest{
		UserID: "u1", BookingDate: "2025-06-10", StartTime: "06:00", EndTime: "07:00",
	})
	if err != nil {
		t.Fatal(err)
	}
	second, err := eng.CreateBooking(ctx, CreateRequest{
		UserID: "u2", BookingDate: "2025-06-10", StartTime: "06:30", EndTime: "07:30",
	})
	if err != nil {
		t.Fatal(err)
	}

	var collisionID string
	for id := range store.collisions {
		collisionID = id
	}

	// The admin prefers the newcomer.
	preferred, rejected, err := eng.ResolveCollision(ctx, collisionID, second.Booking.ID, first.Booking.ID, "admin1")
	if err != nil {
		t.Fatal(err)
	}
	if preferred.Status != models.StatusConfirmed || rejected.Status != models.StatusRejected {
		t.Errorf("outcome = %q/%q", preferred.Status, rejected.Status)
	}

	c, _ := store.CollisionByID(ctx, collisionID)
	if c.CollisionStatus != models.CollisionResolved || c.ResolvedBy != "admin1" {
		t.Errorf("collision = %+v", c)
	}

	types := map[string]bool{}
	for _, n := range notifier.sent {
		types[n.Type] = true
	}
	if !types[notify.TypeCollisionApproved] || !types[notify.TypeCollisionRejected] {
		t.Errorf("notifications = %+v", notifier.sent)
	}

	if _, _, err := eng.ResolveCollision(ctx, "missing", second.Booking.ID, first.Booking.ID, "admin1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing collision: err = %v, want ErrNotFound", err)
	}
}

func TestEditBookingBlockedByOverlap(t *testing.T) {
	eng, store, _ := newTestEngine(testBand("b1", "06:00:00", "12:00:00", 500))
	ctx := context.Background()

	if _, err := eng.CreateBooking(ctx, CreateRequest{
		UserID: "u1", BookingDate: "2025-06-10", StartTime: "08:00", EndTime: "09:00",
	}); err != nil {
		t.Fatal(err)
	}
	mine, err := eng.CreateBooking(ctx, CreateRequest{
		UserID: "u2", BookingDate: "2025-06-10", StartTime: "06:00", EndTime: "07:00",
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = eng.EditBooking(ctx, mine.Booking.ID, "2025-06-10", "08:30", "09:30")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}

	// The blocked edit must leave the booking untouched and add no collision rows.
	unchanged, _ := store.BookingByID(ctx, mine.Booking.ID)
	if unchanged.StartTime != "06:00:00" || unchanged.EndTime != "07:00:00" {
		t.Errorf("booking mutated by failed edit: %q-%q", unchanged.StartTime, unchanged.EndTime)
	}
	if len(store.collisions) != 0 {
		t.Errorf("failed edit recorded collisions")
	}
}

func TestEditBookingMovesAndReprices(t *testing.T) {
	eng, store, _ := newTestEngine(
		testBand("b1", "06:00:00", "08:00:00", 500),
		testBand("b2", "18:00:00", "20:00:00", 800),
	)
	ctx := context.Background()

	res, err := eng.CreateBooking(ctx, CreateRequest{
		UserID: "u1", BookingDate: "2025-06-10", StartTime: "06:00", EndTime: "07:00",
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := eng.EditBooking(ctx, res.Booking.ID, "2025-06-11", "18:00", "19:00")
	if err != nil {
		t.Fatal(err)
	}
	if got.BookingDate != "2025-06-11" || got.StartTime != "18:00:00" || got.EndTime != "19:00:00" {
		t.Errorf("moved booking = %+v", got)
	}
	if got.TotalAmount != 800 {
		t.Errorf("amount = %v, want repriced 800", got.TotalAmount)
	}

	stored, _ := store.BookingByID(ctx, res.Booking.ID)
	if stored.TotalAmount != 800 {
		t.Errorf("stored amount = %v", stored.TotalAmount)
	}

	// An edit may reclaim the slot it is vacating.
	if _, err := eng.EditBooking(ctx, res.Booking.ID, "2025-06-11", "18:30", "19:30"); err != nil {
		t.Errorf("self-overlapping edit blocked: %v", err)
	}
}

func TestDeleteBookingCascades(t *testing.T) {
	eng, store, _ := newTestEngine(testBand("b1", "06:00:00", "08:00:00", 500))
	ctx := context.Background()

	if _, err := eng.CreateBooking(ctx, CreateRequest{
		UserID: "u1", BookingDate: "2025-06-10", StartTime: "06:00", EndTime: "07:00",
	}); err != nil {
		t.Fatal(err)
	}
	second, err := eng.CreateBooking(ctx, CreateRequest{
		UserID: "u2", BookingDate: "2025-06-10", StartTime: "06:30", EndTime: "07:30",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(store.collisions) != 1 {
		t.Fatalf("precondition: collision rows = %d", len(store.collisions))
	}

	if err := eng.DeleteBooking(ctx, second.Booking.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := store.BookingByID(ctx, second.Booking.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("booking survived delete")
	}
	if len(store.collisions) != 0 {
		t.Errorf("collision rows survived delete: %d", len(store.collisions))
	}

	if err := eng.DeleteBooking(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestPriceIntervalSpansBands(t *testing.T) {
	eng, _, _ := newTestEngine(
		testBand("b1", "06:00:00", "08:00:00", 500),
		testBand("b2", "08:00:00", "10:00:00", 600),
	)

	q, err := eng.PriceInterval(context.Background(), "07:00", "09:00")
	if err != nil {
		t.Fatal(err)
	}
	if q.Total != 1100 {
		t.Errorf("total = %v, want 1100", q.Total)
	}
	if _, err := eng.PriceInterval(context.Background(), "09:00", "07:00"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("inverted interval: err = %v", err)
	}
}
