package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/javiermolinar/venuegrid/internal/booking"
)

// fakeRepo is an in-memory collaborator. Set failWith to make every mutation
// fail with that error.
type fakeRepo struct {
	mu       sync.Mutex
	bookings map[string]booking.Booking
	failWith error
	calls    []string
	moves    []booking.MoveRequest
}

func newFakeRepo(bs ...booking.Booking) *fakeRepo {
	r := &fakeRepo{bookings: make(map[string]booking.Booking)}
	for _, b := range bs {
		r.bookings[b.ID] = b
	}
	return r
}

func (r *fakeRepo) record(call string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
	return r.failWith
}

func (r *fakeRepo) ListRooms(context.Context) ([]booking.Room, error) {
	return nil, nil
}

func (r *fakeRepo) ListBookings(_ context.Context, from, to time.Time) ([]booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []booking.Booking
	for _, b := range r.bookings {
		if b.Overlaps(from, to) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateBooking(_ context.Context, b booking.Booking) (booking.Booking, error) {
	if err := r.record("create"); err != nil {
		return booking.Booking{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b.Status = booking.StatusConfirmed
	r.bookings[b.ID] = b
	return b, nil
}

func (r *fakeRepo) DeleteBooking(_ context.Context, id string) error {
	if err := r.record("delete"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bookings, id)
	return nil
}

func (r *fakeRepo) MoveBooking(_ context.Context, req booking.MoveRequest) (booking.Booking, error) {
	if err := r.record("move"); err != nil {
		return booking.Booking{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.moves = append(r.moves, req)
	b := r.bookings[req.BookingID].WithPlacement(req.NewRoomID, req.NewStartTime, req.NewEndTime)
	r.bookings[b.ID] = b
	return b, nil
}

func (r *fakeRepo) SwapBookings(_ context.Context, req booking.SwapRequest) ([]booking.Booking, error) {
	if err := r.record("swap"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a := r.bookings[req.BookingID].WithPlacement(req.NewRoomID, req.NewStartTime, req.NewEndTime)
	b := r.bookings[req.TargetBookingID].WithPlacement(req.TargetRoomID, req.TargetNewStartTime, req.TargetNewEndTime)
	r.bookings[a.ID] = a
	r.bookings[b.ID] = b
	return []booking.Booking{a, b}, nil
}

func (r *fakeRepo) ResizeBooking(_ context.Context, req booking.ResizeRequest) (booking.Booking, error) {
	if err := r.record("resize"); err != nil {
		return booking.Booking{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b := r.bookings[req.BookingID]
	b.Start, b.End = req.NewStartTime, req.NewEndTime
	r.bookings[b.ID] = b
	return b, nil
}

// recordingObserver counts lifecycle events.
type recordingObserver struct {
	applied, reconciled, rolledBack int
}

func (o *recordingObserver) Applied(string)                   { o.applied++ }
func (o *recordingObserver) Reconciled(string, time.Duration) { o.reconciled++ }
func (o *recordingObserver) RolledBack(string, error)         { o.rolledBack++ }
