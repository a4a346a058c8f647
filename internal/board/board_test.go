package board

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/javiermolinar/venuegrid/internal/booking"
	"github.com/javiermolinar/venuegrid/internal/gesture"
	"github.com/javiermolinar/venuegrid/internal/grid"
	"github.com/javiermolinar/venuegrid/internal/hours"
	"github.com/javiermolinar/venuegrid/internal/schedule"
)

var day = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return time.Date(2025, 3, 14, h, m, 0, 0, time.UTC)
}

type memRepo struct {
	mu       sync.Mutex
	rooms    []booking.Room
	bookings map[string]booking.Booking
	reject   bool
	calls    []string
}

func (r *memRepo) ListRooms(context.Context) ([]booking.Room, error) { return r.rooms, nil }

func (r *memRepo) ListBookings(_ context.Context, from, to time.Time) ([]booking.Booking, error) {
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

func (r *memRepo) mutate(call string, bs ...booking.Booking) ([]booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
	if r.reject {
		return nil, booking.ErrMutationRejected
	}
	for _, b := range bs {
		r.bookings[b.ID] = b
	}
	return bs, nil
}

func (r *memRepo) CreateBooking(_ context.Context, b booking.Booking) (booking.Booking, error) {
	out, err := r.mutate("create", b)
	if err != nil {
		return booking.Booking{}, err
	}
	return out[0], nil
}

func (r *memRepo) DeleteBooking(_ context.Context, id string) error {
	_, err := r.mutate("delete")
	if err == nil {
		r.mu.Lock()
		delete(r.bookings, id)
		r.mu.Unlock()
	}
	return err
}

func (r *memRepo) MoveBooking(_ context.Context, req booking.MoveRequest) (booking.Booking, error) {
	b := r.bookings[req.BookingID].WithPlacement(req.NewRoomID, req.NewStartTime, req.NewEndTime)
	out, err := r.mutate("move", b)
	if err != nil {
		return booking.Booking{}, err
	}
	return out[0], nil
}

func (r *memRepo) SwapBookings(_ context.Context, req booking.SwapRequest) ([]booking.Booking, error) {
	a := r.bookings[req.BookingID].WithPlacement(req.NewRoomID, req.NewStartTime, req.NewEndTime)
	b := r.bookings[req.TargetBookingID].WithPlacement(req.TargetRoomID, req.TargetNewStartTime, req.TargetNewEndTime)
	return r.mutate("swap", a, b)
}

func (r *memRepo) ResizeBooking(_ context.Context, req booking.ResizeRequest) (booking.Booking, error) {
	b := r.bookings[req.BookingID]
	b.Start, b.End = req.NewStartTime, req.NewEndTime
	out, err := r.mutate("resize", b)
	if err != nil {
		return booking.Booking{}, err
	}
	return out[0], nil
}

func confirmed(id, room string, start, end time.Time) booking.Booking {
	return booking.Booking{ID: id, RoomID: room, Start: start, End: end, Status: booking.StatusConfirmed}
}

func newBoard(t *testing.T, bs ...booking.Booking) (*Board, *memRepo) {
	t.Helper()
	repo := &memRepo{
		rooms: []booking.Room{
			{ID: "r1", Name: "Studio A", Bookable: true},
			{ID: "r2", Name: "Studio B", Bookable: true},
			{ID: "r3", Name: "Storage", Bookable: false},
		},
		bookings: make(map[string]booking.Booking),
	}
	for _, b := range bs {
		repo.bookings[b.ID] = b
	}
	res, err := hours.NewWeekly(hours.Uniform(hours.BusinessHours{OpenTime: "10:00", CloseTime: "22:00"}))
	if err != nil {
		t.Fatalf("NewWeekly: %v", err)
	}
	b := New(Options{
		Hours:    res,
		Cache:    schedule.New(repo, zerolog.Nop(), nil),
		Repo:     repo,
		Settings: grid.DefaultSettings(),
		Date:     day,
		Logger:   zerolog.Nop(),
	})
	if err := b.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	return b, repo
}

func get(t *testing.T, b *Board, id string) booking.Booking {
	t.Helper()
	bk, ok := b.Cache().State().Get(id)
	if !ok {
		t.Fatalf("booking %s missing", id)
	}
	return bk
}

func TestCommitMove(t *testing.T) {
	b, repo := newBoard(t, confirmed("A", "r1", at(14, 0), at(15, 0)))

	if err := b.CommitMove(context.Background(), "A", "r2", at(16, 0), at(17, 0)); err != nil {
		t.Fatalf("CommitMove: %v", err)
	}
	if a := get(t, b, "A"); a.RoomID != "r2" || !a.Start.Equal(at(16, 0)) {
		t.Errorf("A = %+v", a)
	}
	if len(repo.calls) != 1 || repo.calls[0] != "move" {
		t.Errorf("calls = %v", repo.calls)
	}
}

func TestCommitMoveSwaps(t *testing.T) {
	b, repo := newBoard(t,
		confirmed("A", "r1", at(14, 0), at(15, 0)),
		confirmed("B", "r1", at(15, 0), at(16, 0)),
	)

	if err := b.CommitMove(context.Background(), "A", "r1", at(15, 0), at(16, 0)); err != nil {
		t.Fatalf("CommitMove: %v", err)
	}
	if len(repo.calls) != 1 || repo.calls[0] != "swap" {
		t.Errorf("swap must be one request, calls = %v", repo.calls)
	}
	if a := get(t, b, "A"); !a.Start.Equal(at(15, 0)) {
		t.Errorf("A starts %v, want 15:00", a.Start)
	}
	if bb := get(t, b, "B"); !bb.Start.Equal(at(14, 0)) || bb.RoomID != "r1" {
		t.Errorf("B = %+v, want r1 14:00", bb)
	}
}

func TestSwapKeepsOccupantInsideHours(t *testing.T) {
	b, repo := newBoard(t,
		confirmed("A", "r1", at(21, 0), at(21, 30)),
		confirmed("B", "r2", at(12, 0), at(14, 0)),
	)
	before := b.Cache().State()

	err := b.CommitMove(context.Background(), "A", "r2", at(12, 0), at(12, 30))
	if !errors.Is(err, booking.ErrOutsideBusinessHours) {
		t.Fatalf("error = %v, want %v", err, booking.ErrOutsideBusinessHours)
	}
	if len(repo.calls) != 0 {
		t.Errorf("swap reached the collaborator: %v", repo.calls)
	}
	if !b.Cache().State().Equal(before) {
		t.Error("refused swap changed the cache")
	}
}

func TestCommitMoveRejections(t *testing.T) {
	tests := []struct {
		name       string
		room       string
		start, end time.Time
		want       error
	}{
		{"before open", "r1", at(9, 0), at(10, 0), booking.ErrOutsideBusinessHours},
		{"after close", "r1", at(21, 30), at(22, 30), booking.ErrOutsideBusinessHours},
		{"not bookable", "r3", at(12, 0), at(13, 0), booking.ErrRoomNotBookable},
		{"unknown room", "r9", at(12, 0), at(13, 0), booking.ErrRoomNotFound},
		{"two conflicts", "r1", at(15, 0), at(16, 30), booking.ErrMultipleConflicts},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, repo := newBoard(t,
				confirmed("A", "r2", at(13, 0), at(14, 30)),
				confirmed("B", "r1", at(15, 0), at(16, 0)),
				confirmed("C", "r1", at(15, 30), at(16, 30)),
			)
			before := b.Cache().State()

			err := b.CommitMove(context.Background(), "A", tt.room, tt.start, tt.end)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if len(repo.calls) != 0 {
				t.Errorf("rejected move reached the collaborator: %v", repo.calls)
			}
			if !b.Cache().State().Equal(before) {
				t.Error("rejected move changed the cache")
			}
		})
	}
}

func TestCommitRollsBackOnRejection(t *testing.T) {
	b, repo := newBoard(t,
		confirmed("A", "r1", at(14, 0), at(15, 0)),
		confirmed("B", "r1", at(15, 0), at(16, 0)),
	)
	repo.reject = true
	before := b.Cache().State()

	err := b.CommitMove(context.Background(), "A", "r1", at(15, 0), at(16, 0))
	if !errors.Is(err, booking.ErrMutationRejected) {
		t.Fatalf("error = %v, want %v", err, booking.ErrMutationRejected)
	}
	if !b.Cache().State().Equal(before) {
		t.Errorf("state not restored: %+v", b.Cache().State().All())
	}
	if msg := booking.UserMessage(err); msg == "" {
		t.Error("expected a user-facing message")
	}
}

func TestCommitResize(t *testing.T) {
	b, _ := newBoard(t,
		confirmed("A", "r1", at(14, 0), at(15, 0)),
		confirmed("B", "r1", at(16, 0), at(17, 0)),
	)
	ctx := context.Background()

	if err := b.CommitResize(ctx, "A", at(14, 0), at(15, 30)); err != nil {
		t.Fatalf("CommitResize: %v", err)
	}
	if a := get(t, b, "A"); !a.End.Equal(at(15, 30)) {
		t.Errorf("A ends %v, want 15:30", a.End)
	}

	if err := b.CommitResize(ctx, "A", at(14, 0), at(16, 30)); !errors.Is(err, booking.ErrOverlap) {
		t.Errorf("overlapping resize error = %v, want %v", err, booking.ErrOverlap)
	}
	if err := b.CommitResize(ctx, "A", at(15, 0), at(15, 0)); !errors.Is(err, booking.ErrInvalidDuration) {
		t.Errorf("zero duration error = %v, want %v", err, booking.ErrInvalidDuration)
	}
	if err := b.CommitResize(ctx, "A", at(14, 0), at(23, 0)); !errors.Is(err, booking.ErrOutsideBusinessHours) {
		t.Errorf("past close error = %v, want %v", err, booking.ErrOutsideBusinessHours)
	}
}

func TestCreateAndDelete(t *testing.T) {
	b, repo := newBoard(t, confirmed("A", "r1", at(14, 0), at(15, 0)))
	ctx := context.Background()

	nb, err := booking.New("r2", at(18, 0), at(19, 0), "Grace")
	if err != nil {
		t.Fatalf("booking.New: %v", err)
	}
	created, err := b.Create(ctx, nb)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != nb.ID {
		t.Errorf("created ID = %q, want %q", created.ID, nb.ID)
	}

	clash, _ := booking.New("r1", at(14, 30), at(15, 30), "Linus")
	if _, err := b.Create(ctx, clash); !errors.Is(err, booking.ErrOverlap) {
		t.Errorf("overlapping create error = %v", err)
	}

	if err := b.Delete(ctx, "A"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := b.Cache().State().Get("A"); ok {
		t.Error("A should be gone")
	}
	if len(repo.calls) != 2 {
		t.Errorf("calls = %v, want create and delete", repo.calls)
	}
}

func TestLayoutIsMemoized(t *testing.T) {
	b, _ := newBoard(t, confirmed("A", "r1", at(14, 0), at(15, 0)))
	vp := grid.Viewport{Width: 1600, Height: 900}

	l1 := b.Layout(vp)
	l2 := b.Layout(vp)
	if l1 != l2 {
		t.Error("unchanged inputs should reuse the layout")
	}

	if err := b.CommitMove(context.Background(), "A", "r2", at(16, 0), at(17, 0)); err != nil {
		t.Fatalf("CommitMove: %v", err)
	}
	l3 := b.Layout(vp)
	if l3 == l2 {
		t.Error("a booking change should produce a new layout")
	}
	if pb, ok := l3.Placement.Find("A"); !ok || pb.RoomIndex != 1 {
		t.Errorf("A placed at %+v", pb)
	}

	b.SetOrientation(grid.TimeAsRows)
	if l4 := b.Layout(vp); l4 == l3 || l4.Geometry.Orientation != grid.TimeAsRows {
		t.Error("orientation change should produce a new layout")
	}
}

func TestGestureToCommit(t *testing.T) {
	b, repo := newBoard(t,
		confirmed("A", "r1", at(14, 0), at(15, 0)),
		confirmed("B", "r2", at(15, 0), at(16, 0)),
	)
	l := b.Layout(grid.Viewport{Width: 2400, Height: 900})
	g := b.Gestures()

	pa, _ := l.Placement.Find("A")
	ra := l.Mapper.BookingRect(pa)
	down := grid.Point{X: ra.X + 2, Y: ra.Y + ra.H/2}

	pbB, _ := l.Placement.Find("B")
	rb := l.Mapper.BookingRect(pbB)
	drop := grid.Point{X: rb.X + rb.W/2, Y: rb.Y + rb.H/2}

	if err := g.PointerDown("A", down); err != nil {
		t.Fatalf("PointerDown: %v", err)
	}
	g.PointerMove(drop)
	out, err := g.PointerUp(drop, gesture.HitTest(l, drop, "A"))
	if err != nil {
		t.Fatalf("PointerUp: %v", err)
	}
	if out.Kind != gesture.OutcomeMove || out.TargetBookingID != "B" {
		t.Fatalf("outcome = %+v, want move onto B", out)
	}

	tk, err := b.Begin(out)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if a := get(t, b, "A"); a.RoomID != "r2" {
		t.Error("optimistic apply should be visible before dispatch")
	}
	if err := b.Cache().Settle(b.Cache().Dispatch(context.Background(), tk)); err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if bb := get(t, b, "B"); bb.RoomID != "r1" || !bb.Start.Equal(at(14, 0)) {
		t.Errorf("B = %+v, want swapped into r1 14:00", bb)
	}
	if repo.calls[0] != "swap" {
		t.Errorf("calls = %v", repo.calls)
	}
}

func TestPlanIgnoresNoops(t *testing.T) {
	b, _ := newBoard(t, confirmed("A", "r1", at(14, 0), at(15, 0)))
	for _, k := range []gesture.OutcomeKind{gesture.OutcomeNoop, gesture.OutcomeClick} {
		tk, err := b.Begin(gesture.Outcome{Kind: k, BookingID: "A"})
		if err != nil || tk != nil {
			t.Errorf("%v: Begin = %v, %v; want nil, nil", k, tk, err)
		}
	}
}

func TestSidebarNarrowsTimeAxis(t *testing.T) {
	b, _ := newBoard(t)
	vp := grid.Viewport{Width: 2400, Height: 800}

	wide := b.Layout(vp).Geometry.SlotPx
	b.SetSidebar(true)
	narrow := b.Layout(vp).Geometry.SlotPx

	if narrow >= wide {
		t.Errorf("slot width with sidebar = %v, without = %v", narrow, wide)
	}
	hits, misses := b.LayoutStats()
	if hits != 0 || misses != 2 {
		t.Errorf("layout stats = %d/%d, want 0/2", hits, misses)
	}
}
