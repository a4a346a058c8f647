package board

import (
	"context"
	"fmt"
	"time"

	"github.com/javiermolinar/venuegrid/internal/booking"
	"github.com/javiermolinar/venuegrid/internal/conflict"
	"github.com/javiermolinar/venuegrid/internal/dateutil"
	"github.com/javiermolinar/venuegrid/internal/gesture"
	"github.com/javiermolinar/venuegrid/internal/schedule"
)

// Plan turns a gesture outcome into a command. It returns a nil command for
// outcomes that change nothing. Every validation happens here, before any
// local or remote mutation.
func (b *Board) Plan(out gesture.Outcome) (schedule.Command, error) {
	switch out.Kind {
	case gesture.OutcomeMove:
		return b.PlanMove(out.BookingID, out.RoomID, out.Start, out.End)
	case gesture.OutcomeResize:
		return b.PlanResize(out.BookingID, out.Start, out.End)
	default:
		return nil, nil
	}
}

// PlanMove validates moving id to roomID over [start, end) and returns a move
// or swap command.
func (b *Board) PlanMove(id, roomID string, start, end time.Time) (schedule.Command, error) {
	state := b.cache.State()
	current, ok := state.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", booking.ErrBookingNotFound, id)
	}
	if err := b.checkRoom(roomID); err != nil {
		return nil, err
	}
	if err := b.checkHours(start, end); err != nil {
		return nil, err
	}

	res, err := conflict.Resolve(state.All(), conflict.Candidate{BookingID: id, RoomID: roomID, Start: start, End: end})
	if err != nil {
		return nil, err
	}
	if res.Kind == conflict.KindSwap {
		// The occupant keeps its duration, so it can run past closing.
		if err := b.checkBusinessDay(res.Swap.TargetNewStartTime, res.Swap.TargetNewEndTime); err != nil {
			return nil, fmt.Errorf("swapping with %s: %w", res.Occupant.ID, err)
		}
		return schedule.NewSwap(current, *res.Occupant, res.Swap), nil
	}
	return schedule.NewMove(current, res.Move), nil
}

// PlanResize validates changing id to [start, end) within its room.
func (b *Board) PlanResize(id string, start, end time.Time) (schedule.Command, error) {
	state := b.cache.State()
	current, ok := state.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", booking.ErrBookingNotFound, id)
	}
	if !end.After(start) {
		return nil, booking.ErrInvalidDuration
	}
	if err := b.checkHours(start, end); err != nil {
		return nil, err
	}
	if others := conflict.Overlapping(state.All(), current.RoomID, start, end, id); len(others) > 0 {
		return nil, &conflict.Error{
			Candidate: conflict.Candidate{BookingID: id, RoomID: current.RoomID, Start: start, End: end},
			Conflicts: others,
			Err:       booking.ErrOverlap,
		}
	}
	return schedule.NewResize(current, booking.ResizeRequest{BookingID: id, NewStartTime: start, NewEndTime: end}), nil
}

// Begin plans out and applies it locally. The returned ticket is nil when
// the outcome changes nothing.
func (b *Board) Begin(out gesture.Outcome) (*schedule.Ticket, error) {
	cmd, err := b.Plan(out)
	if err != nil || cmd == nil {
		return nil, err
	}
	return b.cache.Begin(cmd)
}

// Commit plans out and runs it through the cache to completion.
func (b *Board) Commit(ctx context.Context, out gesture.Outcome) error {
	cmd, err := b.Plan(out)
	if err != nil || cmd == nil {
		return err
	}
	return b.run(ctx, cmd)
}

// CommitMove validates and applies a move or swap.
func (b *Board) CommitMove(ctx context.Context, id, roomID string, start, end time.Time) error {
	cmd, err := b.PlanMove(id, roomID, start, end)
	if err != nil {
		return err
	}
	return b.run(ctx, cmd)
}

// CommitResize validates and applies a resize.
func (b *Board) CommitResize(ctx context.Context, id string, start, end time.Time) error {
	cmd, err := b.PlanResize(id, start, end)
	if err != nil {
		return err
	}
	return b.run(ctx, cmd)
}

// Create validates and adds a booking.
func (b *Board) Create(ctx context.Context, nb booking.Booking) (booking.Booking, error) {
	if err := nb.Validate(); err != nil {
		return booking.Booking{}, err
	}
	if err := b.checkRoom(nb.RoomID); err != nil {
		return booking.Booking{}, err
	}
	if err := b.checkHours(nb.Start, nb.End); err != nil {
		return booking.Booking{}, err
	}
	if nb.IsActive() {
		if others := conflict.Overlapping(b.cache.Bookings(), nb.RoomID, nb.Start, nb.End, nb.ID); len(others) > 0 {
			return booking.Booking{}, fmt.Errorf("%w: %s", booking.ErrOverlap, others[0].ID)
		}
	}
	if err := b.run(ctx, schedule.Create{Booking: nb}); err != nil {
		return booking.Booking{}, err
	}
	created, _ := b.cache.State().Get(nb.ID)
	return created, nil
}

// Delete removes a booking.
func (b *Board) Delete(ctx context.Context, id string) error {
	current, ok := b.cache.State().Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", booking.ErrBookingNotFound, id)
	}
	return b.run(ctx, schedule.Delete{Booking: current})
}

func (b *Board) run(ctx context.Context, cmd schedule.Command) error {
	err := b.cache.Do(ctx, cmd)
	if err != nil {
		b.log.Info().Err(err).Str("kind", cmd.Kind()).Strs("bookings", cmd.Touches()).Msg("mutation failed")
	}
	return err
}

func (b *Board) checkRoom(id string) error {
	r, ok := booking.FindRoom(b.rooms, id)
	if !ok {
		return fmt.Errorf("%w: %s", booking.ErrRoomNotFound, id)
	}
	if !r.Bookable {
		return fmt.Errorf("%w: %s", booking.ErrRoomNotBookable, r.Name)
	}
	return nil
}

// checkHours rejects placements outside the open-close window of the
// selected date. The lead-in and trail-out padding is visible but not
// bookable.
func (b *Board) checkHours(start, end time.Time) error {
	h := b.Hours()
	if !h.Contains(b.date, start, end) {
		return fmt.Errorf("%w: %s-%s (open %s)", booking.ErrOutsideBusinessHours,
			start.Format("15:04"), end.Format("15:04"), h)
	}
	return nil
}

// checkBusinessDay is checkHours for a range that need not belong to the
// selected date. It accepts the business day the range starts on and the
// late-night window of the day before.
func (b *Board) checkBusinessDay(start, end time.Time) error {
	day := dateutil.TruncateToDay(start)
	for _, d := range []time.Time{day, day.AddDate(0, 0, -1)} {
		if b.hours.For(d).Contains(d, start, end) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s-%s", booking.ErrOutsideBusinessHours,
		start.Format("15:04"), end.Format("15:04"))
}
