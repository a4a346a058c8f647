package schedule

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/javiermolinar/venuegrid/internal/booking"
)

// Cache errors.
var (
	ErrUnknownTicket = errors.New("ticket is not pending")
	ErrNothingToUndo = errors.New("nothing to undo")
)

const defaultMaxHistory = 50

// MutationError is returned by Settle when the collaborator refused or never
// received a mutation. The local state has already been rolled back.
type MutationError struct {
	Kind     string
	Bookings []string
	Err      error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s %v: %v", e.Kind, e.Bookings, e.Err)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}

// Observer is notified about mutation lifecycle events.
type Observer interface {
	Applied(kind string)
	Reconciled(kind string, d time.Duration)
	RolledBack(kind string, err error)
}

// Ticket identifies a command that has been applied locally but not settled.
type Ticket struct {
	seq     uint64
	cmd     Command
	started time.Time

	sent     chan struct{} // closed once the collaborator call returned
	sentOnce sync.Once
}

func (t *Ticket) markSent() {
	t.sentOnce.Do(func() { close(t.sent) })
}

// Command returns the ticket's command.
func (t *Ticket) Command() Command {
	return t.cmd
}

// Result is the collaborator's answer for a ticket.
type Result struct {
	Ticket   *Ticket
	Bookings []booking.Booking
	Err      error
}

// Cache is the optimistic mirror of the booking collection.
//
// confirmed holds the last authoritative state; visible is confirmed with
// every pending command replayed on top, in the order the commands began.
// Settling a ticket folds its result into confirmed (or drops it on failure)
// and replays what is still pending, so an older response arriving after a
// newer local change never overwrites that change. Rollback is the same
// replay without the failed command; Command.Invert is never used here.
type Cache struct {
	mu        sync.Mutex
	repo      booking.Repository
	log       zerolog.Logger
	observer  Observer
	confirmed State
	visible   State
	pending   []*Ticket
	seq       uint64
	version   uint64

	history    []Command
	maxHistory int
}

// New returns an empty cache backed by repo. observer may be nil.
func New(repo booking.Repository, log zerolog.Logger, observer Observer) *Cache {
	return &Cache{
		repo:       repo,
		log:        log.With().Str("component", "schedule").Logger(),
		observer:   observer,
		maxHistory: defaultMaxHistory,
	}
}

// State returns the visible state.
func (c *Cache) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

// Bookings returns the visible bookings.
func (c *Cache) Bookings() []booking.Booking {
	return c.State().All()
}

// Version increases on every visible change.
func (c *Cache) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// Pending returns the number of unsettled commands.
func (c *Cache) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Load replaces the authoritative state with bookings.
func (c *Cache) Load(bookings []booking.Booking) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirmed = NewState(bookings)
	c.replayLocked()
}

// Refresh re-fetches bookings overlapping [from, to) and replays pending
// commands on top.
func (c *Cache) Refresh(ctx context.Context, from, to time.Time) error {
	list, err := c.repo.ListBookings(ctx, from, to)
	if err != nil {
		return fmt.Errorf("refreshing bookings: %w", err)
	}
	c.Load(list)
	c.log.Debug().Int("bookings", len(list)).Time("from", from).Time("to", to).Msg("refreshed")
	return nil
}

// Begin applies cmd to the visible state and returns a ticket for Dispatch.
// Nothing is sent to the collaborator yet.
func (c *Cache) Begin(cmd Command) (*Ticket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := cmd.Apply(c.visible)
	if err != nil {
		return nil, err
	}
	c.seq++
	t := &Ticket{seq: c.seq, cmd: cmd, started: time.Now(), sent: make(chan struct{})}
	c.pending = append(c.pending, t)
	c.visible = next
	c.version++

	c.log.Debug().Str("kind", cmd.Kind()).Strs("bookings", cmd.Touches()).Uint64("ticket", t.seq).Msg("applied")
	if c.observer != nil {
		c.observer.Applied(cmd.Kind())
	}
	return t, nil
}

// Dispatch sends the ticket's command to the collaborator. It blocks on the
// collaborator and must not hold up the UI loop; the state is not touched
// until Settle.
//
// Commands reach the collaborator in the order they began: Dispatch waits
// until every earlier pending ticket has been sent, so Dispatch may be
// called from any number of goroutines.
func (c *Cache) Dispatch(ctx context.Context, t *Ticket) Result {
	defer t.markSent()

	for _, prev := range c.earlier(t) {
		select {
		case <-prev.sent:
		case <-ctx.Done():
			return Result{Ticket: t, Err: fmt.Errorf("%w: waiting to send %s: %w",
				booking.ErrNetworkFailure, t.cmd.Kind(), ctx.Err())}
		}
	}

	bookings, err := t.cmd.Submit(ctx, c.repo)
	return Result{Ticket: t, Bookings: bookings, Err: err}
}

// earlier returns the pending tickets that began before t.
func (c *Cache) earlier(t *Ticket) []*Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*Ticket
	for _, p := range c.pending {
		if p.seq < t.seq {
			out = append(out, p)
		}
	}
	return out
}

// Settle folds a collaborator result into the cache. On failure the command
// is dropped, the visible state rolls back and a *MutationError is returned.
func (c *Cache) Settle(res Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := res.Ticket
	idx := slices.Index(c.pending, t)
	if idx < 0 {
		return ErrUnknownTicket
	}
	c.pending = slices.Delete(c.pending, idx, idx+1)
	t.markSent()
	kind := t.cmd.Kind()

	if res.Err != nil {
		c.replayLocked()
		c.log.Warn().Err(res.Err).Str("kind", kind).Strs("bookings", t.cmd.Touches()).Msg("rolled back")
		if c.observer != nil {
			c.observer.RolledBack(kind, res.Err)
		}
		return &MutationError{Kind: kind, Bookings: t.cmd.Touches(), Err: res.Err}
	}

	if next, err := t.cmd.Apply(c.confirmed); err == nil {
		c.confirmed = next
	}
	c.confirmed = c.confirmed.put(res.Bookings...)
	c.replayLocked()
	c.remember(t.cmd)

	c.log.Debug().Str("kind", kind).Strs("bookings", t.cmd.Touches()).Msg("reconciled")
	if c.observer != nil {
		c.observer.Reconciled(kind, time.Since(t.started))
	}
	return nil
}

// Do runs cmd through Begin, Dispatch and Settle.
func (c *Cache) Do(ctx context.Context, cmd Command) error {
	t, err := c.Begin(cmd)
	if err != nil {
		return err
	}
	return c.Settle(c.Dispatch(ctx, t))
}

// CanUndo reports whether a settled command can be undone.
func (c *Cache) CanUndo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.history) > 0
}

// Undo issues the inverse of the most recently settled command. The undo
// goes through the same optimistic path as any other command.
func (c *Cache) Undo(ctx context.Context) error {
	c.mu.Lock()
	if len(c.history) == 0 {
		c.mu.Unlock()
		return ErrNothingToUndo
	}
	last := c.history[len(c.history)-1]
	c.history = c.history[:len(c.history)-1]
	c.mu.Unlock()

	inverse := last.Inverse()
	t, err := c.Begin(inverse)
	if err != nil {
		return err
	}
	err = c.Settle(c.Dispatch(ctx, t))

	// The inverse itself is not undoable; keep the original on failure.
	c.mu.Lock()
	if n := len(c.history); n > 0 && c.history[n-1] == inverse {
		c.history = c.history[:n-1]
	}
	if err != nil {
		c.history = append(c.history, last)
	}
	c.mu.Unlock()
	return err
}

func (c *Cache) remember(cmd Command) {
	c.history = append(c.history, cmd)
	if len(c.history) > c.maxHistory {
		c.history = c.history[1:]
	}
}

// replayLocked rebuilds the visible state from confirmed and the pending
// commands. A pending command that no longer applies is left out of the
// visible state but stays pending until settled.
func (c *Cache) replayLocked() {
	s := c.confirmed
	for _, t := range c.pending {
		next, err := t.cmd.Apply(s)
		if err != nil {
			c.log.Debug().Err(err).Str("kind", t.cmd.Kind()).Msg("pending command skipped on replay")
			continue
		}
		s = next
	}
	c.visible = s
	c.version++
}
