// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/venuegrid/internal/booking"
)

// SQLite implements booking.Repository using SQLite.
type SQLite struct {
	db  *sql.DB
	loc *time.Location
}

// Option configures a SQLite repository.
type Option func(*SQLite)

// WithLocation sets the location booking times are returned in.
// Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(s *SQLite) {
		s.loc = loc
	}
}

// New creates a new SQLite repository and runs migrations.
func New(path string, opts ...Option) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes
	// writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db, loc: time.Local}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// AddRoom inserts or replaces a room. New rooms are appended to the display
// order.
func (s *SQLite) AddRoom(ctx context.Context, r booking.Room) error {
	if r.ID == "" || r.Name == "" {
		return fmt.Errorf("room needs an id and a name")
	}
	query := `
		INSERT INTO rooms (id, name, category, capacity, color, bookable, position)
		VALUES (?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM rooms))
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			capacity = excluded.capacity,
			color = excluded.color,
			bookable = excluded.bookable
	`
	if _, err := s.db.ExecContext(ctx, query,
		r.ID, r.Name, r.Category, r.Capacity, r.Color, r.Bookable,
	); err != nil {
		return fmt.Errorf("inserting room: %w", err)
	}
	return nil
}

// ListRooms returns every room in display order.
func (s *SQLite) ListRooms(ctx context.Context) ([]booking.Room, error) {
	query := `
		SELECT id, name, category, capacity, color, bookable
		FROM rooms
		ORDER BY position, id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying rooms: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rooms []booking.Room
	for rows.Next() {
		var r booking.Room
		if err := rows.Scan(&r.ID, &r.Name, &r.Category, &r.Capacity, &r.Color, &r.Bookable); err != nil {
			return nil, fmt.Errorf("scanning room: %w", err)
		}
		rooms = append(rooms, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rooms: %w", err)
	}
	return rooms, nil
}

const bookingColumns = `id, room_id, start_at, end_at, customer_name, customer_phone,
		       customer_email, status, source, notes`

// ListBookings returns bookings overlapping [from, to) ordered by start time.
func (s *SQLite) ListBookings(ctx context.Context, from, to time.Time) ([]booking.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE start_at < ? AND end_at > ?
		ORDER BY start_at, room_id, id
	`

	rows, err := s.db.QueryContext(ctx, query, to.Unix(), from.Unix())
	if err != nil {
		return nil, fmt.Errorf("querying bookings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var bookings []booking.Booking
	for rows.Next() {
		b, err := s.scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bookings: %w", err)
	}
	return bookings, nil
}

// GetBooking retrieves a booking by ID.
func (s *SQLite) GetBooking(ctx context.Context, id string) (booking.Booking, error) {
	return s.getBooking(ctx, s.db, id)
}

// CreateBooking stores b. Returns ErrMutationRejected if an active booking
// already occupies the range.
func (s *SQLite) CreateBooking(ctx context.Context, b booking.Booking) (booking.Booking, error) {
	if err := b.Validate(); err != nil {
		return booking.Booking{}, err
	}
	if b.Status == "" {
		b.Status = booking.StatusPending
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return booking.Booking{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := checkRoomTx(ctx, tx, b.RoomID); err != nil {
		return booking.Booking{}, err
	}
	if b.IsActive() {
		if err := checkOverlapTx(ctx, tx, b.RoomID, b.Start, b.End, b.ID); err != nil {
			return booking.Booking{}, err
		}
	}

	query := `
		INSERT INTO bookings (
			id, room_id, start_at, end_at, customer_name, customer_phone,
			customer_email, status, source, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, query,
		b.ID, b.RoomID, b.Start.Unix(), b.End.Unix(),
		b.CustomerName, b.CustomerPhone, b.CustomerEmail,
		b.Status, b.Source, b.Notes,
	); err != nil {
		return booking.Booking{}, fmt.Errorf("inserting booking: %w", err)
	}

	created, err := s.getBooking(ctx, tx, b.ID)
	if err != nil {
		return booking.Booking{}, err
	}
	if err := tx.Commit(); err != nil {
		return booking.Booking{}, fmt.Errorf("committing transaction: %w", err)
	}
	return created, nil
}

// DeleteBooking removes a booking.
func (s *SQLite) DeleteBooking(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting booking: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %s", booking.ErrBookingNotFound, id)
	}
	return nil
}

// SetStatus changes the status of a booking.
func (s *SQLite) SetStatus(ctx context.Context, id string, status booking.Status) error {
	if _, err := booking.ParseStatus(string(status)); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `UPDATE bookings SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %s", booking.ErrBookingNotFound, id)
	}
	return nil
}

// MoveBooking relocates one booking. The overlap check and the update run in
// one transaction.
func (s *SQLite) MoveBooking(ctx context.Context, req booking.MoveRequest) (booking.Booking, error) {
	if err := req.Validate(); err != nil {
		return booking.Booking{}, err
	}
	out, err := s.relocate(ctx, req)
	if err != nil {
		return booking.Booking{}, err
	}
	return out[0], nil
}

// SwapBookings relocates both halves of req atomically. Either both bookings
// move or neither does.
func (s *SQLite) SwapBookings(ctx context.Context, req booking.SwapRequest) ([]booking.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.relocate(ctx, req.Moved(), req.Target())
}

// ResizeBooking changes a booking's time range within its room.
func (s *SQLite) ResizeBooking(ctx context.Context, req booking.ResizeRequest) (booking.Booking, error) {
	if err := req.Validate(); err != nil {
		return booking.Booking{}, err
	}
	current, err := s.GetBooking(ctx, req.BookingID)
	if err != nil {
		return booking.Booking{}, err
	}
	out, err := s.relocate(ctx, booking.MoveRequest{
		BookingID:    req.BookingID,
		NewRoomID:    current.RoomID,
		NewStartTime: req.NewStartTime,
		NewEndTime:   req.NewEndTime,
	})
	if err != nil {
		return booking.Booking{}, err
	}
	return out[0], nil
}

// relocate applies every move in one transaction, then re-checks each moved
// booking against the final state of its room.
func (s *SQLite) relocate(ctx context.Context, moves ...booking.MoveRequest) ([]booking.Booking, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, m := range moves {
		if err := checkRoomTx(ctx, tx, m.NewRoomID); err != nil {
			return nil, err
		}
		result, err := tx.ExecContext(ctx,
			`UPDATE bookings SET room_id = ?, start_at = ?, end_at = ? WHERE id = ?`,
			m.NewRoomID, m.NewStartTime.Unix(), m.NewEndTime.Unix(), m.BookingID,
		)
		if err != nil {
			return nil, fmt.Errorf("updating booking: %w", err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return nil, fmt.Errorf("%w: %s", booking.ErrBookingNotFound, m.BookingID)
		}
	}

	out := make([]booking.Booking, 0, len(moves))
	for _, m := range moves {
		b, err := s.getBooking(ctx, tx, m.BookingID)
		if err != nil {
			return nil, err
		}
		if b.IsActive() {
			if err := checkOverlapTx(ctx, tx, b.RoomID, b.Start, b.End, b.ID); err != nil {
				return nil, err
			}
		}
		out = append(out, b)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return out, nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *SQLite) getBooking(ctx context.Context, q queryer, id string) (booking.Booking, error) {
	row := q.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	b, err := s.scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return booking.Booking{}, fmt.Errorf("%w: %s", booking.ErrBookingNotFound, id)
	}
	return b, err
}

func (s *SQLite) scanBooking(row scanner) (booking.Booking, error) {
	var (
		b          booking.Booking
		start, end int64
	)
	err := row.Scan(
		&b.ID,
		&b.RoomID,
		&start,
		&end,
		&b.CustomerName,
		&b.CustomerPhone,
		&b.CustomerEmail,
		&b.Status,
		&b.Source,
		&b.Notes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return booking.Booking{}, err
	}
	if err != nil {
		return booking.Booking{}, fmt.Errorf("scanning booking: %w", err)
	}
	b.Start = time.Unix(start, 0).In(s.loc)
	b.End = time.Unix(end, 0).In(s.loc)
	return b, nil
}

func checkRoomTx(ctx context.Context, tx *sql.Tx, roomID string) error {
	var bookable bool
	err := tx.QueryRowContext(ctx, `SELECT bookable FROM rooms WHERE id = ?`, roomID).Scan(&bookable)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w: %s", booking.ErrMutationRejected, booking.ErrRoomNotFound, roomID)
	}
	if err != nil {
		return fmt.Errorf("checking room: %w", err)
	}
	if !bookable {
		return fmt.Errorf("%w: %w: %s", booking.ErrMutationRejected, booking.ErrRoomNotBookable, roomID)
	}
	return nil
}

// checkOverlapTx rejects [start, end) in roomID when it intersects an active
// booking other than excludeID.
func checkOverlapTx(ctx context.Context, tx *sql.Tx, roomID string, start, end time.Time, excludeID string) error {
	query := `
		SELECT id, start_at, end_at, customer_name
		FROM bookings
		WHERE room_id = ?
		  AND id != ?
		  AND status NOT IN (?, ?)
		  AND start_at < ?
		  AND end_at > ?
		LIMIT 1
	`

	var (
		id                   string
		existStart, existEnd int64
		customer             string
	)

	err := tx.QueryRowContext(ctx, query,
		roomID,
		excludeID,
		booking.StatusCancelled,
		booking.StatusNoShow,
		end.Unix(),
		start.Unix(),
	).Scan(&id, &existStart, &existEnd, &customer)

	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking overlap: %w", err)
	}

	return fmt.Errorf("%w: %w: conflicts with %s %q (%s-%s)",
		booking.ErrMutationRejected, booking.ErrOverlap, id, customer,
		time.Unix(existStart, 0).In(start.Location()).Format("15:04"),
		time.Unix(existEnd, 0).In(start.Location()).Format("15:04"))
}
