package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS rooms (
			id        TEXT PRIMARY KEY,
			name      TEXT NOT NULL,
			category  TEXT NOT NULL DEFAULT '',
			capacity  INTEGER NOT NULL DEFAULT 0,
			color     TEXT NOT NULL DEFAULT '',
			bookable  INTEGER NOT NULL DEFAULT 1,
			position  INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS bookings (
			id             TEXT PRIMARY KEY,
			room_id        TEXT NOT NULL REFERENCES rooms(id),
			start_at       INTEGER NOT NULL,
			end_at         INTEGER NOT NULL,
			customer_name  TEXT NOT NULL DEFAULT '',
			customer_phone TEXT NOT NULL DEFAULT '',
			customer_email TEXT NOT NULL DEFAULT '',
			status         TEXT NOT NULL DEFAULT 'pending'
			               CHECK(status IN ('pending', 'confirmed', 'cancelled', 'completed', 'no_show')),
			source         TEXT NOT NULL DEFAULT '',
			notes          TEXT NOT NULL DEFAULT '',
			created_at     DATETIME DEFAULT CURRENT_TIMESTAMP,
			CHECK(end_at > start_at)
		);

		CREATE INDEX IF NOT EXISTS idx_bookings_room_start ON bookings(room_id, start_at);
		CREATE INDEX IF NOT EXISTS idx_bookings_range ON bookings(start_at, end_at);

		CREATE TABLE IF NOT EXISTS business_hours (
			weekday    INTEGER PRIMARY KEY CHECK(weekday BETWEEN 0 AND 6),
			open_time  TEXT NOT NULL DEFAULT '',
			close_time TEXT NOT NULL DEFAULT '',
			closed     INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS hours_overrides (
			date       DATE PRIMARY KEY,
			open_time  TEXT NOT NULL DEFAULT '',
			close_time TEXT NOT NULL DEFAULT '',
			closed     INTEGER NOT NULL DEFAULT 0
		);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
