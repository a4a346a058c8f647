package db

import (
	"context"
	"fmt"
	"time"

	"github.com/javiermolinar/venuegrid/internal/dateutil"
	"github.com/javiermolinar/venuegrid/internal/hours"
)

// SaveWeek replaces the weekly business hours. days is indexed by
// time.Weekday.
func (s *SQLite) SaveWeek(ctx context.Context, days [7]hours.BusinessHours) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO business_hours (weekday, open_time, close_time, closed)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(weekday) DO UPDATE SET
			open_time = excluded.open_time,
			close_time = excluded.close_time,
			closed = excluded.closed
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for wd, h := range days {
		if err := h.Validate(); err != nil {
			return fmt.Errorf("%s: %w", time.Weekday(wd), err)
		}
		if _, err := stmt.ExecContext(ctx, wd, h.OpenTime, h.CloseTime, h.IsClosed); err != nil {
			return fmt.Errorf("saving %s hours: %w", time.Weekday(wd), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// SetOverride stores hours for one specific date, replacing any previous
// override for it.
func (s *SQLite) SetOverride(ctx context.Context, o hours.Override) error {
	if err := o.Hours.Validate(); err != nil {
		return fmt.Errorf("%s: %w", o.Date, err)
	}
	if _, err := time.Parse(dateutil.DateLayout, o.Date); err != nil {
		return dateutil.ErrInvalidDateFormat
	}
	query := `
		INSERT INTO hours_overrides (date, open_time, close_time, closed)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			open_time = excluded.open_time,
			close_time = excluded.close_time,
			closed = excluded.closed
	`
	if _, err := s.db.ExecContext(ctx, query, o.Date, o.Hours.OpenTime, o.Hours.CloseTime, o.Hours.IsClosed); err != nil {
		return fmt.Errorf("saving override: %w", err)
	}
	return nil
}

// DeleteOverride removes the override for date, if any.
func (s *SQLite) DeleteOverride(ctx context.Context, date string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM hours_overrides WHERE date = ?`, date); err != nil {
		return fmt.Errorf("deleting override: %w", err)
	}
	return nil
}

// Hours builds a resolver from the stored week and overrides. Weekdays that
// were never saved use fallback.
func (s *SQLite) Hours(ctx context.Context, fallback [7]hours.BusinessHours) (*hours.Weekly, error) {
	days := fallback

	rows, err := s.db.QueryContext(ctx, `SELECT weekday, open_time, close_time, closed FROM business_hours`)
	if err != nil {
		return nil, fmt.Errorf("querying business hours: %w", err)
	}
	for rows.Next() {
		var (
			wd int
			h  hours.BusinessHours
		)
		if err := rows.Scan(&wd, &h.OpenTime, &h.CloseTime, &h.IsClosed); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scanning business hours: %w", err)
		}
		if wd >= 0 && wd < 7 {
			days[wd] = h
		}
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating business hours: %w", err)
	}

	overrides, err := s.overrides(ctx)
	if err != nil {
		return nil, err
	}
	return hours.NewWeekly(days, overrides...)
}

func (s *SQLite) overrides(ctx context.Context) ([]hours.Override, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date, open_time, close_time, closed FROM hours_overrides ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("querying overrides: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []hours.Override
	for rows.Next() {
		var o hours.Override
		if err := rows.Scan(&o.Date, &o.Hours.OpenTime, &o.Hours.CloseTime, &o.Hours.IsClosed); err != nil {
			return nil, fmt.Errorf("scanning override: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating overrides: %w", err)
	}
	return out, nil
}
