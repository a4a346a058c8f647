package integration

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/javiermolinar/venuegrid/internal/board"
	"github.com/javiermolinar/venuegrid/internal/booking"
	"github.com/javiermolinar/venuegrid/internal/grid"
	"github.com/javiermolinar/venuegrid/internal/hours"
	"github.com/javiermolinar/venuegrid/internal/schedule"
)

func TestLateNightBoardInLocalZone(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	store := openStore(t, loc)
	ctx := context.Background()

	friday := time.Date(2025, 3, 14, 0, 0, 0, 0, loc)
	local := func(d, h, m int) time.Time { return friday.AddDate(0, 0, d).Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

	// Friday runs 18:00-03:00 local time; both bookings belong to Friday.
	for _, b := range []booking.Booking{
		{ID: "late", RoomID: "r1", Start: local(0, 23, 0), End: local(1, 1, 0), CustomerName: "Night owls", Status: booking.StatusConfirmed},
		{ID: "after", RoomID: "r2", Start: local(1, 1, 30), End: local(1, 2, 30), CustomerName: "Afterparty", Status: booking.StatusPending},
	} {
		if _, err := store.CreateBooking(ctx, b); err != nil {
			t.Fatalf("failed to create %s: %v", b.ID, err)
		}
	}

	b := board.New(board.Options{
		Hours:    fixedHours(hours.BusinessHours{OpenTime: "18:00", CloseTime: "03:00"}),
		Cache:    schedule.New(store, zerolog.Nop(), nil),
		Repo:     store,
		Settings: grid.Settings{Orientation: grid.TimeAsRows, Interval: 30, SlotSize: grid.SizeSmall},
		Date:     friday.Add(20 * time.Hour),
		Logger:   zerolog.Nop(),
	})
	if err := b.Refresh(ctx); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	got, ok := b.Cache().State().Get("late")
	if !ok {
		t.Fatal("late booking not loaded")
	}
	if got.Start.Location() != loc {
		t.Errorf("booking location = %v, want %v", got.Start.Location(), loc)
	}
	if !got.Start.Equal(local(0, 23, 0)) {
		t.Errorf("start = %v, want %v", got.Start, local(0, 23, 0))
	}

	l := b.Layout(grid.Viewport{})
	// 18:00 through the 03:00 boundary in 30 minute steps.
	if len(l.Slots) != 19 {
		t.Fatalf("slots = %d, want 19", len(l.Slots))
	}
	last := l.Slots[len(l.Slots)-1]
	if last.Label != "03:00" || !last.NextDay {
		t.Errorf("last slot = %+v", last)
	}
	if placed := l.Placement.ByRoom["r2"]; len(placed) != 1 || placed[0].ID != "after" {
		t.Fatalf("r2 placement = %+v", placed)
	}

	// Moving the early-hours booking back across midnight stays on Friday.
	if err := b.CommitMove(ctx, "after", "r2", local(0, 22, 0), local(0, 23, 0)); err != nil {
		t.Fatalf("CommitMove failed: %v", err)
	}
	moved, err := store.GetBooking(ctx, "after")
	if err != nil {
		t.Fatalf("GetBooking failed: %v", err)
	}
	if moved.Start.In(loc).Hour() != 22 || moved.Start.In(loc).Day() != 14 {
		t.Errorf("moved start = %v", moved.Start.In(loc))
	}

	// Past close is refused even though the slot grid shows the boundary.
	if err := b.CommitResize(ctx, "late", local(0, 23, 0), local(1, 3, 30)); err == nil {
		t.Error("resize past close succeeded")
	}
}

func TestLateNightBoardAcrossDSTChange(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	store := openStore(t, loc)
	ctx := context.Background()

	// Clocks go back at 02:00 on Sunday morning, in the middle of Saturday night.
	saturday := time.Date(2025, 11, 1, 0, 0, 0, 0, loc)
	early := time.Date(2025, 11, 2, 3, 0, 0, 0, loc)
	if _, err := store.CreateBooking(ctx, booking.Booking{
		ID: "early", RoomID: "r1", Start: early, End: early.Add(30 * time.Minute),
		CustomerName: "Last round", Status: booking.StatusConfirmed,
	}); err != nil {
		t.Fatalf("failed to create booking: %v", err)
	}

	b := board.New(board.Options{
		Hours:    fixedHours(hours.BusinessHours{OpenTime: "20:00", CloseTime: "04:00"}),
		Cache:    schedule.New(store, zerolog.Nop(), nil),
		Repo:     store,
		Settings: grid.Settings{Orientation: grid.TimeAsColumns, Interval: 15, SlotSize: grid.SizeSmall},
		Date:     saturday,
		Logger:   zerolog.Nop(),
	})
	if err := b.Refresh(ctx); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	l := b.Layout(grid.Viewport{})
	// 19:00 through 05:00 on the wall clock, lead-in and trail-out included.
	if len(l.Slots) != 41 {
		t.Fatalf("slots = %d, want 41", len(l.Slots))
	}

	pb, ok := l.Placement.Find("early")
	if !ok {
		t.Fatal("early booking not placed")
	}
	slot := int(pb.OffsetSlots)
	if got := l.Slots[slot]; got.Label != "03:00" || !got.NextDay {
		t.Errorf("booking drawn at slot %d labelled %s, want 03:00", slot, got.Label)
	}
	if !l.SlotTime(slot).Equal(early) {
		t.Errorf("SlotTime(%d) = %v, want %v", slot, l.SlotTime(slot), early)
	}
	if pb.ExtentSlots != 2 {
		t.Errorf("extent = %v slots, want 2", pb.ExtentSlots)
	}
	if got := l.Placement.TimeAt(pb.StartMinutes); !got.Equal(early) {
		t.Errorf("TimeAt(start) = %v, want %v", got, early)
	}
}
