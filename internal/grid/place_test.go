package grid

import (
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/javiermolinar/venuegrid/internal/booking"
	"github.com/javiermolinar/venuegrid/internal/hours"
)

var testDate = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return time.Date(2025, 3, 14, h, m, 0, 0, time.UTC)
}

func testRooms() []booking.Room {
	return []booking.Room{
		{ID: "r1", Name: "Studio A", Bookable: true},
		{ID: "r2", Name: "Studio B", Bookable: true},
		{ID: "r3", Name: "Storage", Bookable: false},
	}
}

func placeFor(h hours.BusinessHours, bookings []booking.Booking) Placement {
	s := DefaultSettings()
	slots := GenerateSlots(h, s.Interval, PaddingFor(s.Orientation))
	m := NewMapper(NewGeometry(s, Viewport{Width: 1920, Height: 1080}, len(slots), 3))
	return Place(PlaceInput{
		Date:     testDate,
		Hours:    h,
		Slots:    slots,
		Mapper:   m,
		Rooms:    testRooms(),
		Bookings: bookings,
	})
}

func TestPlaceBasic(t *testing.T) {
	h := hours.BusinessHours{OpenTime: "16:00", CloseTime: "23:00"}
	p := placeFor(h, []booking.Booking{
		{ID: "a", RoomID: "r1", Start: at(17, 0), End: at(18, 0), Status: booking.StatusConfirmed},
	})

	if !p.Origin.Equal(at(15, 0)) {
		t.Errorf("Origin = %v, want 15:00", p.Origin)
	}
	if p.WindowMinutes != 37*15 {
		t.Errorf("WindowMinutes = %d, want %d", p.WindowMinutes, 37*15)
	}

	pb, ok := p.Find("a")
	if !ok {
		t.Fatal("booking a not placed")
	}
	if pb.StartMinutes != 120 || pb.EndMinutes != 180 {
		t.Errorf("minutes = %v..%v, want 120..180", pb.StartMinutes, pb.EndMinutes)
	}
	if pb.OffsetSlots != 8 || pb.ExtentSlots != 4 {
		t.Errorf("slots = %v+%v, want 8+4", pb.OffsetSlots, pb.ExtentSlots)
	}
	if pb.OffsetPx != 384 || pb.ExtentPx != 192 {
		t.Errorf("px = %v+%v, want 384+192", pb.OffsetPx, pb.ExtentPx)
	}
	if pb.ClippedStart || pb.ClippedEnd {
		t.Error("unexpected clipping")
	}
	if !p.TimeAt(pb.StartMinutes).Equal(at(17, 0)) {
		t.Errorf("TimeAt(start) = %v", p.TimeAt(pb.StartMinutes))
	}
}

func TestPlaceClipsAndFilters(t *testing.T) {
	h := hours.BusinessHours{OpenTime: "16:00", CloseTime: "23:00"}
	next := func(hh, mm int) time.Time { return at(hh, mm).AddDate(0, 0, 1) }

	p := placeFor(h, []booking.Booking{
		{ID: "early", RoomID: "r1", Start: at(14, 0), End: at(15, 30), Status: booking.StatusConfirmed},
		{ID: "late", RoomID: "r2", Start: at(23, 30), End: next(1, 0), Status: booking.StatusPending},
		{ID: "cancelled", RoomID: "r1", Start: at(17, 0), End: at(18, 0), Status: booking.StatusCancelled},
		{ID: "noshow", RoomID: "r1", Start: at(19, 0), End: at(20, 0), Status: booking.StatusNoShow},
		{ID: "elsewhere", RoomID: "r9", Start: at(17, 0), End: at(18, 0), Status: booking.StatusConfirmed},
		{ID: "storage", RoomID: "r3", Start: at(17, 0), End: at(18, 0), Status: booking.StatusConfirmed},
	})

	early, ok := p.Find("early")
	if !ok {
		t.Fatal("early not placed")
	}
	if !early.ClippedStart || early.StartMinutes != 0 || early.EndMinutes != 30 {
		t.Errorf("early = %+v", early)
	}
	if !early.Start.Equal(at(14, 0)) {
		t.Error("clipping must not change the booking's own start")
	}

	late, ok := p.Find("late")
	if !ok {
		t.Fatal("late not placed")
	}
	if !late.ClippedEnd || late.EndMinutes != float64(p.WindowMinutes) {
		t.Errorf("late = %+v", late)
	}

	for _, id := range []string{"cancelled", "noshow", "elsewhere"} {
		if _, ok := p.Find(id); ok {
			t.Errorf("%s should not be placed", id)
		}
	}
	if s, ok := p.Find("storage"); !ok || s.RoomIndex != 2 {
		t.Errorf("non-bookable room bookings are still shown, got %+v %v", s, ok)
	}
}

func TestPlaceClippingIsIdempotent(t *testing.T) {
	bookings := []booking.Booking{
		{ID: "before", RoomID: "r1", Start: at(13, 0), End: at(14, 30), Status: booking.StatusConfirmed},
	}
	orig := slices.Clone(bookings)

	narrow := placeFor(hours.BusinessHours{OpenTime: "16:00", CloseTime: "23:00"}, bookings)
	if len(narrow.All()) != 0 {
		t.Fatalf("booking outside the window was placed: %+v", narrow.All())
	}
	if !reflect.DeepEqual(bookings, orig) {
		t.Fatal("placement modified its input")
	}

	wide := placeFor(hours.BusinessHours{OpenTime: "14:00", CloseTime: "23:00"}, bookings)
	pb, ok := wide.Find("before")
	if !ok {
		t.Fatal("booking should reappear in a wider window")
	}
	if pb.StartMinutes != 0 || pb.EndMinutes != 90 || pb.ClippedStart {
		t.Errorf("widened placement = %+v", pb)
	}
}

func TestPlaceSortsByStart(t *testing.T) {
	h := hours.BusinessHours{OpenTime: "16:00", CloseTime: "23:00"}
	p := placeFor(h, []booking.Booking{
		{ID: "c", RoomID: "r1", Start: at(20, 0), End: at(21, 0), Status: booking.StatusConfirmed},
		{ID: "b", RoomID: "r2", Start: at(16, 0), End: at(17, 0), Status: booking.StatusConfirmed},
		{ID: "a", RoomID: "r1", Start: at(16, 0), End: at(17, 0), Status: booking.StatusConfirmed},
	})

	var ids []string
	for _, pb := range p.All() {
		ids = append(ids, pb.ID)
	}
	if want := []string{"a", "c", "b"}; !slices.Equal(ids, want) {
		t.Errorf("All() order = %v, want %v", ids, want)
	}
}

func TestPlaceClosedDay(t *testing.T) {
	p := placeFor(hours.Closed, []booking.Booking{
		{ID: "a", RoomID: "r1", Start: at(17, 0), End: at(18, 0), Status: booking.StatusConfirmed},
	})
	if len(p.All()) != 0 {
		t.Errorf("closed day placed %d bookings", len(p.All()))
	}
}
