package gesture

import (
	"math"

	"github.com/javiermolinar/venuegrid/internal/grid"
)

// HitTest returns what lies under p. Bookings win over cells. The booking
// with ID skip is ignored so a dragged booking never targets itself.
func HitTest(l *grid.Layout, p grid.Point, skip string) Target {
	if l == nil || l.Closed() {
		return NoTarget{}
	}
	for _, pb := range l.Placement.All() {
		if pb.ID == skip {
			continue
		}
		if l.Mapper.BookingRect(pb).Contains(p) {
			return BookingTarget{BookingID: pb.ID}
		}
	}
	slot, ok := l.Mapper.SlotIndexAt(p)
	if !ok {
		return NoTarget{}
	}
	room, ok := l.Mapper.RoomIndexAt(p)
	if !ok || room >= len(l.Rooms) {
		return NoTarget{}
	}
	return CellTarget{RoomID: l.Rooms[room].ID, SlotIndex: slot}
}

// EdgeAt reports whether p sits on the start or end edge of a booking,
// within tolerance pixels.
func EdgeAt(l *grid.Layout, p grid.Point, tolerance float64) (string, Edge, bool) {
	if l == nil {
		return "", EdgeStart, false
	}
	m := l.Mapper
	for _, pb := range l.Placement.All() {
		r := m.BookingRect(pb)
		grown := grid.Rect{X: r.X - tolerance, Y: r.Y - tolerance, W: r.W + 2*tolerance, H: r.H + 2*tolerance}
		if !grown.Contains(p) {
			continue
		}
		t, _ := m.FromScreen(p)
		if !pb.ClippedStart && math.Abs(t-pb.OffsetPx) <= tolerance {
			return pb.ID, EdgeStart, true
		}
		if !pb.ClippedEnd && math.Abs(t-(pb.OffsetPx+pb.ExtentPx)) <= tolerance {
			return pb.ID, EdgeEnd, true
		}
	}
	return "", EdgeStart, false
}
