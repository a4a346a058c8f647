package grid

import "math"

// Point is a screen position in pixels.
type Point struct {
	X, Y float64
}

// Rect is a screen rectangle in pixels.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Axis names a screen axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (p Point) along(a Axis) float64 {
	if a == AxisX {
		return p.X
	}
	return p.Y
}

// compose builds a point from a value along a and a value along the other axis.
func compose(a Axis, along, across float64) Point {
	if a == AxisX {
		return Point{X: along, Y: across}
	}
	return Point{X: across, Y: along}
}

// MinutesToOffset converts minutes to pixels along the time axis.
func MinutesToOffset(minutes, slotPx float64, interval int) float64 {
	return minutes / float64(interval) * slotPx
}

// OffsetToMinutes converts pixels along the time axis to minutes.
// It is the exact inverse of MinutesToOffset.
func OffsetToMinutes(px, slotPx float64, interval int) float64 {
	return px / slotPx * float64(interval)
}

// Mapper converts between logical grid offsets and screen coordinates. Both
// orientations go through the same code; only the axis selection differs.
type Mapper struct {
	g        Geometry
	timeAxis Axis
}

// NewMapper returns a mapper for g.
func NewMapper(g Geometry) Mapper {
	a := AxisX
	if g.Orientation == TimeAsRows {
		a = AxisY
	}
	return Mapper{g: g, timeAxis: a}
}

// Geometry returns the geometry the mapper was built from.
func (m Mapper) Geometry() Geometry {
	return m.g
}

// TimeAxis returns the screen axis that carries time.
func (m Mapper) TimeAxis() Axis {
	return m.timeAxis
}

// ToScreen converts offsets along the time and room axes, relative to the
// grid origin, to a screen point.
func (m Mapper) ToScreen(timeOffset, roomOffset float64) Point {
	along := m.g.Origin.along(m.timeAxis) + timeOffset
	across := m.g.Origin.along(1-m.timeAxis) + roomOffset
	return compose(m.timeAxis, along, across)
}

// FromScreen is the inverse of ToScreen.
func (m Mapper) FromScreen(p Point) (timeOffset, roomOffset float64) {
	timeOffset = p.along(m.timeAxis) - m.g.Origin.along(m.timeAxis)
	roomOffset = p.along(1-m.timeAxis) - m.g.Origin.along(1-m.timeAxis)
	return timeOffset, roomOffset
}

// TimeAxisDelta returns the pixel distance from a to b along the time axis.
func (m Mapper) TimeAxisDelta(a, b Point) float64 {
	return b.along(m.timeAxis) - a.along(m.timeAxis)
}

// MinutesToPx converts minutes from the grid origin to a time-axis offset.
func (m Mapper) MinutesToPx(minutes float64) float64 {
	return MinutesToOffset(minutes, m.g.SlotPx, m.g.Interval)
}

// PxToMinutes converts a time-axis offset to minutes from the grid origin.
func (m Mapper) PxToMinutes(px float64) float64 {
	return OffsetToMinutes(px, m.g.SlotPx, m.g.Interval)
}

// MinutesAt returns minutes from the grid origin under p.
func (m Mapper) MinutesAt(p Point) float64 {
	t, _ := m.FromScreen(p)
	return m.PxToMinutes(t)
}

// SlotIndexAt returns the slot under p.
func (m Mapper) SlotIndexAt(p Point) (int, bool) {
	t, _ := m.FromScreen(p)
	return index(t, m.g.SlotPx, m.g.SlotCount)
}

// RoomIndexAt returns the room under p.
func (m Mapper) RoomIndexAt(p Point) (int, bool) {
	_, r := m.FromScreen(p)
	return index(r, m.g.RoomPx, m.g.RoomCount)
}

func index(offset, size float64, count int) (int, bool) {
	if size <= 0 || offset < 0 {
		return -1, false
	}
	i := int(math.Floor(offset / size))
	if i >= count {
		return -1, false
	}
	return i, true
}

// CellRect returns the screen rectangle of one cell.
func (m Mapper) CellRect(roomIndex, slotIndex int) Rect {
	return m.rect(float64(slotIndex)*m.g.SlotPx, m.g.SlotPx, roomIndex)
}

// CellCenter returns the screen centre of one cell.
func (m Mapper) CellCenter(roomIndex, slotIndex int) Point {
	r := m.CellRect(roomIndex, slotIndex)
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// BookingRect returns the screen rectangle of a placed booking.
func (m Mapper) BookingRect(pb PlacedBooking) Rect {
	return m.rect(pb.OffsetPx, pb.ExtentPx, pb.RoomIndex)
}

func (m Mapper) rect(timeOffset, timeExtent float64, roomIndex int) Rect {
	p := m.ToScreen(timeOffset, float64(roomIndex)*m.g.RoomPx)
	if m.timeAxis == AxisX {
		return Rect{X: p.X, Y: p.Y, W: timeExtent, H: m.g.RoomPx}
	}
	return Rect{X: p.X, Y: p.Y, W: m.g.RoomPx, H: timeExtent}
}
