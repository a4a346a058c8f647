package grid

import (
	"math"
	"testing"
)

func TestOffsetRoundTrip(t *testing.T) {
	minutes := []float64{-60, 0, 1, 7.5, 14.999, 15, 47, 420, 555, 1439, 1620}
	sizes := []float64{1, 7.5, 20, 24, 42.16, 48, 96}
	intervals := []int{5, 15, 30, 60}

	for _, m := range minutes {
		for _, s := range sizes {
			for _, i := range intervals {
				got := OffsetToMinutes(MinutesToOffset(m, s, i), s, i)
				if math.Abs(got-m) > 1e-9 {
					t.Errorf("round trip m=%v s=%v interval=%d: got %v", m, s, i, got)
				}
			}
		}
	}
}

func TestMinutesToOffset(t *testing.T) {
	if got := MinutesToOffset(45, 48, 15); got != 144 {
		t.Errorf("MinutesToOffset(45, 48, 15) = %v, want 144", got)
	}
	if got := OffsetToMinutes(144, 48, 15); got != 45 {
		t.Errorf("OffsetToMinutes(144, 48, 15) = %v, want 45", got)
	}
}

func TestMapperOrientationsAreTransposed(t *testing.T) {
	base := Geometry{Interval: 15, SlotPx: 30, RoomPx: 50, SlotCount: 20, RoomCount: 4}

	h := base
	h.Orientation = TimeAsColumns
	v := base
	v.Orientation = TimeAsRows

	mh, mv := NewMapper(h), NewMapper(v)
	for _, c := range []struct{ t, r float64 }{{0, 0}, {45, 10}, {599.5, 199}} {
		ph := mh.ToScreen(c.t, c.r)
		pv := mv.ToScreen(c.t, c.r)
		if ph.X != pv.Y || ph.Y != pv.X {
			t.Errorf("(%v,%v): horizontal %+v, vertical %+v not transposed", c.t, c.r, ph, pv)
		}
		for _, m := range []Mapper{mh, mv} {
			gt, gr := m.FromScreen(m.ToScreen(c.t, c.r))
			if gt != c.t || gr != c.r {
				t.Errorf("%s FromScreen(ToScreen(%v,%v)) = %v,%v", m.Geometry().Orientation, c.t, c.r, gt, gr)
			}
		}
	}
}

func TestMapperIndexes(t *testing.T) {
	g := NewGeometry(DefaultSettings(), Viewport{Width: 1920, Height: 1080}, 37, 3)
	m := NewMapper(g)

	if i, ok := m.SlotIndexAt(Point{X: RoomLabelWidth + 100, Y: 40}); !ok || i != 2 {
		t.Errorf("SlotIndexAt = %d, %v, want 2", i, ok)
	}
	if i, ok := m.RoomIndexAt(Point{X: 200, Y: TimeHeaderHeight + 100}); !ok || i != 2 {
		t.Errorf("RoomIndexAt = %d, %v, want 2", i, ok)
	}
	if _, ok := m.RoomIndexAt(Point{X: 200, Y: TimeHeaderHeight + 48*3 + 1}); ok {
		t.Error("RoomIndexAt past last room should miss")
	}
	if _, ok := m.SlotIndexAt(Point{X: 10, Y: 40}); ok {
		t.Error("SlotIndexAt in the label gutter should miss")
	}

	if got := m.MinutesAt(Point{X: RoomLabelWidth + 72, Y: 0}); got != 22.5 {
		t.Errorf("MinutesAt = %v, want 22.5", got)
	}
}

func TestMapperCellRect(t *testing.T) {
	h := NewMapper(NewGeometry(DefaultSettings(), Viewport{Width: 1920, Height: 1080}, 37, 3))
	want := Rect{X: 216, Y: 80, W: 48, H: 48}
	if got := h.CellRect(1, 2); got != want {
		t.Errorf("horizontal CellRect = %+v, want %+v", got, want)
	}

	s := DefaultSettings()
	s.Orientation = TimeAsRows
	v := NewMapper(NewGeometry(s, Viewport{Width: 1000, Height: 800}, 25, 3))
	want = Rect{X: 376, Y: 88, W: 312, H: 24}
	if got := v.CellRect(1, 2); got != want {
		t.Errorf("vertical CellRect = %+v, want %+v", got, want)
	}
	if !want.Contains(v.CellCenter(1, 2)) {
		t.Error("cell centre should be inside its rect")
	}
	if i, _ := v.SlotIndexAt(v.CellCenter(1, 2)); i != 2 {
		t.Errorf("SlotIndexAt(centre) = %d, want 2", i)
	}
	if i, _ := v.RoomIndexAt(v.CellCenter(1, 2)); i != 1 {
		t.Errorf("RoomIndexAt(centre) = %d, want 1", i)
	}
}

func TestTimeAxisDelta(t *testing.T) {
	a, b := Point{X: 10, Y: 100}, Point{X: 70, Y: 40}

	h := NewMapper(Geometry{Orientation: TimeAsColumns})
	if got := h.TimeAxisDelta(a, b); got != 60 {
		t.Errorf("horizontal delta = %v, want 60", got)
	}
	v := NewMapper(Geometry{Orientation: TimeAsRows})
	if got := v.TimeAxisDelta(a, b); got != -60 {
		t.Errorf("vertical delta = %v, want -60", got)
	}
}
