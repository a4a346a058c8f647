package grid

import "math"

const (
	// MinSlotPixels is the hard floor for a compressed slot.
	MinSlotPixels = 1
	// MinUsableSlotPixels is the practical floor for compression. Slots whose
	// preferred size is already smaller keep their preferred size.
	MinUsableSlotPixels = 24
	// SidebarWidth is taken from the viewport width while the sidebar is open.
	SidebarWidth = 240
)

// Header gutters per orientation. The room labels and the time labels each
// take one edge of the viewport.
const (
	RoomLabelWidth   = 120 // TimeAsColumns: room names down the left edge
	TimeHeaderHeight = 32  // TimeAsColumns: clock labels along the top
	TimeGutterWidth  = 64  // TimeAsRows: clock labels down the left edge
	RoomHeaderHeight = 40  // TimeAsRows: room names along the top
)

// SlotSize is a named slot size preference.
type SlotSize string

const (
	SizeTiny   SlotSize = "tiny"
	SizeSmall  SlotSize = "small"
	SizeMedium SlotSize = "medium"
	SizeLarge  SlotSize = "large"
	SizeHuge   SlotSize = "huge"
	SizeCustom SlotSize = "custom"
)

// Valid reports whether s is a known preset or custom.
func (s SlotSize) Valid() bool {
	_, ok := presets[TimeAsColumns][s]
	return ok || s == SizeCustom
}

// CellSize is the screen width and height of one cell.
type CellSize struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// In TimeAsColumns a cell's width runs along time; in TimeAsRows its height
// does.
var presets = map[Orientation]map[SlotSize]CellSize{
	TimeAsColumns: {
		SizeTiny:   {Width: 20, Height: 28},
		SizeSmall:  {Width: 32, Height: 36},
		SizeMedium: {Width: 48, Height: 48},
		SizeLarge:  {Width: 64, Height: 60},
		SizeHuge:   {Width: 96, Height: 80},
	},
	TimeAsRows: {
		SizeTiny:   {Width: 80, Height: 12},
		SizeSmall:  {Width: 110, Height: 18},
		SizeMedium: {Width: 140, Height: 24},
		SizeLarge:  {Width: 180, Height: 32},
		SizeHuge:   {Width: 240, Height: 48},
	},
}

// Settings are the display preferences that shape the grid.
type Settings struct {
	Orientation Orientation
	Interval    int
	SlotSize    SlotSize
	CustomRows  CellSize // custom cell for TimeAsColumns (rooms are rows)
	CustomCols  CellSize // custom cell for TimeAsRows (rooms are columns)
	SidebarOpen bool
}

// DefaultSettings returns medium slots, time as columns, 15 minute interval.
func DefaultSettings() Settings {
	return Settings{
		Orientation: TimeAsColumns,
		Interval:    DefaultInterval,
		SlotSize:    SizeMedium,
	}
}

// IntervalOrDefault returns the configured interval, falling back to 15.
func (s Settings) IntervalOrDefault() int {
	if s.Interval <= 0 {
		return DefaultInterval
	}
	return s.Interval
}

// Cell returns the preferred cell size for the current orientation.
func (s Settings) Cell() CellSize {
	o := s.orientation()
	if s.SlotSize == SizeCustom {
		c := s.CustomRows
		if o == TimeAsRows {
			c = s.CustomCols
		}
		if c.Width > 0 && c.Height > 0 {
			return c
		}
	}
	if c, ok := presets[o][s.SlotSize]; ok {
		return c
	}
	return presets[o][SizeMedium]
}

func (s Settings) orientation() Orientation {
	if s.Orientation == TimeAsRows {
		return TimeAsRows
	}
	return TimeAsColumns
}

// Viewport is the drawable area in pixels.
type Viewport struct {
	Width  int
	Height int
}

// Geometry is the resolved pixel layout of a grid.
type Geometry struct {
	Orientation Orientation
	Interval    int
	SlotPx      float64 // along the time axis, after compression
	RoomPx      float64 // along the room axis
	Origin      Point   // top-left corner of the first cell
	SlotCount   int
	RoomCount   int
	Viewport    Viewport
}

// TimeExtent returns the pixel length of the whole time axis.
func (g Geometry) TimeExtent() float64 {
	return float64(g.SlotCount) * g.SlotPx
}

// RoomExtent returns the pixel length of the whole room axis.
func (g Geometry) RoomExtent() float64 {
	return float64(g.RoomCount) * g.RoomPx
}

// ResolveSlotPixels compresses preferred when slots of that size do not fit
// in available. The result never drops below min(preferred,
// MinUsableSlotPixels) nor below MinSlotPixels.
func ResolveSlotPixels(preferred, available, slots int) float64 {
	if preferred < MinSlotPixels {
		preferred = MinSlotPixels
	}
	if slots <= 0 || available <= 0 || preferred*slots <= available {
		return float64(preferred)
	}
	floor := float64(max(min(preferred, MinUsableSlotPixels), MinSlotPixels))
	return math.Max(float64(available)/float64(slots), floor)
}

// NewGeometry derives the pixel layout for slotCount slots and roomCount
// rooms inside viewport.
func NewGeometry(s Settings, vp Viewport, slotCount, roomCount int) Geometry {
	o := s.orientation()
	cell := s.Cell()

	width := vp.Width
	if s.SidebarOpen {
		width -= SidebarWidth
	}
	height := vp.Height

	g := Geometry{
		Orientation: o,
		Interval:    s.IntervalOrDefault(),
		SlotCount:   slotCount,
		RoomCount:   roomCount,
		Viewport:    vp,
	}

	if o == TimeAsColumns {
		g.Origin = Point{X: RoomLabelWidth, Y: TimeHeaderHeight}
		g.SlotPx = ResolveSlotPixels(cell.Width, width-RoomLabelWidth, slotCount)
		g.RoomPx = float64(cell.Height)
		return g
	}

	g.Origin = Point{X: TimeGutterWidth, Y: RoomHeaderHeight}
	g.SlotPx = ResolveSlotPixels(cell.Height, height-RoomHeaderHeight, slotCount)
	g.RoomPx = float64(cell.Width)
	// Room columns stretch to fill spare width.
	if avail := width - TimeGutterWidth; roomCount > 0 && avail > cell.Width*roomCount {
		g.RoomPx = float64(avail) / float64(roomCount)
	}
	return g
}
