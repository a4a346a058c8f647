package gesture

import (
	"math"
	"time"

	"github.com/javiermolinar/venuegrid/internal/dateutil"
)

// SnapUnit returns the resize granularity for a grid interval. Hour grids
// snap to half hours.
func SnapUnit(interval int) int {
	switch {
	case interval <= 0:
		return 15
	case interval == 60:
		return 30
	default:
		return interval
	}
}

// Snap rounds t to the nearest multiple of unit minutes past midnight of day.
func Snap(t, day time.Time, unit int) time.Time {
	midnight := dateutil.TruncateToDay(day)
	m := dateutil.WallMinutes(midnight, t)
	snapped := int(math.Round(m/float64(unit))) * unit
	return dateutil.AtMinutes(midnight, snapped)
}
