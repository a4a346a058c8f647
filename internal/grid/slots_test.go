package grid

import (
	"testing"

	"github.com/javiermolinar/venuegrid/internal/hours"
)

func TestGenerateSlotsCoverage(t *testing.T) {
	h := hours.BusinessHours{OpenTime: "16:00", CloseTime: "23:00"}
	slots := GenerateSlots(h, 15, PaddingFor(TimeAsColumns))

	if len(slots) != 37 {
		t.Fatalf("len(slots) = %d, want 37", len(slots))
	}
	first, last := slots[0], slots[len(slots)-1]
	if first.MinutesFromOpen != -60 {
		t.Errorf("first MinutesFromOpen = %d, want -60", first.MinutesFromOpen)
	}
	if first.Label != "15:00" {
		t.Errorf("first Label = %q, want 15:00", first.Label)
	}
	if last.MinutesFromOpen < (23-16)*60+60 {
		t.Errorf("last MinutesFromOpen = %d, want >= %d", last.MinutesFromOpen, (23-16)*60+60)
	}
	if !last.NextDay || last.Label != "00:00" {
		t.Errorf("last slot = %+v, want next-day 00:00", last)
	}
	for i := 1; i < len(slots); i++ {
		if slots[i].MinutesFromOpen-slots[i-1].MinutesFromOpen != 15 {
			t.Fatalf("slot %d not 15 minutes after previous", i)
		}
	}
}

func TestGenerateSlotsVerticalHasNoPadding(t *testing.T) {
	h := hours.BusinessHours{OpenTime: "16:00", CloseTime: "23:00"}
	slots := GenerateSlots(h, 30, PaddingFor(TimeAsRows))
	if slots[0].MinutesFromOpen != 0 {
		t.Errorf("first MinutesFromOpen = %d, want 0", slots[0].MinutesFromOpen)
	}
	if got := slots[len(slots)-1].MinutesFromOpen; got != 420 {
		t.Errorf("last MinutesFromOpen = %d, want 420", got)
	}
}

func TestGenerateSlotsLateNight(t *testing.T) {
	h := hours.BusinessHours{OpenTime: "20:00", CloseTime: "02:00"}
	if !h.IsLateNight() {
		t.Fatal("expected late night hours")
	}

	for _, o := range []Orientation{TimeAsColumns, TimeAsRows} {
		slots := GenerateSlots(h, 15, PaddingFor(o))
		if len(slots) == 0 {
			t.Fatalf("%s: no slots", o)
		}
		reached := false
		for _, s := range slots {
			if s.NextDay && s.Label == "02:00" {
				reached = true
			}
		}
		if !reached {
			t.Errorf("%s: slots stop before 02:00 next day (last %+v)", o, slots[len(slots)-1])
		}
	}

	slots := GenerateSlots(h, 15, PaddingFor(TimeAsRows))
	if len(slots) != 25 {
		t.Errorf("vertical late night len = %d, want 25", len(slots))
	}
	if slots[15].NextDay != false || slots[16].NextDay != true {
		t.Errorf("midnight boundary: slot15=%+v slot16=%+v", slots[15], slots[16])
	}
}

func TestGenerateSlotsEdgeCases(t *testing.T) {
	t.Run("closed day", func(t *testing.T) {
		if got := GenerateSlots(hours.Closed, 15, PaddingFor(TimeAsColumns)); len(got) != 0 {
			t.Errorf("got %d slots, want 0", len(got))
		}
	})

	t.Run("zero length day", func(t *testing.T) {
		h := hours.BusinessHours{OpenTime: "09:00", CloseTime: "09:00"}
		if got := GenerateSlots(h, 15, PaddingFor(TimeAsColumns)); len(got) != 0 {
			t.Errorf("got %d slots, want 0", len(got))
		}
	})

	t.Run("default interval", func(t *testing.T) {
		h := hours.BusinessHours{OpenTime: "09:00", CloseTime: "10:00"}
		got := GenerateSlots(h, 0, Padding{})
		if len(got) != 5 || got[1].MinutesFromOpen != 15 {
			t.Errorf("got %+v, want 15 minute slots", got)
		}
	})

	t.Run("hard cap", func(t *testing.T) {
		h := hours.BusinessHours{OpenTime: "00:00", CloseTime: "23:59"}
		if got := GenerateSlots(h, 1, PaddingFor(TimeAsColumns)); len(got) != MaxSlots {
			t.Errorf("got %d slots, want %d", len(got), MaxSlots)
		}
	})

	t.Run("uneven interval overhangs close", func(t *testing.T) {
		h := hours.BusinessHours{OpenTime: "09:00", CloseTime: "10:00"}
		got := GenerateSlots(h, 25, Padding{})
		if last := got[len(got)-1].MinutesFromOpen; last != 50 {
			t.Errorf("last MinutesFromOpen = %d, want 50", last)
		}
	})

	t.Run("lead-in before midnight", func(t *testing.T) {
		h := hours.BusinessHours{OpenTime: "00:30", CloseTime: "02:00"}
		got := GenerateSlots(h, 30, PaddingFor(TimeAsColumns))
		if got[0].Label != "23:30" || got[0].NextDay {
			t.Errorf("first slot = %+v, want 23:30 on the previous evening", got[0])
		}
	})
}

func TestParseOrientation(t *testing.T) {
	if o, ok := ParseOrientation("rows"); !ok || o != TimeAsRows {
		t.Errorf("ParseOrientation(rows) = %q, %v", o, ok)
	}
	if _, ok := ParseOrientation("diagonal"); ok {
		t.Error("ParseOrientation(diagonal) should fail")
	}
	if TimeAsColumns.Toggle() != TimeAsRows || TimeAsRows.Toggle() != TimeAsColumns {
		t.Error("Toggle should flip orientation")
	}
}
