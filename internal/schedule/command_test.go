package schedule

import (
	"testing"

	"github.com/javiermolinar/venuegrid/internal/booking"
)

func TestCommandsInvertToSnapshot(t *testing.T) {
	a := confirmed("A", "r1", at(14, 0), at(15, 0))
	b := confirmed("B", "r1", at(15, 0), at(16, 0))
	s := NewState([]booking.Booking{a, b})

	commands := []Command{
		NewMove(a, booking.MoveRequest{BookingID: "A", NewRoomID: "r2", NewStartTime: at(9, 0), NewEndTime: at(10, 0)}),
		NewSwap(a, b, booking.SwapRequest{
			BookingID: "A", NewRoomID: "r1", NewStartTime: at(15, 0), NewEndTime: at(16, 0),
			TargetBookingID: "B", TargetRoomID: "r1", TargetNewStartTime: at(14, 0), TargetNewEndTime: at(15, 0),
		}),
		NewResize(a, booking.ResizeRequest{BookingID: "A", NewStartTime: at(13, 30), NewEndTime: at(15, 0)}),
		Create{Booking: confirmed("C", "r3", at(8, 0), at(9, 0))},
		Delete{Booking: b},
	}
	for _, cmd := range commands {
		t.Run(cmd.Kind(), func(t *testing.T) {
			next, err := cmd.Apply(s)
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if next.Equal(s) {
				t.Error("Apply should change the state")
			}
			if got := cmd.Invert(next); !got.Equal(s) {
				t.Errorf("Invert(Apply(s)) = %+v, want %+v", got.All(), s.All())
			}
			undone, err := cmd.Inverse().Apply(next)
			if err != nil {
				t.Fatalf("Inverse().Apply: %v", err)
			}
			if !undone.Equal(s) {
				t.Errorf("Inverse().Apply(Apply(s)) = %+v, want %+v", undone.All(), s.All())
			}
		})
	}
}

func TestApplyDoesNotMutateReceiver(t *testing.T) {
	a := confirmed("A", "r1", at(14, 0), at(15, 0))
	s := NewState([]booking.Booking{a})

	m := NewMove(a, booking.MoveRequest{BookingID: "A", NewRoomID: "r2", NewStartTime: at(16, 0), NewEndTime: at(17, 0)})
	if _, err := m.Apply(s); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got, _ := s.Get("A"); got.RoomID != "r1" {
		t.Error("Apply modified the original state")
	}
}

func TestSwapRequestRoundTrip(t *testing.T) {
	a := confirmed("A", "r1", at(14, 0), at(15, 0))
	b := confirmed("B", "r2", at(15, 0), at(16, 0))
	req := booking.SwapRequest{
		BookingID: "A", NewRoomID: "r2", NewStartTime: at(15, 0), NewEndTime: at(16, 0),
		TargetBookingID: "B", TargetRoomID: "r1", TargetNewStartTime: at(14, 0), TargetNewEndTime: at(15, 0),
	}
	if got := NewSwap(a, b, req).Request(); got != req {
		t.Errorf("Request() = %+v, want %+v", got, req)
	}
}

func TestApplyErrors(t *testing.T) {
	a := confirmed("A", "r1", at(14, 0), at(15, 0))
	s := NewState([]booking.Booking{a})

	if _, err := (Create{Booking: a}).Apply(s); err == nil {
		t.Error("creating an existing booking should fail")
	}
	ghost := confirmed("G", "r1", at(14, 0), at(15, 0))
	if _, err := (Delete{Booking: ghost}).Apply(s); err == nil {
		t.Error("deleting a missing booking should fail")
	}
	if _, err := NewMove(ghost, booking.MoveRequest{BookingID: "G", NewRoomID: "r1", NewStartTime: at(1, 0), NewEndTime: at(2, 0)}).Apply(s); err == nil {
		t.Error("moving a missing booking should fail")
	}
}
