package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javiermolinar/venuegrid/internal/booking"
	"github.com/javiermolinar/venuegrid/internal/db"
)

func at(h, m int) time.Time {
	return time.Date(2025, 3, 14, h, m, 0, 0, time.UTC)
}

func newBackend(t *testing.T) (*db.SQLite, *httptest.Server) {
	t.Helper()
	store, err := db.New(filepath.Join(t.TempDir(), "api.db"), db.WithLocation(time.UTC))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	require.NoError(t, store.AddRoom(ctx, booking.Room{ID: "r1", Name: "Studio A", Bookable: true}))
	require.NoError(t, store.AddRoom(ctx, booking.Room{ID: "r2", Name: "Studio B", Bookable: true}))
	require.NoError(t, store.AddRoom(ctx, booking.Room{ID: "r3", Name: "Storage"}))

	srv := httptest.NewServer(NewServer(store, zerolog.Nop()).Handler())
	t.Cleanup(srv.Close)
	return store, srv
}

func create(t *testing.T, c *Client, id, room string, start, end time.Time) {
	t.Helper()
	_, err := c.CreateBooking(context.Background(), booking.Booking{
		ID: id, RoomID: room, Start: start, End: end, CustomerName: id, Status: booking.StatusConfirmed,
	})
	require.NoError(t, err)
}

func TestClientRoundTrip(t *testing.T) {
	_, srv := newBackend(t)
	c := NewClient(srv.URL)
	ctx := context.Background()

	rooms, err := c.ListRooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 3)
	assert.Equal(t, "Studio A", rooms[0].Name)

	create(t, c, "A", "r1", at(14, 0), at(15, 0))
	create(t, c, "B", "r2", at(15, 0), at(16, 0))

	moved, err := c.MoveBooking(ctx, booking.MoveRequest{BookingID: "A", NewRoomID: "r1", NewStartTime: at(16, 0), NewEndTime: at(17, 0)})
	require.NoError(t, err)
	assert.True(t, moved.Start.Equal(at(16, 0)))

	swapped, err := c.SwapBookings(ctx, booking.SwapRequest{
		BookingID: "A", NewRoomID: "r2", NewStartTime: at(15, 0), NewEndTime: at(16, 0),
		TargetBookingID: "B", TargetRoomID: "r1", TargetNewStartTime: at(16, 0), TargetNewEndTime: at(17, 0),
	})
	require.NoError(t, err)
	require.Len(t, swapped, 2)

	resized, err := c.ResizeBooking(ctx, booking.ResizeRequest{BookingID: "B", NewStartTime: at(16, 0), NewEndTime: at(18, 0)})
	require.NoError(t, err)
	assert.Equal(t, "r1", resized.RoomID)
	assert.True(t, resized.End.Equal(at(18, 0)))

	list, err := c.ListBookings(ctx, at(0, 0), at(23, 59))
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, c.DeleteBooking(ctx, "A"))
	assert.ErrorIs(t, c.DeleteBooking(ctx, "A"), booking.ErrBookingNotFound)
	assert.NoError(t, c.HealthCheck(ctx))
}

func TestClientClassifiesRejections(t *testing.T) {
	_, srv := newBackend(t)
	c := NewClient(srv.URL)
	ctx := context.Background()
	create(t, c, "A", "r1", at(14, 0), at(15, 0))
	create(t, c, "B", "r1", at(16, 0), at(17, 0))

	_, err := c.MoveBooking(ctx, booking.MoveRequest{BookingID: "A", NewRoomID: "r1", NewStartTime: at(16, 30), NewEndTime: at(17, 30)})
	require.ErrorIs(t, err, booking.ErrMutationRejected)
	assert.ErrorIs(t, err, booking.ErrOverlap)
	assert.False(t, booking.Retryable(err))

	_, err = c.MoveBooking(ctx, booking.MoveRequest{BookingID: "A", NewRoomID: "r3", NewStartTime: at(10, 0), NewEndTime: at(11, 0)})
	assert.ErrorIs(t, err, booking.ErrMutationRejected, "non-bookable room")
}

func TestClientRetriesReadsOnly(t *testing.T) {
	var reads, writes atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			if reads.Add(1) < 3 {
				http.Error(w, "busy", http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(`{"rooms":[{"id":"r1","name":"Studio A","bookable":true}]}`))
			return
		}
		writes.Add(1)
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithRetries(3, time.Millisecond))
	ctx := context.Background()

	rooms, err := c.ListRooms(ctx)
	require.NoError(t, err)
	assert.Len(t, rooms, 1)
	assert.Equal(t, int32(3), reads.Load())

	_, err = c.MoveBooking(ctx, booking.MoveRequest{BookingID: "A", NewRoomID: "r1", NewStartTime: at(10, 0), NewEndTime: at(11, 0)})
	require.ErrorIs(t, err, booking.ErrNetworkFailure)
	assert.Equal(t, int32(1), writes.Load())
}

func TestClientReadGivesUp(t *testing.T) {
	var reads atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		reads.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithRetries(2, time.Millisecond))
	_, err := c.ListRooms(context.Background())
	assert.ErrorIs(t, err, booking.ErrNetworkFailure)
	assert.Equal(t, int32(3), reads.Load())
}

func TestClientTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, WithRetries(0, time.Millisecond))
	_, err := c.CreateBooking(context.Background(), booking.Booking{ID: "A", RoomID: "r1", Start: at(10, 0), End: at(11, 0)})
	assert.ErrorIs(t, err, booking.ErrNetworkFailure)
}

func TestClientRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	var reads atomic.Int32
	store, _ := newBackend(t)
	h := NewServer(store, zerolog.Nop()).Handler()
	counting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			reads.Add(1)
		}
		h.ServeHTTP(w, r)
	}))
	defer counting.Close()

	c := NewClient(counting.URL, WithRedisCache(rdb, time.Minute))
	ctx := context.Background()

	_, err := c.ListBookings(ctx, at(0, 0), at(23, 0))
	require.NoError(t, err)
	_, err = c.ListBookings(ctx, at(0, 0), at(23, 0))
	require.NoError(t, err)
	assert.Equal(t, int32(1), reads.Load(), "second read served from redis")

	create(t, c, "A", "r1", at(14, 0), at(15, 0))
	list, err := c.ListBookings(ctx, at(0, 0), at(23, 0))
	require.NoError(t, err)
	assert.Len(t, list, 1, "mutation invalidates cached reads")
	assert.Equal(t, int32(2), reads.Load())
}
