package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/javiermolinar/venuegrid/internal/booking"
)

// Server serves a booking.Repository over HTTP.
type Server struct {
	repo    booking.Repository
	log     zerolog.Logger
	engine  *gin.Engine
	metrics http.Handler
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) ServerOption {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewServer builds the router.
func NewServer(repo booking.Repository, log zerolog.Logger, opts ...ServerOption) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		repo:   repo,
		log:    log.With().Str("component", "api").Logger(),
		engine: gin.New(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.engine.Use(gin.Recovery(), s.requestLogger())
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(s.metrics))
	}

	v1 := s.engine.Group(prefix)
	v1.GET("/rooms", s.listRooms)
	v1.GET("/bookings", s.listBookings)
	v1.POST("/bookings", s.createBooking)
	v1.POST("/bookings/swap", s.swapBookings)
	v1.DELETE("/bookings/:id", s.deleteBooking)
	v1.POST("/bookings/:id/move", s.moveBooking)
	v1.POST("/bookings/:id/resize", s.resizeBooking)
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status, code := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, errorBody{Error: err.Error(), Code: code})
}

func (s *Server) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorBody{Error: err.Error(), Code: codeInvalid})
}

func (s *Server) listRooms(c *gin.Context) {
	rooms, err := s.repo.ListRooms(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, roomsResponse{Rooms: rooms})
}

func (s *Server) listBookings(c *gin.Context) {
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		s.badRequest(c, err)
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		s.badRequest(c, err)
		return
	}

	bookings, err := s.repo.ListBookings(c.Request.Context(), from, to)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bookingsResponse{Bookings: bookings})
}

func (s *Server) createBooking(c *gin.Context) {
	var b booking.Booking
	if err := c.ShouldBindJSON(&b); err != nil {
		s.badRequest(c, err)
		return
	}
	created, err := s.repo.CreateBooking(c.Request.Context(), b)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) deleteBooking(c *gin.Context) {
	if err := s.repo.DeleteBooking(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) moveBooking(c *gin.Context) {
	var req booking.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	req.BookingID = c.Param("id")
	moved, err := s.repo.MoveBooking(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, moved)
}

func (s *Server) swapBookings(c *gin.Context) {
	var req booking.SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	swapped, err := s.repo.SwapBookings(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bookingsResponse{Bookings: swapped})
}

func (s *Server) resizeBooking(c *gin.Context) {
	var req booking.ResizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	req.BookingID = c.Param("id")
	resized, err := s.repo.ResizeBooking(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resized)
}
