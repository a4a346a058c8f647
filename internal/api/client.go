package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/javiermolinar/venuegrid/internal/booking"
)

// Client is a booking.Repository backed by a remote venuegrid server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger

	retries   uint64
	retryBase time.Duration
	readCache *ReadCache
}

var _ booking.Repository = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRetries sets how many times a failed read is retried and the initial
// backoff. Mutations are never retried.
func WithRetries(n uint64, base time.Duration) ClientOption {
	return func(c *Client) {
		c.retries = n
		c.retryBase = base
	}
}

// WithLogger sets the client logger.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = log.With().Str("component", "api-client").Logger()
	}
}

// WithRedisCache caches reads in rdb for ttl.
func WithRedisCache(rdb *redis.Client, ttl time.Duration) ClientOption {
	return func(c *Client) {
		c.readCache = NewReadCache(rdb, ttl)
	}
}

// NewClient returns a client for the server at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        zerolog.Nop(),
		retries:    3,
		retryBase:  100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListRooms returns every room.
func (c *Client) ListRooms(ctx context.Context) ([]booking.Room, error) {
	var resp roomsResponse
	if err := c.read(ctx, "rooms", c.baseURL+prefix+"/rooms", &resp); err != nil {
		return nil, err
	}
	return resp.Rooms, nil
}

// ListBookings returns bookings overlapping [from, to).
func (c *Client) ListBookings(ctx context.Context, from, to time.Time) ([]booking.Booking, error) {
	q := url.Values{}
	q.Set("from", from.Format(time.RFC3339))
	q.Set("to", to.Format(time.RFC3339))
	endpoint := c.baseURL + prefix + "/bookings?" + q.Encode()
	key := fmt.Sprintf("bookings:%d:%d", from.Unix(), to.Unix())

	var resp bookingsResponse
	if err := c.read(ctx, key, endpoint, &resp); err != nil {
		return nil, err
	}
	return resp.Bookings, nil
}

// CreateBooking stores b.
func (c *Client) CreateBooking(ctx context.Context, b booking.Booking) (booking.Booking, error) {
	var out booking.Booking
	err := c.mutate(ctx, http.MethodPost, prefix+"/bookings", b, &out)
	return out, err
}

// DeleteBooking removes a booking.
func (c *Client) DeleteBooking(ctx context.Context, id string) error {
	return c.mutate(ctx, http.MethodDelete, prefix+"/bookings/"+url.PathEscape(id), nil, nil)
}

// MoveBooking relocates one booking.
func (c *Client) MoveBooking(ctx context.Context, req booking.MoveRequest) (booking.Booking, error) {
	var out booking.Booking
	err := c.mutate(ctx, http.MethodPost, prefix+"/bookings/"+url.PathEscape(req.BookingID)+"/move", req, &out)
	return out, err
}

// SwapBookings relocates two bookings in one request.
func (c *Client) SwapBookings(ctx context.Context, req booking.SwapRequest) ([]booking.Booking, error) {
	var out bookingsResponse
	if err := c.mutate(ctx, http.MethodPost, prefix+"/bookings/swap", req, &out); err != nil {
		return nil, err
	}
	return out.Bookings, nil
}

// ResizeBooking changes a booking's time range.
func (c *Client) ResizeBooking(ctx context.Context, req booking.ResizeRequest) (booking.Booking, error) {
	var out booking.Booking
	err := c.mutate(ctx, http.MethodPost, prefix+"/bookings/"+url.PathEscape(req.BookingID)+"/resize", req, &out)
	return out, err
}

// HealthCheck checks the server is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", http.NoBody)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// read fetches endpoint into out, consulting the read cache first and
// retrying network failures with exponential backoff.
func (c *Client) read(ctx context.Context, key, endpoint string, out any) error {
	if c.readCache.Get(ctx, key, out) {
		return nil
	}

	backoff := retry.WithMaxRetries(c.retries, retry.NewExponential(c.retryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
		if err != nil {
			return err
		}
		err = c.do(req, out)
		if booking.Retryable(err) {
			c.log.Debug().Err(err).Str("url", endpoint).Msg("retrying read")
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return err
	}

	c.readCache.Set(ctx, key, out)
	return nil
}

// mutate sends one request and invalidates cached reads on success.
func (c *Client) mutate(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if err := c.do(req, out); err != nil {
		return err
	}
	c.readCache.Invalidate(ctx)
	return nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %w", booking.ErrNetworkFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return classify(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// classify turns a non-2xx response into a booking error.
func classify(resp *http.Response) error {
	var body errorBody
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &body); err != nil || body.Error == "" {
		body.Error = strings.TrimSpace(string(data))
	}
	if body.Error == "" {
		body.Error = resp.Status
	}
	msg := errors.New(body.Error)

	switch {
	case resp.StatusCode == http.StatusConflict && body.Code == codeOverlap:
		return fmt.Errorf("%w: %w: %w", booking.ErrMutationRejected, booking.ErrOverlap, msg)
	case resp.StatusCode == http.StatusConflict, resp.StatusCode == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %w", booking.ErrMutationRejected, msg)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %w", booking.ErrBookingNotFound, msg)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: http %d: %w", booking.ErrNetworkFailure, resp.StatusCode, msg)
	default:
		return fmt.Errorf("http %d: %w", resp.StatusCode, msg)
	}
}
