package bookingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/sony/gobreaker"

	"qbooking/internal/app/dto"
)

const defaultTimeout = 10 * time.Second

type (
	BookingQuery       = dto.CheckAvailabilityRequest
	AvailabilityResult = dto.AvailabilityResult
	CalendarQuery      = dto.AvailableDatesRequest
	CalendarData       = dto.AvailableDates
	RoomType           = dto.RoomType
	ReserveRequest     = dto.ReserveRoomsRequest
	Reservation        = dto.ReservationResult
	Cancellation       = dto.CancellationResult
)

var (
	// ErrServiceRejected is matched by every *RejectedError.
	ErrServiceRejected = errors.New("bookingapi: request rejected by service")
	ErrCircuitOpen     = errors.New("bookingapi: service temporarily unavailable")
	ErrDecode          = errors.New("bookingapi: malformed response")
)

// RejectedError is a response whose envelope carried success=false.
type RejectedError struct {
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("bookingapi: rejected with status %d", e.Status)
	}
	return fmt.Sprintf("bookingapi: rejected with status %d: %s", e.Status, e.Message)
}

func (e *RejectedError) Is(target error) bool { return target == ErrServiceRejected }

// Client talks to the qbooking HTTP API. Calls share one circuit breaker;
// answers the server rejected on purpose (4xx) do not count as failures.
type Client struct {
	baseURL string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithBreaker(cb *gobreaker.CircuitBreaker) Option {
	return func(c *Client) { c.cb = cb }
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout, Transport: transport},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cb == nil {
		c.cb = NewBreaker("qbooking-api", logger)
	}
	return c
}

// NewBreaker opens after three consecutive failures and probes again after ten seconds.
func NewBreaker(name string, logger *slog.Logger) *gobreaker.CircuitBreaker {
	if logger == nil {
		logger = slog.Default()
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 2
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var rejected *RejectedError
			return errors.As(err, &rejected) && rejected.Status >= 400 && rejected.Status < 500
		},
	})
}

func (c *Client) CheckAvailability(ctx context.Context, q BookingQuery) (AvailabilityResult, error) {
	var out AvailabilityResult
	err := c.do(ctx, http.MethodPost, "/bookings/check-availability", nil, q, nil, &out)
	return out, err
}

func (c *Client) GetAvailableDates(ctx context.Context, q CalendarQuery) (CalendarData, error) {
	params := url.Values{}
	params.Set("propertyId", strconv.FormatInt(q.PropertyID, 10))
	params.Set("roomTypeId", strconv.FormatInt(q.RoomTypeID, 10))
	params.Set("year", strconv.Itoa(q.Year))
	params.Set("month", strconv.Itoa(q.Month))
	if q.RoomsCount > 0 {
		params.Set("roomsCount", strconv.Itoa(q.RoomsCount))
	}
	var out CalendarData
	err := c.do(ctx, http.MethodGet, "/bookings/available-dates", params, nil, nil, &out)
	return out, err
}

func (c *Client) GetRoomType(ctx context.Context, propertyID, roomTypeID int64) (RoomType, error) {
	path := fmt.Sprintf("/properties/%d/room-types/%d", propertyID, roomTypeID)
	var out RoomType
	err := c.do(ctx, http.MethodGet, path, nil, nil, nil, &out)
	return out, err
}

// Reserve holds rooms. A non-empty idempotencyKey makes retries safe.
func (c *Client) Reserve(ctx context.Context, req ReserveRequest, idempotencyKey string) (Reservation, error) {
	headers := map[string]string{}
	if idempotencyKey != "" {
		headers["Idempotency-Key"] = idempotencyKey
	}
	var out Reservation
	err := c.do(ctx, http.MethodPost, "/bookings", nil, req, headers, &out)
	return out, err
}

func (c *Client) Cancel(ctx context.Context, reservationID string) (Cancellation, error) {
	var out Cancellation
	err := c.do(ctx, http.MethodDelete, "/bookings/"+url.PathEscape(reservationID), nil, nil, nil, &out)
	return out, err
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body any, headers map[string]string, out any) error {
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, c.roundTrip(ctx, method, path, params, body, headers, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", ErrCircuitOpen, err)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, params url.Values, body any, headers map[string]string, out any) error {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("bookingapi: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("bookingapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "api request failed", "method", method, "path", path, "error", err)
		return classifyRequestError(ctx, err)
	}
	defer resp.Body.Close()
	c.logger.DebugContext(ctx, "api request", "method", method, "path", path, "status", resp.StatusCode, "latency", time.Since(start))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("bookingapi: read response: %w", err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 300 {
			return &RejectedError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		}
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if !env.Success || resp.StatusCode >= 300 {
		return &RejectedError{Status: resp.StatusCode, Message: env.Message}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

func classifyRequestError(ctx context.Context, err error) error {
	if isTimeoutError(ctx, err) {
		return fmt.Errorf("bookingapi: timeout: %w", err)
	}
	if isNetworkError(err) {
		return fmt.Errorf("bookingapi: network error: %w", err)
	}
	return fmt.Errorf("bookingapi: request error: %w", err)
}

func isTimeoutError(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isNetworkError(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTUNREACH)
}
