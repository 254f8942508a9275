package reservation

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"resortagent/models"
	"resortagent/services/rooms"

	"go.uber.org/zap"
)

// callTimeout bounds every call against the reservation system.
const callTimeout = 30 * time.Second

// Submitter creates bookings in the remote reservation system.
type Submitter interface {
	CreateBooking(ctx context.Context, req models.BookingRequest) (models.BookingResult, error)
}

// Client is the production Submitter. Room-type resolution happens here,
// during submission — a request that passed completeness validation can
// still fail on an unresolvable room description.
type Client struct {
	HTTP    *http.Client
	BaseURL string
	Tokens  *TokenCache
	Rooms   *rooms.Resolver
	Logger  *zap.Logger
}

func NewClient(baseURL, username, password string, logger *zap.Logger) *Client {
	httpClient := &http.Client{Timeout: callTimeout}
	return &Client{
		HTTP:    httpClient,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Tokens:  NewTokenCache(httpClient, baseURL, username, password, logger),
		Rooms:   rooms.NewResolver(),
		Logger:  logger,
	}
}

// CreateBooking resolves the room type, then submits with the cached bearer
// token. A 401 forces exactly one token refresh and one retry; a second
// failure, or any other non-2xx status, is terminal.
func (c *Client) CreateBooking(ctx context.Context, req models.BookingRequest) (models.BookingResult, error) {
	roomTypeID, err := c.Rooms.Resolve(req.RoomType)
	if err != nil {
		return nil, err
	}

	payload := models.BookingPayload{
		UserName:     req.GuestName,
		Email:        req.Email,
		RoomTypeID:   roomTypeID,
		CheckInDate:  req.CheckIn,
		CheckOutDate: req.CheckOut,
		Adults:       req.Adults,
		Children:     req.Children,
		ChildrenAges: []int{},
	}

	c.Logger.Info("Creating booking",
		zap.String("guest", payload.UserName),
		zap.Int("roomTypeId", payload.RoomTypeID),
		zap.String("checkIn", payload.CheckInDate),
		zap.String("checkOut", payload.CheckOutDate),
	)

	token, err := c.Tokens.Token(ctx, false)
	if err != nil {
		return nil, err
	}

	status, body, err := c.post(ctx, payload, token)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized {
		c.Logger.Warn("Token expired, retrying with fresh token")
		token, err = c.Tokens.Token(ctx, true)
		if err != nil {
			return nil, err
		}
		status, body, err = c.post(ctx, payload, token)
		if err != nil {
			return nil, err
		}
	}

	if status != http.StatusOK && status != http.StatusCreated {
		return nil, newBookingError(status, "booking failed: "+string(body))
	}

	var result models.BookingResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, newBookingError(status, "booking response is not valid JSON: "+err.Error())
	}

	c.Logger.Info("Booking created", zap.Int("status", status))
	return result, nil
}

func (c *Client) post(ctx context.Context, payload models.BookingPayload, token string) (int, []byte, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, newBookingError(0, "failed to marshal booking payload: "+err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/bookings", bytes.NewReader(buf))
	if err != nil {
		return 0, nil, newBookingError(0, "failed to build booking request: "+err.Error())
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, newBookingError(0, "booking request failed: "+err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, newBookingError(resp.StatusCode, "failed to read booking response: "+err.Error())
	}
	return resp.StatusCode, body, nil
}
