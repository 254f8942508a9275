package reservation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"resortagent/models"
	"resortagent/services/rooms"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// bookingServer fakes the reservation system: /login hands out sequential
// tokens, /bookings answers from a scripted status sequence.
type bookingServer struct {
	*httptest.Server

	loginCount    int
	bookingCalls  []models.BookingPayload
	bookingTokens []string
	statuses      []int
}

func newBookingServer(t *testing.T, statuses ...int) *bookingServer {
	t.Helper()
	bs := &bookingServer{statuses: statuses}
	bs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			bs.loginCount++
			fmt.Fprintf(w, `{"token": "tok-%d"}`, bs.loginCount)
		case "/bookings":
			require.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var payload models.BookingPayload
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			bs.bookingCalls = append(bs.bookingCalls, payload)
			bs.bookingTokens = append(bs.bookingTokens, r.Header.Get("Authorization"))

			status := http.StatusOK
			if len(bs.statuses) > 0 {
				status = bs.statuses[0]
				bs.statuses = bs.statuses[1:]
			}
			w.WriteHeader(status)
			if status == http.StatusOK || status == http.StatusCreated {
				fmt.Fprint(w, `{"id": 42, "status": "confirmed"}`)
			} else {
				fmt.Fprint(w, `{"detail": "rejected"}`)
			}
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	return bs
}

var testRequest = models.BookingRequest{
	GuestName: "John Silva",
	Email:     "john@gmail.com",
	CheckIn:   "2026-03-10",
	CheckOut:  "2026-03-15",
	RoomType:  "Deluxe Room",
	Adults:    2,
	Children:  0,
}

func TestCreateBookingSuccess(t *testing.T) {
	srv := newBookingServer(t, http.StatusCreated)
	defer srv.Close()

	c := NewClient(srv.URL, "admin", "secret", zap.NewNop())
	result, err := c.CreateBooking(context.Background(), testRequest)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", result["status"])

	require.Len(t, srv.bookingCalls, 1)
	payload := srv.bookingCalls[0]
	assert.Equal(t, "John Silva", payload.UserName)
	assert.Equal(t, 2, payload.RoomTypeID)
	assert.Equal(t, "2026-03-10", payload.CheckInDate)
	assert.Equal(t, "2026-03-15", payload.CheckOutDate)
	assert.Equal(t, 2, payload.Adults)
	assert.NotNil(t, payload.ChildrenAges)
	assert.Empty(t, payload.ChildrenAges)
	assert.Equal(t, "Bearer tok-1", srv.bookingTokens[0])
	assert.Equal(t, 1, srv.loginCount)
}

func TestCreateBookingRetriesOnceOnUnauthorized(t *testing.T) {
	srv := newBookingServer(t, http.StatusUnauthorized, http.StatusOK)
	defer srv.Close()

	c := NewClient(srv.URL, "admin", "secret", zap.NewNop())
	result, err := c.CreateBooking(context.Background(), testRequest)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", result["status"])

	// Exactly one refresh and one retry: two logins, two submissions,
	// second submission carries the fresh token.
	assert.Equal(t, 2, srv.loginCount)
	require.Len(t, srv.bookingCalls, 2)
	assert.Equal(t, "Bearer tok-1", srv.bookingTokens[0])
	assert.Equal(t, "Bearer tok-2", srv.bookingTokens[1])
}

func TestCreateBookingFailsAfterSecondUnauthorized(t *testing.T) {
	srv := newBookingServer(t, http.StatusUnauthorized, http.StatusUnauthorized)
	defer srv.Close()

	c := NewClient(srv.URL, "admin", "secret", zap.NewNop())
	_, err := c.CreateBooking(context.Background(), testRequest)
	require.Error(t, err)

	var bookingErr *BookingError
	require.True(t, errors.As(err, &bookingErr))
	assert.Equal(t, http.StatusUnauthorized, bookingErr.Status)

	// No third attempt.
	assert.Len(t, srv.bookingCalls, 2)
	assert.Equal(t, 2, srv.loginCount)
}

func TestCreateBookingNoRetryOnOtherErrors(t *testing.T) {
	srv := newBookingServer(t, http.StatusUnprocessableEntity)
	defer srv.Close()

	c := NewClient(srv.URL, "admin", "secret", zap.NewNop())
	_, err := c.CreateBooking(context.Background(), testRequest)
	require.Error(t, err)

	var bookingErr *BookingError
	require.True(t, errors.As(err, &bookingErr))
	assert.Equal(t, http.StatusUnprocessableEntity, bookingErr.Status)

	assert.Len(t, srv.bookingCalls, 1)
	assert.Equal(t, 1, srv.loginCount)
}

func TestCreateBookingUnknownRoomTypeFailsBeforeSubmission(t *testing.T) {
	srv := newBookingServer(t)
	defer srv.Close()

	c := NewClient(srv.URL, "admin", "secret", zap.NewNop())
	req := testRequest
	req.RoomType = "Standard"

	_, err := c.CreateBooking(context.Background(), req)
	require.Error(t, err)

	var unknownErr *rooms.UnknownRoomTypeError
	assert.True(t, errors.As(err, &unknownErr))

	// The reservation system was never contacted.
	assert.Zero(t, srv.loginCount)
	assert.Empty(t, srv.bookingCalls)
}

func TestCreateBookingLoginFailurePropagatesAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/login", r.URL.Path)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "admin", "secret", zap.NewNop())
	_, err := c.CreateBooking(context.Background(), testRequest)
	require.Error(t, err)

	var authErr *AuthError
	assert.True(t, errors.As(err, &authErr))
}
