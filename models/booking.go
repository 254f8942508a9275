package models

// BookingRequest is the structured record extracted from one inbound
// message. String fields are empty (never null) when the message did not
// mention them; adults defaults to 1 and children to 0 during extraction.
// The record is immutable once produced and discarded after the pipeline
// run — nothing is persisted.
type BookingRequest struct {
	GuestName       string `json:"guest_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	CheckIn         string `json:"check_in"`  // YYYY-MM-DD
	CheckOut        string `json:"check_out"` // YYYY-MM-DD
	RoomType        string `json:"room_type"`
	Adults          int    `json:"adults"`
	Children        int    `json:"children"`
	SpecialRequests string `json:"special_requests"`
}

// BookingPayload is the exact wire format the reservation system expects on
// POST /bookings. RoomTypeID comes from the room-type table; ChildrenAges is
// always sent as an empty list.
type BookingPayload struct {
	UserName     string `json:"user_name"`
	Email        string `json:"email"`
	RoomTypeID   int    `json:"room_type_id"`
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
	Adults       int    `json:"adults"`
	Children     int    `json:"children"`
	ChildrenAges []int  `json:"children_ages"`
}

// BookingResult is the reservation system's raw confirmation payload. It is
// opaque to the agent beyond being logged and folded into the reply.
type BookingResult map[string]any
