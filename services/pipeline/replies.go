package pipeline

import (
	"fmt"
	"strings"

	"resortagent/models"
)

const resortName = "Denisson's Beach Resort"

func replyExtractionFailed() string {
	return "Booking Failed\n\n" +
		"Sorry, I could not understand your booking request.\n\n" +
		"Please try again with this format:\n" +
		"Hi, I'd like to book a Deluxe Room. " +
		"My name is John Silva, email john@gmail.com. " +
		"Check-in March 10 2026, check-out March 15 2026. 2 adults."
}

func replyIncomplete(missing []string) string {
	var sb strings.Builder
	sb.WriteString("Booking Incomplete\n\n")
	sb.WriteString("I could not find:\n")
	for _, m := range missing {
		sb.WriteString("  - ")
		sb.WriteString(m)
		sb.WriteString("\n")
	}
	sb.WriteString("\nPlease resend with all details. Thank you!")
	return sb.String()
}

func replySubmissionFailed(guestName string) string {
	if guestName == "" {
		guestName = "there"
	}
	return fmt.Sprintf(
		"Booking Failed\n\n"+
			"Sorry %s, we could not complete your booking.\n\n"+
			"Please try again or contact us:\n"+
			"Phone: +1 (555) 123-4567\n"+
			"Email: reservations@denissonsbeach.com",
		guestName,
	)
}

func replyConfirmed(req models.BookingRequest) string {
	return fmt.Sprintf(
		"Booking Confirmed!\n\n"+
			"%s\n"+
			"---------------------------\n"+
			"Guest:     %s\n"+
			"Room:      %s\n"+
			"Check-in:  %s\n"+
			"Check-out: %s\n"+
			"Adults:    %d\n"+
			"Children:  %d\n"+
			"---------------------------\n"+
			"Confirmation sent to %s.\n\n"+
			"We look forward to welcoming you!",
		resortName,
		req.GuestName,
		req.RoomType,
		req.CheckIn,
		req.CheckOut,
		req.Adults,
		req.Children,
		req.Email,
	)
}
