package server

import (
	"fmt"
	"net/http"

	"github.com/guilherme-santos/retellcalendar"
)

// Envelope is the body of every webhook response.
type Envelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	EventID   string `json:"event_id,omitempty"`
	EventLink string `json:"event_link,omitempty"`
	Error     string `json:"error,omitempty"`
}

type healthResponse struct {
	Status string `json:"status"`
}

const (
	healthStatus = "Server is running!"

	msgUnknownFunction = "Unknown function name"
	msgInvalidBody     = "Invalid request body"
	msgBookingFailed   = "Failed to book appointment"
	msgInternalError   = "Internal server error"
	msgRateLimited     = "Rate limit exceeded. Try again later."
	msgMockBooked      = "Appointment booked successfully (mock)"
)

func Success(b *retellcalendar.Booking) Envelope {
	return Envelope{
		Success: true,
		Message: fmt.Sprintf("Appointment booked successfully for %s on %s at %s",
			b.Request.CustomerName, b.Request.Date, b.Request.Time),
		EventID:   b.Event.ID,
		EventLink: b.Event.Link,
	}
}

func UnknownFunction() Envelope {
	return Envelope{Message: msgUnknownFunction}
}

func InvalidBody(err error) Envelope {
	return Envelope{Message: msgInvalidBody, Error: err.Error()}
}

func Failure(err error) Envelope {
	return Envelope{Message: msgBookingFailed, Error: err.Error()}
}

// BookingResult maps the outcome of a booking to its status code and body.
func BookingResult(b *retellcalendar.Booking, err error) (int, Envelope) {
	if err != nil {
		return http.StatusInternalServerError, Failure(err)
	}
	return http.StatusOK, Success(b)
}
