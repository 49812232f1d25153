package retellcalendar

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// BookAppointment is the only function name the webhook acts on.
const BookAppointment = "book_appointment"

const (
	DefaultDurationMinutes = 30
	DefaultAppointmentType = "consultation"

	// MaxDurationMinutes is one week.
	MaxDurationMinutes = 7 * 24 * 60
)

var ErrMissingArguments = errors.New("missing arguments")

type BookingRequest struct {
	CustomerName    string
	CustomerEmail   string
	Date            string
	Time            string
	DurationMinutes int
	AppointmentType string
	Notes           string
}

type Event struct {
	ID          string
	Link        string
	Summary     string
	Description string
	StartsAt    DateTime
	EndsAt      DateTime
	TimeZone    string
	Attendees   []string
	Reminders   []Reminder
}

type Reminder struct {
	Method  ReminderMethod
	Minutes int64
}

type ReminderMethod string

func (m ReminderMethod) String() string {
	return string(m)
}

var (
	ReminderEmail ReminderMethod = "email"
	ReminderPopup ReminderMethod = "popup"
)

// Booking is the outcome of a successful Book call.
type Booking struct {
	Request BookingRequest
	Event   *Event
}

type TokenProvider interface {
	AccessToken(context.Context) (string, error)
}

type Calendar interface {
	CreateEvent(_ context.Context, accessToken string, _ *Event) (*Event, error)
}

type Stage string

func (s Stage) String() string {
	return string(s)
}

var (
	StageToken    Stage = "token"
	StageCalendar Stage = "calendar"
)

// UpstreamError is returned by the token provider and the calendar client.
// Message is what the upstream reported, suitable to hand back to the caller.
type UpstreamError struct {
	Stage   Stage
	Message string
	Timeout bool
	Err     error
}

func (e *UpstreamError) Error() string {
	return e.Message
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func NewTimeoutError(stage Stage, d time.Duration, err error) *UpstreamError {
	return &UpstreamError{
		Stage:   stage,
		Message: fmt.Sprintf("%s request timed out after %s", stage, d),
		Timeout: true,
		Err:     err,
	}
}

func IsTimeout(err error) bool {
	var uErr *UpstreamError
	return errors.As(err, &uErr) && uErr.Timeout
}
