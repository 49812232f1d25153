package retellcalendar

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeTokens struct {
	token string
	err   error
	calls int
}

func (f *fakeTokens) AccessToken(context.Context) (string, error) {
	f.calls++
	return f.token, f.err
}

type fakeCalendar struct {
	err   error
	token string
	event *Event
}

func (f *fakeCalendar) CreateEvent(_ context.Context, token string, e *Event) (*Event, error) {
	f.token = token
	f.event = e
	if f.err != nil {
		return nil, f.err
	}
	created := *e
	created.ID = "abc123"
	created.Link = "https://calendar.google.com/abc123"
	return &created, nil
}

func bookingRequest() BookingRequest {
	return BookingRequest{
		CustomerName:    "Jane Doe",
		CustomerEmail:   "jane@example.com",
		Date:            "2024-06-01",
		Time:            "14:00",
		DurationMinutes: DefaultDurationMinutes,
		AppointmentType: DefaultAppointmentType,
	}
}

func TestBooker_Book(t *testing.T) {
	tokens := &fakeTokens{token: "access-1"}
	cal := &fakeCalendar{}
	b := NewBooker(tokens, cal, "America/New_York", nil)

	booking, err := b.Book(context.Background(), bookingRequest())
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if cal.token != "access-1" {
		t.Fatalf("calendar called with token %q", cal.token)
	}
	if cal.event.Summary != "consultation - Jane Doe" {
		t.Fatalf("unexpected summary: %q", cal.event.Summary)
	}
	if booking.Event.ID != "abc123" || booking.Event.Link != "https://calendar.google.com/abc123" {
		t.Fatalf("unexpected event: %+v", booking.Event)
	}
	if booking.Request.CustomerName != "Jane Doe" {
		t.Fatalf("unexpected request: %+v", booking.Request)
	}
}

func TestBooker_FetchesTokenEveryCall(t *testing.T) {
	tokens := &fakeTokens{token: "access-1"}
	b := NewBooker(tokens, &fakeCalendar{}, "UTC", nil)

	for i := 0; i < 3; i++ {
		if _, err := b.Book(context.Background(), bookingRequest()); err != nil {
			t.Fatalf("Book: %v", err)
		}
	}
	if tokens.calls != 3 {
		t.Fatalf("expected 3 token calls, got %d", tokens.calls)
	}
}

func TestBooker_TokenError(t *testing.T) {
	tokenErr := &UpstreamError{Stage: StageToken, Message: "Token has been expired or revoked."}
	cal := &fakeCalendar{}
	b := NewBooker(&fakeTokens{err: tokenErr}, cal, "UTC", nil)

	_, err := b.Book(context.Background(), bookingRequest())
	if !errors.Is(err, tokenErr) {
		t.Fatalf("expected token error, got %v", err)
	}
	if cal.event != nil {
		t.Fatal("calendar must not be called when the token exchange fails")
	}
}

func TestBooker_CalendarError(t *testing.T) {
	calErr := &UpstreamError{Stage: StageCalendar, Message: "Invalid attendee email."}
	b := NewBooker(&fakeTokens{token: "t"}, &fakeCalendar{err: calErr}, "UTC", nil)

	_, err := b.Book(context.Background(), bookingRequest())
	var uErr *UpstreamError
	if !errors.As(err, &uErr) || uErr.Stage != StageCalendar {
		t.Fatalf("expected calendar upstream error, got %v", err)
	}
	if err.Error() != "Invalid attendee email." {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestBooker_InvalidDateSkipsUpstream(t *testing.T) {
	tokens := &fakeTokens{token: "t"}
	b := NewBooker(tokens, &fakeCalendar{}, "UTC", nil)

	req := bookingRequest()
	req.Date = "not-a-date"
	if _, err := b.Book(context.Background(), req); err == nil {
		t.Fatal("expected error")
	}
	if tokens.calls != 0 {
		t.Fatalf("token endpoint must not be called, got %d calls", tokens.calls)
	}
}

func TestUpstreamError_Timeout(t *testing.T) {
	err := NewTimeoutError(StageCalendar, 2*time.Second, context.DeadlineExceeded)
	if !IsTimeout(err) {
		t.Fatal("expected IsTimeout")
	}
	if got, want := err.Error(), "calendar request timed out after 2s"; got != want {
		t.Fatalf("message = %q, want %q", got, want)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatal("expected unwrap to context.DeadlineExceeded")
	}
	if IsTimeout(errors.New("boom")) {
		t.Fatal("plain errors are not timeouts")
	}
}
