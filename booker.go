package retellcalendar

import (
	"context"

	"go.uber.org/zap"
)

type Booker struct {
	tokens   TokenProvider
	calendar Calendar
	timeZone string
	logger   *zap.Logger
}

func NewBooker(tokens TokenProvider, calendar Calendar, timeZone string, logger *zap.Logger) *Booker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Booker{
		tokens:   tokens,
		calendar: calendar,
		timeZone: timeZone,
		logger:   logger,
	}
}

// Book creates the calendar event for req. The token is fetched only after
// the event could be built, and the two outbound calls never overlap.
func (b Booker) Book(ctx context.Context, req BookingRequest) (*Booking, error) {
	event, err := NewEvent(req, b.timeZone)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("event prepared",
		zap.Stringer("starts_at", event.StartsAt),
		zap.Stringer("ends_at", event.EndsAt),
		zap.String("time_zone", event.TimeZone),
	)

	token, err := b.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	created, err := b.calendar.CreateEvent(ctx, token, event)
	if err != nil {
		return nil, err
	}
	b.logger.Info("appointment booked", zap.String("event_id", created.ID))

	return &Booking{
		Request: req,
		Event:   created,
	}, nil
}
