package retellcalendar

import "fmt"

var defaultReminders = []Reminder{
	{Method: ReminderEmail, Minutes: 24 * 60},
	{Method: ReminderPopup, Minutes: 30},
}

// NewEvent builds the calendar event for req. Defaults are expected to be
// applied to req already.
func NewEvent(req BookingRequest, timeZone string) (*Event, error) {
	if req.DurationMinutes < 1 || req.DurationMinutes > MaxDurationMinutes {
		return nil, fmt.Errorf("invalid appointment duration %d minutes, must be between 1 and %d",
			req.DurationMinutes, MaxDurationMinutes)
	}
	startsAt, err := ParseDateTime(req.Date, req.Time)
	if err != nil {
		return nil, err
	}

	reminders := make([]Reminder, len(defaultReminders))
	copy(reminders, defaultReminders)

	return &Event{
		Summary:     fmt.Sprintf("%s - %s", req.AppointmentType, req.CustomerName),
		Description: fmt.Sprintf("Appointment Type: %s\n\nNotes: %s", req.AppointmentType, req.Notes),
		StartsAt:    startsAt,
		EndsAt:      startsAt.AddMinutes(req.DurationMinutes),
		TimeZone:    timeZone,
		Attendees:   []string{req.CustomerEmail},
		Reminders:   reminders,
	}, nil
}
