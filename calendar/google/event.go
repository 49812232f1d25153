package google

import (
	"google.golang.org/api/calendar/v3"

	"github.com/guilherme-santos/retellcalendar"
)

func newGoogleEvent(event *retellcalendar.Event) *calendar.Event {
	attendees := make([]*calendar.EventAttendee, 0, len(event.Attendees))
	for _, email := range event.Attendees {
		attendees = append(attendees, &calendar.EventAttendee{Email: email})
	}

	overrides := make([]*calendar.EventReminder, 0, len(event.Reminders))
	for _, r := range event.Reminders {
		overrides = append(overrides, &calendar.EventReminder{
			Method:  r.Method.String(),
			Minutes: r.Minutes,
		})
	}

	return &calendar.Event{
		Summary:     event.Summary,
		Description: event.Description,
		Start: &calendar.EventDateTime{
			DateTime: event.StartsAt.String(),
			TimeZone: event.TimeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: event.EndsAt.String(),
			TimeZone: event.TimeZone,
		},
		Attendees: attendees,
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			Overrides:  overrides,
			// useDefault=false would be dropped by omitempty otherwise
			ForceSendFields: []string{"UseDefault"},
		},
	}
}

// newEvent returns a copy of req carrying the identifiers Google assigned.
func newEvent(req *retellcalendar.Event, created *calendar.Event) *retellcalendar.Event {
	e := *req
	e.ID = created.Id
	e.Link = created.HtmlLink
	return &e
}
