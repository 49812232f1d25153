package retellcalendar

import (
	"fmt"
	"time"
)

const DateTimeFormat = "2006-01-02T15:04:05"

// DateTime is a wall-clock timestamp without offset. The zone it refers to
// travels separately (Event.TimeZone), so arithmetic never crosses DST.
type DateTime struct {
	time.Time
}

// ParseDateTime composes "{date}T{clock}:00" and parses it as wall-clock time.
func ParseDateTime(date, clock string) (DateTime, error) {
	v := fmt.Sprintf("%sT%s:00", date, clock)
	t, err := time.ParseInLocation(DateTimeFormat, v, time.UTC)
	if err != nil {
		return DateTime{}, fmt.Errorf("invalid appointment date/time %q", v)
	}
	return DateTime{t}, nil
}

func (d DateTime) AddMinutes(minutes int) DateTime {
	return DateTime{d.Add(time.Duration(minutes) * time.Minute)}
}

func (d DateTime) String() string {
	return d.Format(DateTimeFormat)
}
