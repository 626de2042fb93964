package services

import "time"

// Clock renders instants as wall-clock strings in the control room's
// timezone, regardless of where the process runs.
type Clock struct {
	loc *time.Location
}

// NewClock resolves the timezone once; tz is an IANA name like
// "Asia/Jakarta".
func NewClock(tz string) (*Clock, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, err
	}
	return &Clock{loc: loc}, nil
}

// Display formats t as HH:MM:SS control-room local time.
func (c *Clock) Display(t time.Time) string {
	return t.In(c.loc).Format("15:04:05")
}
