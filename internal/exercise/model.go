package exercise

import "time"

// Exercise is a single logged activity. UserID is a weak reference to the
// owning user; Date carries no time of day (UTC midnight).
type Exercise struct {
	ID          string
	UserID      string
	Description string
	Duration    float64
	Date        time.Time
}

// LogFilter selects a user's exercises. From and To are inclusive bounds on
// Date; a zero Limit means no cap.
type LogFilter struct {
	UserID string
	From   *time.Time
	To     *time.Time
	Limit  int
}

func (f LogFilter) HasDateRange() bool {
	return f.From != nil || f.To != nil
}

// Matches reports whether e satisfies the user and date-range conditions.
// Limit is applied by the caller.
func (f LogFilter) Matches(e *Exercise) bool {
	if e.UserID != f.UserID {
		return false
	}
	if f.From != nil && e.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && e.Date.After(*f.To) {
		return false
	}
	return true
}
