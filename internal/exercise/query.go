package exercise

import (
	"math"

	"exercise_tracker/internal/apperror"
)

// MaxLimit caps absurdly large limit values.
const MaxLimit = math.MaxInt32

// LogQuery holds the raw from/to/limit query parameters of a log request.
type LogQuery struct {
	From  string
	To    string
	Limit string
}

// BuildLogFilter turns q into a filter over userID's exercises. Bounds are
// inclusive; from after to is not an error and simply matches nothing.
func BuildLogFilter(userID string, q LogQuery) (LogFilter, error) {
	filter := LogFilter{UserID: userID}

	if q.From != "" {
		from, err := ParseDate(q.From)
		if err != nil {
			return LogFilter{}, apperror.InvalidDate("Invalid from date format")
		}
		filter.From = &from
	}

	if q.To != "" {
		to, err := ParseDate(q.To)
		if err != nil {
			return LogFilter{}, apperror.InvalidDate("Invalid to date format")
		}
		filter.To = &to
	}

	if q.Limit != "" {
		n, ok := ParseNumber(q.Limit)
		if !ok || n < 1 {
			return LogFilter{}, apperror.InvalidNumber("Limit must be a positive number")
		}
		if n > MaxLimit {
			n = MaxLimit
		}
		filter.Limit = int(math.Floor(n))
	}

	return filter, nil
}
