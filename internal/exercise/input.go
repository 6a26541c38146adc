package exercise

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"exercise_tracker/internal/apperror"

	"github.com/araddon/dateparse"
)

// flexNumber accepts either a JSON string or a bare JSON number, so that
// {"duration": 60} and {"duration": "60"} bind the same way. A bare numeric
// zero counts as absent; the string "0" does not. Other JSON types are
// rejected.
type flexNumber string

func (f *flexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexNumber(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected a number or string, got %s", b)
	}
	if v, err := n.Float64(); err == nil && v == 0 {
		*f = ""
		return nil
	}
	*f = flexNumber(n)
	return nil
}

// UnmarshalParam lets gin's form binding fill the field.
func (f *flexNumber) UnmarshalParam(param string) error {
	*f = flexNumber(param)
	return nil
}

// ExerciseInput is the raw, unvalidated body of an add-exercise request.
type ExerciseInput struct {
	Description string
	Duration    string
	Date        string
}

// ParseDate parses any common textual date representation. Inputs without a
// zone are read as UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := dateparse.ParseIn(strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// CalendarDate drops the time of day, keeping the UTC calendar date.
func CalendarDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseNumber parses a decimal number, rejecting NaN, infinities and
// digit separators.
func ParseNumber(s string) (float64, bool) {
	if strings.Contains(s, "_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// NewExercise validates in and normalizes it into an Exercise for userID.
// A missing date defaults to the calendar date of now.
func NewExercise(userID string, in ExerciseInput, now time.Time) (*Exercise, error) {
	if in.Description == "" || in.Duration == "" {
		return nil, apperror.MissingField("Description and duration are required")
	}

	duration, ok := ParseNumber(in.Duration)
	if !ok {
		return nil, apperror.InvalidNumber("Duration must be a number")
	}

	date := now
	if in.Date != "" {
		parsed, err := ParseDate(in.Date)
		if err != nil {
			return nil, apperror.InvalidDate("Invalid date format")
		}
		date = parsed
	}

	return &Exercise{
		UserID:      userID,
		Description: in.Description,
		Duration:    duration,
		Date:        CalendarDate(date),
	}, nil
}
