package exercise

import (
	"time"

	"exercise_tracker/internal/user"
)

// DateLayout renders dates like "Mon Jan 01 1990".
const DateLayout = "Mon Jan 02 2006"

// FormatDate renders t in DateLayout using its UTC calendar day.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ExerciseResponse is returned when an exercise is added. ID is the user's id.
type ExerciseResponse struct {
	Username    string  `json:"username"`
	Description string  `json:"description"`
	Duration    float64 `json:"duration"`
	Date        string  `json:"date"`
	ID          string  `json:"_id"`
}

// LogEntry is one exercise in a LogResponse.
type LogEntry struct {
	Description string  `json:"description"`
	Duration    float64 `json:"duration"`
	Date        string  `json:"date"`
}

// LogResponse is a user's exercise log. Count is the number of entries in
// Log, after any limit was applied.
type LogResponse struct {
	Username string     `json:"username"`
	Count    int        `json:"count"`
	ID       string     `json:"_id"`
	Log      []LogEntry `json:"log"`
}

// NewExerciseResponse builds the response for an exercise just added for u.
func NewExerciseResponse(u *user.User, e *Exercise) *ExerciseResponse {
	return &ExerciseResponse{
		Username:    u.Username,
		Description: e.Description,
		Duration:    e.Duration,
		Date:        FormatDate(e.Date),
		ID:          u.ID,
	}
}

// NewLogResponse builds u's log from exercises in the order given.
func NewLogResponse(u *user.User, exercises []*Exercise) *LogResponse {
	log := make([]LogEntry, 0, len(exercises))
	for _, e := range exercises {
		log = append(log, LogEntry{
			Description: e.Description,
			Duration:    e.Duration,
			Date:        FormatDate(e.Date),
		})
	}

	return &LogResponse{
		Username: u.Username,
		Count:    len(log),
		ID:       u.ID,
		Log:      log,
	}
}
