package exercise

import (
	"encoding/json"
	"testing"
	"time"

	"exercise_tracker/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "Mon Jan 01 1990", FormatDate(time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Wed Feb 29 2012", FormatDate(time.Date(2012, 2, 29, 0, 0, 0, 0, time.UTC)))
	// Rendering is always in UTC.
	assert.Equal(t, "Mon Jan 01 1990", FormatDate(time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC).In(time.FixedZone("W", -5*3600))))
}

func TestNewExerciseResponse_UsesUserID(t *testing.T) {
	u := &user.User{ID: "user-1", Username: "fcc_test"}
	e := &Exercise{ID: "exercise-9", UserID: "user-1", Description: "test", Duration: 60, Date: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)}

	body, err := json.Marshal(NewExerciseResponse(u, e))

	require.NoError(t, err)
	assert.Equal(t, `{"username":"fcc_test","description":"test","duration":60,"date":"Mon Jan 01 1990","_id":"user-1"}`, string(body))
}

func TestNewLogResponse(t *testing.T) {
	u := &user.User{ID: "user-1", Username: "fcc_test"}
	exercises := []*Exercise{
		{Description: "a", Duration: 10, Date: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Description: "b", Duration: 2.5, Date: time.Date(1990, 6, 1, 0, 0, 0, 0, time.UTC)},
	}

	body, err := json.Marshal(NewLogResponse(u, exercises))

	require.NoError(t, err)
	assert.JSONEq(t, `{
		"username": "fcc_test",
		"count": 2,
		"_id": "user-1",
		"log": [
			{"description": "a", "duration": 10, "date": "Mon Jan 01 1990"},
			{"description": "b", "duration": 2.5, "date": "Fri Jun 01 1990"}
		]
	}`, string(body))
}

func TestNewLogResponse_EmptyLogIsArray(t *testing.T) {
	body, err := json.Marshal(NewLogResponse(&user.User{ID: "u", Username: "n"}, nil))

	require.NoError(t, err)
	assert.Contains(t, string(body), `"count":0`)
	assert.Contains(t, string(body), `"log":[]`)
}
