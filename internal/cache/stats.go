package cache

import (
	"context"
	_ "embed"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

//go:embed stats.lua
var statsScript string

var recordExercise = redis.NewScript(statsScript)

// ActivityStats keeps running per-user exercise totals in a Redis hash.
type ActivityStats struct {
	client *redis.Client
}

func NewActivityStats(client *redis.Client) *ActivityStats {
	return &ActivityStats{client: client}
}

// Record adds one exercise to the user's totals and moves last_date forward
// when date is newer than the stored one. The update is atomic, and an
// exercise id already recorded is ignored, so redelivered events are safe.
// It reports whether the totals changed.
func (s *ActivityStats) Record(ctx context.Context, userID, exerciseID string, minutes float64, date time.Time) (bool, error) {
	applied, err := recordExercise.Run(ctx, s.client,
		[]string{UserStatsKey(userID), UserStatsSeenKey(userID)},
		exerciseID,
		strconv.FormatFloat(minutes, 'f', -1, 64),
		date.UTC().Format("2006-01-02"),
	).Int64()
	if err != nil {
		return false, err
	}
	return applied == 1, nil
}

// Summary returns the raw totals hash for a user.
func (s *ActivityStats) Summary(ctx context.Context, userID string) (map[string]string, error) {
	return s.client.HGetAll(ctx, UserStatsKey(userID)).Result()
}
