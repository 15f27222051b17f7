package plagiarism

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RishiKendai/aegis-origin/internal/infra/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	statusKeyPrefix = "originality_check_status:"
	statusTTL       = 12 * time.Hour
)

func statusKey(checkID string) string {
	return statusKeyPrefix + checkID
}

// UpdateStatus stores the current phase of a check in Redis.
func UpdateStatus(ctx context.Context, redisClient *redis.Client, checkID string, phase Phase) error {
	if _, known := transitions[phase]; !known && !phase.Terminal() {
		return fmt.Errorf("unknown phase: %s", phase)
	}

	rkey := statusKey(checkID)

	err := redisClient.Set(ctx, rkey, string(phase), statusTTL).Err()
	if err != nil {
		log.Error().Err(err).
			Str("phase", string(phase)).
			Str("checkId", checkID).
			Str("redisKey", rkey).
			Msg("Failed to update status in Redis")
		return fmt.Errorf("failed to update status in Redis: %w", err)
	}

	log.Trace().
		Str("checkId", checkID).
		Str("phase", string(phase)).
		Msg("Status updated in Redis")

	return nil
}

// GetStatus returns the last phase stored for a check. found is false when
// Redis holds no status for it.
func GetStatus(ctx context.Context, redisClient *redis.Client, checkID string) (phase Phase, found bool, err error) {
	value, err := redisClient.Get(ctx, statusKey(checkID)).Result()
	if errors.Is(err, goredis.Nil) {
		return PhaseIdle, false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read status from Redis: %w", err)
	}
	return Phase(value), true, nil
}
