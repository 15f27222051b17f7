package stream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RishiKendai/aegis-origin/internal/plagiarism"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RetryHandler retries failed messages with exponential backoff and moves
// exhausted or fatal ones to the dead letter stream.
type RetryHandler struct {
	client        *redis.Client
	deadLetterKey string
	maxAttempts   int
	baseDelay     time.Duration
}

func NewRetryHandler(client *redis.Client, deadLetterKey string) *RetryHandler {
	return &RetryHandler{
		client:        client,
		deadLetterKey: deadLetterKey,
		maxAttempts:   3,
		baseDelay:     2 * time.Second,
	}
}

// RetryWithBackoff calls fn until it succeeds, the error is fatal or the
// attempts are exhausted. On final failure the message is dead-lettered and
// the last error returned.
func (h *RetryHandler) RetryWithBackoff(ctx context.Context, fn func() error, messageID string, fields map[string]interface{}) error {
	var lastErr error
	for attempt := 1; attempt <= h.maxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !shouldRetry(lastErr) {
			log.Warn().Err(lastErr).Str("message_id", messageID).Msg("Fatal check error, not retrying")
			break
		}
		if attempt == h.maxAttempts {
			break
		}

		delay := backoff(h.baseDelay, attempt)
		log.Warn().
			Err(lastErr).
			Str("message_id", messageID).
			Int("attempt", attempt).
			Dur("retry_in", delay).
			Msg("Check failed, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	if err := h.sendToDeadLetter(ctx, messageID, fields, lastErr); err != nil {
		log.Error().Err(err).Str("message_id", messageID).Msg("Failed to move message to dead letter stream")
	}
	return lastErr
}

func (h *RetryHandler) sendToDeadLetter(ctx context.Context, messageID string, fields map[string]interface{}, cause error) error {
	values := make(map[string]interface{}, len(fields)+3)
	for k, v := range fields {
		values[k] = v
	}
	values["original_id"] = messageID
	values["error"] = cause.Error()
	values["failed_at"] = time.Now().UTC().Format(time.RFC3339)

	if err := h.client.XAdd(ctx, &redis.XAddArgs{
		Stream: h.deadLetterKey,
		Values: values,
	}).Err(); err != nil {
		return fmt.Errorf("failed to add to dead letter stream: %w", err)
	}

	log.Info().
		Str("message_id", messageID).
		Str("dead_letter_key", h.deadLetterKey).
		Msg("Message moved to dead letter stream")
	return nil
}

// shouldRetry is false for analysis errors that a retry cannot change and
// for cancelled or timed out checks.
func shouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return !plagiarism.IsFatal(err)
}

func backoff(base time.Duration, attempt int) time.Duration {
	return base * time.Duration(1<<(attempt-1))
}
