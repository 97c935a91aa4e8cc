package helpers

import (
	"time"

	"github.com/yigit/roster/internal/pkg/logger"
)

// DurationOr parses value as a duration. Empty or unparsable values yield fallback;
// an unparsable one is logged under key.
func DurationOr(key, value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		logger.Warn().Err(err).Str("key", key).Str("value", value).Dur("fallback", fallback).Msg("Invalid duration setting, using fallback")
		return fallback
	}
	return d
}
