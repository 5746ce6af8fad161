package obs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Time logs the duration of op when the returned func is deferred with the
// caller's named error.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()
	log := Logger(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Warn("op failed", zap.String("op", name), zap.Int64("dur_ms", dur.Milliseconds()), zap.Error(*errp))
			return
		}
		log.Debug("op done", zap.String("op", name), zap.Int64("dur_ms", dur.Milliseconds()))
	}
}
