package service

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// SessionCleanup schedules a job that periodically purges expired passcodes
// and sessions. The caller owns the returned scheduler and should shut it down
func SessionCleanup(t time.Duration, auth *AuthService, clock clockwork.Clock) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithClock(clock))
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DurationJob(t),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			n, err := auth.Purge(ctx)
			if err != nil {
				zap.L().Error("Failed to purge expired rows", zap.Error(err))
				return
			}

			if n > 0 {
				zap.L().Debug("Purged expired rows", zap.Int64("count", n))
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}

	zap.L().Debug("Session cleanup attached", zap.Duration("tick_every", t))

	s.Start()
	return s, nil
}
