package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Expirer moves active subscriptions whose end date has passed to expired.
type Expirer interface {
	ExpireDue(ctx context.Context, now time.Time) (int, error)
}

// ExpirySweeper persists expiry for subscriptions nobody has touched since
// they ended. Reads derive expiry on their own, so a late sweep is harmless.
type ExpirySweeper struct {
	expirer Expirer
	now     func() time.Time
	timeout time.Duration
	cron    *cron.Cron
}

func NewExpirySweeper(expirer Expirer) *ExpirySweeper {
	return &ExpirySweeper{
		expirer: expirer,
		now:     time.Now,
		timeout: 5 * time.Minute,
		cron:    cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger))),
	}
}

// Start schedules the sweep with a standard cron spec or descriptor such as "@every 15m".
func (s *ExpirySweeper) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, func() { s.Run(context.Background()) }); err != nil {
		return fmt.Errorf("schedule expiry sweep %q: %w", spec, err)
	}
	s.cron.Start()
	log.Printf("[ExpirySweeper] scheduled with %q", spec)
	return nil
}

// Stop waits for a running sweep to finish.
func (s *ExpirySweeper) Stop() {
	<-s.cron.Stop().Done()
}

// Run performs one sweep and returns how many subscriptions were expired.
func (s *ExpirySweeper) Run(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.expirer.ExpireDue(ctx, s.now())
	if err != nil {
		log.Printf("[ExpirySweeper] sweep finished with errors after expiring %d: %v", n, err)
		return n
	}
	if n > 0 {
		log.Printf("[ExpirySweeper] expired %d subscriptions", n)
	}
	return n
}
