package app

import (
	"context"
	"log"
	"time"
)

const defaultPollInterval = 2 * time.Second

// StartPoller launches the background refresh loop. Each cycle runs the
// interval trigger on every registered runner, then feeds the cart's
// fetch outcome to the health tracker; the cart polls most often, so it
// doubles as the reachability probe. A success that ends an offline
// streak refetches everything, catching up on whatever was missed while
// unreachable. Returns immediately.
func StartPoller(ctx context.Context, session *Session, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			session.Registry.TickAll(ctx)
			err := session.Cart.Data().Err
			if err != nil {
				log.Printf("cart poll failed: %v", err)
			}
			if session.Health.Observe(err) {
				session.Registry.ReconnectAll(ctx)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}
