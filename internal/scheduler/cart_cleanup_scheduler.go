package scheduler

import (
	"time"

	"github.com/latifliving/storefront-backend/internal/app/service"
	"github.com/latifliving/storefront-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CartCleanupScheduler drops guest carts that have sat untouched past the
// configured TTL.
type CartCleanupScheduler struct {
	cron        *cron.Cron
	cartService service.CartService
	ttl         time.Duration
}

func NewCartCleanupScheduler(cartService service.CartService, ttl time.Duration) *CartCleanupScheduler {
	return &CartCleanupScheduler{
		cron:        cron.New(),
		cartService: cartService,
		ttl:         ttl,
	}
}

// Start schedules the purge to run every night at 03:00.
func (s *CartCleanupScheduler) Start() error {
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		logger.Info("Starting scheduled guest cart cleanup", map[string]interface{}{
			"ttl": s.ttl.String(),
		})

		purged, err := s.cartService.PurgeStaleGuestCarts(s.ttl)
		if err != nil {
			logger.Error("Failed to purge stale guest carts", err)
			return
		}

		logger.Info("Guest cart cleanup finished", map[string]interface{}{
			"purged": purged,
		})
	})

	if err != nil {
		logger.Error("Failed to add cron job for guest cart cleanup", err)
		return err
	}

	s.cron.Start()
	logger.Info("Guest cart cleanup scheduler started (daily at 3:00 AM)", nil)

	return nil
}

func (s *CartCleanupScheduler) Stop() {
	logger.Info("Stopping guest cart cleanup scheduler...", nil)
	s.cron.Stop()
	logger.Info("Guest cart cleanup scheduler stopped", nil)
}
