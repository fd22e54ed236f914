package jobs

import (
	"context"
	"time"

	config "github.com/anjiri1684/course_platform/configs"
	"github.com/anjiri1684/course_platform/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const jobTimeout = time.Minute

// ReportStalePendingOrders logs every order that is still waiting for capture
// after STALE_ORDER_AFTER so its gateway order can be reconciled by hand. It
// never changes order state. Returns the number of stale orders found.
func ReportStalePendingOrders() int {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	after := services.StaleOrderAge()

	orders, err := services.StalePendingOrders(ctx, time.Now().Add(-after))
	if err != nil {
		log.Error().Err(err).Msg("job ReportStalePendingOrders: failed to load pending orders")
		return 0
	}
	if len(orders) == 0 {
		log.Debug().Msg("job ReportStalePendingOrders: no stale orders")
		return 0
	}

	for _, order := range orders {
		log.Warn().
			Str("order_id", order.ID.String()).
			Str("gateway_order_id", order.GatewayOrderID).
			Str("user_id", order.UserID.String()).
			Time("order_date", order.OrderDate).
			Msg("order still awaiting capture")
	}
	log.Warn().Int("count", len(orders)).Dur("older_than", after).Msg("job ReportStalePendingOrders: stale pending orders found")
	return len(orders)
}

// Schedule registers every job on c.
func Schedule(c *cron.Cron) error {
	schedule := config.Config("STALE_ORDER_SCHEDULE")
	if _, err := c.AddFunc(schedule, func() { ReportStalePendingOrders() }); err != nil {
		return err
	}
	log.Info().Str("schedule", schedule).Msg("✅ Cron job for stale orders scheduled successfully")
	return nil
}
