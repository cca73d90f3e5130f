package jobs

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"swiftjobs/src/repository"
)

// Match asks the execution service to execute every pending order whose condition holds against the
// latest price of its stock, in ascending order id. A failed call is logged and matching continues.
// Nothing is written locally; the execution service marks orders executed.
func (j *Jobs) Match(ctx context.Context, log *logger.Entry) error {
	pending, err := repository.NewOrderRepository(j.db).FindPending(ctx)
	if err != nil {
		return dbError("load pending orders", err)
	}

	var eligible, executed, failed int
	for _, o := range pending {
		if !o.Eligible() {
			continue
		}
		eligible++

		if err := ctx.Err(); err != nil {
			return err
		}

		olog := log.WithFields(map[string]interface{}{
			"id_order":     o.IDOrder,
			"order_type":   o.OrderType,
			"sell":         o.IsSell(),
			"latest_price": o.LatestPrice.String(),
		})

		if err := j.executor.ExecuteOrder(ctx, o.IDOrder); err != nil {
			olog.WithError(err).Warn("Order could not be executed")
			failed++
			continue
		}
		olog.Debug("Order executed")
		executed++
	}

	if eligible == 0 {
		log.WithField("pending", len(pending)).Info("No orders to execute")
		return nil
	}

	log.WithFields(map[string]interface{}{
		"pending":  len(pending),
		"eligible": eligible,
		"executed": executed,
		"failed":   failed,
	}).Info("Order matching finished")

	return nil
}
