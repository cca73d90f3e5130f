package repository

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"swiftjobs/src/model"
)

// pendingOrdersSQL joins every unexecuted order with its optional condition and the most recent
// tick of its stock. Orders whose stock has no tick yet drop out of the inner lateral join.
const pendingOrdersSQL = `SELECT o.id_order,
	o.id_stock,
	o.bs,
	o.order_type,
	oc.limit_price,
	oc.stop_price,
	sp.price AS latest_price
FROM orders o
LEFT JOIN orders_condition oc ON oc.id_order = o.id_order
JOIN LATERAL (
	SELECT p.price
	FROM stock_price p
	WHERE p.id_stock = o.id_stock
	ORDER BY p."date" DESC
	LIMIT 1
) sp ON TRUE
WHERE o.executed_at IS NULL
	AND o.executed_price_id IS NULL
ORDER BY o.id_order ASC`

// OrderRepository reads orders waiting for execution.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// FindPending returns all pending orders with their latest price, ordered by id.
func (r *OrderRepository) FindPending(ctx context.Context) ([]model.PendingOrder, error) {
	var orders []model.PendingOrder

	err := r.db.WithContext(ctx).Raw(pendingOrdersSQL).Scan(&orders).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "OrderRepository",
			"op":   "FindPending",
		}).WithError(err).Error("Failed to load pending orders")

		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"repo":    "OrderRepository",
		"op":      "FindPending",
		"pending": len(orders),
	}).Debug("Pending orders loaded")

	return orders, nil
}
