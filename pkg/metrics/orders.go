package metrics

import "github.com/prometheus/client_golang/prometheus"

// OrderMetrics counts order workflow outcomes.
type OrderMetrics struct {
	placed          prometheus.Counter
	sellerOrders    prometheus.Counter
	stockRejections prometheus.Counter
	cancelled       prometheus.Counter
	statusChanges   *prometheus.CounterVec
}

// NewOrderMetrics registers the order metrics on the provided registerer. A nil
// registerer yields a no-op recorder.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	m := &OrderMetrics{
		placed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Parent orders placed.",
		}),
		sellerOrders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seller_orders_created_total",
			Help:      "Seller orders produced by the order fan-out.",
		}),
		stockRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_stock_rejections_total",
			Help:      "Order placements rejected for insufficient stock.",
		}),
		cancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_cancelled_total",
			Help:      "Parent orders cancelled by customers.",
		}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seller_order_status_changes_total",
			Help:      "Seller order status transitions by target status.",
		}, []string{"status"}),
	}
	reg.MustRegister(m.placed, m.sellerOrders, m.stockRejections, m.cancelled, m.statusChanges)
	return m
}

// OrderPlaced records one parent order split into sellerOrders children.
func (m *OrderMetrics) OrderPlaced(sellerOrders int) {
	if m == nil || m.placed == nil {
		return
	}
	m.placed.Inc()
	m.sellerOrders.Add(float64(sellerOrders))
}

// StockRejected records a placement refused for insufficient stock.
func (m *OrderMetrics) StockRejected() {
	if m == nil || m.stockRejections == nil {
		return
	}
	m.stockRejections.Inc()
}

// OrderCancelled records a customer cancellation.
func (m *OrderMetrics) OrderCancelled() {
	if m == nil || m.cancelled == nil {
		return
	}
	m.cancelled.Inc()
}

// StatusChanged records a seller order moving to status.
func (m *OrderMetrics) StatusChanged(status string) {
	if m == nil || m.statusChanges == nil {
		return
	}
	m.statusChanges.WithLabelValues(normalizeLabel(status)).Inc()
}
