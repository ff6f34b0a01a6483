package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fjod/go_cart/pickup-service/internal/metrics"
	"github.com/fjod/go_cart/pickup-service/internal/sink"
	"github.com/fjod/go_cart/pickup-service/internal/store"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	sessions CartStores
	sink     sink.OrderSink
	metrics  *metrics.Metrics
	logger   *zap.Logger
	timeout  time.Duration
}

func NewCheckoutHandler(sessions CartStores, orderSink sink.OrderSink, m *metrics.Metrics, logger *zap.Logger, timeout time.Duration) *CheckoutHandler {
	if orderSink == nil {
		orderSink = sink.Multi{}
	}
	return &CheckoutHandler{
		sessions: sessions,
		sink:     orderSink,
		metrics:  m,
		logger:   logger,
		timeout:  timeout,
	}
}

type CheckoutResponseDTO struct {
	OrderID   string    `json:"order_id"`
	Total     float64   `json:"total"`
	ItemCount int       `json:"item_count"`
	Status    string    `json:"status"`
	PlacedAt  time.Time `json:"placed_at"`
}

// POST /api/v1/checkout
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	order, err := h.sessions.Get(sessionID).PlaceOrder(ctx)
	if err != nil {
		reason := "error"
		if errors.Is(err, store.ErrEmptyCart) {
			reason = "empty_cart"
		}
		h.metrics.CheckoutRejected.WithLabelValues(reason).Inc()
		handleError(w, err)
		return
	}

	h.metrics.ObserveOrder(order.Total)
	h.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("session_id", sessionID),
		zap.Float64("total", order.Total),
		zap.Int("item_count", order.ItemCount()),
		zap.String("request_id", getRequestID(r.Context())))

	// the order is placed; a sink failure is reported but does not fail the request
	sinkCtx, sinkCancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.timeout)
	defer sinkCancel()
	if errSink := h.sink.Record(sinkCtx, sessionID, order); errSink != nil {
		h.metrics.SinkFailures.Inc()
		h.logger.Error("failed to record placed order",
			zap.String("order_id", order.ID),
			zap.Error(errSink))
	}

	respondJSON(w, http.StatusCreated, CheckoutResponseDTO{
		OrderID:   order.ID,
		Total:     order.Total,
		ItemCount: order.ItemCount(),
		Status:    order.Status.String(),
		PlacedAt:  order.PlacedAt,
	})
}
