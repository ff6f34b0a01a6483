package http

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/fjod/go_cart/pickup-service/internal/archive"
	"github.com/fjod/go_cart/pickup-service/internal/domain"
	"github.com/fjod/go_cart/pickup-service/internal/store"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type OrdersHandler struct {
	sessions CartStores
	history  OrderHistory // optional
	logger   *zap.Logger
	timeout  time.Duration
}

func NewOrdersHandler(sessions CartStores, history OrderHistory, logger *zap.Logger, timeout time.Duration) *OrdersHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrdersHandler{
		sessions: sessions,
		history:  history,
		logger:   logger,
		timeout:  timeout,
	}
}

type OrderResponseDTO struct {
	ID        string        `json:"id"`
	Items     []LineItemDTO `json:"items"`
	Total     float64       `json:"total"`
	ItemCount int           `json:"item_count"`
	Status    string        `json:"status"`
	PlacedAt  time.Time     `json:"placed_at"`
}

func convertOrder(o domain.Order) OrderResponseDTO {
	return OrderResponseDTO{
		ID:        o.ID,
		Items:     convertItems(o.Items),
		Total:     o.Total,
		ItemCount: o.ItemCount(),
		Status:    o.Status.String(),
		PlacedAt:  o.PlacedAt,
	}
}

// GET /api/v1/orders
// Orders still held by the session come first; archived orders of the same
// session that it no longer holds are merged in by placement time.
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	orders := h.sessions.Get(sessionID).Orders()

	if h.history != nil {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		archived, err := h.history.ListOrdersBySession(ctx, sessionID)
		if err != nil {
			// the in-memory history is still a valid answer
			h.logger.Warn("failed to list archived orders", zap.String("session_id", sessionID), zap.Error(err))
		} else {
			orders = mergeArchived(orders, archived)
		}
	}

	dtos := make([]OrderResponseDTO, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, convertOrder(o))
	}

	respondJSON(w, http.StatusOK, dtos)
}

func mergeArchived(orders []domain.Order, archived []*archive.ArchivedOrder) []domain.Order {
	known := make(map[string]struct{}, len(orders))
	for _, o := range orders {
		known[o.ID] = struct{}{}
	}

	merged := orders
	for _, a := range archived {
		if _, ok := known[a.ID]; ok {
			continue
		}
		merged = append(merged, a.Order)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PlacedAt.Before(merged[j].PlacedAt)
	})
	return merged
}

// GET /api/v1/orders/{order_id}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "missing_order_id", "order_id is required")
		return
	}

	sessionID := getSessionID(r.Context())
	order, err := h.sessions.Get(sessionID).Order(orderID)
	if errors.Is(err, store.ErrOrderNotFound) && h.history != nil {
		order, err = h.archivedOrder(r.Context(), sessionID, orderID)
	}
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, convertOrder(order))
}

// archivedOrder returns an archived order only to the session that placed it
func (h *OrdersHandler) archivedOrder(ctx context.Context, sessionID, orderID string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	archived, err := h.history.GetOrder(ctx, orderID)
	if errors.Is(err, archive.ErrOrderNotFound) {
		return domain.Order{}, store.ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	if archived.SessionID != sessionID {
		return domain.Order{}, store.ErrOrderNotFound
	}
	return archived.Order, nil
}
