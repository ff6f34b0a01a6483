package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fjod/go_cart/pickup-service/internal/domain"
	"github.com/fjod/go_cart/pickup-service/internal/store"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	sessions CartStores
	catalog  MenuCatalog
	timeout  time.Duration
}

func NewCartHandler(sessions CartStores, catalog MenuCatalog, timeout time.Duration) *CartHandler {
	return &CartHandler{
		sessions: sessions,
		catalog:  catalog,
		timeout:  timeout,
	}
}

type AddItemRequestDTO struct {
	MenuItemID string `json:"menu_item_id"`
}

type UpdateQuantityRequestDTO struct {
	Quantity *int `json:"quantity"`
}

type LineItemDTO struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
	ImageRef  string  `json:"image_ref,omitempty"`
}

type CartResponseDTO struct {
	Items      []LineItemDTO `json:"items"`
	TotalPrice float64       `json:"total_price"`
	ItemCount  int           `json:"item_count"`
}

func convertItems(items []domain.LineItem) []LineItemDTO {
	dtos := make([]LineItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, LineItemDTO{
			ID:        item.ID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal(),
			ImageRef:  item.ImageRef,
		})
	}
	return dtos
}

func cartResponse(s *store.CartStore) CartResponseDTO {
	items, total, count := s.Summary()
	return CartResponseDTO{
		Items:      convertItems(items),
		TotalPrice: total,
		ItemCount:  count,
	}
}

func (h *CartHandler) cartStore(r *http.Request) *store.CartStore {
	return h.sessions.Get(getSessionID(r.Context()))
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, cartResponse(h.cartStore(r)))
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.MenuItemID == "" {
		respondError(w, http.StatusBadRequest, "invalid_menu_item_id", "menu_item_id is required")
		return
	}

	// prices come from the catalog, never from the client
	item, err := h.catalog.Item(ctx, req.MenuItemID)
	if err != nil {
		handleError(w, err)
		return
	}

	s := h.cartStore(r)
	s.AddItem(item.Candidate())

	respondJSON(w, http.StatusCreated, cartResponse(s))
}

// POST /api/v1/cart/items/{item_id}/increment
func (h *CartHandler) IncrementQuantity(w http.ResponseWriter, r *http.Request) {
	s := h.cartStore(r)
	s.IncrementQuantity(chi.URLParam(r, "item_id"))
	respondJSON(w, http.StatusOK, cartResponse(s))
}

// POST /api/v1/cart/items/{item_id}/decrement
func (h *CartHandler) DecrementQuantity(w http.ResponseWriter, r *http.Request) {
	s := h.cartStore(r)
	s.DecrementQuantity(chi.URLParam(r, "item_id"))
	respondJSON(w, http.StatusOK, cartResponse(s))
}

// PUT /api/v1/cart/items/{item_id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity == nil {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity is required")
		return
	}

	s := h.cartStore(r)
	s.SetQuantity(chi.URLParam(r, "item_id"), *req.Quantity)
	respondJSON(w, http.StatusOK, cartResponse(s))
}

// DELETE /api/v1/cart/items/{item_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	s := h.cartStore(r)
	s.RemoveItem(chi.URLParam(r, "item_id"))
	respondJSON(w, http.StatusOK, cartResponse(s))
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	s := h.cartStore(r)
	s.ClearCart()
	respondJSON(w, http.StatusOK, cartResponse(s))
}
