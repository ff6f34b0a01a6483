package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/go_cart/pickup-service/internal/domain"
)

type MenuHandler struct {
	catalog MenuCatalog
	timeout time.Duration
}

func NewMenuHandler(catalog MenuCatalog, timeout time.Duration) *MenuHandler {
	return &MenuHandler{
		catalog: catalog,
		timeout: timeout,
	}
}

type MenuResponse struct {
	Category string            `json:"category"`
	Query    string            `json:"query,omitempty"`
	Items    []domain.MenuItem `json:"items"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// GET /api/v1/menu?category=&q=
func (h *MenuHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	category := r.URL.Query().Get("category")
	if category == "" {
		category = domain.CategoryAll
	}

	query := r.URL.Query().Get("q")

	items, err := h.catalog.Menu(ctx, category, query)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, MenuResponse{Category: category, Query: query, Items: items})
}

// GET /api/v1/menu/categories
func (h *MenuHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	categories, err := h.catalog.Categories(ctx)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CategoriesResponse{Categories: categories})
}
