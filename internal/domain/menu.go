package domain

import (
	"errors"
	"fmt"
	"strings"
)

// CategoryAll selects every menu item regardless of category.
const CategoryAll = "All"

var ErrInvalidMenuItem = errors.New("invalid menu item")

type MenuItem struct {
	ID          string  `bson:"_id" json:"id"`
	Name        string  `bson:"name" json:"name"`
	Description string  `bson:"description,omitempty" json:"description,omitempty"`
	UnitPrice   float64 `bson:"price" json:"unit_price"`
	ImageRef    string  `bson:"image,omitempty" json:"image_ref,omitempty"`
	Category    string  `bson:"category" json:"category"`
}

// Candidate converts a menu entry into the argument of AddItem
func (m MenuItem) Candidate() Candidate {
	return Candidate{
		ID:        m.ID,
		Name:      m.Name,
		UnitPrice: m.UnitPrice,
		ImageRef:  m.ImageRef,
	}
}

// Validate rejects entries that would put an unnamed or negatively priced line into a cart
func (m MenuItem) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidMenuItem)
	}
	if !(m.UnitPrice >= 0) {
		return fmt.Errorf("%w: %s: unit price must not be negative", ErrInvalidMenuItem, m.ID)
	}
	return nil
}
