package domain

// Candidate is what a menu hands to the cart when the user taps "add".
type Candidate struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	ImageRef  string  `json:"image_ref,omitempty"`
}

// LineItem is one product entry in a cart. Quantity is never below 1.
type LineItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	ImageRef  string  `json:"image_ref,omitempty"`
}

// Subtotal returns unit price times quantity
func (l LineItem) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// NewLineItem creates a line item with quantity 1 from a candidate
func NewLineItem(c Candidate) LineItem {
	return LineItem{
		ID:        c.ID,
		Name:      c.Name,
		UnitPrice: c.UnitPrice,
		Quantity:  1,
		ImageRef:  c.ImageRef,
	}
}

// TotalPrice sums unit price times quantity over items
func TotalPrice(items []LineItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}

// ItemCount sums quantities over items
func ItemCount(items []LineItem) int {
	var count int
	for _, item := range items {
		count += item.Quantity
	}
	return count
}
