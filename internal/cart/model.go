package cart

// Product is the catalog view of an item, as supplied by the caller.
// Price is in whole currency units (rupees); conversion to minor units
// happens only at the payment gateway boundary.
type Product struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// LineItem is one (product, quantity) entry in a cart.
type LineItem struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// Subtotal returns unit price times quantity for this line.
func (li LineItem) Subtotal() int64 {
	return li.UnitPrice * int64(li.Quantity)
}
