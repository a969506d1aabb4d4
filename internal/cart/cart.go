package cart

import "sync"

// Cart holds the mutable line items of one shopping session. Entries keep
// insertion order for display; at most one entry exists per product, and a
// quantity can never drop to zero or below without the entry being removed.
type Cart struct {
	mu    sync.Mutex
	items []*LineItem
	index map[uint]*LineItem
}

func New() *Cart {
	return &Cart{index: make(map[uint]*LineItem)}
}

// AddItem puts one unit of the product into the cart, incrementing the
// quantity when the product is already present. It always succeeds.
func (c *Cart) AddItem(p Product) {
	c.AddItemQty(p, 1)
}

// AddItemQty behaves like AddItem with an explicit quantity. Non-positive
// quantities are ignored.
func (c *Cart) AddItemQty(p Product, qty int) {
	if qty <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if item, ok := c.index[p.ID]; ok {
		item.Quantity += qty
		return
	}

	item := &LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  qty,
	}
	c.items = append(c.items, item)
	c.index[p.ID] = item
}

// ChangeQuantity adds delta to the item's quantity. A resulting quantity of
// zero or below removes the item entirely. Unknown products are a no-op.
func (c *Cart) ChangeQuantity(productID uint, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.index[productID]
	if !ok {
		return
	}

	item.Quantity += delta
	if item.Quantity <= 0 {
		c.removeLocked(productID)
	}
}

// RemoveItem deletes the product from the cart; no-op when absent.
func (c *Cart) RemoveItem(productID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(productID)
}

func (c *Cart) removeLocked(productID uint) {
	if _, ok := c.index[productID]; !ok {
		return
	}
	delete(c.index, productID)
	for i, item := range c.items {
		if item.ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Total folds unit price times quantity over all entries.
func (c *Cart) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total int64
	for _, item := range c.items {
		total += item.Subtotal()
	}
	return total
}

// Count returns the summed quantity over all entries (cart badge).
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int
	for _, item := range c.items {
		n += item.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no entries.
func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items) == 0
}

// Snapshot returns a deep copy of the current line items in insertion
// order. Checkout commits this snapshot, never the live cart, so that
// mutations during an in-flight payment cannot change what gets recorded.
func (c *Cart) Snapshot() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]LineItem, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, *item)
	}
	return out
}

// Clear empties the cart. Called only after a committed order.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.index = make(map[uint]*LineItem)
}
