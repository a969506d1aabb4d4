package order

import (
	"time"

	"mystore-be/internal/cart"
)

type OrderStatus string

// A record is only ever written after an accepted verification, so
// CONFIRMED is the one status this system produces.
const StatusConfirmed OrderStatus = "CONFIRMED"

// OrderRecord is an immutable, per-identity ledger entry for a committed
// checkout. It is never updated or deleted.
type OrderRecord struct {
	ID             int64       `json:"id"`
	IdentityKey    string      `json:"-"`
	GatewayOrderID string      `json:"gateway_order_id"`
	PaymentID      string      `json:"payment_id"`
	Total          int64       `json:"total"`
	Currency       string      `json:"currency"`
	Status         OrderStatus `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
	Items          []OrderItem `json:"items"`
}

// OrderItem is the committed snapshot of one cart line.
type OrderItem struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// NewOrderParams carries everything the ledger needs to mint a record;
// id, timestamp and status are assigned by the ledger itself.
type NewOrderParams struct {
	GatewayOrderID string
	PaymentID      string
	Total          int64
	Items          []cart.LineItem
}

func itemsFromSnapshot(snapshot []cart.LineItem) []OrderItem {
	items := make([]OrderItem, 0, len(snapshot))
	for _, li := range snapshot {
		items = append(items, OrderItem{
			ProductID: li.ProductID,
			Name:      li.Name,
			UnitPrice: li.UnitPrice,
			Quantity:  li.Quantity,
		})
	}
	return items
}
