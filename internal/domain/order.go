package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a persisted, finalized ticket. The id is assigned by the store
// on insert. An order and its detail rows are written in a single
// transaction and never mutated afterwards.
type Order struct {
	ID            int64           `json:"id" db:"id"`
	Total         decimal.Decimal `json:"total" db:"total"`
	PaymentMethod PaymentMethod   `json:"payment_method" db:"metodo_pago"`
	Notes         string          `json:"notes,omitempty" db:"observaciones"`
	CreatedAt     time.Time       `json:"created_at" db:"creado_en"`
	Details       []OrderDetail   `json:"details"`
}

// OrderDetail is one persisted line of an order. UnitPrice and Subtotal
// are the snapshots carried over from the ticket line.
type OrderDetail struct {
	ID        int64           `json:"id" db:"id"`
	OrderID   int64           `json:"order_id" db:"pedido_id"`
	ProductID int64           `json:"product_id" db:"producto_id"`
	Quantity  int             `json:"quantity" db:"cantidad"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"precio_unitario"`
	Subtotal  decimal.Decimal `json:"subtotal" db:"subtotal"`
}

// NewOrderFromTicket assembles an unsaved order from the ticket's lines.
// The total is computed from the line subtotals so the persisted header
// always matches the sum of its detail rows.
func NewOrderFromTicket(t *Ticket, method PaymentMethod, notes string) (*Order, error) {
	if t.Empty() {
		return nil, ErrEmptyTicket
	}

	order := &Order{
		Total:         t.Total(),
		PaymentMethod: method,
		Notes:         notes,
	}
	for _, line := range t.Lines() {
		order.Details = append(order.Details, OrderDetail{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal,
		})
	}
	return order, nil
}

// DailySummary aggregates the orders of one business day.
type DailySummary struct {
	Date    string          `json:"date"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
	Methods []MethodTotal   `json:"methods"`
}

// MethodTotal is the per-payment-method slice of a daily summary.
type MethodTotal struct {
	Method  PaymentMethod   `json:"method"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}
