package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyTicket    = errors.New("ticket has no lines")
	ErrLineOutOfRange = errors.New("ticket line index out of range")
)

// TicketLine is one line of the in-progress ticket. Name and UnitPrice are
// snapshots taken when the product was first added; later catalog changes
// do not affect lines already on the ticket.
type TicketLine struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Ticket accumulates the lines of the order being built at the register.
// Lines keep insertion order. A Ticket is not safe for concurrent use;
// the owning service serializes access.
type Ticket struct {
	lines []TicketLine
}

// NewTicket returns an empty ticket.
func NewTicket() *Ticket {
	return &Ticket{}
}

// AddProduct adds one unit of the product to the ticket. If a line for the
// same product id already exists its quantity is incremented and the
// subtotal recomputed from the snapshotted unit price; a duplicate line is
// never created.
func (t *Ticket) AddProduct(p *Product) {
	for i := range t.lines {
		if t.lines[i].ProductID == p.ID {
			t.lines[i].Quantity++
			t.lines[i].Subtotal = t.lines[i].UnitPrice.Mul(decimal.NewFromInt(int64(t.lines[i].Quantity)))
			return
		}
	}

	t.lines = append(t.lines, TicketLine{
		ProductID: p.ID,
		Name:      p.Name,
		Quantity:  1,
		UnitPrice: p.Price,
		Subtotal:  p.Price,
	})
}

// RemoveLine deletes the line at index. The ticket is left unchanged when
// index is outside [0, len).
func (t *Ticket) RemoveLine(index int) error {
	if index < 0 || index >= len(t.lines) {
		return ErrLineOutOfRange
	}
	t.lines = append(t.lines[:index], t.lines[index+1:]...)
	return nil
}

// Clear discards all lines. It always succeeds.
func (t *Ticket) Clear() {
	t.lines = nil
}

// Total returns the exact decimal sum of all line subtotals; zero for an
// empty ticket.
func (t *Ticket) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range t.lines {
		total = total.Add(line.Subtotal)
	}
	return total
}

// Lines returns a copy of the ticket lines in insertion order.
func (t *Ticket) Lines() []TicketLine {
	lines := make([]TicketLine, len(t.lines))
	copy(lines, t.lines)
	return lines
}

// Len returns the number of lines on the ticket.
func (t *Ticket) Len() int {
	return len(t.lines)
}

// Empty reports whether the ticket has no lines.
func (t *Ticket) Empty() bool {
	return len(t.lines) == 0
}
