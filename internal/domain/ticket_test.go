package domain

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

func testProduct(id int64) *Product {
	// id*0.25 gives every product a distinct exact price
	return &Product{
		ID:         id,
		Name:       fmt.Sprintf("product-%d", id),
		Price:      decimal.New(id*25, -2),
		CategoryID: 1,
		Active:     true,
	}
}

// For all sequences of adds there is exactly one line per distinct product
// id, its quantity equals the number of adds for that id, and lines keep
// first-seen order.
func TestProperty_AddProductMergesLines(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("one line per distinct product id with merged quantity", prop.ForAll(
		func(ids []int64) bool {
			ticket := NewTicket()
			counts := map[int64]int{}
			firstSeen := []int64{}

			for _, id := range ids {
				if counts[id] == 0 {
					firstSeen = append(firstSeen, id)
				}
				counts[id]++
				ticket.AddProduct(testProduct(id))
			}

			lines := ticket.Lines()
			if len(lines) != len(firstSeen) {
				t.Logf("FAIL: expected %d lines, got %d", len(firstSeen), len(lines))
				return false
			}

			for i, id := range firstSeen {
				line := lines[i]
				if line.ProductID != id {
					t.Logf("FAIL: line %d has product %d, expected %d", i, line.ProductID, id)
					return false
				}
				if line.Quantity != counts[id] {
					t.Logf("FAIL: product %d has quantity %d, expected %d", id, line.Quantity, counts[id])
					return false
				}
				want := line.UnitPrice.Mul(decimal.NewFromInt(int64(counts[id])))
				if !line.Subtotal.Equal(want) {
					t.Logf("FAIL: product %d subtotal %s, expected %s", id, line.Subtotal, want)
					return false
				}
			}

			return true
		},
		gen.SliceOf(gen.Int64Range(1, 8)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// The ticket total always equals the exact decimal sum of its line
// subtotals, for any sequence of adds and removals.
func TestProperty_TotalEqualsSumOfSubtotals(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("total is the exact sum of line subtotals", prop.ForAll(
		func(ids []int64, removals []int) bool {
			ticket := NewTicket()
			for _, id := range ids {
				ticket.AddProduct(testProduct(id))
			}
			for _, idx := range removals {
				// Out-of-range removals must be rejected and change nothing
				before := ticket.Lines()
				if err := ticket.RemoveLine(idx); err != nil {
					after := ticket.Lines()
					if len(before) != len(after) {
						t.Logf("FAIL: failed removal mutated the ticket")
						return false
					}
				}
			}

			want := decimal.Zero
			for _, line := range ticket.Lines() {
				want = want.Add(line.Subtotal)
			}

			if !ticket.Total().Equal(want) {
				t.Logf("FAIL: total %s, expected %s", ticket.Total(), want)
				return false
			}
			return true
		},
		gen.SliceOf(gen.Int64Range(1, 8)),
		gen.SliceOf(gen.IntRange(-2, 12)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestTicketScenario_MergeAndTotal(t *testing.T) {
	a := &Product{ID: 1, Name: "Hamburguesa", Price: decimal.RequireFromString("10.00"), CategoryID: 1, Active: true}
	b := &Product{ID: 2, Name: "Refresco", Price: decimal.RequireFromString("5.50"), CategoryID: 2, Active: true}

	ticket := NewTicket()
	ticket.AddProduct(a)
	ticket.AddProduct(a)
	ticket.AddProduct(b)

	lines := ticket.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	if lines[0].Quantity != 2 || lines[0].Subtotal.StringFixed(2) != "20.00" {
		t.Errorf("line A: got quantity %d subtotal %s, expected 2 / 20.00", lines[0].Quantity, lines[0].Subtotal)
	}
	if lines[1].Quantity != 1 || lines[1].Subtotal.StringFixed(2) != "5.50" {
		t.Errorf("line B: got quantity %d subtotal %s, expected 1 / 5.50", lines[1].Quantity, lines[1].Subtotal)
	}
	if got := ticket.Total().StringFixed(2); got != "25.50" {
		t.Errorf("total: got %s, expected 25.50", got)
	}
}

func TestTicket_PriceIsSnapshottedAtAddTime(t *testing.T) {
	ticket := NewTicket()
	ticket.AddProduct(&Product{ID: 1, Name: "Cerveza", Price: decimal.RequireFromString("3.50"), Active: true})

	// A later catalog price change must not touch the existing line
	ticket.AddProduct(&Product{ID: 1, Name: "Cerveza", Price: decimal.RequireFromString("99.99"), Active: true})

	lines := ticket.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].UnitPrice.StringFixed(2) != "3.50" {
		t.Errorf("unit price: got %s, expected snapshotted 3.50", lines[0].UnitPrice)
	}
	if lines[0].Subtotal.StringFixed(2) != "7.00" {
		t.Errorf("subtotal: got %s, expected 7.00", lines[0].Subtotal)
	}
}

func TestTicket_RemoveLine(t *testing.T) {
	ticket := NewTicket()
	ticket.AddProduct(testProduct(1))
	ticket.AddProduct(testProduct(2))
	ticket.AddProduct(testProduct(3))

	if err := ticket.RemoveLine(1); err != nil {
		t.Fatalf("unexpected error removing line: %v", err)
	}

	lines := ticket.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines after removal, got %d", len(lines))
	}
	if lines[0].ProductID != 1 || lines[1].ProductID != 3 {
		t.Errorf("remaining lines out of order: %d, %d", lines[0].ProductID, lines[1].ProductID)
	}
}

func TestTicket_RemoveLineOutOfRange(t *testing.T) {
	ticket := NewTicket()
	ticket.AddProduct(testProduct(1))

	for _, idx := range []int{-1, 1, 42} {
		if err := ticket.RemoveLine(idx); err != ErrLineOutOfRange {
			t.Errorf("index %d: got %v, expected ErrLineOutOfRange", idx, err)
		}
	}
	if ticket.Len() != 1 {
		t.Errorf("failed removals must leave the ticket unchanged, got %d lines", ticket.Len())
	}
}

func TestTicket_ClearAndEmptyTotal(t *testing.T) {
	ticket := NewTicket()
	if !ticket.Total().Equal(decimal.Zero) {
		t.Errorf("empty ticket total: got %s, expected 0", ticket.Total())
	}

	ticket.AddProduct(testProduct(1))
	ticket.AddProduct(testProduct(2))
	ticket.Clear()

	if !ticket.Empty() {
		t.Error("ticket not empty after Clear")
	}
	if got := ticket.Total().StringFixed(2); got != "0.00" {
		t.Errorf("cleared ticket total: got %s, expected 0.00", got)
	}
}
