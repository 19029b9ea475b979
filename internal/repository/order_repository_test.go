package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/CastellanosIvan/Sistema-D-Cobro/internal/domain"

	"github.com/shopspring/decimal"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func countRows(t *testing.T, table string) int {
	t.Helper()
	var n int
	if err := testDB.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("failed to count rows in %s: %v", table, err)
	}
	return n
}

func TestOrderCreate_PersistsHeaderAndDetailsAtomically(t *testing.T) {
	resetTables(t)
	drinks := seedCategory(t, "Bebidas")
	food := seedCategory(t, "Comidas")
	burger := seedProduct(t, "Hamburguesa", "10.00", food, true)
	soda := seedProduct(t, "Refresco", "5.50", drinks, true)

	order := &domain.Order{
		Total:         money("25.50"),
		PaymentMethod: domain.PaymentCash,
		Details: []domain.OrderDetail{
			{ProductID: burger, Quantity: 2, UnitPrice: money("10.00"), Subtotal: money("20.00")},
			{ProductID: soda, Quantity: 1, UnitPrice: money("5.50"), Subtotal: money("5.50")},
		},
	}

	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	orderID, err := repo.Create(ctx, order)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if orderID == 0 {
		t.Fatal("expected a store-generated order id")
	}

	// Read back through the repository and verify the invariants survived
	saved, err := repo.FindByID(ctx, orderID)
	if err != nil {
		t.Fatalf("failed to read order back: %v", err)
	}

	if !saved.Total.Equal(money("25.50")) {
		t.Errorf("total: got %s, expected 25.50", saved.Total)
	}
	if saved.PaymentMethod != domain.PaymentCash {
		t.Errorf("payment method: got %s, expected CASH", saved.PaymentMethod)
	}
	if len(saved.Details) != 2 {
		t.Fatalf("expected 2 detail rows, got %d", len(saved.Details))
	}

	// Details keep ticket order
	if saved.Details[0].ProductID != burger || saved.Details[1].ProductID != soda {
		t.Errorf("details out of order: %d, %d", saved.Details[0].ProductID, saved.Details[1].ProductID)
	}

	sum := decimal.Zero
	for _, d := range saved.Details {
		if !d.Subtotal.Equal(d.UnitPrice.Mul(decimal.NewFromInt(int64(d.Quantity)))) {
			t.Errorf("detail subtotal %s does not equal quantity x unit price", d.Subtotal)
		}
		sum = sum.Add(d.Subtotal)
	}
	if !sum.Equal(saved.Total) {
		t.Errorf("detail subtotals sum to %s, header says %s", sum, saved.Total)
	}
}

func TestOrderCreate_RollsBackOnDetailFailure(t *testing.T) {
	resetTables(t)
	drinks := seedCategory(t, "Bebidas")
	soda := seedProduct(t, "Refresco", "2.00", drinks, true)

	order := &domain.Order{
		Total:         money("4.00"),
		PaymentMethod: domain.PaymentCard,
		Details: []domain.OrderDetail{
			{ProductID: soda, Quantity: 1, UnitPrice: money("2.00"), Subtotal: money("2.00")},
			// Violates the producto_id foreign key mid-transaction
			{ProductID: 999999, Quantity: 1, UnitPrice: money("2.00"), Subtotal: money("2.00")},
		},
	}

	repo := NewOrderRepository(testDB)
	if _, err := repo.Create(context.Background(), order); err == nil {
		t.Fatal("expected checkout to fail on the broken detail row")
	}

	// All-or-nothing: neither the header nor the good detail row may remain
	if n := countRows(t, "pedidos"); n != 0 {
		t.Errorf("expected 0 order rows after rollback, found %d", n)
	}
	if n := countRows(t, "pedido_detalle"); n != 0 {
		t.Errorf("expected 0 detail rows after rollback, found %d", n)
	}
}

func TestOrderCreate_NotesArePersisted(t *testing.T) {
	resetTables(t)
	drinks := seedCategory(t, "Bebidas")
	water := seedProduct(t, "Agua mineral", "1.50", drinks, true)

	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	orderID, err := repo.Create(ctx, &domain.Order{
		Total:         money("1.50"),
		PaymentMethod: domain.PaymentOther,
		Notes:         "sin gas",
		Details: []domain.OrderDetail{
			{ProductID: water, Quantity: 1, UnitPrice: money("1.50"), Subtotal: money("1.50")},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	saved, err := repo.FindByID(ctx, orderID)
	if err != nil {
		t.Fatalf("failed to read order back: %v", err)
	}
	if saved.Notes != "sin gas" {
		t.Errorf("notes: got %q, expected %q", saved.Notes, "sin gas")
	}
}

func TestOrderFindByID_NotFound(t *testing.T) {
	resetTables(t)

	repo := NewOrderRepository(testDB)
	if _, err := repo.FindByID(context.Background(), 12345); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("got %v, expected ErrOrderNotFound", err)
	}
}

func TestOrderDailySummary(t *testing.T) {
	resetTables(t)
	drinks := seedCategory(t, "Bebidas")
	beer := seedProduct(t, "Cerveza", "3.50", drinks, true)

	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	charge := func(total string, method domain.PaymentMethod) {
		t.Helper()
		_, err := repo.Create(ctx, &domain.Order{
			Total:         money(total),
			PaymentMethod: method,
			Details: []domain.OrderDetail{
				{ProductID: beer, Quantity: 1, UnitPrice: money(total), Subtotal: money(total)},
			},
		})
		if err != nil {
			t.Fatalf("failed to create order: %v", err)
		}
	}

	charge("3.50", domain.PaymentCash)
	charge("7.00", domain.PaymentCash)
	charge("10.50", domain.PaymentCard)

	summary, err := repo.DailySummary(ctx, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.Orders != 3 {
		t.Errorf("orders: got %d, expected 3", summary.Orders)
	}
	if !summary.Revenue.Equal(money("21.00")) {
		t.Errorf("revenue: got %s, expected 21.00", summary.Revenue)
	}

	byMethod := map[domain.PaymentMethod]domain.MethodTotal{}
	for _, m := range summary.Methods {
		byMethod[m.Method] = m
	}
	if cash := byMethod[domain.PaymentCash]; cash.Orders != 2 || !cash.Revenue.Equal(money("10.50")) {
		t.Errorf("cash slice: got %d orders / %s", cash.Orders, cash.Revenue)
	}
	if card := byMethod[domain.PaymentCard]; card.Orders != 1 || !card.Revenue.Equal(money("10.50")) {
		t.Errorf("card slice: got %d orders / %s", card.Orders, card.Revenue)
	}
}
