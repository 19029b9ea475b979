package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/CastellanosIvan/Sistema-D-Cobro/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository persists finalized tickets. Create is the only write in
// the system and is all-or-nothing: either the order header and every
// detail row land, or nothing does.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (int64, error)
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	DailySummary(ctx context.Context, day time.Time) (*domain.DailySummary, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order header and its detail rows inside a single
// transaction and returns the store-generated order id. Any failure rolls
// the whole transaction back; no partial rows remain.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin checkout transaction: %w", err)
	}
	defer tx.Rollback()

	headerQuery := `
		INSERT INTO pedidos (total, metodo_pago, observaciones)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	notes := sql.NullString{String: order.Notes, Valid: order.Notes != ""}

	var orderID int64
	err = tx.QueryRowContext(ctx, headerQuery, order.Total, order.PaymentMethod.String(), notes).Scan(&orderID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert order: %w", err)
	}

	detailQuery := `
		INSERT INTO pedido_detalle (pedido_id, producto_id, cantidad, precio_unitario, subtotal)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, detail := range order.Details {
		_, err = tx.ExecContext(ctx, detailQuery,
			orderID,
			detail.ProductID,
			detail.Quantity,
			detail.UnitPrice,
			detail.Subtotal,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert order detail: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit checkout transaction: %w", err)
	}

	return orderID, nil
}

// FindByID retrieves an order header with its detail rows in insertion order
func (r *orderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	headerQuery := `
		SELECT id, total, metodo_pago, observaciones, creado_en
		FROM pedidos
		WHERE id = $1
	`

	order := &domain.Order{}
	var notes sql.NullString
	err := r.db.QueryRowContext(ctx, headerQuery, id).Scan(
		&order.ID,
		&order.Total,
		&order.PaymentMethod,
		&notes,
		&order.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}
	order.Notes = notes.String

	detailQuery := `
		SELECT id, pedido_id, producto_id, cantidad, precio_unitario, subtotal
		FROM pedido_detalle
		WHERE pedido_id = $1
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, detailQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load order details: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		detail := domain.OrderDetail{}
		err := rows.Scan(
			&detail.ID,
			&detail.OrderID,
			&detail.ProductID,
			&detail.Quantity,
			&detail.UnitPrice,
			&detail.Subtotal,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order detail: %w", err)
		}
		order.Details = append(order.Details, detail)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order details: %w", err)
	}

	return order, nil
}

// DailySummary aggregates the orders created on the given day: order count,
// revenue and a per-payment-method breakdown.
func (r *orderRepository) DailySummary(ctx context.Context, day time.Time) (*domain.DailySummary, error) {
	summary := &domain.DailySummary{
		Date:    day.Format("2006-01-02"),
		Revenue: decimal.Zero,
	}

	query := `
		SELECT metodo_pago, COUNT(*), COALESCE(SUM(total), 0)
		FROM pedidos
		WHERE creado_en >= $1 AND creado_en < $2
		GROUP BY metodo_pago
		ORDER BY metodo_pago ASC
	`

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize orders: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		mt := domain.MethodTotal{}
		if err := rows.Scan(&mt.Method, &mt.Orders, &mt.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan order summary: %w", err)
		}
		summary.Methods = append(summary.Methods, mt)
		summary.Orders += mt.Orders
		summary.Revenue = summary.Revenue.Add(mt.Revenue)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order summary: %w", err)
	}

	return summary, nil
}
