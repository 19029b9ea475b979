package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/CastellanosIvan/Sistema-D-Cobro/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the read-only interface for product data access.
// Only active products are visible through it.
type ProductRepository interface {
	ListByCategory(ctx context.Context, categoryID int64) ([]*domain.Product, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// ListByCategory retrieves the active products of a category ordered by name
func (r *productRepository) ListByCategory(ctx context.Context, categoryID int64) ([]*domain.Product, error) {
	query := `
		SELECT id, nombre, precio, categoria_id, activo
		FROM productos
		WHERE categoria_id = $1 AND activo = TRUE
		ORDER BY nombre ASC
	`

	rows, err := r.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product := &domain.Product{}
		err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Price,
			&product.CategoryID,
			&product.Active,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// FindByID retrieves an active product by ID using parameterized queries.
// Inactive products are reported as not found; they must never enter a ticket.
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT id, nombre, precio, categoria_id, activo
		FROM productos
		WHERE id = $1 AND activo = TRUE
	`

	product := &domain.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Price,
		&product.CategoryID,
		&product.Active,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}
