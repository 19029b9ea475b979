package domain

import (
	"github.com/shopspring/decimal"
)

// Category represents a product category in the catalog. Categories are
// maintained by an external catalog-management process; this service only
// reads them.
type Category struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"nombre"`
}

// Product represents a sellable item. Only active products are visible to
// the register.
type Product struct {
	ID         int64           `json:"id" db:"id"`
	Name       string          `json:"name" db:"nombre"`
	Price      decimal.Decimal `json:"price" db:"precio"`
	CategoryID int64           `json:"category_id" db:"categoria_id"`
	Active     bool            `json:"active" db:"activo"`
}
