package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/CastellanosIvan/Sistema-D-Cobro/internal/domain"
	"github.com/CastellanosIvan/Sistema-D-Cobro/internal/repository"

	"github.com/shopspring/decimal"
)

// CheckoutResult is what the operator sees after a successful charge.
type CheckoutResult struct {
	OrderID int64
	Total   decimal.Decimal
}

// RegisterService is the business surface of the single register: catalog
// browsing, ticket construction and checkout.
type RegisterService interface {
	Categories(ctx context.Context) ([]*domain.Category, error)
	Products(ctx context.Context, categoryID int64) ([]*domain.Product, error)
	Ticket() ([]domain.TicketLine, decimal.Decimal)
	AddProduct(ctx context.Context, productID int64) error
	RemoveLine(index int) error
	ClearTicket()
	Checkout(ctx context.Context, paymentMethod, notes string) (*CheckoutResult, error)
	Order(ctx context.Context, id int64) (*domain.Order, error)
	DailyReport(ctx context.Context, day time.Time) (*domain.DailySummary, error)
}

type registerService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	orderRepo    repository.OrderRepository

	// The one live ticket. The HTTP listener is concurrent, so access is
	// serialized here; the domain Ticket itself is not goroutine-safe.
	mu     sync.Mutex
	ticket *domain.Ticket
}

// NewRegisterService creates a new instance of RegisterService with an
// empty ticket.
func NewRegisterService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
) RegisterService {
	return &registerService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		orderRepo:    orderRepo,
		ticket:       domain.NewTicket(),
	}
}

// Categories lists the selectable categories
func (s *registerService) Categories(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	return categories, nil
}

// Products lists the active products of a category. An unknown category is
// reported as ErrCategoryNotFound rather than an empty listing.
func (s *registerService) Products(ctx context.Context, categoryID int64) ([]*domain.Product, error) {
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return nil, err
	}

	products, err := s.productRepo.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return products, nil
}

// Ticket returns the current lines and total for display
func (s *registerService) Ticket() ([]domain.TicketLine, decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticket.Lines(), s.ticket.Total()
}

// AddProduct snapshots the product's name and price and puts one unit on
// the ticket, merging into an existing line for the same product.
func (s *registerService) AddProduct(ctx context.Context, productID int64) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticket.AddProduct(product)
	return nil
}

// RemoveLine deletes the ticket line at index
func (s *registerService) RemoveLine(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticket.RemoveLine(index)
}

// ClearTicket discards the in-progress ticket
func (s *registerService) ClearTicket() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticket.Clear()
}

// Checkout validates the payment method, persists the ticket atomically
// and clears it on success. Validation failures happen before any store
// I/O; a persistence failure leaves the ticket untouched so the operator
// can retry.
func (s *registerService) Checkout(ctx context.Context, paymentMethod, notes string) (*CheckoutResult, error) {
	method, err := domain.ParsePaymentMethod(paymentMethod)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := domain.NewOrderFromTicket(s.ticket, method, notes)
	if err != nil {
		return nil, err
	}

	orderID, err := s.orderRepo.Create(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	s.ticket.Clear()

	return &CheckoutResult{OrderID: orderID, Total: order.Total}, nil
}

// Order retrieves a persisted order with its detail rows
func (s *registerService) Order(ctx context.Context, id int64) (*domain.Order, error) {
	return s.orderRepo.FindByID(ctx, id)
}

// DailyReport aggregates the orders of one business day
func (s *registerService) DailyReport(ctx context.Context, day time.Time) (*domain.DailySummary, error) {
	summary, err := s.orderRepo.DailySummary(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to build daily report: %w", err)
	}
	return summary, nil
}
