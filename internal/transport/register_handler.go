package transport

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/CastellanosIvan/Sistema-D-Cobro/internal/domain"
	"github.com/CastellanosIvan/Sistema-D-Cobro/internal/middleware"
	"github.com/CastellanosIvan/Sistema-D-Cobro/internal/repository"
	"github.com/CastellanosIvan/Sistema-D-Cobro/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AddLineRequest represents the add-to-ticket request payload
type AddLineRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

// CheckoutRequest represents the checkout request payload
type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
	Notes         string `json:"notes" validate:"max=500"`
}

// TicketLineView is the wire form of one ticket line
type TicketLineView struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

// TicketResponse is the current ticket with its running total
type TicketResponse struct {
	Lines []TicketLineView `json:"lines"`
	Total string           `json:"total"`
}

// CheckoutResponse is returned after a successful charge
type CheckoutResponse struct {
	OrderID int64  `json:"order_id"`
	Total   string `json:"total"`
}

// OrderDetailView is the wire form of one persisted order line
type OrderDetailView struct {
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

// OrderResponse is the wire form of a persisted order
type OrderResponse struct {
	ID            int64             `json:"id"`
	Total         string            `json:"total"`
	PaymentMethod string            `json:"payment_method"`
	Notes         string            `json:"notes,omitempty"`
	CreatedAt     string            `json:"created_at"`
	Details       []OrderDetailView `json:"details"`
}

// MethodTotalView is one payment-method slice of the daily report
type MethodTotalView struct {
	Method  string `json:"method"`
	Orders  int    `json:"orders"`
	Revenue string `json:"revenue"`
}

// DailyReportResponse aggregates one business day
type DailyReportResponse struct {
	Date    string            `json:"date"`
	Orders  int               `json:"orders"`
	Revenue string            `json:"revenue"`
	Methods []MethodTotalView `json:"methods"`
}

// RegisterHandler handles HTTP requests for the ticket and checkout
type RegisterHandler struct {
	registerService service.RegisterService
	logger          *zap.Logger
}

// NewRegisterHandler creates a new RegisterHandler
func NewRegisterHandler(registerService service.RegisterService, logger *zap.Logger) *RegisterHandler {
	return &RegisterHandler{
		registerService: registerService,
		logger:          logger,
	}
}

// RegisterRoutes registers the ticket, checkout and order routes
func (h *RegisterHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/ticket", h.GetTicket)
		r.Post("/ticket/lines", h.AddLine)
		r.Delete("/ticket/lines/{index}", h.RemoveLine)
		r.Delete("/ticket", h.ClearTicket)
		r.Post("/checkout", h.Checkout)
		r.Get("/orders/{id}", h.GetOrder)
		r.Get("/reports/daily", h.DailyReport)
	})
}

// GetTicket returns the current ticket lines and total
func (h *RegisterHandler) GetTicket(w http.ResponseWriter, r *http.Request) {
	lines, total := h.registerService.Ticket()
	middleware.RespondWithJSON(w, http.StatusOK, ticketResponse(lines, total))
}

// AddLine puts one unit of a product on the ticket
func (h *RegisterHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	var req AddLineRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Add line validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.registerService.AddProduct(r.Context(), req.ProductID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error("Failed to add product to ticket",
			zap.Int64("product_id", req.ProductID),
			zap.Error(err),
		)
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add product")
		return
	}

	lines, total := h.registerService.Ticket()
	middleware.RespondWithJSON(w, http.StatusOK, ticketResponse(lines, total))
}

// RemoveLine deletes the ticket line at the given index
func (h *RegisterHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid line index")
		return
	}

	if err := h.registerService.RemoveLine(index); err != nil {
		if errors.Is(err, domain.ErrLineOutOfRange) {
			middleware.RespondWithError(w, http.StatusNotFound, "no ticket line at that index")
			return
		}

		h.logger.Error("Failed to remove ticket line", zap.Int("index", index), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to remove line")
		return
	}

	lines, total := h.registerService.Ticket()
	middleware.RespondWithJSON(w, http.StatusOK, ticketResponse(lines, total))
}

// ClearTicket discards the in-progress ticket
func (h *RegisterHandler) ClearTicket(w http.ResponseWriter, r *http.Request) {
	h.registerService.ClearTicket()
	middleware.RespondWithJSON(w, http.StatusOK, TicketResponse{Lines: []TicketLineView{}, Total: "0.00"})
}

// Checkout charges the current ticket
func (h *RegisterHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Checkout validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.registerService.Checkout(r.Context(), req.PaymentMethod, req.Notes)
	if err != nil {
		middleware.RecordCheckout(false)

		switch {
		case errors.Is(err, domain.ErrInvalidPaymentMethod):
			middleware.RespondWithError(w, http.StatusBadRequest, "payment method must be one of CASH, CARD, OTHER")
		case errors.Is(err, domain.ErrEmptyTicket):
			middleware.RespondWithError(w, http.StatusUnprocessableEntity, "ticket has no lines")
		default:
			h.logger.Error("Checkout failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to save order")
		}
		return
	}

	middleware.RecordCheckout(true)
	h.logger.Info("Ticket charged",
		zap.Int64("order_id", result.OrderID),
		zap.String("total", result.Total.StringFixed(2)),
		zap.String("payment_method", req.PaymentMethod),
	)

	middleware.RespondWithJSON(w, http.StatusCreated, CheckoutResponse{
		OrderID: result.OrderID,
		Total:   result.Total.StringFixed(2),
	})
}

// GetOrder returns a persisted order with its detail rows
func (h *RegisterHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.registerService.Order(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}

		h.logger.Error("Failed to load order", zap.Int64("order_id", id), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load order")
		return
	}

	resp := OrderResponse{
		ID:            order.ID,
		Total:         order.Total.StringFixed(2),
		PaymentMethod: order.PaymentMethod.String(),
		Notes:         order.Notes,
		CreatedAt:     order.CreatedAt.UTC().Format(time.RFC3339),
		Details:       make([]OrderDetailView, 0, len(order.Details)),
	}
	for _, d := range order.Details {
		resp.Details = append(resp.Details, OrderDetailView{
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
			UnitPrice: d.UnitPrice.StringFixed(2),
			Subtotal:  d.Subtotal.StringFixed(2),
		})
	}

	middleware.RespondWithJSON(w, http.StatusOK, resp)
}

// DailyReport returns the end-of-day aggregate. Without a date parameter
// it reports on today.
func (h *RegisterHandler) DailyReport(w http.ResponseWriter, r *http.Request) {
	day := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}

	summary, err := h.registerService.DailyReport(r.Context(), day)
	if err != nil {
		h.logger.Error("Failed to build daily report", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build daily report")
		return
	}

	resp := DailyReportResponse{
		Date:    summary.Date,
		Orders:  summary.Orders,
		Revenue: summary.Revenue.StringFixed(2),
		Methods: make([]MethodTotalView, 0, len(summary.Methods)),
	}
	for _, m := range summary.Methods {
		resp.Methods = append(resp.Methods, MethodTotalView{
			Method:  m.Method.String(),
			Orders:  m.Orders,
			Revenue: m.Revenue.StringFixed(2),
		})
	}

	middleware.RespondWithJSON(w, http.StatusOK, resp)
}

func ticketResponse(lines []domain.TicketLine, total decimal.Decimal) TicketResponse {
	views := make([]TicketLineView, 0, len(lines))
	for _, line := range lines {
		views = append(views, TicketLineView{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice.StringFixed(2),
			Subtotal:  line.Subtotal.StringFixed(2),
		})
	}
	return TicketResponse{Lines: views, Total: total.StringFixed(2)}
}
