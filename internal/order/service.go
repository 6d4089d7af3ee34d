package order

import (
	"context"
	"fmt"
	"math"

	"agriai-be/internal/logger"
	"agriai-be/internal/utils"

	"go.uber.org/zap"
)

// Notifier receives order lifecycle events after the write is durable. The
// realtime gateway implements it; emissions are fire-and-forget.
type Notifier interface {
	OrderCreated(o *Order)
	OrderStatusChanged(o *Order)
}

type ItemInput struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Category  string  `json:"category"`
	ImageURL  string  `json:"imageUrl"`
}

type CreateOrderInput struct {
	Items          []ItemInput    `json:"items"`
	ShippingInfo   ShippingInfo   `json:"shippingInfo"`
	ShippingMethod ShippingMethod `json:"shippingMethod"`
	PaymentMethod  string         `json:"paymentMethod"`
}

type Service interface {
	Create(ctx context.Context, userID uint, input CreateOrderInput) (*Order, error)
	Get(ctx context.Context, orderID, requesterID uint, isAdmin bool) (*Order, error)
	ListForUser(ctx context.Context, userID uint) ([]*Order, error)
	Cancel(ctx context.Context, orderID, userID uint) (*Order, error)
	ListAdmin(ctx context.Context, page, limit int, statusFilter string) (*Page, error)
	DashboardCounts(ctx context.Context) (*DashboardStats, error)
	ListRecent(ctx context.Context, limit int) ([]*Order, error)
	UpdateStatus(ctx context.Context, orderID uint, status Status) (*Order, error)
}

type service struct {
	repo     Repository
	notifier Notifier
}

func NewService(repo Repository, notifier Notifier) Service {
	return &service{repo: repo, notifier: notifier}
}

const orderNumberAttempts = 5

func (s *service) Create(ctx context.Context, userID uint, input CreateOrderInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Create"),
		zap.Uint("user_id", userID),
		zap.Int("item_count", len(input.Items)),
	)

	if userID == 0 {
		return nil, fmt.Errorf("%w: missing user", ErrInvalidInput)
	}
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: items are required", ErrInvalidInput)
	}
	if input.ShippingInfo.Address == "" {
		return nil, fmt.Errorf("%w: shipping info is required", ErrInvalidInput)
	}

	// Server-side recomputation is the source of truth; any client-supplied
	// totals are ignored.
	subtotal := 0.0
	items := make([]OrderItem, 0, len(input.Items))
	for _, in := range input.Items {
		if in.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
		}
		if in.Price <= 0 {
			return nil, fmt.Errorf("%w: price must be positive", ErrInvalidInput)
		}
		subtotal += in.Price * float64(in.Quantity)
		items = append(items, OrderItem{
			ProductID: in.ProductID,
			Name:      in.Name,
			Quantity:  in.Quantity,
			Price:     in.Price,
			Category:  in.Category,
			ImageURL:  in.ImageURL,
		})
	}

	number, err := s.uniqueOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	o := &Order{
		OrderNumber:    number,
		UserID:         userID,
		Items:          items,
		ShippingInfo:   input.ShippingInfo,
		ShippingMethod: input.ShippingMethod,
		PaymentMethod:  input.PaymentMethod,
		Subtotal:       subtotal,
		Total:          subtotal + input.ShippingMethod.Price,
		Status:         StatusPending,
	}

	if err := s.repo.CreateOrder(ctx, o); err != nil {
		log.Error("failed to create order", zap.Error(err))
		return nil, err
	}

	log.Info("order created",
		zap.String("order_number", o.OrderNumber),
		zap.Float64("total", o.Total),
	)

	if s.notifier != nil {
		s.notifier.OrderCreated(o)
	}
	return o, nil
}

func (s *service) uniqueOrderNumber(ctx context.Context) (string, error) {
	for i := 0; i < orderNumberAttempts; i++ {
		number := utils.GenerateOrderNumber()
		exists, err := s.repo.OrderNumberExists(ctx, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique order number")
}

func (s *service) Get(ctx context.Context, orderID, requesterID uint, isAdmin bool) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !isAdmin && o.UserID != requesterID {
		return nil, ErrForbidden
	}
	return o, nil
}

func (s *service) ListForUser(ctx context.Context, userID uint) ([]*Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Cancel(ctx context.Context, orderID, userID uint) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Cancel"),
		zap.Uint("order_id", orderID),
		zap.Uint("user_id", userID),
	)

	o, err := s.repo.GetByIDForUser(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}

	if !o.Status.Cancellable() {
		log.Warn("cancel rejected", zap.String("status", string(o.Status)))
		return nil, fmt.Errorf("%w: status is %s", ErrInvalidState, o.Status)
	}

	if err := s.repo.UpdateStatus(ctx, orderID, StatusCancelled); err != nil {
		log.Error("failed to cancel order", zap.Error(err))
		return nil, err
	}
	o.Status = StatusCancelled

	log.Info("order cancelled", zap.String("order_number", o.OrderNumber))

	if s.notifier != nil {
		s.notifier.OrderStatusChanged(o)
	}
	return o, nil
}

func (s *service) ListAdmin(ctx context.Context, page, limit int, statusFilter string) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var status Status
	if statusFilter != "" && statusFilter != "all" {
		status = Status(statusFilter)
	}

	total, err := s.repo.Count(ctx, status)
	if err != nil {
		return nil, err
	}

	orders, err := s.repo.List(ctx, status, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []*Order{}
	}

	return &Page{
		Orders:       orders,
		CurrentPage:  page,
		TotalPages:   int(math.Ceil(float64(total) / float64(limit))),
		TotalItems:   total,
		ItemsPerPage: limit,
	}, nil
}

func (s *service) DashboardCounts(ctx context.Context) (*DashboardStats, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		Pending:    counts[StatusPending],
		Processing: counts[StatusProcessing],
		Shipped:    counts[StatusShipped],
		Delivered:  counts[StatusDelivered],
		Cancelled:  counts[StatusCancelled],
	}
	stats.Total = stats.Pending + stats.Processing + stats.Shipped +
		stats.Delivered + stats.Cancelled
	return stats, nil
}

func (s *service) ListRecent(ctx context.Context, limit int) ([]*Order, error) {
	if limit < 1 {
		limit = 5
	}
	orders, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []*Order{}
	}
	return orders, nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID uint, status Status) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateStatus"),
		zap.Uint("order_id", orderID),
		zap.String("status", string(status)),
	)

	if !status.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, status)
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		log.Error("failed to update order status", zap.Error(err))
		return nil, err
	}
	o.Status = status

	log.Info("order status updated", zap.String("order_number", o.OrderNumber))

	if s.notifier != nil {
		s.notifier.OrderStatusChanged(o)
	}
	return o, nil
}
