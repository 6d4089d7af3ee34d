package order

import "time"

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every valid order status, in lifecycle order.
var Statuses = []Status{
	StatusPending,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Cancellable reports whether an order in this status may still be
// cancelled. Once shipped or delivered it may not.
func (s Status) Cancellable() bool {
	return s == StatusPending || s == StatusProcessing
}

type Order struct {
	ID             uint           `json:"id"`
	OrderNumber    string         `json:"orderNumber"`
	UserID         uint           `json:"userId"`
	Items          []OrderItem    `json:"items"`
	ShippingInfo   ShippingInfo   `json:"shippingInfo"`
	ShippingMethod ShippingMethod `json:"shippingMethod"`
	PaymentMethod  string         `json:"paymentMethod"`
	Subtotal       float64        `json:"subtotal"`
	Total          float64        `json:"total"`
	Status         Status         `json:"status"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

type OrderItem struct {
	ID        uint    `json:"id"`
	OrderID   uint    `json:"orderId"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Category  string  `json:"category"`
	ImageURL  string  `json:"imageUrl"`
}

// ShippingInfo is a snapshot of the delivery address at checkout time; later
// edits to the user's saved addresses never touch past orders.
type ShippingInfo struct {
	FullName   string `json:"fullName"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

type ShippingMethod struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// DashboardStats aggregates order counts per status for the admin dashboard.
// Total always equals the sum of the five status counts.
type DashboardStats struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Shipped    int64 `json:"shipped"`
	Delivered  int64 `json:"delivered"`
	Cancelled  int64 `json:"cancelled"`
	Total      int64 `json:"total"`
}

// Page is one page of the admin order listing plus pagination metadata.
type Page struct {
	Orders       []*Order `json:"orders"`
	CurrentPage  int      `json:"currentPage"`
	TotalPages   int      `json:"totalPages"`
	TotalItems   int64    `json:"totalItems"`
	ItemsPerPage int      `json:"itemsPerPage"`
}
