package realtime

import "agriai-be/internal/order"

// Event names are the wire contract with the dashboard and shop clients.
const (
	EventNewOrder         = "new_order"
	EventOrderUpdate      = "order_update"
	EventUserOrderUpdated = "user_order_updated"

	eventJoinAdminRoom  = "join_admin_room"
	eventJoinUserOrders = "join_user_orders"
)

type orderEvent struct {
	OrderID     uint         `json:"orderId"`
	OrderNumber string       `json:"orderNumber"`
	UserID      uint         `json:"userId"`
	Status      order.Status `json:"status"`
	Total       float64      `json:"total"`
}

type userOrderEvent struct {
	OrderID uint         `json:"orderId"`
	Status  order.Status `json:"status"`
}

// OrderCreated implements order.Notifier: new orders go to the admin room.
func (h *Hub) OrderCreated(o *order.Order) {
	h.Broadcast(AdminRoom, EventNewOrder, orderEvent{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		Status:      o.Status,
		Total:       o.Total,
	})
}

// OrderStatusChanged implements order.Notifier: the admin room sees every
// change, the owner's room only their own.
func (h *Hub) OrderStatusChanged(o *order.Order) {
	h.Broadcast(AdminRoom, EventOrderUpdate, orderEvent{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		Status:      o.Status,
		Total:       o.Total,
	})
	h.Broadcast(UserRoom(o.UserID), EventUserOrderUpdated, userOrderEvent{
		OrderID: o.ID,
		Status:  o.Status,
	})
}
