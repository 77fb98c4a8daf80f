package order

import "time"

// OrderCreatedEvent is emitted once an order has been assembled and priced.
type OrderCreatedEvent struct {
	OrderID    string
	Items      int
	Total      float64
	OccurredAt time.Time
}

func (OrderCreatedEvent) EventName() string { return "order.created" }

func NewOrderCreatedEvent(o *Order) OrderCreatedEvent {
	return OrderCreatedEvent{
		OrderID:    o.ID,
		Items:      len(o.items),
		Total:      o.TotalPrice(),
		OccurredAt: time.Now().UTC(),
	}
}
