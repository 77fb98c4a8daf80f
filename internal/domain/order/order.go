package order

import (
	"errors"
	"time"
)

var ErrAlreadyPaid = errors.New("order: already paid")

type Status string

const (
	StatusOpen Status = "open"
	StatusPaid Status = "paid"
)

// Item is a single order line.
type Item struct {
	Name      string
	Quantity  int
	UnitPrice float64
}

// Subtotal returns quantity times unit price.
func (i Item) Subtotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}

type Order struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	items  []Item
	status Status
}

// New returns an empty open order. Every order owns its item slice.
func New(id string) *Order {
	now := time.Now().UTC()
	return &Order{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
		status:    StatusOpen,
	}
}

// AddItem appends a line. Input is accepted as given; callers validate.
func (o *Order) AddItem(name string, quantity int, price float64) {
	o.items = append(o.items, Item{Name: name, Quantity: quantity, UnitPrice: price})
	o.touch()
}

func (o *Order) TotalPrice() float64 {
	var total float64
	for _, it := range o.items {
		total += it.Subtotal()
	}
	return total
}

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	out := make([]Item, len(o.items))
	copy(out, o.items)
	return out
}

func (o *Order) Status() Status { return o.status }

func (o *Order) IsPaid() bool { return o.status == StatusPaid }

// MarkPaid moves the order from open to paid. It is the only status mutation;
// a paid order stays paid and the call reports ErrAlreadyPaid.
func (o *Order) MarkPaid() error {
	if o.status == StatusPaid {
		return ErrAlreadyPaid
	}
	o.status = StatusPaid
	o.touch()
	return nil
}

func (o *Order) touch() {
	o.UpdatedAt = time.Now().UTC()
}
