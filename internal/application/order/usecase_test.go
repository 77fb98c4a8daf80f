package order

import (
	"context"
	"errors"
	"fmt"
	"testing"

	domain "github.com/Zhima-Mochi/minishop-checkout/internal/domain/order"
	domoutbox "github.com/Zhima-Mochi/minishop-checkout/internal/domain/outbox"
	"github.com/Zhima-Mochi/minishop-checkout/internal/infrastructure/observability/telemetry/telemetrytest"
)

type seqIDs struct{ n int }

func (s *seqIDs) NewID() string {
	s.n++
	return fmt.Sprintf("order-%d", s.n)
}

type published struct{ events []domoutbox.Event }

func (p *published) publisher(err error) domoutbox.Publisher {
	return domoutbox.PublisherFunc(func(_ context.Context, e domoutbox.Event) error {
		if err != nil {
			return err
		}
		p.events = append(p.events, e)
		return nil
	})
}

var checkoutLines = []Line{
	{Name: "Keyboard", Quantity: 1, UnitPrice: 50},
	{Name: "SSD", Quantity: 1, UnitPrice: 150},
	{Name: "USB cable", Quantity: 2, UnitPrice: 5},
}

func TestCreateOrder(t *testing.T) {
	tel := telemetrytest.New(t)
	ids := &seqIDs{}
	pub := &published{}
	uc := NewCreateOrderUseCase(ids, pub.publisher(nil), tel)

	res, err := uc.Execute(context.Background(), CreateOrderInput{Lines: checkoutLines})
	if err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if res.Order.ID != "order-1" {
		t.Errorf("ID = %q, want order-1", res.Order.ID)
	}
	if res.Total != 210 || res.Order.TotalPrice() != 210 {
		t.Errorf("total = %v, want 210", res.Total)
	}
	if res.Order.Status() != domain.StatusOpen {
		t.Errorf("status = %s, want open", res.Order.Status())
	}
	if got := len(res.Order.Items()); got != 3 {
		t.Errorf("items = %d, want 3", got)
	}

	if len(pub.events) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.events))
	}
	evt, ok := pub.events[0].(domain.OrderCreatedEvent)
	if !ok {
		t.Fatalf("event type = %T", pub.events[0])
	}
	if evt.OrderID != "order-1" || evt.Items != 3 || evt.Total != 210 {
		t.Errorf("event = %+v", evt)
	}

	tel.RequireMetrics(t, `
# HELP usecase_requests_total Total number of use case invocations.
# TYPE usecase_requests_total counter
usecase_requests_total{outcome="success",use_case="order.create"} 1
# HELP external_requests_total Total number of calls to collaborators outside the use case.
# TYPE external_requests_total counter
external_requests_total{endpoint="order.created",outcome="success",peer="outbox"} 1
`, "usecase_requests_total", "external_requests_total")

	fields := tel.Only(t, "use_case_done")
	if fields["status"] != "OK" || fields["order_id"] != "order-1" || fields["service"] != orderService {
		t.Errorf("log fields = %v", fields)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	tests := []struct {
		name   string
		lines  []Line
		status string
	}{
		{"no lines", nil, "ITEMS_REQUIRED"},
		{"blank name", []Line{{Name: " ", Quantity: 1, UnitPrice: 1}}, "ITEM_NAME_REQUIRED"},
		{"zero quantity", []Line{{Name: "SSD", Quantity: 0, UnitPrice: 150}}, "QUANTITY_INVALID"},
		{"negative price", []Line{{Name: "SSD", Quantity: 1, UnitPrice: -1}}, "PRICE_INVALID"},
		{"bad line after good", append(append([]Line{}, checkoutLines...), Line{Name: "x", Quantity: -2}), "QUANTITY_INVALID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tel := telemetrytest.New(t)
			ids := &seqIDs{}
			pub := &published{}
			uc := NewCreateOrderUseCase(ids, pub.publisher(nil), tel)

			res, err := uc.Execute(context.Background(), CreateOrderInput{Lines: tt.lines})
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("Execute() error = %v, want validation", err)
			}
			if res != nil {
				t.Errorf("result = %+v, want nil", res)
			}
			if ids.n != 0 || len(pub.events) != 0 {
				t.Errorf("ids issued = %d, events = %d, want none", ids.n, len(pub.events))
			}
			if got := tel.Only(t, "use_case_done")["status"]; got != tt.status {
				t.Errorf("status = %v, want %s", got, tt.status)
			}
		})
	}
}

func TestCreateOrderPublishFailureKeepsOrder(t *testing.T) {
	tel := telemetrytest.New(t)
	uc := NewCreateOrderUseCase(&seqIDs{}, (&published{}).publisher(errors.New("bus closed")), tel)

	res, err := uc.Execute(context.Background(), CreateOrderInput{Lines: checkoutLines})
	if err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if res.Order == nil {
		t.Fatal("order is nil")
	}

	fields := tel.Only(t, "use_case_done")
	if fields["status"] != "EVENT_PUBLISH_FAILED" || fields["event_publish_error"] != "bus closed" {
		t.Errorf("log fields = %v", fields)
	}
	tel.RequireMetrics(t, `
# HELP external_requests_total Total number of calls to collaborators outside the use case.
# TYPE external_requests_total counter
external_requests_total{endpoint="order.created",outcome="error",peer="outbox"} 1
`, "external_requests_total")
}

func TestCreateOrderWithoutPublisher(t *testing.T) {
	uc := NewCreateOrderUseCase(&seqIDs{}, nil, nil)
	res, err := uc.Execute(context.Background(), CreateOrderInput{Lines: checkoutLines[:1]})
	if err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if res.Total != 50 {
		t.Errorf("total = %v, want 50", res.Total)
	}
}

func TestCreateOrderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	uc := NewCreateOrderUseCase(&seqIDs{}, nil, nil)
	if _, err := uc.Execute(ctx, CreateOrderInput{Lines: checkoutLines}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Execute() = %v, want context.Canceled", err)
	}
}

func TestOrdersDoNotShareItems(t *testing.T) {
	uc := NewCreateOrderUseCase(&seqIDs{}, nil, nil)
	a, _ := uc.Execute(context.Background(), CreateOrderInput{Lines: checkoutLines[:1]})
	b, _ := uc.Execute(context.Background(), CreateOrderInput{Lines: checkoutLines[1:2]})
	a.Order.AddItem("Mouse", 1, 20)

	if got := len(b.Order.Items()); got != 1 {
		t.Fatalf("second order items = %d, want 1", got)
	}
	if a.Order.ID == b.Order.ID {
		t.Fatal("orders share an id")
	}
}
