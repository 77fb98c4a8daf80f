package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/Zhima-Mochi/minishop-checkout/internal/domain/auth"
	"github.com/Zhima-Mochi/minishop-checkout/internal/domain/order"
	domoutbox "github.com/Zhima-Mochi/minishop-checkout/internal/domain/outbox"
)

type recorder struct {
	events []PaymentProcessedEvent
	err    error
}

func (r *recorder) Publish(_ context.Context, e domoutbox.Event) error {
	if r.err != nil {
		return r.err
	}
	if evt, ok := e.(PaymentProcessedEvent); ok {
		r.events = append(r.events, evt)
	}
	return nil
}

func newCheckoutOrder(id string) *order.Order {
	o := order.New(id)
	o.AddItem("Keyboard", 1, 50)
	o.AddItem("SSD", 1, 150)
	o.AddItem("USB Cable", 2, 5)
	return o
}

func TestDebitRequiresAuthorization(t *testing.T) {
	ctx := context.Background()
	authorizer := auth.NewSMSAuthorizer()
	rec := &recorder{}
	p, err := NewDebitProcessor("123456", authorizer, WithRecorder(rec))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	o := newCheckoutOrder("o-1")

	err = p.Pay(ctx, o)
	var authErr *AuthorizationError
	if !errors.As(err, &authErr) {
		t.Fatalf("Pay() before authorization = %v, want *AuthorizationError", err)
	}
	if authErr.Method != MethodDebit {
		t.Errorf("AuthorizationError.Method = %s, want debit", authErr.Method)
	}
	if !IsNotAuthorized(err) {
		t.Errorf("errors.Is(err, ErrNotAuthorized) = false")
	}
	if o.Status() != order.StatusOpen {
		t.Fatalf("status: got %s want open", o.Status())
	}
	if len(rec.events) != 0 {
		t.Fatalf("recorded %d events for a rejected payment", len(rec.events))
	}

	authorizer.VerifyCode("12345")
	if err := p.Pay(ctx, o); err != nil {
		t.Fatalf("Pay() after authorization: %v", err)
	}
	if o.Status() != order.StatusPaid {
		t.Fatalf("status: got %s want paid", o.Status())
	}
	if len(rec.events) != 1 {
		t.Fatalf("recorded %d events, want 1", len(rec.events))
	}
	got := rec.events[0]
	if got.Method != MethodDebit || got.Credential != "****56" || got.OrderID != "o-1" || got.Amount != 210 {
		t.Errorf("record = %+v", got)
	}
}

func TestSharedAuthorizerUnblocksEveryProcessor(t *testing.T) {
	ctx := context.Background()
	authorizer := auth.NewSMSAuthorizer()

	debit, err := NewDebitProcessor("123456", authorizer)
	if err != nil {
		t.Fatalf("debit: %v", err)
	}
	paypal, err := NewPaypalProcessor("quaerendo@invenietis.com", authorizer)
	if err != nil {
		t.Fatalf("paypal: %v", err)
	}

	authorizer.VerifyCode("12345")

	for name, p := range map[string]Processor{"debit": debit, "paypal": paypal} {
		o := newCheckoutOrder(name)
		if err := p.Pay(ctx, o); err != nil {
			t.Errorf("%s: Pay() = %v", name, err)
		}
		if !o.IsPaid() {
			t.Errorf("%s: order not paid", name)
		}
	}
}

func TestPaypalWithNotARobot(t *testing.T) {
	ctx := context.Background()
	authorizer := auth.NewNotARobotAuthorizer()
	rec := &recorder{}
	p, err := NewPaypalProcessor("quaerendo@invenietis.com", authorizer, WithRecorder(rec))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	o := newCheckoutOrder("o-2")

	if err := p.Pay(ctx, o); !IsNotAuthorized(err) {
		t.Fatalf("Pay() before ConfirmHuman = %v, want not authorized", err)
	}
	authorizer.ConfirmHuman()
	if err := p.Pay(ctx, o); err != nil {
		t.Fatalf("Pay() after ConfirmHuman: %v", err)
	}
	if len(rec.events) != 1 || rec.events[0].Credential != "q********@invenietis.com" {
		t.Fatalf("records = %+v", rec.events)
	}
}

func TestCreditNeverRequiresAuthorization(t *testing.T) {
	ctx := context.Background()
	p, err := NewCreditProcessor("78910")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	o := newCheckoutOrder("o-3")
	if err := p.Pay(ctx, o); err != nil {
		t.Fatalf("Pay() = %v", err)
	}
	if !o.IsPaid() {
		t.Fatal("order not paid")
	}
}

func TestPayRejectsPaidOrder(t *testing.T) {
	ctx := context.Background()
	authorizer := auth.NewSMSAuthorizer()
	authorizer.VerifyCode("1")
	rec := &recorder{}

	debit, _ := NewDebitProcessor("123456", authorizer, WithRecorder(rec))
	credit, _ := NewCreditProcessor("78910", WithRecorder(rec))
	paypal, _ := NewPaypalProcessor("a@b.c", authorizer, WithRecorder(rec))

	o := newCheckoutOrder("o-4")
	if err := debit.Pay(ctx, o); err != nil {
		t.Fatalf("first Pay() = %v", err)
	}

	for name, p := range map[string]Processor{"debit": debit, "credit": credit, "paypal": paypal} {
		if err := p.Pay(ctx, o); !errors.Is(err, order.ErrAlreadyPaid) {
			t.Errorf("%s: second Pay() = %v, want ErrAlreadyPaid", name, err)
		}
	}
	if len(rec.events) != 1 {
		t.Fatalf("recorded %d events, want 1", len(rec.events))
	}
	if o.Status() != order.StatusPaid {
		t.Fatalf("status: got %s want paid", o.Status())
	}
}

func TestRecorderFailureLeavesOrderOpen(t *testing.T) {
	boom := errors.New("sink down")
	p, err := NewCreditProcessor("78910", WithRecorder(&recorder{err: boom}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	o := newCheckoutOrder("o-5")

	if err := p.Pay(context.Background(), o); !errors.Is(err, boom) {
		t.Fatalf("Pay() = %v, want wrapped sink error", err)
	}
	if o.Status() != order.StatusOpen {
		t.Fatalf("status: got %s want open", o.Status())
	}
}

func TestPayNilOrder(t *testing.T) {
	a := auth.NewSMSAuthorizer()
	a.VerifyCode("1")
	debit, _ := NewDebitProcessor("1", a)
	credit, _ := NewCreditProcessor("1")
	paypal, _ := NewPaypalProcessor("x@y.z", a)

	for name, p := range map[string]Processor{"debit": debit, "credit": credit, "paypal": paypal} {
		if err := p.Pay(context.Background(), nil); !errors.Is(err, ErrNilOrder) {
			t.Errorf("%s: Pay(nil) = %v, want ErrNilOrder", name, err)
		}
	}
}

func TestConstructorsValidate(t *testing.T) {
	a := auth.NewSMSAuthorizer()
	tests := []struct {
		name  string
		build func() error
		want  error
	}{
		{"debit empty code", func() error { _, err := NewDebitProcessor(" ", a); return err }, ErrInvalidCredential},
		{"debit nil authorizer", func() error { _, err := NewDebitProcessor("1", nil); return err }, ErrAuthorizerRequired},
		{"credit empty code", func() error { _, err := NewCreditProcessor(""); return err }, ErrInvalidCredential},
		{"paypal empty email", func() error { _, err := NewPaypalProcessor("", a); return err }, ErrInvalidCredential},
		{"paypal nil authorizer", func() error { _, err := NewPaypalProcessor("x@y.z", nil); return err }, ErrAuthorizerRequired},
		{"debit ok", func() error { _, err := NewDebitProcessor("1", a); return err }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.build(); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	if got := (&AuthorizationError{Method: MethodPaypal}).Error(); got != "payment: paypal: not authorized" {
		t.Errorf("AuthorizationError.Error() = %q", got)
	}
	err := &UnsupportedOperationError{Method: MethodCredit, Op: "sms verification"}
	if got := err.Error(); got != "payment: credit: sms verification not supported" {
		t.Errorf("UnsupportedOperationError.Error() = %q", got)
	}
	if !IsUnsupported(err) {
		t.Error("IsUnsupported() = false")
	}
}

func TestTypedNilAuthorizerRefusesPayment(t *testing.T) {
	debit, err := NewDebitProcessor("123456", (*auth.SMSAuthorizer)(nil))
	if err != nil {
		t.Fatalf("debit: %v", err)
	}
	paypal, err := NewPaypalProcessor("quaerendo@invenietis.com", (*auth.NotARobotAuthorizer)(nil))
	if err != nil {
		t.Fatalf("paypal: %v", err)
	}

	for name, p := range map[string]Processor{"debit": debit, "paypal": paypal} {
		o := newCheckoutOrder(name)
		if err := p.Pay(context.Background(), o); !IsNotAuthorized(err) {
			t.Errorf("%s: Pay() = %v, want not authorized", name, err)
		}
		if o.IsPaid() {
			t.Errorf("%s: order paid without authorization", name)
		}
	}
}
