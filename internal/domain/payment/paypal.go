package payment

import (
	"context"
	"strings"

	"github.com/Zhima-Mochi/minishop-checkout/internal/domain/auth"
	"github.com/Zhima-Mochi/minishop-checkout/internal/domain/order"
)

// PaypalProcessor pays from a PayPal account keyed by email address and
// requires prior authorization.
type PaypalProcessor struct {
	email      string
	authorizer auth.Authorizer
	settings
}

func NewPaypalProcessor(email string, authorizer auth.Authorizer, opts ...Option) (*PaypalProcessor, error) {
	if strings.TrimSpace(email) == "" {
		return nil, ErrInvalidCredential
	}
	if authorizer == nil {
		return nil, ErrAuthorizerRequired
	}
	return &PaypalProcessor{
		email:      email,
		authorizer: authorizer,
		settings:   newSettings(opts),
	}, nil
}

func (p *PaypalProcessor) Pay(ctx context.Context, o *order.Order) error {
	if o == nil {
		return ErrNilOrder
	}
	if !p.authorizer.IsAuthorized() {
		return &AuthorizationError{Method: MethodPaypal}
	}
	return p.settle(ctx, o, MethodPaypal, MaskEmail(p.email))
}
