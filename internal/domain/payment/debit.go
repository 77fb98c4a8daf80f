package payment

import (
	"context"
	"strings"

	"github.com/Zhima-Mochi/minishop-checkout/internal/domain/auth"
	"github.com/Zhima-Mochi/minishop-checkout/internal/domain/order"
)

// DebitProcessor pays with a debit card and requires prior authorization.
type DebitProcessor struct {
	securityCode string
	authorizer   auth.Authorizer
	settings
}

// NewDebitProcessor keeps a reference to authorizer; the caller owns it and
// may share it with other processors.
func NewDebitProcessor(securityCode string, authorizer auth.Authorizer, opts ...Option) (*DebitProcessor, error) {
	if strings.TrimSpace(securityCode) == "" {
		return nil, ErrInvalidCredential
	}
	if authorizer == nil {
		return nil, ErrAuthorizerRequired
	}
	return &DebitProcessor{
		securityCode: securityCode,
		authorizer:   authorizer,
		settings:     newSettings(opts),
	}, nil
}

func (p *DebitProcessor) Pay(ctx context.Context, o *order.Order) error {
	if o == nil {
		return ErrNilOrder
	}
	if !p.authorizer.IsAuthorized() {
		return &AuthorizationError{Method: MethodDebit}
	}
	return p.settle(ctx, o, MethodDebit, MaskCode(p.securityCode))
}
