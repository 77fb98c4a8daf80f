package payment

import (
	"context"
	"strings"

	"github.com/Zhima-Mochi/minishop-checkout/internal/domain/order"
)

// CreditProcessor pays with a credit card. Credit payments never require
// authorization, so it has no authorizer.
type CreditProcessor struct {
	securityCode string
	settings
}

func NewCreditProcessor(securityCode string, opts ...Option) (*CreditProcessor, error) {
	if strings.TrimSpace(securityCode) == "" {
		return nil, ErrInvalidCredential
	}
	return &CreditProcessor{
		securityCode: securityCode,
		settings:     newSettings(opts),
	}, nil
}

func (p *CreditProcessor) Pay(ctx context.Context, o *order.Order) error {
	if o == nil {
		return ErrNilOrder
	}
	return p.settle(ctx, o, MethodCredit, MaskCode(p.securityCode))
}
