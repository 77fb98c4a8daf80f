package cli

import (
	"fmt"

	"github.com/Zhima-Mochi/minishop-checkout/internal/config"
	"github.com/Zhima-Mochi/minishop-checkout/internal/domain/auth"
	"github.com/Zhima-Mochi/minishop-checkout/internal/domain/payment"
)

// This file is the only place that names concrete authorizer and processor
// types. Everything downstream sees auth.Authorizer and payment.Processor.

// challenge pairs an authorizer with the action that satisfies it.
type challenge struct {
	kind       string
	authorizer auth.Authorizer
	complete   func(smsCode string)
}

// buildAuthorizer returns nil for "none". Asking credit for any authorizer
// is an unsupported operation.
func buildAuthorizer(method payment.Method, kind string) (*challenge, error) {
	if kind == "" || kind == config.AuthorizerNone {
		return nil, nil
	}
	if method == payment.MethodCredit {
		return nil, &payment.UnsupportedOperationError{Method: method, Op: kind + " authorization"}
	}

	switch kind {
	case config.AuthorizerSMS:
		a := auth.NewSMSAuthorizer()
		return &challenge{kind: kind, authorizer: a, complete: a.VerifyCode}, nil
	case config.AuthorizerRobot:
		a := auth.NewNotARobotAuthorizer()
		return &challenge{kind: kind, authorizer: a, complete: func(string) { a.ConfirmHuman() }}, nil
	default:
		return nil, fmt.Errorf("unknown authorizer %q", kind)
	}
}

type credentials struct {
	securityCode string
	email        string
}

func buildProcessor(method payment.Method, creds credentials, c *challenge, opts ...payment.Option) (payment.Processor, error) {
	var authorizer auth.Authorizer
	if c != nil {
		authorizer = c.authorizer
	}

	var (
		p   payment.Processor
		err error
	)
	switch method {
	case payment.MethodDebit:
		p, err = unwrap(payment.NewDebitProcessor(creds.securityCode, authorizer, opts...))
	case payment.MethodCredit:
		p, err = unwrap(payment.NewCreditProcessor(creds.securityCode, opts...))
	case payment.MethodPaypal:
		p, err = unwrap(payment.NewPaypalProcessor(creds.email, authorizer, opts...))
	default:
		err = fmt.Errorf("unknown payment method %q", method)
	}
	if err != nil {
		return nil, fmt.Errorf("build %s processor: %w", method, err)
	}
	return p, nil
}

// unwrap keeps a failed constructor from leaking a typed nil.
func unwrap[P payment.Processor](p P, err error) (payment.Processor, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}
