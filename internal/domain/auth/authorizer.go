// Package auth holds the authorization strategies a payment method may
// require before it settles an order.
//
// Every strategy satisfies Authorizer and nothing more: the challenge that
// grants authorization (an SMS code, a human check, ...) is specific to the
// strategy and is driven by whoever constructed it. Authorization is durable;
// once granted it is never revoked for the lifetime of the instance.
package auth

import "sync/atomic"

// Authorizer reports whether the current actor passed its challenge.
type Authorizer interface {
	IsAuthorized() bool
}

// flag is the shared authorized state; safe for concurrent use.
type flag struct{ v atomic.Bool }

func (f *flag) isSet() bool { return f.v.Load() }

func (f *flag) grant() { f.v.Store(true) }
