// Package application holds the checkout use cases. Each one owns its
// span, RED metrics and the single use_case_done log line.
package application

import "context"

// UseCase runs one command against the domain.
type UseCase[C any, R any] interface {
	Execute(ctx context.Context, cmd C) (R, error)
}
