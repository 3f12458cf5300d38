package domain

import "context"

// Runner executes one deployment and returns its combined output.
type Runner interface {
	Run(ctx context.Context) ([]byte, error)
}
