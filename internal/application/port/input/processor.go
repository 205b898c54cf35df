package input

import "context"

// DocumentProcessor drives claim-fill-persist cycles. ProcessNext's first
// return is false when the queue had no eligible row; RunLoop repeats until
// the queue is empty or maxIterations is reached (<= 0 means unbounded).
type DocumentProcessor interface {
	ProcessNext(ctx context.Context) (claimed bool, err error)
	RunLoop(ctx context.Context, maxIterations int) error
}
