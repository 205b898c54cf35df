package output

import "context"

// Submitter performs the destructive final submit. Invoked only when every
// audit entry passed.
type Submitter interface {
	Submit(ctx context.Context) (submitted bool, err error)
}
