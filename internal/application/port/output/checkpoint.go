package output

import "context"

// CheckpointSink receives named observability checkpoints ("source_confirmed",
// "consignee_failed") that an implementation may render as saved screenshots.
// Implementations must never fail the caller.
type CheckpointSink interface {
	Checkpoint(ctx context.Context, name string)
}

// NopCheckpoint discards all checkpoints.
type NopCheckpoint struct{}

func (NopCheckpoint) Checkpoint(context.Context, string) {}
