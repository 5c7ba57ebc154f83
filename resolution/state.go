package resolution

import (
	"github.com/reel-cli/reel/resolver"
	"github.com/reel-cli/reel/selection"
	"github.com/reel-cli/reel/stream"
)

// Phase is the lifecycle stage of the current identifier.
type Phase int

const (
	Idle Phase = iota
	Resolving
	Ready
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Resolving:
		return "resolving"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// State describes the current identifier. Descriptor is set only when Ready
// and Err only when Failed. Descriptor must be treated as read-only.
type State struct {
	Phase      Phase
	Source     stream.SourceID
	Descriptor *stream.Descriptor
	Err        error
}

// Reason classifies Err. It is zero unless the state is Failed.
func (s State) Reason() resolver.Kind {
	return resolver.KindOf(s.Err)
}

// CanRetry reports whether a retry affordance makes sense.
func (s State) CanRetry() bool {
	return s.Phase == Failed && resolver.Retryable(s.Err)
}

// Snapshot is what listeners receive. Version increases with every change,
// so a consumer can ignore a snapshot older than one it has already seen.
type Snapshot struct {
	Version   uint64
	State     State
	Selection selection.State
}
