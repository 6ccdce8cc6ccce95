package graph

import (
	"time"

	"github.com/hexislab/patchbay/pkg/edge"
)

// Hooks lets callers observe an instance's execution without the core
// depending on any metrics or logging machinery. Any field may be nil.
// Hooks run synchronously on the executing goroutine, so they must be
// cheap and must not call back into the instance.
type Hooks struct {
	// OnPassBegin fires at the start of every Execute with the pass
	// timestamp about to be evaluated.
	OnPassBegin func(pass edge.Timestamp)

	// OnPassEnd fires when the pass completes, with the number of nodes
	// whose behaviors actually executed and the wall time the pass took.
	OnPassEnd func(pass edge.Timestamp, executed int, elapsed time.Duration)

	// OnNodeExecute fires after each dirty node's behavior runs.
	OnNodeExecute func(id NodeID, sig *Signature, elapsed time.Duration)

	// OnBroadcast fires once per listener delivery when a broadcaster
	// routes an event into this instance, before the resulting pass.
	OnBroadcast func(ev *Event)
}

// Combine merges hook sets so several observers can watch one instance.
// Each callback fans out to every non-nil counterpart in order.
func Combine(hooks ...Hooks) Hooks {
	var out Hooks
	for _, h := range hooks {
		h := h
		if h.OnPassBegin != nil {
			prev := out.OnPassBegin
			out.OnPassBegin = func(pass edge.Timestamp) {
				if prev != nil {
					prev(pass)
				}
				h.OnPassBegin(pass)
			}
		}
		if h.OnPassEnd != nil {
			prev := out.OnPassEnd
			out.OnPassEnd = func(pass edge.Timestamp, executed int, elapsed time.Duration) {
				if prev != nil {
					prev(pass, executed, elapsed)
				}
				h.OnPassEnd(pass, executed, elapsed)
			}
		}
		if h.OnNodeExecute != nil {
			prev := out.OnNodeExecute
			out.OnNodeExecute = func(id NodeID, sig *Signature, elapsed time.Duration) {
				if prev != nil {
					prev(id, sig, elapsed)
				}
				h.OnNodeExecute(id, sig, elapsed)
			}
		}
		if h.OnBroadcast != nil {
			prev := out.OnBroadcast
			out.OnBroadcast = func(ev *Event) {
				if prev != nil {
					prev(ev)
				}
				h.OnBroadcast(ev)
			}
		}
	}
	return out
}
