// Package transfer implements the upload and download strategies for
// document content: whole-object transfers for small files and
// fixed-index partitioned transfers for large ones, plus the remover
// that erases a document's physical objects.
package transfer

import "sync"

// ProgressFunc observes transfer progress as a fraction in [0,1]. The
// last call carries the final state.
type ProgressFunc func(fraction float64)

// Notifier fans progress out to observers. Observers never see the
// fraction decrease, regardless of part completion order.
type Notifier struct {
	mu   sync.Mutex
	fns  []ProgressFunc
	last float64
}

// Observe registers fn. Registering before a transfer starts is legal;
// fn simply fires once the transfer begins.
func (n *Notifier) Observe(fn ProgressFunc) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.fns = append(n.fns, fn)
}

func (n *Notifier) emit(fraction float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if fraction < n.last {
		return
	}
	n.last = fraction
	for _, fn := range n.fns {
		fn(fraction)
	}
}
