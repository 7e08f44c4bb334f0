package docdb

import "context"

// ReadContext is the (read_timestamp, transaction_operation_context?)
// pair spec.md §3 describes: the time a read is evaluated at, and
// whether intents should be resolved at all. Cancellation rides on a
// standard context.Context, checked between documents and before each
// projected column's cell is read (spec.md §5); it is not checked
// between oracle calls made for one cell.
type ReadContext struct {
	ReadTimestamp HybridTimestamp
	// Transactional is true when an operation context is present.
	// When false, intent entries are unconditionally ignored (spec.md
	// §4.3).
	Transactional bool
	Ctx           context.Context
}

func (rc ReadContext) checkCancelled() error {
	if rc.Ctx == nil {
		return nil
	}
	select {
	case <-rc.Ctx.Done():
		return &CancelledError{cause: rc.Ctx.Err()}
	default:
		return nil
	}
}
