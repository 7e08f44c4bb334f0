package docdb

import (
	"github.com/ariesdevil/yugabyte-db/config"
	"github.com/ariesdevil/yugabyte-db/oracle"
	"github.com/ariesdevil/yugabyte-db/schema"
	"github.com/ariesdevil/yugabyte-db/store"
)

// Iterator is the row-wise iterator facade (C7): Init / HasNext /
// NextRow with idempotent lookahead (spec.md §4.7). An instance is
// constructed with a projection, schema, read context and store
// handle; it is used once, forward-only, by exactly one goroutine,
// then discarded — it owns no persistent state of its own (spec.md
// §3, §5).
type Iterator struct {
	table      *schema.Table
	projection *schema.Projection
	rc         ReadContext
	store      store.Store
	oracle     oracle.Oracle
	cfg        *config.Config
	lowerBound []byte

	snapshot store.Snapshot
	walker   *documentWalker

	state      iterState
	pendingRow Row
	pendingErr error
}

type iterState int

const (
	stateNotInited iterState = iota
	stateReady
	stateRowCached
	stateErrCached
	stateExhausted
)

// NewIterator constructs an iterator with default tunables
// (config.NewDefaultConfig()); use WithConfig to override them. o may
// be nil when rc is non-transactional: intent entries are then
// skipped at the walker and the oracle is never consulted (spec.md
// §4.3).
func NewIterator(projection *schema.Projection, table *schema.Table, rc ReadContext, s store.Store, o oracle.Oracle) *Iterator {
	return &Iterator{table: table, projection: projection, rc: rc, store: s, oracle: o, cfg: config.NewDefaultConfig()}
}

// WithLowerBound restricts the scan to documents whose key is >= lb.
// Must be called before Init.
func (it *Iterator) WithLowerBound(lb []byte) *Iterator {
	it.lowerBound = lb
	return it
}

// WithConfig overrides the iterator's tunables (oracle RPC timeout,
// seek-vs-next threshold). Must be called before Init.
func (it *Iterator) WithConfig(cfg *config.Config) *Iterator {
	it.cfg = cfg
	return it
}

// Init pins a snapshot of the store and positions the walker at the
// first document >= the configured lower bound (spec.md §4.7, §5's
// "scoped acquisition" of the snapshot).
func (it *Iterator) Init() error {
	if it.cfg == nil {
		it.cfg = config.NewDefaultConfig()
	}
	if err := it.cfg.Validate(); err != nil {
		return wrapCorruption(err)
	}

	it.snapshot = it.store.NewSnapshot()
	storeIter := it.snapshot.NewIterator()
	resolver := newIntentResolver(it.oracle).withTimeout(it.cfg.OracleTimeout)
	w := newDocumentWalker(storeIter, it.table, it.projection, it.rc, resolver, it.cfg.SeekThreshold)
	w.seekToLowerBound(it.lowerBound)
	it.walker = w
	it.state = stateReady
	walkerLog.Debugf("iterator initialized at read_ts=%s transactional=%v", it.rc.ReadTimestamp, it.rc.Transactional)
	return nil
}

// HasNext is idempotent: consecutive calls without an intervening
// NextRow return the same boolean and do not advance the walker
// (spec.md §4.7, P6).
func (it *Iterator) HasNext() (bool, error) {
	switch it.state {
	case stateRowCached:
		return true, nil
	case stateErrCached:
		return false, it.pendingErr
	case stateExhausted:
		return false, nil
	case stateNotInited:
		return false, newCorruptionError("docdb: HasNext called before Init")
	}

	row, ok, err := it.walker.next()
	if err != nil {
		it.state = stateErrCached
		it.pendingErr = err
		if IsRetry(err) {
			walkerLog.Warnf("%v", err)
		}
		return false, err
	}
	if !ok {
		it.state = stateExhausted
		return false, nil
	}
	it.pendingRow = row
	it.state = stateRowCached
	return true, nil
}

// NextRow consumes the row cached by HasNext, calling it first if the
// caller hasn't already. The cache is invalidated once NextRow
// returns; the next HasNext performs real work again (spec.md §4.7).
func (it *Iterator) NextRow(out *Row) error {
	if it.state == stateNotInited {
		return newCorruptionError("docdb: NextRow called before Init")
	}
	if it.state == stateReady {
		if _, err := it.HasNext(); err != nil {
			return err
		}
	}

	switch it.state {
	case stateRowCached:
		*out = it.pendingRow
		it.pendingRow = Row{}
		it.state = stateReady
		return nil
	case stateErrCached:
		return it.pendingErr
	default:
		return &ExhaustedError{}
	}
}

// Close releases the pinned snapshot. Idempotent, safe to call even
// if Init was never called or already failed.
func (it *Iterator) Close() {
	if it.snapshot != nil {
		it.snapshot.Release()
		it.snapshot = nil
	}
}
