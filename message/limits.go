package message

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/arloliu/wordwire/errs"
)

// traversal is the word budget of one read operation. Views derived from the same
// Root call share it, possibly from several goroutines.
type traversal struct {
	remaining atomic.Int64
}

func newTraversal(limit uint64) *traversal {
	t := &traversal{}
	if limit > math.MaxInt64 {
		limit = math.MaxInt64
	}
	t.remaining.Store(int64(limit))

	return t
}

// charge deducts words from the budget. Once the budget is exhausted every later
// charge fails too.
func (t *traversal) charge(words uint64) error {
	if t == nil {
		return nil
	}

	for {
		cur := t.remaining.Load()
		if cur < 0 || words > uint64(cur) {
			t.remaining.Store(-1)
			return fmt.Errorf("%w: %d words requested, %d remaining", errs.ErrTraversalLimit, words, max(cur, 0))
		}
		if t.remaining.CompareAndSwap(cur, cur-int64(words)) {
			return nil
		}
	}
}

// left returns the unspent budget, or zero once exhausted.
func (t *traversal) left() uint64 {
	if t == nil {
		return math.MaxUint64
	}

	return uint64(max(t.remaining.Load(), 0))
}
