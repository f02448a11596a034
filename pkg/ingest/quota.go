package ingest

import (
	"sync/atomic"
	"time"
)

// quotaCooldown is how long the pipeline stays dark after the search API
// signals a rate limit. Coarse on purpose: all-or-nothing until it elapses.
const quotaCooldown = 24 * time.Hour

// QuotaState is the process-wide rate-limit flag, shared by every pipeline
// instance hitting the same API. A single atomic timestamp is enough:
// writes are idempotent "set now" operations.
type QuotaState struct {
	exceededAt atomic.Int64
}

func NewQuotaState() *QuotaState {
	return &QuotaState{}
}

func (q *QuotaState) MarkExceeded(now time.Time) {
	q.exceededAt.Store(now.Unix())
}

// IsExceeded reports whether the cooldown is still in effect, clearing the
// flag once it has elapsed.
func (q *QuotaState) IsExceeded(now time.Time) bool {
	at := q.exceededAt.Load()
	if at == 0 {
		return false
	}
	if now.Sub(time.Unix(at, 0)) >= quotaCooldown {
		q.exceededAt.CompareAndSwap(at, 0)
		return false
	}
	return true
}
