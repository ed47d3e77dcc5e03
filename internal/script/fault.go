package script

import (
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/dshills/spellhook/internal/logging"
	"github.com/dshills/spellhook/internal/script/hook"
)

// Default fault log rate per script and operation.
const (
	DefaultFaultRate  = 1.0
	DefaultFaultBurst = 5
)

// Fault is a programming error detected in a script.
type Fault struct {
	Script   string
	SpellID  uint32
	Instance string
	Hook     hook.Kind
	Op       string
	Message  string
}

func (f Fault) String() string {
	return fmt.Sprintf("%s: %s", f.Op, f.Message)
}

// FaultReporter logs faults. Each script and operation pair has its own
// token bucket so a script faulting on every tick cannot flood the log.
// It is safe for concurrent use.
type FaultReporter struct {
	mu       sync.Mutex
	log      *logging.Logger
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
	total    int
	dropped  int
}

// NewFaultReporter creates a reporter that logs at most perSecond faults per
// script and operation, with the given burst.
func NewFaultReporter(log *logging.Logger, perSecond float64, burst int) *FaultReporter {
	if log == nil {
		log = logging.NewNull()
	}
	if burst < 1 {
		burst = 1
	}
	return &FaultReporter{
		log:      log.WithComponent("faults"),
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Report records f and logs it unless its bucket is empty. It returns
// whether the fault was logged.
func (r *FaultReporter) Report(f Fault) bool {
	if r == nil {
		return false
	}

	r.mu.Lock()
	r.total++
	key := f.Script + "\x00" + f.Op
	lim, ok := r.limiters[key]
	if !ok {
		lim = rate.NewLimiter(r.limit, r.burst)
		r.limiters[key] = lim
	}
	allowed := lim.Allow()
	if !allowed {
		r.dropped++
	}
	r.mu.Unlock()

	if !allowed {
		return false
	}
	r.log.WithFields(map[string]any{
		"script":   f.Script,
		"spell":    f.SpellID,
		"instance": f.Instance,
		"hook":     f.Hook,
	}).Error("script fault: %s", f)
	return true
}

// Total returns the number of faults reported.
func (r *FaultReporter) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}

// Dropped returns the number of faults not logged because of rate limiting.
func (r *FaultReporter) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}
