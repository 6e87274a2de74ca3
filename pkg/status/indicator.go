package status

import (
	"sync"
	"time"

	"github.com/harrisonrobin/aledger/pkg/model"
)

// DefaultDecay is how long SUCCESS and ERROR stay visible.
const DefaultDecay = 3 * time.Second

// Indicator holds the current sync status. Terminal states revert to IDLE
// after the decay delay unless another Set happens first.
type Indicator struct {
	mu       sync.Mutex
	current  model.SyncStatus
	decay    time.Duration
	timer    *time.Timer
	gen      uint64
	observer func(model.SyncStatus)
}

// New creates an idle indicator. A non-positive decay uses DefaultDecay.
func New(decay time.Duration) *Indicator {
	if decay <= 0 {
		decay = DefaultDecay
	}
	return &Indicator{current: model.IDLE, decay: decay}
}

// OnChange registers fn to be called after every transition, including the
// automatic one back to IDLE. fn runs without the lock held.
func (i *Indicator) OnChange(fn func(model.SyncStatus)) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.observer = fn
}

func (i *Indicator) Get() model.SyncStatus {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.current
}

func (i *Indicator) Set(s model.SyncStatus) {
	i.mu.Lock()
	if i.timer != nil {
		i.timer.Stop()
		i.timer = nil
	}
	i.gen++
	i.current = s
	if s.Terminal() {
		gen := i.gen
		i.timer = time.AfterFunc(i.decay, func() { i.revert(gen) })
	}
	fn := i.observer
	i.mu.Unlock()

	if fn != nil {
		fn(s)
	}
}

// revert moves back to IDLE if no newer Set happened since gen was issued.
func (i *Indicator) revert(gen uint64) {
	i.mu.Lock()
	if gen != i.gen {
		i.mu.Unlock()
		return
	}
	i.gen++
	i.current = model.IDLE
	i.timer = nil
	fn := i.observer
	i.mu.Unlock()

	if fn != nil {
		fn(model.IDLE)
	}
}

// Stop cancels a pending decay.
func (i *Indicator) Stop() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.gen++
	if i.timer != nil {
		i.timer.Stop()
		i.timer = nil
	}
}
