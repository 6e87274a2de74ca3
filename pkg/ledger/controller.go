package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/harrisonrobin/aledger/pkg/extract"
	"github.com/harrisonrobin/aledger/pkg/logger"
	"github.com/harrisonrobin/aledger/pkg/mirror"
	"github.com/harrisonrobin/aledger/pkg/model"
	"github.com/harrisonrobin/aledger/pkg/status"
	"github.com/harrisonrobin/aledger/pkg/store"
)

// ErrBusy is returned when an extraction is already in flight.
var ErrBusy = errors.New("an input is already being processed")

// Store persists the collection and the destination strings.
type Store interface {
	Load() (model.Configuration, []model.LedgerEntry)
	SaveEntries(entries []model.LedgerEntry) error
	SaveConfig(field store.ConfigField, value string) error
}

// Extractor turns free text into candidate entries.
type Extractor interface {
	Extract(ctx context.Context, freeText string, today time.Time) ([]model.ExtractionResult, error)
}

// Mirror pushes the whole collection to a destination.
type Mirror interface {
	Push(ctx context.Context, dest string, entries []model.LedgerEntry) mirror.Outcome
}

// Controller owns the in-memory collection, newest entry first.
type Controller struct {
	store     Store
	extractor Extractor
	mirror    Mirror
	status    *status.Indicator
	clock     func() time.Time
	newID     func() string
	log       *slog.Logger

	mu       sync.Mutex
	entries  []model.LedgerEntry
	cfg      model.Configuration
	selected string

	busy atomic.Bool
}

type Option func(*Controller)

func WithClock(fn func() time.Time) Option {
	return func(c *Controller) { c.clock = fn }
}

func WithIDFunc(fn func() string) Option {
	return func(c *Controller) { c.newID = fn }
}

func WithIndicator(ind *status.Indicator) Option {
	return func(c *Controller) { c.status = ind }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// New builds a controller and loads the persisted state from st.
func New(st Store, ex Extractor, m Mirror, opts ...Option) *Controller {
	c := &Controller{
		store:     st,
		extractor: ex,
		mirror:    m,
		clock:     time.Now,
		newID:     uuid.NewString,
		log:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.status == nil {
		c.status = status.New(status.DefaultDecay)
	}
	c.cfg, c.entries = st.Load()
	return c
}

// Entries returns a copy of the collection.
func (c *Controller) Entries() []model.LedgerEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return clone(c.entries)
}

func (c *Controller) Config() model.Configuration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

func (c *Controller) Status() model.SyncStatus {
	return c.status.Get()
}

func (c *Controller) Indicator() *status.Indicator {
	return c.status
}

// Busy reports whether an extraction is in flight.
func (c *Controller) Busy() bool {
	return c.busy.Load()
}

// ProcessInput extracts entries from text and prepends them to the
// collection. Blank text is ignored. Zero extracted records is an error.
func (c *Controller) ProcessInput(ctx context.Context, text string) ([]model.LedgerEntry, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	if !c.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer c.busy.Store(false)

	c.status.Set(model.SYNCING)
	now := c.clock()

	results, err := c.extractor.Extract(ctx, text, now)
	if err == nil && len(results) == 0 {
		err = extract.ErrNothingExtracted
	}
	if err != nil {
		c.log.Warn("input not recorded", "error", err)
		c.status.Set(model.ERROR)
		return nil, err
	}

	batch := make([]model.LedgerEntry, len(results))
	for i, r := range results {
		batch[i] = model.LedgerEntry{
			ID:         c.newID(),
			Date:       r.Date,
			Item:       r.Item,
			Amount:     r.Amount,
			Category:   r.Category,
			Timestamp:  now.UnixMilli(),
			SourceText: text,
		}
	}

	c.mu.Lock()
	updated := make([]model.LedgerEntry, 0, len(batch)+len(c.entries))
	updated = append(updated, batch...)
	updated = append(updated, c.entries...)
	c.entries = updated
	snapshot := clone(updated)
	dest := c.cfg.WebhookURL
	c.mu.Unlock()

	c.log.Info("recorded entries", "count", len(batch), "total", len(snapshot))

	if err := c.store.SaveEntries(snapshot); err != nil {
		c.status.Set(model.ERROR)
		return clone(batch), fmt.Errorf("saving ledger: %w", err)
	}

	if dest != "" {
		c.status.Set(c.mirror.Push(ctx, dest, snapshot).Status())
	} else {
		c.status.Set(model.SUCCESS)
	}
	return clone(batch), nil
}

// DeleteEntry removes the entry with id. It reports whether anything was
// removed; an unknown id changes nothing.
func (c *Controller) DeleteEntry(ctx context.Context, id string) bool {
	c.mu.Lock()
	idx := -1
	for i, e := range c.entries {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return false
	}
	updated := make([]model.LedgerEntry, 0, len(c.entries)-1)
	updated = append(updated, c.entries[:idx]...)
	updated = append(updated, c.entries[idx+1:]...)
	c.entries = updated
	if c.selected == id {
		c.selected = ""
	}
	snapshot := clone(updated)
	dest := c.cfg.WebhookURL
	c.mu.Unlock()

	if err := c.store.SaveEntries(snapshot); err != nil {
		c.log.Error("could not persist deletion", "id", id, "error", err)
	}
	// an empty collection is never pushed, the remote keeps its last copy
	if dest != "" && len(snapshot) > 0 {
		c.push(ctx, dest, snapshot)
	}
	return true
}

// Resync pushes the current collection again.
func (c *Controller) Resync(ctx context.Context) mirror.Outcome {
	c.mu.Lock()
	snapshot := clone(c.entries)
	dest := c.cfg.WebhookURL
	c.mu.Unlock()

	if dest == "" || len(snapshot) == 0 {
		return mirror.Skipped
	}
	return c.push(ctx, dest, snapshot)
}

func (c *Controller) push(ctx context.Context, dest string, snapshot []model.LedgerEntry) mirror.Outcome {
	c.status.Set(model.SYNCING)
	out := c.mirror.Push(ctx, dest, snapshot)
	if out != mirror.Skipped {
		c.status.Set(out.Status())
	} else {
		c.status.Set(model.IDLE)
	}
	return out
}

// UpdateDestination overwrites one destination and persists it. It does not
// trigger a push.
func (c *Controller) UpdateDestination(field store.ConfigField, url string) error {
	c.mu.Lock()
	switch field {
	case store.SheetURL:
		c.cfg.SheetURL = url
	case store.WebhookURL:
		c.cfg.WebhookURL = url
	default:
		c.mu.Unlock()
		return fmt.Errorf("unknown destination %q", string(field))
	}
	c.mu.Unlock()

	return c.store.SaveConfig(field, url)
}

// Select marks the entry with id as shown in the detail view.
func (c *Controller) Select(id string) (model.LedgerEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if e.ID == id {
			c.selected = id
			return e, true
		}
	}
	return model.LedgerEntry{}, false
}

// Selected returns the entry in the detail view, if any.
func (c *Controller) Selected() (model.LedgerEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == "" {
		return model.LedgerEntry{}, false
	}
	for _, e := range c.entries {
		if e.ID == c.selected {
			return e, true
		}
	}
	return model.LedgerEntry{}, false
}

func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = ""
}

// Find looks an entry up by id, or by a unique id prefix.
func (c *Controller) Find(ref string) (model.LedgerEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		match model.LedgerEntry
		n     int
	)
	for _, e := range c.entries {
		if e.ID == ref {
			return e, true
		}
		if ref != "" && strings.HasPrefix(e.ID, ref) {
			match = e
			n++
		}
	}
	return match, n == 1
}

func clone(entries []model.LedgerEntry) []model.LedgerEntry {
	if entries == nil {
		return nil
	}
	out := make([]model.LedgerEntry, len(entries))
	copy(out, entries)
	return out
}
