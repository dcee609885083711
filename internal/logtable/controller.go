package logtable

import (
	"maps"
	"slices"
	"sync"

	"github.com/cloo-solutions/tryonadmin/internal/domain"
)

// DefaultCapacity bounds the collection in the streaming variant.
const DefaultCapacity = 100

// Observer receives controller events. The metrics package implements it.
// Methods are called with the controller's lock held, so events arrive in
// mutation order; they must return quickly and must not call back into the
// Controller.
type Observer interface {
	CollectionSize(n int)
	ViewRecomputed()
	StaleReplaceDiscarded()
}

type noopObserver struct{}

func (noopObserver) CollectionSize(int)     {}
func (noopObserver) ViewRecomputed()        {}
func (noopObserver) StaleReplaceDiscarded() {}

// Option configures a Controller.
type Option func(*Controller)

// WithCapacity sets how many records Append retains. Values below 1 keep
// the default.
func WithCapacity(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// WithObserver attaches an Observer.
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		if o != nil {
			c.observer = o
		}
	}
}

// Controller owns the log collection, the active filter criteria and the
// sort spec, and serves the derived view. It is safe for concurrent use;
// every method returns without waiting on I/O.
type Controller struct {
	mu sync.Mutex

	records  []domain.LogRecord
	criteria map[Field]criterion
	sort     SortSpec
	capacity int
	observer Observer

	// version increments on every mutation; the cached view is valid only
	// while cachedVersion matches it.
	version       uint64
	cachedVersion uint64
	cached        []domain.LogRecord
	cacheValid    bool

	lastSeq uint64
}

// NewController returns an empty controller.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		criteria: make(map[Field]criterion),
		capacity: DefaultCapacity,
		observer: noopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ReplaceAll swaps in a copy of records as the whole collection.
func (c *Controller) ReplaceAll(records []domain.LogRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replaceLocked(records)
}

// ReplaceAllSeq applies records only if seq is newer than every sequence
// applied before. It returns false when the response was older and was
// discarded.
func (c *Controller) ReplaceAllSeq(seq uint64, records []domain.LogRecord) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq <= c.lastSeq {
		c.observer.StaleReplaceDiscarded()
		return false
	}
	c.lastSeq = seq
	c.replaceLocked(records)
	return true
}

func (c *Controller) replaceLocked(records []domain.LogRecord) {
	c.records = slices.Clone(records)
	c.touchLocked()
}

// Append adds record at the end and drops the oldest records beyond the
// configured capacity.
func (c *Controller) Append(record domain.LogRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = append(c.records, record)
	if over := len(c.records) - c.capacity; over > 0 {
		c.records = slices.Clone(c.records[over:])
	}
	c.touchLocked()
}

// Clear empties the collection. Criteria and sort are kept.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = nil
	c.touchLocked()
}

// SetFilter sets the criterion for field from raw user input. Empty input,
// or input that does not parse as the field's type, removes the criterion.
// Fields that cannot be filtered are ignored.
func (c *Controller) SetFilter(field Field, raw string) {
	if !field.IsFilterable() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if crit, ok := parseCriterion(field, raw); ok {
		c.criteria[field] = crit
	} else {
		delete(c.criteria, field)
	}
	c.touchLocked()
}

// UnsetFilter removes the criterion for field.
func (c *Controller) UnsetFilter(field Field) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.criteria[field]; !ok {
		return
	}
	delete(c.criteria, field)
	c.touchLocked()
}

// ClearFilters removes every criterion.
func (c *Controller) ClearFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.criteria)
	c.touchLocked()
}

// SetSort replaces the sort spec. A spec that fails Validate is ignored
// and the method reports false.
func (c *Controller) SetSort(spec SortSpec) bool {
	if spec.Validate() != nil {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.sort = slices.Clone(spec)
	c.touchLocked()
	return true
}

// View returns the filtered and sorted records. The slice is a copy.
func (c *Controller) View() []domain.LogRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.viewLocked())
}

// Snapshot is a consistent read of the controller taken under one lock.
type Snapshot struct {
	Records []domain.LogRecord
	Version uint64
	Total   int
	Filters map[Field]string
	Sort    SortSpec
}

// Snapshot returns the view together with the state it was derived from.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		Records: slices.Clone(c.viewLocked()),
		Version: c.version,
		Total:   len(c.records),
		Filters: c.filtersLocked(),
		Sort:    slices.Clone(c.sort),
	}
}

// Filters returns the raw value of every active criterion.
func (c *Controller) Filters() map[Field]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filtersLocked()
}

func (c *Controller) filtersLocked() map[Field]string {
	out := make(map[Field]string, len(c.criteria))
	for f, crit := range c.criteria {
		out[f] = crit.raw
	}
	return out
}

// Sort returns the active sort spec.
func (c *Controller) Sort() SortSpec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.sort)
}

// Len returns the size of the backing collection before filtering.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// Version returns the mutation counter.
func (c *Controller) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

func (c *Controller) touchLocked() {
	c.version++
	c.cacheValid = false
	c.cached = nil
	c.observer.CollectionSize(len(c.records))
}

func (c *Controller) viewLocked() []domain.LogRecord {
	if c.cacheValid && c.cachedVersion == c.version {
		return c.cached
	}

	active := make([]criterion, 0, len(c.criteria))
	for _, f := range slices.Sorted(maps.Keys(c.criteria)) {
		active = append(active, c.criteria[f])
	}

	out := make([]domain.LogRecord, 0, len(c.records))
	for i := range c.records {
		if matchesAll(active, &c.records[i]) {
			out = append(out, c.records[i])
		}
	}
	if len(c.sort) > 0 {
		slices.SortStableFunc(out, c.sort.compareFunc())
	}

	c.cached = out
	c.cachedVersion = c.version
	c.cacheValid = true
	c.observer.ViewRecomputed()
	return out
}
