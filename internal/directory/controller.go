package directory

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"mindconnect/internal/domain"
	"mindconnect/pkg/debounce"
)

const DefaultDebounceDelay = 500 * time.Millisecond

var ErrControllerClosed = errors.New("сессия каталога закрыта")

// Source supplies the full set of published profiles. Status scoping is its
// responsibility, not the filter engine's.
type Source interface {
	ListPublished(ctx context.Context) ([]domain.Psychologist, error)
}

type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

type ControllerOption func(*Controller)

func WithDebounceDelay(d time.Duration) ControllerOption {
	return func(c *Controller) { c.delay = d }
}

func WithPageSize(n int) ControllerOption {
	return func(c *Controller) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

func WithSortKey(key domain.SortKey) ControllerOption {
	return func(c *Controller) { c.sortKey = key }
}

func WithLogger(logger *zap.Logger) ControllerOption {
	return func(c *Controller) { c.logger = logger }
}

// WithOnChange registers a callback fired after every recomputation. It runs
// without the controller lock held.
func WithOnChange(fn func(domain.DirectoryPage)) ControllerOption {
	return func(c *Controller) { c.onChange = fn }
}

func WithAfterFunc(af debounce.AfterFunc) ControllerOption {
	return func(c *Controller) { c.afterFunc = af }
}

// Controller is one browsing session over the directory. Live filter edits are
// debounced into an applied snapshot; only the applied snapshot drives the
// visible page.
type Controller struct {
	mu        sync.Mutex
	source    Source
	logger    *zap.Logger
	delay     time.Duration
	pageSize  int
	afterFunc debounce.AfterFunc
	onChange  func(domain.DirectoryPage)
	debouncer *debounce.Debouncer[domain.FilterSpec]

	records  []domain.Psychologist
	view     []domain.Psychologist
	live     domain.FilterSpec
	applied  domain.FilterSpec
	sortKey  domain.SortKey
	page     int
	state    State
	err      error
	revision uint64
	closed   bool
}

func NewController(source Source, opts ...ControllerOption) *Controller {
	c := &Controller{
		source:   source,
		logger:   zap.NewNop(),
		delay:    DefaultDebounceDelay,
		pageSize: domain.DefaultPageSize,
		sortKey:  domain.SortRelevance,
		page:     1,
		view:     []domain.Psychologist{},
	}
	for _, opt := range opts {
		opt(c)
	}

	var dopts []debounce.Option[domain.FilterSpec]
	if c.afterFunc != nil {
		dopts = append(dopts, debounce.WithAfterFunc[domain.FilterSpec](c.afterFunc))
	}
	c.debouncer = debounce.New(c.delay, c.settle, dopts...)

	return c
}

// Load fetches the record set once. A failure leaves the controller in
// StateError with the previous records, if any, still browsable.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrControllerClosed
	}
	c.state = StateLoading
	c.err = nil
	c.mu.Unlock()

	records, err := c.source.ListPublished(ctx)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrControllerClosed
	}
	if err != nil {
		c.state = StateError
		c.err = err
		c.mu.Unlock()
		c.logger.Error("ошибка загрузки каталога", zap.Error(err))
		return err
	}
	c.records = records
	c.state = StateReady
	c.recomputeLocked()
	page := c.visibleLocked()
	c.mu.Unlock()

	c.notify(page)
	return nil
}

// ApplyFilters replaces the live spec and schedules it to become the applied
// spec once input settles.
func (c *Controller) ApplyFilters(spec domain.FilterSpec) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.applyLocked(spec)
}

// UpdateFilter edits a copy of the live spec and applies it like ApplyFilters.
// edit runs under the controller lock and must not call back into it.
func (c *Controller) UpdateFilter(edit func(*domain.FilterSpec)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	spec := c.live.Clone()
	edit(&spec)
	c.applyLocked(spec)
}

// applyLocked triggers the debouncer while c.mu is held, so the live spec and
// the value that settles are updated in the same order. The debouncer never
// runs settle from inside Trigger, which keeps the lock order c.mu then the
// debouncer's own lock.
func (c *Controller) applyLocked(spec domain.FilterSpec) {
	if c.closed {
		return
	}
	c.live = spec.Clone()
	c.debouncer.Trigger(spec.Clone())
}

// ResetFilters clears both specs immediately, dropping any pending update.
func (c *Controller) ResetFilters() {
	c.debouncer.Cancel()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.live = domain.FilterSpec{}
	c.applied = domain.FilterSpec{}
	c.page = 1
	c.recomputeLocked()
	page := c.visibleLocked()
	c.mu.Unlock()

	c.notify(page)
}

// FlushFilters applies a pending live spec without waiting for the delay.
func (c *Controller) FlushFilters() bool {
	return c.debouncer.Flush()
}

func (c *Controller) SetSort(key domain.SortKey) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.sortKey = key
	c.page = 1
	c.recomputeLocked()
	page := c.visibleLocked()
	c.mu.Unlock()

	c.notify(page)
}

func (c *Controller) SetPage(n int) domain.DirectoryPage {
	c.mu.Lock()
	c.page = ClampPage(n, TotalPages(len(c.view), c.pageSize))
	page := c.visibleLocked()
	c.mu.Unlock()

	return page
}

func (c *Controller) VisiblePage() domain.DirectoryPage {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.visibleLocked()
}

func (c *Controller) Filters() domain.FilterSpec {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.live.Clone()
}

func (c *Controller) AppliedFilters() domain.FilterSpec {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.applied.Clone()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.err
}

// Revision counts recomputations of the filtered view.
func (c *Controller) Revision() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.revision
}

// Close tears the session down. A pending debounced update is discarded and
// no callback fires afterwards.
func (c *Controller) Close() {
	c.debouncer.Stop()

	c.mu.Lock()
	c.closed = true
	c.onChange = nil
	c.mu.Unlock()
}

func (c *Controller) settle(spec domain.FilterSpec) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.applied = spec
	c.page = 1
	c.recomputeLocked()
	page := c.visibleLocked()
	c.mu.Unlock()

	c.logger.Debug("фильтры каталога применены",
		zap.Int("matches", page.TotalMatches),
		zap.Uint64("revision", c.Revision()),
	)
	c.notify(page)
}

func (c *Controller) recomputeLocked() {
	c.view = Sort(Filter(c.records, c.applied), c.sortKey)
	c.revision++
}

func (c *Controller) visibleLocked() domain.DirectoryPage {
	page := Paginate(c.view, c.page, c.pageSize)
	c.page = page.CurrentPage
	return page
}

func (c *Controller) notify(page domain.DirectoryPage) {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(page)
	}
}
