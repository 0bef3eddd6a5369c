// Package reporting drives one wildlife reporting view: the report form, the
// recent sightings list and the live change feed that keeps it current.
//
// A Controller owns all of its state on the goroutine running Run. User
// actions, store callbacks and finished store calls are all messages on one
// channel, so the list is never mutated concurrently no matter how the change
// feed delivers.
package reporting

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/linesmerrill/wildlife-watch-api/models"
	"github.com/linesmerrill/wildlife-watch-api/store"
)

// Defaults applied to a zero Options.
const (
	DefaultWindow          = 5
	DefaultSuccessDuration = 3 * time.Second
	DefaultTickInterval    = 15 * time.Second
)

const (
	submitFailedMessage = "Failed to submit report. Please try again."
	loadFailedMessage   = "Failed to load recent reports."
)

var (
	// ErrClosed is returned for actions sent to a torn down controller
	ErrClosed = errors.New("reporting view is closed")
	// ErrAlreadyRunning is returned when Run is called twice
	ErrAlreadyRunning = errors.New("reporting view is already running")
)

// ReportStore is the part of the store client a view needs
type ReportStore interface {
	FetchRecent(ctx context.Context, limit int) ([]models.Report, error)
	Insert(ctx context.Context, report models.WildlifeReport) (models.Report, error)
	SubscribeToChanges(ctx context.Context, h store.ChangeHandlers) (store.Subscription, error)
}

// Options tune a Controller
type Options struct {
	// Window is how many recent reports are listed
	Window int
	// SuccessDuration is how long the success indicator stays up
	SuccessDuration time.Duration
	// TickInterval is how often relative report times are re-rendered
	TickInterval time.Duration
	// Now stamps new reports and formats times. Defaults to time.Now.
	Now func() time.Time
	// OnChange is called on the Run goroutine after every state change. It
	// must not call Close.
	OnChange func(ViewState)
}

func (o Options) withDefaults() Options {
	if o.Window <= 0 {
		o.Window = DefaultWindow
	}
	if o.SuccessDuration <= 0 {
		o.SuccessDuration = DefaultSuccessDuration
	}
	if o.TickInterval <= 0 {
		o.TickInterval = DefaultTickInterval
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

type (
	selectCategoryMsg struct{ category models.Category }
	selectLocationMsg struct{ location models.Location }
	submitMsg         struct{}
	refreshMsg        struct{}
	changeMsg         struct{ event models.ChangeEvent }
	feedErrorMsg      struct{ err error }
	successExpiredMsg struct{ seq uint64 }
	fetchResultMsg    struct {
		gen     uint64
		reports []models.Report
		err     error
	}
	insertResultMsg struct {
		report models.Report
		err    error
	}
)

// Controller is the state machine behind one reporting view
type Controller struct {
	store ReportStore
	opts  Options

	events   chan any
	stopping chan struct{}
	stopOnce sync.Once
	running  atomic.Bool
	done     chan struct{}
	snapshot atomic.Pointer[ViewState]

	// everything below is owned by the Run goroutine
	opCtx        context.Context
	ops          sync.WaitGroup
	form         Form
	list         *RecentList
	fetchGen     uint64
	fetching     bool
	pending      []models.ChangeEvent
	successSeq   uint64
	successTimer *time.Timer
	success      bool
	submitErr    string
	alert        string
	loading      bool
	loadErr      string
	live         bool
}

// New creates an idle view over s. Nothing touches the store until Run.
func New(s ReportStore, opts Options) *Controller {
	opts = opts.withDefaults()
	c := &Controller{
		store:    s,
		opts:     opts,
		events:   make(chan any, 16),
		stopping: make(chan struct{}),
		done:     make(chan struct{}),
		list:     NewRecentList(opts.Window),
	}
	initial := c.buildState()
	c.snapshot.Store(&initial)
	return c
}

// Run mounts the view and processes its messages until ctx ends or Close is
// called. Teardown happens before Run returns: the subscription is closed and
// no timer or store call refers to the view afterwards.
func (c *Controller) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(c.done)

	select {
	case <-c.stopping:
		return nil
	default:
	}

	opCtx, cancel := context.WithCancel(ctx)
	c.opCtx = opCtx

	sub, err := c.store.SubscribeToChanges(opCtx, store.ChangeHandlers{
		OnInsert: func(r models.Report) {
			c.post(changeMsg{models.ChangeEvent{Type: models.ChangeInsert, ID: r.ID, Report: &r}})
		},
		OnUpdate: func(r models.Report) {
			c.post(changeMsg{models.ChangeEvent{Type: models.ChangeUpdate, ID: r.ID, Report: &r}})
		},
		OnDelete: func(id int64) {
			c.post(changeMsg{models.ChangeEvent{Type: models.ChangeDelete, ID: id}})
		},
		OnError: func(err error) {
			c.post(feedErrorMsg{err})
		},
	})
	if err != nil {
		zap.S().Warnw("failed to subscribe to report changes", "error", err)
	} else {
		c.live = true
	}
	defer c.teardown(sub, cancel)

	c.startFetch()
	c.publish()

	ticker := time.NewTicker(c.opts.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stopping:
			return nil
		case <-ticker.C:
			c.publish()
		case msg := <-c.events:
			if c.handle(msg) {
				c.publish()
			}
		}
	}
}

// Close tears the view down and waits for Run to finish doing so. It is safe
// to call more than once and before Run.
func (c *Controller) Close() {
	c.stopOnce.Do(func() { close(c.stopping) })
	if c.running.Load() {
		<-c.done
	}
}

// State returns the latest published snapshot
func (c *Controller) State() ViewState {
	return *c.snapshot.Load()
}

// SelectCategory sets or overwrites the report's animal type
func (c *Controller) SelectCategory(category models.Category) error {
	return c.send(selectCategoryMsg{category})
}

// SelectLocation sets or overwrites the report's map location
func (c *Controller) SelectLocation(loc models.Location) error {
	return c.send(selectLocationMsg{loc})
}

// Submit asks for the pending report to be stored. It is a no-op while a
// submission is in flight.
func (c *Controller) Submit() error {
	return c.send(submitMsg{})
}

// Refresh reloads the recent list from the store
func (c *Controller) Refresh() error {
	return c.send(refreshMsg{})
}

func (c *Controller) send(msg any) error {
	if !c.post(msg) {
		return ErrClosed
	}
	return nil
}

// post queues msg for the Run goroutine. Once the view is stopping every
// message is dropped, which is how late feed callbacks are discarded.
func (c *Controller) post(msg any) bool {
	select {
	case <-c.stopping:
		return false
	default:
	}
	select {
	case c.events <- msg:
		return true
	case <-c.stopping:
		return false
	}
}

// handle applies one message and reports whether the view changed
func (c *Controller) handle(msg any) bool {
	switch msg := msg.(type) {
	case selectCategoryMsg:
		return c.selectCategory(msg.category)
	case selectLocationMsg:
		return c.selectLocation(msg.location)
	case submitMsg:
		return c.submit()
	case refreshMsg:
		c.alert = ""
		c.startFetch()
		return true
	case insertResultMsg:
		c.finishSubmit(msg.report, msg.err)
		return true
	case fetchResultMsg:
		return c.finishFetch(msg)
	case changeMsg:
		c.applyChange(msg.event)
		return true
	case feedErrorMsg:
		zap.S().Errorw("report change feed lost", "error", msg.err)
		c.live = false
		return true
	case successExpiredMsg:
		if msg.seq != c.successSeq || !c.success {
			return false
		}
		c.success = false
		return true
	}
	zap.S().Warnw("unknown reporting view message", "message", msg)
	return false
}

func (c *Controller) selectCategory(category models.Category) bool {
	if err := c.form.SetCategory(category); err != nil {
		if errors.Is(err, ErrFormLocked) {
			return false
		}
		c.alert = err.Error()
		return true
	}
	c.alert = ""
	c.submitErr = ""
	return true
}

func (c *Controller) selectLocation(loc models.Location) bool {
	if err := c.form.SetLocation(loc); err != nil {
		if errors.Is(err, ErrFormLocked) {
			return false
		}
		c.alert = err.Error()
		return true
	}
	c.alert = ""
	c.submitErr = ""
	return true
}

func (c *Controller) submit() bool {
	if c.form.Phase() == PhaseSubmitting {
		return false
	}
	report, err := c.form.Begin(c.opts.Now())
	if err != nil {
		// submit should have been disabled; never reach the store
		c.alert = err.Error()
		return true
	}
	c.alert = ""
	c.submitErr = ""
	c.hideSuccess()

	ctx := c.opCtx
	c.ops.Add(1)
	go func() {
		defer c.ops.Done()
		row, err := c.store.Insert(ctx, report)
		c.post(insertResultMsg{report: row, err: err})
	}()
	return true
}

func (c *Controller) finishSubmit(row models.Report, err error) {
	if err != nil {
		zap.S().Errorw("failed to submit report", "error", err)
		c.form.Fail()
		c.submitErr = submitFailedMessage
		return
	}
	zap.S().Debugw("report submitted", "id", row.ID, "animalType", row.AnimalType)
	// the list picks the new row up from the change feed
	c.form.Succeed()
	c.showSuccess()
}

func (c *Controller) showSuccess() {
	c.successSeq++
	seq := c.successSeq
	c.success = true
	if c.successTimer != nil {
		c.successTimer.Stop()
	}
	c.successTimer = time.AfterFunc(c.opts.SuccessDuration, func() {
		c.post(successExpiredMsg{seq})
	})
}

func (c *Controller) hideSuccess() {
	c.successSeq++
	c.success = false
	if c.successTimer != nil {
		c.successTimer.Stop()
		c.successTimer = nil
	}
}

// startFetch supersedes any fetch already in flight. Change events seen while
// it runs are kept so they can be replayed over its result.
func (c *Controller) startFetch() {
	c.fetchGen++
	gen := c.fetchGen
	c.fetching = true
	c.pending = nil
	c.loading = true
	c.loadErr = ""

	ctx := c.opCtx
	c.ops.Add(1)
	go func() {
		defer c.ops.Done()
		reports, err := c.store.FetchRecent(ctx, c.opts.Window)
		c.post(fetchResultMsg{gen: gen, reports: reports, err: err})
	}()
}

func (c *Controller) finishFetch(msg fetchResultMsg) bool {
	if msg.gen != c.fetchGen {
		zap.S().Debugw("discarding superseded fetch", "generation", msg.gen, "latest", c.fetchGen)
		return false
	}
	c.fetching = false
	c.loading = false
	pending := c.pending
	c.pending = nil

	if msg.err != nil {
		zap.S().Errorw("failed to load recent reports", "error", msg.err)
		c.loadErr = loadFailedMessage
		return true
	}
	c.list.Replace(msg.reports)
	for _, event := range pending {
		if event.Type == models.ChangeInsert && c.list.Contains(event.ID) {
			continue
		}
		c.apply(event)
	}
	return true
}

func (c *Controller) applyChange(event models.ChangeEvent) {
	c.apply(event)
	if c.fetching {
		c.pending = append(c.pending, event)
	}
}

func (c *Controller) apply(event models.ChangeEvent) {
	switch event.Type {
	case models.ChangeInsert:
		c.list.Insert(*event.Report)
	case models.ChangeUpdate:
		c.list.Update(*event.Report)
	case models.ChangeDelete:
		c.list.Delete(event.ID)
	}
}

func (c *Controller) publish() {
	state := c.buildState()
	c.snapshot.Store(&state)
	if c.opts.OnChange != nil {
		c.opts.OnChange(state)
	}
}

func (c *Controller) buildState() ViewState {
	now := c.opts.Now()
	phase := c.form.Phase()
	state := ViewState{
		Category:    c.form.Category(),
		Location:    c.form.Location(),
		Phase:       phase,
		CanSubmit:   c.form.CanSubmit(),
		Submitting:  phase == PhaseSubmitting,
		Success:     c.success,
		SubmitError: c.submitErr,
		Alert:       c.alert,
		Loading:     c.loading,
		LoadError:   c.loadErr,
		Live:        c.live,
		Reports:     reportItems(c.list.Items(), now),
		Now:         now,
	}
	state.Markers = Markers(state)
	return state
}

func (c *Controller) teardown(sub store.Subscription, cancel context.CancelFunc) {
	c.stopOnce.Do(func() { close(c.stopping) })
	if sub != nil {
		if err := sub.Close(); err != nil {
			zap.S().Warnw("failed to close report subscription", "error", err)
		}
	}
	cancel()
	if c.successTimer != nil {
		c.successTimer.Stop()
	}
	c.ops.Wait()
}
