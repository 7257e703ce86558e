package kbdd

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// NotAvailable is shown while kbdd is not known to be running.
	NotAvailable = "N/A"

	SignalLayoutChanged = "layoutChanged"
)

var (
	ErrToolMissing           = errors.New("process listing tool is not installed")
	ErrLayoutIndexOutOfRange = errors.New("layout index out of range")
	ErrBadPayload            = errors.New("unexpected signal payload")
)

type Config struct {
	Layouts []string
	Colours ColourScheme

	// DetectExit re-checks liveness on every poll while running, so a
	// stopped kbdd is shown as NotAvailable.
	DetectExit bool
}

// State is a point-in-time copy of the indicator state.
type State struct {
	Label         string
	Running       bool
	PushAvailable bool
}

// Indicator tracks the active keyboard layout. The label is pulled by Poll
// on the bar's update interval and pushed by kbdd's layoutChanged signal.
// Poll and the signal path may run on different goroutines.
type Indicator struct {
	layouts    []string
	colours    ColourScheme
	detectExit bool

	checker    LivenessChecker
	colourSlot ColourSetter
	observers  []ChangeObserver
	log        *zap.SugaredLogger
	now        func() time.Time

	lock          sync.Mutex
	label         string
	running       bool
	pushAvailable bool
	reported      bool
	changed       chan struct{}
}

// NewIndicator creates the indicator and performs the initial liveness
// check. colourSlot may be nil when the host has no colour support.
func NewIndicator(
	ctx context.Context,
	cfg Config,
	checker LivenessChecker,
	colourSlot ColourSetter,
	log *zap.SugaredLogger,
	observers ...ChangeObserver,
) (*Indicator, error) {
	if len(cfg.Layouts) == 0 {
		return nil, errors.New("at least one configured layout is required")
	}

	ind := &Indicator{
		layouts:    append([]string(nil), cfg.Layouts...),
		colours:    cfg.Colours,
		detectExit: cfg.DetectExit,
		checker:    checker,
		colourSlot: colourSlot,
		observers:  observers,
		log:        log,
		now:        time.Now,
		label:      cfg.Layouts[0],
		changed:    make(chan struct{}, 1),
	}

	ind.running = ind.CheckRunning(ctx)
	if !ind.running {
		ind.label = NotAvailable
	}

	return ind, nil
}

// CheckRunning asks the liveness checker whether kbdd runs. On success the
// label is reset to the first configured layout. Failures are logged and
// reported as false.
func (i *Indicator) CheckRunning(ctx context.Context) bool {
	if !i.isRunning(ctx) {
		return false
	}

	i.lock.Lock()
	defer i.lock.Unlock()
	i.setLabel(i.layouts[0])
	return true
}

func (i *Indicator) isRunning(ctx context.Context) bool {
	running, err := i.checker.IsRunning(ctx)
	switch {
	case errors.Is(err, ErrToolMissing):
		i.report("cannot check if kbdd is running", "error", err)
		return false
	case err != nil:
		i.report("check if kbdd is running", "error", err)
		return false
	case !running:
		i.report("kbdd is not running")
		return false
	}

	i.lock.Lock()
	i.reported = false
	i.lock.Unlock()
	return true
}

// report logs a liveness failure as an error once, then at debug level
// until the next successful check.
func (i *Indicator) report(msg string, keysAndValues ...any) {
	i.lock.Lock()
	reported := i.reported
	i.reported = true
	i.lock.Unlock()

	if reported {
		i.log.Debugw(msg, keysAndValues...)
		return
	}
	i.log.Errorw(msg, keysAndValues...)
}

// Poll returns the label to render. While kbdd is not running every call
// re-checks liveness.
func (i *Indicator) Poll(ctx context.Context) string {
	i.lock.Lock()
	running := i.running
	i.lock.Unlock()

	switch {
	case !running:
		if !i.isRunning(ctx) {
			break
		}

		i.lock.Lock()
		defer i.lock.Unlock()
		// a signal may have arrived during the check; its label wins
		if !i.running {
			i.running = true
			i.setLabel(i.layouts[0])
		}
		return i.label

	case i.detectExit:
		if i.isRunning(ctx) {
			break
		}

		i.lock.Lock()
		defer i.lock.Unlock()
		i.running = false
		i.setLabel(NotAvailable)
		return i.label
	}

	i.lock.Lock()
	defer i.lock.Unlock()
	return i.label
}

// OnSignal handles one bus signal. Signals other than layoutChanged are
// ignored.
func (i *Indicator) OnSignal(ev Event) error {
	if ev.Name != SignalLayoutChanged {
		return nil
	}

	idx, err := LayoutIndex(ev.Body)
	if err != nil {
		i.log.Errorw("decode layoutChanged signal", "body", ev.Body, "error", err)
		return err
	}

	return i.OnLayoutChanged(idx)
}

// OnLayoutChanged switches the label to the layout at idx.
func (i *Indicator) OnLayoutChanged(idx int) error {
	if idx < 0 || idx >= len(i.layouts) {
		i.log.Errorw("layout index out of range", "index", idx, "configured", len(i.layouts))
		return fmt.Errorf("%w: %d", ErrLayoutIndexOutOfRange, idx)
	}

	if i.colours.Enabled() {
		i.applyColour(idx)
	}

	layout := i.layouts[idx]

	i.lock.Lock()
	i.running = true
	i.setLabel(layout)
	i.lock.Unlock()

	change := LayoutChange{At: i.now(), Index: idx, Layout: layout}
	for _, o := range i.observers {
		if err := o.LayoutChanged(change); err != nil {
			i.log.Warnw("layout change observer failed", "layout", layout, "error", err)
		}
	}

	return nil
}

func (i *Indicator) applyColour(idx int) {
	colour, ok := i.colours.ColourFor(idx)
	if !ok || i.colourSlot == nil {
		return
	}

	i.colourSlot.SetColour(colour)
}

// ProcessSignals subscribes to kbdd's signals and handles them until ctx is
// cancelled or the stream ends. A failed subscription leaves the indicator
// in poll-only mode and is not an error.
func (i *Indicator) ProcessSignals(ctx context.Context, source NotificationSource) error {
	events, err := source.Subscribe(ctx)
	if err != nil || events == nil {
		i.log.Warnw("could not subscribe to kbdd signal", "error", err)
		return nil
	}

	i.setPushAvailable(true)
	defer i.setPushAvailable(false)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				i.log.Warn("kbdd signal stream closed, falling back to polling")
				return nil
			}
			// errors are already logged by the handler
			_ = i.OnSignal(ev)
		}
	}
}

// Changed is signalled whenever the label changes.
func (i *Indicator) Changed() <-chan struct{} {
	return i.changed
}

func (i *Indicator) State() State {
	i.lock.Lock()
	defer i.lock.Unlock()

	return State{
		Label:         i.label,
		Running:       i.running,
		PushAvailable: i.pushAvailable,
	}
}

func (i *Indicator) setPushAvailable(available bool) {
	i.lock.Lock()
	defer i.lock.Unlock()
	i.pushAvailable = available
}

// setLabel must be called with the lock held.
func (i *Indicator) setLabel(label string) {
	if i.label == label {
		return
	}

	i.label = label
	select {
	case i.changed <- struct{}{}:
	default:
	}
}

// LayoutIndex extracts the layout index carried by a layoutChanged signal.
func LayoutIndex(body []any) (int, error) {
	if len(body) != 1 {
		return -1, fmt.Errorf("%w: want 1 argument, got %d", ErrBadPayload, len(body))
	}

	switch v := body[0].(type) {
	case int:
		return v, nil
	case int16:
		return int(v), nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case uint8:
		return int(v), nil
	case uint16:
		return int(v), nil
	case uint32:
		return int(v), nil
	case uint64:
		return int(v), nil
	}

	return -1, fmt.Errorf("%w: argument of type %T", ErrBadPayload, body[0])
}
