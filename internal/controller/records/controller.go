package records

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/kovacsd/petcare/internal/domain/models"
)

var (
	// ErrBusy rejects a second mutating call while one is still in flight.
	ErrBusy = errors.New("records: operation already in flight")
	// ErrNoDraft is returned when SubmitCreate runs without an open draft.
	ErrNoDraft = errors.New("records: no creation in progress")
	// ErrNoSelection is returned when DeleteSelected runs without a selection.
	ErrNoSelection = errors.New("records: no record selected")
)

// Backend is the slice of the API client the controller needs.
type Backend interface {
	CreateRecord(ctx context.Context, petID int64, kindSegment string, draft map[string]string) (int64, error)
	DeleteRecord(ctx context.Context, kindSegment string, id int64) error
}

// MutationFunc is invoked after a successful create or delete, once the
// backend has durably applied the change. The parent refreshes on it.
type MutationFunc func(ctx context.Context, kind Kind)

// Controller manages one medical-history collection of a pet: the record set
// on loan from the parent, a read-only detail selection, a creation draft,
// and deletion. The two overlays (Viewing, Creating) are mutually exclusive.
//
// Records are never mutated locally; every create/delete is followed by the
// parent refetching the whole pet, so the collection always mirrors a server
// snapshot. Whether the collection is empty (single large create surface) or
// populated (grid plus add control), creation enters through StartCreate.
type Controller[R models.MedicalRecord] struct {
	kind      Kind
	backend   Backend
	logger    *zap.Logger
	onMutated MutationFunc

	mu       sync.Mutex
	records  []R
	selected *R
	creating bool
	draft    map[string]string
	busy     bool
	lastErr  error
	closed   bool
}

// New wires a collection controller for one record kind.
func New[R models.MedicalRecord](kind Kind, backend Backend, logger *zap.Logger, onMutated MutationFunc) *Controller[R] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller[R]{
		kind:      kind,
		backend:   backend,
		logger:    logger,
		onMutated: onMutated,
	}
}

// Kind returns the kind descriptor this controller was built for.
func (c *Controller[R]) Kind() Kind { return c.kind }

// SetRecords hands the controller the collection for the current render.
// The slice stays owned by the parent's pet snapshot.
func (c *Controller[R]) SetRecords(rs []R) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = rs
}

// Records returns the collection last handed over by the parent.
func (c *Controller[R]) Records() []R {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.records
}

// View opens the read-only detail overlay for one record. No network call.
// Ignored while the creation overlay is open.
func (c *Controller[R]) View(rec R) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.creating {
		c.logger.Warn("view requested while creating", zap.String("kind", c.kind.PathSegment))
		return
	}
	c.selected = &rec
}

// SelectByID opens the detail overlay for the record with the given
// identifier, reporting whether it was found in the collection.
func (c *Controller[R]) SelectByID(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.creating {
		return false
	}
	for _, rec := range c.records {
		if rec.RecordID() == id {
			r := rec
			c.selected = &r
			return true
		}
	}
	return false
}

// Selected returns the record shown in the detail overlay, if any.
func (c *Controller[R]) Selected() (R, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		var zero R
		return zero, false
	}
	return *c.selected, true
}

// Viewing reports whether the detail overlay is open.
func (c *Controller[R]) Viewing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected != nil
}

// StartCreate opens the creation overlay with an empty draft for this kind.
// Ignored while the detail overlay is open.
func (c *Controller[R]) StartCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected != nil {
		c.logger.Warn("create requested while viewing", zap.String("kind", c.kind.PathSegment))
		return
	}
	c.creating = true
	c.draft = make(map[string]string, len(c.kind.Fields))
	for _, f := range c.kind.Fields {
		c.draft[f] = ""
	}
}

// Creating reports whether the creation overlay is open.
func (c *Controller[R]) Creating() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.creating
}

// UpdateDraftField mutates one field of the open draft. Purely local; no
// validation happens here. Fields outside the kind's schema are dropped.
func (c *Controller[R]) UpdateDraftField(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.creating {
		return
	}
	if _, ok := c.draft[name]; !ok {
		c.logger.Debug("ignoring unknown draft field",
			zap.String("kind", c.kind.PathSegment),
			zap.String("field", name))
		return
	}
	c.draft[name] = value
}

// Draft returns a copy of the open draft, or nil when not creating.
func (c *Controller[R]) Draft() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft == nil {
		return nil
	}
	out := make(map[string]string, len(c.draft))
	for k, v := range c.draft {
		out[k] = v
	}
	return out
}

// CloseOverlay returns to the idle list from either overlay. An in-progress
// draft is discarded, not persisted anywhere.
func (c *Controller[R]) CloseOverlay() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = nil
	c.creating = false
	c.draft = nil
	c.lastErr = nil
}

// SubmitCreate sends the open draft to the backend. On success the overlay
// closes, the draft is cleared and exactly one mutation notification fires.
// On failure the overlay stays open with the error surfaced so the user can
// retry; no notification is emitted.
func (c *Controller[R]) SubmitCreate(ctx context.Context, petID int64) error {
	c.mu.Lock()
	if !c.creating {
		c.mu.Unlock()
		return ErrNoDraft
	}
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	c.busy = true
	draft := make(map[string]string, len(c.draft))
	for k, v := range c.draft {
		draft[k] = v
	}
	c.mu.Unlock()

	id, err := c.backend.CreateRecord(ctx, petID, c.kind.PathSegment, draft)

	c.mu.Lock()
	c.busy = false
	if c.closed {
		c.mu.Unlock()
		return err
	}
	if err != nil {
		c.lastErr = err
		c.mu.Unlock()
		c.logger.Error("record creation failed",
			zap.String("kind", c.kind.PathSegment),
			zap.Int64("petId", petID),
			zap.Error(err))
		return err
	}
	c.creating = false
	c.draft = nil
	c.lastErr = nil
	c.mu.Unlock()

	c.logger.Info("record created",
		zap.String("kind", c.kind.PathSegment),
		zap.Int64("petId", petID),
		zap.Int64("recordId", id))

	if c.onMutated != nil {
		c.onMutated(ctx, c.kind)
	}
	return nil
}

// DeleteSelected deletes the record in the detail overlay. On success the
// overlay closes and exactly one mutation notification fires; on failure it
// stays open with the error surfaced.
func (c *Controller[R]) DeleteSelected(ctx context.Context) error {
	c.mu.Lock()
	if c.selected == nil {
		c.mu.Unlock()
		return ErrNoSelection
	}
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	c.busy = true
	id := (*c.selected).RecordID()
	c.mu.Unlock()

	err := c.backend.DeleteRecord(ctx, c.kind.PathSegment, id)

	c.mu.Lock()
	c.busy = false
	if c.closed {
		c.mu.Unlock()
		return err
	}
	if err != nil {
		c.lastErr = err
		c.mu.Unlock()
		c.logger.Error("record deletion failed",
			zap.String("kind", c.kind.PathSegment),
			zap.Int64("recordId", id),
			zap.Error(err))
		return err
	}
	c.selected = nil
	c.lastErr = nil
	c.mu.Unlock()

	c.logger.Info("record deleted",
		zap.String("kind", c.kind.PathSegment),
		zap.Int64("recordId", id))

	if c.onMutated != nil {
		c.onMutated(ctx, c.kind)
	}
	return nil
}

// Busy reports whether a mutating call is in flight. UI affordances that
// would issue another one are disabled while true.
func (c *Controller[R]) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Err returns the error surfaced next to the open overlay, if any.
func (c *Controller[R]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Close marks the controller's consumer as gone. A response arriving for an
// in-flight call afterwards is dropped instead of applied to stale state.
func (c *Controller[R]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}
