package petlist

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/kovacsd/petcare/internal/domain/models"
)

var (
	// ErrNoPendingDelete is returned when ConfirmDelete runs without a prior
	// RequestDelete.
	ErrNoPendingDelete = errors.New("petlist: no deletion pending")
	// ErrBusy rejects a second deletion while one is still in flight.
	ErrBusy = errors.New("petlist: deletion already in flight")
)

// Backend is the slice of the API client the controller needs.
type Backend interface {
	ListPetsByOwner(ctx context.Context, owner string) ([]models.Pet, error)
	DeletePet(ctx context.Context, id int64) error
}

// Controller drives the ownership-scoped pet list: loading, a two-step
// delete confirmation, and a refresh hook for newly created pets.
//
// Deletion is the one mutation reconciled with a local patch instead of a
// refetch: the confirmed list item uniquely identifies what was removed.
type Controller struct {
	backend Backend
	logger  *zap.Logger

	mu            sync.Mutex
	owner         string
	pets          []models.Pet
	loading       bool
	pendingDelete *models.Pet
	busy          bool
	lastErr       error
}

// New builds an ownership list controller.
func New(api Backend, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{backend: api, logger: logger, loading: true}
}

// Load fetches all pets for the owner.
func (c *Controller) Load(ctx context.Context, owner string) error {
	c.mu.Lock()
	c.owner = owner
	c.loading = true
	c.mu.Unlock()

	pets, err := c.backend.ListPetsByOwner(ctx, owner)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.lastErr = err
		c.logger.Error("pet list load failed", zap.String("owner", owner), zap.Error(err))
		return err
	}
	c.pets = pets
	c.lastErr = nil
	return nil
}

// Pets returns the current list.
func (c *Controller) Pets() []models.Pet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pets
}

// Loading reports whether a fetch is outstanding.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the last load or delete error, if any.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// RequestDelete opens the confirmation step for one pet.
func (c *Controller) RequestDelete(pet models.Pet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingDelete = &pet
}

// PendingDelete returns the pet awaiting confirmation, if any.
func (c *Controller) PendingDelete() (models.Pet, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pendingDelete == nil {
		return models.Pet{}, false
	}
	return *c.pendingDelete, true
}

// CancelDelete dismisses the confirmation step.
func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingDelete = nil
}

// ConfirmDelete deletes the pending pet. On success exactly that pet is
// removed from the local list, without a refetch. On failure the
// confirmation stays open with the error surfaced.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	if c.pendingDelete == nil {
		c.mu.Unlock()
		return ErrNoPendingDelete
	}
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	c.busy = true
	id := c.pendingDelete.ID
	c.mu.Unlock()

	err := c.backend.DeletePet(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	if err != nil {
		c.lastErr = err
		c.logger.Error("pet deletion failed", zap.Int64("petId", id), zap.Error(err))
		return err
	}

	kept := make([]models.Pet, 0, len(c.pets))
	for _, p := range c.pets {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	c.pets = kept
	c.pendingDelete = nil
	c.lastErr = nil

	c.logger.Info("pet deleted", zap.Int64("petId", id))
	return nil
}

// OnPetCreated refreshes the list after a creation elsewhere.
func (c *Controller) OnPetCreated(ctx context.Context) {
	c.mu.Lock()
	owner := c.owner
	c.mu.Unlock()
	if owner == "" {
		return
	}
	if err := c.Load(ctx, owner); err != nil {
		c.logger.Error("refresh after creation failed", zap.Error(err))
	}
}
