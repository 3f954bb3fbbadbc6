package petdetail

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/kovacsd/petcare/internal/controller/records"
	"github.com/kovacsd/petcare/internal/domain/models"
	"github.com/kovacsd/petcare/pkg/clients/backend"
)

// State is the lifecycle of the detail screen.
type State int

const (
	Loading State = iota
	Ready
	NotFound
	Failed
)

// Backend is the slice of the API client the controller and its six
// collection controllers need.
type Backend interface {
	GetPet(ctx context.Context, id int64) (*models.Pet, error)
	records.Backend
}

// Controller drives the per-pet detail screen: one pet snapshot with its
// embedded medical history, a single selected tab over the six record kinds,
// and a full refetch whenever any child collection reports a mutation.
//
// The six collections arrive embedded in one pet payload, so refetching the
// whole pet is the only way to guarantee the header and every collection
// reflect the same server snapshot after a change. The snapshot is only ever
// replaced wholesale, never patched in place.
type Controller struct {
	backend Backend
	logger  *zap.Logger

	Conditions   *records.Controller[models.MedicalCondition]
	Vaccinations *records.Controller[models.VaccinationRecord]
	Medications  *records.Controller[models.MedicationRecord]
	Allergies    *records.Controller[models.Allergy]
	Surgeries    *records.Controller[models.Surgery]
	CheckUps     *records.Controller[models.CheckUp]

	mu     sync.Mutex
	petID  int64
	pet    *models.Pet
	state  State
	err    error
	tab    int
	gen    int
	closed bool
}

// New wires the aggregate controller and its six collection controllers.
func New(api Backend, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Controller{
		backend: api,
		logger:  logger,
		state:   Loading,
	}

	c.Conditions = records.New[models.MedicalCondition](records.Conditions, api, logger, c.onChildMutated)
	c.Vaccinations = records.New[models.VaccinationRecord](records.Vaccinations, api, logger, c.onChildMutated)
	c.Medications = records.New[models.MedicationRecord](records.Medications, api, logger, c.onChildMutated)
	c.Allergies = records.New[models.Allergy](records.Allergies, api, logger, c.onChildMutated)
	c.Surgeries = records.New[models.Surgery](records.Surgeries, api, logger, c.onChildMutated)
	c.CheckUps = records.New[models.CheckUp](records.CheckUps, api, logger, c.onChildMutated)

	return c
}

// Load fetches the pet and distributes its collections to the children.
// A response belonging to a superseded load, or arriving after Close, is
// dropped instead of applied to stale state.
func (c *Controller) Load(ctx context.Context, id int64) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.petID = id
	c.state = Loading
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	pet, err := c.backend.GetPet(ctx, id)

	c.mu.Lock()
	if gen != c.gen || c.closed {
		c.mu.Unlock()
		return
	}

	switch {
	case errors.Is(err, backend.ErrNotFound):
		c.state = NotFound
		c.pet = nil
		c.err = nil
	case err != nil:
		c.state = Failed
		c.pet = nil
		c.err = err
	default:
		c.state = Ready
		c.pet = pet
		c.err = nil
		// Distributed under the same lock as the generation check, so a
		// superseding load can never interleave between the snapshot and
		// its collections.
		c.Conditions.SetRecords(pet.MedicalHistory.MedicalConditions)
		c.Vaccinations.SetRecords(pet.MedicalHistory.VaccinationRecords)
		c.Medications.SetRecords(pet.MedicalHistory.MedicationRecords)
		c.Allergies.SetRecords(pet.MedicalHistory.Allergies)
		c.Surgeries.SetRecords(pet.MedicalHistory.Surgeries)
		c.CheckUps.SetRecords(pet.MedicalHistory.CheckUps)
	}
	c.mu.Unlock()

	if err != nil && !errors.Is(err, backend.ErrNotFound) {
		c.logger.Error("pet load failed", zap.Int64("petId", id), zap.Error(err))
	}
}

// onChildMutated re-runs the full load. One notification, one refetch,
// regardless of which of the six kinds triggered it.
func (c *Controller) onChildMutated(ctx context.Context, kind records.Kind) {
	c.mu.Lock()
	id := c.petID
	c.mu.Unlock()

	c.logger.Info("collection mutated, refreshing pet",
		zap.String("kind", kind.PathSegment),
		zap.Int64("petId", id))

	c.Load(ctx, id)
}

// SelectTab switches the visible record kind. Pure local state, no refetch.
// Out-of-range indices are ignored.
func (c *Controller) SelectTab(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(records.Kinds()) {
		return
	}
	c.tab = index
}

// Tab returns the selected kind index, defaulting to the first.
func (c *Controller) Tab() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tab
}

// State returns the screen state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Pet returns the current snapshot, nil unless Ready.
func (c *Controller) Pet() *models.Pet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pet
}

// PetID returns the identifier of the last requested load.
func (c *Controller) PetID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.petID
}

// Err returns the load error when Failed.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Close marks the screen as gone and propagates to the children; in-flight
// responses are dropped afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.Conditions.Close()
	c.Vaccinations.Close()
	c.Medications.Close()
	c.Allergies.Close()
	c.Surgeries.Close()
	c.CheckUps.Close()
}
