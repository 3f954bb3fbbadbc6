package petcreate

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/kovacsd/petcare/internal/domain/models"
	"github.com/kovacsd/petcare/pkg/clients/registry"
	"github.com/kovacsd/petcare/pkg/validate"
)

var (
	// ErrValidation signals that the draft failed field validation and no
	// network call was made. Per-field messages are in FieldErrors.
	ErrValidation = errors.New("petcreate: draft validation failed")
	// ErrBusy rejects a second submission while one is still in flight.
	ErrBusy = errors.New("petcreate: submission already in flight")
)

// Backend is the slice of the API client the controller needs.
type Backend interface {
	CreatePet(ctx context.Context, draft models.PetDraft) (*models.Pet, error)
}

// CreatedFunc is invoked after the backend confirms the new pet, so owning
// lists can refresh.
type CreatedFunc func(ctx context.Context)

// Controller owns a pet creation draft: field edits, validation, the
// optional registry import flow, and submission. The draft is client-only
// and discarded on cancel or once the server-confirmed pet replaces it.
type Controller struct {
	backend   Backend
	registry  registry.Client
	validator *validate.Validator
	logger    *zap.Logger
	onCreated CreatedFunc
	owner     string

	mu        sync.Mutex
	draft     models.PetDraft
	fieldErrs map[string]string
	lastErr   error
	busy      bool

	importOpen bool
	searchName string
	searchYear string
	results    []registry.Record
}

// New builds a creation controller for the given owner identity. The
// registry client may be nil when no import source is configured.
func New(owner string, api Backend, reg registry.Client, logger *zap.Logger, onCreated CreatedFunc) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		backend:   api,
		registry:  reg,
		validator: validate.New(),
		logger:    logger,
		onCreated: onCreated,
		owner:     owner,
		draft:     models.PetDraft{Owner: owner},
	}
}

// Draft returns the current working copy.
func (c *Controller) Draft() models.PetDraft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// SetField mutates one draft field by its form name. Purely local; values
// are validated only at submission. Unknown fields are dropped.
func (c *Controller) SetField(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch name {
	case "name":
		c.draft.Name = value
	case "species":
		c.draft.Species = value
	case "breed":
		c.draft.Breed = value
	case "gender":
		c.draft.Gender = models.Gender(value)
	case "weight":
		if value == "" {
			c.draft.Weight = 0
			return
		}
		w, err := strconv.ParseFloat(value, 64)
		if err != nil {
			c.logger.Debug("ignoring non-numeric weight", zap.String("value", value))
			return
		}
		c.draft.Weight = w
	case "color":
		c.draft.Color = value
	case "microchipNumber":
		c.draft.MicrochipNumber = value
	case "dateOfBirth":
		c.draft.DateOfBirth = value
	default:
		c.logger.Debug("ignoring unknown draft field", zap.String("field", name))
	}
}

// ApplyImportedFields merges registry output into the draft field by field.
// Fields absent from the import are never cleared.
func (c *Controller) ApplyImportedFields(fields registry.DraftFields) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyImportedLocked(fields)
}

func (c *Controller) applyImportedLocked(fields registry.DraftFields) {
	if fields.Name != "" {
		c.draft.Name = fields.Name
	}
	if fields.Species != "" {
		c.draft.Species = fields.Species
	}
	if fields.Breed != "" {
		c.draft.Breed = fields.Breed
	}
	if fields.Gender != "" {
		c.draft.Gender = fields.Gender
	}
	if fields.Color != "" {
		c.draft.Color = fields.Color
	}
	if fields.MicrochipNumber != "" {
		c.draft.MicrochipNumber = fields.MicrochipNumber
	}
	if fields.DateOfBirth != "" {
		c.draft.DateOfBirth = fields.DateOfBirth
	}
}

// Validate checks the draft and returns one message per offending field.
// Required: name, species, gender; gender must be Male or Female.
func (c *Controller) Validate() map[string]string {
	c.mu.Lock()
	draft := c.draft
	c.mu.Unlock()
	return c.validator.Struct(draft)
}

// FieldErrors returns the per-field messages from the last failed submission.
func (c *Controller) FieldErrors() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.fieldErrs))
	for k, v := range c.fieldErrs {
		out[k] = v
	}
	return out
}

// Err returns the submission error surfaced inline, if any.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Busy reports whether a submission is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Submit validates the draft and creates the pet. Validation failures abort
// before any network call. On success the caller is notified (lists
// refresh), the draft resets, and the new pet's identifier is returned for
// navigation.
func (c *Controller) Submit(ctx context.Context) (int64, error) {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return 0, ErrBusy
	}

	errs := c.validator.Struct(c.draft)
	if len(errs) > 0 {
		c.fieldErrs = errs
		c.mu.Unlock()
		return 0, ErrValidation
	}
	c.fieldErrs = nil
	c.busy = true
	draft := c.draft
	c.mu.Unlock()

	pet, err := c.backend.CreatePet(ctx, draft)

	c.mu.Lock()
	c.busy = false
	if err != nil {
		c.lastErr = err
		c.mu.Unlock()
		c.logger.Error("pet creation failed", zap.Error(err))
		return 0, err
	}
	c.draft = models.PetDraft{Owner: c.owner}
	c.lastErr = nil
	c.mu.Unlock()

	c.logger.Info("pet created", zap.Int64("petId", pet.ID), zap.String("name", pet.Name))

	if c.onCreated != nil {
		c.onCreated(ctx)
	}
	return pet.ID, nil
}

// Cancel resets the draft to empty, discarding any typed or imported values,
// and closes the import flow.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = models.PetDraft{Owner: c.owner}
	c.fieldErrs = nil
	c.lastErr = nil
	c.clearSearchLocked()
	c.importOpen = false
}

// OpenImport opens the registry import flow.
func (c *Controller) OpenImport() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.importOpen = true
}

// CloseImport closes the import flow, discarding transient search state.
func (c *Controller) CloseImport() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearSearchLocked()
	c.importOpen = false
}

// ImportOpen reports whether the import flow is open.
func (c *Controller) ImportOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.importOpen
}

// SetSearch updates the import query: name fragment and optional birth year.
func (c *Controller) SetSearch(name, birthYear string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searchName = name
	c.searchYear = birthYear
}

// Search queries the registry with the current input. An empty name fragment
// is rejected before any network call. The query fields clear after a
// successful search; the result list stays for selection.
func (c *Controller) Search(ctx context.Context) error {
	c.mu.Lock()
	if c.registry == nil {
		c.mu.Unlock()
		return errors.New("petcreate: no registry configured")
	}
	q := registry.Query{Name: c.searchName, BirthYear: c.searchYear}
	c.mu.Unlock()

	if q.Name == "" {
		return registry.ErrEmptyQuery
	}

	results, err := c.registry.Search(ctx, q)
	if err != nil {
		c.logger.Error("registry search failed", zap.Error(err))
		return err
	}

	c.mu.Lock()
	c.results = results
	c.searchName = ""
	c.searchYear = ""
	c.mu.Unlock()
	return nil
}

// Results returns the current registry search hits.
func (c *Controller) Results() []registry.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.results
}

// Select merges the chosen registry record into the draft, clears the
// transient search state and closes the import flow.
func (c *Controller) Select(rec registry.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.registry == nil {
		return
	}
	c.applyImportedLocked(c.registry.DraftFields(rec))
	c.clearSearchLocked()
	c.importOpen = false
}

func (c *Controller) clearSearchLocked() {
	c.searchName = ""
	c.searchYear = ""
	c.results = nil
}
