package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kovacsd/petcare/internal/controller/petcreate"
	"github.com/kovacsd/petcare/internal/controller/petdetail"
	"github.com/kovacsd/petcare/internal/controller/petlist"
	"github.com/kovacsd/petcare/internal/domain/models"
	"github.com/kovacsd/petcare/pkg/clients/auth"
	"github.com/kovacsd/petcare/pkg/clients/backend"
	"github.com/kovacsd/petcare/pkg/clients/registry"
)

// collection is the kind-independent surface of a record collection
// controller, so the facade can address any of the six by path segment.
type collection interface {
	StartCreate()
	UpdateDraftField(name, value string)
	SubmitCreate(ctx context.Context, petID int64) error
	SelectByID(id int64) bool
	DeleteSelected(ctx context.Context) error
	CloseOverlay()
}

// PetHandler adapts the controllers to the local UI facade. It holds the
// single-user screen state: the ownership list, the creation draft, and the
// currently open pet detail.
type PetHandler struct {
	api    *backend.Client
	owner  string
	logger *zap.Logger

	list   *petlist.Controller
	create *petcreate.Controller

	mu     sync.Mutex
	detail *petdetail.Controller
}

// NewPetHandler constructs the HTTP handler adapter.
func NewPetHandler(api *backend.Client, reg registry.Client, owner string, logger *zap.Logger) *PetHandler {
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &PetHandler{
		api:    api,
		owner:  owner,
		logger: logger,
		list:   petlist.New(api, logger.Named("controller.petlist")),
	}
	h.create = petcreate.New(owner, api, reg, logger.Named("controller.petcreate"), h.list.OnPetCreated)
	return h
}

// ListPets loads and returns every pet for the owner.
func (h *PetHandler) ListPets(c *gin.Context) {
	owner := c.DefaultQuery("owner", h.owner)
	if owner == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner is required"})
		return
	}

	if err := h.list.Load(c.Request.Context(), owner); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.list.Pets())
}

// CreatePet runs the creation flow: field edits applied to the draft,
// validation, submission, and the new identifier handed back for navigation.
func (h *PetHandler) CreatePet(c *gin.Context) {
	var fields map[string]string
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	for name, value := range fields {
		h.create.SetField(name, value)
	}

	id, err := h.create.Submit(c.Request.Context())
	if errors.Is(err, petcreate.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": h.create.FieldErrors()})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// GetPet loads the aggregate detail screen for one pet.
func (h *PetHandler) GetPet(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	detail := h.detailFor(id)
	detail.Load(c.Request.Context(), id)

	switch detail.State() {
	case petdetail.Ready:
		c.JSON(http.StatusOK, detail.Pet())
	case petdetail.NotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "pet not found"})
	default:
		h.fail(c, detail.Err())
	}
}

// DeletePet runs the two-step confirmation against the loaded list.
func (h *PetHandler) DeletePet(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var target *models.Pet
	for _, pet := range h.list.Pets() {
		if pet.ID == id {
			p := pet
			target = &p
			break
		}
	}
	if target == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "pet not found"})
		return
	}

	h.list.RequestDelete(*target)
	if err := h.list.ConfirmDelete(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateRecord adds one medical-history record to the open pet. The detail
// controller refetches the pet after the mutation, so a subsequent GetPet
// reflects the server snapshot.
func (h *PetHandler) CreateRecord(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	col, ok := h.collectionFor(c, id)
	if !ok {
		return
	}

	var fields map[string]string
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	col.StartCreate()
	for name, value := range fields {
		col.UpdateDraftField(name, value)
	}

	if err := col.SubmitCreate(c.Request.Context(), id); err != nil {
		col.CloseOverlay()
		h.fail(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// DeleteRecord removes one medical-history record from the open pet.
func (h *PetHandler) DeleteRecord(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	col, ok := h.collectionFor(c, id)
	if !ok {
		return
	}
	recordID, ok := pathID(c, "recordId")
	if !ok {
		return
	}

	if !col.SelectByID(recordID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	if err := col.DeleteSelected(c.Request.Context()); err != nil {
		col.CloseOverlay()
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SearchRegistry drives the registry import search on the creation draft.
func (h *PetHandler) SearchRegistry(c *gin.Context) {
	var req struct {
		Name      string `json:"name"`
		BirthYear string `json:"birthYear"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	h.create.OpenImport()
	h.create.SetSearch(req.Name, req.BirthYear)
	if err := h.create.Search(c.Request.Context()); err != nil {
		if errors.Is(err, registry.ErrEmptyQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": h.create.Results()})
}

// SelectRegistryResult merges one search hit into the creation draft and
// returns the merged draft.
func (h *PetHandler) SelectRegistryResult(c *gin.Context) {
	var req struct {
		ID string `json:"id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	for _, rec := range h.create.Results() {
		if rec.ID == req.ID {
			h.create.Select(rec)
			c.JSON(http.StatusOK, h.create.Draft())
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "result not found"})
}

// detailFor returns the detail controller for the pet, replacing the
// previous screen when navigating to a different one.
func (h *PetHandler) detailFor(id int64) *petdetail.Controller {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.detail != nil && h.detail.PetID() == id {
		return h.detail
	}
	if h.detail != nil {
		h.detail.Close()
	}
	h.detail = petdetail.New(h.api, h.logger.Named("controller.petdetail"))
	return h.detail
}

func (h *PetHandler) collectionFor(c *gin.Context, petID int64) (collection, bool) {
	detail := h.detailFor(petID)
	if detail.State() != petdetail.Ready || detail.PetID() != petID {
		detail.Load(c.Request.Context(), petID)
		if detail.State() == petdetail.NotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "pet not found"})
			return nil, false
		}
		if detail.State() != petdetail.Ready {
			h.fail(c, detail.Err())
			return nil, false
		}
	}

	switch c.Param("kind") {
	case "medicalConditions":
		return detail.Conditions, true
	case "vaccinationRecords":
		return detail.Vaccinations, true
	case "medications":
		return detail.Medications, true
	case "allergies":
		return detail.Allergies, true
	case "surgeries":
		return detail.Surgeries, true
	case "checkUps":
		return detail.CheckUps, true
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown record kind"})
		return nil, false
	}
}

// fail maps client errors onto facade status codes.
func (h *PetHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, backend.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, auth.ErrAuth):
		h.logger.Error("credential acquisition failed", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unable to obtain credentials"})
	default:
		h.logger.Error("backend call failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend call failed"})
	}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
