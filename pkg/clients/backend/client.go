package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/kovacsd/petcare/internal/domain/models"
	"github.com/kovacsd/petcare/pkg/clients/auth"
)

// Client issues typed requests against the pets and medical-history REST API.
// A bearer credential is attached uniformly to every call; mutations are
// never applied optimistically, the caller refetches after each one.
type Client struct {
	httpClient *resty.Client
}

// NewClient builds a backend API client for the given base URL. The
// credential provider is consulted before every request.
func NewClient(baseURL string, creds auth.CredentialProvider, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	restyClient := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	restyClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		req.SetHeader("X-Request-ID", uuid.NewString())

		if creds == nil {
			return nil
		}
		token, err := creds.AccessToken(req.Context())
		if err != nil {
			return err
		}
		req.SetHeader("Authorization", "Bearer "+token)
		return nil
	})

	return &Client{httpClient: restyClient}
}

// ListPetsByOwner returns every pet belonging to the owner identity.
func (c *Client) ListPetsByOwner(ctx context.Context, owner string) ([]models.Pet, error) {
	var pets []models.Pet

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&pets).
		Get("/pets/owner/" + url.PathEscape(owner))
	if err != nil {
		return nil, fmt.Errorf("list pets: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	for i := range pets {
		pets[i].MedicalHistory.EnsureCollections()
	}
	return pets, nil
}

// GetPet fetches one pet together with its embedded medical history.
// Returns ErrNotFound when the identifier does not exist.
func (c *Client) GetPet(ctx context.Context, id int64) (*models.Pet, error) {
	pet := new(models.Pet)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(pet).
		Get(fmt.Sprintf("/pets/%d", id))
	if err != nil {
		return nil, fmt.Errorf("get pet %d: %w", id, err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	pet.MedicalHistory.EnsureCollections()
	return pet, nil
}

// CreatePet submits a draft and returns the server-confirmed pet with its
// assigned identifier.
func (c *Client) CreatePet(ctx context.Context, draft models.PetDraft) (*models.Pet, error) {
	pet := new(models.Pet)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(draft).
		SetResult(pet).
		Post("/pets")
	if err != nil {
		return nil, fmt.Errorf("create pet: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	pet.MedicalHistory.EnsureCollections()
	return pet, nil
}

// DeletePet removes a pet and its medical history.
func (c *Client) DeletePet(ctx context.Context, id int64) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/pets/%d", id))
	if err != nil {
		return fmt.Errorf("delete pet %d: %w", id, err)
	}
	return checkStatus(resp)
}

// CreateRecord adds one medical-history record of the given kind (addressed
// by its endpoint path segment) to a pet. The draft travels as-is; the server
// assigns the identifier, which is returned.
func (c *Client) CreateRecord(ctx context.Context, petID int64, kindSegment string, draft map[string]string) (int64, error) {
	var created struct {
		ID int64 `json:"id"`
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(draft).
		SetResult(&created).
		Post(fmt.Sprintf("/medical/history/%d/%s", petID, kindSegment))
	if err != nil {
		return 0, fmt.Errorf("create %s record: %w", kindSegment, err)
	}
	if err := checkStatus(resp); err != nil {
		return 0, err
	}
	return created.ID, nil
}

// DeleteRecord removes one medical-history record by identifier.
func (c *Client) DeleteRecord(ctx context.Context, kindSegment string, id int64) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/medical/history/%s/%d", kindSegment, id))
	if err != nil {
		return fmt.Errorf("delete %s record %d: %w", kindSegment, id, err)
	}
	return checkStatus(resp)
}

func checkStatus(resp *resty.Response) error {
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode() >= http.StatusBadRequest:
		return &APIError{
			StatusCode: resp.StatusCode(),
			Message:    strings.TrimSpace(resp.String()),
		}
	}
	return nil
}
