package registry

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/kovacsd/petcare/internal/domain/models"
)

// LegacyClient talks to the older registry schema: an unauthenticated GET
// with the name in the path, English field names and a single timestamp for
// the birth date. Kept behind the same interface so reverting the registry
// is a configuration change only.
type LegacyClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewLegacyClient builds an adapter for the older registry schema.
func NewLegacyClient(baseURL string, timeout time.Duration, logger *zap.Logger) *LegacyClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	restyClient := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	return &LegacyClient{httpClient: restyClient, logger: logger}
}

type legacyHorse struct {
	HorseID     int64  `json:"horseId"`
	Name        string `json:"name"`
	BirthDate   string `json:"birthDate"`
	Breed       string `json:"breed"`
	Gender      string `json:"gender"`
	Color       string `json:"color"`
	ChipNumber  string `json:"chipNumber"`
	BreederName string `json:"breederName"`
}

// Search queries the registry by name fragment. The legacy endpoint has no
// birth-year parameter, so the filter is applied client-side.
func (c *LegacyClient) Search(ctx context.Context, q Query) ([]Record, error) {
	if strings.TrimSpace(q.Name) == "" {
		return nil, ErrEmptyQuery
	}

	var horses []legacyHorse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&horses).
		Get("/horseSearch/" + url.PathEscape(q.Name))
	if err != nil {
		return nil, fmt.Errorf("horse search: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("horse search: registry status=%d", resp.StatusCode())
	}

	records := make([]Record, 0, len(horses))
	for _, h := range horses {
		if q.BirthYear != "" && !birthYearMatches(h.BirthDate, q.BirthYear) {
			continue
		}
		records = append(records, Record{
			ID:          strconv.FormatInt(h.HorseID, 10),
			DisplayName: h.Name,
			Breeder:     h.BreederName,
			Native: map[string]string{
				"name":       h.Name,
				"birthDate":  h.BirthDate,
				"breed":      h.Breed,
				"gender":     h.Gender,
				"color":      h.Color,
				"chipNumber": h.ChipNumber,
			},
		})
	}

	c.logger.Debug("registry search completed",
		zap.String("schema", SchemaLegacy),
		zap.Int("results", len(records)))

	return records, nil
}

// DraftFields maps a selected horse into pet draft fields. Species is always
// "Horse"; the timestamp birth date is normalized to yyyy-MM-dd.
func (c *LegacyClient) DraftFields(rec Record) DraftFields {
	return DraftFields{
		Name:            rec.Native["name"],
		Species:         "Horse",
		Breed:           rec.Native["breed"],
		Gender:          legacyGender(rec.Native["gender"]),
		Color:           rec.Native["color"],
		MicrochipNumber: rec.Native["chipNumber"],
		DateOfBirth:     timestampDateOfBirth(rec.Native["birthDate"]),
	}
}

// legacyGender is a closed lookup from the registry's English gender
// vocabulary. Unrecognized values map to unset, never an error.
func legacyGender(native string) models.Gender {
	switch strings.ToLower(strings.TrimSpace(native)) {
	case "mare":
		return models.GenderFemale
	case "stallion", "gelding":
		return models.GenderMale
	default:
		return ""
	}
}

func timestampDateOfBirth(value string) string {
	if value == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.Format(models.DateLayout)
	}
	if t, err := time.Parse(models.DateLayout, value); err == nil {
		return t.Format(models.DateLayout)
	}
	return ""
}

func birthYearMatches(birthDate, year string) bool {
	dob := timestampDateOfBirth(birthDate)
	return dob != "" && strings.HasPrefix(dob, year+"-")
}
