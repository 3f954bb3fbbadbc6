package registry

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/kovacsd/petcare/internal/domain/models"
	"github.com/kovacsd/petcare/pkg/clients/auth"
)

// MLOSZClient talks to the current registry schema: an authenticated
// JSON-bodied POST with Hungarian field names and a split year/month/day
// birth date.
type MLOSZClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewMLOSZClient builds an adapter for the current registry schema.
func NewMLOSZClient(baseURL string, creds auth.CredentialProvider, timeout time.Duration, logger *zap.Logger) *MLOSZClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	restyClient := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	restyClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
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

	return &MLOSZClient{httpClient: restyClient, logger: logger}
}

type mloszHorse struct {
	LoID         int64  `json:"loId"`
	Nev          string `json:"nev"`
	SzuletesiEv  int    `json:"szuletesiEv"`
	SzuletesiHo  int    `json:"szuletesiHo"`
	SzuletesiNap int    `json:"szuletesiNap"`
	FajtaHu      string `json:"fajtaHu"`
	NemHu        string `json:"nemHu"`
	SzinHu       string `json:"szinHu"`
	Mikrochip    string `json:"mikrochip"`
	TenyesztoNev string `json:"tenyesztoNev"`
}

type mloszSearchResponse struct {
	Horses []mloszHorse `json:"horses"`
}

// Search queries the registry by name fragment and optional birth year.
func (c *MLOSZClient) Search(ctx context.Context, q Query) ([]Record, error) {
	if strings.TrimSpace(q.Name) == "" {
		return nil, ErrEmptyQuery
	}

	var result mloszSearchResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"nev":         q.Name,
			"szuletesiEv": q.BirthYear,
		}).
		SetResult(&result).
		Post("/horseSearch")
	if err != nil {
		return nil, fmt.Errorf("horse search: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("horse search: registry status=%d", resp.StatusCode())
	}

	records := make([]Record, 0, len(result.Horses))
	for _, h := range result.Horses {
		records = append(records, Record{
			ID:          strconv.FormatInt(h.LoID, 10),
			DisplayName: h.Nev,
			Breeder:     h.TenyesztoNev,
			Native: map[string]string{
				"nev":          h.Nev,
				"fajtaHu":      h.FajtaHu,
				"nemHu":        h.NemHu,
				"szinHu":       h.SzinHu,
				"mikrochip":    h.Mikrochip,
				"szuletesiEv":  strconv.Itoa(h.SzuletesiEv),
				"szuletesiHo":  strconv.Itoa(h.SzuletesiHo),
				"szuletesiNap": strconv.Itoa(h.SzuletesiNap),
			},
		})
	}

	c.logger.Debug("registry search completed",
		zap.String("schema", SchemaMLOSZ),
		zap.Int("results", len(records)))

	return records, nil
}

// DraftFields maps a selected horse into pet draft fields. Species is always
// "Horse"; the split birth date is normalized to yyyy-MM-dd.
func (c *MLOSZClient) DraftFields(rec Record) DraftFields {
	return DraftFields{
		Name:            rec.Native["nev"],
		Species:         "Horse",
		Breed:           rec.Native["fajtaHu"],
		Gender:          mloszGender(rec.Native["nemHu"]),
		Color:           rec.Native["szinHu"],
		MicrochipNumber: rec.Native["mikrochip"],
		DateOfBirth:     splitDateOfBirth(rec.Native["szuletesiEv"], rec.Native["szuletesiHo"], rec.Native["szuletesiNap"]),
	}
}

// mloszGender is a closed lookup from the registry's Hungarian gender
// vocabulary. Unrecognized values map to unset, never an error.
func mloszGender(native string) models.Gender {
	switch strings.ToLower(strings.TrimSpace(native)) {
	case "kanca":
		return models.GenderFemale
	case "mén", "csődör":
		return models.GenderMale
	default:
		return ""
	}
}

func splitDateOfBirth(year, month, day string) string {
	y, errY := strconv.Atoi(year)
	m, errM := strconv.Atoi(month)
	d, errD := strconv.Atoi(day)
	if errY != nil || errM != nil || errD != nil || y == 0 || m == 0 || d == 0 {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d)
}
