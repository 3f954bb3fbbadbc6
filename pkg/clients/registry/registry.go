package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kovacsd/petcare/internal/domain/models"
	"github.com/kovacsd/petcare/pkg/clients/auth"
)

// Supported registry schema identifiers, selected through configuration.
const (
	SchemaMLOSZ  = "mlosz"
	SchemaLegacy = "legacy"
)

// ErrEmptyQuery rejects a search with no name fragment before any network
// call is made.
var ErrEmptyQuery = errors.New("registry: search name must not be empty")

// Query is a horse-registry search: a required name fragment plus an
// optional birth-year filter.
type Query struct {
	Name      string
	BirthYear string
}

// Record is one search hit in the registry's native schema. Display fields
// are normalized for listing; Native carries the schema's own field names
// and is only ever read by the adapter that produced it.
type Record struct {
	ID          string
	DisplayName string
	Breeder     string
	Native      map[string]string
}

// DraftFields is the subset of a pet draft an import fills. Empty fields are
// left untouched when merged into the draft (additive, never overwrite-all).
type DraftFields struct {
	Name            string
	Species         string
	Breed           string
	Gender          models.Gender
	Color           string
	MicrochipNumber string
	DateOfBirth     string
}

// Client is the import adapter boundary. The registry's schema changed
// incompatibly over time (field names, gender vocabulary, date encoding,
// transport shape), so each schema lives behind this single interface and a
// switch stays a configuration change.
type Client interface {
	Search(ctx context.Context, q Query) ([]Record, error)
	DraftFields(rec Record) DraftFields
}

// New selects the adapter implementation for the configured schema.
func New(schema, baseURL string, creds auth.CredentialProvider, timeout time.Duration, logger *zap.Logger) (Client, error) {
	switch schema {
	case SchemaMLOSZ:
		return NewMLOSZClient(baseURL, creds, timeout, logger), nil
	case SchemaLegacy:
		return NewLegacyClient(baseURL, timeout, logger), nil
	default:
		return nil, fmt.Errorf("registry: unknown schema %q", schema)
	}
}
