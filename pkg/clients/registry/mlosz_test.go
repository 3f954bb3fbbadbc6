package registry

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kovacsd/petcare/internal/domain/models"
	"github.com/kovacsd/petcare/pkg/clients/auth"
)

func TestMLOSZSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer registry-token" {
			t.Errorf("missing or wrong bearer header: %q", got)
		}
		if r.Method != http.MethodPost || r.URL.Path != "/horseSearch" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("bad body: %v", err)
		}
		if body["nev"] != "Villám" || body["szuletesiEv"] != "2019" {
			t.Errorf("query not forwarded: %v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"horses": [
			{"loId": 5501, "nev": "Villám", "szuletesiEv": 2019, "szuletesiHo": 4, "szuletesiNap": 2,
			 "fajtaHu": "Lipicai", "nemHu": "kanca", "szinHu": "szürke",
			 "mikrochip": "HU123", "tenyesztoNev": "Kovács Béla"}
		]}`))
	}))
	defer srv.Close()

	client := NewMLOSZClient(srv.URL, auth.StaticProvider{Token: "registry-token"}, time.Second, nil)

	records, err := client.Search(context.Background(), Query{Name: "Villám", BirthYear: "2019"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.ID != "5501" || rec.DisplayName != "Villám" || rec.Breeder != "Kovács Béla" {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestMLOSZSearch_EmptyNameRejected(t *testing.T) {
	client := NewMLOSZClient("http://unreachable.invalid", nil, time.Second, nil)

	if _, err := client.Search(context.Background(), Query{Name: "  "}); !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestMLOSZDraftFields(t *testing.T) {
	client := NewMLOSZClient("http://example.invalid", nil, time.Second, nil)

	fields := client.DraftFields(Record{Native: map[string]string{
		"nev":          "Villám",
		"fajtaHu":      "Lipicai",
		"nemHu":        "kanca",
		"szinHu":       "szürke",
		"mikrochip":    "HU123",
		"szuletesiEv":  "2019",
		"szuletesiHo":  "4",
		"szuletesiNap": "2",
	}})

	if fields.Species != "Horse" {
		t.Fatalf("species must be fixed to Horse, got %q", fields.Species)
	}
	if fields.Gender != models.GenderFemale {
		t.Fatalf("kanca must map to Female, got %q", fields.Gender)
	}
	if fields.DateOfBirth != "2019-04-02" {
		t.Fatalf("split date must be zero-padded yyyy-MM-dd, got %q", fields.DateOfBirth)
	}
	if fields.Name != "Villám" || fields.Breed != "Lipicai" || fields.Color != "szürke" || fields.MicrochipNumber != "HU123" {
		t.Fatalf("unexpected fields: %+v", fields)
	}
}

func TestMLOSZGender(t *testing.T) {
	cases := []struct {
		native string
		want   models.Gender
	}{
		{"kanca", models.GenderFemale},
		{"Kanca", models.GenderFemale},
		{"mén", models.GenderMale},
		{"csődör", models.GenderMale},
		{"herélt", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := mloszGender(tc.native); got != tc.want {
			t.Errorf("mloszGender(%q) = %q, want %q", tc.native, got, tc.want)
		}
	}
}

func TestSplitDateOfBirth_IncompleteDateDropped(t *testing.T) {
	if got := splitDateOfBirth("2019", "0", "0"); got != "" {
		t.Fatalf("incomplete date must be dropped, got %q", got)
	}
	if got := splitDateOfBirth("", "", ""); got != "" {
		t.Fatalf("missing date must be dropped, got %q", got)
	}
}

func TestNewSelectsSchema(t *testing.T) {
	if _, err := New(SchemaMLOSZ, "http://example.invalid", nil, time.Second, nil); err != nil {
		t.Fatalf("mlosz schema must resolve: %v", err)
	}
	if _, err := New(SchemaLegacy, "http://example.invalid", nil, time.Second, nil); err != nil {
		t.Fatalf("legacy schema must resolve: %v", err)
	}
	if _, err := New("sioux", "http://example.invalid", nil, time.Second, nil); err == nil {
		t.Fatal("unknown schema must be rejected")
	}
}
