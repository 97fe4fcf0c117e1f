package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/philodex/internal/domain"
	"github.com/kailas-cloud/philodex/internal/domain/category"
)

const sampleJSON = `[
  {
    "name": "René Descartes",
    "bio": "French philosopher.",
    "works": ["Meditations on First Philosophy", "Discourse on the Method"],
    "influence": "Father of modern philosophy.",
    "birthYear": 1596,
    "arguments": [
      {"title": "Cogito, ergo sum", "description": "I think, therefore I am.", "featured": true},
      {"title": "Ontological Argument", "description": "God exists by definition.", "category": "religion"}
    ]
  },
  {
    "name": "Aristotle",
    "bio": "Greek polymath.",
    "works": ["Nicomachean Ethics"],
    "birthYear": "384 BC",
    "arguments": [
      {"title": "Virtue Ethics", "description": "The golden mean."}
    ]
  }
]`

const sampleYAML = `
- name: Plato
  birthYear: 428 BC
  works: [The Republic]
  arguments:
    - title: Theory of Forms
      description: Abstract forms are the most real.
`

func newTestSource(location string) *Source {
	return New(location, time.Second, zap.NewNop())
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

func TestLoad_HTTPJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleJSON))
	}))
	defer srv.Close()

	records, err := newTestSource(srv.URL + "/data/philosophers.json").Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	d := records[0]
	if d.Name() != "René Descartes" {
		t.Errorf("unexpected first record %q", d.Name())
	}
	if d.Born() != "1596" {
		t.Errorf("expected numeric birthYear as string, got %q", d.Born())
	}
	args := d.Arguments()
	if args[0].Category() != category.Other {
		t.Errorf("expected derived category %q, got %q", category.Other, args[0].Category())
	}
	if args[1].Category() != category.Religion {
		t.Errorf("expected explicit category %q, got %q", category.Religion, args[1].Category())
	}
	if !args[0].Featured() {
		t.Error("expected first argument to be featured")
	}
	if records[1].Born() != "384 BC" {
		t.Errorf("unexpected birth %q", records[1].Born())
	}
}

func TestLoad_HTTPYAMLByContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write([]byte(sampleYAML))
	}))
	defer srv.Close()

	records, err := newTestSource(srv.URL + "/catalog").Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].Name() != "Plato" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestLoad_HTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestSource(srv.URL + "/missing.json").Load(context.Background())
	if !errors.Is(err, domain.ErrDataLoad) {
		t.Fatalf("expected ErrDataLoad, got %v", err)
	}
}

func TestLoad_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestSource(url + "/philosophers.json").Load(context.Background())
	if !errors.Is(err, domain.ErrDataLoad) {
		t.Fatalf("expected ErrDataLoad, got %v", err)
	}
}

func TestLoad_FileYAML(t *testing.T) {
	p := writeFile(t, "philosophers.yaml", sampleYAML)

	records, err := newTestSource(p).Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[0].Born() != "428 BC" {
		t.Errorf("unexpected birth %q", records[0].Born())
	}
	if got := records[0].Works(); len(got) != 1 || got[0] != "The Republic" {
		t.Errorf("unexpected works %v", got)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := newTestSource(filepath.Join(t.TempDir(), "nope.json")).Load(context.Background())
	if !errors.Is(err, domain.ErrDataLoad) {
		t.Fatalf("expected ErrDataLoad, got %v", err)
	}
}

func TestLoad_MalformedPayload(t *testing.T) {
	tests := map[string]string{
		"not json":       "{nope",
		"object":         `{"name": "Plato"}`,
		"bad birth year": `[{"name": "Plato", "birthYear": true, "arguments": [{"title": "A"}]}]`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			p := writeFile(t, "philosophers.json", content)
			_, err := newTestSource(p).Load(context.Background())
			if !errors.Is(err, domain.ErrDataLoad) {
				t.Fatalf("expected ErrDataLoad, got %v", err)
			}
		})
	}
}

func TestLoad_NoValidEntries(t *testing.T) {
	p := writeFile(t, "philosophers.json", `[{"name": "", "arguments": [{"title": "A"}]}]`)
	_, err := newTestSource(p).Load(context.Background())
	if !errors.Is(err, domain.ErrDataLoad) {
		t.Fatalf("expected ErrDataLoad, got %v", err)
	}
}

func TestToDomain_Rejections(t *testing.T) {
	rows := []philosopherRow{
		{Name: "Plato", Arguments: []argumentRow{{Title: "Forms"}, {Title: ""}}},
		{Name: "", Arguments: []argumentRow{{Title: "A"}}},
		{Name: "Kant", Arguments: nil},
		{Name: "Plato", Arguments: []argumentRow{{Title: "Again"}}},
		{Name: "Hume", Arguments: []argumentRow{{Title: "Bad", Category: "politics"}}},
		{Name: "Hegel", Arguments: []argumentRow{{Title: "Dialectic"}}},
	}

	records, rejected := toDomain(rows)

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Name() != "Plato" || records[1].Name() != "Hegel" {
		t.Errorf("unexpected records %q, %q", records[0].Name(), records[1].Name())
	}
	if n := len(records[0].Arguments()); n != 1 {
		t.Errorf("expected invalid argument to be dropped, got %d arguments", n)
	}

	// blank argument, empty name, no arguments, duplicate, bad category + no arguments left
	if len(rejected) != 6 {
		t.Fatalf("expected 6 rejections, got %d: %v", len(rejected), rejected)
	}
	var entryErr *domain.EntryError
	if !errors.As(rejected[0], &entryErr) || entryErr.Index != 0 || entryErr.Name != "Plato" {
		t.Errorf("unexpected first rejection %v", rejected[0])
	}
}

func TestYearString_Null(t *testing.T) {
	rows, err := decode([]byte(`[{"name": "X", "birthYear": null}]`), formatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].BirthYear != "" {
		t.Errorf("expected empty year, got %q", rows[0].BirthYear)
	}
}
