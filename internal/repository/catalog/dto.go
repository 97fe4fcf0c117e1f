package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/philodex/internal/domain"
	"github.com/kailas-cloud/philodex/internal/domain/philosopher"
)

// philosopherRow is the wire shape of one catalog entry (JSON or YAML).
type philosopherRow struct {
	Name      string        `json:"name" yaml:"name"`
	Bio       string        `json:"bio" yaml:"bio"`
	Works     []string      `json:"works" yaml:"works"`
	Influence string        `json:"influence" yaml:"influence"`
	BirthYear yearString    `json:"birthYear" yaml:"birthYear"`
	Image     string        `json:"image" yaml:"image"`
	Arguments []argumentRow `json:"arguments" yaml:"arguments"`
}

type argumentRow struct {
	Title           string `json:"title" yaml:"title"`
	Description     string `json:"description" yaml:"description"`
	BriefOverview   string `json:"briefOverview" yaml:"briefOverview"`
	Summary         string `json:"summary" yaml:"summary"`
	RealLifeExample string `json:"realLifeExample" yaml:"realLifeExample"`
	Pro             string `json:"pro" yaml:"pro"`
	Con             string `json:"con" yaml:"con"`
	KeyPhilosopher  string `json:"keyPhilosopher" yaml:"keyPhilosopher"`
	Category        string `json:"category" yaml:"category"`
	Featured        bool   `json:"featured" yaml:"featured"`
}

// yearString accepts both "384 BC" and 1641 in JSON sources.
type yearString string

func (y *yearString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*y = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("birthYear: %w", err)
		}
		*y = yearString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("birthYear must be a string or number: %w", err)
	}
	*y = yearString(n.String())
	return nil
}

// toDomain validates rows into philosophers. Invalid arguments are dropped from
// their entry; entries that are invalid, duplicated or left without arguments are
// dropped entirely. Every drop is reported as a rejection. Valid entries keep their source order.
func toDomain(rows []philosopherRow) ([]philosopher.Philosopher, []error) {
	out := make([]philosopher.Philosopher, 0, len(rows))
	var rejected []error
	seen := make(map[string]struct{}, len(rows))

	for i, row := range rows {
		name := strings.TrimSpace(row.Name)
		reject := func(err error) {
			rejected = append(rejected, &domain.EntryError{Index: i, Name: name, Reason: err})
		}

		args := make([]philosopher.Argument, 0, len(row.Arguments))
		for j, a := range row.Arguments {
			arg, err := argumentToDomain(a)
			if err != nil {
				reject(fmt.Errorf("argument %d: %w", j, err))
				continue
			}
			args = append(args, arg)
		}

		p, err := philosopher.New(philosopher.Fields{
			Name:      row.Name,
			Bio:       row.Bio,
			Influence: row.Influence,
			Born:      string(row.BirthYear),
			Image:     row.Image,
			Works:     row.Works,
		}, args)
		if err != nil {
			reject(err)
			continue
		}
		if _, dup := seen[p.Name()]; dup {
			reject(fmt.Errorf("duplicate name"))
			continue
		}
		seen[p.Name()] = struct{}{}
		out = append(out, p)
	}
	return out, rejected
}

func argumentToDomain(a argumentRow) (philosopher.Argument, error) {
	return philosopher.NewArgument(philosopher.ArgumentFields{
		Title:           a.Title,
		Description:     a.Description,
		BriefOverview:   a.BriefOverview,
		Summary:         a.Summary,
		RealLifeExample: a.RealLifeExample,
		Pro:             a.Pro,
		Con:             a.Con,
		KeyPhilosopher:  a.KeyPhilosopher,
		Category:        a.Category,
		Featured:        a.Featured,
	})
}
