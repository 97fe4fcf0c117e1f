package vote

import "maps"

// Choice is a single vote direction.
type Choice string

// Choice constants.
const (
	Agree    Choice = "agree"
	Disagree Choice = "disagree"
)

// IsValid checks if the choice is one of the supported values.
func (c Choice) IsValid() bool {
	return c == Agree || c == Disagree
}

// Count holds the agree/disagree totals of one argument.
type Count struct {
	Agree    int64 `json:"agree"`
	Disagree int64 `json:"disagree"`
}

// Total returns the number of votes cast.
func (c Count) Total() int64 { return c.Agree + c.Disagree }

// Tally maps argument titles to their counts. It is the persisted form of all votes.
type Tally map[string]Count

// Record returns a copy of the tally with one vote added, and the resulting count.
func (t Tally) Record(title string, c Choice) (Tally, Count) {
	next := make(Tally, len(t)+1)
	maps.Copy(next, t)

	cnt := next[title]
	switch c {
	case Agree:
		cnt.Agree++
	case Disagree:
		cnt.Disagree++
	}
	next[title] = cnt
	return next, cnt
}
