package survey

// Gender marks which half of a gender-split indicator a question feeds.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
	Any    Gender = ""
)

// Mapping binds a range of question ids to one named indicator. Each domain
// declares a single mapping table shared by every endpoint that reads it, so
// sibling dashboards cannot drift apart.
type Mapping struct {
	Indicator string
	Gender    Gender
	// FirstQID..LastQID is the inclusive question id range folded into the
	// indicator.
	FirstQID int
	LastQID  int
}

func (m Mapping) Matches(questionID int) bool {
	return questionID >= m.FirstQID && questionID <= m.LastQID
}

// Table is a domain's declarative question → indicator map.
type Table []Mapping

// Find returns the mapping covering questionID, if any.
func (t Table) Find(questionID int) (Mapping, bool) {
	for _, m := range t {
		if m.Matches(questionID) {
			return m, true
		}
	}
	return Mapping{}, false
}

// QuestionIDs lists every question id the table covers, in declaration order.
func (t Table) QuestionIDs() []int {
	var ids []int
	for _, m := range t {
		for id := m.FirstQID; id <= m.LastQID; id++ {
			ids = append(ids, id)
		}
	}
	return ids
}
