package model

// Match is a cell whose value equals the query, paired with the header label
// of its column. Row and Col are absolute page coordinates.
type Match struct {
	Value  string
	Header string
	Row    int
	Col    int
}

func (m Match) Address() string {
	return Cell{Row: m.Row, Col: m.Col}.String()
}

type SearchResults struct {
	Query        string
	Matches      []Match
	HeaderCounts map[string]int // header label -> match count
	TotalCount   int
}
