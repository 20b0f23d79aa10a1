package mission

// Scene is one candidate image as reported by a provider. Date keeps the
// provider's native format.
type Scene struct {
	Source    string `json:"source"`
	ID        string `json:"id"`
	Date      string `json:"date"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// State is threaded through every pipeline stage for a single query.
type State struct {
	Query      string     `json:"query"`
	Parameters Parameters `json:"parameters"`
	Results    []Scene    `json:"results"`
	Errors     []string   `json:"errors"`
}

func New(query string) *State {
	return &State{
		Query:   query,
		Results: []Scene{},
		Errors:  []string{},
	}
}

func (s *State) AddResults(scenes ...Scene) {
	s.Results = append(s.Results, scenes...)
}

func (s *State) AddError(msg string) {
	s.Errors = append(s.Errors, msg)
}

// Only the interpreter calls this, before any provider has run.
func (s *State) ResetResults() {
	s.Results = []Scene{}
}

func (s *State) HasErrors() bool { return len(s.Errors) > 0 }
