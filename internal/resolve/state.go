package resolve

// SearchState is the code under search plus every code already tried for the
// order. It is a value: Next returns a new state and leaves the receiver alone.
type SearchState struct {
	Code    string
	visited []string
}

// Start begins a search at code.
func Start(code string) SearchState {
	return SearchState{Code: code, visited: []string{code}}
}

// Seen reports whether code was already tried.
func (s SearchState) Seen(code string) bool {
	for _, v := range s.visited {
		if v == code {
			return true
		}
	}
	return false
}

// Next moves the search to code. It returns false when code was already tried.
func (s SearchState) Next(code string) (SearchState, bool) {
	if code == "" || s.Seen(code) {
		return s, false
	}
	visited := make([]string, len(s.visited), len(s.visited)+1)
	copy(visited, s.visited)
	return SearchState{Code: code, visited: append(visited, code)}, true
}

// Tried returns the codes tried so far, in order.
func (s SearchState) Tried() []string {
	return append([]string(nil), s.visited...)
}
