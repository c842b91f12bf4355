package reconcile

// DefaultSuffixes are the disambiguation suffixes Wikipedia appends to page
// titles in the languages the deck covers.
var DefaultSuffixes = []string{
	" (country)",
	" (ciudad)",
	" (pays)",
	" (city-state)",
	" (Stadt)",
	" (stadt)",
	" (ville)",
	" (by)",
}

// Expander produces acceptable exact-match forms of a reference name.
type Expander struct {
	suffixes []string
}

// NewExpander creates an Expander. A nil list means DefaultSuffixes.
func NewExpander(suffixes []string) *Expander {
	if suffixes == nil {
		suffixes = DefaultSuffixes
	}
	return &Expander{suffixes: suffixes}
}

// Expand returns name followed by name with every suffix appended.
func (e *Expander) Expand(name string) []string {
	res := make([]string, 0, len(e.suffixes)+1)
	res = append(res, name)
	for _, s := range e.suffixes {
		res = append(res, name+s)
	}
	return res
}
