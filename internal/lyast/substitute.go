package lyast

// Table maps assignment names to their music, built once per
// document and consulted by the walker whenever it encounters a
// UserCommand — the document-wide substitute_for_node capability
// named in the external-interfaces section.
type Table struct {
	byName map[string]Node
}

// NewTable builds a substitution table from a document's top-level
// assignments.
func NewTable(doc *Document) *Table {
	t := &Table{byName: map[string]Node{}}
	for _, a := range doc.Assignments {
		t.byName[a.Name] = a.Music
	}
	return t
}

// Resolve returns the music a UserCommand named name refers to, and
// whether it was found.
func (t *Table) Resolve(name string) (Node, bool) {
	n, ok := t.byName[name]
	return n, ok
}
