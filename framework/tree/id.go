package tree

import "strings"

// ID is the full name of a test: the names of the suites enclosing it, outermost first, followed
// by its own name.
type ID []string

func (id ID) String() string {
	return strings.Join(id, "/")
}

// Plus returns a new ID with name appended.
func (id ID) Plus(name string) ID {
	return append(append(ID(nil), id...), name)
}
