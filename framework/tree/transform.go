package tree

import "fmt"

// Transform returns a tree of the same shape as t in which every Case has been replaced by
// rewrite(c). Suites are rebuilt with the same names and the same child order. The traversal is
// depth-first and visits every node, in tree order.
func Transform(t Test, rewrite func(Case) Case) Test {
	return TransformWithID(t, func(_ ID, c Case) Case { return rewrite(c) })
}

// TransformWithID is like Transform, but also passes the full ID of each case to rewrite.
func TransformWithID(t Test, rewrite func(ID, Case) Case) Test {
	return transform(nil, t, rewrite)
}

func transform(parent ID, t Test, rewrite func(ID, Case) Case) Test {
	switch node := t.(type) {
	case Case:
		return rewrite(parent.Plus(node.name), node)
	case Suite:
		id := parent.Plus(node.name)
		children := make([]Test, 0, len(node.children))
		for _, child := range node.children {
			children = append(children, transform(id, child, rewrite))
		}
		return Suite{name: node.name, children: children}
	default:
		panic(fmt.Errorf("unknown test type %T", t))
	}
}

// Walk visits every node of t in pre-order. If visit returns false for a Suite, its children are
// not visited.
func Walk(t Test, visit func(id ID, t Test) bool) {
	walk(nil, t, visit)
}

func walk(parent ID, t Test, visit func(ID, Test) bool) {
	id := parent.Plus(t.Name())
	if !visit(id, t) {
		return
	}
	if s, ok := t.(Suite); ok {
		for _, child := range s.children {
			walk(id, child, visit)
		}
	}
}

// SameShape reports whether a and b have the same names, nesting and child order.
func SameShape(a, b Test) bool {
	if a.Name() != b.Name() {
		return false
	}
	switch x := a.(type) {
	case Case:
		_, ok := b.(Case)
		return ok
	case Suite:
		y, ok := b.(Suite)
		if !ok || len(x.children) != len(y.children) {
			return false
		}
		for i := range x.children {
			if !SameShape(x.children[i], y.children[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Count returns the number of cases in t.
func Count(t Test) int {
	n := 0
	Walk(t, func(_ ID, t Test) bool {
		if _, ok := t.(Case); ok {
			n++
		}
		return true
	})
	return n
}
