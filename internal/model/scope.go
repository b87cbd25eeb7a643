package model

import (
	"slices"
	"strings"
)

// NoParent marks the arena root.
const NoParent = -1

// RootIndex is the arena index of the implicit root. Its children are the
// top-level scopes declared in the file.
const RootIndex = 0

// Scope is a named hierarchical container stored in a ScopeTree arena.
// Parent and Children are arena indices, not pointers.
type Scope struct {
	Kind      string
	Name      string
	Parent    int
	Children  []int
	Variables map[string]Variable

	childByName map[string]int
}

// ScopeTree is an arena of scopes rooted at RootIndex.
type ScopeTree struct {
	nodes []Scope
}

// NewScopeTree returns a tree holding only the implicit root.
func NewScopeTree() *ScopeTree {
	return &ScopeTree{
		nodes: []Scope{newScope("root", "", NoParent)},
	}
}

func newScope(kind, name string, parent int) Scope {
	return Scope{
		Kind:        kind,
		Name:        name,
		Parent:      parent,
		Variables:   map[string]Variable{},
		childByName: map[string]int{},
	}
}

// Len returns the number of nodes including the implicit root.
func (t *ScopeTree) Len() int {
	return len(t.nodes)
}

// Node returns the scope stored at index.
func (t *ScopeTree) Node(index int) *Scope {
	return &t.nodes[index]
}

// Child returns the index of the child of parent named name.
func (t *ScopeTree) Child(parent int, name string) (int, bool) {
	index, ok := t.nodes[parent].childByName[name]
	return index, ok
}

// AddScope attaches a new scope under parent and returns its index. When parent
// already has a child with the same name that child is returned instead, since
// sibling names are unique and VCD allows a scope to be re-opened.
func (t *ScopeTree) AddScope(parent int, kind, name string) int {
	if existing, ok := t.nodes[parent].childByName[name]; ok {
		return existing
	}

	index := len(t.nodes)
	t.nodes = append(t.nodes, newScope(kind, name, parent))
	t.nodes[parent].Children = append(t.nodes[parent].Children, index)
	t.nodes[parent].childByName[name] = index

	return index
}

// AddVariable stores v in the scope at index, replacing any previous
// declaration of the same name.
func (t *ScopeTree) AddVariable(index int, v Variable) {
	t.nodes[index].Variables[v.Name] = v
}

// PathOf returns the "/"-joined names from the first top-level scope down to index.
func (t *ScopeTree) PathOf(index int) SignalPath {
	var names []string

	for cur := index; cur != RootIndex && cur != NoParent; cur = t.nodes[cur].Parent {
		names = append(names, t.nodes[cur].Name)
	}

	slices.Reverse(names)

	return SignalPath(strings.Join(names, "/"))
}
