package domain

import (
	"sort"
	"strings"

	m "wavedig.dev/pkg/wavedig/internal/model"
)

// Resolve walks tree along the "/"-separated segments of path and returns the
// declared variable named by the last segment. It only reads the tree and is
// safe for concurrent use.
func Resolve(tree *m.ScopeTree, path m.SignalPath) (m.Variable, error) {
	segments := splitPath(path)
	if len(segments) == 0 {
		return m.Variable{}, &LookupError{Path: path, Segment: "", Err: ErrSignalNotFound}
	}

	scope := m.RootIndex

	for _, segment := range segments[:len(segments)-1] {
		child, ok := tree.Child(scope, segment)
		if !ok {
			return m.Variable{}, &LookupError{Path: path, Segment: segment, Err: ErrScopeNotFound}
		}

		scope = child
	}

	last := segments[len(segments)-1]

	if v, ok := tree.Node(scope).Variables[last]; ok {
		return v, nil
	}

	if _, ok := tree.Child(scope, last); ok {
		return m.Variable{}, &LookupError{Path: path, Segment: last, Err: ErrPathIsScope}
	}

	return m.Variable{}, &LookupError{Path: path, Segment: last, Err: ErrSignalNotFound}
}

func splitPath(path m.SignalPath) []string {
	trimmed := strings.Trim(string(path), "/")
	if trimmed == "" {
		return nil
	}

	return strings.Split(trimmed, "/")
}

// Signals lists every declared variable with its full path. Scopes are visited
// depth-first in declaration order; variables within a scope are sorted by name.
func Signals(tree *m.ScopeTree) []m.Signal {
	var signals []m.Signal

	stack := []int{m.RootIndex}
	for len(stack) > 0 {
		index := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := tree.Node(index)
		prefix := tree.PathOf(index)

		names := make([]string, 0, len(node.Variables))
		for name := range node.Variables {
			names = append(names, name)
		}

		sort.Strings(names)

		for _, name := range names {
			signals = append(signals, m.Signal{
				Path:     joinPath(prefix, name),
				Variable: node.Variables[name],
			})
		}

		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, node.Children[i])
		}
	}

	return signals
}

func joinPath(prefix m.SignalPath, name string) m.SignalPath {
	if prefix == "" {
		return m.SignalPath(name)
	}

	return prefix + "/" + m.SignalPath(name)
}
