package report

import (
	"strconv"
	"strings"
)

// Flatten expands a normalized panel tree into the flat, ordered render
// queue. Repeated rows and panels are instantiated once per selected value
// of their repeat variable, depth-first in document order. Every emitted
// instance carries a globally unique render id: each repeat iteration
// appends its own "cloneN" suffix segment, so ids can never collide.
//
// A repeat over a variable with no resolved values emits nothing for that
// subtree. Leaves without an id are structural only and are dropped.
func Flatten(tree []*PanelNode, values VariableValueMap) []RenderInstance {
	f := &flattener{values: values}
	for _, node := range tree {
		f.walk(node, Scope{}, "")
	}
	return f.out
}

type flattener struct {
	values VariableValueMap
	out    []RenderInstance
}

func (f *flattener) walk(node *PanelNode, scope Scope, suffix string) {
	scope = scope.Merge(node.Scoped)

	if node.IsRow() {
		// Rows never emit instances themselves. A repeat variable already
		// fixed by an ancestor is not expanded again.
		if node.Repeat != "" && !scope.Has(node.Repeat) {
			for i, v := range f.values[node.Repeat] {
				iterScope := scope.With(node.Repeat, v)
				iterSuffix := suffix + "clone" + strconv.Itoa(i+1)
				for _, child := range node.Children {
					f.walk(child, iterScope, iterSuffix)
				}
			}
			return
		}
		for _, child := range node.Children {
			f.walk(child, scope, suffix)
		}
		return
	}

	if node.Repeat != "" && !scope.Has(node.Repeat) {
		for i, v := range f.values[node.Repeat] {
			iterScope := scope.With(node.Repeat, v)
			iterSuffix := suffix + "clone" + strconv.Itoa(i+1)
			f.emit(node, iterScope, iterSuffix)
			for _, child := range node.Children {
				f.walk(child, iterScope, iterSuffix)
			}
		}
		return
	}

	f.emit(node, scope, suffix)
	for _, child := range node.Children {
		f.walk(child, scope, suffix)
	}
}

func (f *flattener) emit(node *PanelNode, scope Scope, suffix string) {
	if node.ID == 0 {
		return
	}
	id := strconv.FormatInt(node.ID, 10)
	f.out = append(f.out, RenderInstance{
		RenderID: id + suffix,
		PanelID:  node.ID,
		Title:    InterpolateTitle(node.Title, scope),
		Scope:    scope,
		Index:    len(f.out),
	})
}

// InterpolateTitle substitutes $name and ${name} variable references with
// the display text of the binding in scope. Unbound references are left
// verbatim.
func InterpolateTitle(title string, scope Scope) string {
	if !strings.ContainsRune(title, '$') || len(scope) == 0 {
		return title
	}
	var b strings.Builder
	for i := 0; i < len(title); {
		if title[i] != '$' {
			b.WriteByte(title[i])
			i++
			continue
		}
		name, next := scanVarRef(title, i)
		if name == "" {
			b.WriteByte(title[i])
			i++
			continue
		}
		if v, ok := scope[name]; ok {
			b.WriteString(v.Display())
			i = next
			continue
		}
		b.WriteString(title[i:next])
		i = next
	}
	return b.String()
}

// scanVarRef reads a $name or ${name} reference starting at i, returning
// the variable name and the index one past the reference. An empty name
// means no reference starts at i.
func scanVarRef(s string, i int) (string, int) {
	j := i + 1
	braced := j < len(s) && s[j] == '{'
	if braced {
		j++
	}
	start := j
	for j < len(s) && isVarNameChar(s[j]) {
		j++
	}
	if j == start {
		return "", i
	}
	name := s[start:j]
	if braced {
		if j >= len(s) || s[j] != '}' {
			return "", i
		}
		j++
	}
	return name, j
}

func isVarNameChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
