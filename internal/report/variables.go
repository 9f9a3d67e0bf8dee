package report

import (
	"fmt"
	"strings"
)

// allValue is the reserved wildcard marker render backends cannot expand
// themselves.
const allValue = "$__all"

// IsWildcard reports whether the entry selects "all declared options".
func IsWildcard(v VariableValue) bool {
	return strings.EqualFold(v.Value, allValue) || strings.EqualFold(v.Text, "all")
}

// NormalizeEntries flattens the heterogeneous value/text shapes variable
// sources supply (scalar, array, {value,text} object, array of such, or
// parallel value/text arrays) into a flat value list. Values and texts are
// paired by index up to the longer length; an entry missing its value
// falls back to the text at that position, and entries that end up empty
// are dropped.
func NormalizeEntries(values, texts any) []VariableValue {
	vs := coerceEntries(values)
	ts := coerceEntries(texts)

	n := len(vs)
	if len(ts) > n {
		n = len(ts)
	}

	out := make([]VariableValue, 0, n)
	for i := 0; i < n; i++ {
		var v VariableValue
		if i < len(vs) {
			v = vs[i]
		}
		if v.Text == "" && i < len(ts) {
			v.Text = ts[i].Display()
		}
		if v.Value == "" {
			v.Value = v.Text
		}
		if v.Value == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}

// coerceEntries turns one raw source shape into a value list, recursing
// into arrays. Unknown scalar types are stringified.
func coerceEntries(raw any) []VariableValue {
	switch x := raw.(type) {
	case nil:
		return nil
	case VariableValue:
		return []VariableValue{x}
	case []VariableValue:
		return x
	case string:
		return []VariableValue{{Value: x}}
	case map[string]any:
		v := stringify(x["value"])
		t := stringify(x["text"])
		return []VariableValue{{Value: v, Text: t}}
	case []any:
		out := make([]VariableValue, 0, len(x))
		for _, el := range x {
			out = append(out, coerceEntries(el)...)
		}
		return out
	case []string:
		out := make([]VariableValue, 0, len(x))
		for _, s := range x {
			out = append(out, VariableValue{Value: s})
		}
		return out
	default:
		s := stringify(x)
		if s == "" {
			return nil
		}
		return []VariableValue{{Value: s}}
	}
}

func stringify(x any) string {
	switch v := x.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case float64:
		// JSON numbers decode as float64; keep integers clean.
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case []any:
		parts := make([]string, 0, len(v))
		for _, el := range v {
			parts = append(parts, stringify(el))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ExpandSelection resolves a selection against the declared option list.
// Any wildcard entry expands to every declared option except further
// wildcards; a selection with no wildcard passes through unchanged.
func ExpandSelection(selected, options []VariableValue) []VariableValue {
	wildcard := false
	for _, v := range selected {
		if IsWildcard(v) {
			wildcard = true
			break
		}
	}
	if !wildcard {
		return selected
	}
	out := make([]VariableValue, 0, len(options))
	for _, o := range options {
		if IsWildcard(o) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// ResolveValues merges the three selection layers per variable with
// precedence manual > session > defaults, applies the wildcard merge
// policy, and expands wildcards against the declared option list.
//
// A higher-precedence layer that contains only wildcard entries does not
// suppress concrete values from a lower layer. When no layer offers a
// concrete value, the wildcard is kept and resolved through the option
// list; a variable that still has nothing concrete after that is omitted.
//
// Manual entries for names the dashboard does not declare are kept as
// given, minus wildcard-only entries that have no option list to expand
// against.
func ResolveValues(defs []VariableDefinition, manual VariableValueMap) VariableValueMap {
	out := make(VariableValueMap)

	seen := make(map[string]bool, len(defs))
	for _, def := range defs {
		seen[def.Name] = true
		chosen := mergeLayers(manual[def.Name], def.Session, def.Defaults)
		resolved := ExpandSelection(chosen, def.Options)
		if len(resolved) > 0 {
			out[def.Name] = resolved
		}
	}

	for name, entries := range manual {
		if seen[name] {
			continue
		}
		kept := make([]VariableValue, 0, len(entries))
		for _, v := range entries {
			if IsWildcard(v) {
				continue
			}
			kept = append(kept, v)
		}
		if len(kept) > 0 {
			out[name] = kept
		}
	}

	return out
}

// mergeLayers picks the highest-precedence layer that provides the
// variable. A wildcard-only pick defers to the first lower layer holding a
// concrete value; if none exists the wildcard entries survive verbatim.
func mergeLayers(layers ...[]VariableValue) []VariableValue {
	var chosen []VariableValue
	for _, layer := range layers {
		if len(layer) == 0 {
			continue
		}
		if chosen == nil {
			chosen = layer
			continue
		}
		if wildcardOnly(chosen) {
			if concrete := concreteEntries(layer); len(concrete) > 0 {
				return concrete
			}
		}
	}
	return chosen
}

func wildcardOnly(entries []VariableValue) bool {
	for _, v := range entries {
		if !IsWildcard(v) {
			return false
		}
	}
	return len(entries) > 0
}

func concreteEntries(entries []VariableValue) []VariableValue {
	out := make([]VariableValue, 0, len(entries))
	for _, v := range entries {
		if IsWildcard(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}
