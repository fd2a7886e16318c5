package oo

// CloneMode decides what happens to variable values when an object is
// copied.
type CloneMode int

const (
	// CloneShallow assigns values as they are; lists and dicts end up shared
	// between the origin and the copy.
	CloneShallow CloneMode = iota
	// CloneDeep copies lists and dicts recursively. Object references and
	// callbacks are still shared.
	CloneDeep
)

func (m CloneMode) String() string {
	if m == CloneDeep {
		return "deep"
	}
	return "shallow"
}

// ParseCloneMode accepts "shallow" or "deep"; the empty string means shallow.
func ParseCloneMode(s string) (CloneMode, error) {
	switch s {
	case "", "shallow":
		return CloneShallow, nil
	case "deep":
		return CloneDeep, nil
	default:
		return CloneShallow, newError("CONFIG", "CLONE_MODE", "unknown clone mode %q: must be shallow or deep", s)
	}
}

func (m CloneMode) cloneValue(val Value) Value {
	if m == CloneDeep {
		return deepCloneValue(val)
	}
	return val
}

func (m CloneMode) cloneArray(src map[string]Value) map[string]Value {
	out := make(map[string]Value, len(src))
	for k, v := range src {
		out[k] = m.cloneValue(v)
	}
	return out
}

func deepCloneValue(val Value) Value {
	switch val.Kind() {
	case KindList:
		items := val.List()
		cloned := make([]Value, len(items))
		for i, elem := range items {
			cloned[i] = deepCloneValue(elem)
		}
		return NewList(cloned)
	case KindDict:
		dict := val.Dict()
		cloned := make(map[string]Value, len(dict))
		for k, v := range dict {
			cloned[k] = deepCloneValue(v)
		}
		return NewDict(cloned)
	default:
		return val
	}
}
