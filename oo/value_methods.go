package oo

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

func (k ValueKind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	case KindObject:
		return "object"
	case KindCallback:
		return "callback"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.data.(string)
	case KindNil:
		return ""
	case KindBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.FormatInt(v.data.(int64), 10)
	case KindFloat:
		return strconv.FormatFloat(v.data.(float64), 'g', -1, 64)
	case KindList:
		return FormatList(v.data.([]Value))
	case KindDict:
		entries := v.data.(map[string]Value)
		parts := make([]Value, 0, len(entries)*2)
		for _, k := range slices.Sorted(maps.Keys(entries)) {
			parts = append(parts, NewString(k), entries[k])
		}
		return FormatList(parts)
	case KindObject:
		return v.data.(*Object).Name()
	case KindCallback:
		return FormatList(v.data.(*Callback).Words())
	default:
		return fmt.Sprintf("<%v>", v.kind)
	}
}

// Equal reports whether two values denote the same thing. Object references
// compare by identity; a string compares equal to an object whose fully
// qualified name it spells.
func (v Value) Equal(other Value) bool {
	if v.kind == KindObject || other.kind == KindObject {
		a, b := v.Object(), other.Object()
		switch {
		case a != nil && b != nil:
			return a == b
		case a != nil:
			return other.kind == KindString && a.Name() == other.String()
		default:
			return v.kind == KindString && b.Name() == v.String()
		}
	}
	if v.kind != other.kind {
		return v.String() == other.String()
	}
	switch v.kind {
	case KindList:
		a, b := v.List(), other.List()
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !a[i].Equal(b[i]) {
				return false
			}
		}
		return true
	case KindDict:
		a, b := v.Dict(), other.Dict()
		if len(a) != len(b) {
			return false
		}
		for k, av := range a {
			bv, ok := b[k]
			if !ok || !av.Equal(bv) {
				return false
			}
		}
		return true
	case KindCallback:
		return v.String() == other.String()
	default:
		return v.data == other.data
	}
}

func containsValue(items []Value, v Value) bool {
	for _, item := range items {
		if item.Equal(v) {
			return true
		}
	}
	return false
}

// FormatList renders values as a word list that ParseList reads back
// unchanged. Words with balanced braces are braced; anything else is
// backslash-escaped.
func FormatList(items []Value) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = quoteWord(item.String())
	}
	return strings.Join(parts, " ")
}

func quoteWord(s string) string {
	if s == "" {
		return "{}"
	}
	if !strings.ContainsAny(s, listSpecials) {
		return s
	}
	if bracesBalanced(s) {
		return "{" + s + "}"
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(listSpecials, s[i]) >= 0 {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

const listSpecials = " \t\n\r{}\"\\"

func bracesBalanced(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// ParseList splits s into words. Braces group a word and may nest; double
// quotes group a word without nesting. Outside braces and quotes a backslash
// takes the next byte literally.
func ParseList(s string) ([]Value, error) {
	words, err := splitWords(s)
	if err != nil {
		return nil, err
	}
	return stringValues(words), nil
}

func splitWords(s string) ([]string, error) {
	var words []string
	i := 0
	for i < len(s) {
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		if i >= len(s) {
			break
		}
		switch s[i] {
		case '{':
			depth := 1
			start := i + 1
			i++
			for i < len(s) && depth > 0 {
				switch s[i] {
				case '{':
					depth++
				case '}':
					depth--
				}
				i++
			}
			if depth != 0 {
				return nil, newError("LIST", "BRACE", "unmatched open brace in list")
			}
			words = append(words, s[start:i-1])
		case '"':
			end := strings.IndexByte(s[i+1:], '"')
			if end < 0 {
				return nil, newError("LIST", "QUOTE", "unmatched open quote in list")
			}
			words = append(words, s[i+1:i+1+end])
			i += end + 2
		default:
			var b strings.Builder
			for i < len(s) && !isSpace(s[i]) {
				if s[i] == '\\' && i+1 < len(s) {
					i++
				}
				b.WriteByte(s[i])
				i++
			}
			words = append(words, b.String())
			continue
		}
		if i < len(s) && !isSpace(s[i]) {
			return nil, newError("LIST", "JUNK", "list element in braces followed by %q instead of space", string(s[i]))
		}
	}
	return words, nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
