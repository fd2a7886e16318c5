package oo

type ValueKind int

const (
	KindNil ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindDict
	KindObject
	KindCallback
)

// Value is anything a variable, argument or method result can hold.
type Value struct {
	kind ValueKind
	data any
}

func NewNil() Value { return Value{kind: KindNil} }

func NewBool(b bool) Value { return Value{kind: KindBool, data: b} }

func NewInt(i int64) Value { return Value{kind: KindInt, data: i} }

func NewFloat(f float64) Value { return Value{kind: KindFloat, data: f} }

func NewString(s string) Value { return Value{kind: KindString, data: s} }

func NewList(items []Value) Value { return Value{kind: KindList, data: items} }

func NewDict(d map[string]Value) Value { return Value{kind: KindDict, data: d} }

func NewObjectRef(o *Object) Value { return Value{kind: KindObject, data: o} }

func NewCallback(cb *Callback) Value { return Value{kind: KindCallback, data: cb} }

// NewStrings builds a list value out of plain strings.
func NewStrings(items ...string) Value {
	out := make([]Value, len(items))
	for i, s := range items {
		out[i] = NewString(s)
	}
	return NewList(out)
}

func objectRefs(objs []*Object) []Value {
	out := make([]Value, len(objs))
	for i, o := range objs {
		out[i] = NewObjectRef(o)
	}
	return out
}

func stringValues(items []string) []Value {
	out := make([]Value, len(items))
	for i, s := range items {
		out[i] = NewString(s)
	}
	return out
}
