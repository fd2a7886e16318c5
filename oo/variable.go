package oo

import "maps"

// Variable is a namespace variable. It is either a scalar or an array of
// string-keyed elements, and may exist without holding a value.
type Variable struct {
	name    string
	value   Value
	array   map[string]Value
	isArray bool
	defined bool
}

func (v *Variable) Name() string { return v.name }

func (v *Variable) Defined() bool { return v.defined }

func (v *Variable) IsArray() bool { return v.defined && v.isArray }

func (v *Variable) Get() (Value, error) {
	switch {
	case !v.defined:
		return NewNil(), newError("LOOKUP", "VARNAME", "can't read %q: no such variable", v.name)
	case v.isArray:
		return NewNil(), newError("READ", "VARNAME", "can't read %q: variable is array", v.name)
	default:
		return v.value, nil
	}
}

func (v *Variable) Set(val Value) error {
	if v.defined && v.isArray {
		return newError("WRITE", "ARRAY", "can't set %q: variable is array", v.name)
	}
	v.value = val
	v.defined = true
	return nil
}

// SetElement stores one array element, turning an unset variable into an
// array.
func (v *Variable) SetElement(key string, val Value) error {
	if v.defined && !v.isArray {
		return newError("WRITE", "ARRAY", "can't set \"%s(%s)\": variable isn't array", v.name, key)
	}
	if !v.defined {
		v.array = make(map[string]Value)
		v.isArray = true
		v.defined = true
	}
	v.array[key] = val
	return nil
}

func (v *Variable) Element(key string) (Value, bool) {
	if !v.IsArray() {
		return NewNil(), false
	}
	val, ok := v.array[key]
	return val, ok
}

// ArrayGet returns a copy of the array's elements, or nil for scalars.
func (v *Variable) ArrayGet() map[string]Value {
	if !v.IsArray() {
		return nil
	}
	return maps.Clone(v.array)
}

// ArraySet merges pairs into the variable, turning an unset variable into an
// array.
func (v *Variable) ArraySet(pairs map[string]Value) error {
	if v.defined && !v.isArray {
		return newError("WRITE", "ARRAY", "can't array set %q: variable isn't array", v.name)
	}
	if !v.defined {
		v.array = make(map[string]Value, len(pairs))
		v.isArray = true
		v.defined = true
	}
	maps.Copy(v.array, pairs)
	return nil
}

func (v *Variable) Unset() {
	v.value = Value{}
	v.array = nil
	v.isArray = false
	v.defined = false
}
