package oo

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsNil() bool { return v.kind == KindNil }

func (v Value) Bool() bool {
	if v.kind == KindBool {
		return v.data.(bool)
	}
	return false
}

func (v Value) Int() int64 {
	switch v.kind {
	case KindInt:
		return v.data.(int64)
	case KindFloat:
		return int64(v.data.(float64))
	default:
		return 0
	}
}

func (v Value) Float() float64 {
	switch v.kind {
	case KindFloat:
		return v.data.(float64)
	case KindInt:
		return float64(v.data.(int64))
	default:
		return 0
	}
}

// List returns the elements of a list value. String values are parsed as
// brace-quoted lists so that words typed at the command dispatcher can be
// used wherever a list is expected.
func (v Value) List() []Value {
	switch v.kind {
	case KindList:
		return v.data.([]Value)
	case KindString:
		items, err := ParseList(v.data.(string))
		if err != nil {
			return []Value{v}
		}
		return items
	case KindNil:
		return nil
	default:
		return []Value{v}
	}
}

func (v Value) Dict() map[string]Value {
	if v.kind != KindDict {
		return nil
	}
	return v.data.(map[string]Value)
}

// Object returns the referenced object, or nil when v is not an object
// reference.
func (v Value) Object() *Object {
	if v.kind != KindObject {
		return nil
	}
	return v.data.(*Object)
}

func (v Value) Callback() *Callback {
	if v.kind != KindCallback {
		return nil
	}
	return v.data.(*Callback)
}
