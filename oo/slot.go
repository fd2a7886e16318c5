package oo

import (
	"slices"
	"strings"

	"go.uber.org/zap"
)

// Slot is a gettable, settable ordered collection backing one piece of
// class or object configuration. Concrete slots implement Get and Set;
// every other operation is derived from those two.
type Slot interface {
	Get() ([]Value, error)
	Set(items []Value) error
	Resolve(item Value) (Value, error)
}

// BaseSlot supplies the abstract Get and Set and the identity Resolve.
// Concrete slots embed it and override what they need.
type BaseSlot struct{}

func (BaseSlot) Get() ([]Value, error) {
	return nil, newError("ABSTRACT_SLOT", "", "unimplemented")
}

func (BaseSlot) Set([]Value) error {
	return newError("ABSTRACT_SLOT", "", "unimplemented")
}

func (BaseSlot) Resolve(item Value) (Value, error) { return item, nil }

// DefaultOperation is what a slot does when invoked without an explicit
// operation.
func (BaseSlot) DefaultOperation() string { return "-append" }

type defaultOperator interface {
	DefaultOperation() string
}

func defaultOperation(s Slot) string {
	if d, ok := s.(defaultOperator); ok {
		return d.DefaultOperation()
	}
	return "-append"
}

func resolveAll(s Slot, items []Value) ([]Value, error) {
	out := make([]Value, len(items))
	for i, item := range items {
		r, err := s.Resolve(item)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

// SlotSet replaces the slot's contents with the resolved items.
func SlotSet(s Slot, items ...Value) error {
	resolved, err := resolveAll(s, items)
	if err != nil {
		return err
	}
	return s.Set(resolved)
}

// SlotAppend adds the resolved items after the current contents.
func SlotAppend(s Slot, items ...Value) error {
	resolved, err := resolveAll(s, items)
	if err != nil {
		return err
	}
	current, err := s.Get()
	if err != nil {
		return err
	}
	return s.Set(append(slices.Clone(current), resolved...))
}

// SlotPrepend adds the resolved items before the current contents.
func SlotPrepend(s Slot, items ...Value) error {
	resolved, err := resolveAll(s, items)
	if err != nil {
		return err
	}
	current, err := s.Get()
	if err != nil {
		return err
	}
	return s.Set(append(resolved, current...))
}

// SlotRemove drops every current entry equal to one of the resolved items.
func SlotRemove(s Slot, items ...Value) error {
	resolved, err := resolveAll(s, items)
	if err != nil {
		return err
	}
	current, err := s.Get()
	if err != nil {
		return err
	}
	kept := make([]Value, 0, len(current))
	for _, v := range current {
		if !containsValue(resolved, v) {
			kept = append(kept, v)
		}
	}
	return s.Set(kept)
}

// SlotClear empties the slot.
func SlotClear(s Slot) error {
	return s.Set(nil)
}

// SlotInvoke runs a slot operation given as words: an operation name such
// as -append followed by its items. With no words, or when the first word
// does not start with "-", the slot's default operation runs instead.
func SlotInvoke(s Slot, words ...Value) error {
	op := defaultOperation(s)
	args := words
	if len(words) > 0 && strings.HasPrefix(words[0].String(), "-") {
		op = words[0].String()
		args = words[1:]
	}
	switch op {
	case "-set":
		return SlotSet(s, args...)
	case "-append":
		return SlotAppend(s, args...)
	case "-prepend":
		return SlotPrepend(s, args...)
	case "-remove":
		return SlotRemove(s, args...)
	case "-clear":
		if len(args) != 0 {
			return wrongArgs("slot -clear")
		}
		return SlotClear(s)
	default:
		return newError("UNKNOWN_METHOD", "", "unknown method %q: must be -append, -clear, -prepend, -remove or -set", op)
	}
}

// SlotNames renders a slot's current contents as strings.
func SlotNames(s Slot) ([]string, error) {
	items, err := s.Get()
	if err != nil {
		return nil, err
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.String()
	}
	return out, nil
}

// classSlot resolves names to class references.
type classSlot struct {
	BaseSlot
	interp *Interp
}

func (classSlot) DefaultOperation() string { return "-set" }

func (s classSlot) Resolve(item Value) (Value, error) {
	if obj := item.Object(); obj != nil {
		if !obj.IsClass() {
			return NewNil(), newError("LOOKUP", "CLASS", "%q is not a class", obj.Name())
		}
		return item, nil
	}
	cls, err := s.interp.Class(item.String())
	if err != nil {
		return NewNil(), err
	}
	return NewObjectRef(cls), nil
}

func (s classSlot) classes(items []Value) ([]*Object, error) {
	out := make([]*Object, 0, len(items))
	for _, item := range items {
		r, err := s.Resolve(item)
		if err != nil {
			return nil, err
		}
		if cls := r.Object(); !slices.Contains(out, cls) {
			out = append(out, cls)
		}
	}
	return out, nil
}

type superclassSlot struct {
	classSlot
	cls *Object
}

// SuperclassSlot returns the slot holding the class's superclasses.
func (o *Object) SuperclassSlot() Slot {
	return superclassSlot{classSlot: classSlot{interp: o.interp}, cls: o}
}

func (s superclassSlot) Get() ([]Value, error) {
	if err := s.cls.requireClass(); err != nil {
		return nil, err
	}
	return objectRefs(s.cls.cls.superclasses), nil
}

func (s superclassSlot) Set(items []Value) error {
	if err := s.cls.requireClass(); err != nil {
		return err
	}
	supers, err := s.classes(items)
	if err != nil {
		return err
	}
	interp := s.interp
	if len(supers) == 0 && s.cls != interp.objectClass {
		supers = []*Object{interp.objectClass}
	}
	for _, sup := range supers {
		if sup == s.cls || sup.IsSubclassOf(s.cls) {
			return newError("DEFINE", "CYCLE", "attempt to form circular dependency graph")
		}
	}
	s.cls.cls.superclasses = supers
	interp.log.Debug("superclasses set",
		zap.String("class", s.cls.Name()),
		zap.Strings("superclasses", objectNames(supers)))
	return interp.afterSuperclassChange(s.cls)
}

type classMixinSlot struct {
	classSlot
	cls *Object
}

// MixinSlot returns the slot holding the class-level mixins.
func (o *Object) MixinSlot() Slot {
	return classMixinSlot{classSlot: classSlot{interp: o.interp}, cls: o}
}

func (s classMixinSlot) Get() ([]Value, error) {
	if err := s.cls.requireClass(); err != nil {
		return nil, err
	}
	return objectRefs(s.cls.cls.mixins), nil
}

func (s classMixinSlot) Set(items []Value) error {
	if err := s.cls.requireClass(); err != nil {
		return err
	}
	mixins, err := s.classes(items)
	if err != nil {
		return err
	}
	if slices.Contains(mixins, s.cls) {
		return newError("DEFINE", "CYCLE", "may not mix a class into itself")
	}
	s.cls.cls.mixins = mixins
	s.interp.log.Debug("class mixins set",
		zap.String("class", s.cls.Name()),
		zap.Strings("mixins", objectNames(mixins)))
	return nil
}

type objectMixinSlot struct {
	classSlot
	obj *Object
}

// ObjectMixinSlot returns the slot holding the per-object mixins.
func (o *Object) ObjectMixinSlot() Slot {
	return objectMixinSlot{classSlot: classSlot{interp: o.interp}, obj: o}
}

func (s objectMixinSlot) Get() ([]Value, error) {
	if err := s.obj.checkAlive(); err != nil {
		return nil, err
	}
	return objectRefs(s.obj.mixins), nil
}

func (s objectMixinSlot) Set(items []Value) error {
	if err := s.obj.checkAlive(); err != nil {
		return err
	}
	mixins, err := s.classes(items)
	if err != nil {
		return err
	}
	s.obj.mixins = mixins
	s.interp.log.Debug("object mixins set",
		zap.String("object", s.obj.Name()),
		zap.Strings("mixins", objectNames(mixins)))
	return nil
}

type filterSlot struct {
	BaseSlot
	get func() []string
	set func([]string)
	ok  func() error
}

func (filterSlot) DefaultOperation() string { return "-set" }

func (s filterSlot) Get() ([]Value, error) {
	if err := s.ok(); err != nil {
		return nil, err
	}
	return stringValues(s.get()), nil
}

func (s filterSlot) Set(items []Value) error {
	if err := s.ok(); err != nil {
		return err
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		if name := item.String(); !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	s.set(names)
	return nil
}

// FilterSlot returns the slot holding the class-level filter names.
func (o *Object) FilterSlot() Slot {
	return filterSlot{
		get: func() []string { return o.cls.filters },
		set: func(names []string) { o.cls.filters = names },
		ok:  o.requireClass,
	}
}

// ObjectFilterSlot returns the slot holding the per-object filter names.
func (o *Object) ObjectFilterSlot() Slot {
	return filterSlot{
		get: func() []string { return o.filters },
		set: func(names []string) { o.filters = names },
		ok:  o.checkAlive,
	}
}

func objectNames(objs []*Object) []string {
	out := make([]string, len(objs))
	for i, o := range objs {
		out[i] = o.Name()
	}
	return out
}
