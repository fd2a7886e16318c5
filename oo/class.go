package oo

import "slices"

type classInfo struct {
	superclasses []*Object
	mixins       []*Object
	filters      []string
	methods      map[string]*Method
	constructor  MethodFunc
	destructor   MethodFunc
	instances    []*Object
}

func newClassInfo(root *Object) *classInfo {
	info := &classInfo{methods: make(map[string]*Method)}
	if root != nil {
		info.superclasses = []*Object{root}
	}
	return info
}

func (ci *classInfo) clone() *classInfo {
	methods := make(map[string]*Method, len(ci.methods))
	for name, m := range ci.methods {
		clone := *m
		methods[name] = &clone
	}
	return &classInfo{
		superclasses: slices.Clone(ci.superclasses),
		mixins:       slices.Clone(ci.mixins),
		filters:      slices.Clone(ci.filters),
		methods:      methods,
		constructor:  ci.constructor,
		destructor:   ci.destructor,
	}
}

// IsClass reports whether the object is a class.
func (o *Object) IsClass() bool { return o != nil && o.cls != nil && !o.destroyed }

// IsSubclassOf reports whether o is other or inherits from it.
func (o *Object) IsSubclassOf(other *Object) bool {
	if !o.IsClass() || other == nil {
		return false
	}
	return slices.Contains(o.interp.linearize(o), other)
}

// Superclasses returns the declared superclasses in order.
func (o *Object) Superclasses() []*Object {
	if !o.IsClass() {
		return nil
	}
	return slices.Clone(o.cls.superclasses)
}

// Mixins returns the class-level mixins, applied to every instance.
func (o *Object) Mixins() []*Object {
	if !o.IsClass() {
		return nil
	}
	return slices.Clone(o.cls.mixins)
}

// Filters returns the class-level filter method names.
func (o *Object) Filters() []string {
	if !o.IsClass() {
		return nil
	}
	return slices.Clone(o.cls.filters)
}

// Instances returns the live direct instances of the class.
func (o *Object) Instances() []*Object {
	if !o.IsClass() {
		return nil
	}
	return slices.Clone(o.cls.instances)
}

// Subclasses returns the live classes that name o as a direct superclass.
func (o *Object) Subclasses() []*Object {
	var out []*Object
	for _, c := range o.interp.Objects() {
		if c != o && c.cls != nil && slices.Contains(c.cls.superclasses, o) {
			out = append(out, c)
		}
	}
	return out
}

// ClassMethodNames lists the methods the class defines for its instances,
// public ones only unless all is set.
func (o *Object) ClassMethodNames(all bool) []string {
	if !o.IsClass() {
		return nil
	}
	return methodNames(o.cls.methods, all)
}

func (o *Object) requireClass() error {
	if err := o.checkAlive(); err != nil {
		return err
	}
	if o.cls == nil {
		return newError("LOOKUP", "CLASS", "%q is not a class", o.Name())
	}
	return nil
}

// DefineMethod installs a method on the class for its instances. Names
// starting with a lowercase letter are public.
func (o *Object) DefineMethod(name string, fn MethodFunc) error {
	if err := o.requireClass(); err != nil {
		return err
	}
	defineMethod(o.cls.methods, name, fn, nil)
	return nil
}

// DefineForward installs a class method that runs target words followed by
// the call's arguments, resolved in the instance's namespace.
func (o *Object) DefineForward(name string, target ...Value) error {
	if err := o.requireClass(); err != nil {
		return err
	}
	if len(target) == 0 {
		return wrongArgs("forward name cmdName ?arg ...?")
	}
	defineMethod(o.cls.methods, name, forwardFunc(target), target)
	return nil
}

// DeleteMethod removes a class method. Links pointing at the method on
// objects that can no longer resolve it are removed.
func (o *Object) DeleteMethod(name string) error {
	if err := o.requireClass(); err != nil {
		return err
	}
	m := o.cls.methods[name]
	if m == nil || m.Fn == nil {
		return newError("LOOKUP", "METHOD", "method %q does not exist", name)
	}
	delete(o.cls.methods, name)
	o.interp.methodDeleted(name)
	return nil
}

// Export makes class methods public; names without a definition here become
// visibility records that expose an inherited method.
func (o *Object) Export(names ...string) error {
	if err := o.requireClass(); err != nil {
		return err
	}
	setVisibility(o.cls.methods, names, true)
	return nil
}

// Unexport hides class methods from callers outside the object.
func (o *Object) Unexport(names ...string) error {
	if err := o.requireClass(); err != nil {
		return err
	}
	setVisibility(o.cls.methods, names, false)
	return nil
}

// SetConstructor installs the class constructor. It receives the
// construction arguments and chains to superclass constructors with Next.
func (o *Object) SetConstructor(fn MethodFunc) error {
	if err := o.requireClass(); err != nil {
		return err
	}
	o.cls.constructor = fn
	return nil
}

// SetDestructor installs the class destructor.
func (o *Object) SetDestructor(fn MethodFunc) error {
	if err := o.requireClass(); err != nil {
		return err
	}
	o.cls.destructor = fn
	return nil
}

// Initialise runs fn once with the class namespace, for setting up class
// variables at definition time.
func (o *Object) Initialise(fn func(ns *Namespace) error) error {
	if err := o.requireClass(); err != nil {
		return err
	}
	return fn(o.ns)
}

// Initialize is the American spelling of Initialise.
func (o *Object) Initialize(fn func(ns *Namespace) error) error {
	return o.Initialise(fn)
}

// linearize returns c followed by its ancestors, depth first and left to
// right, keeping only the last occurrence of a class reached along several
// paths so shared roots come after everything that inherits from them.
func (interp *Interp) linearize(c *Object) []*Object {
	var walk []*Object
	visiting := make(map[*Object]bool)
	var visit func(*Object)
	visit = func(x *Object) {
		if x == nil || x.cls == nil || visiting[x] {
			return
		}
		visiting[x] = true
		walk = append(walk, x)
		for _, s := range x.cls.superclasses {
			visit(s)
		}
		visiting[x] = false
	}
	visit(c)
	return keepLast(walk)
}

func keepLast[T comparable](items []T) []T {
	last := make(map[T]int, len(items))
	for i, item := range items {
		last[item] = i
	}
	out := make([]T, 0, len(last))
	for i, item := range items {
		if last[item] == i {
			out = append(out, item)
		}
	}
	return out
}
