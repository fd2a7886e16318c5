package oo

import (
	"slices"
	"strings"
)

// definer is one link of an object's call order: either the per-object
// method table of obj, or the class-level table of the class obj.
type definer struct {
	obj       *Object
	perObject bool
}

func (d definer) table() map[string]*Method {
	if d.perObject {
		return d.obj.methods
	}
	if d.obj.cls == nil {
		return nil
	}
	return d.obj.cls.methods
}

type methodImpl struct {
	definer definer
	method  *Method
	filter  bool
}

// Call is one activation in a method chain. It gives the running method
// access to self, to the next implementation in the chain and to a local
// frame of variable aliases.
type Call struct {
	interp  *Interp
	self    *Object
	name    string
	chain   []*methodImpl
	index   int
	private bool
	locals  map[string]varAlias
}

// varAlias points a local name at a variable in another namespace. It is
// resolved on every access, so unsetting the target never leaves a dangling
// reference.
type varAlias struct {
	scope *Namespace
	name  string
}

func (c *Call) Interp() *Interp { return c.interp }

// Self returns the object the method was invoked on.
func (c *Call) Self() *Object { return c.self }

// Method returns the name the method was invoked under.
func (c *Call) Method() string { return c.name }

// Class returns the class that defined the running implementation, or nil
// when it is a per-object method.
func (c *Call) Class() *Object {
	impl := c.chain[c.index]
	if impl.definer.perObject {
		return nil
	}
	return impl.definer.obj
}

// IsFilter reports whether the running implementation was entered as a
// filter.
func (c *Call) IsFilter() bool { return c.chain[c.index].filter }

// Namespace returns self's private namespace.
func (c *Call) Namespace() *Namespace { return c.self.ns }

// Next invokes the next implementation in the chain with args.
func (c *Call) Next(args ...Value) (Value, error) {
	if c.index+1 >= len(c.chain) {
		return NewNil(), newError("NEXT", "NO_TARGET", "no next method implementation")
	}
	next := &Call{
		interp:  c.interp,
		self:    c.self,
		name:    c.name,
		chain:   c.chain,
		index:   c.index + 1,
		private: c.private,
	}
	return next.run(args)
}

// HasNext reports whether Next has somewhere to go.
func (c *Call) HasNext() bool { return c.index+1 < len(c.chain) }

// My invokes a method on self with private access.
func (c *Call) My(method string, args ...Value) (Value, error) {
	return c.interp.invoke(c.self, method, args, true)
}

// Var returns the variable a local name refers to: an alias created by
// ClassVariable, or otherwise the variable of that name in self's namespace.
func (c *Call) Var(name string) *Variable {
	if alias, ok := c.locals[name]; ok {
		return alias.scope.ensureVar(alias.name)
	}
	return c.self.ns.ensureVar(name)
}

func (c *Call) Get(name string) (Value, error) { return c.Var(name).Get() }

func (c *Call) Set(name string, val Value) error { return c.Var(name).Set(val) }

// LocalAliases lists the local names bound by ClassVariable.
func (c *Call) LocalAliases() []string {
	names := make([]string, 0, len(c.locals))
	for name := range c.locals {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (c *Call) run(args []Value) (Value, error) {
	interp := c.interp
	if interp.depth >= interp.config.MaxCallDepth {
		return NewNil(), newError("LIMIT", "CALL_DEPTH", "too many nested calls (limit %d)", interp.config.MaxCallDepth)
	}
	interp.depth++
	defer func() { interp.depth-- }()
	impl := c.chain[c.index]
	if impl.filter {
		c.self.filterDepth++
		defer func() { c.self.filterDepth-- }()
	}
	return impl.method.Fn(c, args)
}

// callOrder lists the method tables consulted for o, most specific first:
// per-object mixins, class mixins, the object's own methods, then the
// class hierarchy.
func (o *Object) callOrder() []definer {
	interp := o.interp
	var seq []definer
	visiting := make(map[*Object]bool)
	var addMixin func(m *Object)
	addMixin = func(m *Object) {
		if m == nil || m.cls == nil || visiting[m] {
			return
		}
		visiting[m] = true
		lin := interp.linearize(m)
		for _, c := range lin {
			for _, mm := range c.cls.mixins {
				addMixin(mm)
			}
		}
		for _, c := range lin {
			seq = append(seq, definer{obj: c})
		}
		visiting[m] = false
	}
	for _, m := range o.mixins {
		addMixin(m)
	}
	lin := interp.linearize(o.class)
	for _, c := range lin {
		for _, m := range c.cls.mixins {
			addMixin(m)
		}
	}
	seq = append(seq, definer{obj: o, perObject: true})
	for _, c := range lin {
		seq = append(seq, definer{obj: c})
	}
	return keepLast(seq)
}

func (o *Object) filterNames(order []definer) []string {
	var names []string
	names = append(names, o.filters...)
	for _, d := range order {
		if !d.perObject && d.obj.cls != nil {
			names = append(names, d.obj.cls.filters...)
		}
	}
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// resolve collects the implementations of name along order. The first
// table with an entry for name decides visibility; public callers see
// nothing when that entry is unexported.
func resolve(order []definer, name string, private bool) []*methodImpl {
	var impls []*methodImpl
	decided := false
	for _, d := range order {
		m := d.table()[name]
		if m == nil {
			continue
		}
		if !decided {
			decided = true
			if !private && !m.Exported {
				return nil
			}
		}
		if m.Fn != nil {
			impls = append(impls, &methodImpl{definer: d, method: m})
		}
	}
	return impls
}

func (interp *Interp) invoke(o *Object, name string, args []Value, private bool) (Value, error) {
	if o == nil {
		return NewNil(), newError("LOOKUP", "OBJECT", "no such object")
	}
	if o.destroyed {
		return NewNil(), newError("NONE", "OBJECT", "object %q has been destroyed", o.Name())
	}
	order := o.callOrder()
	chain := resolve(order, name, private)
	if len(chain) == 0 {
		unknown := resolve(order, "unknown", true)
		if len(unknown) == 0 {
			return NewNil(), o.unknownMethodError(name, private)
		}
		call := &Call{interp: interp, self: o, name: "unknown", chain: unknown, private: true}
		return call.run(append([]Value{NewString(name)}, args...))
	}
	if o.filterDepth == 0 {
		var filters []*methodImpl
		for _, f := range o.filterNames(order) {
			for _, impl := range resolve(order, f, true) {
				filters = append(filters, &methodImpl{definer: impl.definer, method: impl.method, filter: true})
			}
		}
		chain = append(filters, chain...)
	}
	call := &Call{interp: interp, self: o, name: name, chain: chain, private: private}
	return call.run(args)
}

func (o *Object) unknownMethodError(name string, private bool) error {
	names := o.MethodNames(private)
	var choices string
	switch len(names) {
	case 0:
		return newError("UNKNOWN_METHOD", "", "object %q has no visible methods", o.Name())
	case 1:
		choices = names[0]
	default:
		choices = strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
	}
	return newError("UNKNOWN_METHOD", "", "unknown method %q: must be %s", name, choices)
}
