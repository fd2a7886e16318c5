package oo

import (
	"slices"
	"strings"

	"go.uber.org/zap"
)

// Callback is a deferred call of a method on a fixed object. The object is
// captured when the callback is built, not when it runs.
type Callback struct {
	self   *Object
	method string
	args   []Value
}

// Callback builds a callback that later invokes method on the current
// object, with private access, prefixed by args.
func (c *Call) Callback(method string, args ...Value) Value {
	return NewCallback(&Callback{self: c.self, method: method, args: slices.Clone(args)})
}

// MyMethod is another name for Callback.
func (c *Call) MyMethod(method string, args ...Value) Value {
	return c.Callback(method, args...)
}

func (cb *Callback) Self() *Object { return cb.self }

func (cb *Callback) Method() string { return cb.method }

func (cb *Callback) Args() []Value { return slices.Clone(cb.args) }

// Words renders the callback as a command: the object's my command, the
// method and the captured arguments.
func (cb *Callback) Words() []Value {
	words := make([]Value, 0, len(cb.args)+2)
	words = append(words, NewString(cb.self.ns.qualify("my")), NewString(cb.method))
	return append(words, cb.args...)
}

// Invoke runs the callback with extra appended to the captured arguments.
func (cb *Callback) Invoke(extra ...Value) (Value, error) {
	if !cb.self.Alive() {
		return NewNil(), newError("NONE", "OBJECT", "callback target %q has been destroyed", cb.self.ns.qualify("my"))
	}
	args := make([]Value, 0, len(cb.args)+len(extra))
	args = append(args, cb.args...)
	args = append(args, extra...)
	return cb.self.interp.invoke(cb.self, cb.method, args, true)
}

// ClassVariable binds each name in the running method's local frame to the
// variable of the same name in the namespace of the class that defined the
// method. Every name is checked before anything is bound.
func (c *Call) ClassVariable(names ...string) error {
	cls := c.Class()
	if cls == nil {
		return newError("CONTEXT", "CLASS", "classvariable may only be called from a method defined by a class")
	}
	for _, name := range names {
		if strings.Contains(name, "(") && strings.HasSuffix(name, ")") {
			return newError("UPVAR", "LOCAL_ELEMENT",
				"bad variable name %q: can't create a scalar variable that looks like an array element", name)
		}
		if strings.Contains(name, "::") {
			return newError("UPVAR", "INVERTED",
				"bad variable name %q: can't create a local variable with a namespace separator in it", name)
		}
	}
	if c.locals == nil {
		c.locals = make(map[string]varAlias, len(names))
	}
	for _, name := range names {
		cls.ns.ensureVar(name)
		c.locals[name] = varAlias{scope: cls.ns, name: name}
	}
	return nil
}

// commandLink records an alias made by Link so it can be removed when the
// method it points at goes away.
type commandLink struct {
	alias  *Command
	object *Object
	method string
}

// Link creates commands that call methods of the current object. Each spec
// is a list of one or two words: the command name and, when different, the
// method it calls. Relative command names are created in the object's
// namespace. All specs are checked before any command is created. The
// commands are removed when the object dies or the method disappears.
func (c *Call) Link(specs ...Value) error {
	type pair struct{ src, dst string }
	pairs := make([]pair, 0, len(specs))
	for _, spec := range specs {
		parts := spec.List()
		switch len(parts) {
		case 1:
			pairs = append(pairs, pair{parts[0].String(), parts[0].String()})
		case 2:
			pairs = append(pairs, pair{parts[0].String(), parts[1].String()})
		default:
			return newError("CMDLINK", "FORMAT", "bad link description; must only have one or two elements")
		}
	}
	interp := c.interp
	ns := c.self.ns
	for _, p := range pairs {
		src := p.src
		if !strings.HasPrefix(src, "::") {
			src = ns.qualify(src)
		}
		if existing := interp.LookupCommand(interp.global, src); existing != nil {
			interp.deleteCommand(existing)
		}
		alias, err := interp.createCommand(interp.global, src, &Command{kind: cmdAlias, object: c.self, method: p.dst})
		if err != nil {
			return err
		}
		link := &commandLink{alias: alias, object: c.self, method: p.dst}
		interp.links = append(interp.links, link)
		c.self.my.AddDeleteTrace(func(*Command) {
			interp.unlinkCommand(alias)
			interp.dropLink(link)
		})
		interp.log.Debug("command linked",
			zap.String("alias", alias.Name()),
			zap.String("object", c.self.Name()),
			zap.String("method", p.dst))
	}
	return nil
}

func (interp *Interp) unlinkCommand(alias *Command) {
	if !alias.deleted {
		interp.deleteCommand(alias)
	}
}

func (interp *Interp) dropLink(link *commandLink) {
	interp.links = slices.DeleteFunc(interp.links, func(l *commandLink) bool { return l == link })
}

// methodDeleted drops links whose target method no longer resolves.
func (interp *Interp) methodDeleted(name string) {
	kept := interp.links[:0]
	for _, l := range interp.links {
		switch {
		case l.alias.deleted:
		case l.method == name && (!l.object.Alive() || !l.object.respondsTo(name)):
			interp.unlinkCommand(l.alias)
		default:
			kept = append(kept, l)
		}
	}
	clear(interp.links[len(kept):])
	interp.links = kept
}
