package oo

// CommandFunc implements a builtin command. ns is the namespace the command
// was resolved from.
type CommandFunc func(interp *Interp, ns *Namespace, args []Value) (Value, error)

// DeleteTrace runs once when its command is deleted.
type DeleteTrace func(cmd *Command)

type commandKind int

const (
	cmdBuiltin commandKind = iota
	cmdObject
	cmdMy
	cmdMyClass
	cmdAlias
)

// Command is an entry in a namespace's command table: a builtin, an object's
// public command, an object's private my/myclass command, or a link alias.
type Command struct {
	kind    commandKind
	tail    string
	ns      *Namespace
	fn      CommandFunc
	object  *Object
	method  string
	traces  []DeleteTrace
	deleted bool
}

// Name returns the fully qualified command name.
func (c *Command) Name() string { return c.ns.qualify(c.tail) }

func (c *Command) Deleted() bool { return c.deleted }

// Object returns the object a command dispatches to, if any.
func (c *Command) Object() *Object { return c.object }

// AddDeleteTrace registers fn to run when the command is deleted, either
// explicitly or because its namespace or object went away.
func (c *Command) AddDeleteTrace(fn DeleteTrace) {
	c.traces = append(c.traces, fn)
}

func (interp *Interp) createCommand(from *Namespace, name string, cmd *Command) (*Command, error) {
	nsPart, tail := splitQualified(name)
	if tail == "" {
		return nil, newError("OBJECT", "NAME", "empty command name %q", name)
	}
	if nsPart == "" && len(name) > len(tail) {
		nsPart = "::"
	}
	ns := from
	if nsPart != "" {
		ns = interp.resolveNamespace(from, nsPart, true)
	}
	if existing := ns.commands[tail]; existing != nil && !existing.deleted {
		return nil, newError("OBJECT", "EXISTS", "can't create object %q: command already exists with that name", ns.qualify(tail))
	}
	cmd.tail = tail
	cmd.ns = ns
	ns.commands[tail] = cmd
	return cmd, nil
}

// RegisterCommand adds a builtin command under a name relative to the
// global namespace.
func (interp *Interp) RegisterCommand(name string, fn CommandFunc) (*Command, error) {
	return interp.createCommand(interp.global, name, &Command{kind: cmdBuiltin, fn: fn})
}

// LookupCommand resolves name from ns: qualified names are resolved from the
// global namespace, simple names in ns first and then globally.
func (interp *Interp) LookupCommand(ns *Namespace, name string) *Command {
	if ns == nil {
		ns = interp.global
	}
	nsPart, tail := splitQualified(name)
	if nsPart == "" && len(name) > len(tail) {
		nsPart = "::"
	}
	if nsPart != "" {
		target := interp.resolveNamespace(ns, nsPart, false)
		if target == nil {
			if len(name) > 0 && name[0] != ':' {
				target = interp.resolveNamespace(interp.global, nsPart, false)
			}
			if target == nil {
				return nil
			}
		}
		return liveCommand(target.commands[tail])
	}
	if cmd := liveCommand(ns.commands[tail]); cmd != nil {
		return cmd
	}
	return liveCommand(interp.global.commands[tail])
}

func liveCommand(cmd *Command) *Command {
	if cmd == nil || cmd.deleted {
		return nil
	}
	return cmd
}

// DeleteCommand removes a command, firing its delete traces. Deleting an
// object's command destroys the object.
func (interp *Interp) DeleteCommand(name string) error {
	cmd := interp.LookupCommand(interp.global, name)
	if cmd == nil {
		return newError("LOOKUP", "COMMAND", "can't delete %q: command doesn't exist", name)
	}
	interp.deleteCommand(cmd)
	return nil
}

func (interp *Interp) deleteCommand(cmd *Command) {
	if cmd.deleted {
		return
	}
	cmd.deleted = true
	if cmd.ns.commands[cmd.tail] == cmd {
		delete(cmd.ns.commands, cmd.tail)
	}
	traces := cmd.traces
	cmd.traces = nil
	for _, trace := range traces {
		trace(cmd)
	}
	if cmd.kind == cmdObject && cmd.object != nil {
		interp.destroyObject(cmd.object)
	}
}

// CallCommand runs words[0] with the remaining words as arguments, resolving
// the command name from ns.
func (interp *Interp) CallCommand(ns *Namespace, words []Value) (Value, error) {
	if len(words) == 0 {
		return NewNil(), nil
	}
	name := words[0].String()
	if obj := words[0].Object(); obj != nil {
		if len(words) < 2 {
			return NewNil(), wrongArgs(obj.Name() + " method ?arg ...?")
		}
		return interp.invoke(obj, words[1].String(), words[2:], false)
	}
	cmd := interp.LookupCommand(ns, name)
	if cmd == nil {
		return NewNil(), newError("LOOKUP", "COMMAND", "invalid command name %q", name)
	}
	args := words[1:]
	switch cmd.kind {
	case cmdObject:
		if len(args) == 0 {
			return NewNil(), wrongArgs(cmd.Name() + " method ?arg ...?")
		}
		return interp.invoke(cmd.object, args[0].String(), args[1:], false)
	case cmdMy:
		if len(args) == 0 {
			return NewNil(), wrongArgs("my method ?arg ...?")
		}
		return interp.invoke(cmd.object, args[0].String(), args[1:], true)
	case cmdMyClass:
		if len(args) == 0 {
			return NewNil(), wrongArgs("myclass method ?arg ...?")
		}
		return interp.invoke(cmd.object.class, args[0].String(), args[1:], true)
	case cmdAlias:
		return interp.invoke(cmd.object, cmd.method, args, true)
	default:
		return cmd.fn(interp, ns, args)
	}
}
