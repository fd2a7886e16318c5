package oo

import (
	"maps"
	"slices"
	"strings"
)

// Namespace is an explicit symbol table holding procedures, variables,
// commands and child namespaces. Every object owns one.
type Namespace struct {
	interp   *Interp
	name     string
	parent   *Namespace
	children map[string]*Namespace
	vars     map[string]*Variable
	procs    map[string]*Proc
	commands map[string]*Command
	deleted  bool
}

func newNamespace(interp *Interp, parent *Namespace, tail string) *Namespace {
	ns := &Namespace{
		interp:   interp,
		parent:   parent,
		children: make(map[string]*Namespace),
		vars:     make(map[string]*Variable),
		procs:    make(map[string]*Proc),
		commands: make(map[string]*Command),
	}
	if parent == nil {
		ns.name = "::"
	} else {
		ns.name = parent.qualify(tail)
		parent.children[tail] = ns
	}
	return ns
}

// Name returns the fully qualified name, "::" for the global namespace.
func (ns *Namespace) Name() string { return ns.name }

func (ns *Namespace) Parent() *Namespace { return ns.parent }

func (ns *Namespace) Deleted() bool { return ns.deleted }

func (ns *Namespace) qualify(tail string) string {
	if ns.parent == nil {
		return "::" + tail
	}
	return ns.name + "::" + tail
}

// Child returns the named child namespace or nil.
func (ns *Namespace) Child(tail string) *Namespace {
	return ns.children[tail]
}

func (ns *Namespace) ChildNames() []string {
	return slices.Sorted(maps.Keys(ns.children))
}

// Var returns the named variable, or nil if the namespace has no slot for it.
// A returned variable may still be unset.
func (ns *Namespace) Var(name string) *Variable {
	return ns.vars[name]
}

func (ns *Namespace) ensureVar(name string) *Variable {
	if v, ok := ns.vars[name]; ok {
		return v
	}
	v := &Variable{name: name}
	ns.vars[name] = v
	return v
}

func (ns *Namespace) GetVar(name string) (Value, error) {
	v := ns.vars[name]
	if v == nil {
		return NewNil(), newError("LOOKUP", "VARNAME", "can't read %q: no such variable", name)
	}
	return v.Get()
}

func (ns *Namespace) SetVar(name string, val Value) error {
	return ns.ensureVar(name).Set(val)
}

func (ns *Namespace) SetElement(name, key string, val Value) error {
	return ns.ensureVar(name).SetElement(key, val)
}

func (ns *Namespace) UnsetVar(name string) error {
	v := ns.vars[name]
	if v == nil || !v.Defined() {
		return newError("LOOKUP", "VARNAME", "can't unset %q: no such variable", name)
	}
	delete(ns.vars, name)
	v.Unset()
	return nil
}

// VarNames lists the variables that currently hold a value.
func (ns *Namespace) VarNames() []string {
	names := make([]string, 0, len(ns.vars))
	for name, v := range ns.vars {
		if v.Defined() {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

func (ns *Namespace) allVarNames() []string {
	return slices.Sorted(maps.Keys(ns.vars))
}

func (ns *Namespace) Proc(name string) *Proc {
	return ns.procs[name]
}

func (ns *Namespace) ProcNames() []string {
	return slices.Sorted(maps.Keys(ns.procs))
}

// DefineProc creates or replaces a procedure in the namespace.
func (ns *Namespace) DefineProc(name string, params []Param, body string, fn ProcFunc) (*Proc, error) {
	if name == "" || strings.Contains(name, "::") {
		return nil, newError("PROC", "NAME", "bad procedure name %q", name)
	}
	if err := validateParams(params); err != nil {
		return nil, err
	}
	p := &Proc{
		Name:   name,
		Params: slices.Clone(params),
		Body:   body,
		Fn:     fn,
		ns:     ns,
	}
	ns.procs[name] = p
	return p, nil
}

func (ns *Namespace) DeleteProc(name string) bool {
	if _, ok := ns.procs[name]; !ok {
		return false
	}
	delete(ns.procs, name)
	return true
}

// CallProc binds args to the named procedure's parameters and runs it.
func (ns *Namespace) CallProc(name string, args ...Value) (Value, error) {
	p := ns.procs[name]
	if p == nil {
		return NewNil(), newError("LOOKUP", "COMMAND", "invalid command name %q", ns.qualify(name))
	}
	return p.Call(args...)
}

// Command returns the command registered under tail in this namespace.
func (ns *Namespace) Command(tail string) *Command {
	return ns.commands[tail]
}

func (ns *Namespace) CommandNames() []string {
	return slices.Sorted(maps.Keys(ns.commands))
}

func splitQualified(name string) (nsPart, tail string) {
	idx := strings.LastIndex(name, "::")
	if idx < 0 {
		return "", name
	}
	return name[:idx], name[idx+2:]
}

// resolveNamespace walks path from ns (or from the global namespace when
// path is absolute), creating missing children when create is set.
func (interp *Interp) resolveNamespace(from *Namespace, path string, create bool) *Namespace {
	cur := from
	if strings.HasPrefix(path, "::") || cur == nil {
		cur = interp.global
	}
	for _, part := range strings.Split(path, "::") {
		if part == "" {
			continue
		}
		next := cur.children[part]
		if next == nil {
			if !create {
				return nil
			}
			next = newNamespace(interp, cur, part)
		}
		cur = next
	}
	return cur
}

// Namespace looks up a namespace by fully qualified name.
func (interp *Interp) Namespace(name string) *Namespace {
	return interp.resolveNamespace(interp.global, name, false)
}

func (interp *Interp) deleteNamespace(ns *Namespace) {
	if ns == nil || ns.deleted || ns.parent == nil {
		return
	}
	ns.deleted = true
	for _, tail := range ns.ChildNames() {
		interp.deleteNamespace(ns.children[tail])
	}
	for _, tail := range ns.CommandNames() {
		if cmd := ns.commands[tail]; cmd != nil {
			interp.deleteCommand(cmd)
		}
	}
	for _, v := range ns.vars {
		v.Unset()
	}
	clear(ns.vars)
	clear(ns.procs)
	if ns.parent.children[splitTail(ns.name)] == ns {
		delete(ns.parent.children, splitTail(ns.name))
	}
}

func splitTail(name string) string {
	_, tail := splitQualified(name)
	return tail
}
