package oo

import (
	"strings"
)

// Param is one formal parameter of a procedure. A final parameter named
// "args" collects any remaining arguments as a list.
type Param struct {
	Name       string
	Default    Value
	HasDefault bool
}

type ProcFunc func(f *Frame) (Value, error)

// Proc is a procedure stored in a namespace. Body is the opaque source text
// kept for introspection and copying; Fn is what actually runs.
type Proc struct {
	Name   string
	Params []Param
	Body   string
	Fn     ProcFunc
	ns     *Namespace
}

// Frame is the activation of a procedure call.
type Frame struct {
	proc *Proc
	args map[string]Value
}

func (f *Frame) Arg(name string) Value { return f.args[name] }

func (f *Frame) Namespace() *Namespace { return f.proc.ns }

func (f *Frame) Proc() *Proc { return f.proc }

func (p *Proc) Namespace() *Namespace { return p.ns }

// QualifiedName returns the procedure's name within its namespace.
func (p *Proc) QualifiedName() string { return p.ns.qualify(p.Name) }

// ArgSpec describes the parameter list the way it is redeclared: a
// parameter with a default becomes a two element {name default} list, one
// without becomes a single element {name} list.
func (p *Proc) ArgSpec() []Value {
	spec := make([]Value, len(p.Params))
	for i, param := range p.Params {
		if param.HasDefault {
			spec[i] = NewList([]Value{NewString(param.Name), param.Default})
		} else {
			spec[i] = NewList([]Value{NewString(param.Name)})
		}
	}
	return spec
}

// ParseParams is the inverse of ArgSpec.
func ParseParams(spec []Value) ([]Param, error) {
	var params []Param
	for _, item := range spec {
		parts := item.List()
		switch len(parts) {
		case 1:
			params = append(params, Param{Name: parts[0].String()})
		case 2:
			params = append(params, Param{Name: parts[0].String(), Default: parts[1], HasDefault: true})
		default:
			return nil, newError("PROC", "FORMAT", "too many fields in argument specifier %q", item.String())
		}
	}
	if err := validateParams(params); err != nil {
		return nil, err
	}
	return params, nil
}

func validateParams(params []Param) error {
	seen := make(map[string]struct{}, len(params))
	for _, param := range params {
		if param.Name == "" {
			return newError("PROC", "FORMAT", "argument with no name")
		}
		if strings.Contains(param.Name, "::") || strings.ContainsAny(param.Name, "()") {
			return newError("PROC", "FORMAT", "formal parameter %q is not a simple name", param.Name)
		}
		if _, dup := seen[param.Name]; dup {
			return newError("PROC", "FORMAT", "duplicate formal parameter %q", param.Name)
		}
		seen[param.Name] = struct{}{}
	}
	return nil
}

func (p *Proc) usage() string {
	var b strings.Builder
	b.WriteString(p.Name)
	for i, param := range p.Params {
		b.WriteByte(' ')
		switch {
		case param.Name == "args" && i == len(p.Params)-1:
			b.WriteString("?arg ...?")
		case param.HasDefault:
			b.WriteString("?" + param.Name + "?")
		default:
			b.WriteString(param.Name)
		}
	}
	return b.String()
}

// Call binds args to the parameters and runs the procedure.
func (p *Proc) Call(args ...Value) (Value, error) {
	bound := make(map[string]Value, len(p.Params))
	rest := args
	for i, param := range p.Params {
		if param.Name == "args" && i == len(p.Params)-1 {
			bound["args"] = NewList(append([]Value(nil), rest...))
			rest = nil
			continue
		}
		switch {
		case len(rest) > 0:
			bound[param.Name] = rest[0]
			rest = rest[1:]
		case param.HasDefault:
			bound[param.Name] = param.Default
		default:
			return NewNil(), wrongArgs(p.usage())
		}
	}
	if len(rest) > 0 {
		return NewNil(), wrongArgs(p.usage())
	}
	if p.Fn == nil {
		return NewString(p.Body), nil
	}
	return p.Fn(&Frame{proc: p, args: bound})
}
