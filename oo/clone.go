package oo

import (
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"
)

// Copy duplicates src under targetName (an automatic name when empty). The
// copy gets src's class, per-object methods, mixins and filters, and for a
// class its superclasses, mixins, filters, methods, constructor and
// destructor. The copy's <cloned> method then runs with src as argument; if
// it fails the copy is destroyed and the error returned.
func (interp *Interp) Copy(src *Object, targetName string) (*Object, error) {
	if err := src.checkAlive(); err != nil {
		return nil, err
	}
	target, err := interp.newObject(src.class, targetName, "")
	if err != nil {
		return nil, err
	}
	for name, m := range src.methods {
		clone := *m
		target.methods[name] = &clone
	}
	target.mixins = slices.Clone(src.mixins)
	target.filters = slices.Clone(src.filters)
	if src.cls != nil {
		target.cls = src.cls.clone()
	}
	interp.log.Debug("object copied",
		zap.String("origin", src.Name()),
		zap.String("target", target.Name()))
	if _, err := interp.invoke(target, "<cloned>", []Value{NewObjectRef(src)}, true); err != nil {
		interp.destroyObject(target)
		return nil, err
	}
	return target, nil
}

// clonedObject is ::oo::object's <cloned>: it re-homes the origin's
// procedures and variables into the copy's namespace.
func clonedObject(c *Call, args []Value) (Value, error) {
	if len(args) != 1 {
		return NewNil(), wrongArgs("<cloned> originObject")
	}
	origin := args[0].Object()
	if origin == nil {
		return NewNil(), newError("LOOKUP", "OBJECT", "%q does not refer to an object", args[0].String())
	}
	from, to := origin.ns, c.self.ns
	for _, name := range from.ProcNames() {
		p := from.procs[name]
		params, err := ParseParams(p.ArgSpec())
		if err != nil {
			return NewNil(), fmt.Errorf("copy procedure %s: %w", p.QualifiedName(), err)
		}
		if _, err := to.DefineProc(name, params, p.Body, p.Fn); err != nil {
			return NewNil(), fmt.Errorf("copy procedure %s: %w", p.QualifiedName(), err)
		}
	}
	mode := c.interp.config.CloneMode
	for _, name := range from.allVarNames() {
		src := from.vars[name]
		if !src.Defined() {
			continue
		}
		dst := to.ensureVar(name)
		if src.IsArray() {
			if err := dst.ArraySet(mode.cloneArray(src.array)); err != nil {
				return NewNil(), err
			}
			continue
		}
		if err := dst.Set(mode.cloneValue(src.value)); err != nil {
			return NewNil(), err
		}
	}
	return NewNil(), nil
}

// clonedClass is ::oo::class's <cloned>: the object-level copy followed by
// delegate synchronization.
func clonedClass(c *Call, args []Value) (Value, error) {
	if _, err := c.Next(args...); err != nil {
		return NewNil(), err
	}
	origin := args[0].Object()
	if err := c.interp.UpdateClassDelegatesAfterClone(origin, c.self); err != nil {
		return NewNil(), err
	}
	return NewNil(), nil
}

// ProcSignature is a procedure's parameter list and body, without the
// implementation.
type ProcSignature struct {
	Params []Param
	Body   string
}

// ProcSignatures describes every procedure in ns.
func ProcSignatures(ns *Namespace) map[string]ProcSignature {
	out := make(map[string]ProcSignature, len(ns.procs))
	for name, p := range ns.procs {
		out[name] = ProcSignature{Params: slices.Clone(p.Params), Body: p.Body}
	}
	return out
}

// VarSnapshot returns the values of every defined variable in ns; arrays
// appear as dicts.
func VarSnapshot(ns *Namespace) map[string]Value {
	out := make(map[string]Value, len(ns.vars))
	for name, v := range ns.vars {
		switch {
		case !v.Defined():
		case v.IsArray():
			out[name] = NewDict(maps.Clone(v.array))
		default:
			out[name] = v.value
		}
	}
	return out
}
