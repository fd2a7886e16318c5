package oo

import (
	"slices"
)

// Snapshot is a serializable view of every live object in an Interp.
type Snapshot struct {
	Objects []ObjectSnapshot `yaml:"objects" json:"objects" cbor:"objects"`
}

// ObjectSnapshot describes one object. The class fields are only set for
// classes.
type ObjectSnapshot struct {
	Name      string                  `yaml:"name" json:"name" cbor:"name"`
	Class     string                  `yaml:"class" json:"class" cbor:"class"`
	Namespace string                  `yaml:"namespace" json:"namespace" cbor:"namespace"`
	Mixins    []string                `yaml:"mixins,omitempty" json:"mixins,omitempty" cbor:"mixins,omitempty"`
	Filters   []string                `yaml:"filters,omitempty" json:"filters,omitempty" cbor:"filters,omitempty"`
	Methods   []string                `yaml:"methods,omitempty" json:"methods,omitempty" cbor:"methods,omitempty"`
	Vars      map[string]any          `yaml:"vars,omitempty" json:"vars,omitempty" cbor:"vars,omitempty"`
	Procs     map[string]ProcSnapshot `yaml:"procs,omitempty" json:"procs,omitempty" cbor:"procs,omitempty"`
	ClassInfo *ClassSnapshot          `yaml:"classInfo,omitempty" json:"classInfo,omitempty" cbor:"classInfo,omitempty"`
}

// ClassSnapshot holds the class-level definition of a class object.
type ClassSnapshot struct {
	Superclasses []string `yaml:"superclasses,omitempty" json:"superclasses,omitempty" cbor:"superclasses,omitempty"`
	Mixins       []string `yaml:"mixins,omitempty" json:"mixins,omitempty" cbor:"mixins,omitempty"`
	Filters      []string `yaml:"filters,omitempty" json:"filters,omitempty" cbor:"filters,omitempty"`
	Methods      []string `yaml:"methods,omitempty" json:"methods,omitempty" cbor:"methods,omitempty"`
	Delegate     string   `yaml:"delegate,omitempty" json:"delegate,omitempty" cbor:"delegate,omitempty"`
}

// ProcSnapshot is a procedure's argument spec and body.
type ProcSnapshot struct {
	Args []any  `yaml:"args" json:"args" cbor:"args"`
	Body string `yaml:"body" json:"body" cbor:"body"`
}

// Snapshot captures the current object graph in creation order.
func (interp *Interp) Snapshot() Snapshot {
	objs := interp.Objects()
	snap := Snapshot{Objects: make([]ObjectSnapshot, 0, len(objs))}
	for _, o := range objs {
		snap.Objects = append(snap.Objects, interp.snapshotObject(o))
	}
	return snap
}

func (interp *Interp) snapshotObject(o *Object) ObjectSnapshot {
	out := ObjectSnapshot{
		Name:      o.Name(),
		Class:     nameOf(o.class),
		Namespace: o.ns.Name(),
		Mixins:    objectNames(o.mixins),
		Filters:   slices.Clone(o.filters),
		Methods:   o.ObjectMethodNames(true),
	}
	if vars := VarSnapshot(o.ns); len(vars) > 0 {
		out.Vars = make(map[string]any, len(vars))
		for name, v := range vars {
			out.Vars[name] = ExportValue(v)
		}
	}
	if len(o.ns.procs) > 0 {
		out.Procs = make(map[string]ProcSnapshot, len(o.ns.procs))
		for name, p := range o.ns.procs {
			args := make([]any, 0, len(p.Params))
			for _, spec := range p.ArgSpec() {
				args = append(args, ExportValue(spec))
			}
			out.Procs[name] = ProcSnapshot{Args: args, Body: p.Body}
		}
	}
	if o.IsClass() {
		ci := &ClassSnapshot{
			Superclasses: objectNames(o.cls.superclasses),
			Mixins:       objectNames(o.cls.mixins),
			Filters:      slices.Clone(o.cls.filters),
			Methods:      o.ClassMethodNames(true),
		}
		if d := interp.Delegate(o); d != nil {
			ci.Delegate = d.Name()
		}
		out.ClassInfo = ci
	}
	return out
}

// ExportValue converts v to plain Go data: nil, bool, int64, float64,
// string, []any or map[string]any. Objects become their names and callbacks
// their command words.
func ExportValue(v Value) any {
	switch v.kind {
	case KindNil:
		return nil
	case KindBool:
		return v.Bool()
	case KindInt:
		return v.Int()
	case KindFloat:
		return v.Float()
	case KindList:
		items := v.List()
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = ExportValue(item)
		}
		return out
	case KindDict:
		d := v.Dict()
		out := make(map[string]any, len(d))
		for k, item := range d {
			out[k] = ExportValue(item)
		}
		return out
	case KindCallback:
		return ExportValue(NewList(v.Callback().Words()))
	default:
		return v.String()
	}
}
