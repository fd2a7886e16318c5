package oo

import (
	"cmp"
	"maps"
	"slices"

	"go.uber.org/zap"
)

// Config controls interpreter limits and copy semantics.
type Config struct {
	Logger       *zap.Logger
	CloneMode    CloneMode
	MaxCallDepth int
}

// Interp holds one object system: the namespace tree, the live objects and
// the bootstrap metaclasses. An Interp is not safe for concurrent use; every
// class and object hierarchy belongs to the goroutine driving its Interp.
type Interp struct {
	config  Config
	log     *zap.Logger
	global  *Namespace
	objects map[*Object]struct{}
	links   []*commandLink
	nextID  int
	depth   int

	objectClass    *Object
	classClass     *Object
	singletonClass *Object
	abstractClass  *Object
}

// NewInterp constructs an Interp with sane defaults and runs the bootstrap
// that defines ::oo::object, ::oo::class, ::oo::singleton and
// ::oo::abstract.
func NewInterp(cfg Config) (*Interp, error) {
	if cfg.MaxCallDepth <= 0 {
		cfg.MaxCallDepth = 1000
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	interp := &Interp{
		config:  cfg,
		log:     cfg.Logger.Named("oo"),
		objects: make(map[*Object]struct{}),
	}
	interp.global = newNamespace(interp, nil, "")
	if err := interp.bootstrap(); err != nil {
		return nil, err
	}
	if err := interp.registerBuiltins(); err != nil {
		return nil, err
	}
	interp.log.Debug("object system ready", zap.Int("objects", len(interp.objects)))
	return interp, nil
}

func (interp *Interp) Config() Config { return interp.config }

func (interp *Interp) Global() *Namespace { return interp.global }

// ObjectClass returns ::oo::object, the root of every class hierarchy.
func (interp *Interp) ObjectClass() *Object { return interp.objectClass }

// ClassClass returns ::oo::class, the metaclass of ordinary classes.
func (interp *Interp) ClassClass() *Object { return interp.classClass }

func (interp *Interp) SingletonClass() *Object { return interp.singletonClass }

func (interp *Interp) AbstractClass() *Object { return interp.abstractClass }

// Object resolves a command name to a live object.
func (interp *Interp) Object(name string) (*Object, error) {
	cmd := interp.LookupCommand(interp.global, name)
	if cmd == nil || cmd.kind != cmdObject {
		return nil, newError("LOOKUP", "OBJECT", "%q does not refer to an object", name)
	}
	return cmd.object, nil
}

// Class resolves a command name to a live class.
func (interp *Interp) Class(name string) (*Object, error) {
	obj, err := interp.Object(name)
	if err != nil || !obj.IsClass() {
		return nil, newError("LOOKUP", "CLASS", "%q is not a class", name)
	}
	return obj, nil
}

// IsClass reports whether name denotes a live class.
func (interp *Interp) IsClass(name string) bool {
	_, err := interp.Class(name)
	return err == nil
}

// IsObject reports whether name denotes a live object.
func (interp *Interp) IsObject(name string) bool {
	_, err := interp.Object(name)
	return err == nil
}

// Objects lists the live objects in creation order.
func (interp *Interp) Objects() []*Object {
	return slices.SortedFunc(maps.Keys(interp.objects), func(a, b *Object) int {
		return cmp.Compare(a.id, b.id)
	})
}

// Classes lists the live classes in creation order.
func (interp *Interp) Classes() []*Object {
	var out []*Object
	for _, o := range interp.Objects() {
		if o.IsClass() {
			out = append(out, o)
		}
	}
	return out
}

// Invoke calls a public method on the named object.
func (interp *Interp) Invoke(name, method string, args ...Value) (Value, error) {
	obj, err := interp.Object(name)
	if err != nil {
		return NewNil(), err
	}
	return obj.Invoke(method, args...)
}

// CreateClass makes a new class through ::oo::class create, with the given
// superclasses (::oo::object when none are given).
func (interp *Interp) CreateClass(name string, superclasses ...*Object) (*Object, error) {
	return interp.CreateClassWithMeta(interp.classClass, name, superclasses...)
}

// CreateClassWithMeta makes a new class whose class is meta, which must be
// ::oo::class or one of its subclasses.
func (interp *Interp) CreateClassWithMeta(meta *Object, name string, superclasses ...*Object) (*Object, error) {
	if meta == nil || !meta.IsSubclassOf(interp.classClass) {
		return nil, newError("LOOKUP", "CLASS", "%s is not a metaclass", nameOf(meta))
	}
	val, err := interp.invoke(meta, "create", []Value{NewString(name)}, true)
	if err != nil {
		return nil, err
	}
	cls := val.Object()
	if len(superclasses) > 0 {
		if err := cls.SuperclassSlot().Set(objectRefs(superclasses)); err != nil {
			interp.destroyObject(cls)
			return nil, err
		}
	}
	return cls, nil
}

func nameOf(o *Object) string {
	if o == nil {
		return "<nil>"
	}
	return o.Name()
}
