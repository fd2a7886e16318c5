package oo

import (
	"fmt"
)

// bootstrap builds the core metaclasses inside ::oo. ::oo::object and
// ::oo::class refer to each other, so they are assembled by hand; everything
// after them goes through the ordinary creation path.
func (interp *Interp) bootstrap() error {
	interp.resolveNamespace(interp.global, "::oo", true)

	object, err := interp.bootstrapClass("::oo::object")
	if err != nil {
		return err
	}
	class, err := interp.bootstrapClass("::oo::class")
	if err != nil {
		return err
	}
	object.class, class.class = class, class
	object.cls.superclasses = nil
	class.cls.superclasses = []*Object{object}
	class.cls.instances = []*Object{object, class}
	interp.objectClass, interp.classClass = object, class

	if err := object.DefineMethod("destroy", objectDestroy); err != nil {
		return err
	}
	if err := object.DefineMethod("<cloned>", clonedObject); err != nil {
		return err
	}
	if err := class.DefineMethod("create", classCreate); err != nil {
		return err
	}
	if err := class.DefineMethod("createWithNamespace", classCreateWithNamespace); err != nil {
		return err
	}
	if err := class.DefineMethod("new", classNew); err != nil {
		return err
	}
	if err := class.DefineMethod("<cloned>", clonedClass); err != nil {
		return err
	}

	singleton, err := interp.bootstrapMeta("::oo::singleton")
	if err != nil {
		return err
	}
	if err := singleton.Unexport("create", "createWithNamespace"); err != nil {
		return err
	}
	if err := singleton.DefineMethod("new", singletonNew); err != nil {
		return err
	}
	interp.singletonClass = singleton

	abstract, err := interp.bootstrapMeta("::oo::abstract")
	if err != nil {
		return err
	}
	if err := abstract.Unexport("create", "createWithNamespace", "new"); err != nil {
		return err
	}
	interp.abstractClass = abstract
	return nil
}

func (interp *Interp) bootstrapClass(name string) (*Object, error) {
	interp.nextID++
	obj := &Object{
		interp:  interp,
		id:      interp.nextID,
		methods: make(map[string]*Method),
		cls:     newClassInfo(nil),
	}
	cmd, err := interp.createCommand(interp.global, name, &Command{kind: cmdObject, object: obj})
	if err != nil {
		return nil, err
	}
	obj.cmd = cmd
	obj.ns = interp.resolveNamespace(interp.global, fmt.Sprintf("::oo::Obj%d", obj.id), true)
	obj.my, _ = interp.createCommand(obj.ns, "my", &Command{kind: cmdMy, object: obj})
	_, _ = interp.createCommand(obj.ns, "myclass", &Command{kind: cmdMyClass, object: obj})
	interp.objects[obj] = struct{}{}
	return obj, nil
}

// bootstrapMeta creates a subclass of ::oo::class.
func (interp *Interp) bootstrapMeta(name string) (*Object, error) {
	val, err := interp.construct(interp.classClass, name, "", nil)
	if err != nil {
		return nil, err
	}
	meta := val.Object()
	if err := meta.SuperclassSlot().Set([]Value{NewObjectRef(interp.classClass)}); err != nil {
		return nil, err
	}
	return meta, nil
}

// construct creates an instance of cls and runs its constructors.
func (interp *Interp) construct(cls *Object, name, nsName string, args []Value) (Value, error) {
	obj, err := interp.newObject(cls, name, nsName)
	if err != nil {
		return NewNil(), err
	}
	var chain []*methodImpl
	for _, d := range obj.callOrder() {
		if d.perObject || d.obj.cls == nil || d.obj.cls.constructor == nil {
			continue
		}
		chain = append(chain, &methodImpl{definer: d, method: &Method{Name: "<constructor>", Fn: d.obj.cls.constructor}})
	}
	if len(chain) > 0 {
		call := &Call{interp: interp, self: obj, name: "<constructor>", chain: chain, private: true}
		if _, err := call.run(args); err != nil {
			interp.destroyObject(obj)
			return NewNil(), err
		}
	}
	return NewObjectRef(obj), nil
}

func objectDestroy(c *Call, args []Value) (Value, error) {
	if len(args) != 0 {
		return NewNil(), wrongArgs(c.self.Name() + " destroy")
	}
	c.interp.destroyObject(c.self)
	return NewNil(), nil
}

func classCreate(c *Call, args []Value) (Value, error) {
	if len(args) < 1 {
		return NewNil(), wrongArgs(c.self.Name() + " create objectName ?arg ...?")
	}
	return c.interp.construct(c.self, args[0].String(), "", args[1:])
}

func classCreateWithNamespace(c *Call, args []Value) (Value, error) {
	if len(args) < 2 {
		return NewNil(), wrongArgs(c.self.Name() + " createWithNamespace objectName namespaceName ?arg ...?")
	}
	return c.interp.construct(c.self, args[0].String(), args[1].String(), args[2:])
}

func classNew(c *Call, args []Value) (Value, error) {
	return c.interp.construct(c.self, "", "", args)
}

// singletonNew returns the class's cached live instance, creating and
// guarding it on first use.
func singletonNew(c *Call, args []Value) (Value, error) {
	ns := c.self.ns
	if v := ns.Var("object"); v != nil && v.Defined() && !v.IsArray() {
		if obj := v.value.Object(); obj != nil && obj.Alive() {
			return v.value, nil
		}
	}
	val, err := c.Next(args...)
	if err != nil {
		return NewNil(), err
	}
	obj := val.Object()
	if err := ns.SetVar("object", val); err != nil {
		return NewNil(), err
	}
	if err := obj.DefineObjectMethod("destroy", func(*Call, []Value) (Value, error) {
		return NewNil(), newError("SINGLETON", "", "may not destroy a singleton object")
	}); err != nil {
		return NewNil(), err
	}
	if err := obj.DefineObjectMethod("<cloned>", func(*Call, []Value) (Value, error) {
		return NewNil(), newError("SINGLETON", "", "may not clone a singleton object")
	}); err != nil {
		return NewNil(), err
	}
	return val, nil
}
