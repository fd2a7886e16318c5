package oo

import (
	"testing"
)

func TestBootstrapDefinesCoreClasses(t *testing.T) {
	interp := newTestInterp(t)

	for _, name := range []string{"::oo::object", "::oo::class", "::oo::singleton", "::oo::abstract"} {
		if !interp.IsClass(name) {
			t.Fatalf("expected %s to be a class", name)
		}
	}
	object, class := interp.ObjectClass(), interp.ClassClass()
	if object.Class() != class || class.Class() != class {
		t.Fatalf("expected ::oo::class to be the metaclass of the core classes")
	}
	if len(object.Superclasses()) != 0 {
		t.Fatalf("expected ::oo::object to have no superclasses, got %v", objectNames(object.Superclasses()))
	}
	requireStrings(t, objectNames(class.Superclasses()), "::oo::object")
	for _, meta := range []*Object{interp.SingletonClass(), interp.AbstractClass()} {
		if !meta.IsSubclassOf(class) {
			t.Fatalf("expected %s to be a metaclass", meta.Name())
		}
	}
}

func TestClassCreateAndNew(t *testing.T) {
	interp := newTestInterp(t)
	cls := mustClass(t, interp, "Point")

	named := mustNew(t, cls, "origin")
	if named.Name() != "::origin" {
		t.Fatalf("expected ::origin, got %s", named.Name())
	}
	anon := mustNew(t, cls, "")
	if anon.Name() != anon.Namespace().Name() {
		t.Fatalf("expected anonymous object to be named after its namespace, got %s", anon.Name())
	}

	val, err := cls.Invoke("createWithNamespace", NewString("p3"), NewString("::points::p3"))
	if err != nil {
		t.Fatalf("createWithNamespace: %v", err)
	}
	if ns := val.Object().Namespace().Name(); ns != "::points::p3" {
		t.Fatalf("expected namespace ::points::p3, got %s", ns)
	}

	_, err = cls.Invoke("create", NewString("origin"))
	requireErrorIs(t, err, ErrExists)

	requireStrings(t, objectNames(cls.Instances()), "::origin", anon.Name(), "::p3")
}

func TestConstructorAndDestructorChain(t *testing.T) {
	interp := newTestInterp(t)
	var trail []string
	base := mustClass(t, interp, "Base")
	derived := mustClass(t, interp, "Derived", base)

	if err := base.SetConstructor(func(c *Call, args []Value) (Value, error) {
		trail = append(trail, "base ctor "+args[0].String())
		return NewNil(), c.Set("size", args[0])
	}); err != nil {
		t.Fatalf("set constructor: %v", err)
	}
	if err := derived.SetConstructor(func(c *Call, args []Value) (Value, error) {
		trail = append(trail, "derived ctor")
		return c.Next(args...)
	}); err != nil {
		t.Fatalf("set constructor: %v", err)
	}
	if err := base.SetDestructor(func(*Call, []Value) (Value, error) {
		trail = append(trail, "base dtor")
		return NewNil(), nil
	}); err != nil {
		t.Fatalf("set destructor: %v", err)
	}

	obj := mustNew(t, derived, "thing", NewInt(3))
	size, err := obj.Namespace().GetVar("size")
	if err != nil {
		t.Fatalf("get var: %v", err)
	}
	if size.Int() != 3 {
		t.Fatalf("expected size 3, got %v", size)
	}
	if err := obj.Destroy(); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	requireStrings(t, trail, "derived ctor", "base ctor 3", "base dtor")
	if obj.Alive() || interp.IsObject("thing") {
		t.Fatalf("expected object to be gone")
	}
	if !obj.Namespace().Deleted() {
		t.Fatalf("expected object namespace to be deleted")
	}
}

func TestConstructorFailureDestroysObject(t *testing.T) {
	interp := newTestInterp(t)
	cls := mustClass(t, interp, "Strict")
	if err := cls.SetConstructor(func(*Call, []Value) (Value, error) {
		return NewNil(), newError("CTOR", "", "bad input")
	}); err != nil {
		t.Fatalf("set constructor: %v", err)
	}

	_, err := cls.Invoke("create", NewString("s"))
	requireErrorContains(t, err, "bad input")
	if interp.IsObject("s") {
		t.Fatalf("expected failed construction to leave no object")
	}
}

func TestDestroyingClassDestroysInstancesAndSubclasses(t *testing.T) {
	interp := newTestInterp(t)
	base := mustClass(t, interp, "Base")
	derived := mustClass(t, interp, "Derived", base)
	inst := mustNew(t, derived, "d")
	mixer := mustNew(t, mustClass(t, interp, "Other"), "o")
	if err := SlotSet(mixer.ObjectMixinSlot(), NewObjectRef(base)); err != nil {
		t.Fatalf("set mixins: %v", err)
	}

	if err := base.Destroy(); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if derived.Alive() || inst.Alive() {
		t.Fatalf("expected subclass and its instances to be destroyed")
	}
	if len(mixer.ObjectMixins()) != 0 {
		t.Fatalf("expected destroyed class to be dropped from mixins")
	}
	_, err := inst.Invoke("destroy")
	requireErrorIs(t, err, ErrDeadObject)
}

func TestSingletonReturnsSameInstance(t *testing.T) {
	interp := newTestInterp(t)
	s, err := interp.CreateClassWithMeta(interp.SingletonClass(), "Config")
	if err != nil {
		t.Fatalf("create singleton: %v", err)
	}
	var ctorCalls int
	if err := s.SetConstructor(func(*Call, []Value) (Value, error) {
		ctorCalls++
		return NewNil(), nil
	}); err != nil {
		t.Fatalf("set constructor: %v", err)
	}

	first, err := s.Invoke("new", NewString("a"))
	if err != nil {
		t.Fatalf("first new: %v", err)
	}
	second, err := s.Invoke("new", NewString("b"), NewInt(2))
	if err != nil {
		t.Fatalf("second new: %v", err)
	}
	if first.Object() != second.Object() {
		t.Fatalf("expected the same instance, got %s and %s", first, second)
	}
	if ctorCalls != 1 {
		t.Fatalf("expected one construction, got %d", ctorCalls)
	}

	_, err = s.Invoke("create", NewString("other"))
	requireErrorIs(t, err, ErrUnknownMethod)
	_, err = s.Invoke("createWithNamespace", NewString("other"), NewString("::other"))
	requireErrorIs(t, err, ErrUnknownMethod)

	inst := first.Object()
	err = inst.Destroy()
	requireErrorIs(t, err, ErrSingleton)
	requireErrorContains(t, err, "may not destroy a singleton object")
	if !inst.Alive() {
		t.Fatalf("expected singleton to survive destroy")
	}

	_, err = interp.Copy(inst, "")
	requireErrorIs(t, err, ErrSingleton)
	requireErrorContains(t, err, "may not clone a singleton object")
}

func TestSingletonRecreatesAfterInstanceIsGone(t *testing.T) {
	interp := newTestInterp(t)
	s, err := interp.CreateClassWithMeta(interp.SingletonClass(), "Cache")
	if err != nil {
		t.Fatalf("create singleton: %v", err)
	}
	first, err := s.Invoke("new")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := interp.DeleteCommand(first.Object().Name()); err != nil {
		t.Fatalf("delete command: %v", err)
	}

	second, err := s.Invoke("new")
	if err != nil {
		t.Fatalf("new after delete: %v", err)
	}
	if second.Object() == first.Object() || !second.Object().Alive() {
		t.Fatalf("expected a fresh live instance")
	}
}

func TestAbstractClassRequiresSubclass(t *testing.T) {
	interp := newTestInterp(t)
	shape, err := interp.CreateClassWithMeta(interp.AbstractClass(), "Shape")
	if err != nil {
		t.Fatalf("create abstract class: %v", err)
	}
	if err := shape.DefineMethod("area", constMethod("0")); err != nil {
		t.Fatalf("define method: %v", err)
	}

	for _, call := range [][]Value{
		{NewString("new")},
		{NewString("create"), NewString("s")},
		{NewString("createWithNamespace"), NewString("s"), NewString("::s")},
	} {
		_, err := shape.Invoke(call[0].String(), call[1:]...)
		requireErrorIs(t, err, ErrUnknownMethod)
	}

	square := mustClass(t, interp, "Square", shape)
	inst := mustNew(t, square, "sq")
	got, err := inst.Invoke("area")
	if err != nil {
		t.Fatalf("invoke inherited method: %v", err)
	}
	if got.String() != "0" {
		t.Fatalf("unexpected area %q", got.String())
	}
}

func TestAbstractSubclassCanReexportConstruction(t *testing.T) {
	interp := newTestInterp(t)
	concreteMeta := mustClass(t, interp, "ConcreteMeta", interp.AbstractClass())
	if err := concreteMeta.Export("new"); err != nil {
		t.Fatalf("export: %v", err)
	}
	cls, err := interp.CreateClassWithMeta(concreteMeta, "Widget")
	if err != nil {
		t.Fatalf("create class: %v", err)
	}
	if _, err := cls.Invoke("new"); err != nil {
		t.Fatalf("expected re-exported new to work: %v", err)
	}
}
