package oo

import (
	"slices"
	"testing"
)

func TestDelegateNameIsDeterministic(t *testing.T) {
	interp := newTestInterp(t)
	cls := mustClass(t, interp, "Shape")

	first := DelegateName(cls)
	if second := DelegateName(cls); first != second {
		t.Fatalf("expected stable delegate name, got %q then %q", first, second)
	}
	if want := cls.Namespace().Name() + ":: oo ::delegate"; first != want {
		t.Fatalf("expected %q, got %q", want, first)
	}
	if interp.Delegate(cls) != nil {
		t.Fatalf("expected no delegate before one is requested")
	}
}

func TestMixinClassDelegatesIsNoopWithoutDelegate(t *testing.T) {
	interp := newTestInterp(t)
	cls := mustClass(t, interp, "Shape")
	obj := mustNew(t, cls, "square")

	if err := interp.MixinClassDelegates(cls); err != nil {
		t.Fatalf("mixin delegates: %v", err)
	}
	if err := interp.MixinClassDelegates(obj); err != nil {
		t.Fatalf("mixin delegates on plain object: %v", err)
	}
	if len(cls.ObjectMixins()) != 0 {
		t.Fatalf("expected no mixins, got %v", objectNames(cls.ObjectMixins()))
	}
}

func TestMixinClassDelegatesIsIdempotent(t *testing.T) {
	interp := newTestInterp(t)
	base := mustClass(t, interp, "Base")
	if err := interp.DefineClassMethod(base, "describe", constMethod("base")); err != nil {
		t.Fatalf("define class method: %v", err)
	}
	derived := mustClass(t, interp, "Derived", base)

	delegate := interp.Delegate(derived)
	if delegate == nil {
		t.Fatalf("expected subclass to get a delegate")
	}
	mixinsBefore := objectNames(derived.ObjectMixins())
	supersBefore := objectNames(delegate.Superclasses())

	for range 2 {
		if err := interp.MixinClassDelegates(derived); err != nil {
			t.Fatalf("mixin delegates: %v", err)
		}
	}
	requireStrings(t, objectNames(derived.ObjectMixins()), mixinsBefore...)
	requireStrings(t, objectNames(delegate.Superclasses()), supersBefore...)
	if !slices.Contains(delegate.Superclasses(), interp.Delegate(base)) {
		t.Fatalf("expected derived delegate to inherit from base delegate, got %v", supersBefore)
	}
}

func TestClassMethodsFlowDownTheHierarchy(t *testing.T) {
	interp := newTestInterp(t)
	base := mustClass(t, interp, "Base")
	err := interp.DefineClassMethod(base, "describe", func(c *Call, _ []Value) (Value, error) {
		return NewString("class " + c.Self().Name()), nil
	})
	if err != nil {
		t.Fatalf("define class method: %v", err)
	}
	derived := mustClass(t, interp, "Derived", base)

	got, err := derived.Invoke("describe")
	if err != nil {
		t.Fatalf("invoke on subclass: %v", err)
	}
	if got.String() != "class ::Derived" {
		t.Fatalf("expected self to be the subclass, got %q", got.String())
	}

	inst := mustNew(t, derived, "d")
	got, err = inst.Invoke("describe")
	if err != nil {
		t.Fatalf("invoke on instance: %v", err)
	}
	if got.String() != "class ::Derived" {
		t.Fatalf("expected forward to reach the class, got %q", got.String())
	}
}

func TestDelegateDiesWithClass(t *testing.T) {
	interp := newTestInterp(t)
	cls := mustClass(t, interp, "Shape")
	delegate, err := interp.EnsureDelegate(cls)
	if err != nil {
		t.Fatalf("ensure delegate: %v", err)
	}
	again, err := interp.EnsureDelegate(cls)
	if err != nil {
		t.Fatalf("ensure delegate again: %v", err)
	}
	if again != delegate {
		t.Fatalf("expected EnsureDelegate to reuse the existing delegate")
	}

	if err := cls.Destroy(); err != nil {
		t.Fatalf("destroy class: %v", err)
	}
	if delegate.Alive() {
		t.Fatalf("expected delegate to be destroyed with its class")
	}
	if interp.IsObject(delegate.Name()) {
		t.Fatalf("expected delegate command to be gone")
	}
}

func TestEnsureDelegateRejectsPlainObjects(t *testing.T) {
	interp := newTestInterp(t)
	obj := mustNew(t, mustClass(t, interp, "Shape"), "square")

	_, err := interp.EnsureDelegate(obj)
	requireErrorIs(t, err, ErrNotClass)
}
