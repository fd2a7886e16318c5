package oo

import (
	"slices"

	"go.uber.org/zap"
)

// delegateSuffix is appended to a class's namespace to name its delegate.
// The embedded spaces keep it clear of anything a user would name.
const delegateSuffix = ":: oo ::delegate"

// DelegateName derives the name of a class's delegate from the class's
// namespace. It does not check that the delegate exists.
func DelegateName(class *Object) string {
	return class.Namespace().Name() + delegateSuffix
}

// Delegate returns the class's delegate, or nil if none has been created.
func (interp *Interp) Delegate(class *Object) *Object {
	if !class.IsClass() {
		return nil
	}
	d, err := interp.Class(DelegateName(class))
	if err != nil {
		return nil
	}
	return d
}

// MixinClassDelegates makes class's delegate inherit from the delegates of
// class's superclasses and mixes the delegate into class itself, so
// behavior defined for class objects flows down the class hierarchy. It does
// nothing when class is not a class or has no delegate, and running it
// again changes nothing.
func (interp *Interp) MixinClassDelegates(class *Object) error {
	if !class.IsClass() {
		return nil
	}
	delegate := interp.Delegate(class)
	if delegate == nil {
		return nil
	}
	for _, sup := range class.Superclasses() {
		d := interp.Delegate(sup)
		if d == nil || slices.Contains(delegate.cls.superclasses, d) {
			continue
		}
		if err := SlotAppend(delegate.SuperclassSlot(), NewObjectRef(d)); err != nil {
			return err
		}
	}
	if slices.Contains(class.mixins, delegate) {
		return nil
	}
	return SlotAppend(class.ObjectMixinSlot(), NewObjectRef(delegate))
}

// EnsureDelegate returns the class's delegate, creating it and wiring it
// into the class first if needed.
func (interp *Interp) EnsureDelegate(class *Object) (*Object, error) {
	if err := class.requireClass(); err != nil {
		return nil, err
	}
	if d := interp.Delegate(class); d != nil {
		return d, nil
	}
	d, err := interp.newObject(interp.classClass, DelegateName(class), "")
	if err != nil {
		return nil, err
	}
	interp.bindDelegate(class, d)
	interp.log.Debug("delegate created",
		zap.String("class", class.Name()),
		zap.String("delegate", d.Name()))
	if err := interp.MixinClassDelegates(class); err != nil {
		return nil, err
	}
	return d, nil
}

// bindDelegate ties the delegate's lifetime to its owner's command.
func (interp *Interp) bindDelegate(owner, delegate *Object) {
	owner.cmd.AddDeleteTrace(func(*Command) {
		interp.destroyObject(delegate)
	})
}

func (interp *Interp) afterSuperclassChange(class *Object) error {
	if interp.Delegate(class) == nil {
		inherits := false
		for _, sup := range class.cls.superclasses {
			if interp.Delegate(sup) != nil {
				inherits = true
				break
			}
		}
		if !inherits {
			return nil
		}
		_, err := interp.EnsureDelegate(class)
		return err
	}
	return interp.MixinClassDelegates(class)
}

// UpdateClassDelegatesAfterClone gives target its own copy of origin's
// delegate and swaps it into target's mixins in place of origin's. It does
// nothing when origin has no delegate or target already has one.
func (interp *Interp) UpdateClassDelegatesAfterClone(origin, target *Object) error {
	originDelegate := interp.Delegate(origin)
	if originDelegate == nil || interp.Delegate(target) != nil {
		return nil
	}
	targetDelegate, err := interp.Copy(originDelegate, DelegateName(target))
	if err != nil {
		return err
	}
	interp.bindDelegate(target, targetDelegate)
	mixins := make([]Value, len(target.mixins))
	for i, m := range target.mixins {
		if m == originDelegate {
			m = targetDelegate
		}
		mixins[i] = NewObjectRef(m)
	}
	interp.log.Debug("delegate cloned",
		zap.String("origin", originDelegate.Name()),
		zap.String("target", targetDelegate.Name()))
	return SlotSet(target.ObjectMixinSlot(), mixins...)
}

// DefineClassMethod defines a method callable on the class object itself
// and, through forwarding, on its instances. Subclasses created afterwards
// inherit it through their own delegates.
func (interp *Interp) DefineClassMethod(class *Object, name string, fn MethodFunc) error {
	delegate, err := interp.EnsureDelegate(class)
	if err != nil {
		return err
	}
	if fn != nil {
		if err := delegate.DefineMethod(name, fn); err != nil {
			return err
		}
	}
	return class.DefineForward(name, NewString("myclass"), NewString(name))
}
