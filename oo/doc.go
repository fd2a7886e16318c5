// Package oo implements a class-based object system with metaclasses,
// multiple inheritance, mixins, filters and cooperative method chaining.
// The bootstrap defines four classes inside the ::oo namespace:
//   - ::oo::object, the root of every class hierarchy.
//   - ::oo::class, the metaclass whose instances are classes.
//   - ::oo::singleton, a metaclass whose classes hand out one shared instance.
//   - ::oo::abstract, a metaclass whose classes cannot be instantiated.
//
// Every object owns a namespace holding its variables and procedures and is
// reachable through a command of the same name. Methods are Go functions
// receiving a *Call, which exposes the receiver, the defining class and the
// next implementation in the chain.
//
// Classes may carry a delegate, a hidden class mixed into the class object so
// that class methods are inherited by subclasses. Multi-valued configuration
// such as superclasses, mixins and filters is edited through slots, which
// derive -set, -append, -prepend, -remove and -clear from a get/set pair.
//
// A small command dispatcher (Eval) exposes the object system to a line
// oriented shell.
package oo
