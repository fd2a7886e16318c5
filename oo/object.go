package oo

import (
	"fmt"
	"maps"
	"slices"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Object is an instance in the object system. Classes are objects too; they
// additionally carry class-level configuration (see IsClass).
type Object struct {
	interp      *Interp
	id          int
	cmd         *Command
	ns          *Namespace
	my          *Command
	class       *Object
	mixins      []*Object
	filters     []string
	methods     map[string]*Method
	cls         *classInfo
	destroying  bool
	destroyed   bool
	filterDepth int
}

// MethodFunc implements a method. c describes the call in progress and gives
// access to self, next and the local frame.
type MethodFunc func(c *Call, args []Value) (Value, error)

// Method is one entry in a method table. An entry without Fn only records
// visibility, hiding or exposing a method defined further down the chain.
type Method struct {
	Name     string
	Exported bool
	Fn       MethodFunc
	Forward  []Value
}

func isExportedName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsLower(r)
}

func (interp *Interp) newObject(class *Object, name, nsName string) (*Object, error) {
	if class == nil || !class.IsClass() {
		return nil, newError("LOOKUP", "CLASS", "%s is not a class", nameOf(class))
	}
	interp.nextID++
	id := interp.nextID
	if nsName == "" {
		nsName = fmt.Sprintf("::oo::Obj%d", id)
		for interp.Namespace(nsName) != nil {
			interp.nextID++
			id = interp.nextID
			nsName = fmt.Sprintf("::oo::Obj%d", id)
		}
	} else if interp.Namespace(nsName) != nil {
		return nil, newError("OBJECT", "NAMESPACE", "can't create object %q: namespace %q already exists", name, nsName)
	}
	if name == "" {
		name = nsName
	}
	obj := &Object{
		interp:  interp,
		id:      id,
		class:   class,
		methods: make(map[string]*Method),
	}
	cmd, err := interp.createCommand(interp.global, name, &Command{kind: cmdObject, object: obj})
	if err != nil {
		return nil, err
	}
	obj.cmd = cmd
	obj.ns = interp.resolveNamespace(interp.global, nsName, true)
	obj.my, _ = interp.createCommand(obj.ns, "my", &Command{kind: cmdMy, object: obj})
	_, _ = interp.createCommand(obj.ns, "myclass", &Command{kind: cmdMyClass, object: obj})
	if interp.classClass != nil && class.IsSubclassOf(interp.classClass) {
		obj.cls = newClassInfo(interp.objectClass)
	}
	if class.cls != nil {
		class.cls.instances = append(class.cls.instances, obj)
	}
	interp.objects[obj] = struct{}{}
	interp.log.Debug("object created",
		zap.String("name", obj.Name()),
		zap.String("class", class.Name()),
		zap.String("namespace", obj.ns.Name()))
	return obj, nil
}

// Name returns the fully qualified command name of the object.
func (o *Object) Name() string {
	if o.cmd == nil {
		return ""
	}
	return o.cmd.Name()
}

func (o *Object) String() string { return o.Name() }

func (o *Object) Interp() *Interp { return o.interp }

// Namespace returns the object's private namespace.
func (o *Object) Namespace() *Namespace { return o.ns }

// Command returns the object's public command.
func (o *Object) Command() *Command { return o.cmd }

// MyCommand returns the object's private "my" command.
func (o *Object) MyCommand() *Command { return o.my }

// Class returns the class the object is an instance of.
func (o *Object) Class() *Object { return o.class }

// Alive reports whether the object has not been destroyed.
func (o *Object) Alive() bool { return !o.destroyed && !o.destroying }

// IsA reports whether o is an instance of cls or of one of its subclasses,
// counting mixins.
func (o *Object) IsA(cls *Object) bool {
	for _, d := range o.callOrder() {
		if !d.perObject && d.obj == cls {
			return true
		}
	}
	return false
}

// ObjectMixins returns the per-object mixins.
func (o *Object) ObjectMixins() []*Object { return slices.Clone(o.mixins) }

// ObjectFilters returns the per-object filter method names.
func (o *Object) ObjectFilters() []string { return slices.Clone(o.filters) }

// ObjectMethodNames lists the per-object methods, public ones only unless
// all is set.
func (o *Object) ObjectMethodNames(all bool) []string {
	return methodNames(o.methods, all)
}

func methodNames(table map[string]*Method, all bool) []string {
	var names []string
	for _, name := range slices.Sorted(maps.Keys(table)) {
		m := table[name]
		if m.Fn == nil {
			continue
		}
		if all || m.Exported {
			names = append(names, name)
		}
	}
	return names
}

// MethodNames lists every public method the object responds to, or every
// method when all is set.
func (o *Object) MethodNames(all bool) []string {
	seen := make(map[string]*Method)
	for _, d := range o.callOrder() {
		for name, m := range d.table() {
			if _, ok := seen[name]; !ok {
				seen[name] = m
			}
		}
	}
	var names []string
	for _, name := range slices.Sorted(maps.Keys(seen)) {
		m := seen[name]
		if !o.respondsTo(name) {
			continue
		}
		if all || m.Exported {
			names = append(names, name)
		}
	}
	return names
}

func (o *Object) respondsTo(name string) bool {
	for _, d := range o.callOrder() {
		if m := d.table()[name]; m != nil && m.Fn != nil {
			return true
		}
	}
	return false
}

// DefineObjectMethod installs a method on this object only.
func (o *Object) DefineObjectMethod(name string, fn MethodFunc) error {
	if err := o.checkAlive(); err != nil {
		return err
	}
	defineMethod(o.methods, name, fn, nil)
	return nil
}

// DefineObjectForward installs a per-object method that runs target words
// followed by the call's arguments, resolved in the object's namespace.
func (o *Object) DefineObjectForward(name string, target ...Value) error {
	if err := o.checkAlive(); err != nil {
		return err
	}
	if len(target) == 0 {
		return wrongArgs("forward name cmdName ?arg ...?")
	}
	defineMethod(o.methods, name, forwardFunc(target), target)
	return nil
}

// DeleteObjectMethod removes a per-object method.
func (o *Object) DeleteObjectMethod(name string) error {
	m := o.methods[name]
	if m == nil || m.Fn == nil {
		return newError("LOOKUP", "METHOD", "method %q does not exist", name)
	}
	delete(o.methods, name)
	o.interp.methodDeleted(name)
	return nil
}

// ExportObject makes per-object methods public.
func (o *Object) ExportObject(names ...string) {
	setVisibility(o.methods, names, true)
}

// UnexportObject makes per-object methods private.
func (o *Object) UnexportObject(names ...string) {
	setVisibility(o.methods, names, false)
}

func defineMethod(table map[string]*Method, name string, fn MethodFunc, forward []Value) {
	exported := isExportedName(name)
	if prev := table[name]; prev != nil {
		exported = prev.Exported
	}
	table[name] = &Method{Name: name, Exported: exported, Fn: fn, Forward: slices.Clone(forward)}
}

func setVisibility(table map[string]*Method, names []string, exported bool) {
	for _, name := range names {
		if m := table[name]; m != nil {
			clone := *m
			clone.Exported = exported
			table[name] = &clone
			continue
		}
		table[name] = &Method{Name: name, Exported: exported}
	}
}

func forwardFunc(target []Value) MethodFunc {
	prefix := slices.Clone(target)
	return func(c *Call, args []Value) (Value, error) {
		words := make([]Value, 0, len(prefix)+len(args))
		words = append(words, prefix...)
		words = append(words, args...)
		return c.interp.CallCommand(c.self.ns, words)
	}
}

func (o *Object) checkAlive() error {
	if o.destroyed {
		return newError("NONE", "OBJECT", "object %q has been destroyed", o.Name())
	}
	return nil
}

// Invoke calls a public method.
func (o *Object) Invoke(method string, args ...Value) (Value, error) {
	return o.interp.invoke(o, method, args, false)
}

// InvokePrivate calls a method the way my does, so unexported methods are
// reachable.
func (o *Object) InvokePrivate(method string, args ...Value) (Value, error) {
	return o.interp.invoke(o, method, args, true)
}

// Destroy calls the object's destroy method, honoring any override.
func (o *Object) Destroy() error {
	_, err := o.Invoke("destroy")
	return err
}

func (interp *Interp) destroyObject(o *Object) {
	if o == nil || o.destroyed || o.destroying {
		return
	}
	o.destroying = true
	interp.runDestructors(o)
	if o.cls != nil {
		for _, inst := range slices.Clone(o.cls.instances) {
			interp.destroyObject(inst)
		}
		for _, sub := range o.Subclasses() {
			interp.destroyObject(sub)
		}
		for other := range interp.objects {
			other.mixins = slices.DeleteFunc(other.mixins, func(m *Object) bool { return m == o })
			if other.cls != nil {
				other.cls.mixins = slices.DeleteFunc(other.cls.mixins, func(m *Object) bool { return m == o })
			}
		}
	}
	if o.class != nil && o.class.cls != nil {
		o.class.cls.instances = slices.DeleteFunc(o.class.cls.instances, func(i *Object) bool { return i == o })
	}
	name := o.Name()
	delete(interp.objects, o)
	interp.deleteNamespace(o.ns)
	interp.deleteCommand(o.cmd)
	o.destroyed = true
	o.destroying = false
	interp.log.Debug("object destroyed", zap.String("name", name))
}

func (interp *Interp) runDestructors(o *Object) {
	var chain []*methodImpl
	for _, d := range o.callOrder() {
		if d.perObject || d.obj.cls == nil || d.obj.cls.destructor == nil {
			continue
		}
		chain = append(chain, &methodImpl{definer: d, method: &Method{Name: "<destructor>", Fn: d.obj.cls.destructor}})
	}
	if len(chain) == 0 {
		return
	}
	call := &Call{interp: interp, self: o, name: "<destructor>", chain: chain, private: true}
	if _, err := call.run(nil); err != nil {
		interp.log.Warn("destructor failed", zap.String("object", o.Name()), zap.Error(err))
	}
}
