package oo

import (
	"fmt"
	"strings"
)

// Eval parses one command line into words and runs it. Braces group a word.
func (interp *Interp) Eval(line string) (Value, error) {
	words, err := splitWords(line)
	if err != nil {
		return NewNil(), err
	}
	return interp.CallCommand(interp.global, stringValues(words))
}

// EvalScript runs src line by line, skipping blank lines and lines starting
// with #, and returns the last result. Evaluation stops at the first error.
func (interp *Interp) EvalScript(src string) (Value, error) {
	result := NewNil()
	for i, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		val, err := interp.Eval(trimmed)
		if err != nil {
			return NewNil(), fmt.Errorf("line %d: %w", i+1, err)
		}
		result = val
	}
	return result, nil
}

func (interp *Interp) registerBuiltins() error {
	builtins := map[string]CommandFunc{
		"copy":                      builtinCopy,
		"define":                    builtinDefine,
		"objdefine":                 builtinObjdefine,
		"info":                      builtinInfo,
		"set":                       builtinSet,
		"unset":                     builtinUnset,
		"rename":                    builtinRename,
		"proc":                      builtinProc,
		"::oo::DelegateName":        builtinDelegateName,
		"::oo::MixinClassDelegates": builtinMixinClassDelegates,
	}
	for name, fn := range builtins {
		if _, err := interp.RegisterCommand(name, fn); err != nil {
			return err
		}
	}
	return nil
}

func builtinCopy(interp *Interp, _ *Namespace, args []Value) (Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return NewNil(), wrongArgs("copy sourceName ?targetName?")
	}
	src, err := interp.Object(args[0].String())
	if err != nil {
		return NewNil(), err
	}
	target := ""
	if len(args) == 2 {
		target = args[1].String()
	}
	obj, err := interp.Copy(src, target)
	if err != nil {
		return NewNil(), err
	}
	return NewObjectRef(obj), nil
}

func builtinDefine(interp *Interp, _ *Namespace, args []Value) (Value, error) {
	if len(args) < 2 {
		return NewNil(), wrongArgs("define className subcommand ?arg ...?")
	}
	cls, err := interp.Class(args[0].String())
	if err != nil {
		return NewNil(), err
	}
	rest := args[2:]
	switch sub := args[1].String(); sub {
	case "superclass":
		return NewNil(), SlotInvoke(cls.SuperclassSlot(), rest...)
	case "mixin":
		return NewNil(), SlotInvoke(cls.MixinSlot(), rest...)
	case "filter":
		return NewNil(), SlotInvoke(cls.FilterSlot(), rest...)
	case "forward":
		if len(rest) < 2 {
			return NewNil(), wrongArgs("define className forward name cmdName ?arg ...?")
		}
		return NewNil(), cls.DefineForward(rest[0].String(), rest[1:]...)
	case "export":
		return NewNil(), cls.Export(valueStrings(rest)...)
	case "unexport":
		return NewNil(), cls.Unexport(valueStrings(rest)...)
	case "deletemethod":
		for _, name := range rest {
			if err := cls.DeleteMethod(name.String()); err != nil {
				return NewNil(), err
			}
		}
		return NewNil(), nil
	case "classmethod":
		if len(rest) < 1 {
			return NewNil(), wrongArgs("define className classmethod name ?cmdName arg ...?")
		}
		name := rest[0].String()
		if err := interp.DefineClassMethod(cls, name, nil); err != nil {
			return NewNil(), err
		}
		if len(rest) > 1 {
			return NewNil(), interp.Delegate(cls).DefineForward(name, rest[1:]...)
		}
		return NewNil(), nil
	default:
		return NewNil(), newError("LOOKUP", "SUBCOMMAND",
			"unknown define subcommand %q: must be classmethod, deletemethod, export, filter, forward, mixin, superclass or unexport", sub)
	}
}

func builtinObjdefine(interp *Interp, _ *Namespace, args []Value) (Value, error) {
	if len(args) < 2 {
		return NewNil(), wrongArgs("objdefine objectName subcommand ?arg ...?")
	}
	obj, err := interp.Object(args[0].String())
	if err != nil {
		return NewNil(), err
	}
	rest := args[2:]
	switch sub := args[1].String(); sub {
	case "mixin":
		return NewNil(), SlotInvoke(obj.ObjectMixinSlot(), rest...)
	case "filter":
		return NewNil(), SlotInvoke(obj.ObjectFilterSlot(), rest...)
	case "forward":
		if len(rest) < 2 {
			return NewNil(), wrongArgs("objdefine objectName forward name cmdName ?arg ...?")
		}
		return NewNil(), obj.DefineObjectForward(rest[0].String(), rest[1:]...)
	case "export":
		obj.ExportObject(valueStrings(rest)...)
		return NewNil(), nil
	case "unexport":
		obj.UnexportObject(valueStrings(rest)...)
		return NewNil(), nil
	case "deletemethod":
		for _, name := range rest {
			if err := obj.DeleteObjectMethod(name.String()); err != nil {
				return NewNil(), err
			}
		}
		return NewNil(), nil
	default:
		return NewNil(), newError("LOOKUP", "SUBCOMMAND",
			"unknown objdefine subcommand %q: must be deletemethod, export, filter, forward, mixin or unexport", sub)
	}
}

func builtinInfo(interp *Interp, _ *Namespace, args []Value) (Value, error) {
	if len(args) < 3 {
		return NewNil(), wrongArgs("info object|class subcommand name ?arg ...?")
	}
	switch args[0].String() {
	case "object":
		return infoObject(interp, args[1].String(), args[2:])
	case "class":
		return infoClass(interp, args[1].String(), args[2:])
	default:
		return NewNil(), newError("LOOKUP", "SUBCOMMAND", "unknown info subcommand %q: must be class or object", args[0].String())
	}
}

func infoObject(interp *Interp, sub string, args []Value) (Value, error) {
	if sub == "isa" {
		return infoObjectIsa(interp, args)
	}
	obj, err := interp.Object(args[0].String())
	if err != nil {
		return NewNil(), err
	}
	switch sub {
	case "class":
		return NewObjectRef(obj.Class()), nil
	case "mixins":
		return NewList(objectRefs(obj.ObjectMixins())), nil
	case "filters":
		return NewStrings(obj.ObjectFilters()...), nil
	case "namespace":
		return NewString(obj.Namespace().Name()), nil
	case "methods":
		all := len(args) > 1 && args[1].String() == "-all"
		return NewStrings(obj.MethodNames(all)...), nil
	case "vars":
		return NewStrings(obj.Namespace().VarNames()...), nil
	case "procs":
		return NewStrings(obj.Namespace().ProcNames()...), nil
	default:
		return NewNil(), newError("LOOKUP", "SUBCOMMAND",
			"unknown info object subcommand %q: must be class, filters, isa, methods, mixins, namespace, procs or vars", sub)
	}
}

func infoObjectIsa(interp *Interp, args []Value) (Value, error) {
	if len(args) < 2 {
		return NewNil(), wrongArgs("info object isa category objectName ?className?")
	}
	obj, err := interp.Object(args[1].String())
	switch category := args[0].String(); category {
	case "object":
		return NewBool(err == nil), nil
	case "class":
		return NewBool(err == nil && obj.IsClass()), nil
	case "metaclass":
		return NewBool(err == nil && obj.IsSubclassOf(interp.classClass)), nil
	case "typeof", "mixin":
		if len(args) != 3 {
			return NewNil(), wrongArgs("info object isa " + category + " objectName className")
		}
		if err != nil {
			return NewBool(false), nil
		}
		cls, cerr := interp.Class(args[2].String())
		if cerr != nil {
			return NewNil(), cerr
		}
		if category == "mixin" {
			for _, m := range obj.ObjectMixins() {
				if m == cls {
					return NewBool(true), nil
				}
			}
			return NewBool(false), nil
		}
		return NewBool(obj.IsA(cls)), nil
	default:
		return NewNil(), newError("LOOKUP", "SUBCOMMAND",
			"unknown isa category %q: must be class, metaclass, mixin, object or typeof", category)
	}
}

func infoClass(interp *Interp, sub string, args []Value) (Value, error) {
	cls, err := interp.Class(args[0].String())
	if err != nil {
		return NewNil(), err
	}
	switch sub {
	case "superclass", "superclasses":
		return NewList(objectRefs(cls.Superclasses())), nil
	case "mixins":
		return NewList(objectRefs(cls.Mixins())), nil
	case "filters":
		return NewStrings(cls.Filters()...), nil
	case "instances":
		return NewList(objectRefs(cls.Instances())), nil
	case "subclasses":
		return NewList(objectRefs(cls.Subclasses())), nil
	case "methods":
		all := len(args) > 1 && args[1].String() == "-all"
		return NewStrings(cls.ClassMethodNames(all)...), nil
	case "delegate":
		if d := interp.Delegate(cls); d != nil {
			return NewObjectRef(d), nil
		}
		return NewString(""), nil
	default:
		return NewNil(), newError("LOOKUP", "SUBCOMMAND",
			"unknown info class subcommand %q: must be delegate, filters, instances, methods, mixins, subclasses or superclass", sub)
	}
}

// splitElement splits "name(key)" into its parts.
func splitElement(ref string) (name, key string, isElement bool) {
	open := strings.IndexByte(ref, '(')
	if open <= 0 || !strings.HasSuffix(ref, ")") {
		return ref, "", false
	}
	return ref[:open], ref[open+1 : len(ref)-1], true
}

func builtinSet(interp *Interp, _ *Namespace, args []Value) (Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return NewNil(), wrongArgs("set objectName varName ?newValue?")
	}
	obj, err := interp.Object(args[0].String())
	if err != nil {
		return NewNil(), err
	}
	ns := obj.Namespace()
	name, key, isElement := splitElement(args[1].String())
	if len(args) == 3 {
		if isElement {
			err = ns.SetElement(name, key, args[2])
		} else {
			err = ns.SetVar(name, args[2])
		}
		if err != nil {
			return NewNil(), err
		}
		return args[2], nil
	}
	if !isElement {
		return ns.GetVar(name)
	}
	v := ns.Var(name)
	if v == nil {
		return NewNil(), newError("LOOKUP", "VARNAME", "can't read \"%s(%s)\": no such variable", name, key)
	}
	val, ok := v.Element(key)
	if !ok {
		return NewNil(), newError("LOOKUP", "VARNAME", "can't read \"%s(%s)\": no such element in array", name, key)
	}
	return val, nil
}

func builtinUnset(interp *Interp, _ *Namespace, args []Value) (Value, error) {
	if len(args) < 2 {
		return NewNil(), wrongArgs("unset objectName varName ?varName ...?")
	}
	obj, err := interp.Object(args[0].String())
	if err != nil {
		return NewNil(), err
	}
	for _, name := range args[1:] {
		if err := obj.Namespace().UnsetVar(name.String()); err != nil {
			return NewNil(), err
		}
	}
	return NewNil(), nil
}

func builtinRename(interp *Interp, _ *Namespace, args []Value) (Value, error) {
	if len(args) != 2 {
		return NewNil(), wrongArgs("rename oldName newName")
	}
	return NewNil(), interp.RenameCommand(args[0].String(), args[1].String())
}

func builtinProc(interp *Interp, _ *Namespace, args []Value) (Value, error) {
	if len(args) != 4 {
		return NewNil(), wrongArgs("proc objectName name args body")
	}
	obj, err := interp.Object(args[0].String())
	if err != nil {
		return NewNil(), err
	}
	params, err := ParseParams(args[2].List())
	if err != nil {
		return NewNil(), err
	}
	_, err = obj.Namespace().DefineProc(args[1].String(), params, args[3].String(), nil)
	return NewNil(), err
}

func builtinDelegateName(interp *Interp, _ *Namespace, args []Value) (Value, error) {
	if len(args) != 1 {
		return NewNil(), wrongArgs("::oo::DelegateName class")
	}
	obj, err := interp.Object(args[0].String())
	if err != nil {
		return NewNil(), err
	}
	return NewString(DelegateName(obj)), nil
}

func builtinMixinClassDelegates(interp *Interp, _ *Namespace, args []Value) (Value, error) {
	if len(args) != 1 {
		return NewNil(), wrongArgs("::oo::MixinClassDelegates class")
	}
	obj, err := interp.Object(args[0].String())
	if err != nil {
		return NewNil(), nil
	}
	return NewNil(), interp.MixinClassDelegates(obj)
}

func valueStrings(items []Value) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.String()
	}
	return out
}

// RenameCommand moves a command to a new name; an empty new name deletes it.
func (interp *Interp) RenameCommand(oldName, newName string) error {
	cmd := interp.LookupCommand(interp.global, oldName)
	if cmd == nil {
		return newError("LOOKUP", "COMMAND", "can't rename %q: command doesn't exist", oldName)
	}
	if newName == "" {
		interp.deleteCommand(cmd)
		return nil
	}
	if interp.LookupCommand(interp.global, newName) != nil {
		return newError("OBJECT", "EXISTS", "can't rename to %q: command already exists", newName)
	}
	delete(cmd.ns.commands, cmd.tail)
	if _, err := interp.createCommand(interp.global, newName, cmd); err != nil {
		cmd.ns.commands[cmd.tail] = cmd
		return err
	}
	return nil
}
